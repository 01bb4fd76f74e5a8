package storage

import (
	"github.com/ericogr/gridsiege/internal/constants"
	"github.com/ericogr/gridsiege/internal/game"
	"github.com/ericogr/gridsiege/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenAndMigrate opens the sqlite database and keeps the schema current via
// AutoMigrate. Nothing is seeded: battles only write here.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&game.BattleRecord{}, &game.DamageLogEntry{}); err != nil {
		return nil, err
	}
	logging.Info("database ready", logging.Fields{constants.LogFieldPath: dataSourceName})
	return db, nil
}
