package storage

import (
	"time"

	"github.com/ericogr/gridsiege/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) AppendDamageLog(entry game.DamageLogEntry) error {
	entry.ID = 0
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	return r.db.Create(&entry).Error
}

// ListDamageLog returns the rows of one battle oldest first. A limit <= 0
// returns everything.
func (r *sqliteRepository) ListDamageLog(battleID string, limit int) ([]game.DamageLogEntry, error) {
	var entries []game.DamageLogEntry
	q := r.db.Where("battle_id = ?", battleID).Order("id asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *sqliteRepository) SaveBattle(rec *game.BattleRecord) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "battle_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"outcome", "turns", "player_hp", "finished_at", "updated_at"}),
	}).Create(rec).Error
}

func (r *sqliteRepository) GetBattle(battleID string) (*game.BattleRecord, error) {
	var rec game.BattleRecord
	if err := r.db.Where("battle_id = ?", battleID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListBattles returns the most recently finished battles first.
func (r *sqliteRepository) ListBattles(limit int) ([]game.BattleRecord, error) {
	var recs []game.BattleRecord
	q := r.db.Order("finished_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}
