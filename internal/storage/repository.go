package storage

import "github.com/ericogr/gridsiege/internal/game"

//go:generate go tool mockgen -destination=./mocks/repository_mock.go -package=mocks . Repository

type Repository interface {
	// AppendDamageLog writes one diagnostic row. Rows are never updated.
	AppendDamageLog(entry game.DamageLogEntry) error
	ListDamageLog(battleID string, limit int) ([]game.DamageLogEntry, error)

	// SaveBattle inserts or updates the record keyed by BattleID.
	SaveBattle(rec *game.BattleRecord) error
	GetBattle(battleID string) (*game.BattleRecord, error)
	ListBattles(limit int) ([]game.BattleRecord, error)
}
