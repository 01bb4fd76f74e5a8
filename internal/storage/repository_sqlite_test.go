package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ericogr/gridsiege/internal/game"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := OpenAndMigrate(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewSQLiteRepository(db)
}

func TestDamageLogAppendOnly(t *testing.T) {
	repo := newTestRepo(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for i, target := range []string{"slime", "player", "slime"} {
		err := repo.AppendDamageLog(game.DamageLogEntry{BattleID: "b1", At: at, Origin: "x", Target: target, Requested: i + 1, Applied: i + 1})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if err := repo.AppendDamageLog(game.DamageLogEntry{BattleID: "other", Target: "ogre"}); err != nil {
		t.Fatalf("append other: %v", err)
	}
	entries, err := repo.ListDamageLog("b1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Requested != 1 || entries[2].Requested != 3 || entries[1].Target != "player" {
		t.Fatalf("entries out of order: %+v", entries)
	}
	limited, err := repo.ListDamageLog("b1", 2)
	if err != nil || len(limited) != 2 {
		t.Fatalf("expected 2 limited entries, got %d (%v)", len(limited), err)
	}
}

func TestSaveBattleUpserts(t *testing.T) {
	repo := newTestRepo(t)
	rec := &game.BattleRecord{BattleID: "b1", Outcome: game.OutcomeOngoing, Turns: 1, Seed: 42, FinishedAt: time.Now()}
	if err := repo.SaveBattle(rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveBattle(&game.BattleRecord{BattleID: "b1", Outcome: game.OutcomeVictory, Turns: 7, PlayerHP: 30, Seed: 42, FinishedAt: time.Now()}); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := repo.GetBattle("b1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Outcome != game.OutcomeVictory || got.Turns != 7 || got.PlayerHP != 30 {
		t.Fatalf("record not updated: %+v", got)
	}
	all, err := repo.ListBattles(10)
	if err != nil || len(all) != 1 {
		t.Fatalf("expected a single record, got %d (%v)", len(all), err)
	}
}

func TestGetBattleMissing(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetBattle("nope"); err == nil {
		t.Fatalf("expected not found")
	}
}
