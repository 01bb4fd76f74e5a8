package game

import (
	"time"

	"gorm.io/gorm"
)

// AttributeType tags a grid row or column. Using a string type keeps config
// files and API payloads readable.
type AttributeType string

const (
	AttributeNone   AttributeType = "none"
	AttributeSword  AttributeType = "sword"
	AttributeShield AttributeType = "shield"
	AttributeStaff  AttributeType = "staff"
	AttributeCross  AttributeType = "cross"
	AttributeCandy  AttributeType = "candy"
)

// Valid reports whether a is one of the known attribute tags.
func (a AttributeType) Valid() bool {
	switch a {
	case AttributeNone, AttributeSword, AttributeShield, AttributeStaff, AttributeCross, AttributeCandy:
		return true
	}
	return false
}

// Axis selects rows or columns of the grid.
type Axis string

const (
	AxisRow    Axis = "row"
	AxisColumn Axis = "col"
)

// Outcome is the win/lose state of a battle.
type Outcome string

const (
	OutcomeOngoing Outcome = "ongoing"
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
)

// Finished reports whether no further turns can be played.
func (o Outcome) Finished() bool { return o == OutcomeVictory || o == OutcomeDefeat }

// BattleRecord is the persisted summary of a finished (or abandoned) battle.
type BattleRecord struct {
	gorm.Model
	BattleID   string    `json:"battle_id" gorm:"uniqueIndex;size:36"`
	Outcome    Outcome   `json:"outcome" gorm:"size:16"`
	Turns      int       `json:"turns"`
	PlayerHP   int       `json:"player_hp"`
	Seed       int64     `json:"seed"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store finished battles under a descriptive table name.
func (BattleRecord) TableName() string { return "battle_records" }

// DamageLogEntry is one append-only diagnostic row written for every damage
// application. It is never read back by the combat core.
type DamageLogEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BattleID  string    `json:"battle_id" gorm:"index;size:36"`
	At        time.Time `json:"at"`
	Origin    string    `json:"origin" gorm:"size:64"`
	Target    string    `json:"target" gorm:"size:64"`
	Requested int       `json:"requested"`
	Applied   int       `json:"applied"`
	Absorbed  int       `json:"absorbed"`
	HPBefore  int       `json:"hp_before"`
	HPAfter   int       `json:"hp_after"`
}

func (DamageLogEntry) TableName() string { return "damage_log" }
