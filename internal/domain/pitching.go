package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PitchZoneMiss is the zone recorded for a pitch that hit no target.
const PitchZoneMiss = "miss"

// Pitch is one entry in a pitching game's append-only log.
type Pitch struct {
	Timestamp time.Time `json:"timestamp"`
	Zone      string    `json:"zone"`
	Points    int       `json:"points"`
}

type PitchingGame struct {
	ID     uuid.UUID  `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Status GameStatus `gorm:"not null;default:'active';column:status" json:"status"`

	Pitches    datatypes.JSON `gorm:"column:pitches" json:"pitches"`
	TotalScore int            `gorm:"not null;default:0;column:total_score" json:"total_score"`
	// Accuracy is hits/total as a percentage, set once at game end.
	Accuracy float64 `gorm:"not null;default:0;column:accuracy" json:"accuracy"`

	StartedAt time.Time  `gorm:"not null;column:started_at" json:"started_at"`
	EndedAt   *time.Time `gorm:"column:ended_at" json:"ended_at,omitempty"`
}

func (PitchingGame) TableName() string { return "pitching_game" }

func (g *PitchingGame) DecodePitches() ([]Pitch, error) {
	if len(g.Pitches) == 0 {
		return nil, nil
	}
	var pitches []Pitch
	if err := json.Unmarshal(g.Pitches, &pitches); err != nil {
		return nil, err
	}
	return pitches, nil
}

func (g *PitchingGame) EncodePitches(pitches []Pitch) error {
	raw, err := json.Marshal(pitches)
	if err != nil {
		return err
	}
	g.Pitches = datatypes.JSON(raw)
	return nil
}

type PitchingStats struct {
	ID     uuid.UUID `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"user_id"`

	TotalGames   int     `gorm:"not null;default:0;column:total_games" json:"total_games"`
	TotalPoints  int     `gorm:"not null;default:0;column:total_points" json:"total_points"`
	BestScore    int     `gorm:"not null;default:0;column:best_score" json:"best_score"`
	BestAccuracy float64 `gorm:"not null;default:0;column:best_accuracy" json:"best_accuracy"`

	UpdatedAt time.Time `gorm:"not null;default:(now())" json:"updated_at"`
}

func (PitchingStats) TableName() string { return "pitching_stats" }
