package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ObjectiveStatus string

const (
	ObjectiveInProgress ObjectiveStatus = "in-progress"
	ObjectiveDone       ObjectiveStatus = "done"
)

type KeyResultStatus string

const (
	KeyResultPending    KeyResultStatus = "pending"
	KeyResultInProgress KeyResultStatus = "in-progress"
	KeyResultDone       KeyResultStatus = "done"
)

// KeyResult is an embedded sub-entity of an Objective. AwardGranted records
// whether its coins were actually paid out on the transition into "done", so
// a later reversal never has to re-derive eligibility at award time.
type KeyResult struct {
	ID               uuid.UUID       `json:"kr_id"`
	Title            string          `json:"title"`
	Coins            int             `json:"coins"`
	ThresholdPercent float64         `json:"threshold_percent"`
	TaskTemplateID   uuid.UUID       `json:"task_template_id"`
	StartDate        string          `json:"start_date"`
	EndDate          string          `json:"end_date"`
	Status           KeyResultStatus `json:"status"`
	AwardGranted     bool            `json:"award_granted"`
}

// Objective is a goal with an ordered list of embedded KeyResults.
// CoinsAwarded tracks the objective-level award edge the same way
// AwardGranted does for a key result.
type Objective struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Title        string          `gorm:"not null;column:title" json:"title"`
	Description  string          `gorm:"column:description" json:"description"`
	Coins        int             `gorm:"not null;default:0;column:coins" json:"coins"`
	Status       ObjectiveStatus `gorm:"not null;default:'in-progress';column:status" json:"status"`
	CoinsAwarded bool            `gorm:"not null;default:false;column:coins_awarded" json:"coins_awarded"`
	KeyResults   datatypes.JSON  `gorm:"column:key_results" json:"key_results"`

	CreatedAt time.Time      `gorm:"not null;default:(now())" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:(now())" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Objective) TableName() string { return "okr_objective" }

func (o *Objective) DecodeKeyResults() ([]KeyResult, error) {
	if len(o.KeyResults) == 0 {
		return nil, nil
	}
	var krs []KeyResult
	if err := json.Unmarshal(o.KeyResults, &krs); err != nil {
		return nil, err
	}
	return krs, nil
}

func (o *Objective) EncodeKeyResults(krs []KeyResult) error {
	raw, err := json.Marshal(krs)
	if err != nil {
		return err
	}
	o.KeyResults = datatypes.JSON(raw)
	return nil
}
