package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Reward struct {
	ID        uuid.UUID `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Cost      int       `gorm:"not null;default:0;column:cost" json:"cost"`
	ImagePath string    `gorm:"column:image_path" json:"image_path"`

	CreatedAt time.Time      `gorm:"not null;default:(now())" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:(now())" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Reward) TableName() string { return "reward" }

// RulePrerequisite references a task template that must be completed today.
// The template id is kept as a string: an empty id is representable and is
// never satisfied.
type RulePrerequisite struct {
	TaskTemplateID string `json:"task_template_id"`
	Description    string `json:"description"`
}

// RuleSettings is the per-rule settings shape used both as base settings and
// as a day-specific override. An empty MaxDailyRedemptions means unlimited.
type RuleSettings struct {
	MaxDailyRedemptions string             `json:"max_daily_redemptions,omitempty"`
	Prerequisites       []RulePrerequisite `json:"prerequisites,omitempty"`
}

// RewardRule gates redemption of one reward for one user. BaseSettings holds
// a RuleSettings document; DaySpecificSettings maps weekday names to
// RuleSettings overlays.
type RewardRule struct {
	ID       uuid.UUID `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	RewardID uuid.UUID `gorm:"type:uuid;not null;index;column:reward_id" json:"reward_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Name     string    `gorm:"column:name" json:"name"`
	Active   bool      `gorm:"not null;default:true;column:active" json:"active"`

	BaseSettings        datatypes.JSON `gorm:"column:base_settings" json:"base_settings"`
	DaySpecificSettings datatypes.JSON `gorm:"column:day_specific_settings" json:"day_specific_settings"`

	CreatedAt time.Time `gorm:"not null;default:(now())" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:(now())" json:"updated_at"`
}

func (RewardRule) TableName() string { return "reward_rule" }

// RewardRedemption is the append-only redemption log. It is the
// authoritative source for "redemptions today" counts.
type RewardRedemption struct {
	ID         uuid.UUID `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	RewardID   uuid.UUID `gorm:"type:uuid;not null;index;column:reward_id" json:"reward_id"`
	RedeemedOn time.Time `gorm:"not null;index;column:redeemed_on" json:"redeemed_on"`
}

func (RewardRedemption) TableName() string { return "reward_redemption" }
