package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID     uuid.UUID `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	Name   string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Coins  int       `gorm:"not null;default:0;column:coins" json:"coins"`
	Wallet int       `gorm:"not null;default:0;column:wallet" json:"wallet"`

	// House-rule strike tracking. BrokenRules holds the indices of the
	// rules broken since the last reset.
	Strikes     int            `gorm:"not null;default:0;column:strikes" json:"strikes"`
	BrokenRules datatypes.JSON `gorm:"column:broken_rules" json:"broken_rules"`

	AvatarColor string `gorm:"column:avatar_color" json:"avatar_color"`
	AvatarPNG   []byte `gorm:"column:avatar_png" json:"-"`

	CreatedAt time.Time      `gorm:"not null;default:(now())" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:(now())" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }
