package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
)

// TaskTemplate is admin-edited reference data: what a chore is called and
// what it pays.
type TaskTemplate struct {
	ID         uuid.UUID `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	Name       string    `gorm:"not null;column:name" json:"name"`
	Category   string    `gorm:"column:category" json:"category"`
	Coins      int       `gorm:"not null;default:0;column:coins" json:"coins"`
	ImagePath  string    `gorm:"column:image_path" json:"image_path"`
	IsArchived bool      `gorm:"not null;default:false;column:is_archived" json:"is_archived"`

	CreatedAt time.Time      `gorm:"not null;default:(now())" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:(now())" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TaskTemplate) TableName() string { return "task_template" }

// Task is one day's materialized instance of a template for one user.
// Completing it is the only mutation after creation.
type Task struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	TaskTemplateID uuid.UUID  `gorm:"type:uuid;not null;index;column:task_template_id" json:"task_template_id"`
	DateAssigned   string     `gorm:"not null;index;column:date_assigned" json:"date_assigned"`
	Status         TaskStatus `gorm:"not null;default:'PENDING';column:status" json:"status"`
	TimeCompleted  *time.Time `gorm:"column:time_completed" json:"time_completed,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:(now())" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:(now())" json:"updated_at"`
}

func (Task) TableName() string { return "task" }

// TaskSchedule binds a user and a template to the weekdays the task should
// be materialized on.
type TaskSchedule struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	TaskTemplateID uuid.UUID      `gorm:"type:uuid;not null;index;column:task_template_id" json:"task_template_id"`
	Weekdays       datatypes.JSON `gorm:"not null;column:weekdays" json:"weekdays"`

	CreatedAt time.Time `gorm:"not null;default:(now())" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:(now())" json:"updated_at"`
}

func (TaskSchedule) TableName() string { return "task_schedule" }
