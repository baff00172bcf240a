package tasks

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type ScheduleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, schedules []*types.TaskSchedule) ([]*types.TaskSchedule, error)
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TaskSchedule, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.TaskSchedule, error)
	GetForUserAndTemplate(ctx context.Context, tx *gorm.DB, userID, templateID uuid.UUID) (*types.TaskSchedule, error)
	UpdateWeekdays(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID, weekdays datatypes.JSON) error
	Delete(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID) error
}

type scheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRepo {
	repoLog := baseLog.With("repo", "ScheduleRepo")
	return &scheduleRepo{db: db, log: repoLog}
}

func (sr *scheduleRepo) Create(ctx context.Context, tx *gorm.DB, schedules []*types.TaskSchedule) ([]*types.TaskSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	if len(schedules) == 0 {
		return []*types.TaskSchedule{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

func (sr *scheduleRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.TaskSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.TaskSchedule
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *scheduleRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.TaskSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.TaskSchedule
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *scheduleRepo) GetForUserAndTemplate(ctx context.Context, tx *gorm.DB, userID, templateID uuid.UUID) (*types.TaskSchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.TaskSchedule
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND task_template_id = ?", userID, templateID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *scheduleRepo) UpdateWeekdays(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID, weekdays datatypes.JSON) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.TaskSchedule{}).
		Where("id = ?", scheduleID).
		Update("weekdays", weekdays).Error
}

func (sr *scheduleRepo) Delete(ctx context.Context, tx *gorm.DB, scheduleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", scheduleID).
		Delete(&types.TaskSchedule{}).Error
}
