package tasks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type TaskRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error)
	GetByID(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) (*types.Task, error)
	ListForUserOnDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) ([]*types.Task, error)
	ListCompletedForUserOnDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) ([]*types.Task, error)
	CountForUserInRange(ctx context.Context, tx *gorm.DB, userID, templateID uuid.UUID, startDate, endDate string) (assigned int64, completed int64, err error)
	Exists(ctx context.Context, tx *gorm.DB, userID, templateID uuid.UUID, date string) (bool, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, taskID uuid.UUID, completedAt time.Time) error
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	repoLog := baseLog.With("repo", "TaskRepo")
	return &taskRepo{db: db, log: repoLog}
}

func (tr *taskRepo) Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	if len(tasks) == 0 {
		return []*types.Task{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (tr *taskRepo) GetByID(ctx context.Context, tx *gorm.DB, taskID uuid.UUID) (*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var result types.Task
	if err := transaction.WithContext(ctx).
		Where("id = ?", taskID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (tr *taskRepo) ListForUserOnDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Task
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date_assigned = ?", userID, date).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *taskRepo) ListCompletedForUserOnDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.Task
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date_assigned = ? AND status = ?", userID, date, types.TaskCompleted).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *taskRepo) CountForUserInRange(ctx context.Context, tx *gorm.DB, userID, templateID uuid.UUID, startDate, endDate string) (int64, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var assigned int64
	if err := transaction.WithContext(ctx).
		Model(&types.Task{}).
		Where("user_id = ? AND task_template_id = ? AND date_assigned >= ? AND date_assigned <= ?",
			userID, templateID, startDate, endDate).
		Count(&assigned).Error; err != nil {
		return 0, 0, err
	}

	var completed int64
	if err := transaction.WithContext(ctx).
		Model(&types.Task{}).
		Where("user_id = ? AND task_template_id = ? AND date_assigned >= ? AND date_assigned <= ? AND status = ?",
			userID, templateID, startDate, endDate, types.TaskCompleted).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}

	return assigned, completed, nil
}

func (tr *taskRepo) Exists(ctx context.Context, tx *gorm.DB, userID, templateID uuid.UUID, date string) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Task{}).
		Where("user_id = ? AND task_template_id = ? AND date_assigned = ?", userID, templateID, date).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (tr *taskRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, taskID uuid.UUID, completedAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Task{}).
		Where("id = ?", taskID).
		Updates(map[string]any{
			"status":         types.TaskCompleted,
			"time_completed": completedAt,
		}).Error
}
