package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	tasksrepo "github.com/diperi/dugout-backend/internal/data/repos/tasks"
	userrepo "github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/apierr"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

// TodayTask is a task enriched with its template's display fields, the shape
// the chore list renders.
type TodayTask struct {
	ID            uuid.UUID        `json:"id"`
	TemplateID    uuid.UUID        `json:"task_template_id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Coins         int              `json:"coins"`
	ImagePath     string           `json:"image_path"`
	Status        types.TaskStatus `json:"status"`
	TimeCompleted *time.Time       `json:"time_completed,omitempty"`
}

type TaskService interface {
	TodayForUser(ctx context.Context, userID uuid.UUID) ([]TodayTask, error)
	Complete(ctx context.Context, userID, taskID uuid.UUID) (*types.Task, error)
}

type taskService struct {
	db           *gorm.DB
	log          *logger.Logger
	taskRepo     tasksrepo.TaskRepo
	templateRepo tasksrepo.TemplateRepo
	userRepo     userrepo.UserRepo
}

func NewTaskService(db *gorm.DB, log *logger.Logger, taskRepo tasksrepo.TaskRepo, templateRepo tasksrepo.TemplateRepo, userRepo userrepo.UserRepo) TaskService {
	serviceLog := log.With("service", "TaskService")
	return &taskService{
		db:           db,
		log:          serviceLog,
		taskRepo:     taskRepo,
		templateRepo: templateRepo,
		userRepo:     userRepo,
	}
}

func (ts *taskService) TodayForUser(ctx context.Context, userID uuid.UUID) ([]TodayTask, error) {
	today := types.DateOf(time.Now())

	tasks, err := ts.taskRepo.ListForUserOnDate(ctx, nil, userID, today)
	if err != nil {
		return nil, fmt.Errorf("error listing today's tasks: %w", err)
	}

	templateIDs := make([]uuid.UUID, 0, len(tasks))
	seen := make(map[uuid.UUID]bool, len(tasks))
	for _, t := range tasks {
		if !seen[t.TaskTemplateID] {
			seen[t.TaskTemplateID] = true
			templateIDs = append(templateIDs, t.TaskTemplateID)
		}
	}

	templates, err := ts.templateRepo.GetByIDs(ctx, nil, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("error fetching templates: %w", err)
	}
	templateByID := make(map[uuid.UUID]*types.TaskTemplate, len(templates))
	for _, tmpl := range templates {
		templateByID[tmpl.ID] = tmpl
	}

	result := make([]TodayTask, 0, len(tasks))
	for _, t := range tasks {
		enriched := TodayTask{
			ID:            t.ID,
			TemplateID:    t.TaskTemplateID,
			Status:        t.Status,
			TimeCompleted: t.TimeCompleted,
		}
		if tmpl, ok := templateByID[t.TaskTemplateID]; ok {
			enriched.Name = tmpl.Name
			enriched.Category = tmpl.Category
			enriched.Coins = tmpl.Coins
			enriched.ImagePath = tmpl.ImagePath
		}
		result = append(result, enriched)
	}
	return result, nil
}

// Complete marks a task COMPLETED and credits the template's coins in one
// transaction. Completing an already-completed task is a no-op.
func (ts *taskService) Complete(ctx context.Context, userID, taskID uuid.UUID) (*types.Task, error) {
	var completed *types.Task

	err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := ts.taskRepo.GetByID(ctx, tx, taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("task_not_found", fmt.Errorf("task %s not found", taskID))
			}
			return fmt.Errorf("error fetching task: %w", err)
		}
		if task.UserID != userID {
			return apierr.NotFound("task_not_found", fmt.Errorf("task %s does not belong to profile", taskID))
		}
		if task.Status == types.TaskCompleted {
			completed = task
			return nil
		}

		template, err := ts.templateRepo.GetByID(ctx, tx, task.TaskTemplateID)
		if err != nil {
			return fmt.Errorf("error fetching template: %w", err)
		}

		now := time.Now()
		if err := ts.taskRepo.MarkCompleted(ctx, tx, task.ID, now); err != nil {
			return fmt.Errorf("error completing task: %w", err)
		}
		if template.Coins > 0 {
			if err := ts.userRepo.AdjustCoins(ctx, tx, userID, template.Coins); err != nil {
				return fmt.Errorf("error crediting coins: %w", err)
			}
		}

		task.Status = types.TaskCompleted
		task.TimeCompleted = &now
		completed = task

		ts.log.Info("Task completed", "task_id", task.ID, "profile_id", userID, "coins", template.Coins)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}
