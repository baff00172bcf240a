package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	tasksrepo "github.com/diperi/dugout-backend/internal/data/repos/tasks"
	userrepo "github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/apierr"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type ScheduleInput struct {
	TaskTemplateID uuid.UUID       `json:"task_template_id"`
	Weekdays       []types.Weekday `json:"weekdays"`
}

type ScheduleService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.TaskSchedule, error)
	Upsert(ctx context.Context, userID uuid.UUID, inputs []ScheduleInput) ([]*types.TaskSchedule, error)
	Delete(ctx context.Context, userID, scheduleID uuid.UUID) error

	// RunDaily materializes today's pending tasks for every user with a
	// schedule matching today's weekday. Safe to run repeatedly.
	RunDaily(ctx context.Context) (created int, err error)
}

type scheduleService struct {
	db           *gorm.DB
	log          *logger.Logger
	scheduleRepo tasksrepo.ScheduleRepo
	taskRepo     tasksrepo.TaskRepo
	templateRepo tasksrepo.TemplateRepo
	userRepo     userrepo.UserRepo
}

func NewScheduleService(db *gorm.DB, log *logger.Logger, scheduleRepo tasksrepo.ScheduleRepo, taskRepo tasksrepo.TaskRepo, templateRepo tasksrepo.TemplateRepo, userRepo userrepo.UserRepo) ScheduleService {
	serviceLog := log.With("service", "ScheduleService")
	return &scheduleService{
		db:           db,
		log:          serviceLog,
		scheduleRepo: scheduleRepo,
		taskRepo:     taskRepo,
		templateRepo: templateRepo,
		userRepo:     userRepo,
	}
}

func (ss *scheduleService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.TaskSchedule, error) {
	schedules, err := ss.scheduleRepo.ListForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing schedules: %w", err)
	}
	return schedules, nil
}

func (ss *scheduleService) Upsert(ctx context.Context, userID uuid.UUID, inputs []ScheduleInput) ([]*types.TaskSchedule, error) {
	for _, input := range inputs {
		if input.TaskTemplateID == uuid.Nil {
			return nil, apierr.BadRequest("schedule_template_required", errors.New("schedule requires a task template"))
		}
		for _, day := range input.Weekdays {
			if !day.Valid() {
				return nil, apierr.BadRequest("schedule_bad_weekday", fmt.Errorf("unknown weekday %q", day))
			}
		}
	}

	var results []*types.TaskSchedule
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, input := range inputs {
			weekdaysJSON, err := json.Marshal(input.Weekdays)
			if err != nil {
				return err
			}

			existing, err := ss.scheduleRepo.GetForUserAndTemplate(ctx, tx, userID, input.TaskTemplateID)
			switch {
			case err == nil:
				if err := ss.scheduleRepo.UpdateWeekdays(ctx, tx, existing.ID, datatypes.JSON(weekdaysJSON)); err != nil {
					return fmt.Errorf("error updating schedule: %w", err)
				}
				existing.Weekdays = datatypes.JSON(weekdaysJSON)
				results = append(results, existing)
			case errors.Is(err, gorm.ErrRecordNotFound):
				schedule := &types.TaskSchedule{
					UserID:         userID,
					TaskTemplateID: input.TaskTemplateID,
					Weekdays:       datatypes.JSON(weekdaysJSON),
				}
				created, err := ss.scheduleRepo.Create(ctx, tx, []*types.TaskSchedule{schedule})
				if err != nil {
					return fmt.Errorf("error creating schedule: %w", err)
				}
				results = append(results, created[0])
			default:
				return fmt.Errorf("error fetching schedule: %w", err)
			}

			// A schedule that includes today materializes today's task
			// right away, so the chore list reflects the change without
			// waiting for the next daily run.
			if containsWeekday(input.Weekdays, types.WeekdayOf(time.Now())) {
				if _, err := ss.materializeTask(ctx, tx, userID, input.TaskTemplateID, types.DateOf(time.Now())); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (ss *scheduleService) Delete(ctx context.Context, userID, scheduleID uuid.UUID) error {
	schedules, err := ss.scheduleRepo.ListForUser(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("error listing schedules: %w", err)
	}
	for _, s := range schedules {
		if s.ID == scheduleID {
			return ss.scheduleRepo.Delete(ctx, nil, scheduleID)
		}
	}
	return apierr.NotFound("schedule_not_found", fmt.Errorf("schedule %s not found", scheduleID))
}

func (ss *scheduleService) RunDaily(ctx context.Context) (int, error) {
	today := types.DateOf(time.Now())
	weekday := types.WeekdayOf(time.Now())

	schedules, err := ss.scheduleRepo.ListAll(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error listing schedules: %w", err)
	}

	// Group by user so each user's materialization runs as one unit.
	byUser := make(map[uuid.UUID][]*types.TaskSchedule)
	for _, s := range schedules {
		byUser[s.UserID] = append(byUser[s.UserID], s)
	}

	var (
		g, gctx = errgroup.WithContext(ctx)
		results = make(chan int, len(byUser))
	)
	g.SetLimit(4)

	for userID, userSchedules := range byUser {
		g.Go(func() error {
			count := 0
			err := ss.db.WithContext(gctx).Transaction(func(tx *gorm.DB) error {
				for _, schedule := range userSchedules {
					var weekdays []types.Weekday
					if len(schedule.Weekdays) > 0 {
						if err := json.Unmarshal(schedule.Weekdays, &weekdays); err != nil {
							ss.log.Warn("Skipping schedule with bad weekdays", "schedule_id", schedule.ID, "error", err)
							continue
						}
					}
					if !containsWeekday(weekdays, weekday) {
						continue
					}
					created, err := ss.materializeTask(gctx, tx, userID, schedule.TaskTemplateID, today)
					if err != nil {
						return err
					}
					if created {
						count++
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			results <- count
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	close(results)
	total := 0
	for c := range results {
		total += c
	}

	ss.log.Info("Daily task materialization finished", "date", today, "created", total)
	return total, nil
}

func (ss *scheduleService) materializeTask(ctx context.Context, tx *gorm.DB, userID, templateID uuid.UUID, date string) (bool, error) {
	exists, err := ss.taskRepo.Exists(ctx, tx, userID, templateID, date)
	if err != nil {
		return false, fmt.Errorf("error checking for existing task: %w", err)
	}
	if exists {
		return false, nil
	}

	template, err := ss.templateRepo.GetByID(ctx, tx, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ss.log.Warn("Schedule references missing template", "template_id", templateID)
			return false, nil
		}
		return false, fmt.Errorf("error fetching template: %w", err)
	}
	if template.IsArchived {
		return false, nil
	}

	task := &types.Task{
		UserID:         userID,
		TaskTemplateID: templateID,
		DateAssigned:   date,
		Status:         types.TaskPending,
	}
	if _, err := ss.taskRepo.Create(ctx, tx, []*types.Task{task}); err != nil {
		return false, fmt.Errorf("error creating task: %w", err)
	}
	return true, nil
}

func containsWeekday(days []types.Weekday, day types.Weekday) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
