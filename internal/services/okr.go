package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	okrrepo "github.com/diperi/dugout-backend/internal/data/repos/okr"
	tasksrepo "github.com/diperi/dugout-backend/internal/data/repos/tasks"
	userrepo "github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/apierr"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

// ObjectiveRevertedMessage is returned when a "done" transition is rejected
// and the objective is reverted.
const ObjectiveRevertedMessage = "Cannot mark Objective done when some Key Results are not done or below threshold. Reverting to in-progress."

// ObjectiveView is an objective with per-KR computed progress.
type ObjectiveView struct {
	Objective  *types.Objective `json:"objective"`
	KeyResults []KeyResultView  `json:"key_results"`
	Message    string           `json:"message,omitempty"`
}

type KeyResultView struct {
	types.KeyResult
	Progress float64 `json:"progress"`
}

type ObjectiveInput struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Coins       int                   `json:"coins"`
	Status      types.ObjectiveStatus `json:"status"`
}

type KeyResultInput struct {
	ID               uuid.UUID             `json:"kr_id,omitempty"`
	Title            string                `json:"title"`
	Coins            int                   `json:"coins"`
	ThresholdPercent float64               `json:"threshold_percent"`
	TaskTemplateID   uuid.UUID             `json:"task_template_id"`
	StartDate        string                `json:"start_date"`
	EndDate          string                `json:"end_date"`
	Status           types.KeyResultStatus `json:"status"`
}

type OKRService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]ObjectiveView, error)
	Create(ctx context.Context, userID uuid.UUID, input ObjectiveInput) (*ObjectiveView, error)
	Update(ctx context.Context, userID, objectiveID uuid.UUID, input ObjectiveInput) (*ObjectiveView, error)
	Delete(ctx context.Context, userID, objectiveID uuid.UUID) error

	UpsertKeyResult(ctx context.Context, userID, objectiveID uuid.UUID, input KeyResultInput) (*ObjectiveView, error)
	DeleteKeyResult(ctx context.Context, userID, objectiveID, krID uuid.UUID) (*ObjectiveView, error)
}

type okrService struct {
	db            *gorm.DB
	log           *logger.Logger
	objectiveRepo okrrepo.ObjectiveRepo
	taskRepo      tasksrepo.TaskRepo
	userRepo      userrepo.UserRepo
}

func NewOKRService(db *gorm.DB, log *logger.Logger, objectiveRepo okrrepo.ObjectiveRepo, taskRepo tasksrepo.TaskRepo, userRepo userrepo.UserRepo) OKRService {
	serviceLog := log.With("service", "OKRService")
	return &okrService{
		db:            db,
		log:           serviceLog,
		objectiveRepo: objectiveRepo,
		taskRepo:      taskRepo,
		userRepo:      userRepo,
	}
}

// computeProgress is 100 * completed / assigned over the KR's template and
// date range, inclusive. Exactly zero when nothing is assigned.
func (os *okrService) computeProgress(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kr types.KeyResult) (float64, error) {
	assigned, completed, err := os.taskRepo.CountForUserInRange(ctx, tx, userID, kr.TaskTemplateID, kr.StartDate, kr.EndDate)
	if err != nil {
		return 0, fmt.Errorf("error counting tasks for key result: %w", err)
	}
	if assigned == 0 {
		return 0, nil
	}
	return 100 * float64(completed) / float64(assigned), nil
}

func (os *okrService) ListForUser(ctx context.Context, userID uuid.UUID) ([]ObjectiveView, error) {
	objectives, err := os.objectiveRepo.ListForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing objectives: %w", err)
	}

	views := make([]ObjectiveView, 0, len(objectives))
	for _, obj := range objectives {
		view, err := os.buildView(ctx, nil, obj)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (os *okrService) buildView(ctx context.Context, tx *gorm.DB, obj *types.Objective) (*ObjectiveView, error) {
	krs, err := obj.DecodeKeyResults()
	if err != nil {
		return nil, fmt.Errorf("error decoding key results: %w", err)
	}
	krViews := make([]KeyResultView, 0, len(krs))
	for _, kr := range krs {
		progress, err := os.computeProgress(ctx, tx, obj.UserID, kr)
		if err != nil {
			return nil, err
		}
		krViews = append(krViews, KeyResultView{KeyResult: kr, Progress: progress})
	}
	return &ObjectiveView{Objective: obj, KeyResults: krViews}, nil
}

func (os *okrService) Create(ctx context.Context, userID uuid.UUID, input ObjectiveInput) (*ObjectiveView, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.BadRequest("objective_title_required", errors.New("objective title is required"))
	}
	if input.Coins < 0 {
		return nil, apierr.BadRequest("objective_coins_negative", errors.New("objective coins must not be negative"))
	}

	var view *ObjectiveView
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		obj := &types.Objective{
			UserID:      userID,
			Title:       strings.TrimSpace(input.Title),
			Description: input.Description,
			Coins:       input.Coins,
			Status:      types.ObjectiveInProgress,
			KeyResults:  []byte("[]"),
		}
		if _, err := os.objectiveRepo.Create(ctx, tx, obj); err != nil {
			return fmt.Errorf("error creating objective: %w", err)
		}

		// A brand-new objective may be created directly as done; with zero
		// key results the condition holds vacuously and coins are awarded.
		message := ""
		if input.Status == types.ObjectiveDone {
			m, err := os.applyObjectiveStatus(ctx, tx, obj, types.ObjectiveDone)
			if err != nil {
				return err
			}
			message = m
			if err := os.objectiveRepo.Save(ctx, tx, obj); err != nil {
				return fmt.Errorf("error saving objective: %w", err)
			}
		}

		v, err := os.buildView(ctx, tx, obj)
		if err != nil {
			return err
		}
		v.Message = message
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (os *okrService) Update(ctx context.Context, userID, objectiveID uuid.UUID, input ObjectiveInput) (*ObjectiveView, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.BadRequest("objective_title_required", errors.New("objective title is required"))
	}

	var view *ObjectiveView
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		obj, err := os.getOwned(ctx, tx, userID, objectiveID)
		if err != nil {
			return err
		}

		obj.Title = strings.TrimSpace(input.Title)
		obj.Description = input.Description
		obj.Coins = input.Coins

		message, err := os.applyObjectiveStatus(ctx, tx, obj, input.Status)
		if err != nil {
			return err
		}

		if err := os.objectiveRepo.Save(ctx, tx, obj); err != nil {
			return fmt.Errorf("error saving objective: %w", err)
		}

		v, err := os.buildView(ctx, tx, obj)
		if err != nil {
			return err
		}
		v.Message = message
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// applyObjectiveStatus performs the requested status transition, enforcing
// the done-entry invariant and keeping the coin award in step with the
// CoinsAwarded flag. Returns a user-facing message when the transition was
// rejected.
func (os *okrService) applyObjectiveStatus(ctx context.Context, tx *gorm.DB, obj *types.Objective, requested types.ObjectiveStatus) (string, error) {
	if requested != types.ObjectiveDone {
		requested = types.ObjectiveInProgress
	}

	previous := obj.Status
	message := ""

	if requested == types.ObjectiveDone {
		ok, err := os.allKeyResultsSatisfied(ctx, tx, obj)
		if err != nil {
			return "", err
		}
		if !ok {
			requested = types.ObjectiveInProgress
			message = ObjectiveRevertedMessage
		}
	}

	obj.Status = requested

	// Award exactly once on the edge into done, reverse exactly once on
	// the edge out, tracked by the stored flag.
	if previous != types.ObjectiveDone && obj.Status == types.ObjectiveDone && !obj.CoinsAwarded {
		if obj.Coins > 0 {
			if err := os.userRepo.AdjustCoins(ctx, tx, obj.UserID, obj.Coins); err != nil {
				return "", fmt.Errorf("error awarding objective coins: %w", err)
			}
		}
		obj.CoinsAwarded = true
		os.log.Info("Objective coins awarded", "objective_id", obj.ID, "coins", obj.Coins)
	}
	if obj.Status != types.ObjectiveDone && obj.CoinsAwarded {
		if obj.Coins > 0 {
			if err := os.userRepo.AdjustCoins(ctx, tx, obj.UserID, -obj.Coins); err != nil {
				return "", fmt.Errorf("error reversing objective coins: %w", err)
			}
		}
		obj.CoinsAwarded = false
		os.log.Info("Objective coins reversed", "objective_id", obj.ID, "coins", obj.Coins)
	}

	return message, nil
}

func (os *okrService) allKeyResultsSatisfied(ctx context.Context, tx *gorm.DB, obj *types.Objective) (bool, error) {
	krs, err := obj.DecodeKeyResults()
	if err != nil {
		return false, fmt.Errorf("error decoding key results: %w", err)
	}
	for _, kr := range krs {
		if kr.Status != types.KeyResultDone {
			return false, nil
		}
		progress, err := os.computeProgress(ctx, tx, obj.UserID, kr)
		if err != nil {
			return false, err
		}
		if progress < kr.ThresholdPercent {
			return false, nil
		}
	}
	return true, nil
}

func (os *okrService) Delete(ctx context.Context, userID, objectiveID uuid.UUID) error {
	return os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		obj, err := os.getOwned(ctx, tx, userID, objectiveID)
		if err != nil {
			return err
		}
		// Deleting a done objective takes its award back with it.
		if obj.CoinsAwarded && obj.Coins > 0 {
			if err := os.userRepo.AdjustCoins(ctx, tx, obj.UserID, -obj.Coins); err != nil {
				return fmt.Errorf("error reversing objective coins: %w", err)
			}
		}
		if err := os.objectiveRepo.Delete(ctx, tx, objectiveID); err != nil {
			return fmt.Errorf("error deleting objective: %w", err)
		}
		return nil
	})
}

func (os *okrService) UpsertKeyResult(ctx context.Context, userID, objectiveID uuid.UUID, input KeyResultInput) (*ObjectiveView, error) {
	if err := validateKeyResultInput(input); err != nil {
		return nil, err
	}

	var view *ObjectiveView
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		obj, err := os.getOwned(ctx, tx, userID, objectiveID)
		if err != nil {
			return err
		}
		krs, err := obj.DecodeKeyResults()
		if err != nil {
			return fmt.Errorf("error decoding key results: %w", err)
		}

		var (
			kr       *types.KeyResult
			previous types.KeyResult
			isNew    bool
		)
		if input.ID != uuid.Nil {
			for i := range krs {
				if krs[i].ID == input.ID {
					kr = &krs[i]
					previous = krs[i]
					break
				}
			}
		}
		if kr == nil {
			krs = append(krs, types.KeyResult{
				ID:     uuid.New(),
				Status: types.KeyResultPending,
			})
			kr = &krs[len(krs)-1]
			isNew = true
		}

		kr.Title = strings.TrimSpace(input.Title)
		kr.Coins = input.Coins
		kr.ThresholdPercent = input.ThresholdPercent
		kr.TaskTemplateID = input.TaskTemplateID
		kr.StartDate = input.StartDate
		kr.EndDate = input.EndDate
		kr.Status = input.Status

		progress, err := os.computeProgress(ctx, tx, userID, *kr)
		if err != nil {
			return err
		}

		// Transition edges. AwardGranted records whether coins actually
		// moved, so a threshold drop after the fact cannot cause a
		// double reversal.
		wasDone := !isNew && previous.Status == types.KeyResultDone
		isDone := kr.Status == types.KeyResultDone

		if wasDone && !isDone && previous.AwardGranted {
			if err := os.userRepo.AdjustCoins(ctx, tx, userID, -previous.Coins); err != nil {
				return fmt.Errorf("error reversing key result coins: %w", err)
			}
			kr.AwardGranted = false
			os.log.Info("Key result coins reversed", "objective_id", obj.ID, "kr_id", kr.ID, "coins", previous.Coins)
		}
		if !wasDone && isDone {
			if progress >= kr.ThresholdPercent {
				if kr.Coins > 0 {
					if err := os.userRepo.AdjustCoins(ctx, tx, userID, kr.Coins); err != nil {
						return fmt.Errorf("error awarding key result coins: %w", err)
					}
				}
				kr.AwardGranted = true
				os.log.Info("Key result coins awarded", "objective_id", obj.ID, "kr_id", kr.ID, "coins", kr.Coins)
			} else {
				kr.AwardGranted = false
			}
		}

		if err := obj.EncodeKeyResults(krs); err != nil {
			return fmt.Errorf("error encoding key results: %w", err)
		}

		// Structural change may have broken the objective's done
		// condition; reconcile before saving.
		message, err := os.reconcileObjective(ctx, tx, obj)
		if err != nil {
			return err
		}
		if err := os.objectiveRepo.Save(ctx, tx, obj); err != nil {
			return fmt.Errorf("error saving objective: %w", err)
		}

		v, err := os.buildView(ctx, tx, obj)
		if err != nil {
			return err
		}
		v.Message = message
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (os *okrService) DeleteKeyResult(ctx context.Context, userID, objectiveID, krID uuid.UUID) (*ObjectiveView, error) {
	var view *ObjectiveView
	err := os.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		obj, err := os.getOwned(ctx, tx, userID, objectiveID)
		if err != nil {
			return err
		}
		krs, err := obj.DecodeKeyResults()
		if err != nil {
			return fmt.Errorf("error decoding key results: %w", err)
		}

		idx := -1
		for i := range krs {
			if krs[i].ID == krID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apierr.NotFound("key_result_not_found", fmt.Errorf("key result %s not found", krID))
		}

		removed := krs[idx]
		if removed.Status == types.KeyResultDone && removed.AwardGranted && removed.Coins > 0 {
			if err := os.userRepo.AdjustCoins(ctx, tx, userID, -removed.Coins); err != nil {
				return fmt.Errorf("error reversing key result coins: %w", err)
			}
		}

		krs = append(krs[:idx], krs[idx+1:]...)
		if err := obj.EncodeKeyResults(krs); err != nil {
			return fmt.Errorf("error encoding key results: %w", err)
		}

		message, err := os.reconcileObjective(ctx, tx, obj)
		if err != nil {
			return err
		}
		if err := os.objectiveRepo.Save(ctx, tx, obj); err != nil {
			return fmt.Errorf("error saving objective: %w", err)
		}

		v, err := os.buildView(ctx, tx, obj)
		if err != nil {
			return err
		}
		v.Message = message
		view = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// reconcileObjective reverts a done objective whose key results no longer
// all qualify, reversing its coin award. Runs after every key result
// create, update, and delete.
func (os *okrService) reconcileObjective(ctx context.Context, tx *gorm.DB, obj *types.Objective) (string, error) {
	if obj.Status != types.ObjectiveDone {
		return "", nil
	}
	ok, err := os.allKeyResultsSatisfied(ctx, tx, obj)
	if err != nil {
		return "", err
	}
	if ok {
		return "", nil
	}

	obj.Status = types.ObjectiveInProgress
	if obj.CoinsAwarded {
		if obj.Coins > 0 {
			if err := os.userRepo.AdjustCoins(ctx, tx, obj.UserID, -obj.Coins); err != nil {
				return "", fmt.Errorf("error reversing objective coins: %w", err)
			}
		}
		obj.CoinsAwarded = false
	}
	os.log.Info("Objective reverted to in-progress", "objective_id", obj.ID)
	return ObjectiveRevertedMessage, nil
}

func (os *okrService) getOwned(ctx context.Context, tx *gorm.DB, userID, objectiveID uuid.UUID) (*types.Objective, error) {
	obj, err := os.objectiveRepo.GetByID(ctx, tx, objectiveID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("objective_not_found", fmt.Errorf("objective %s not found", objectiveID))
		}
		return nil, fmt.Errorf("error fetching objective: %w", err)
	}
	if obj.UserID != userID {
		return nil, apierr.NotFound("objective_not_found", fmt.Errorf("objective %s not found", objectiveID))
	}
	return obj, nil
}

func validateKeyResultInput(input KeyResultInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return apierr.BadRequest("key_result_title_required", errors.New("key result title is required"))
	}
	if input.Coins < 0 {
		return apierr.BadRequest("key_result_coins_negative", errors.New("key result coins must not be negative"))
	}
	if input.ThresholdPercent < 0 || input.ThresholdPercent > 100 {
		return apierr.BadRequest("key_result_bad_threshold", errors.New("threshold must be between 0 and 100"))
	}
	if input.TaskTemplateID == uuid.Nil {
		return apierr.BadRequest("key_result_template_required", errors.New("key result requires a task template"))
	}
	for _, d := range []string{input.StartDate, input.EndDate} {
		if _, err := time.Parse(types.DateFormat, d); err != nil {
			return apierr.BadRequest("key_result_bad_date", fmt.Errorf("bad date %q: want YYYY-MM-DD", d))
		}
	}
	switch input.Status {
	case types.KeyResultPending, types.KeyResultInProgress, types.KeyResultDone:
	default:
		return apierr.BadRequest("key_result_bad_status", fmt.Errorf("unknown status %q", input.Status))
	}
	return nil
}
