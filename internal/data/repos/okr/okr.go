package okr

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type ObjectiveRepo interface {
	Create(ctx context.Context, tx *gorm.DB, objective *types.Objective) (*types.Objective, error)
	GetByID(ctx context.Context, tx *gorm.DB, objectiveID uuid.UUID) (*types.Objective, error)
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Objective, error)
	Save(ctx context.Context, tx *gorm.DB, objective *types.Objective) error
	Delete(ctx context.Context, tx *gorm.DB, objectiveID uuid.UUID) error
}

type objectiveRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewObjectiveRepo(db *gorm.DB, baseLog *logger.Logger) ObjectiveRepo {
	repoLog := baseLog.With("repo", "ObjectiveRepo")
	return &objectiveRepo{db: db, log: repoLog}
}

func (or *objectiveRepo) Create(ctx context.Context, tx *gorm.DB, objective *types.Objective) (*types.Objective, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	if err := transaction.WithContext(ctx).Create(objective).Error; err != nil {
		return nil, err
	}
	return objective, nil
}

func (or *objectiveRepo) GetByID(ctx context.Context, tx *gorm.DB, objectiveID uuid.UUID) (*types.Objective, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var result types.Objective
	if err := transaction.WithContext(ctx).
		Where("id = ?", objectiveID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (or *objectiveRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Objective, error) {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}

	var results []*types.Objective
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Save persists the full row, key results JSON included. Objective updates
// always go through the reconciliation path in the service, so partial
// column updates are not offered here.
func (or *objectiveRepo) Save(ctx context.Context, tx *gorm.DB, objective *types.Objective) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Objective{}).
		Where("id = ?", objective.ID).
		Updates(map[string]any{
			"title":         objective.Title,
			"description":   objective.Description,
			"coins":         objective.Coins,
			"status":        objective.Status,
			"coins_awarded": objective.CoinsAwarded,
			"key_results":   objective.KeyResults,
		}).Error
}

func (or *objectiveRepo) Delete(ctx context.Context, tx *gorm.DB, objectiveID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = or.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", objectiveID).
		Delete(&types.Objective{}).Error
}
