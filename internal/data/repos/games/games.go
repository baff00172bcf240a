package games

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type BaseballGameRepo interface {
	Create(ctx context.Context, tx *gorm.DB, game *types.BaseballGame) (*types.BaseballGame, error)
	GetByID(ctx context.Context, tx *gorm.DB, gameID uuid.UUID) (*types.BaseballGame, error)
	Save(ctx context.Context, tx *gorm.DB, game *types.BaseballGame) error
	ListRecentForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.BaseballGame, error)
	ListCompletedMultiplayerForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.BaseballGame, error)
}

type baseballGameRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBaseballGameRepo(db *gorm.DB, baseLog *logger.Logger) BaseballGameRepo {
	repoLog := baseLog.With("repo", "BaseballGameRepo")
	return &baseballGameRepo{db: db, log: repoLog}
}

func (gr *baseballGameRepo) Create(ctx context.Context, tx *gorm.DB, game *types.BaseballGame) (*types.BaseballGame, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if err := transaction.WithContext(ctx).Create(game).Error; err != nil {
		return nil, err
	}
	return game, nil
}

func (gr *baseballGameRepo) GetByID(ctx context.Context, tx *gorm.DB, gameID uuid.UUID) (*types.BaseballGame, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var result types.BaseballGame
	if err := transaction.WithContext(ctx).
		Where("id = ?", gameID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (gr *baseballGameRepo) Save(ctx context.Context, tx *gorm.DB, game *types.BaseballGame) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	return transaction.WithContext(ctx).Save(game).Error
}

func (gr *baseballGameRepo) ListRecentForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.BaseballGame, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if limit <= 0 {
		limit = 10
	}

	var results []*types.BaseballGame
	if err := transaction.WithContext(ctx).
		Where("user_id = ? OR player2_id = ?", userID, userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (gr *baseballGameRepo) ListCompletedMultiplayerForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.BaseballGame, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var results []*types.BaseballGame
	if err := transaction.WithContext(ctx).
		Where("mode = ? AND status = ? AND (user_id = ? OR player2_id = ?)",
			types.ModeMultiplayer, types.GameCompleted, userID, userID).
		Order("started_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type BaseballStatsRepo interface {
	GetForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.BaseballStats, error)
	Save(ctx context.Context, tx *gorm.DB, stats *types.BaseballStats) error
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.BaseballStats, error)
}

type baseballStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBaseballStatsRepo(db *gorm.DB, baseLog *logger.Logger) BaseballStatsRepo {
	repoLog := baseLog.With("repo", "BaseballStatsRepo")
	return &baseballStatsRepo{db: db, log: repoLog}
}

func (sr *baseballStatsRepo) GetForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.BaseballStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.BaseballStats
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *baseballStatsRepo) Save(ctx context.Context, tx *gorm.DB, stats *types.BaseballStats) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(stats).Error
}

func (sr *baseballStatsRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.BaseballStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.BaseballStats
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type PitchingGameRepo interface {
	Create(ctx context.Context, tx *gorm.DB, game *types.PitchingGame) (*types.PitchingGame, error)
	GetByID(ctx context.Context, tx *gorm.DB, gameID uuid.UUID) (*types.PitchingGame, error)
	Save(ctx context.Context, tx *gorm.DB, game *types.PitchingGame) error
}

type pitchingGameRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPitchingGameRepo(db *gorm.DB, baseLog *logger.Logger) PitchingGameRepo {
	repoLog := baseLog.With("repo", "PitchingGameRepo")
	return &pitchingGameRepo{db: db, log: repoLog}
}

func (gr *pitchingGameRepo) Create(ctx context.Context, tx *gorm.DB, game *types.PitchingGame) (*types.PitchingGame, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	if err := transaction.WithContext(ctx).Create(game).Error; err != nil {
		return nil, err
	}
	return game, nil
}

func (gr *pitchingGameRepo) GetByID(ctx context.Context, tx *gorm.DB, gameID uuid.UUID) (*types.PitchingGame, error) {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}

	var result types.PitchingGame
	if err := transaction.WithContext(ctx).
		Where("id = ?", gameID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (gr *pitchingGameRepo) Save(ctx context.Context, tx *gorm.DB, game *types.PitchingGame) error {
	transaction := tx
	if transaction == nil {
		transaction = gr.db
	}
	return transaction.WithContext(ctx).Save(game).Error
}

type PitchingStatsRepo interface {
	GetForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PitchingStats, error)
	Save(ctx context.Context, tx *gorm.DB, stats *types.PitchingStats) error
}

type pitchingStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPitchingStatsRepo(db *gorm.DB, baseLog *logger.Logger) PitchingStatsRepo {
	repoLog := baseLog.With("repo", "PitchingStatsRepo")
	return &pitchingStatsRepo{db: db, log: repoLog}
}

func (sr *pitchingStatsRepo) GetForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.PitchingStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var result types.PitchingStats
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (sr *pitchingStatsRepo) Save(ctx context.Context, tx *gorm.DB, stats *types.PitchingStats) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(stats).Error
}
