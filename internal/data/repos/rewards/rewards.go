package rewards

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type RewardRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rewards []*types.Reward) ([]*types.Reward, error)
	GetByID(ctx context.Context, tx *gorm.DB, rewardID uuid.UUID) (*types.Reward, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Reward, error)
	Update(ctx context.Context, tx *gorm.DB, reward *types.Reward) error
	Delete(ctx context.Context, tx *gorm.DB, rewardID uuid.UUID) error
}

type rewardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRewardRepo(db *gorm.DB, baseLog *logger.Logger) RewardRepo {
	repoLog := baseLog.With("repo", "RewardRepo")
	return &rewardRepo{db: db, log: repoLog}
}

func (rr *rewardRepo) Create(ctx context.Context, tx *gorm.DB, rewards []*types.Reward) ([]*types.Reward, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(rewards) == 0 {
		return []*types.Reward{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rewards).Error; err != nil {
		return nil, err
	}
	return rewards, nil
}

func (rr *rewardRepo) GetByID(ctx context.Context, tx *gorm.DB, rewardID uuid.UUID) (*types.Reward, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.Reward
	if err := transaction.WithContext(ctx).
		Where("id = ?", rewardID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *rewardRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Reward, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.Reward
	if err := transaction.WithContext(ctx).
		Order("cost ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *rewardRepo) Update(ctx context.Context, tx *gorm.DB, reward *types.Reward) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Reward{}).
		Where("id = ?", reward.ID).
		Updates(map[string]any{
			"name":       reward.Name,
			"cost":       reward.Cost,
			"image_path": reward.ImagePath,
		}).Error
}

func (rr *rewardRepo) Delete(ctx context.Context, tx *gorm.DB, rewardID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", rewardID).
		Delete(&types.Reward{}).Error
}

type RuleRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, rule *types.RewardRule) (*types.RewardRule, error)
	GetByID(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) (*types.RewardRule, error)
	ListForReward(ctx context.Context, tx *gorm.DB, rewardID, userID uuid.UUID) ([]*types.RewardRule, error)
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.RewardRule, error)
	Delete(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) error
}

type ruleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRuleRepo(db *gorm.DB, baseLog *logger.Logger) RuleRepo {
	repoLog := baseLog.With("repo", "RuleRepo")
	return &ruleRepo{db: db, log: repoLog}
}

func (rr *ruleRepo) Upsert(ctx context.Context, tx *gorm.DB, rule *types.RewardRule) (*types.RewardRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if rule.ID == uuid.Nil {
		if err := transaction.WithContext(ctx).Create(rule).Error; err != nil {
			return nil, err
		}
		return rule, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.RewardRule{}).
		Where("id = ?", rule.ID).
		Updates(map[string]any{
			"name":                  rule.Name,
			"active":                rule.Active,
			"base_settings":         rule.BaseSettings,
			"day_specific_settings": rule.DaySpecificSettings,
		}).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (rr *ruleRepo) GetByID(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) (*types.RewardRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.RewardRule
	if err := transaction.WithContext(ctx).
		Where("id = ?", ruleID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *ruleRepo) ListForReward(ctx context.Context, tx *gorm.DB, rewardID, userID uuid.UUID) ([]*types.RewardRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.RewardRule
	if err := transaction.WithContext(ctx).
		Where("reward_id = ? AND user_id = ?", rewardID, userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *ruleRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.RewardRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.RewardRule
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *ruleRepo) Delete(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", ruleID).
		Delete(&types.RewardRule{}).Error
}

type RedemptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, redemption *types.RewardRedemption) (*types.RewardRedemption, error)
	CountForRewardSince(ctx context.Context, tx *gorm.DB, userID, rewardID uuid.UUID, since time.Time) (int64, error)
	ListForUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.RewardRedemption, error)
}

type redemptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRedemptionRepo(db *gorm.DB, baseLog *logger.Logger) RedemptionRepo {
	repoLog := baseLog.With("repo", "RedemptionRepo")
	return &redemptionRepo{db: db, log: repoLog}
}

func (rr *redemptionRepo) Create(ctx context.Context, tx *gorm.DB, redemption *types.RewardRedemption) (*types.RewardRedemption, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Create(redemption).Error; err != nil {
		return nil, err
	}
	return redemption, nil
}

func (rr *redemptionRepo) CountForRewardSince(ctx context.Context, tx *gorm.DB, userID, rewardID uuid.UUID, since time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.RewardRedemption{}).
		Where("user_id = ? AND reward_id = ? AND redeemed_on >= ?", userID, rewardID, since).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (rr *redemptionRepo) ListForUserSince(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.RewardRedemption, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.RewardRedemption
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND redeemed_on >= ?", userID, since).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
