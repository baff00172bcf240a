package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rewardsrepo "github.com/diperi/dugout-backend/internal/data/repos/rewards"
	tasksrepo "github.com/diperi/dugout-backend/internal/data/repos/tasks"
	userrepo "github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/apierr"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

// RewardView is a reward plus its evaluated rule decision for one user.
type RewardView struct {
	Reward     *types.Reward `json:"reward"`
	Decision   RuleDecision  `json:"decision"`
	Affordable bool          `json:"affordable"`
}

type RewardInput struct {
	Name      string `json:"name"`
	Cost      int    `json:"cost"`
	ImagePath string `json:"image_path"`
}

type RuleInput struct {
	ID                  uuid.UUID                            `json:"id,omitempty"`
	RewardID            uuid.UUID                            `json:"reward_id"`
	Name                string                               `json:"name"`
	Active              bool                                 `json:"active"`
	BaseSettings        types.RuleSettings                   `json:"base_settings"`
	DaySpecificSettings map[types.Weekday]types.RuleSettings `json:"day_specific_settings"`
}

type RewardService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]RewardView, error)
	Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*types.User, error)

	Create(ctx context.Context, input RewardInput) (*types.Reward, error)
	Update(ctx context.Context, rewardID uuid.UUID, input RewardInput) (*types.Reward, error)
	Delete(ctx context.Context, rewardID uuid.UUID) error

	ListRules(ctx context.Context, rewardID, userID uuid.UUID) ([]*types.RewardRule, error)
	UpsertRule(ctx context.Context, userID uuid.UUID, input RuleInput) (*types.RewardRule, error)
	DeleteRule(ctx context.Context, ruleID uuid.UUID) error
}

type rewardService struct {
	db             *gorm.DB
	log            *logger.Logger
	rewardRepo     rewardsrepo.RewardRepo
	ruleRepo       rewardsrepo.RuleRepo
	redemptionRepo rewardsrepo.RedemptionRepo
	taskRepo       tasksrepo.TaskRepo
	userRepo       userrepo.UserRepo
}

func NewRewardService(db *gorm.DB, log *logger.Logger, rewardRepo rewardsrepo.RewardRepo, ruleRepo rewardsrepo.RuleRepo, redemptionRepo rewardsrepo.RedemptionRepo, taskRepo tasksrepo.TaskRepo, userRepo userrepo.UserRepo) RewardService {
	serviceLog := log.With("service", "RewardService")
	return &rewardService{
		db:             db,
		log:            serviceLog,
		rewardRepo:     rewardRepo,
		ruleRepo:       ruleRepo,
		redemptionRepo: redemptionRepo,
		taskRepo:       taskRepo,
		userRepo:       userRepo,
	}
}

func (rs *rewardService) ListForUser(ctx context.Context, userID uuid.UUID) ([]RewardView, error) {
	users, err := rs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("profile_not_found", fmt.Errorf("profile %s not found", userID))
	}
	user := users[0]

	rewards, err := rs.rewardRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing rewards: %w", err)
	}

	completed, err := rs.completedTemplateIDsToday(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	day := types.WeekdayOf(time.Now())
	views := make([]RewardView, 0, len(rewards))
	for _, reward := range rewards {
		rules, err := rs.ruleRepo.ListForReward(ctx, nil, reward.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("error listing rules: %w", err)
		}
		count, err := rs.redemptionsToday(ctx, nil, userID, reward.ID)
		if err != nil {
			return nil, err
		}
		decision, err := EvaluateRewardRules(rules, day, completed, count)
		if err != nil {
			return nil, fmt.Errorf("error evaluating rules for reward %s: %w", reward.ID, err)
		}
		views = append(views, RewardView{
			Reward:     reward,
			Decision:   decision,
			Affordable: user.Coins >= reward.Cost,
		})
	}
	return views, nil
}

// Redeem re-evaluates the rules inside the transaction against the
// persisted redemption log, debits the cost, applies the wallet bonus for
// "money" rewards, and appends the redemption record.
func (rs *rewardService) Redeem(ctx context.Context, userID, rewardID uuid.UUID) (*types.User, error) {
	var updated *types.User

	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reward, err := rs.rewardRepo.GetByID(ctx, tx, rewardID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("reward_not_found", fmt.Errorf("reward %s not found", rewardID))
			}
			return fmt.Errorf("error fetching reward: %w", err)
		}

		users, err := rs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("error fetching user: %w", err)
		}
		if len(users) == 0 {
			return apierr.NotFound("profile_not_found", fmt.Errorf("profile %s not found", userID))
		}
		user := users[0]

		rules, err := rs.ruleRepo.ListForReward(ctx, tx, rewardID, userID)
		if err != nil {
			return fmt.Errorf("error listing rules: %w", err)
		}
		completed, err := rs.completedTemplateIDsToday(ctx, tx, userID)
		if err != nil {
			return err
		}
		count, err := rs.redemptionsToday(ctx, tx, userID, rewardID)
		if err != nil {
			return err
		}

		decision, err := EvaluateRewardRules(rules, types.WeekdayOf(time.Now()), completed, count)
		if err != nil {
			return fmt.Errorf("error evaluating rules: %w", err)
		}
		if !decision.CanRedeem {
			return apierr.Conflict("reward_rules_not_met",
				fmt.Errorf("rules not met: %s", strings.Join(decision.RulesNotMet, "; ")))
		}
		if user.Coins < reward.Cost {
			return apierr.Conflict("insufficient_coins",
				fmt.Errorf("need %d coins, have %d", reward.Cost, user.Coins))
		}

		if err := rs.userRepo.AdjustCoins(ctx, tx, userID, -reward.Cost); err != nil {
			return fmt.Errorf("error debiting coins: %w", err)
		}
		// "money" rewards convert a coin spend into a real-world allowance
		// tick on the wallet counter.
		if strings.Contains(strings.ToLower(reward.Name), "money") {
			if err := rs.userRepo.AdjustWallet(ctx, tx, userID, 1); err != nil {
				return fmt.Errorf("error crediting wallet: %w", err)
			}
		}

		redemption := &types.RewardRedemption{
			UserID:     userID,
			RewardID:   rewardID,
			RedeemedOn: time.Now(),
		}
		if _, err := rs.redemptionRepo.Create(ctx, tx, redemption); err != nil {
			return fmt.Errorf("error recording redemption: %w", err)
		}

		refreshed, err := rs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("error refreshing user: %w", err)
		}
		updated = refreshed[0]

		rs.log.Info("Reward redeemed", "reward_id", rewardID, "profile_id", userID, "cost", reward.Cost)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (rs *rewardService) Create(ctx context.Context, input RewardInput) (*types.Reward, error) {
	if err := validateRewardInput(input); err != nil {
		return nil, err
	}
	reward := &types.Reward{
		Name:      strings.TrimSpace(input.Name),
		Cost:      input.Cost,
		ImagePath: input.ImagePath,
	}
	created, err := rs.rewardRepo.Create(ctx, nil, []*types.Reward{reward})
	if err != nil {
		return nil, fmt.Errorf("error creating reward: %w", err)
	}
	return created[0], nil
}

func (rs *rewardService) Update(ctx context.Context, rewardID uuid.UUID, input RewardInput) (*types.Reward, error) {
	if err := validateRewardInput(input); err != nil {
		return nil, err
	}
	reward, err := rs.rewardRepo.GetByID(ctx, nil, rewardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("reward_not_found", fmt.Errorf("reward %s not found", rewardID))
		}
		return nil, fmt.Errorf("error fetching reward: %w", err)
	}

	reward.Name = strings.TrimSpace(input.Name)
	reward.Cost = input.Cost
	reward.ImagePath = input.ImagePath
	if err := rs.rewardRepo.Update(ctx, nil, reward); err != nil {
		return nil, fmt.Errorf("error updating reward: %w", err)
	}
	return reward, nil
}

func (rs *rewardService) Delete(ctx context.Context, rewardID uuid.UUID) error {
	if err := rs.rewardRepo.Delete(ctx, nil, rewardID); err != nil {
		return fmt.Errorf("error deleting reward: %w", err)
	}
	return nil
}

func (rs *rewardService) ListRules(ctx context.Context, rewardID, userID uuid.UUID) ([]*types.RewardRule, error) {
	rules, err := rs.ruleRepo.ListForReward(ctx, nil, rewardID, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing rules: %w", err)
	}
	return rules, nil
}

func (rs *rewardService) UpsertRule(ctx context.Context, userID uuid.UUID, input RuleInput) (*types.RewardRule, error) {
	if input.RewardID == uuid.Nil {
		return nil, apierr.BadRequest("rule_reward_required", errors.New("rule requires a reward"))
	}
	for day := range input.DaySpecificSettings {
		if !day.Valid() {
			return nil, apierr.BadRequest("rule_bad_weekday", fmt.Errorf("unknown weekday %q", day))
		}
	}

	rule := &types.RewardRule{
		ID:       input.ID,
		RewardID: input.RewardID,
		UserID:   userID,
		Name:     strings.TrimSpace(input.Name),
		Active:   input.Active,
	}
	if err := encodeJSONColumn(&rule.BaseSettings, input.BaseSettings); err != nil {
		return nil, err
	}
	if err := encodeJSONColumn(&rule.DaySpecificSettings, input.DaySpecificSettings); err != nil {
		return nil, err
	}

	saved, err := rs.ruleRepo.Upsert(ctx, nil, rule)
	if err != nil {
		return nil, fmt.Errorf("error saving rule: %w", err)
	}
	return saved, nil
}

func (rs *rewardService) DeleteRule(ctx context.Context, ruleID uuid.UUID) error {
	if err := rs.ruleRepo.Delete(ctx, nil, ruleID); err != nil {
		return fmt.Errorf("error deleting rule: %w", err)
	}
	return nil
}

func (rs *rewardService) completedTemplateIDsToday(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]bool, error) {
	today := types.DateOf(time.Now())
	tasks, err := rs.taskRepo.ListCompletedForUserOnDate(ctx, tx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("error listing completed tasks: %w", err)
	}
	completed := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		completed[t.TaskTemplateID.String()] = true
	}
	return completed, nil
}

func (rs *rewardService) redemptionsToday(ctx context.Context, tx *gorm.DB, userID, rewardID uuid.UUID) (int, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := rs.redemptionRepo.CountForRewardSince(ctx, tx, userID, rewardID, midnight)
	if err != nil {
		return 0, fmt.Errorf("error counting redemptions: %w", err)
	}
	return int(count), nil
}

func validateRewardInput(input RewardInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apierr.BadRequest("reward_name_required", errors.New("reward name is required"))
	}
	if input.Cost < 0 {
		return apierr.BadRequest("reward_cost_negative", errors.New("reward cost must not be negative"))
	}
	return nil
}
