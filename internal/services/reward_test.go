package services

import (
	"context"
	"errors"
	"testing"

	"github.com/diperi/dugout-backend/internal/data/repos/rewards"
	"github.com/diperi/dugout-backend/internal/data/repos/tasks"
	"github.com/diperi/dugout-backend/internal/data/repos/testutil"
	"github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/apierr"
)

func newRewardServiceForTest(t *testing.T) (RewardService, *types.User) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	userRepo := user.NewUserRepo(tx, log)
	svc := NewRewardService(
		tx,
		log,
		rewards.NewRewardRepo(tx, log),
		rewards.NewRuleRepo(tx, log),
		rewards.NewRedemptionRepo(tx, log),
		tasks.NewTaskRepo(tx, log),
		userRepo,
	)

	created, err := userRepo.Create(context.Background(), nil, []*types.User{
		{Name: "Jordan", Coins: 10, BrokenRules: []byte("[]")},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return svc, created[0]
}

func TestRedeemDebitsCoins(t *testing.T) {
	svc, profile := newRewardServiceForTest(t)
	ctx := context.Background()

	reward, err := svc.Create(ctx, RewardInput{Name: "Extra screen time", Cost: 4})
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}

	updated, err := svc.Redeem(ctx, profile.ID, reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if updated.Coins != 6 {
		t.Fatalf("expected 6 coins left, got %d", updated.Coins)
	}
	if updated.Wallet != 0 {
		t.Fatalf("expected wallet untouched, got %d", updated.Wallet)
	}
}

func TestRedeemMoneyRewardBumpsWallet(t *testing.T) {
	svc, profile := newRewardServiceForTest(t)
	ctx := context.Background()

	reward, err := svc.Create(ctx, RewardInput{Name: "Pocket Money", Cost: 5})
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}

	updated, err := svc.Redeem(ctx, profile.ID, reward.ID)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if updated.Coins != 5 {
		t.Fatalf("expected 5 coins left, got %d", updated.Coins)
	}
	if updated.Wallet != 1 {
		t.Fatalf("expected wallet 1, got %d", updated.Wallet)
	}
}

func TestRedeemInsufficientCoins(t *testing.T) {
	svc, profile := newRewardServiceForTest(t)
	ctx := context.Background()

	reward, err := svc.Create(ctx, RewardInput{Name: "Trip to the zoo", Cost: 100})
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}

	_, err = svc.Redeem(ctx, profile.ID, reward.ID)
	if err == nil {
		t.Fatalf("expected redeem to fail")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "insufficient_coins" {
		t.Fatalf("expected insufficient_coins, got %v", err)
	}
}

func TestRedeemBlockedByDailyCap(t *testing.T) {
	svc, profile := newRewardServiceForTest(t)
	ctx := context.Background()

	reward, err := svc.Create(ctx, RewardInput{Name: "Dessert", Cost: 1})
	if err != nil {
		t.Fatalf("create reward: %v", err)
	}
	if _, err := svc.UpsertRule(ctx, profile.ID, RuleInput{
		RewardID:     reward.ID,
		Name:         "One per day",
		Active:       true,
		BaseSettings: types.RuleSettings{MaxDailyRedemptions: "1"},
	}); err != nil {
		t.Fatalf("upsert rule: %v", err)
	}

	if _, err := svc.Redeem(ctx, profile.ID, reward.ID); err != nil {
		t.Fatalf("first redeem: %v", err)
	}

	_, err = svc.Redeem(ctx, profile.ID, reward.ID)
	if err == nil {
		t.Fatalf("expected second redeem to be blocked")
	}
	var ae *apierr.Error
	if !errors.As(err, &ae) || ae.Code != "reward_rules_not_met" {
		t.Fatalf("expected reward_rules_not_met, got %v", err)
	}
}
