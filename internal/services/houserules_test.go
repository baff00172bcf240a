package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/diperi/dugout-backend/internal/data/repos/testutil"
	"github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
)

func newHouseRuleServiceForTest(t *testing.T) (HouseRuleService, user.UserRepo, *types.User) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	userRepo := user.NewUserRepo(tx, log)
	svc := NewHouseRuleService(tx, log, userRepo)

	created, err := userRepo.Create(context.Background(), nil, []*types.User{
		{Name: "Avery", Coins: 5, BrokenRules: []byte("[]")},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return svc, userRepo, created[0]
}

func TestBreakAccumulatesStrikes(t *testing.T) {
	svc, _, profile := newHouseRuleServiceForTest(t)
	ctx := context.Background()

	state, err := svc.Break(ctx, profile.ID, 0)
	if err != nil {
		t.Fatalf("break: %v", err)
	}
	if state.Strikes != 1 || state.CoinDeducted {
		t.Fatalf("unexpected state after first strike: %+v", state)
	}

	state, err = svc.Break(ctx, profile.ID, 3)
	if err != nil {
		t.Fatalf("break: %v", err)
	}
	if state.Strikes != 2 {
		t.Fatalf("expected 2 strikes, got %d", state.Strikes)
	}
	if len(state.BrokenRules) != 2 || state.BrokenRules[0] != 0 || state.BrokenRules[1] != 3 {
		t.Fatalf("unexpected broken rules: %v", state.BrokenRules)
	}
}

func TestThirdStrikeDeductsCoin(t *testing.T) {
	svc, userRepo, profile := newHouseRuleServiceForTest(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Break(ctx, profile.ID, i); err != nil {
			t.Fatalf("break: %v", err)
		}
	}
	state, err := svc.Break(ctx, profile.ID, 2)
	if err != nil {
		t.Fatalf("break: %v", err)
	}
	if state.Strikes != 3 || !state.CoinDeducted {
		t.Fatalf("expected third strike with coin deduction, got %+v", state)
	}

	rows, err := userRepo.GetByIDs(ctx, nil, []uuid.UUID{profile.ID})
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if rows[0].Coins != 4 {
		t.Fatalf("expected 4 coins after deduction, got %d", rows[0].Coins)
	}

	// Strikes cap at three and never deduct twice.
	state, err = svc.Break(ctx, profile.ID, 4)
	if err != nil {
		t.Fatalf("break: %v", err)
	}
	if state.Strikes != 3 || state.CoinDeducted {
		t.Fatalf("expected capped strikes without another deduction, got %+v", state)
	}
	rows, err = userRepo.GetByIDs(ctx, nil, []uuid.UUID{profile.ID})
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if rows[0].Coins != 4 {
		t.Fatalf("expected coins unchanged at 4, got %d", rows[0].Coins)
	}
}

func TestThirdStrikeNeverGoesNegative(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	userRepo := user.NewUserRepo(tx, log)
	svc := NewHouseRuleService(tx, log, userRepo)
	ctx := context.Background()

	created, err := userRepo.Create(ctx, nil, []*types.User{
		{Name: "Quinn", Coins: 0, BrokenRules: []byte("[]")},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Break(ctx, created[0].ID, i); err != nil {
			t.Fatalf("break: %v", err)
		}
	}
	rows, err := userRepo.GetByIDs(ctx, nil, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if rows[0].Coins != 0 {
		t.Fatalf("expected coins clamped at 0, got %d", rows[0].Coins)
	}
}

func TestResetClearsStrikes(t *testing.T) {
	svc, _, profile := newHouseRuleServiceForTest(t)
	ctx := context.Background()

	if _, err := svc.Break(ctx, profile.ID, 1); err != nil {
		t.Fatalf("break: %v", err)
	}
	state, err := svc.Reset(ctx, profile.ID)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if state.Strikes != 0 || len(state.BrokenRules) != 0 {
		t.Fatalf("expected cleared state, got %+v", state)
	}
}
