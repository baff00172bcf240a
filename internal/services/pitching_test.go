package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/diperi/dugout-backend/internal/data/repos/games"
	"github.com/diperi/dugout-backend/internal/data/repos/testutil"
	"github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
)

func newPitchingServiceForTest(t *testing.T) (PitchingService, user.UserRepo, *types.User) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	userRepo := user.NewUserRepo(tx, log)
	svc := NewPitchingService(tx, log, games.NewPitchingGameRepo(tx, log), games.NewPitchingStatsRepo(tx, log), userRepo)

	created, err := userRepo.Create(context.Background(), nil, []*types.User{
		{Name: "Taylor", Coins: 0, BrokenRules: []byte("[]")},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return svc, userRepo, created[0]
}

func TestPitchScoringAndCoins(t *testing.T) {
	svc, userRepo, profile := newPitchingServiceForTest(t)
	ctx := context.Background()

	game, err := svc.Start(ctx, profile.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	result, err := svc.RecordPitch(ctx, profile.ID, game.ID, "home-run")
	if err != nil {
		t.Fatalf("pitch: %v", err)
	}
	if result.Points != 100 || result.Coins != 10 {
		t.Fatalf("expected 100 points / 10 coins, got %d / %d", result.Points, result.Coins)
	}

	result, err = svc.RecordPitch(ctx, profile.ID, game.ID, "strike-2")
	if err != nil {
		t.Fatalf("pitch: %v", err)
	}
	if result.Points != 10 || result.Coins != 1 {
		t.Fatalf("expected 10 points / 1 coin, got %d / %d", result.Points, result.Coins)
	}

	result, err = svc.RecordPitch(ctx, profile.ID, game.ID, types.PitchZoneMiss)
	if err != nil {
		t.Fatalf("pitch: %v", err)
	}
	if result.Points != 0 || result.Coins != 0 {
		t.Fatalf("expected a miss to score nothing, got %d / %d", result.Points, result.Coins)
	}
	if result.Game.TotalScore != 110 {
		t.Fatalf("expected total 110, got %d", result.Game.TotalScore)
	}

	rows, err := userRepo.GetByIDs(ctx, nil, []uuid.UUID{profile.ID})
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if rows[0].Coins != 11 {
		t.Fatalf("expected 11 coins credited, got %d", rows[0].Coins)
	}
}

func TestPitchUnknownZoneRejected(t *testing.T) {
	svc, _, profile := newPitchingServiceForTest(t)
	ctx := context.Background()

	game, err := svc.Start(ctx, profile.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.RecordPitch(ctx, profile.ID, game.ID, "bleachers"); err == nil {
		t.Fatalf("expected unknown zone to be rejected")
	}
}

func TestEndComputesAccuracyAndStats(t *testing.T) {
	svc, _, profile := newPitchingServiceForTest(t)
	ctx := context.Background()

	game, err := svc.Start(ctx, profile.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for _, zone := range []string{"triple", "double-1", types.PitchZoneMiss, types.PitchZoneMiss} {
		if _, err := svc.RecordPitch(ctx, profile.ID, game.ID, zone); err != nil {
			t.Fatalf("pitch %s: %v", zone, err)
		}
	}

	ended, err := svc.End(ctx, profile.ID, game.ID)
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if ended.Status != types.GameCompleted || ended.EndedAt == nil {
		t.Fatalf("expected completed game, got %+v", ended)
	}
	if ended.Accuracy != 50 {
		t.Fatalf("expected 50%% accuracy, got %v", ended.Accuracy)
	}
	if ended.TotalScore != 125 {
		t.Fatalf("expected total 125, got %d", ended.TotalScore)
	}

	// Ending twice is a conflict.
	if _, err := svc.End(ctx, profile.ID, game.ID); err == nil {
		t.Fatalf("expected ending a completed game to fail")
	}
}
