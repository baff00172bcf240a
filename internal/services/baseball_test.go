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

type baseballFixture struct {
	svc       BaseballService
	statsRepo games.BaseballStatsRepo
	owner     *types.User
	player2   *types.User
}

func newBaseballFixture(t *testing.T) *baseballFixture {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	userRepo := user.NewUserRepo(tx, log)
	statsRepo := games.NewBaseballStatsRepo(tx, log)
	svc := NewBaseballService(tx, log, games.NewBaseballGameRepo(tx, log), statsRepo, userRepo)

	created, err := userRepo.Create(context.Background(), nil, []*types.User{
		{Name: "Parker", BrokenRules: []byte("[]")},
		{Name: "Drew", BrokenRules: []byte("[]")},
	})
	if err != nil {
		t.Fatalf("create users: %v", err)
	}
	return &baseballFixture{svc: svc, statsRepo: statsRepo, owner: created[0], player2: created[1]}
}

func (f *baseballFixture) threeOuts(t *testing.T, playerID, gameID uuid.UUID) *types.BaseballGame {
	t.Helper()
	var game *types.BaseballGame
	var err error
	for i := 0; i < 3; i++ {
		game, err = f.svc.RecordOut(context.Background(), playerID, gameID)
		if err != nil {
			t.Fatalf("out: %v", err)
		}
	}
	return game
}

func TestSingleInningGameEndsOnThreeOuts(t *testing.T) {
	f := newBaseballFixture(t)
	ctx := context.Background()

	game, err := f.svc.Start(ctx, f.owner.ID, StartBaseballInput{Mode: types.ModeSingleInning})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := f.svc.RecordHit(ctx, f.owner.ID, game.ID, types.PlayHomeRun); err != nil {
		t.Fatalf("hit: %v", err)
	}
	game = f.threeOuts(t, f.owner.ID, game.ID)

	if game.Status != types.GameCompleted {
		t.Fatalf("expected game completed, got %s", game.Status)
	}
	if game.TotalRuns != 1 {
		t.Fatalf("expected 1 run, got %d", game.TotalRuns)
	}

	stats, err := f.statsRepo.GetForUser(ctx, nil, f.owner.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalGames != 1 || stats.HomeRuns != 1 || stats.BestSingleInning != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMultiplayerAlternatesSidesAndSettlesWinner(t *testing.T) {
	f := newBaseballFixture(t)
	ctx := context.Background()

	game, err := f.svc.Start(ctx, f.owner.ID, StartBaseballInput{
		Mode:         types.ModeMultiplayer,
		TotalInnings: 1,
		Player2ID:    &f.player2.ID,
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !game.TopOfInning {
		t.Fatalf("expected owner to bat first in the top half")
	}

	// Owner scores two in the top half.
	for i := 0; i < 2; i++ {
		if _, err := f.svc.RecordHit(ctx, f.owner.ID, game.ID, types.PlayHomeRun); err != nil {
			t.Fatalf("hit: %v", err)
		}
	}
	game = f.threeOuts(t, f.owner.ID, game.ID)
	if game.TopOfInning || game.Status != types.GameActive {
		t.Fatalf("expected bottom half still active, got %+v", game)
	}
	if game.ScoreAway != 2 {
		t.Fatalf("expected away score 2, got %d", game.ScoreAway)
	}

	// Player two scores one and the game ends.
	if _, err := f.svc.RecordHit(ctx, f.player2.ID, game.ID, types.PlayHomeRun); err != nil {
		t.Fatalf("hit: %v", err)
	}
	game = f.threeOuts(t, f.player2.ID, game.ID)

	if game.Status != types.GameCompleted {
		t.Fatalf("expected completed, got %s", game.Status)
	}
	if game.WinnerID == nil || *game.WinnerID != f.owner.ID {
		t.Fatalf("expected owner to win, got %v", game.WinnerID)
	}

	ownerStats, err := f.statsRepo.GetForUser(ctx, nil, f.owner.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if ownerStats.MultiplayerGames != 1 || ownerStats.MultiplayerWins != 1 {
		t.Fatalf("unexpected owner stats: %+v", ownerStats)
	}
	p2Stats, err := f.statsRepo.GetForUser(ctx, nil, f.player2.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if p2Stats.MultiplayerLosses != 1 || p2Stats.HomeRuns != 1 {
		t.Fatalf("unexpected player2 stats: %+v", p2Stats)
	}
}

func TestOutResetsStreak(t *testing.T) {
	f := newBaseballFixture(t)
	ctx := context.Background()

	game, err := f.svc.Start(ctx, f.owner.ID, StartBaseballInput{Mode: types.ModeFullGame, TotalInnings: 3})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if game, err = f.svc.RecordHit(ctx, f.owner.ID, game.ID, types.PlaySingle); err != nil {
			t.Fatalf("hit: %v", err)
		}
	}
	if game.Streak != 3 || game.BestStreak != 3 {
		t.Fatalf("expected streak 3, got %d/%d", game.Streak, game.BestStreak)
	}

	if game, err = f.svc.RecordOut(ctx, f.owner.ID, game.ID); err != nil {
		t.Fatalf("out: %v", err)
	}
	if game.Streak != 0 {
		t.Fatalf("expected streak reset, got %d", game.Streak)
	}
	if game.BestStreak != 3 {
		t.Fatalf("expected best streak kept, got %d", game.BestStreak)
	}
}
