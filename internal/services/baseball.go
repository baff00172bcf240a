package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	gamesrepo "github.com/diperi/dugout-backend/internal/data/repos/games"
	userrepo "github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/apierr"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

type StartBaseballInput struct {
	Mode         types.GameMode `json:"mode"`
	TotalInnings int            `json:"total_innings"`
	Player2ID    *uuid.UUID     `json:"player2_id,omitempty"`
}

type BaseballService interface {
	Start(ctx context.Context, userID uuid.UUID, input StartBaseballInput) (*types.BaseballGame, error)
	Get(ctx context.Context, userID, gameID uuid.UUID) (*types.BaseballGame, error)
	RecordHit(ctx context.Context, userID, gameID uuid.UUID, playType string) (*types.BaseballGame, error)
	RecordOut(ctx context.Context, userID, gameID uuid.UUID) (*types.BaseballGame, error)
	End(ctx context.Context, userID, gameID uuid.UUID) (*types.BaseballGame, error)
	RecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.BaseballGame, error)
}

type baseballService struct {
	db        *gorm.DB
	log       *logger.Logger
	gameRepo  gamesrepo.BaseballGameRepo
	statsRepo gamesrepo.BaseballStatsRepo
	userRepo  userrepo.UserRepo
}

func NewBaseballService(db *gorm.DB, log *logger.Logger, gameRepo gamesrepo.BaseballGameRepo, statsRepo gamesrepo.BaseballStatsRepo, userRepo userrepo.UserRepo) BaseballService {
	serviceLog := log.With("service", "BaseballService")
	return &baseballService{
		db:        db,
		log:       serviceLog,
		gameRepo:  gameRepo,
		statsRepo: statsRepo,
		userRepo:  userRepo,
	}
}

func basesForPlay(playType string) (int, error) {
	switch playType {
	case types.PlaySingle:
		return 1, nil
	case types.PlayDouble:
		return 2, nil
	case types.PlayTriple:
		return 3, nil
	case types.PlayHomeRun:
		return 4, nil
	default:
		return 0, apierr.BadRequest("bad_play_type", fmt.Errorf("unknown play type %q", playType))
	}
}

func (bs *baseballService) Start(ctx context.Context, userID uuid.UUID, input StartBaseballInput) (*types.BaseballGame, error) {
	switch input.Mode {
	case types.ModeSingleInning, types.ModeFullGame, types.ModeMultiplayer:
	default:
		return nil, apierr.BadRequest("bad_game_mode", fmt.Errorf("unknown game mode %q", input.Mode))
	}

	totalInnings := input.TotalInnings
	if input.Mode == types.ModeSingleInning {
		totalInnings = 1
	} else if totalInnings <= 0 {
		totalInnings = 3
	}

	game := &types.BaseballGame{
		UserID:       userID,
		Mode:         input.Mode,
		TotalInnings: totalInnings,
		Status:       types.GameActive,
		Inning:       1,
		TopOfInning:  true,
		Plays:        []byte("[]"),
		StartedAt:    time.Now(),
	}

	if input.Mode == types.ModeMultiplayer {
		if input.Player2ID == nil || *input.Player2ID == uuid.Nil {
			return nil, apierr.BadRequest("player2_required", errors.New("multiplayer games need a second player"))
		}
		if *input.Player2ID == userID {
			return nil, apierr.BadRequest("player2_is_owner", errors.New("cannot play a multiplayer game against yourself"))
		}
		players, err := bs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{*input.Player2ID})
		if err != nil {
			return nil, fmt.Errorf("error fetching second player: %w", err)
		}
		if len(players) == 0 {
			return nil, apierr.NotFound("profile_not_found", fmt.Errorf("profile %s not found", *input.Player2ID))
		}
		game.Player2ID = input.Player2ID
		game.Player2Name = players[0].Name
	}

	if _, err := bs.gameRepo.Create(ctx, nil, game); err != nil {
		return nil, fmt.Errorf("error creating baseball game: %w", err)
	}
	bs.log.Info("Baseball game started", "game_id", game.ID, "mode", game.Mode)
	return game, nil
}

func (bs *baseballService) Get(ctx context.Context, userID, gameID uuid.UUID) (*types.BaseballGame, error) {
	return bs.getVisible(ctx, nil, userID, gameID)
}

// getVisible fetches the game when the caller is the owner or, for
// multiplayer, the second player.
func (bs *baseballService) getVisible(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID) (*types.BaseballGame, error) {
	game, err := bs.gameRepo.GetByID(ctx, tx, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("game_not_found", fmt.Errorf("game %s not found", gameID))
		}
		return nil, fmt.Errorf("error fetching baseball game: %w", err)
	}
	if game.UserID != userID && (game.Player2ID == nil || *game.Player2ID != userID) {
		return nil, apierr.NotFound("game_not_found", fmt.Errorf("game %s not found", gameID))
	}
	return game, nil
}

// batterID is the profile at the plate for the current half-inning. The
// owner always bats in the top half as the away team; the second player
// bats in the bottom half as the home team.
func batterID(game *types.BaseballGame) (uuid.UUID, string) {
	if game.Mode == types.ModeMultiplayer && !game.TopOfInning {
		return *game.Player2ID, game.Player2Name
	}
	return game.UserID, ""
}

func (bs *baseballService) RecordHit(ctx context.Context, userID, gameID uuid.UUID, playType string) (*types.BaseballGame, error) {
	playType = alignPlayType(playType)
	bases, err := basesForPlay(playType)
	if err != nil {
		return nil, err
	}

	var result *types.BaseballGame
	txErr := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := bs.getVisible(ctx, tx, userID, gameID)
		if err != nil {
			return err
		}
		if game.Status != types.GameActive {
			return apierr.Conflict("game_not_active", fmt.Errorf("game %s is already over", gameID))
		}

		runners := Runners{First: game.RunnerFirst, Second: game.RunnerSecond, Third: game.RunnerThird}
		runners, runs := AdvanceRunners(runners, bases)
		game.RunnerFirst = runners.First
		game.RunnerSecond = runners.Second
		game.RunnerThird = runners.Third

		if game.Mode == types.ModeMultiplayer {
			if game.TopOfInning {
				game.ScoreAway += runs
			} else {
				game.ScoreHome += runs
			}
		} else {
			game.ScoreHome += runs
		}
		game.TotalRuns += runs
		game.Streak++
		if game.Streak > game.BestStreak {
			game.BestStreak = game.Streak
		}

		playerID, playerName := batterID(game)
		if err := bs.appendPlay(game, types.BaseballPlay{
			Timestamp:   time.Now(),
			Type:        playType,
			Bases:       bases,
			Runs:        runs,
			Inning:      game.Inning,
			TopOfInning: game.TopOfInning,
			Outs:        game.Outs,
			Streak:      game.Streak,
			PlayerID:    playerID,
			PlayerName:  playerName,
		}); err != nil {
			return err
		}

		if err := bs.gameRepo.Save(ctx, tx, game); err != nil {
			return fmt.Errorf("error saving baseball game: %w", err)
		}
		result = game
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

func (bs *baseballService) RecordOut(ctx context.Context, userID, gameID uuid.UUID) (*types.BaseballGame, error) {
	var result *types.BaseballGame
	txErr := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := bs.getVisible(ctx, tx, userID, gameID)
		if err != nil {
			return err
		}
		if game.Status != types.GameActive {
			return apierr.Conflict("game_not_active", fmt.Errorf("game %s is already over", gameID))
		}

		game.Outs++
		game.Streak = 0

		playerID, playerName := batterID(game)
		if err := bs.appendPlay(game, types.BaseballPlay{
			Timestamp:   time.Now(),
			Type:        types.PlayOut,
			Inning:      game.Inning,
			TopOfInning: game.TopOfInning,
			Outs:        game.Outs,
			PlayerID:    playerID,
			PlayerName:  playerName,
		}); err != nil {
			return err
		}

		if game.Outs >= 3 {
			outcome := EndHalfInning(game.Mode, game.Inning, game.TotalInnings, game.TopOfInning)
			game.Outs = 0
			game.RunnerFirst = false
			game.RunnerSecond = false
			game.RunnerThird = false
			game.Inning = outcome.Inning
			game.TopOfInning = outcome.TopOfInning
			if outcome.GameOver {
				if err := bs.finish(ctx, tx, game); err != nil {
					return err
				}
			}
		}

		if err := bs.gameRepo.Save(ctx, tx, game); err != nil {
			return fmt.Errorf("error saving baseball game: %w", err)
		}
		result = game
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

func (bs *baseballService) End(ctx context.Context, userID, gameID uuid.UUID) (*types.BaseballGame, error) {
	var result *types.BaseballGame
	txErr := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := bs.getVisible(ctx, tx, userID, gameID)
		if err != nil {
			return err
		}
		if game.Status != types.GameActive {
			return apierr.Conflict("game_not_active", fmt.Errorf("game %s is already over", gameID))
		}
		if err := bs.finish(ctx, tx, game); err != nil {
			return err
		}
		if err := bs.gameRepo.Save(ctx, tx, game); err != nil {
			return fmt.Errorf("error saving baseball game: %w", err)
		}
		result = game
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

// finish marks the game completed, settles the winner for multiplayer, and
// folds the game's plays into each player's career stats.
func (bs *baseballService) finish(ctx context.Context, tx *gorm.DB, game *types.BaseballGame) error {
	now := time.Now()
	game.Status = types.GameCompleted
	game.EndedAt = &now

	if game.Mode == types.ModeMultiplayer && game.Player2ID != nil {
		switch {
		case game.ScoreAway > game.ScoreHome:
			ownerID := game.UserID
			game.WinnerID = &ownerID
		case game.ScoreHome > game.ScoreAway:
			game.WinnerID = game.Player2ID
			game.WinnerName = game.Player2Name
		}
		if game.WinnerID != nil && game.WinnerName == "" {
			owners, err := bs.userRepo.GetByIDs(ctx, tx, []uuid.UUID{*game.WinnerID})
			if err == nil && len(owners) > 0 {
				game.WinnerName = owners[0].Name
			}
		}
	}

	plays, err := game.DecodePlays()
	if err != nil {
		return fmt.Errorf("error decoding plays: %w", err)
	}

	if err := bs.mergeStatsFor(ctx, tx, game, plays, game.UserID); err != nil {
		return err
	}
	if game.Mode == types.ModeMultiplayer && game.Player2ID != nil {
		if err := bs.mergeStatsFor(ctx, tx, game, plays, *game.Player2ID); err != nil {
			return err
		}
	}

	bs.log.Info("Baseball game finished", "game_id", game.ID, "mode", game.Mode, "total_runs", game.TotalRuns)
	return nil
}

func (bs *baseballService) mergeStatsFor(ctx context.Context, tx *gorm.DB, game *types.BaseballGame, plays []types.BaseballPlay, playerID uuid.UUID) error {
	own := plays
	if game.Mode == types.ModeMultiplayer {
		own = make([]types.BaseballPlay, 0, len(plays))
		for _, p := range plays {
			if p.PlayerID == playerID {
				own = append(own, p)
			}
		}
	}
	totals := TotalsFromPlays(own)

	stats, err := bs.statsRepo.GetForUser(ctx, tx, playerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("error fetching baseball stats: %w", err)
		}
		stats = &types.BaseballStats{UserID: playerID}
	}

	MergeBaseballStats(stats, totals, game.Mode)
	if game.Mode == types.ModeMultiplayer {
		stats.MultiplayerGames++
		switch {
		case game.WinnerID == nil:
			stats.MultiplayerTies++
		case *game.WinnerID == playerID:
			stats.MultiplayerWins++
		default:
			stats.MultiplayerLosses++
		}
	}

	if err := bs.statsRepo.Save(ctx, tx, stats); err != nil {
		return fmt.Errorf("error saving baseball stats: %w", err)
	}
	return nil
}

func (bs *baseballService) appendPlay(game *types.BaseballGame, play types.BaseballPlay) error {
	plays, err := game.DecodePlays()
	if err != nil {
		return fmt.Errorf("error decoding plays: %w", err)
	}
	plays = append(plays, play)
	if err := game.EncodePlays(plays); err != nil {
		return fmt.Errorf("error encoding plays: %w", err)
	}
	return nil
}

func (bs *baseballService) RecentForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.BaseballGame, error) {
	games, err := bs.gameRepo.ListRecentForUser(ctx, nil, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing recent games: %w", err)
	}
	return games, nil
}

func alignPlayType(playType string) string {
	return strings.ToLower(strings.TrimSpace(playType))
}
