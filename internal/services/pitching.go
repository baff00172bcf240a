package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	gamesrepo "github.com/diperi/dugout-backend/internal/data/repos/games"
	userrepo "github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/apierr"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

// pitchZonePoints maps each target zone to the points a strike there is
// worth. A miss scores nothing.
var pitchZonePoints = map[string]int{
	"home-run": 100,
	"triple":   75,
	"double-1": 50,
	"double-2": 50,
	"single-1": 25,
	"single-2": 25,
	"strike-1": 10,
	"strike-2": 10,
	"strike-3": 10,
	types.PitchZoneMiss: 0,
}

// PitchResult is one recorded pitch plus the coins it earned.
type PitchResult struct {
	Game   *types.PitchingGame `json:"game"`
	Points int                 `json:"points"`
	Coins  int                 `json:"coins"`
}

type PitchingService interface {
	Start(ctx context.Context, userID uuid.UUID) (*types.PitchingGame, error)
	Get(ctx context.Context, userID, gameID uuid.UUID) (*types.PitchingGame, error)
	RecordPitch(ctx context.Context, userID, gameID uuid.UUID, zone string) (*PitchResult, error)
	End(ctx context.Context, userID, gameID uuid.UUID) (*types.PitchingGame, error)
}

type pitchingService struct {
	db        *gorm.DB
	log       *logger.Logger
	gameRepo  gamesrepo.PitchingGameRepo
	statsRepo gamesrepo.PitchingStatsRepo
	userRepo  userrepo.UserRepo
}

func NewPitchingService(db *gorm.DB, log *logger.Logger, gameRepo gamesrepo.PitchingGameRepo, statsRepo gamesrepo.PitchingStatsRepo, userRepo userrepo.UserRepo) PitchingService {
	serviceLog := log.With("service", "PitchingService")
	return &pitchingService{
		db:        db,
		log:       serviceLog,
		gameRepo:  gameRepo,
		statsRepo: statsRepo,
		userRepo:  userRepo,
	}
}

func (ps *pitchingService) Start(ctx context.Context, userID uuid.UUID) (*types.PitchingGame, error) {
	game := &types.PitchingGame{
		UserID:    userID,
		Status:    types.GameActive,
		Pitches:   []byte("[]"),
		StartedAt: time.Now(),
	}
	if _, err := ps.gameRepo.Create(ctx, nil, game); err != nil {
		return nil, fmt.Errorf("error creating pitching game: %w", err)
	}
	ps.log.Info("Pitching game started", "game_id", game.ID)
	return game, nil
}

func (ps *pitchingService) Get(ctx context.Context, userID, gameID uuid.UUID) (*types.PitchingGame, error) {
	return ps.getOwned(ctx, nil, userID, gameID)
}

func (ps *pitchingService) getOwned(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID) (*types.PitchingGame, error) {
	game, err := ps.gameRepo.GetByID(ctx, tx, gameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("game_not_found", fmt.Errorf("game %s not found", gameID))
		}
		return nil, fmt.Errorf("error fetching pitching game: %w", err)
	}
	if game.UserID != userID {
		return nil, apierr.NotFound("game_not_found", fmt.Errorf("game %s not found", gameID))
	}
	return game, nil
}

// RecordPitch scores one pitch and credits coins in the same transaction,
// so a crashed session never leaves earned coins behind. Coins are one per
// ten points.
func (ps *pitchingService) RecordPitch(ctx context.Context, userID, gameID uuid.UUID, zone string) (*PitchResult, error) {
	points, ok := pitchZonePoints[zone]
	if !ok {
		return nil, apierr.BadRequest("bad_pitch_zone", fmt.Errorf("unknown pitch zone %q", zone))
	}

	var result *PitchResult
	txErr := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := ps.getOwned(ctx, tx, userID, gameID)
		if err != nil {
			return err
		}
		if game.Status != types.GameActive {
			return apierr.Conflict("game_not_active", fmt.Errorf("game %s is already over", gameID))
		}

		pitches, err := game.DecodePitches()
		if err != nil {
			return fmt.Errorf("error decoding pitches: %w", err)
		}
		pitches = append(pitches, types.Pitch{
			Timestamp: time.Now(),
			Zone:      zone,
			Points:    points,
		})
		if err := game.EncodePitches(pitches); err != nil {
			return fmt.Errorf("error encoding pitches: %w", err)
		}
		game.TotalScore += points
		game.Accuracy = accuracyOf(pitches)

		coins := points / 10
		if coins > 0 {
			if err := ps.userRepo.AdjustCoins(ctx, tx, userID, coins); err != nil {
				return fmt.Errorf("error crediting pitch coins: %w", err)
			}
		}

		if err := ps.gameRepo.Save(ctx, tx, game); err != nil {
			return fmt.Errorf("error saving pitching game: %w", err)
		}
		result = &PitchResult{Game: game, Points: points, Coins: coins}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}

func accuracyOf(pitches []types.Pitch) float64 {
	if len(pitches) == 0 {
		return 0
	}
	hits := 0
	for _, p := range pitches {
		if p.Zone != types.PitchZoneMiss {
			hits++
		}
	}
	return float64(hits) / float64(len(pitches)) * 100
}

func (ps *pitchingService) End(ctx context.Context, userID, gameID uuid.UUID) (*types.PitchingGame, error) {
	var result *types.PitchingGame
	txErr := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := ps.getOwned(ctx, tx, userID, gameID)
		if err != nil {
			return err
		}
		if game.Status != types.GameActive {
			return apierr.Conflict("game_not_active", fmt.Errorf("game %s is already over", gameID))
		}

		now := time.Now()
		game.Status = types.GameCompleted
		game.EndedAt = &now

		pitches, err := game.DecodePitches()
		if err != nil {
			return fmt.Errorf("error decoding pitches: %w", err)
		}
		game.Accuracy = accuracyOf(pitches)

		stats, err := ps.statsRepo.GetForUser(ctx, tx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("error fetching pitching stats: %w", err)
			}
			stats = &types.PitchingStats{UserID: userID}
		}
		stats.TotalGames++
		stats.TotalPoints += game.TotalScore
		if game.TotalScore > stats.BestScore {
			stats.BestScore = game.TotalScore
		}
		if game.Accuracy > stats.BestAccuracy {
			stats.BestAccuracy = game.Accuracy
		}
		if err := ps.statsRepo.Save(ctx, tx, stats); err != nil {
			return fmt.Errorf("error saving pitching stats: %w", err)
		}

		if err := ps.gameRepo.Save(ctx, tx, game); err != nil {
			return fmt.Errorf("error saving pitching game: %w", err)
		}
		result = game
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return result, nil
}
