package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	gamesrepo "github.com/diperi/dugout-backend/internal/data/repos/games"
	userrepo "github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
	"github.com/diperi/dugout-backend/internal/platform/logger"
)

// PlayerStats bundles both mini-game stat lines for one profile. Either
// side may be nil when the player has never finished a game of that kind.
type PlayerStats struct {
	Baseball *types.BaseballStats `json:"baseball"`
	Pitching *types.PitchingStats `json:"pitching"`
}

// LeaderboardEntry is one row of the home-run leaderboard.
type LeaderboardEntry struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	HomeRuns   int       `json:"home_runs"`
	TotalRuns  int       `json:"total_runs"`
	HighScore  int       `json:"high_score"`
	BestStreak int       `json:"best_streak"`
}

// HeadToHead summarizes completed multiplayer games between two profiles
// from the caller's point of view.
type HeadToHead struct {
	OpponentID   uuid.UUID             `json:"opponent_id"`
	OpponentName string                `json:"opponent_name"`
	Games        int                   `json:"games"`
	Wins         int                   `json:"wins"`
	Losses       int                   `json:"losses"`
	Ties         int                   `json:"ties"`
	Recent       []*types.BaseballGame `json:"recent"`
}

type StatsService interface {
	ForUser(ctx context.Context, userID uuid.UUID) (*PlayerStats, error)
	Leaderboard(ctx context.Context) ([]LeaderboardEntry, error)
	HeadToHead(ctx context.Context, userID, opponentID uuid.UUID) (*HeadToHead, error)
}

type statsService struct {
	db                *gorm.DB
	log               *logger.Logger
	baseballStatsRepo gamesrepo.BaseballStatsRepo
	pitchingStatsRepo gamesrepo.PitchingStatsRepo
	gameRepo          gamesrepo.BaseballGameRepo
	userRepo          userrepo.UserRepo
}

func NewStatsService(db *gorm.DB, log *logger.Logger, baseballStatsRepo gamesrepo.BaseballStatsRepo, pitchingStatsRepo gamesrepo.PitchingStatsRepo, gameRepo gamesrepo.BaseballGameRepo, userRepo userrepo.UserRepo) StatsService {
	serviceLog := log.With("service", "StatsService")
	return &statsService{
		db:                db,
		log:               serviceLog,
		baseballStatsRepo: baseballStatsRepo,
		pitchingStatsRepo: pitchingStatsRepo,
		gameRepo:          gameRepo,
		userRepo:          userRepo,
	}
}

func (ss *statsService) ForUser(ctx context.Context, userID uuid.UUID) (*PlayerStats, error) {
	out := &PlayerStats{}

	baseball, err := ss.baseballStatsRepo.GetForUser(ctx, nil, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error fetching baseball stats: %w", err)
	}
	out.Baseball = baseball

	pitching, err := ss.pitchingStatsRepo.GetForUser(ctx, nil, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error fetching pitching stats: %w", err)
	}
	out.Pitching = pitching

	return out, nil
}

// Leaderboard ranks every profile with baseball stats by career home runs,
// with total runs as the tiebreaker.
func (ss *statsService) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	all, err := ss.baseballStatsRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error listing baseball stats: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.UserID)
	}
	users, err := ss.userRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching profiles: %w", err)
	}
	names := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	entries := make([]LeaderboardEntry, 0, len(all))
	for _, s := range all {
		name, ok := names[s.UserID]
		if !ok {
			// Stats can outlive a deleted profile; skip orphans.
			continue
		}
		entries = append(entries, LeaderboardEntry{
			UserID:     s.UserID,
			Name:       name,
			HomeRuns:   s.HomeRuns,
			TotalRuns:  s.TotalRuns,
			HighScore:  s.HighScore,
			BestStreak: s.BestStreak,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].HomeRuns != entries[j].HomeRuns {
			return entries[i].HomeRuns > entries[j].HomeRuns
		}
		return entries[i].TotalRuns > entries[j].TotalRuns
	})
	return entries, nil
}

func (ss *statsService) HeadToHead(ctx context.Context, userID, opponentID uuid.UUID) (*HeadToHead, error) {
	games, err := ss.gameRepo.ListCompletedMultiplayerForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing multiplayer games: %w", err)
	}

	out := &HeadToHead{OpponentID: opponentID}

	opponents, err := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{opponentID})
	if err != nil {
		return nil, fmt.Errorf("error fetching opponent: %w", err)
	}
	if len(opponents) > 0 {
		out.OpponentName = opponents[0].Name
	}

	const recentLimit = 5
	for _, g := range games {
		if !involves(g, opponentID) {
			continue
		}
		out.Games++
		switch {
		case g.WinnerID == nil:
			out.Ties++
		case *g.WinnerID == userID:
			out.Wins++
		default:
			out.Losses++
		}
		if len(out.Recent) < recentLimit {
			out.Recent = append(out.Recent, g)
		}
	}
	return out, nil
}

func involves(g *types.BaseballGame, playerID uuid.UUID) bool {
	if g.UserID == playerID {
		return true
	}
	return g.Player2ID != nil && *g.Player2ID == playerID
}
