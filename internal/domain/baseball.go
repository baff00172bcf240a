package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GameMode string

const (
	ModeSingleInning GameMode = "single-inning"
	ModeFullGame     GameMode = "full-game"
	ModeMultiplayer  GameMode = "multiplayer"
)

type GameStatus string

const (
	GameActive    GameStatus = "active"
	GameCompleted GameStatus = "completed"
)

const (
	PlaySingle  = "single"
	PlayDouble  = "double"
	PlayTriple  = "triple"
	PlayHomeRun = "home-run"
	PlayOut     = "out"
)

// BaseballPlay is one entry in a game's append-only play log. PlayerID and
// PlayerName record who batted, which matters in multiplayer where the log
// is filtered per player for stats.
type BaseballPlay struct {
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	Bases       int       `json:"bases"`
	Runs        int       `json:"runs"`
	Inning      int       `json:"inning"`
	TopOfInning bool      `json:"top_of_inning"`
	Outs        int       `json:"outs"`
	Streak      int       `json:"streak"`
	PlayerID    uuid.UUID `json:"player_id"`
	PlayerName  string    `json:"player_name"`
}

// BaseballGame holds the live half-inning state (inning, side, outs,
// runners, score, streak) plus the play log and the terminal summary fields
// set once at game end. In multiplayer the game owner bats in the top half
// as the away team and the opponent bats in the bottom half as home.
type BaseballGame struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Mode         GameMode   `gorm:"not null;column:mode" json:"mode"`
	Player2ID    *uuid.UUID `gorm:"type:uuid;column:player2_id" json:"player2_id,omitempty"`
	Player2Name  string     `gorm:"column:player2_name" json:"player2_name,omitempty"`
	TotalInnings int        `gorm:"not null;default:1;column:total_innings" json:"total_innings"`
	Status       GameStatus `gorm:"not null;default:'active';column:status" json:"status"`

	Inning       int  `gorm:"not null;default:1;column:inning" json:"inning"`
	TopOfInning  bool `gorm:"not null;default:true;column:top_of_inning" json:"top_of_inning"`
	Outs         int  `gorm:"not null;default:0;column:outs" json:"outs"`
	RunnerFirst  bool `gorm:"not null;default:false;column:runner_first" json:"runner_first"`
	RunnerSecond bool `gorm:"not null;default:false;column:runner_second" json:"runner_second"`
	RunnerThird  bool `gorm:"not null;default:false;column:runner_third" json:"runner_third"`
	ScoreHome    int  `gorm:"not null;default:0;column:score_home" json:"score_home"`
	ScoreAway    int  `gorm:"not null;default:0;column:score_away" json:"score_away"`
	Streak       int  `gorm:"not null;default:0;column:streak" json:"streak"`
	BestStreak   int  `gorm:"not null;default:0;column:best_streak" json:"best_streak"`

	Plays datatypes.JSON `gorm:"column:plays" json:"plays"`

	TotalRuns  int        `gorm:"not null;default:0;column:total_runs" json:"total_runs"`
	WinnerID   *uuid.UUID `gorm:"type:uuid;column:winner_id" json:"winner_id,omitempty"`
	WinnerName string     `gorm:"column:winner_name" json:"winner_name,omitempty"`

	StartedAt time.Time  `gorm:"not null;column:started_at" json:"started_at"`
	EndedAt   *time.Time `gorm:"column:ended_at" json:"ended_at,omitempty"`
}

func (BaseballGame) TableName() string { return "baseball_game" }

func (g *BaseballGame) DecodePlays() ([]BaseballPlay, error) {
	if len(g.Plays) == 0 {
		return nil, nil
	}
	var plays []BaseballPlay
	if err := json.Unmarshal(g.Plays, &plays); err != nil {
		return nil, err
	}
	return plays, nil
}

func (g *BaseballGame) EncodePlays(plays []BaseballPlay) error {
	raw, err := json.Marshal(plays)
	if err != nil {
		return err
	}
	g.Plays = datatypes.JSON(raw)
	return nil
}

// BaseballStats is the per-user aggregate, merged on every game end: bests
// take the max of stored vs this game, totals sum.
type BaseballStats struct {
	ID     uuid.UUID `gorm:"type:uuid;default:(uuid_generate_v4());primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:user_id" json:"user_id"`

	TotalGames int `gorm:"not null;default:0;column:total_games" json:"total_games"`
	TotalRuns  int `gorm:"not null;default:0;column:total_runs" json:"total_runs"`
	TotalHits  int `gorm:"not null;default:0;column:total_hits" json:"total_hits"`
	TotalOuts  int `gorm:"not null;default:0;column:total_outs" json:"total_outs"`
	Singles    int `gorm:"not null;default:0;column:singles" json:"singles"`
	Doubles    int `gorm:"not null;default:0;column:doubles" json:"doubles"`
	Triples    int `gorm:"not null;default:0;column:triples" json:"triples"`
	HomeRuns   int `gorm:"not null;default:0;column:home_runs" json:"home_runs"`

	BestStreak       int `gorm:"not null;default:0;column:best_streak" json:"best_streak"`
	HighScore        int `gorm:"not null;default:0;column:high_score" json:"high_score"`
	BestSingleInning int `gorm:"not null;default:0;column:best_single_inning" json:"best_single_inning"`

	MultiplayerGames  int `gorm:"not null;default:0;column:multiplayer_games" json:"multiplayer_games"`
	MultiplayerWins   int `gorm:"not null;default:0;column:multiplayer_wins" json:"multiplayer_wins"`
	MultiplayerLosses int `gorm:"not null;default:0;column:multiplayer_losses" json:"multiplayer_losses"`
	MultiplayerTies   int `gorm:"not null;default:0;column:multiplayer_ties" json:"multiplayer_ties"`

	UpdatedAt time.Time `gorm:"not null;default:(now())" json:"updated_at"`
}

func (BaseballStats) TableName() string { return "baseball_stats" }
