package services

import (
	types "github.com/diperi/dugout-backend/internal/domain"
)

// Runners is the base-occupancy state of a half inning.
type Runners struct {
	First  bool `json:"first"`
	Second bool `json:"second"`
	Third  bool `json:"third"`
}

// AdvanceRunners applies a hit of 1..4 bases. Existing runners advance one
// base per base of the hit, processed from third backwards so nobody passes
// anyone; each runner reaching home scores. The batter then takes base N,
// except a home run which clears the bases and scores every runner plus the
// batter. Returns the new state and the runs scored on the play.
func AdvanceRunners(r Runners, bases int) (Runners, int) {
	runs := 0

	for i := 0; i < bases; i++ {
		if r.Third {
			runs++
			r.Third = false
		}
		if r.Second {
			r.Third = true
			r.Second = false
		}
		if r.First {
			r.Second = true
			r.First = false
		}
	}

	switch bases {
	case 1:
		r.First = true
	case 2:
		r.Second = true
	case 3:
		r.Third = true
	case 4:
		if r.Third {
			runs++
		}
		if r.Second {
			runs++
		}
		if r.First {
			runs++
		}
		runs++
		r = Runners{}
	}

	return r, runs
}

// HalfInningOutcome describes what happens after the third out.
type HalfInningOutcome struct {
	GameOver    bool
	Inning      int
	TopOfInning bool
}

// EndHalfInning resolves the third out for the given mode. Single-inning
// games end immediately. Multiplayer games alternate sides: the top half
// flips to the bottom of the same inning, the bottom half advances to the
// top of the next inning or ends the game after the last one. Full-game
// solo play advances innings with no side to switch.
func EndHalfInning(mode types.GameMode, inning, totalInnings int, topOfInning bool) HalfInningOutcome {
	switch mode {
	case types.ModeSingleInning:
		return HalfInningOutcome{GameOver: true, Inning: inning, TopOfInning: topOfInning}

	case types.ModeMultiplayer:
		if topOfInning {
			return HalfInningOutcome{Inning: inning, TopOfInning: false}
		}
		if inning >= totalInnings {
			return HalfInningOutcome{GameOver: true, Inning: inning, TopOfInning: false}
		}
		return HalfInningOutcome{Inning: inning + 1, TopOfInning: true}

	default: // full-game
		if inning >= totalInnings {
			return HalfInningOutcome{GameOver: true, Inning: inning, TopOfInning: topOfInning}
		}
		return HalfInningOutcome{Inning: inning + 1, TopOfInning: topOfInning}
	}
}

// PlayTotals are per-player aggregates computed from a game's play log.
type PlayTotals struct {
	Hits       int
	Outs       int
	Singles    int
	Doubles    int
	Triples    int
	HomeRuns   int
	Runs       int
	BestStreak int
}

// TotalsFromPlays aggregates the plays belonging to one player. Pass all
// plays for solo games; multiplayer callers filter by player first.
func TotalsFromPlays(plays []types.BaseballPlay) PlayTotals {
	var t PlayTotals
	for _, p := range plays {
		switch p.Type {
		case types.PlayOut:
			t.Outs++
		case types.PlaySingle:
			t.Hits++
			t.Singles++
		case types.PlayDouble:
			t.Hits++
			t.Doubles++
		case types.PlayTriple:
			t.Hits++
			t.Triples++
		case types.PlayHomeRun:
			t.Hits++
			t.HomeRuns++
		}
		t.Runs += p.Runs
		if p.Streak > t.BestStreak {
			t.BestStreak = p.Streak
		}
	}
	return t
}

// MergeBaseballStats folds one completed game's totals into a user's
// persistent stats: totals sum, bests take the max.
func MergeBaseballStats(stats *types.BaseballStats, t PlayTotals, mode types.GameMode) {
	stats.TotalGames++
	stats.TotalRuns += t.Runs
	stats.TotalHits += t.Hits
	stats.TotalOuts += t.Outs
	stats.Singles += t.Singles
	stats.Doubles += t.Doubles
	stats.Triples += t.Triples
	stats.HomeRuns += t.HomeRuns

	if t.BestStreak > stats.BestStreak {
		stats.BestStreak = t.BestStreak
	}
	if t.Runs > stats.HighScore {
		stats.HighScore = t.Runs
	}
	if mode == types.ModeSingleInning && t.Runs > stats.BestSingleInning {
		stats.BestSingleInning = t.Runs
	}
}
