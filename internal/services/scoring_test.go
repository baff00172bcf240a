package services

import (
	"testing"

	types "github.com/diperi/dugout-backend/internal/domain"
)

func TestAdvanceRunnersDouble(t *testing.T) {
	r, runs := AdvanceRunners(Runners{First: true, Second: true}, 2)
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}
	want := Runners{Second: true, Third: true}
	if r != want {
		t.Fatalf("expected runners %+v, got %+v", want, r)
	}
}

func TestAdvanceRunnersSingleLoadsBases(t *testing.T) {
	r, runs := AdvanceRunners(Runners{First: true, Second: true}, 1)
	if runs != 0 {
		t.Fatalf("expected no runs, got %d", runs)
	}
	want := Runners{First: true, Second: true, Third: true}
	if r != want {
		t.Fatalf("expected bases loaded, got %+v", r)
	}
}

func TestAdvanceRunnersGrandSlam(t *testing.T) {
	r, runs := AdvanceRunners(Runners{First: true, Second: true, Third: true}, 4)
	if runs != 4 {
		t.Fatalf("expected 4 runs, got %d", runs)
	}
	if r != (Runners{}) {
		t.Fatalf("expected empty bases after a home run, got %+v", r)
	}
}

func TestAdvanceRunnersSoloHomeRun(t *testing.T) {
	r, runs := AdvanceRunners(Runners{}, 4)
	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}
	if r != (Runners{}) {
		t.Fatalf("expected empty bases, got %+v", r)
	}
}

func TestAdvanceRunnersTripleScoresAll(t *testing.T) {
	r, runs := AdvanceRunners(Runners{First: true, Second: true, Third: true}, 3)
	if runs != 3 {
		t.Fatalf("expected 3 runs, got %d", runs)
	}
	if r != (Runners{Third: true}) {
		t.Fatalf("expected batter on third, got %+v", r)
	}
}

func TestEndHalfInningSingleInning(t *testing.T) {
	out := EndHalfInning(types.ModeSingleInning, 1, 1, true)
	if !out.GameOver {
		t.Fatalf("expected single-inning game to end on the third out")
	}
}

func TestEndHalfInningMultiplayer(t *testing.T) {
	out := EndHalfInning(types.ModeMultiplayer, 1, 3, true)
	if out.GameOver || out.Inning != 1 || out.TopOfInning {
		t.Fatalf("expected bottom of inning 1, got %+v", out)
	}

	out = EndHalfInning(types.ModeMultiplayer, 1, 3, false)
	if out.GameOver || out.Inning != 2 || !out.TopOfInning {
		t.Fatalf("expected top of inning 2, got %+v", out)
	}

	out = EndHalfInning(types.ModeMultiplayer, 3, 3, false)
	if !out.GameOver {
		t.Fatalf("expected game over after the bottom of the last inning, got %+v", out)
	}
}

func TestEndHalfInningFullGame(t *testing.T) {
	out := EndHalfInning(types.ModeFullGame, 2, 3, true)
	if out.GameOver || out.Inning != 3 {
		t.Fatalf("expected inning 3, got %+v", out)
	}

	out = EndHalfInning(types.ModeFullGame, 3, 3, true)
	if !out.GameOver {
		t.Fatalf("expected game over after the last inning, got %+v", out)
	}
}

func TestTotalsFromPlays(t *testing.T) {
	plays := []types.BaseballPlay{
		{Type: types.PlaySingle, Runs: 0, Streak: 1},
		{Type: types.PlayHomeRun, Runs: 2, Streak: 2},
		{Type: types.PlayOut},
		{Type: types.PlayDouble, Runs: 1, Streak: 1},
	}
	totals := TotalsFromPlays(plays)
	if totals.Hits != 3 || totals.Outs != 1 {
		t.Fatalf("unexpected hit/out totals: %+v", totals)
	}
	if totals.Singles != 1 || totals.Doubles != 1 || totals.HomeRuns != 1 || totals.Triples != 0 {
		t.Fatalf("unexpected hit breakdown: %+v", totals)
	}
	if totals.Runs != 3 {
		t.Fatalf("expected 3 runs, got %d", totals.Runs)
	}
	if totals.BestStreak != 2 {
		t.Fatalf("expected best streak 2, got %d", totals.BestStreak)
	}
}

func TestMergeBaseballStats(t *testing.T) {
	stats := &types.BaseballStats{
		TotalGames: 1,
		TotalRuns:  5,
		BestStreak: 4,
		HighScore:  5,
	}
	MergeBaseballStats(stats, PlayTotals{Runs: 7, Hits: 3, BestStreak: 2}, types.ModeSingleInning)

	if stats.TotalGames != 2 {
		t.Fatalf("expected 2 games, got %d", stats.TotalGames)
	}
	if stats.TotalRuns != 12 {
		t.Fatalf("expected 12 total runs, got %d", stats.TotalRuns)
	}
	if stats.BestStreak != 4 {
		t.Fatalf("expected best streak to stay 4, got %d", stats.BestStreak)
	}
	if stats.HighScore != 7 {
		t.Fatalf("expected high score 7, got %d", stats.HighScore)
	}
	if stats.BestSingleInning != 7 {
		t.Fatalf("expected best single inning 7, got %d", stats.BestSingleInning)
	}

	// Full-game scores never touch the single-inning best.
	MergeBaseballStats(stats, PlayTotals{Runs: 20}, types.ModeFullGame)
	if stats.BestSingleInning != 7 {
		t.Fatalf("expected best single inning unchanged, got %d", stats.BestSingleInning)
	}
}
