package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/diperi/dugout-backend/internal/data/repos/okr"
	"github.com/diperi/dugout-backend/internal/data/repos/tasks"
	"github.com/diperi/dugout-backend/internal/data/repos/testutil"
	"github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
)

type okrFixture struct {
	svc      OKRService
	userRepo user.UserRepo
	taskRepo tasks.TaskRepo
	profile  *types.User
	template *types.TaskTemplate
}

func newOKRFixture(t *testing.T) *okrFixture {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	userRepo := user.NewUserRepo(tx, log)
	taskRepo := tasks.NewTaskRepo(tx, log)
	templateRepo := tasks.NewTemplateRepo(tx, log)
	svc := NewOKRService(tx, log, okr.NewObjectiveRepo(tx, log), taskRepo, userRepo)

	ctx := context.Background()
	profiles, err := userRepo.Create(ctx, nil, []*types.User{
		{Name: "Morgan", Coins: 0, BrokenRules: []byte("[]")},
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	templates, err := templateRepo.Create(ctx, nil, []*types.TaskTemplate{
		{Name: "Practice piano", Coins: 2},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	return &okrFixture{
		svc:      svc,
		userRepo: userRepo,
		taskRepo: taskRepo,
		profile:  profiles[0],
		template: templates[0],
	}
}

// seedTasks creates assigned tasks in the window, completing the first
// `completed` of them.
func (f *okrFixture) seedTasks(t *testing.T, start time.Time, assigned, completed int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < assigned; i++ {
		date := types.DateOf(start.AddDate(0, 0, i))
		rows, err := f.taskRepo.Create(ctx, nil, []*types.Task{
			{UserID: f.profile.ID, TaskTemplateID: f.template.ID, DateAssigned: date, Status: types.TaskPending},
		})
		if err != nil {
			t.Fatalf("create task: %v", err)
		}
		if i < completed {
			if err := f.taskRepo.MarkCompleted(ctx, nil, rows[0].ID, time.Now()); err != nil {
				t.Fatalf("mark completed: %v", err)
			}
		}
	}
}

func (f *okrFixture) coins(t *testing.T) int {
	t.Helper()
	rows, err := f.userRepo.GetByIDs(context.Background(), nil, []uuid.UUID{f.profile.ID})
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	return rows[0].Coins
}

func (f *okrFixture) krInput(status types.KeyResultStatus, threshold float64, start time.Time, days int) KeyResultInput {
	return KeyResultInput{
		Title:            "Practice every day",
		Coins:            5,
		ThresholdPercent: threshold,
		TaskTemplateID:   f.template.ID,
		StartDate:        types.DateOf(start),
		EndDate:          types.DateOf(start.AddDate(0, 0, days-1)),
		Status:           status,
	}
}

func TestKeyResultAwardOnDoneEdge(t *testing.T) {
	f := newOKRFixture(t)
	ctx := context.Background()
	start := time.Now().AddDate(0, 0, -4)
	f.seedTasks(t, start, 4, 3) // 75% progress

	view, err := f.svc.Create(ctx, f.profile.ID, ObjectiveInput{Title: "Get better at piano", Coins: 10})
	if err != nil {
		t.Fatalf("create objective: %v", err)
	}
	objID := view.Objective.ID

	// Marking done above threshold awards coins once.
	view, err = f.svc.UpsertKeyResult(ctx, f.profile.ID, objID, f.krInput(types.KeyResultDone, 50, start, 4))
	if err != nil {
		t.Fatalf("upsert kr: %v", err)
	}
	if got := f.coins(t); got != 5 {
		t.Fatalf("expected 5 coins after award, got %d", got)
	}
	if !view.KeyResults[0].AwardGranted {
		t.Fatalf("expected award flag set")
	}
	if view.KeyResults[0].Progress != 75 {
		t.Fatalf("expected 75%% progress, got %v", view.KeyResults[0].Progress)
	}

	// Saving it done again is not an edge; no double award.
	in := f.krInput(types.KeyResultDone, 50, start, 4)
	in.ID = view.KeyResults[0].ID
	if _, err = f.svc.UpsertKeyResult(ctx, f.profile.ID, objID, in); err != nil {
		t.Fatalf("upsert kr: %v", err)
	}
	if got := f.coins(t); got != 5 {
		t.Fatalf("expected coins unchanged at 5, got %d", got)
	}

	// Reverting out of done takes the award back.
	in.Status = types.KeyResultInProgress
	if _, err = f.svc.UpsertKeyResult(ctx, f.profile.ID, objID, in); err != nil {
		t.Fatalf("upsert kr: %v", err)
	}
	if got := f.coins(t); got != 0 {
		t.Fatalf("expected award reversed to 0, got %d", got)
	}
}

func TestKeyResultBelowThresholdNoAward(t *testing.T) {
	f := newOKRFixture(t)
	ctx := context.Background()
	start := time.Now().AddDate(0, 0, -4)
	f.seedTasks(t, start, 4, 1) // 25% progress

	view, err := f.svc.Create(ctx, f.profile.ID, ObjectiveInput{Title: "Daily reading", Coins: 0})
	if err != nil {
		t.Fatalf("create objective: %v", err)
	}

	view, err = f.svc.UpsertKeyResult(ctx, f.profile.ID, view.Objective.ID, f.krInput(types.KeyResultDone, 80, start, 4))
	if err != nil {
		t.Fatalf("upsert kr: %v", err)
	}
	if got := f.coins(t); got != 0 {
		t.Fatalf("expected no award below threshold, got %d coins", got)
	}
	if view.KeyResults[0].AwardGranted {
		t.Fatalf("expected award flag unset")
	}
}

func TestKeyResultZeroAssignedIsZeroProgress(t *testing.T) {
	f := newOKRFixture(t)
	ctx := context.Background()
	start := time.Now()

	view, err := f.svc.Create(ctx, f.profile.ID, ObjectiveInput{Title: "Empty window", Coins: 0})
	if err != nil {
		t.Fatalf("create objective: %v", err)
	}
	view, err = f.svc.UpsertKeyResult(ctx, f.profile.ID, view.Objective.ID, f.krInput(types.KeyResultPending, 50, start, 3))
	if err != nil {
		t.Fatalf("upsert kr: %v", err)
	}
	if view.KeyResults[0].Progress != 0 {
		t.Fatalf("expected 0%% with nothing assigned, got %v", view.KeyResults[0].Progress)
	}
}

func TestObjectiveDoneRequiresQualifiedKeyResults(t *testing.T) {
	f := newOKRFixture(t)
	ctx := context.Background()
	start := time.Now().AddDate(0, 0, -4)
	f.seedTasks(t, start, 4, 1) // 25% progress

	view, err := f.svc.Create(ctx, f.profile.ID, ObjectiveInput{Title: "Big goal", Coins: 10})
	if err != nil {
		t.Fatalf("create objective: %v", err)
	}
	objID := view.Objective.ID

	// KR done but below its threshold: objective cannot enter done.
	if _, err = f.svc.UpsertKeyResult(ctx, f.profile.ID, objID, f.krInput(types.KeyResultDone, 80, start, 4)); err != nil {
		t.Fatalf("upsert kr: %v", err)
	}

	view, err = f.svc.Update(ctx, f.profile.ID, objID, ObjectiveInput{Title: "Big goal", Coins: 10, Status: types.ObjectiveDone})
	if err != nil {
		t.Fatalf("update objective: %v", err)
	}
	if view.Objective.Status != types.ObjectiveInProgress {
		t.Fatalf("expected objective reverted, got %s", view.Objective.Status)
	}
	if view.Message != ObjectiveRevertedMessage {
		t.Fatalf("unexpected message: %q", view.Message)
	}
	if got := f.coins(t); got != 0 {
		t.Fatalf("expected no objective coins, got %d", got)
	}
}

func TestObjectiveCoinsAwardAndReconcile(t *testing.T) {
	f := newOKRFixture(t)
	ctx := context.Background()
	start := time.Now().AddDate(0, 0, -4)
	f.seedTasks(t, start, 4, 4) // 100% progress

	view, err := f.svc.Create(ctx, f.profile.ID, ObjectiveInput{Title: "Perfect week", Coins: 10})
	if err != nil {
		t.Fatalf("create objective: %v", err)
	}
	objID := view.Objective.ID

	view, err = f.svc.UpsertKeyResult(ctx, f.profile.ID, objID, f.krInput(types.KeyResultDone, 100, start, 4))
	if err != nil {
		t.Fatalf("upsert kr: %v", err)
	}
	krID := view.KeyResults[0].ID
	if got := f.coins(t); got != 5 {
		t.Fatalf("expected kr award of 5, got %d", got)
	}

	view, err = f.svc.Update(ctx, f.profile.ID, objID, ObjectiveInput{Title: "Perfect week", Coins: 10, Status: types.ObjectiveDone})
	if err != nil {
		t.Fatalf("update objective: %v", err)
	}
	if view.Objective.Status != types.ObjectiveDone {
		t.Fatalf("expected objective done, got %s", view.Objective.Status)
	}
	if got := f.coins(t); got != 15 {
		t.Fatalf("expected 15 coins (kr + objective), got %d", got)
	}

	// Flipping the KR back reconciles the objective and reverses both
	// awards.
	in := f.krInput(types.KeyResultInProgress, 100, start, 4)
	in.ID = krID
	view, err = f.svc.UpsertKeyResult(ctx, f.profile.ID, objID, in)
	if err != nil {
		t.Fatalf("upsert kr: %v", err)
	}
	if view.Objective.Status != types.ObjectiveInProgress {
		t.Fatalf("expected objective reconciled to in-progress, got %s", view.Objective.Status)
	}
	if view.Message != ObjectiveRevertedMessage {
		t.Fatalf("unexpected message: %q", view.Message)
	}
	if got := f.coins(t); got != 0 {
		t.Fatalf("expected all coins reversed, got %d", got)
	}
}

func TestDeleteKeyResultReversesAward(t *testing.T) {
	f := newOKRFixture(t)
	ctx := context.Background()
	start := time.Now().AddDate(0, 0, -2)
	f.seedTasks(t, start, 2, 2)

	view, err := f.svc.Create(ctx, f.profile.ID, ObjectiveInput{Title: "Short goal", Coins: 0})
	if err != nil {
		t.Fatalf("create objective: %v", err)
	}
	objID := view.Objective.ID

	view, err = f.svc.UpsertKeyResult(ctx, f.profile.ID, objID, f.krInput(types.KeyResultDone, 50, start, 2))
	if err != nil {
		t.Fatalf("upsert kr: %v", err)
	}
	if got := f.coins(t); got != 5 {
		t.Fatalf("expected 5 coins, got %d", got)
	}

	view, err = f.svc.DeleteKeyResult(ctx, f.profile.ID, objID, view.KeyResults[0].ID)
	if err != nil {
		t.Fatalf("delete kr: %v", err)
	}
	if len(view.KeyResults) != 0 {
		t.Fatalf("expected no key results left, got %d", len(view.KeyResults))
	}
	if got := f.coins(t); got != 0 {
		t.Fatalf("expected award reversed, got %d", got)
	}
}
