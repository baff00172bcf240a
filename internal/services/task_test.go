package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/diperi/dugout-backend/internal/data/repos/tasks"
	"github.com/diperi/dugout-backend/internal/data/repos/testutil"
	"github.com/diperi/dugout-backend/internal/data/repos/user"
	types "github.com/diperi/dugout-backend/internal/domain"
)

func TestCompleteAwardsCoinsOnce(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	userRepo := user.NewUserRepo(tx, log)
	taskRepo := tasks.NewTaskRepo(tx, log)
	templateRepo := tasks.NewTemplateRepo(tx, log)
	svc := NewTaskService(tx, log, taskRepo, templateRepo, userRepo)

	profiles, err := userRepo.Create(ctx, nil, []*types.User{{Name: "Rowan", BrokenRules: []byte("[]")}})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	templates, err := templateRepo.Create(ctx, nil, []*types.TaskTemplate{{Name: "Feed the dog", Coins: 3}})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	created, err := taskRepo.Create(ctx, nil, []*types.Task{{
		UserID:         profiles[0].ID,
		TaskTemplateID: templates[0].ID,
		DateAssigned:   types.DateOf(time.Now()),
		Status:         types.TaskPending,
	}})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	done, err := svc.Complete(ctx, profiles[0].ID, created[0].ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != types.TaskCompleted || done.TimeCompleted == nil {
		t.Fatalf("expected completed task, got %+v", done)
	}

	rows, err := userRepo.GetByIDs(ctx, nil, []uuid.UUID{profiles[0].ID})
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if rows[0].Coins != 3 {
		t.Fatalf("expected 3 coins, got %d", rows[0].Coins)
	}

	// Completing again is idempotent and does not double pay.
	if _, err := svc.Complete(ctx, profiles[0].ID, created[0].ID); err != nil {
		t.Fatalf("second complete: %v", err)
	}
	rows, err = userRepo.GetByIDs(ctx, nil, []uuid.UUID{profiles[0].ID})
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if rows[0].Coins != 3 {
		t.Fatalf("expected coins unchanged at 3, got %d", rows[0].Coins)
	}
}

func TestCompleteRejectsOtherUsersTask(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	ctx := context.Background()

	userRepo := user.NewUserRepo(tx, log)
	taskRepo := tasks.NewTaskRepo(tx, log)
	templateRepo := tasks.NewTemplateRepo(tx, log)
	svc := NewTaskService(tx, log, taskRepo, templateRepo, userRepo)

	profiles, err := userRepo.Create(ctx, nil, []*types.User{
		{Name: "Alexis", BrokenRules: []byte("[]")},
		{Name: "Beau", BrokenRules: []byte("[]")},
	})
	if err != nil {
		t.Fatalf("create users: %v", err)
	}
	templates, err := templateRepo.Create(ctx, nil, []*types.TaskTemplate{{Name: "Water plants", Coins: 1}})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	created, err := taskRepo.Create(ctx, nil, []*types.Task{{
		UserID:         profiles[0].ID,
		TaskTemplateID: templates[0].ID,
		DateAssigned:   types.DateOf(time.Now()),
		Status:         types.TaskPending,
	}})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if _, err := svc.Complete(ctx, profiles[1].ID, created[0].ID); err == nil {
		t.Fatalf("expected completing someone else's task to fail")
	}
}
