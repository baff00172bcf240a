package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/diperi/dugout-backend/internal/data/repos/testutil"
	types "github.com/diperi/dugout-backend/internal/domain"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.User{
		{Name: "Sam", AvatarColor: "#FF5733", BrokenRules: []byte("[]")},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("expected one created user with an id, got %v", created)
	}

	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Sam" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestNameExists(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	if _, err := repo.Create(ctx, tx, []*types.User{{Name: "Riley", BrokenRules: []byte("[]")}}); err != nil {
		t.Fatalf("create: %v", err)
	}

	exists, err := repo.NameExists(ctx, tx, "Riley")
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected Riley to exist")
	}

	exists, err = repo.NameExists(ctx, tx, "Nobody")
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if exists {
		t.Fatalf("expected Nobody to not exist")
	}
}

func TestAdjustCoinsClampsAtZero(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.User{{Name: "Casey", Coins: 3, BrokenRules: []byte("[]")}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := created[0].ID

	if err := repo.AdjustCoins(ctx, tx, id, -10); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rows[0].Coins != 0 {
		t.Fatalf("expected coins clamped to 0, got %d", rows[0].Coins)
	}

	if err := repo.AdjustCoins(ctx, tx, id, 7); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	rows, err = repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rows[0].Coins != 7 {
		t.Fatalf("expected 7 coins, got %d", rows[0].Coins)
	}
}
