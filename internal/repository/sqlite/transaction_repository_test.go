package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"ledger-board/internal/domain"
	"ledger-board/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	if err := Migrate(path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertUser(t *testing.T, db *sql.DB, name, email string) domain.User {
	t.Helper()

	user := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         domain.RoleAdmin,
		PasswordHash: "hash",
	}
	if err := NewUserRepository(db).Create(context.Background(), &user); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return user
}

func newTransaction(owner domain.User, amount int64, occurredOn time.Time) domain.Transaction {
	return domain.Transaction{
		ID:          uuid.NewString(),
		Description: "test entry",
		Amount:      amount,
		Kind:        domain.KindIncome,
		OccurredOn:  occurredOn,
		OwnerID:     owner.ID,
	}
}

func TestTransactionCRUD(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	owner := insertUser(t, db, "Owner User", "owner@example.com")

	occurredOn := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.Local)
	tx := newTransaction(owner, 5000, occurredOn)
	if err := repo.Create(ctx, &tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Get(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount != 5000 || got.Kind != domain.KindIncome || got.Description != "test entry" {
		t.Errorf("got %+v", got)
	}
	if !got.OccurredOn.Equal(occurredOn) {
		t.Errorf("occurredOn = %v, want %v", got.OccurredOn, occurredOn)
	}
	if got.Owner == nil || got.Owner.Name != "Owner User" || got.Owner.Email != "owner@example.com" {
		t.Errorf("owner join = %+v", got.Owner)
	}

	got.Amount = 7500
	got.Description = "adjusted entry"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, err := repo.Get(ctx, tx.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if updated.Amount != 7500 || updated.Description != "adjusted entry" {
		t.Errorf("updated = %+v", updated)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Error("updated_at must not precede created_at")
	}

	if err := repo.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, tx.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
}

func TestTransactionNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	if _, err := repo.Get(ctx, uuid.NewString()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("get err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, uuid.NewString()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("delete err = %v, want ErrNotFound", err)
	}
	missing := domain.Transaction{ID: uuid.NewString(), Kind: domain.KindIncome, OccurredOn: time.Now()}
	if err := repo.Update(ctx, &missing); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("update err = %v, want ErrNotFound", err)
	}
}

func TestTransactionListOrdering(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()
	owner := insertUser(t, db, "Owner User", "owner@example.com")

	dates := []time.Time{
		time.Date(2025, time.February, 1, 0, 0, 0, 0, time.Local),
		time.Date(2024, time.December, 1, 0, 0, 0, 0, time.Local),
		time.Date(2025, time.January, 15, 0, 0, 0, 0, time.Local),
	}
	for i, d := range dates {
		tx := newTransaction(owner, int64(100*(i+1)), d)
		if err := repo.Create(ctx, &tx); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	desc, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(desc) != 3 {
		t.Fatalf("list has %d entries, want 3", len(desc))
	}
	for i := 1; i < len(desc); i++ {
		if desc[i].OccurredOn.After(desc[i-1].OccurredOn) {
			t.Errorf("List not descending at %d", i)
		}
	}

	asc, err := repo.ListByDateAsc(ctx)
	if err != nil {
		t.Fatalf("list asc: %v", err)
	}
	for i := 1; i < len(asc); i++ {
		if asc[i].OccurredOn.Before(asc[i-1].OccurredOn) {
			t.Errorf("ListByDateAsc not ascending at %d", i)
		}
	}
}

func TestCountByOwner(t *testing.T) {
	db := openTestDB(t)
	repo := NewTransactionRepository(db)
	ctx := context.Background()

	first := insertUser(t, db, "First User", "first@example.com")
	second := insertUser(t, db, "Second User", "second@example.com")

	for i := 0; i < 3; i++ {
		tx := newTransaction(first, 100, time.Now())
		if err := repo.Create(ctx, &tx); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	count, err := repo.CountByOwner(ctx, first.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	count, err = repo.CountByOwner(ctx, second.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestUserRepository(t *testing.T) {
	db := openTestDB(t)
	users := NewUserRepository(db)
	txs := NewTransactionRepository(db)
	ctx := context.Background()

	seeded := insertUser(t, db, "Seed User", "seed@example.com")

	dup := domain.User{ID: uuid.NewString(), Name: "Dup", Email: "seed@example.com", Role: domain.RoleUser, PasswordHash: "hash"}
	if err := users.Create(ctx, &dup); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("duplicate email err = %v, want already exists", err)
	}

	byEmail, err := users.GetByEmail(ctx, "seed@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != seeded.ID {
		t.Errorf("got id %q, want %q", byEmail.ID, seeded.ID)
	}

	tx := newTransaction(seeded, 100, time.Now())
	if err := txs.Create(ctx, &tx); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	listed, err := users.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("list has %d users, want 1", len(listed))
	}
	if listed[0].TransactionCount != 1 {
		t.Errorf("transaction count = %d, want 1", listed[0].TransactionCount)
	}

	byEmail.Name = "Renamed User"
	byEmail.Role = domain.RoleUser
	if err := users.Update(ctx, byEmail); err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, err := users.GetByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if reloaded.Name != "Renamed User" || reloaded.Role != domain.RoleUser {
		t.Errorf("reloaded = %+v", reloaded)
	}

	if err := txs.Delete(ctx, tx.ID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if err := users.Delete(ctx, seeded.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := users.GetByID(ctx, seeded.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("get after delete err = %v, want ErrNotFound", err)
	}
}
