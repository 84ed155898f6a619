package repository

import (
	"context"
	"errors"

	"ledger-board/internal/domain"
)

// ErrNotFound is returned when a well formed id matches no record.
var ErrNotFound = errors.New("record not found")

// TransactionRepository exposes persistence operations for ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	Get(ctx context.Context, id string) (*domain.Transaction, error)
	// List returns every transaction joined with its owner summary,
	// ordered by occurred_on descending.
	List(ctx context.Context) ([]domain.Transaction, error)
	// ListByDateAsc returns every transaction ordered by occurred_on
	// ascending, the order the report aggregation consumes.
	ListByDateAsc(ctx context.Context) ([]domain.Transaction, error)
	Update(ctx context.Context, tx *domain.Transaction) error
	Delete(ctx context.Context, id string) error
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
}
