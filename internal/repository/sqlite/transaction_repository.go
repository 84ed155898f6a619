package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ledger-board/internal/domain"
	"ledger-board/internal/repository"
)

const transactionColumns = `
t.id, t.description, t.amount, t.kind, t.occurred_on, t.owner_id, t.created_at, t.updated_at,
u.id, u.name, u.email`

const transactionJoin = `
FROM transactions t
LEFT JOIN users u ON u.id = t.owner_id`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) repository.TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO transactions (id, description, amount, kind, occurred_on, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID,
		tx.Description,
		tx.Amount,
		string(tx.Kind),
		tx.OccurredOn.UTC(),
		tx.OwnerID,
		tx.CreatedAt,
		tx.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+transactionColumns+transactionJoin+`
WHERE t.id = ?`,
		id,
	)
	return scanTransaction(row)
}

func (r *TransactionRepository) List(ctx context.Context) ([]domain.Transaction, error) {
	return r.list(ctx, `ORDER BY t.occurred_on DESC`)
}

func (r *TransactionRepository) ListByDateAsc(ctx context.Context) ([]domain.Transaction, error) {
	return r.list(ctx, `ORDER BY t.occurred_on ASC`)
}

func (r *TransactionRepository) list(ctx context.Context, orderBy string) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+transactionColumns+transactionJoin+`
`+orderBy)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}

	return txs, rows.Err()
}

func (r *TransactionRepository) Update(ctx context.Context, tx *domain.Transaction) error {
	tx.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE transactions
SET description=?, amount=?, kind=?, occurred_on=?, updated_at=?
WHERE id=?`,
		tx.Description,
		tx.Amount,
		string(tx.Kind),
		tx.OccurredOn.UTC(),
		tx.UpdatedAt,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transaction update rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("transaction delete rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TransactionRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE owner_id=?`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions by owner: %w", err)
	}
	return count, nil
}

func scanTransaction(scanner interface {
	Scan(dest ...any) error
}) (*domain.Transaction, error) {
	var (
		tx         domain.Transaction
		kind       string
		occurredOn time.Time
		createdAt  time.Time
		updatedAt  time.Time
		ownerID    sql.NullString
		ownerName  sql.NullString
		ownerEmail sql.NullString
	)

	if err := scanner.Scan(
		&tx.ID,
		&tx.Description,
		&tx.Amount,
		&kind,
		&occurredOn,
		&tx.OwnerID,
		&createdAt,
		&updatedAt,
		&ownerID,
		&ownerName,
		&ownerEmail,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	tx.Kind = domain.TransactionKind(kind)
	tx.OccurredOn = occurredOn.Local()
	tx.CreatedAt = createdAt.Local()
	tx.UpdatedAt = updatedAt.Local()
	if ownerID.Valid {
		tx.Owner = &domain.OwnerSummary{
			ID:    ownerID.String,
			Name:  ownerName.String,
			Email: ownerEmail.String,
		}
	}

	return &tx, nil
}
