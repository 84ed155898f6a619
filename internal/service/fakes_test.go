package service

import (
	"context"
	"errors"
	"sort"

	"ledger-board/internal/domain"
	"ledger-board/internal/repository"
)

type fakeTransactionRepo struct {
	txs map[string]domain.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txs: make(map[string]domain.Transaction)}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	r.txs[tx.ID] = *tx
	return nil
}

func (r *fakeTransactionRepo) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	tx, ok := r.txs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := tx
	return &clone, nil
}

func (r *fakeTransactionRepo) List(ctx context.Context) ([]domain.Transaction, error) {
	txs := r.all()
	sort.Slice(txs, func(i, j int) bool { return txs[i].OccurredOn.After(txs[j].OccurredOn) })
	return txs, nil
}

func (r *fakeTransactionRepo) ListByDateAsc(ctx context.Context) ([]domain.Transaction, error) {
	txs := r.all()
	sort.Slice(txs, func(i, j int) bool { return txs[i].OccurredOn.Before(txs[j].OccurredOn) })
	return txs, nil
}

func (r *fakeTransactionRepo) Update(ctx context.Context, tx *domain.Transaction) error {
	if _, ok := r.txs[tx.ID]; !ok {
		return repository.ErrNotFound
	}
	r.txs[tx.ID] = *tx
	return nil
}

func (r *fakeTransactionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.txs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.txs, id)
	return nil
}

func (r *fakeTransactionRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	for _, tx := range r.txs {
		if tx.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *fakeTransactionRepo) all() []domain.Transaction {
	txs := make([]domain.Transaction, 0, len(r.txs))
	for _, tx := range r.txs {
		txs = append(txs, tx)
	}
	return txs
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return errors.New("user already exists")
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := user
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}
