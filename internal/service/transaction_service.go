package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ledger-board/internal/domain"
	"ledger-board/internal/events"
	"ledger-board/internal/policy"
	"ledger-board/internal/repository"
)

const maxDescriptionLength = 500

// CreateTransactionInput is the validated-on-entry payload for a new ledger
// entry. OccurredOn nil means "now".
type CreateTransactionInput struct {
	Description string
	Amount      int64
	Kind        domain.TransactionKind
	OccurredOn  *time.Time
}

// TransactionService coordinates ledger entry operations: policy checks,
// payload validation, persistence and audit events.
type TransactionService interface {
	List(ctx context.Context, p domain.Principal) ([]domain.Transaction, error)
	Create(ctx context.Context, p domain.Principal, input CreateTransactionInput) (*domain.Transaction, error)
	Update(ctx context.Context, p domain.Principal, id string, patch domain.TransactionPatch) (*domain.Transaction, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
}

type transactionService struct {
	txs       repository.TransactionRepository
	publisher events.Publisher
	logger    logrus.FieldLogger
}

func NewTransactionService(txs repository.TransactionRepository, publisher events.Publisher, logger logrus.FieldLogger) TransactionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &transactionService{
		txs:       txs,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *transactionService) List(ctx context.Context, p domain.Principal) ([]domain.Transaction, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !policy.CanViewTransactions(p) {
		return nil, ErrForbidden
	}
	return s.txs.List(ctx)
}

func (s *transactionService) Create(ctx context.Context, p domain.Principal, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !policy.CanManageTransactions(p) {
		return nil, ErrForbidden
	}

	description, err := validDescription(input.Description)
	if err != nil {
		return nil, err
	}
	if err := validAmount(input.Amount); err != nil {
		return nil, err
	}
	if !input.Kind.Valid() {
		return nil, validationErr("kind", "kind must be INCOME or EXPENSE")
	}

	occurredOn := time.Now()
	if input.OccurredOn != nil {
		if input.OccurredOn.IsZero() {
			return nil, validationErr("date", "date is invalid")
		}
		occurredOn = *input.OccurredOn
	}

	tx := &domain.Transaction{
		ID:          uuid.NewString(),
		Description: description,
		Amount:      input.Amount,
		Kind:        input.Kind,
		OccurredOn:  occurredOn,
		OwnerID:     p.ID,
	}

	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewLedgerEvent(events.EntityTransaction, events.ActionCreated, tx.ID, p.ID))

	// re-read for the owner join
	return s.txs.Get(ctx, tx.ID)
}

func (s *transactionService) Update(ctx context.Context, p domain.Principal, id string, patch domain.TransactionPatch) (*domain.Transaction, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !policy.CanManageTransactions(p) {
		return nil, ErrForbidden
	}
	if err := requireID(id); err != nil {
		return nil, err
	}

	tx, err := s.txs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Description.Set {
		if patch.Description.Null {
			return nil, validationErr("description", "description is required")
		}
		description, err := validDescription(patch.Description.Value)
		if err != nil {
			return nil, err
		}
		tx.Description = description
	}
	if patch.Amount.Set {
		if patch.Amount.Null {
			return nil, validationErr("amount", "amount is required")
		}
		if err := validAmount(patch.Amount.Value); err != nil {
			return nil, err
		}
		tx.Amount = patch.Amount.Value
	}
	if patch.Kind.Set {
		if patch.Kind.Null || !patch.Kind.Value.Valid() {
			return nil, validationErr("kind", "kind must be INCOME or EXPENSE")
		}
		tx.Kind = patch.Kind.Value
	}
	if patch.OccurredOn.Set {
		if patch.OccurredOn.Null || patch.OccurredOn.Value.IsZero() {
			return nil, validationErr("date", "date is invalid")
		}
		tx.OccurredOn = patch.OccurredOn.Value
	}

	if err := s.txs.Update(ctx, tx); err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewLedgerEvent(events.EntityTransaction, events.ActionUpdated, tx.ID, p.ID))

	return s.txs.Get(ctx, tx.ID)
}

func (s *transactionService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	if !policy.CanManageTransactions(p) {
		return ErrForbidden
	}
	if err := requireID(id); err != nil {
		return err
	}

	if err := s.txs.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.NewLedgerEvent(events.EntityTransaction, events.ActionDeleted, id, p.ID))
	return nil
}

// publish delivers audit events best effort; a broker outage must never
// fail an already-applied mutation.
func (s *transactionService) publish(ctx context.Context, event events.LedgerEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warnf("publish %s %s event: %v", event.Entity, event.Action, err)
	}
}

func requirePrincipal(p domain.Principal) error {
	if p.ID == "" {
		return ErrUnauthenticated
	}
	return nil
}

func requireID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

func validDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	if description == "" {
		return "", validationErr("description", "description is required")
	}
	if len(description) > maxDescriptionLength {
		return "", validationErr("description", "description must be at most 500 characters")
	}
	return description, nil
}

func validAmount(amount int64) error {
	if amount <= 0 {
		return validationErr("amount", "amount must be a positive number")
	}
	return nil
}
