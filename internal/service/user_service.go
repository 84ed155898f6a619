package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"ledger-board/internal/domain"
	"ledger-board/internal/events"
	"ledger-board/internal/policy"
	"ledger-board/internal/repository"
)

var phonePattern = regexp.MustCompile(`^[0-9()+\- ]{7,20}$`)

// UserService covers the administrative account operations. Account
// creation lives in AuthService.
type UserService interface {
	List(ctx context.Context, p domain.Principal) ([]domain.User, error)
	Update(ctx context.Context, p domain.Principal, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
}

type userService struct {
	users     repository.UserRepository
	txs       repository.TransactionRepository
	publisher events.Publisher
	logger    logrus.FieldLogger
}

func NewUserService(users repository.UserRepository, txs repository.TransactionRepository, publisher events.Publisher, logger logrus.FieldLogger) UserService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &userService{
		users:     users,
		txs:       txs,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *userService) List(ctx context.Context, p domain.Principal) ([]domain.User, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !policy.CanManageUsers(p) {
		return nil, ErrForbidden
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, p domain.Principal, id string, patch domain.UserPatch) (*domain.User, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	if !policy.CanManageUsers(p) {
		return nil, ErrForbidden
	}
	if err := requireID(id); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name.Set {
		if patch.Name.Null {
			return nil, validationErr("name", "name is required")
		}
		name, err := validName(patch.Name.Value)
		if err != nil {
			return nil, err
		}
		user.Name = name
	}
	if patch.Phone.Set {
		// null or empty clears the phone; anything else must match the
		// accepted character class
		phone := ""
		if !patch.Phone.Null {
			phone = strings.TrimSpace(patch.Phone.Value)
		}
		if phone != "" && !phonePattern.MatchString(phone) {
			return nil, validationErr("phone", "phone must be 7-20 characters of digits, spaces, hyphens, parentheses or plus")
		}
		user.Phone = phone
	}
	if patch.Role.Set {
		if patch.Role.Null || !patch.Role.Value.Valid() {
			return nil, validationErr("role", "role must be USER or ADMIN")
		}
		user.Role = patch.Role.Value
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewLedgerEvent(events.EntityUser, events.ActionUpdated, user.ID, p.ID))

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) Delete(ctx context.Context, p domain.Principal, id string) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	if !policy.CanManageUsers(p) {
		return ErrForbidden
	}
	if err := requireID(id); err != nil {
		return err
	}
	// a more specific outcome than Forbidden: the request itself is invalid
	if !policy.CanDeleteUser(p, id) {
		return validationErr("", "cannot delete own account")
	}

	if _, err := s.users.GetByID(ctx, id); err != nil {
		return err
	}

	owned, err := s.txs.CountByOwner(ctx, id)
	if err != nil {
		return err
	}
	if owned > 0 {
		return validationErr("", fmt.Sprintf("user still owns %d transactions", owned))
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.NewLedgerEvent(events.EntityUser, events.ActionDeleted, id, p.ID))
	return nil
}

func (s *userService) publish(ctx context.Context, event events.LedgerEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warnf("publish %s %s event: %v", event.Entity, event.Action, err)
	}
}

func validName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len(name) < 2 || len(name) > 100 {
		return "", validationErr("name", "name must be 2-100 characters")
	}
	return name, nil
}
