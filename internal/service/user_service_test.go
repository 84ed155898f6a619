package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"ledger-board/internal/domain"
)

func seedUser(repo *fakeUserRepo, role domain.Role) domain.User {
	user := domain.User{
		ID:           uuid.NewString(),
		Name:         "Seed User",
		Email:        uuid.NewString() + "@example.com",
		Phone:        "555-0101",
		Role:         role,
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	repo.users[user.ID] = user
	return user
}

func newUserServiceForTest(users *fakeUserRepo, txs *fakeTransactionRepo) UserService {
	return NewUserService(users, txs, nil, nil)
}

func TestListUsersRequiresAdmin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserServiceForTest(users, newFakeTransactionRepo())
	seedUser(users, domain.RoleUser)

	if _, err := svc.List(context.Background(), userPrincipal); !errors.Is(err, ErrForbidden) {
		t.Errorf("user list err = %v, want ErrForbidden", err)
	}

	listed, err := svc.List(context.Background(), adminPrincipal)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	for _, user := range listed {
		if user.PasswordHash != "" {
			t.Error("list must never include credential material")
		}
	}
}

func TestUpdateUserPhoneClearVsOmit(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserServiceForTest(users, newFakeTransactionRepo())
	seeded := seedUser(users, domain.RoleUser)

	// phone omitted: untouched
	updated, err := svc.Update(context.Background(), adminPrincipal, seeded.ID, domain.UserPatch{
		Name: domain.Some("Renamed User"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != seeded.Phone {
		t.Errorf("omitted phone changed to %q", updated.Phone)
	}
	if updated.Name != "Renamed User" {
		t.Errorf("name = %q", updated.Name)
	}

	// phone null: cleared
	updated, err = svc.Update(context.Background(), adminPrincipal, seeded.ID, domain.UserPatch{
		Phone: domain.Null[string](),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != "" {
		t.Errorf("null phone should clear, got %q", updated.Phone)
	}

	// phone empty string: also cleared
	repoUser := users.users[seeded.ID]
	repoUser.Phone = "555-0101"
	users.users[seeded.ID] = repoUser
	updated, err = svc.Update(context.Background(), adminPrincipal, seeded.ID, domain.UserPatch{
		Phone: domain.Some(""),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != "" {
		t.Errorf("empty phone should clear, got %q", updated.Phone)
	}
}

func TestUpdateUserValidation(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserServiceForTest(users, newFakeTransactionRepo())
	seeded := seedUser(users, domain.RoleUser)

	if _, err := svc.Update(context.Background(), adminPrincipal, seeded.ID, domain.UserPatch{
		Role: domain.Some(domain.Role("SUPERADMIN")),
	}); !IsValidation(err) {
		t.Errorf("bad role err = %v, want ValidationError", err)
	}
	if _, err := svc.Update(context.Background(), adminPrincipal, seeded.ID, domain.UserPatch{
		Name: domain.Some("x"),
	}); !IsValidation(err) {
		t.Errorf("short name err = %v, want ValidationError", err)
	}
	if _, err := svc.Update(context.Background(), adminPrincipal, seeded.ID, domain.UserPatch{
		Phone: domain.Some("abc"),
	}); !IsValidation(err) {
		t.Errorf("bad phone err = %v, want ValidationError", err)
	}
	if _, err := svc.Update(context.Background(), adminPrincipal, uuid.NewString(), domain.UserPatch{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(context.Background(), adminPrincipal, "nope", domain.UserPatch{}); !errors.Is(err, ErrInvalidID) {
		t.Errorf("malformed id err = %v, want ErrInvalidID", err)
	}
}

func TestUpdateUserPromoteRole(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserServiceForTest(users, newFakeTransactionRepo())
	seeded := seedUser(users, domain.RoleUser)

	updated, err := svc.Update(context.Background(), adminPrincipal, seeded.ID, domain.UserPatch{
		Role: domain.Some(domain.RoleAdmin),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Errorf("role = %s, want ADMIN", updated.Role)
	}
}

func TestDeleteUserSelfGuard(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserServiceForTest(users, newFakeTransactionRepo())

	admin := seedUser(users, domain.RoleAdmin)
	self := domain.Principal{ID: admin.ID, Role: domain.RoleAdmin}

	err := svc.Delete(context.Background(), self, admin.ID)
	if !IsValidation(err) {
		t.Fatalf("self delete err = %v, want ValidationError", err)
	}
	if errors.Is(err, ErrForbidden) {
		t.Error("self delete must be a validation outcome, not Forbidden")
	}
	if _, ok := users.users[admin.ID]; !ok {
		t.Error("self delete must not remove the account")
	}
}

func TestDeleteUserBlockedByOwnedTransactions(t *testing.T) {
	users := newFakeUserRepo()
	txs := newFakeTransactionRepo()
	svc := newUserServiceForTest(users, txs)

	seeded := seedUser(users, domain.RoleUser)
	txs.txs["t1"] = domain.Transaction{ID: "t1", OwnerID: seeded.ID, Amount: 100, Kind: domain.KindIncome}

	if err := svc.Delete(context.Background(), adminPrincipal, seeded.ID); !IsValidation(err) {
		t.Errorf("delete with owned transactions err = %v, want ValidationError", err)
	}
}

func TestDeleteUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserServiceForTest(users, newFakeTransactionRepo())
	seeded := seedUser(users, domain.RoleUser)

	if err := svc.Delete(context.Background(), userPrincipal, seeded.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-admin delete err = %v, want ErrForbidden", err)
	}
	if err := svc.Delete(context.Background(), adminPrincipal, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), adminPrincipal, seeded.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := users.users[seeded.ID]; ok {
		t.Error("user should be removed")
	}
}
