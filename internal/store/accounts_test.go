package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/assetinv/internal/db"
	"github.com/erazemk/assetinv/internal/model"
	"github.com/erazemk/assetinv/internal/query"
)

func TestCreateAndGetAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, err := CreateAccount(ctx, database, "alice", "alice@example.com", "hash", "admin", model.AccountStatusActive)
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}
	if a.Username != "alice" || a.Email != "alice@example.com" {
		t.Errorf("unexpected account %+v", a)
	}
	if a.LastLogin != nil {
		t.Errorf("expected nil last_login, got %v", a.LastLogin)
	}

	got, err := GetAccountByEmail(ctx, database, "alice@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail: %v", err)
	}
	if got == nil || got.ID != a.ID {
		t.Fatalf("expected account %d, got %+v", a.ID, got)
	}
	if got.PasswordHash != "hash" {
		t.Errorf("expected password hash to round trip, got %q", got.PasswordHash)
	}

	missing, err := GetAccount(ctx, database, 999)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing account")
	}
}

func TestCreateAccountDuplicateEmail(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if _, err := CreateAccount(ctx, database, "a", "dup@example.com", "h", "admin", "Active"); err != nil {
		t.Fatal(err)
	}
	_, err := CreateAccount(ctx, database, "b", "dup@example.com", "h", "admin", "Active")
	if !errors.Is(err, model.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestEmailTaken(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateAccount(ctx, database, "a", "a@example.com", "h", "admin", "Active")

	taken, err := EmailTaken(ctx, database, "a@example.com", 0)
	if err != nil || !taken {
		t.Errorf("EmailTaken(any) = %v, %v; want true", taken, err)
	}
	taken, err = EmailTaken(ctx, database, "a@example.com", a.ID)
	if err != nil || taken {
		t.Errorf("EmailTaken(self excluded) = %v, %v; want false", taken, err)
	}
	taken, _ = EmailTaken(ctx, database, "b@example.com", 0)
	if taken {
		t.Error("expected unused email to be free")
	}
}

func TestListAccountsFilterAndSort(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateAccount(ctx, database, "carol", "c@example.com", "h", "viewer", "Active")
	CreateAccount(ctx, database, "alice", "a@example.com", "h", "admin", "Active")
	CreateAccount(ctx, database, "bob", "b@example.com", "h", "admin", "Active")

	p := query.Params{
		Values:    map[string]string{"roleFilter": "admin"},
		SortOrder: "desc",
		Page:      query.Page{Page: 1, Limit: 10},
	}
	accounts, err := ListAccounts(ctx, database, AccountListSpec, p)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 admins, got %d", len(accounts))
	}
	if accounts[0].Username != "bob" || accounts[1].Username != "alice" {
		t.Errorf("expected bob, alice; got %s, %s", accounts[0].Username, accounts[1].Username)
	}

	total, err := CountAccounts(ctx, database, AccountListSpec, query.Params{})
	if err != nil {
		t.Fatalf("CountAccounts: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 accounts, got %d", total)
	}
}

func TestUpdateAccountPartial(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateAccount(ctx, database, "alice", "a@example.com", "h", "admin", "Active")
	CreateAccount(ctx, database, "bob", "b@example.com", "h", "admin", "Active")

	if err := UpdateAccount(ctx, database, a.ID, AccountChanges{Role: "viewer"}); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	got, _ := GetAccount(ctx, database, a.ID)
	if got.Role != "viewer" || got.Username != "alice" || got.Email != "a@example.com" {
		t.Errorf("unexpected account after partial update: %+v", got)
	}

	err := UpdateAccount(ctx, database, a.ID, AccountChanges{Email: "b@example.com"})
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}

	err = UpdateAccount(ctx, database, a.ID, AccountChanges{})
	if !errors.Is(err, model.ErrNoChanges) {
		t.Errorf("expected ErrNoChanges, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, _ := CreateAccount(ctx, database, "alice", "a@example.com", "h", "admin", "Active")
	if err := DeleteAccount(ctx, database, a.ID); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	got, _ := GetAccount(ctx, database, a.ID)
	if got != nil {
		t.Error("expected account to be gone")
	}
	if err := DeleteAccount(ctx, database, a.ID); err != nil {
		t.Errorf("deleting a missing account: %v", err)
	}
}
