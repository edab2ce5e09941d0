package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/erazemk/assetinv/internal/auth"
	"github.com/erazemk/assetinv/internal/model"
	"github.com/erazemk/assetinv/internal/query"
	"github.com/erazemk/assetinv/internal/store"
)

// AccountService manages administrator accounts.
type AccountService struct {
	db       *sql.DB
	hasher   auth.PasswordHasher
	validate *validator.Validate
	listSpec query.Spec
}

// NewAccountService returns an AccountService hashing passwords with hasher.
func NewAccountService(db *sql.DB, hasher auth.PasswordHasher, maxPageSize int) *AccountService {
	return &AccountService{
		db:       db,
		hasher:   hasher,
		validate: validator.New(),
		listSpec: withMaxLimit(store.AccountListSpec, maxPageSize),
	}
}

// List returns one page of accounts, optionally filtered by role.
func (s *AccountService) List(ctx context.Context, q url.Values) (*ListResult[model.Account], error) {
	p := s.listSpec.ParamsFromQuery(q, "")

	accounts, err := store.ListAccounts(ctx, s.db, s.listSpec, p)
	if err != nil {
		return nil, err
	}
	total, err := store.CountAccounts(ctx, s.db, s.listSpec, p)
	if err != nil {
		return nil, err
	}
	return newListResult(accounts, p.Page, total), nil
}

// Get returns a single account.
func (s *AccountService) Get(ctx context.Context, id int64) (*model.Account, error) {
	a, err := store.GetAccount(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, model.Errorf(model.ErrNotFound, "Account not found")
	}
	return a, nil
}

// Create validates in, rejects a taken email and stores the account with a
// hashed password.
func (s *AccountService) Create(ctx context.Context, in model.CreateAccountInput) (*model.Account, error) {
	if err := s.validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return nil, model.Errorf(model.ErrValidation, "Required fields missing")
		}
		return nil, err
	}

	taken, err := store.EmailTaken(ctx, s.db, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, model.Errorf(model.ErrConflict, "Email already exists")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = model.AccountStatusActive
	}

	a, err := store.CreateAccount(ctx, s.db, in.Username, in.Email, hash, in.Role, status)
	if errors.Is(err, model.ErrConflict) {
		return nil, model.Errorf(model.ErrConflict, "Email already exists")
	}
	return a, err
}

// Update applies the non-empty fields of in to an existing account and
// returns the stored result.
func (s *AccountService) Update(ctx context.Context, id int64, in model.UpdateAccountInput) (*model.Account, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if in.Empty() {
		return nil, model.Errorf(model.ErrNoChanges, "No fields to update")
	}

	if in.Email != "" {
		taken, err := store.EmailTaken(ctx, s.db, in.Email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, model.Errorf(model.ErrConflict, "Email already exists")
		}
	}

	changes := store.AccountChanges{
		Username: in.Username,
		Email:    in.Email,
		Role:     in.Role,
		Status:   in.Status,
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		changes.PasswordHash = hash
	}

	err := store.UpdateAccount(ctx, s.db, id, changes)
	if errors.Is(err, model.ErrConflict) {
		return nil, model.Errorf(model.ErrConflict, "Email already exists")
	}
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes an account. A missing account is not an error.
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	return store.DeleteAccount(ctx, s.db, id)
}

// Count returns the total number of accounts.
func (s *AccountService) Count(ctx context.Context) (int, error) {
	return store.CountAccounts(ctx, s.db, s.listSpec, query.Params{})
}
