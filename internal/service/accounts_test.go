package service

import (
	"context"
	"net/url"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/assetinv/internal/auth"
	"github.com/erazemk/assetinv/internal/db"
	"github.com/erazemk/assetinv/internal/model"
)

var testHasher = auth.BcryptHasher{Cost: bcrypt.MinCost}

func fakeAccountInput() model.CreateAccountInput {
	return model.CreateAccountInput{
		Username: gofakeit.Username(),
		Email:    gofakeit.Email(),
		Password: gofakeit.Password(true, true, true, false, false, 12),
		Role:     "admin",
	}
}

func TestAccountCreateHashesAndDefaults(t *testing.T) {
	s := NewAccountService(db.NewTestDB(t), testHasher, 0)

	in := fakeAccountInput()
	a, err := s.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, in.Email, a.Email)
	assert.Equal(t, model.AccountStatusActive, a.Status)
	assert.NotEqual(t, in.Password, a.PasswordHash)
	ok, err := testHasher.Verify(a.PasswordHash, in.Password)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccountCreateRequiresFields(t *testing.T) {
	s := NewAccountService(db.NewTestDB(t), testHasher, 0)

	in := fakeAccountInput()
	in.Role = ""
	_, err := s.Create(context.Background(), in)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestAccountCreateDuplicateEmail(t *testing.T) {
	s := NewAccountService(db.NewTestDB(t), testHasher, 0)
	ctx := context.Background()

	in := fakeAccountInput()
	_, err := s.Create(ctx, in)
	require.NoError(t, err)

	again := fakeAccountInput()
	again.Email = in.Email
	_, err = s.Create(ctx, again)
	assert.ErrorIs(t, err, model.ErrConflict)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAccountUpdate(t *testing.T) {
	s := NewAccountService(db.NewTestDB(t), testHasher, 0)
	ctx := context.Background()

	a, err := s.Create(ctx, fakeAccountInput())
	require.NoError(t, err)
	other, err := s.Create(ctx, fakeAccountInput())
	require.NoError(t, err)

	updated, err := s.Update(ctx, a.ID, model.UpdateAccountInput{Role: "viewer", Password: "new-secret"})
	require.NoError(t, err)
	assert.Equal(t, "viewer", updated.Role)
	assert.Equal(t, a.Username, updated.Username)
	ok, _ := testHasher.Verify(updated.PasswordHash, "new-secret")
	assert.True(t, ok)

	_, err = s.Update(ctx, a.ID, model.UpdateAccountInput{Email: other.Email})
	assert.ErrorIs(t, err, model.ErrConflict)

	// Re-submitting its own email is not a conflict.
	_, err = s.Update(ctx, a.ID, model.UpdateAccountInput{Email: a.Email})
	assert.NoError(t, err)

	_, err = s.Update(ctx, a.ID, model.UpdateAccountInput{})
	assert.ErrorIs(t, err, model.ErrNoChanges)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = s.Update(ctx, 999, model.UpdateAccountInput{Role: "x"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAccountListAndDelete(t *testing.T) {
	s := NewAccountService(db.NewTestDB(t), testHasher, 2)
	ctx := context.Background()

	var ids []int64
	for _, role := range []string{"admin", "admin", "admin", "viewer"} {
		in := fakeAccountInput()
		in.Role = role
		a, err := s.Create(ctx, in)
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	res, err := s.List(ctx, url.Values{"roleFilter": {"admin"}, "limit": {"50"}})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2, "page size capped")
	assert.Equal(t, 3, res.Pagination.Total)
	assert.Equal(t, 2, res.Pagination.Pages)

	require.NoError(t, s.Delete(ctx, ids[0]))
	_, err = s.Get(ctx, ids[0])
	assert.ErrorIs(t, err, model.ErrNotFound)
}
