package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/assetinv/internal/model"
	"github.com/erazemk/assetinv/internal/query"
)

// AccountListSpec describes GET /api/accounts filtering and sorting. Accounts
// always sort by username; only the direction is caller controlled.
var AccountListSpec = query.Spec{
	Table: "admin_users",
	Filters: []query.Filter{
		{Param: "roleFilter", Column: "role"},
	},
	DefaultSort:  "username",
	DefaultLimit: 10,
}

var accountColumns = []string{
	"id", "username", "email", "password", "role", "status", "last_login", "created_at", "updated_at",
}

func scanAccount(row rowScanner, a *model.Account) error {
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Role, &a.Status,
		&a.LastLogin, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return err
	}
	toUTC(a.LastLogin)
	toUTC(&a.CreatedAt)
	toUTC(&a.UpdatedAt)
	return nil
}

// CreateAccount inserts an account and returns it. A duplicate email yields an
// error wrapping model.ErrConflict.
func CreateAccount(ctx context.Context, db Querier, username, email, passwordHash, role, status string) (*model.Account, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO admin_users (username, email, password, role, status) VALUES (?, ?, ?, ?, ?)`,
		username, email, passwordHash, role, status,
	)
	if IsUniqueViolation(err) {
		return nil, fmt.Errorf("creating account: email %s: %w", email, model.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting account id: %w", err)
	}

	return GetAccount(ctx, db, id)
}

// GetAccount returns an account by ID, or nil when it does not exist.
func GetAccount(ctx context.Context, db Querier, id int64) (*model.Account, error) {
	return getAccountWhere(ctx, db, sq.Eq{"id": id})
}

// GetAccountByEmail returns an account by email, or nil when none matches.
func GetAccountByEmail(ctx context.Context, db Querier, email string) (*model.Account, error) {
	return getAccountWhere(ctx, db, sq.Eq{"email": email})
}

func getAccountWhere(ctx context.Context, db Querier, pred sq.Eq) (*model.Account, error) {
	stmt, args, err := sq.Select(accountColumns...).From("admin_users").Where(pred).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building account query: %w", err)
	}

	a := &model.Account{}
	err = scanAccount(db.QueryRowContext(ctx, stmt, args...), a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting account: %w", err)
	}
	return a, nil
}

// EmailTaken reports whether an account other than excludeID uses email.
// Pass 0 to check against every account.
func EmailTaken(ctx context.Context, db Querier, email string, excludeID int64) (bool, error) {
	stmt, args, err := sq.Select("1").From("admin_users").
		Where(sq.Eq{"email": email}).
		Where(sq.NotEq{"id": excludeID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("building email lookup: %w", err)
	}

	var one int
	err = db.QueryRowContext(ctx, stmt, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return true, nil
}

// ListAccounts returns one page of accounts matching p.
func ListAccounts(ctx context.Context, db Querier, spec query.Spec, p query.Params) ([]model.Account, error) {
	stmt, args, err := spec.Select(p, accountColumns...).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building account list: %w", err)
	}

	rows, err := db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := scanAccount(rows, &a); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CountAccounts returns the number of accounts matching p.
func CountAccounts(ctx context.Context, db Querier, spec query.Spec, p query.Params) (int, error) {
	stmt, args, err := spec.Count(p).ToSql()
	if err != nil {
		return 0, fmt.Errorf("building account count: %w", err)
	}

	var total int
	if err := db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("counting accounts: %w", err)
	}
	return total, nil
}

// AccountChanges holds the columns a partial update writes. Empty fields are
// left untouched.
type AccountChanges struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
	Status       string
}

func (c AccountChanges) setMap() map[string]any {
	set := make(map[string]any, 5)
	for col, v := range map[string]string{
		"username": c.Username,
		"email":    c.Email,
		"password": c.PasswordHash,
		"role":     c.Role,
		"status":   c.Status,
	} {
		if v != "" {
			set[col] = v
		}
	}
	return set
}

// UpdateAccount writes the non-empty fields of c and touches updated_at.
func UpdateAccount(ctx context.Context, db Querier, id int64, c AccountChanges) error {
	set := c.setMap()
	if len(set) == 0 {
		return model.ErrNoChanges
	}

	stmt, args, err := sq.Update("admin_users").
		SetMap(set).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building account update: %w", err)
	}

	_, err = db.ExecContext(ctx, stmt, args...)
	if IsUniqueViolation(err) {
		return fmt.Errorf("updating account: email %s: %w", c.Email, model.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("updating account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account. Deleting a missing ID is not an error.
func DeleteAccount(ctx context.Context, db Querier, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM admin_users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return nil
}
