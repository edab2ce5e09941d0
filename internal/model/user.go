package model

import "time"

// Account is an administrator login.
type Account struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// AccountStatusActive is the status given to accounts created without one.
const AccountStatusActive = "Active"

// CreateAccountInput is the body of POST /api/accounts.
type CreateAccountInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required"`
	Status   string `json:"status"`
}

// UpdateAccountInput is the body of PUT /api/accounts/{id}. Empty fields are
// left unchanged.
type UpdateAccountInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// Empty reports whether no field was supplied.
func (in UpdateAccountInput) Empty() bool {
	return in.Username == "" && in.Email == "" && in.Password == "" && in.Role == "" && in.Status == ""
}
