package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const jwtSecretSetting = "jwt_secret"

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// The insert runs first and a duplicate is ignored, so concurrent first starts
// all read back the same value.
func GetJWTSecret(ctx context.Context, db Querier) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (name, value) VALUES (?, ?)`,
		jwtSecretSetting, candidate,
	)
	if err != nil && !IsUniqueViolation(err) {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE name = ?`, jwtSecretSetting,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}

	return secret, nil
}
