package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

const (
	credAccessToken  = "access_token"
	credRefreshToken = "refresh_token"
)

// TokenRepository stores the token pair in the credentials table.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a TokenRepository over the given database.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// AccessToken returns the stored access token, or "" when none exists.
func (r *TokenRepository) AccessToken() (string, error) {
	return r.get(credAccessToken)
}

// RefreshToken returns the stored refresh token, or "" when none exists.
func (r *TokenRepository) RefreshToken() (string, error) {
	return r.get(credRefreshToken)
}

// SetAccessToken replaces the access token, leaving the refresh token alone.
func (r *TokenRepository) SetAccessToken(token string) error {
	return r.set(credAccessToken, token)
}

// SetTokens replaces both tokens.
func (r *TokenRepository) SetTokens(access, refresh string) error {
	if err := r.set(credAccessToken, access); err != nil {
		return err
	}
	return r.set(credRefreshToken, refresh)
}

// Clear removes both tokens.
func (r *TokenRepository) Clear() error {
	_, err := r.db.Exec("DELETE FROM credentials WHERE name IN (?, ?)", credAccessToken, credRefreshToken)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (r *TokenRepository) get(name string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM credentials WHERE name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential %s: %w", name, err)
	}
	return value, nil
}

func (r *TokenRepository) set(name, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, name, value)
	if err != nil {
		return fmt.Errorf("failed to store credential %s: %w", name, err)
	}
	return nil
}
