// Session lifecycle for the Forma API.
//
// Tracks whether the current run holds a usable identity: sessions start
// unresolved, pass through a resolving phase while a persisted token is
// verified, and settle as authenticated or anonymous.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/formahq/forma/internal/models"
	"github.com/formahq/forma/internal/shared"
)

// SessionState describes the resolution of the current session.
type SessionState int

const (
	StateUnresolved SessionState = iota
	StateResolving
	StateAuthenticated
	StateAnonymous
)

func (s SessionState) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// AuthService manages login, registration, and session resolution.
type AuthService struct {
	client *Client
	tokens TokenStore

	mu    sync.RWMutex
	state SessionState
	user  *models.User
}

// NewAuthService creates an AuthService in the unresolved state.
func NewAuthService(client *Client, tokens TokenStore) *AuthService {
	return &AuthService{
		client: client,
		tokens: tokens,
		state:  StateUnresolved,
	}
}

// Bootstrap resolves a persisted session at startup. With no stored access
// token the session is anonymous; otherwise the token is verified against
// the profile endpoint. Any verification failure clears the stored tokens
// and leaves the session anonymous rather than failing the run.
func (a *AuthService) Bootstrap(ctx context.Context) error {
	token, err := a.tokens.AccessToken()
	if err != nil {
		return fmt.Errorf("failed to read stored token: %w", err)
	}
	if token == "" {
		a.setState(StateAnonymous, nil)
		return nil
	}

	a.setState(StateResolving, nil)

	user, err := a.fetchProfile(ctx)
	if err != nil {
		if clearErr := a.tokens.Clear(); clearErr != nil {
			return fmt.Errorf("failed to clear stale tokens: %w", clearErr)
		}
		a.setState(StateAnonymous, nil)
		return nil
	}

	a.setState(StateAuthenticated, user)
	return nil
}

// Login authenticates with email and password, stores the issued token pair,
// and loads the account profile.
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	payload := map[string]string{"email": email, "password": password}
	resp, err := a.client.Post(ctx, "/api/auth/login/", payload)
	if err != nil {
		a.setState(StateAnonymous, nil)
		return nil, fmt.Errorf("login failed: %w", err)
	}

	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(resp.Body, &tokens); err != nil || tokens.Access == "" {
		a.setState(StateAnonymous, nil)
		return nil, fmt.Errorf("%w: login response missing tokens", shared.ErrDecode)
	}

	if err := a.tokens.SetTokens(tokens.Access, tokens.Refresh); err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	user, err := a.fetchProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile after login: %w", err)
	}

	a.setState(StateAuthenticated, user)
	return user, nil
}

// RegisterRequest carries the fields for account creation.
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Name            string `json:"name,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`
}

// Register creates a new account. It does not authenticate the session;
// the caller logs in afterwards.
func (a *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	if req.PasswordConfirm == "" {
		req.PasswordConfirm = req.Password
	}
	if _, err := a.client.Post(ctx, "/api/auth/register/", req); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	return nil
}

// Logout discards the local session. No server call is made.
func (a *AuthService) Logout() error {
	if err := a.tokens.Clear(); err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	a.setState(StateAnonymous, nil)
	return nil
}

// DeleteAccount removes the account server-side, then discards the local
// session.
func (a *AuthService) DeleteAccount(ctx context.Context) error {
	if _, err := a.client.Delete(ctx, "/api/auth/delete/"); err != nil {
		return fmt.Errorf("account deletion failed: %w", err)
	}
	return a.Logout()
}

// State returns the current session state.
func (a *AuthService) State() SessionState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// CurrentUser returns the resolved account, or nil when anonymous.
func (a *AuthService) CurrentUser() *models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.user
}

// IsAuthenticated reports whether the session resolved to an account.
func (a *AuthService) IsAuthenticated() bool {
	return a.State() == StateAuthenticated
}

func (a *AuthService) fetchProfile(ctx context.Context) (*models.User, error) {
	resp, err := a.client.Get(ctx, "/api/auth/profile/")
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrDecode, err)
	}
	return &user, nil
}

func (a *AuthService) setState(state SessionState, user *models.User) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = state
	a.user = user
}
