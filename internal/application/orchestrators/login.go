package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"kitbox/internal/adapters/api"
)

// AuthAPI defines the unauthenticated API calls used by login and registration.
type AuthAPI interface {
	Login(ctx context.Context, in api.LoginRequest) (*api.LoginResponse, error)
	Register(ctx context.Context, in api.RegisterRequest) (*api.RegisterResponse, error)
}

// CredentialKeeper stores and clears the browser session's bearer token.
type CredentialKeeper interface {
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	API         AuthAPI
	Credentials CredentialKeeper
}

var (
	ErrCredentialsRequired = errors.New("username and password are required")
	ErrNoToken             = errors.New("login failed. no token received")
)

// ExecuteLogin exchanges a username and password for a token and stores it for the session.
// PRE: none
// POST: On success the session holds the token; on any failure nothing is stored
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) error {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return ErrCredentialsRequired
	}

	resp, err := deps.API.Login(ctx, api.LoginRequest{Username: username, Password: input.Password})
	if err != nil {
		slog.InfoContext(ctx, "auth_event", "event", "login_failed", "username", username, "error", err)
		return err
	}
	if resp == nil || resp.AccessToken == "" {
		slog.WarnContext(ctx, "auth_event", "event", "login_failed", "username", username, "reason", "no_token")
		return ErrNoToken
	}

	if err := deps.Credentials.Save(ctx, resp.AccessToken); err != nil {
		return err
	}
	slog.InfoContext(ctx, "auth_event", "event", "login_success", "username", username)
	return nil
}

// ExecuteLogout forgets the session's token. The API has no logout endpoint.
// POST: The session holds no credential
func ExecuteLogout(ctx context.Context, creds CredentialKeeper) error {
	if err := creds.Clear(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "auth_event", "event", "logout")
	return nil
}
