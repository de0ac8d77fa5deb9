package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"kitbox/internal/adapters/api"
)

// RegisterInput carries input for the register orchestrator.
type RegisterInput struct {
	Username        string
	Password        string
	ConfirmPassword string
}

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrRegistrationFailed = errors.New("registration failed. please try again")
)

// ExecuteRegister creates an account. The user logs in separately afterwards.
// PRE: none
// POST: Returns the created username; mismatched passwords make no request
func ExecuteRegister(ctx context.Context, input RegisterInput, deps AuthAPI) (string, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return "", ErrCredentialsRequired
	}
	if input.Password != input.ConfirmPassword {
		return "", ErrPasswordMismatch
	}

	resp, err := deps.Register(ctx, api.RegisterRequest{Username: username, Password: input.Password})
	if err != nil {
		slog.InfoContext(ctx, "auth_event", "event", "register_failed", "username", username, "error", err)
		return "", err
	}
	if resp == nil || resp.Username == "" {
		return "", ErrRegistrationFailed
	}

	slog.InfoContext(ctx, "auth_event", "event", "register_success", "username", resp.Username)
	return resp.Username, nil
}
