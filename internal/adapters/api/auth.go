package api

import (
	"context"
	"net/http"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token on success.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse echoes the created user.
type RegisterResponse struct {
	Username string `json:"username"`
}

// Login exchanges credentials for a token. The call is unauthenticated.
// A nil response pointer means the server returned no body.
func (s *Session) Login(ctx context.Context, in LoginRequest) (*LoginResponse, error) {
	var out *LoginResponse
	if err := s.Call(ctx, http.MethodPost, "/auth/login", in, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register creates a user account. The call is unauthenticated.
func (s *Session) Register(ctx context.Context, in RegisterRequest) (*RegisterResponse, error) {
	var out *RegisterResponse
	if err := s.Call(ctx, http.MethodPost, "/auth/register", in, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}
