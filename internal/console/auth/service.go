// Package auth implements the auth gateway: the only component that turns
// backend responses into session transitions.
package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"logdeck/internal/common"
	"logdeck/internal/console/api"
	"logdeck/internal/console/models"
	"logdeck/internal/console/session"
	"logdeck/internal/logging"
)

// Backend is the slice of the API client the gateway needs. Satisfied by
// *api.Client.
type Backend interface {
	Login(ctx context.Context, username, password string) (*api.AuthResponse, error)
	Register(ctx context.Context, username, email, password string, role models.Role) (*api.AuthResponse, error)
	Me(ctx context.Context) (*models.User, error)
}

// Service is the auth gateway.
type Service struct {
	backend Backend
	session *session.Session
	log     logging.Logger
}

func NewService(backend Backend, sess *session.Session, log logging.Logger) *Service {
	return &Service{backend: backend, session: sess, log: log}
}

// Login authenticates against the backend and establishes the session on
// success. Failures are surfaced unchanged with no state mutation; bad
// credentials are user-correctable, so there is no retry.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, error) {
	resp, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	user := resp.User
	s.session.Establish(ctx, resp.Token, &user)
	s.log.Info(ctx, "logged in", "username", user.Username, "role", user.Role)
	return &user, nil
}

// Register creates an account and establishes the session with the returned
// credential, mirroring Login's contract.
func (s *Service) Register(ctx context.Context, username, email, password string, role models.Role) (*models.User, error) {
	resp, err := s.backend.Register(ctx, username, email, password, role)
	if err != nil {
		return nil, err
	}

	user := resp.User
	s.session.Establish(ctx, resp.Token, &user)
	s.log.Info(ctx, "registered", "username", user.Username, "role", user.Role)
	return &user, nil
}

// Logout clears the session unconditionally. From the caller's perspective
// it cannot fail, and calling it while already logged out only re-clears
// already-empty storage and re-navigates.
func (s *Service) Logout(ctx context.Context) {
	s.session.Clear(ctx)
}

// CurrentUser refreshes the profile half of the session from the backend.
//
// A 401/403 means the credential was rejected: the session is torn down and
// the error still propagates. Any other failure (network, 5xx) leaves the
// session untouched; a transient outage must not deauthenticate the user.
// A response that arrives after the session has moved on is discarded and
// reported as common.ErrSessionChanged.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	gen := s.session.Generation()

	user, err := s.backend.Me(ctx)
	if err != nil {
		if api.IsAuthError(err) {
			s.Logout(ctx)
		}
		return nil, err
	}

	if !s.session.UpdateUser(ctx, gen, user) {
		return nil, common.ErrSessionChanged
	}
	return user, nil
}

// VerifyToken opportunistically refreshes the cached profile. It absorbs
// its own failures: it exists to keep the profile fresh, never to gate
// access. A rejected credential still tears the session down through
// CurrentUser's 401/403 path.
func (s *Service) VerifyToken(ctx context.Context) {
	if !s.session.IsAuthenticated() {
		return
	}
	if _, err := s.CurrentUser(ctx); err != nil {
		s.log.Warn(ctx, "token verification failed (may be temporary)", "error", err)
	}
}

// TokenExpiry reports the expiry claim of the current credential, when the
// token happens to be a JWT carrying one. The claim is read without
// verification and is used for display only; authorization decisions always
// stay with the backend.
func (s *Service) TokenExpiry() (time.Time, bool) {
	token := s.session.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
