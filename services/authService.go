package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"civicsync-dashboard/models"
	"civicsync-dashboard/session"
	authUtils "civicsync-dashboard/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownAuthMode    = errors.New("unknown auth mode")
)

// Authenticator checks a login attempt and returns the staff member it
// belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}

// UserDirectory finds staff accounts by email.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// StubAuthenticator accepts any non-empty email and password and signs in
// as the seed administrator under the given email.
type StubAuthenticator struct{}

func (StubAuthenticator) Authenticate(_ context.Context, email, password string) (models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}
	user := models.SeedUser()
	user.Email = email
	return user, nil
}

// PasswordAuthenticator checks the bcrypt hash stored in the directory.
type PasswordAuthenticator struct {
	Users UserDirectory
}

func (a PasswordAuthenticator) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := a.Users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !user.ComparePassword(password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// NewAuthenticator picks the authenticator for AUTH_MODE.
func NewAuthenticator(mode string, users UserDirectory) (Authenticator, error) {
	switch mode {
	case "", "stub":
		return StubAuthenticator{}, nil
	case "password":
		if users == nil {
			return nil, fmt.Errorf("password auth needs a user directory (set MONGODB_URI)")
		}
		return PasswordAuthenticator{Users: users}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthMode, mode)
	}
}

// AuthService turns a successful login into a session and a signed token.
type AuthService struct {
	auth     Authenticator
	sessions *session.Manager
	tokens   *authUtils.TokenIssuer
	logger   *slog.Logger
}

func NewAuthService(auth Authenticator, sessions *session.Manager, tokens *authUtils.TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{auth: auth, sessions: sessions, tokens: tokens, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *session.Session, error) {
	user, err := s.auth.Authenticate(ctx, email, password)
	if err != nil {
		s.logger.Info("login rejected", "email", email, "error", err)
		return "", nil, ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, user)
	if err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	token, err := s.tokens.Generate(sess.ID, user.ID)
	if err != nil {
		_ = s.sessions.Destroy(ctx, sess.ID)
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	s.logger.Info("login", "user_id", user.ID, "session_id", sess.ID)
	return token, sess, nil
}

// Resolve returns the live session behind token.
func (s *AuthService) Resolve(ctx context.Context, token string) (*session.Session, error) {
	sid, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(ctx, sid)
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Destroy(ctx, sessionID)
}

// Sessions exposes the manager for handlers that edit the workspace.
func (s *AuthService) Sessions() *session.Manager { return s.sessions }
