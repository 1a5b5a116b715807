package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mkarsten/tablehost/internal/dependencies/clock"
	"github.com/mkarsten/tablehost/internal/dependencies/hasher"
	"github.com/mkarsten/tablehost/internal/dependencies/mailer"
	"github.com/mkarsten/tablehost/internal/dependencies/random"
	"github.com/mkarsten/tablehost/internal/model"
	"github.com/mkarsten/tablehost/internal/storage"
)

// Errors
var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is not enabled")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

const (
	// PasswordMinLength and PasswordMaxLength bound the raw password
	PasswordMinLength = 8
	PasswordMaxLength = 100

	tokenLength   = 32
	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Session represents an authenticated session
type Session struct {
	Token     string
	UserID    model.UserID
	User      model.User
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Config holds configuration for the user service
type Config struct {
	// ConfirmationWindow is how long a confirmation token stays valid
	// after registration. The boundary is inclusive: confirming at
	// exactly the window's edge succeeds.
	ConfirmationWindow time.Duration
	// SessionDuration is how long a login session stays valid
	SessionDuration time.Duration
	// ConfirmationBaseURL is the link prefix placed in confirmation email
	ConfirmationBaseURL string
	// InitialUsername names the bootstrapped administrator account
	InitialUsername string
	// InitialEmail is the bootstrapped administrator's address
	InitialEmail string
	// InitialPassword is the bootstrapped administrator's password.
	// When empty, a random password is generated and logged once.
	InitialPassword string
}

// DefaultConfig returns default user service configuration
func DefaultConfig() Config {
	return Config{
		ConfirmationWindow:  24 * time.Hour,
		SessionDuration:     24 * time.Hour,
		ConfirmationBaseURL: "http://localhost:8080/confirm",
		InitialUsername:     "initial",
		InitialEmail:        "initial@example.com",
	}
}

// Service orchestrates the registration and confirmation workflow:
// hashing, token issuance, expiry checking, bootstrap of the initial
// administrator, and login sessions.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	hasher  hasher.Hasher
	mailer  mailer.Mailer
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	cfg Config
}

// New creates a new user Service
func New(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	hasher hasher.Hasher,
	mailer mailer.Mailer,
	cfg Config,
	logger *slog.Logger,
) *Service {
	defaults := DefaultConfig()
	if cfg.ConfirmationWindow == 0 {
		cfg.ConfirmationWindow = defaults.ConfirmationWindow
	}
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = defaults.SessionDuration
	}
	if cfg.ConfirmationBaseURL == "" {
		cfg.ConfirmationBaseURL = defaults.ConfirmationBaseURL
	}
	if cfg.InitialUsername == "" {
		cfg.InitialUsername = defaults.InitialUsername
	}
	if cfg.InitialEmail == "" {
		cfg.InitialEmail = defaults.InitialEmail
	}
	return &Service{
		storage:  storage,
		clock:    clock,
		random:   random,
		hasher:   hasher,
		mailer:   mailer,
		logger:   logger,
		sessions: make(map[string]*Session),
		cfg:      cfg,
	}
}

// RegisterUser carries the fields of a registration request
type RegisterUser struct {
	Username string
	Email    string
	Password string
}

// RegisterNewUser hashes the password, issues a confirmation token, persists
// the user in a disabled state and dispatches one confirmation email. The
// user stays disabled until the token is confirmed within the window.
func (s *Service) RegisterNewUser(ctx context.Context, reg RegisterUser) (model.UserID, error) {
	username, err := model.NewUsername(reg.Username)
	if err != nil {
		return 0, err
	}
	email, err := model.NewEmail(reg.Email)
	if err != nil {
		return 0, err
	}
	if n := utf8.RuneCountInString(reg.Password); n < PasswordMinLength || n > PasswordMaxLength {
		return 0, &model.ValidationError{
			Field:  "password",
			Reason: fmt.Sprintf("must be %d-%d characters", PasswordMinLength, PasswordMaxLength),
		}
	}

	if _, err := s.storage.GetUserByUsername(ctx, username); err == nil {
		return 0, ErrUsernameTaken
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return 0, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return 0, err
	}

	token, err := model.NewConfirmationToken(s.random.String(tokenLength, tokenAlphabet))
	if err != nil {
		return 0, err
	}

	id, err := s.storage.NextUserID(ctx)
	if err != nil {
		return 0, err
	}

	user := model.NewUser(id, username, email, hash, token, s.clock.Now())
	if err := s.storage.SaveUser(ctx, user); err != nil {
		// Storage owns the uniqueness constraint; a racing registration
		// that passed the earlier check still loses here.
		if errors.Is(err, model.ErrUsernameConflict) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}

	s.sendConfirmationEmail(ctx, user)

	return id, nil
}

// sendConfirmationEmail dispatches the confirmation link. Delivery failure
// does not fail the registration; retry policy belongs to the dispatcher.
func (s *Service) sendConfirmationEmail(ctx context.Context, user *model.User) {
	body := fmt.Sprintf(
		"Welcome %s,\n\nConfirm your registration within %s by visiting:\n%s?token=%s\n",
		user.Username,
		s.cfg.ConfirmationWindow,
		s.cfg.ConfirmationBaseURL,
		user.ConfirmationToken,
	)

	if err := s.mailer.Send(ctx, string(user.Email), "Confirm your registration", body); err != nil {
		s.logger.Warn("confirmation email dispatch failed",
			slog.String("username", string(user.Username)),
			slog.String("error", err.Error()),
		)
	}
}

// ConfirmEmailVerification looks up the user holding the token and, when the
// confirmation window has not elapsed, enables the user and consumes the
// token. Unknown, already-consumed and expired tokens all report false so a
// caller cannot distinguish whether a token ever existed.
func (s *Service) ConfirmEmailVerification(ctx context.Context, rawToken string) (bool, error) {
	token, err := model.NewConfirmationToken(rawToken)
	if err != nil {
		return false, nil
	}

	user, err := s.storage.GetUserByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	now := s.clock.Now()
	if now.Sub(user.RegisteredAt) > s.cfg.ConfirmationWindow {
		// The stale token stays on the record for audit
		s.logger.Info("confirmation token expired",
			slog.String("username", string(user.Username)),
		)
		return false, nil
	}

	user.Confirm(now)
	if err := s.storage.SaveUser(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// InitializeUsers is an idempotent bootstrap of the reserved initial
// administrator. A missing account is created enabled with administrator
// privilege; a disabled leftover from a partial run is enabled in place;
// an enabled account is left alone.
func (s *Service) InitializeUsers(ctx context.Context) error {
	username, err := model.NewUsername(s.cfg.InitialUsername)
	if err != nil {
		return err
	}

	existing, err := s.storage.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.Enabled {
			return nil
		}
		now := s.clock.Now()
		existing.Enable(now)
		existing.PromoteToAdministrator(now)
		return s.storage.SaveUser(ctx, existing)
	case errors.Is(err, model.ErrUserNotFound):
		return s.createInitialUser(ctx, username)
	default:
		return err
	}
}

func (s *Service) createInitialUser(ctx context.Context, username model.Username) error {
	email, err := model.NewEmail(s.cfg.InitialEmail)
	if err != nil {
		return err
	}

	password := s.cfg.InitialPassword
	if password == "" {
		password = s.random.String(16, tokenAlphabet)
		s.logger.Info("generated initial administrator password",
			slog.String("username", string(username)),
			slog.String("password", password),
		)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	token, err := model.NewConfirmationToken(s.random.String(tokenLength, tokenAlphabet))
	if err != nil {
		return err
	}

	id, err := s.storage.NextUserID(ctx)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	user := model.NewUser(id, username, email, hash, token, now)
	// Bootstrap bypasses the confirmation workflow
	user.Confirm(now)
	user.PromoteToAdministrator(now)

	return s.storage.SaveUser(ctx, user)
}

// PromoteUserToAdministrator grants administrator privilege to the named
// user. Returns model.ErrUserNotFound for an unknown username.
func (s *Service) PromoteUserToAdministrator(ctx context.Context, rawUsername string) error {
	username, err := model.NewUsername(rawUsername)
	if err != nil {
		return err
	}

	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}

	user.PromoteToAdministrator(s.clock.Now())
	return s.storage.SaveUser(ctx, user)
}

// Login authenticates an enabled user and creates a session
func (s *Service) Login(ctx context.Context, rawUsername, password string) (*Session, error) {
	username, err := model.NewUsername(rawUsername)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if !user.Enabled {
		return nil, ErrAccountDisabled
	}

	return s.createSession(user), nil
}

// ValidateSession checks if a session token is valid and returns the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// GetUser returns the user for a session token
func (s *Service) GetUser(token string) (*model.User, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	return &session.User, nil
}

// createSession creates a new session for a user
func (s *Service) createSession(user *model.User) *Session {
	token := generateSessionToken()
	now := s.clock.Now()

	session := &Session{
		Token:     token,
		UserID:    user.ID,
		User:      *user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session
}

// generateSessionToken generates a random bearer token
func generateSessionToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "sess_" + base64.RawURLEncoding.EncodeToString(b)
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
