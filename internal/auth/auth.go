// Package auth implements the email+password provider and session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davisrp/timingboard/internal/storage"
)

// Errors for authentication failures.
var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike,
	// so sign-in failures don't reveal which one it was.
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrWeakPassword indicates the password is below the minimum length.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
	// ErrBadEmail indicates a malformed email address.
	ErrBadEmail = errors.New("auth: invalid email address")
)

// minPasswordLen is the minimum accepted password length for sign-up.
const minPasswordLen = 8

// Store is the subset of storage the auth service needs.
type Store interface {
	CreateProfile(ctx context.Context, email, passwordHash string, role storage.Role) (*storage.Profile, error)
	GetCredentialByEmail(ctx context.Context, email string) (*storage.Profile, string, error)
	GetProfile(ctx context.Context, id string) (*storage.Profile, error)
}

// Service signs users up and in, and mints session tokens.
type Service struct {
	store          Store
	tokens         *TokenIssuer
	sessions       time.Duration
	bootstrapAdmin string
}

// NewService creates an auth service. sessionTTL bounds how long a minted
// session token stays valid.
func NewService(store Store, tokens *TokenIssuer, sessionTTL time.Duration) *Service {
	if sessionTTL == 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Service{store: store, tokens: tokens, sessions: sessionTTL}
}

// SetBootstrapAdmin names the one email that signs up straight into the
// admin role. Without it a fresh database has no admin to elevate anyone.
func (s *Service) SetBootstrapAdmin(email string) {
	s.bootstrapAdmin = strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new account with the default user role. Roles are
// only elevated afterwards by an existing admin, except the configured
// bootstrap admin email.
func (s *Service) SignUp(ctx context.Context, email, password string) (*storage.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !validEmail(email) {
		return nil, ErrBadEmail
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := storage.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := storage.RoleUser
	if s.bootstrapAdmin != "" && email == s.bootstrapAdmin {
		role = storage.RoleAdmin
	}

	profile, err := s.store.CreateProfile(ctx, email, hash, role)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return profile, nil
}

// SignInWithPassword verifies the credential and returns the profile plus a
// signed session token.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*storage.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	profile, hash, err := s.store.GetCredentialByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup credential: %w", err)
	}

	if err := storage.VerifyPassword(password, hash); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(profile, s.sessions)
	if err != nil {
		return nil, "", fmt.Errorf("issue session token: %w", err)
	}
	return profile, token, nil
}

// validEmail applies a loose shape check: something@something.something.
// Real verification would need a confirmation email, which this system
// doesn't send.
func validEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}
