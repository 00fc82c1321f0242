package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/promptshield/promptshield/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Signup validates the supplied credentials, hashes the password and
// creates the account. Validation runs before any store access, so an
// invalid request has no side effects. The existence check is a fast path
// only; the store's unique indexes decide races.
func (s *Service) Signup(ctx context.Context, username, email, password string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if !ValidateUsername(username) {
		return nil, &shared.ValidationError{Field: "username", Message: "Invalid username"}
	}
	if !ValidateEmail(email) {
		return nil, &shared.ValidationError{Field: "email", Message: "Invalid email"}
	}
	if !ValidatePassword(password) {
		return nil, &shared.ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}

	taken, err := s.repo.Exists(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.ErrDuplicateUser
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Insert(ctx, username, email, hash)
	if err != nil {
		return nil, err
	}

	return &User{ID: id, Username: username, Email: email}, nil
}

// Login resolves identifier against username or email and verifies the
// password. Unknown identifier and wrong password both collapse into
// shared.ErrInvalidCredentials so responses cannot be used to enumerate
// accounts; store failures propagate unchanged.
func (s *Service) Login(ctx context.Context, identifier, password string) (*User, error) {
	identifier = strings.TrimSpace(identifier)

	user, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RegisterSession records session metadata for auditing.
func (s *Service) RegisterSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session audit record.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
