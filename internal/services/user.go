package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/eventms/appserver/internal/store"
	"github.com/eventms/appserver/types"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// MailSender delivers the registration notification.
type MailSender interface {
	SendRegistrationEmail(to, fullName string) error
}

// UserService encapsulates account use-cases.
type UserService struct {
	repo   UserRepository
	mailer MailSender
}

// NewUserService constructs a UserService. mailer may be nil, in which case
// registration notifications are skipped.
func NewUserService(repo UserRepository, mailer MailSender) *UserService {
	return &UserService{repo: repo, mailer: mailer}
}

// Register creates an account with a bcrypt-hashed password. A duplicate
// email yields ErrEmailTaken, detected through the storage uniqueness
// constraint rather than a pre-check. On success a congratulatory email is
// sent best-effort: delivery failures are logged and discarded, never
// surfaced to the caller.
func (s *UserService) Register(ctx context.Context, fullName, email, password string) (types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		FullName:     strings.TrimSpace(fullName),
		Email:        email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return types.User{}, ErrEmailTaken
		}
		return types.User{}, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendRegistrationEmail(user.Email, user.FullName); err != nil {
			slog.Error("registration email failed", "email", user.Email, "error", err)
		}
	}

	return user, nil
}

// Authenticate verifies the credentials and returns the matching user.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}

	return user, nil
}
