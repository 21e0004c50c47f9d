// Package account implements registration and login on top of a user store
// and the session token service.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"sync"

	"github.com/dukerupert/fitcoach/internal/auth"
	"github.com/dukerupert/fitcoach/internal/model"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// Session is the result of a successful register or login.
type Session struct {
	User  *model.User
	Token string
}

// dummyHash is compared against when the email is unknown, so a failed login
// costs one bcrypt comparison either way.
var dummyHash = sync.OnceValue(func() string {
	h, err := auth.HashPassword("fitcoach-no-such-user")
	if err != nil {
		panic(err)
	}
	return h
})

type Service struct {
	users         UserStore
	tokens        TokenIssuer
	checkPassword func(hash, password string) bool
	logger        *slog.Logger
}

func NewService(users UserStore, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, checkPassword: auth.CheckPassword, logger: logger}
}

func (s *Service) Register(ctx context.Context, username, email, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}
	if !validEmail(email) {
		return nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
		}
		return nil, err
	}

	user, err := s.users.Create(ctx, username, email, hash)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		s.checkPassword(dummyHash(), password)
		return nil, ErrInvalidCredentials
	}
	if !s.checkPassword(user.PasswordHash, password) {
		s.logger.Debug("password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
