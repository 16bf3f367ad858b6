package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"conduit/internal/auth"
	"conduit/internal/domain"
)

const minPasswordLength = 8

type UserService struct {
	users  UserStore
	tokens TokenIssuer
	logger *slog.Logger
}

func NewUserService(users UserStore, tokens TokenIssuer, logger *slog.Logger) *UserService {
	return &UserService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// AuthenticatedUser pairs a user with a freshly issued token.
type AuthenticatedUser struct {
	User  *domain.User
	Token string
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UserUpdate is a partial update; empty fields are ignored.
type UserUpdate struct {
	Username string
	Email    string
	Password string
	Bio      *string
	Image    *string
}

func (s *UserService) Register(ctx context.Context, input RegisterInput) (*AuthenticatedUser, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "username", user.Username)
	return s.withToken(user)
}

func (s *UserService) Login(ctx context.Context, email, password string) (*AuthenticatedUser, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, domain.ErrUnauthorized
	}

	return s.withToken(user)
}

func (s *UserService) Current(ctx context.Context, userID int64) (*AuthenticatedUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return s.withToken(user)
}

func (s *UserService) Update(ctx context.Context, userID int64, update UserUpdate) (*AuthenticatedUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if update.Username != "" {
		user.Username = update.Username
	}
	if update.Email != "" {
		if !strings.Contains(update.Email, "@") {
			return nil, domain.Invalid("email", "is invalid")
		}
		user.Email = update.Email
	}
	if update.Password != "" {
		if len(update.Password) < minPasswordLength {
			return nil, domain.Invalid("password", "is too short (minimum is 8 characters)")
		}
		hash, err := auth.HashPassword(update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if update.Bio != nil {
		user.Bio = update.Bio
	}
	if update.Image != nil {
		user.Image = update.Image
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.withToken(user)
}

func (s *UserService) withToken(user *domain.User) (*AuthenticatedUser, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthenticatedUser{User: user, Token: token}, nil
}

func validateRegisterInput(input RegisterInput) error {
	errs := domain.NewValidationError()
	if strings.TrimSpace(input.Username) == "" {
		errs.Add("username", "can't be blank")
	}
	if strings.TrimSpace(input.Email) == "" {
		errs.Add("email", "can't be blank")
	} else if !strings.Contains(input.Email, "@") {
		errs.Add("email", "is invalid")
	}
	if input.Password == "" {
		errs.Add("password", "can't be blank")
	} else if len(input.Password) < minPasswordLength {
		errs.Add("password", "is too short (minimum is 8 characters)")
	}
	if errs.Empty() {
		return nil
	}
	return errs
}
