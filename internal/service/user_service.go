package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"asset-tracker/internal/domain"
	"asset-tracker/internal/mailer"
	"asset-tracker/internal/repository"
)

var (
	// ErrInvalidCredentials indicates an unknown email or a password mismatch.
	// The two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotVerified is returned when the account exists, the password matches,
	// but an administrator has not verified the account yet.
	ErrNotVerified = errors.New("account not verified")
	// ErrValidation wraps missing or malformed caller input.
	ErrValidation = errors.New("invalid input")
)

const welcomeMailTimeout = 10 * time.Second

// UserService describes account lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
}

type userService struct {
	users  repository.UserRepository
	mail   mailer.Sender
	logger logrus.FieldLogger
}

func NewUserService(users repository.UserRepository, mail mailer.Sender, logger logrus.FieldLogger) UserService {
	return &userService{
		users:  users,
		mail:   mail,
		logger: logger,
	}
}

// Register creates an unverified account with a freshly generated API key and
// dispatches a welcome mail. Mail delivery is best-effort: its failure is
// logged and never affects the registration result.
func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	apiKey, err := generateAPIKey()
	if err != nil {
		return nil, fmt.Errorf("generate api key: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsVerified:   false,
		APIKey:       apiKey,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendWelcomeMail(user)

	return sanitizeUser(user), nil
}

// Login authenticates a verified account and returns its stored API key.
// The key was generated once at registration and is never regenerated here.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// The verification gate applies regardless of password correctness.
	if !user.IsVerified {
		return nil, ErrNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByAPIKey(ctx context.Context, apiKey string) (*domain.User, error) {
	if apiKey == "" {
		return nil, repository.ErrNotFound
	}
	user, err := s.users.GetByAPIKey(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// sendWelcomeMail dispatches on a detached context so the mail outcome is
// decoupled from the registration request.
func (s *userService) sendWelcomeMail(user *domain.User) {
	msg := mailer.Message{
		To:      user.Email,
		Subject: "Welcome to the Assets App!",
		HTML: fmt.Sprintf(
			"<h2>Hello %s,</h2><p>Thanks for registering with the Assets App.</p><p>Your account will be reviewed by an admin before you can log in.</p>",
			user.Username,
		),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), welcomeMailTimeout)
		defer cancel()
		if err := s.mail.Send(ctx, msg); err != nil {
			s.logger.Warnf("send welcome mail to %s: %v", user.Email, err)
		}
	}()
}

func generateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		APIKey:     user.APIKey,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}
