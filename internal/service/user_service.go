package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/akulasagar/aura-backend/internal/auth"
	"github.com/akulasagar/aura-backend/internal/config"
	"github.com/akulasagar/aura-backend/internal/model"
	"github.com/akulasagar/aura-backend/internal/repository"
)

// ErrInvalidCredentials covers both unknown emails and wrong passwords
// so login failures never reveal which half was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService handles registration, login and push token updates.
type UserService struct {
	users  *repository.UserRepository
	secret string
	ttl    time.Duration
}

func NewUserService(users *repository.UserRepository, cfg config.Config) *UserService {
	return &UserService{users: users, secret: cfg.JWTSecret, ttl: cfg.TokenTTL}
}

// Register creates an account and returns a signed API token.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))

	if name == "" {
		return "", fmt.Errorf("%w: please add a name", ErrInvalid)
	}
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: please include a valid email", ErrInvalid)
	}
	if len(password) < 6 {
		return "", fmt.Errorf("%w: please enter a password with 6 or more characters", ErrInvalid)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", fmt.Errorf("%w: user already exists", ErrInvalid)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{Name: name, Email: email, Password: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	return s.token(user.ID)
}

// Login checks credentials and returns a signed API token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.token(user.ID)
}

// SavePushToken stores the Expo push endpoint the client registered.
func (s *UserService) SavePushToken(ctx context.Context, userID uint, pushToken string) error {
	if strings.TrimSpace(pushToken) == "" {
		return fmt.Errorf("%w: push token is required", ErrInvalid)
	}
	return s.users.UpdatePushToken(ctx, userID, pushToken)
}

func (s *UserService) token(userID uint) (string, error) {
	return auth.IssueToken(s.secret, userID, s.ttl)
}
