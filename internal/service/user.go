package service

import (
	"context"
	"fmt"
	"time"

	"marketplace-service/internal/models"
	"marketplace-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserStore is the data-access contract of the user service.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id int64) (*models.User, error)
}

// TokenStore holds opaque bearer tokens.
type TokenStore interface {
	SaveToken(ctx context.Context, token string, userID int64, ttl time.Duration) error
	UserIDByToken(ctx context.Context, token string) (int64, error)
	DeleteToken(ctx context.Context, token string) error
}

// TaskPublisher enqueues fire-and-forget tasks. Enqueue errors are the
// caller's to log and swallow, never to surface.
type TaskPublisher interface {
	PublishEmail(ctx context.Context, subject, body string, recipients []string) error
}

// UserService registers users and issues bearer tokens.
type UserService struct {
	store    UserStore
	tokens   TokenStore
	tasks    TaskPublisher
	tokenTTL time.Duration
	logger   *zap.Logger
}

// NewUserService creates a new user service.
func NewUserService(store UserStore, tokens TokenStore, tasks TaskPublisher, tokenTTL time.Duration) *UserService {
	return &UserService{
		store:    store,
		tokens:   tokens,
		tasks:    tasks,
		tokenTTL: tokenTTL,
		logger:   util.GetLogger(),
	}
}

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Password2 string `json:"password2" binding:"required"`
}

// Register creates a user and enqueues a welcome email. The email is a
// side effect: its failure never fails the registration.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if len(req.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if req.Password != req.Password2 {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	util.UsersRegisteredTotal.Inc()
	s.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	s.enqueueEmail(ctx,
		"Registration in the order service",
		"You have successfully registered in the order service.",
		[]string{user.Email})

	return user, nil
}

// Login checks credentials and returns a fresh opaque bearer token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	if err := s.tokens.SaveToken(ctx, token, user.ID, s.tokenTTL); err != nil {
		return "", fmt.Errorf("failed to save token: %w", err)
	}

	return token, nil
}

// Logout revokes a bearer token. Revoking an already expired token is
// not an error.
func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.tokens.DeleteToken(ctx, token)
}

// Authenticate resolves a bearer token to its user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.UserIDByToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (s *UserService) enqueueEmail(ctx context.Context, subject, body string, recipients []string) {
	if err := s.tasks.PublishEmail(ctx, subject, body, recipients); err != nil {
		s.logger.Error("Failed to enqueue email", zap.String("subject", subject), zap.Error(err))
		return
	}
	util.EmailsEnqueuedTotal.Inc()
}
