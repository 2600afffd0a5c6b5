package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/domain"
	"github.com/Tomlord1122/todoapp/internal/logger"
	"github.com/Tomlord1122/todoapp/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("could not validate user")
	ErrUserExists         = errors.New("username or email already registered")
)

// CreateUserRequest is accepted both as JSON and as the register form.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Password    string `json:"password" validate:"required"`
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number"`
}

type UserResponse struct {
	ID          uint    `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Role        string  `json:"role"`
	IsActive    bool    `json:"is_active"`
	PhoneNumber *string `json:"phone_number"`
}

// TokenResponse mirrors the OAuth2 password-flow token reply.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthService registers users and exchanges passwords for access tokens.
type AuthService interface {
	Register(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, username, password string) (*TokenResponse, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenIssuer
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenIssuer) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.users.Exists(ctx, req.Username, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	user := &domain.User{
		Username:       req.Username,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hash,
		IsActive:       true,
		Role:           role,
	}
	if req.PhoneNumber != "" {
		phone := req.PhoneNumber
		user.PhoneNumber = &phone
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Role:        user.Role,
		IsActive:    user.IsActive,
		PhoneNumber: user.PhoneNumber,
	}, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.IsActive || !auth.CheckPassword(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}
