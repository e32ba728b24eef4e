package usecase

import (
	"context"
	"fmt"

	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

// TokenManager issues and verifies signed access/refresh tokens
type TokenManager interface {
	CreateAccessToken(userID int64) (string, error)
	CreateRefreshToken(userID int64) (string, error)
	VerifyAccessToken(token string) (int64, error)
	VerifyRefreshToken(token string) (int64, error)
}

type AuthService interface {
	Login(ctx context.Context, req *request.TokenPairRequest) (*response.TokenPairResponse, error)
	RefreshAccessToken(ctx context.Context, req *request.TokenAccessRequest) (*response.TokenAccessResponse, error)
	GetUserID(ctx context.Context, accessToken string) (int64, error)
	IsStaff(ctx context.Context, userID int64) (bool, error)
}

type authService struct {
	users  repository.UserRepository
	tokens TokenManager
	log    *zap.Logger
}

func NewAuthService(users repository.UserRepository, tokens TokenManager, log *zap.Logger) AuthService {
	return &authService{
		users:  users,
		tokens: tokens,
		log:    log.With(zap.String("service", "auth")),
	}
}

// Login answers ErrInvalidCredentials for an unknown email and a wrong password alike
func (s *authService) Login(ctx context.Context, req *request.TokenPairRequest) (*response.TokenPairResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.HashedPassword) {
		s.log.Warn("Login rejected", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	access, err := s.tokens.CreateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}
	refresh, err := s.tokens.CreateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create refresh token: %w", err)
	}

	s.log.Info("User logged in", zap.Int64("user_id", user.ID))
	return &response.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) RefreshAccessToken(ctx context.Context, req *request.TokenAccessRequest) (*response.TokenAccessResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	userID, err := s.tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}

	access, err := s.tokens.CreateAccessToken(userID)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}
	return &response.TokenAccessResponse{AccessToken: access}, nil
}

// GetUserID verifies the access token and checks that its user still exists
func (s *authService) GetUserID(ctx context.Context, accessToken string) (int64, error) {
	userID, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return 0, err
	}

	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !exists {
		s.log.Warn("Token of a deleted user", zap.Int64("user_id", userID))
		return 0, ErrInvalidCredentials
	}
	return userID, nil
}

func (s *authService) IsStaff(ctx context.Context, userID int64) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && (user.IsStaff || user.IsSuperuser), nil
}
