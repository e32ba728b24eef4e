package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/database"
	"movie-catalog/pkg/notification"
	"movie-catalog/pkg/storage"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

// ActivationPath is appended to the public base URL to build activation links
const ActivationPath = "api/v1/accounts/users/activate/"

type AccountsService interface {
	CreateUser(ctx context.Context, req *request.UserCreateRequest, baseURL string) (*response.UserResponse, error)
	ActivateUser(ctx context.Context, token string) (*response.UserResponse, error)
	CreateUserProfile(ctx context.Context, userID int64, req *request.ProfileCreateRequest) (*response.ProfileResponse, error)
}

type accountsService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	tokens   repository.ActivationTokenRepository
	sender   notification.EmailSender
	avatars  storage.AvatarStore
	log      *zap.Logger
	now      func() time.Time
}

func NewAccountsService(
	repo *repository.Repository,
	sender notification.EmailSender,
	avatars storage.AvatarStore,
	log *zap.Logger,
) AccountsService {
	return &accountsService{
		users:    repo.User,
		profiles: repo.Profile,
		tokens:   repo.ActivationToken,
		sender:   sender,
		avatars:  avatars,
		log:      log.With(zap.String("service", "accounts")),
		now:      time.Now,
	}
}

// CreateUser registers an inactive user and mails an activation link.
// If the mail cannot be sent the user is removed again so the
// registration can be retried.
func (s *accountsService) CreateUser(ctx context.Context, req *request.UserCreateRequest, baseURL string) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create user validation failed", zap.Any("errors", errs))
		return nil, NewValidationError(errs)
	}

	// 1. uniqueness
	existing, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	existing, err = s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	// 2. user
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:       req.Username,
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			if strings.Contains(database.ConstraintName(err), "username") {
				return nil, ErrUsernameExists
			}
			return nil, ErrEmailExists
		}
		return nil, err
	}

	// 3. token
	value, err := utils.GenerateActivationToken()
	if err != nil {
		s.discardUser(user.ID)
		return nil, fmt.Errorf("generate activation token: %w", err)
	}
	token := &entity.ActivationToken{UserID: user.ID, Token: value}
	if err := s.tokens.Create(ctx, token); err != nil {
		s.discardUser(user.ID)
		return nil, err
	}

	// 4. mail
	link := ActivationLink(baseURL, value)
	if err := s.sender.SendActivationEmail(ctx, user.Email, link, response.FullName(user)); err != nil {
		s.log.Error("Activation email failed, rolling back registration",
			zap.Error(err),
			zap.Int64("user_id", user.ID),
		)
		s.discardUser(user.ID)
		return nil, fmt.Errorf("%w: %w", ErrActivationEmail, err)
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return response.UserToResponse(user), nil
}

// ActivateUser consumes the token. The token is deleted on success, on
// expiry and when the user is already active.
func (s *accountsService) ActivateUser(ctx context.Context, token string) (*response.UserResponse, error) {
	record, err := s.tokens.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrInvalidActivationToken
	}

	if record.Expired(s.now()) {
		if err := s.tokens.Delete(ctx, token); err != nil {
			return nil, err
		}
		s.log.Info("Expired activation token removed", zap.Int64("user_id", record.UserID))
		return nil, ErrActivationTokenExpired
	}

	user, err := s.users.FindByID(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// owner vanished; the row would cascade anyway
		if err := s.tokens.Delete(ctx, token); err != nil {
			return nil, err
		}
		return nil, ErrInvalidActivationToken
	}

	if user.IsActive {
		if err := s.tokens.Delete(ctx, token); err != nil {
			return nil, err
		}
		return nil, ErrUserAlreadyActive
	}

	activated, err := s.users.SetActive(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if activated == nil {
		return nil, ErrInvalidActivationToken
	}

	if err := s.tokens.Delete(ctx, token); err != nil {
		return nil, err
	}

	s.log.Info("User activated", zap.Int64("user_id", activated.ID))
	return response.UserToResponse(activated), nil
}

func (s *accountsService) CreateUserProfile(ctx context.Context, userID int64, req *request.ProfileCreateRequest) (*response.ProfileResponse, error) {
	if errs := req.Validate(); errs != nil {
		return nil, NewValidationError(errs)
	}

	exists, err := s.profiles.ExistsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrProfileExists
	}

	filename, err := s.avatars.Save(req.AvatarFilename, req.AvatarContent)
	if err != nil {
		return nil, err
	}

	profile := &entity.UserProfile{
		UserID:      userID,
		Gender:      entity.Gender(req.Gender),
		DateOfBirth: req.DateOfBirth,
		Info:        req.Info,
		Avatar:      filename,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if rmErr := s.avatars.Remove(filename); rmErr != nil {
			s.log.Warn("Failed to remove orphan avatar", zap.Error(rmErr), zap.String("file", filename))
		}
		if database.IsUniqueViolation(err) {
			return nil, ErrProfileExists
		}
		return nil, err
	}

	s.log.Info("Profile created",
		zap.Int64("user_id", userID),
		zap.String("avatar", filename),
	)
	return response.ProfileToResponse(profile), nil
}

// discardUser deletes a half-registered user. The request context may
// already be cancelled, so a fresh one is used.
func (s *accountsService) discardUser(userID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.users.Delete(ctx, userID); err != nil {
		s.log.Error("Failed to discard user", zap.Error(err), zap.Int64("user_id", userID))
	}
}

// ActivationLink joins the public base URL and the token
func ActivationLink(baseURL, token string) string {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + ActivationPath + token + "/"
}
