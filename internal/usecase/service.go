package usecase

import (
	"movie-catalog/internal/cache"
	"movie-catalog/internal/data/repository"
	"movie-catalog/pkg/notification"
	"movie-catalog/pkg/storage"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

// Infra groups the non-database collaborators of the services
type Infra struct {
	Cache   cache.Cache
	Tokens  TokenManager
	Mailer  notification.EmailSender
	Avatars storage.AvatarStore
}

type Service struct {
	Movie    MovieService
	Accounts AccountsService
	Auth     AuthService
}

func NewService(repo *repository.Repository, infra Infra, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Movie:    NewMovieService(repo.Movie, infra.Cache, config.Redis.TTL, log),
		Accounts: NewAccountsService(repo, infra.Mailer, infra.Avatars, log),
		Auth:     NewAuthService(repo.User, infra.Tokens, log),
	}
}
