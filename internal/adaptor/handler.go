package adaptor

import (
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Accounts *AccountsHandler
	Movie    *MovieHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		Accounts: NewAccountsHandler(service.Accounts, config.App.BaseURL, log),
		Movie:    NewMovieHandler(service.Movie, log),
	}
}
