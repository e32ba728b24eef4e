package wire

import (
	"movie-catalog/internal/adaptor"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAccounts(
	r chi.Router,
	accountsHandler *adaptor.AccountsHandler,
	authService usecase.AuthService,
	log *zap.Logger,
) {
	r.Post("/users", accountsHandler.CreateUser)

	// activation links end with a slash
	r.Get("/users/activate/{token}", accountsHandler.ActivateUser)
	r.Get("/users/activate/{token}/", accountsHandler.ActivateUser)

	r.With(middleware.BearerAuth(authService, log)).
		Post("/users/{user_id}/profile", accountsHandler.CreateProfile)
}
