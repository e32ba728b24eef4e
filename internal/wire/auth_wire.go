package wire

import (
	"movie-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireAuth mounts the JWT endpoints under /accounts/auth
func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	r.Post("/auth/token/login", authHandler.Login)
	r.Post("/auth/token/refresh", authHandler.Refresh)
}
