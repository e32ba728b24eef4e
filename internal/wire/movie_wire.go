package wire

import (
	"movie-catalog/internal/adaptor"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMovie(
	r chi.Router,
	movieHandler *adaptor.MovieHandler,
	authService usecase.AuthService,
	log *zap.Logger,
) {
	r.Route("/movies", func(r chi.Router) {
		// public
		r.Get("/", movieHandler.GetMovies)
		r.Get("/{movie_id}", movieHandler.GetMovieByID)

		// staff only
		r.With(
			middleware.BearerAuth(authService, log),
			middleware.Staff(authService, log),
		).Post("/", movieHandler.CreateMovie)
	})
}
