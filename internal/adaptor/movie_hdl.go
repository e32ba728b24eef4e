package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"movie-catalog/internal/cache"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /api/v1/movies?page=&per_page=
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fieldErrs := make(map[string]string)

	page, err := utils.ParseQueryInt(query.Get("page"), utils.DefaultPage)
	if err != nil {
		fieldErrs["page"] = "Must be an integer"
	}
	perPage, err := utils.ParseQueryInt(query.Get("per_page"), utils.DefaultPerPage)
	if err != nil {
		fieldErrs["per_page"] = "Must be an integer"
	}
	if len(fieldErrs) > 0 {
		utils.ResponseUnprocessable(w, "Validation failed", fieldErrs)
		return
	}

	movies, err := h.service.GetPaginatedMovies(r.Context(), page, perPage)
	if err != nil {
		h.handleServiceError(w, err, "get movies")
		return
	}

	utils.WriteJSON(w, http.StatusOK, movies)
}

// GetMovieByID handles GET /api/v1/movies/{movie_id}
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "movie_id"), 10, 64)
	if err != nil || id < 1 {
		utils.ResponseUnprocessable(w, "Validation failed", map[string]string{"movie_id": "Must be a positive integer"})
		return
	}

	movie, err := h.service.GetMovieByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "get movie by ID")
		return
	}

	utils.ResponseSuccess(w, "Movie retrieved successfully", movie)
}

// CreateMovie handles POST /api/v1/movies (staff only)
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.MovieCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create movie")
		return
	}

	utils.ResponseCreated(w, "Movie created successfully", movie)
}

// handleServiceError maps movie service errors to responses
func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseUnprocessable(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrMovieNotFound):
		utils.ResponseNotFound(w, "Movie not found")

	case errors.Is(err, usecase.ErrMovieExists):
		h.log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseUnprocessable(w, "Movie with this name, year and time already exists", nil)

	case errors.Is(err, cache.ErrCache):
		h.log.Error(operation+" failed - cache unavailable", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Cache unavailable")

	case errors.Is(err, repository.ErrCreateMovie):
		h.log.Error(operation+" failed - persistence", zap.Error(err))
		utils.ResponseInternalError(w, "Movie creation failed")

	default:
		h.log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
