package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxProfileFormSize bounds the whole multipart body of a profile upload
const maxProfileFormSize = 4 << 20

type AccountsHandler struct {
	service usecase.AccountsService
	baseURL string
	log     *zap.Logger
}

// NewAccountsHandler builds activation links from baseURL, or from the
// request host when baseURL is empty.
func NewAccountsHandler(service usecase.AccountsService, baseURL string, log *zap.Logger) *AccountsHandler {
	return &AccountsHandler{
		service: service,
		baseURL: baseURL,
		log:     log.With(zap.String("handler", "accounts")),
	}
}

// CreateUser handles POST /api/v1/accounts/users
func (h *AccountsHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.UserCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req, h.requestBaseURL(r))
	if err != nil {
		h.handleServiceError(w, err, "create user")
		return
	}

	utils.ResponseCreated(w, "Check "+user.Email+" email for activation link", map[string]any{
		"user": user,
	})
}

// ActivateUser handles GET /api/v1/accounts/users/activate/{token}
func (h *AccountsHandler) ActivateUser(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	user, err := h.service.ActivateUser(r.Context(), token)
	if err != nil {
		h.handleServiceError(w, err, "activate user")
		return
	}

	utils.ResponseSuccess(w, "Account successfully activated", map[string]any{
		"user": user,
	})
}

// CreateProfile handles POST /api/v1/accounts/users/{user_id}/profile.
// Runs behind BearerAuth; a user may only create their own profile.
func (h *AccountsHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
	if err != nil || userID < 1 {
		utils.ResponseUnprocessable(w, "Validation failed", map[string]string{"user_id": "Must be a positive integer"})
		return
	}

	tokenUserID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	if tokenUserID != userID {
		h.log.Warn("Cross-user profile edit rejected",
			zap.Int64("token_user_id", tokenUserID),
			zap.Int64("user_id", userID))
		utils.ResponseForbidden(w, "You dont have access to edit this profile")
		return
	}

	req, fieldErrs, err := parseProfileForm(w, r)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}
	if len(fieldErrs) > 0 {
		utils.ResponseUnprocessable(w, "Validation failed", fieldErrs)
		return
	}

	profile, err := h.service.CreateUserProfile(r.Context(), userID, req)
	if err != nil {
		h.handleServiceError(w, err, "create profile")
		return
	}

	utils.ResponseCreated(w, "Profile created successfully", profile)
}

func parseProfileForm(w http.ResponseWriter, r *http.Request) (*request.ProfileCreateRequest, map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxProfileFormSize)
	if err := r.ParseMultipartForm(maxProfileFormSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, map[string]string{"avatar": "Image size exceeds 1 MB"}, nil
		}
		return nil, nil, err
	}

	req := &request.ProfileCreateRequest{
		Gender: strings.TrimSpace(r.FormValue("gender")),
		Info:   r.FormValue("info"),
	}
	fieldErrs := make(map[string]string)

	if raw := strings.TrimSpace(r.FormValue("date_of_birth")); raw != "" {
		dob, err := time.Parse(request.DateLayout, raw)
		if err != nil {
			fieldErrs["date_of_birth"] = "Invalid date, expected YYYY-MM-DD"
		} else {
			req.DateOfBirth = dob
		}
	}

	file, header, err := r.FormFile("avatar")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		return nil, nil, err
	default:
		defer file.Close()
		// one byte past the limit is enough to detect an oversized image
		content, err := io.ReadAll(io.LimitReader(file, request.MaxAvatarSize+1))
		if err != nil {
			return nil, nil, err
		}
		req.AvatarFilename = header.Filename
		req.AvatarContent = content
	}

	return req, fieldErrs, nil
}

func (h *AccountsHandler) requestBaseURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/"
}

func (h *AccountsHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var (
		validationErr *usecase.ValidationError
		activationErr *usecase.ActivationError
	)

	switch {
	case errors.As(err, &validationErr):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseUnprocessable(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrUsernameExists),
		errors.Is(err, usecase.ErrEmailExists),
		errors.Is(err, usecase.ErrProfileExists):
		h.log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error(), nil)

	case errors.As(err, &activationErr):
		h.log.Warn(operation+" failed", zap.Error(err))
		utils.ResponseUnprocessable(w, activationErr.Error(), nil)

	case errors.Is(err, usecase.ErrActivationEmail):
		h.log.Error(operation+" failed - email dispatch", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Could not send activation email, try again later")

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
