package response

import (
	"strings"
	"time"

	"movie-catalog/internal/data/entity"
)

type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

type ProfileResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
	Info        string `json:"info"`
	Avatar      string `json:"avatar"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type TokenAccessResponse struct {
	AccessToken string `json:"access_token"`
}

func UserToResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}

func ProfileToResponse(profile *entity.UserProfile) *ProfileResponse {
	return &ProfileResponse{
		ID:          profile.ID,
		UserID:      profile.UserID,
		Gender:      string(profile.Gender),
		DateOfBirth: profile.DateOfBirth.Format(time.DateOnly),
		Info:        profile.Info,
		Avatar:      profile.Avatar,
	}
}

// FullName returns "First Last" with each part capitalized
func FullName(user *entity.User) string {
	return capitalize(user.FirstName) + " " + capitalize(user.LastName)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
