package repository

import (
	"context"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"go.uber.org/zap"
)

type ProfileRepository interface {
	ExistsByUserID(ctx context.Context, userID int64) (bool, error)
	Create(ctx context.Context, profile *entity.UserProfile) error
}

type profileRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewProfileRepository(db database.PgxIface, log *zap.Logger) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log.With(zap.String("repository", "profile")),
	}
}

func (r *profileRepository) ExistsByUserID(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_profiles WHERE user_id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check profile", zap.Error(err), zap.Int64("user_id", userID))
		return false, fmt.Errorf("check profile of user %d: %w", userID, err)
	}
	return exists, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, gender, date_of_birth, info, avatar)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		profile.UserID,
		profile.Gender,
		profile.DateOfBirth,
		profile.Info,
		profile.Avatar,
	).Scan(&profile.ID, &profile.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create profile",
			zap.Error(err),
			zap.Int64("user_id", profile.UserID),
		)
		return fmt.Errorf("create profile for user %d: %w", profile.UserID, err)
	}
	return nil
}
