package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ActivationTokenRepository interface {
	Create(ctx context.Context, token *entity.ActivationToken) error
	FindByToken(ctx context.Context, token string) (*entity.ActivationToken, error)
	Delete(ctx context.Context, token string) error
}

type activationTokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewActivationTokenRepository(db database.PgxIface, log *zap.Logger) ActivationTokenRepository {
	return &activationTokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "activation_token")),
	}
}

// Create stores the token for its user, replacing any outstanding one
func (r *activationTokenRepository) Create(ctx context.Context, token *entity.ActivationToken) error {
	query := `
		INSERT INTO activation_tokens (user_id, token, created)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET token = EXCLUDED.token, created = EXCLUDED.created
		RETURNING id, created
	`

	err := r.db.QueryRow(ctx, query, token.UserID, token.Token).Scan(&token.ID, &token.Created)
	if err != nil {
		r.log.Error("Failed to create activation token",
			zap.Error(err),
			zap.Int64("user_id", token.UserID),
		)
		return fmt.Errorf("create activation token for user %d: %w", token.UserID, err)
	}

	return nil
}

func (r *activationTokenRepository) FindByToken(ctx context.Context, token string) (*entity.ActivationToken, error) {
	query := `SELECT id, user_id, token, created FROM activation_tokens WHERE token = $1`

	var t entity.ActivationToken
	err := r.db.QueryRow(ctx, query, token).Scan(&t.ID, &t.UserID, &t.Token, &t.Created)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find activation token", zap.Error(err))
		return nil, fmt.Errorf("find activation token: %w", err)
	}

	return &t, nil
}

func (r *activationTokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM activation_tokens WHERE token = $1`, token); err != nil {
		r.log.Error("Failed to delete activation token", zap.Error(err))
		return fmt.Errorf("delete activation token: %w", err)
	}
	return nil
}
