package repository

import (
	"movie-catalog/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	DB              database.PgxIface
	Movie           MovieRepository
	Catalog         CatalogRepository
	User            UserRepository
	Profile         ProfileRepository
	ActivationToken ActivationTokenRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		DB:              db,
		Movie:           NewMovieRepository(db, log),
		Catalog:         NewCatalogRepository(db, log),
		User:            NewUserRepository(db, log),
		Profile:         NewProfileRepository(db, log),
		ActivationToken: NewActivationTokenRepository(db, log),
	}
}
