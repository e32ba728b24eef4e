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

// ErrCreateMovie wraps any persistence failure while creating a movie
var ErrCreateMovie = errors.New("movie creation failed")

type MovieRepository interface {
	GetMoviesWithPagination(ctx context.Context, offset, limit int) ([]*entity.Movie, error)
	GetTotalCount(ctx context.Context) (int64, error)

	CreateMovie(ctx context.Context, movie *entity.Movie, certification string) (*entity.Movie, error)
	GetMovieByID(ctx context.Context, id int64) (*entity.Movie, error)
	GetAllMovies(ctx context.Context) ([]*entity.Movie, error)
}

const movieColumns = `id, uuid, name, year, time, imdb, votes, meta_score, gross,
		       description, price, certification_id`

type movieRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMovieRepository(db database.PgxIface, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

// GetMoviesWithPagination returns at most limit movies starting at offset, in insertion order
func (r *movieRepository) GetMoviesWithPagination(ctx context.Context, offset, limit int) ([]*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to get movies page",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("limit", limit),
		)
		return nil, fmt.Errorf("get movies page: %w", err)
	}
	defer rows.Close()

	movies, err := collectMovies(rows)
	if err != nil {
		r.log.Error("Failed to scan movies page", zap.Error(err))
		return nil, err
	}

	r.log.Debug("Movies page loaded",
		zap.Int("count", len(movies)),
		zap.Int("offset", offset),
		zap.Int("limit", limit),
	)

	return movies, nil
}

func (r *movieRepository) GetTotalCount(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&total); err != nil {
		r.log.Error("Failed to count movies", zap.Error(err))
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return total, nil
}

// CreateMovie resolves the certification by name (creating it when missing)
// and inserts the movie in one transaction.
func (r *movieRepository) CreateMovie(ctx context.Context, movie *entity.Movie, certification string) (*entity.Movie, error) {
	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		certificationID, err := getOrCreateCertification(ctx, tx, certification)
		if err != nil {
			return err
		}
		movie.CertificationID = certificationID

		id, err := insertMovie(ctx, tx, movie)
		if err != nil {
			return err
		}
		movie.ID = id
		return nil
	})
	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("name", movie.Name),
			zap.Int("year", movie.Year),
		)
		return nil, fmt.Errorf("%w: %w", ErrCreateMovie, err)
	}

	r.log.Info("Movie created",
		zap.Int64("movie_id", movie.ID),
		zap.String("uuid", movie.UUID.String()),
	)
	return movie, nil
}

func (r *movieRepository) GetMovieByID(ctx context.Context, id int64) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.Int64("movie_id", id),
		)
		return nil, fmt.Errorf("find movie %d: %w", id, err)
	}

	return movie, nil
}

// GetAllMovies returns nil when the table is empty
func (r *movieRepository) GetAllMovies(ctx context.Context) ([]*entity.Movie, error) {
	rows, err := r.db.Query(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY id`)
	if err != nil {
		r.log.Error("Failed to get all movies", zap.Error(err))
		return nil, fmt.Errorf("get all movies: %w", err)
	}
	defer rows.Close()

	movies, err := collectMovies(rows)
	if err != nil {
		return nil, err
	}
	if len(movies) == 0 {
		return nil, nil
	}
	return movies, nil
}

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var movie entity.Movie
	err := row.Scan(
		&movie.ID,
		&movie.UUID,
		&movie.Name,
		&movie.Year,
		&movie.Time,
		&movie.IMDB,
		&movie.Votes,
		&movie.MetaScore,
		&movie.Gross,
		&movie.Description,
		&movie.Price,
		&movie.CertificationID,
	)
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func collectMovies(rows pgx.Rows) ([]*entity.Movie, error) {
	movies := make([]*entity.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

func insertMovie(ctx context.Context, q database.Querier, movie *entity.Movie) (int64, error) {
	query := `
		INSERT INTO movies (uuid, name, year, time, imdb, votes, meta_score, gross,
		                    description, price, certification_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	err := q.QueryRow(ctx, query,
		movie.UUID,
		movie.Name,
		movie.Year,
		movie.Time,
		movie.IMDB,
		movie.Votes,
		movie.MetaScore,
		movie.Gross,
		movie.Description,
		movie.Price,
		movie.CertificationID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert movie %q: %w", movie.Name, err)
	}
	return id, nil
}

func getOrCreateCertification(ctx context.Context, q database.Querier, name string) (int64, error) {
	if name == "" {
		name = entity.NotRated
	}

	// the no-op update makes RETURNING yield the existing row on conflict
	query := `
		INSERT INTO certifications (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`

	var id int64
	if err := q.QueryRow(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("get or create certification %q: %w", name, err)
	}
	return id, nil
}
