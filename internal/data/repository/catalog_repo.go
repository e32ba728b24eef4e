package repository

import (
	"context"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// LookupKind names one of the catalog lookup tables together with its junction table
type LookupKind string

const (
	LookupGenre         LookupKind = "genres"
	LookupDirector      LookupKind = "directors"
	LookupStar          LookupKind = "stars"
	LookupCertification LookupKind = "certifications"
)

type lookupTables struct {
	table    string
	junction string
	column   string
}

var lookups = map[LookupKind]lookupTables{
	LookupGenre:         {table: "genres", junction: "movie_genres", column: "genre_id"},
	LookupDirector:      {table: "directors", junction: "movie_directors", column: "director_id"},
	LookupStar:          {table: "stars", junction: "movie_stars", column: "star_id"},
	LookupCertification: {table: "certifications"},
}

// CatalogRepository holds the bulk operations used when seeding the catalog.
// Methods taking a Querier run on the caller's transaction.
type CatalogRepository interface {
	HasData(ctx context.Context) (bool, error)
	Clean(ctx context.Context) error

	EnsureLookups(ctx context.Context, q database.Querier, kind LookupKind, names []string) (map[string]int64, error)
	InsertMovie(ctx context.Context, q database.Querier, movie *entity.Movie) (int64, error)
	LinkMovie(ctx context.Context, q database.Querier, kind LookupKind, movieID int64, ids []int64) error
}

type catalogRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCatalogRepository(db database.PgxIface, log *zap.Logger) CatalogRepository {
	return &catalogRepository{
		db:  db,
		log: log.With(zap.String("repository", "catalog")),
	}
}

// HasData reports whether any of the core catalog tables has at least one row
func (r *catalogRepository) HasData(ctx context.Context) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM movies)
		    OR EXISTS (SELECT 1 FROM genres)
		    OR EXISTS (SELECT 1 FROM directors)
		    OR EXISTS (SELECT 1 FROM stars)
		    OR EXISTS (SELECT 1 FROM certifications)
	`

	var populated bool
	if err := r.db.QueryRow(ctx, query).Scan(&populated); err != nil {
		r.log.Error("Failed to check catalog data", zap.Error(err))
		return false, fmt.Errorf("check catalog data: %w", err)
	}
	return populated, nil
}

// Clean deletes every catalog row, junctions first
func (r *catalogRepository) Clean(ctx context.Context) error {
	tables := []string{
		"movie_genres", "movie_directors", "movie_stars",
		"movies",
		"genres", "directors", "stars", "certifications",
	}

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		for _, table := range tables {
			tag, err := tx.Exec(ctx, "DELETE FROM "+table)
			if err != nil {
				return fmt.Errorf("clean %s: %w", table, err)
			}
			r.log.Info("Table cleaned",
				zap.String("table", table),
				zap.Int64("rows", tag.RowsAffected()),
			)
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to clean catalog", zap.Error(err))
		return err
	}
	return nil
}

// EnsureLookups inserts missing names and returns name -> id for all of them
func (r *catalogRepository) EnsureLookups(ctx context.Context, q database.Querier, kind LookupKind, names []string) (map[string]int64, error) {
	t, ok := lookups[kind]
	if !ok {
		return nil, fmt.Errorf("unknown lookup kind %q", kind)
	}

	ids := make(map[string]int64, len(names))
	if len(names) == 0 {
		return ids, nil
	}

	insert := fmt.Sprintf(
		`INSERT INTO %s (name) SELECT unnest($1::text[]) ON CONFLICT (name) DO NOTHING`, t.table)
	if _, err := q.Exec(ctx, insert, names); err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.table, err)
	}

	rows, err := q.Query(ctx, fmt.Sprintf(`SELECT id, name FROM %s WHERE name = ANY($1)`, t.table), names)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row entity.Lookup
		if err := rows.Scan(&row.ID, &row.Name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.table, err)
		}
		ids[row.Name] = row.ID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.table, err)
	}

	r.log.Debug("Lookups ensured",
		zap.String("table", t.table),
		zap.Int("requested", len(names)),
		zap.Int("resolved", len(ids)),
	)
	return ids, nil
}

func (r *catalogRepository) InsertMovie(ctx context.Context, q database.Querier, movie *entity.Movie) (int64, error) {
	return insertMovie(ctx, q, movie)
}

func (r *catalogRepository) LinkMovie(ctx context.Context, q database.Querier, kind LookupKind, movieID int64, ids []int64) error {
	t, ok := lookups[kind]
	if !ok || t.junction == "" {
		return fmt.Errorf("lookup kind %q has no junction table", kind)
	}
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (movie_id, %s) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING`,
		t.junction, t.column)
	if _, err := q.Exec(ctx, query, movieID, ids); err != nil {
		return fmt.Errorf("link movie %d in %s: %w", movieID, t.junction, err)
	}
	return nil
}
