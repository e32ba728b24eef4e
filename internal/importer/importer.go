package importer

import (
	"context"
	"fmt"
	"io"
	"time"

	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const progressEvery = 100

// Result summarizes one import run
type Result struct {
	Skipped    bool // catalog already had data
	Rows       int
	Imported   int
	Invalid    int
	Duplicates int
}

type Importer struct {
	fs      afero.Fs
	db      database.PgxIface
	catalog repository.CatalogRepository
	log     *zap.Logger
	now     func() time.Time
}

func New(fs afero.Fs, db database.PgxIface, catalog repository.CatalogRepository, log *zap.Logger) *Importer {
	return &Importer{
		fs:      fs,
		db:      db,
		catalog: catalog,
		log:     log.With(zap.String("component", "importer")),
		now:     time.Now,
	}
}

// ImportFile loads the CSV at path unless the catalog already has data
func (i *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	populated, err := i.catalog.HasData(ctx)
	if err != nil {
		return nil, categorize(err)
	}
	if populated {
		i.log.Info("Database is already populated, skipping import")
		return &Result{Skipped: true}, nil
	}

	f, err := i.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrImport, path, err)
	}
	defer f.Close()

	i.log.Info("Database is empty, importing", zap.String("file", path))
	return i.load(ctx, f)
}

// Import loads CSV from src unless the catalog already has data
func (i *Importer) Import(ctx context.Context, src io.Reader) (*Result, error) {
	populated, err := i.catalog.HasData(ctx)
	if err != nil {
		return nil, categorize(err)
	}
	if populated {
		i.log.Info("Database is already populated, skipping import")
		return &Result{Skipped: true}, nil
	}
	return i.load(ctx, src)
}

// Clean removes every movie and lookup row
func (i *Importer) Clean(ctx context.Context) error {
	if err := i.catalog.Clean(ctx); err != nil {
		return categorize(err)
	}
	i.log.Info("Catalog cleaned")
	return nil
}

func (i *Importer) load(ctx context.Context, src io.Reader) (*Result, error) {
	rows, err := ReadRows(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImport, err)
	}

	batch := Plan(rows, i.now(), i.log)
	result := &Result{
		Rows:       batch.Rows,
		Invalid:    batch.Invalid,
		Duplicates: batch.Duplicates,
	}
	if len(batch.Records) == 0 {
		i.log.Warn("No valid rows to import", zap.Int("rows", batch.Rows))
		return result, nil
	}

	start := time.Now()
	err = database.WithTx(ctx, i.db, func(tx pgx.Tx) error {
		return i.save(ctx, tx, batch)
	})
	if err != nil {
		i.log.Error("Import rolled back", zap.Error(err))
		return nil, categorize(err)
	}

	result.Imported = len(batch.Records)
	i.log.Info("Import finished",
		zap.Int("rows", result.Rows),
		zap.Int("imported", result.Imported),
		zap.Int("invalid", result.Invalid),
		zap.Int("duplicates", result.Duplicates),
		zap.Duration("took", time.Since(start)),
	)
	return result, nil
}

func (i *Importer) save(ctx context.Context, q database.Querier, batch *Batch) error {
	certifications, err := i.catalog.EnsureLookups(ctx, q, repository.LookupCertification, batch.Certifications)
	if err != nil {
		return err
	}
	genres, err := i.catalog.EnsureLookups(ctx, q, repository.LookupGenre, batch.Genres)
	if err != nil {
		return err
	}
	directors, err := i.catalog.EnsureLookups(ctx, q, repository.LookupDirector, batch.Directors)
	if err != nil {
		return err
	}
	stars, err := i.catalog.EnsureLookups(ctx, q, repository.LookupStar, batch.Stars)
	if err != nil {
		return err
	}

	for n, rec := range batch.Records {
		movie, err := usecase.NewMovieEntity(&rec.Movie)
		if err != nil {
			return fmt.Errorf("line %d: %w", rec.Line, err)
		}
		movie.CertificationID = certifications[rec.Movie.Certification]

		id, err := i.catalog.InsertMovie(ctx, q, movie)
		if err != nil {
			return fmt.Errorf("line %d: %w", rec.Line, err)
		}

		links := []struct {
			kind  repository.LookupKind
			names []string
			ids   map[string]int64
		}{
			{repository.LookupGenre, rec.Genres, genres},
			{repository.LookupDirector, rec.Directors, directors},
			{repository.LookupStar, rec.Stars, stars},
		}
		for _, l := range links {
			if err := i.catalog.LinkMovie(ctx, q, l.kind, id, resolve(l.names, l.ids)); err != nil {
				return fmt.Errorf("line %d: %w", rec.Line, err)
			}
		}

		if (n+1)%progressEvery == 0 {
			i.log.Info("Import progress", zap.Int("saved", n+1), zap.Int("total", len(batch.Records)))
		}
	}
	return nil
}

func resolve(names []string, ids map[string]int64) []int64 {
	out := make([]int64, 0, len(names))
	for _, n := range names {
		if id, ok := ids[n]; ok {
			out = append(out, id)
		}
	}
	return out
}
