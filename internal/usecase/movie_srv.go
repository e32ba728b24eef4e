package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"movie-catalog/internal/cache"
	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type MovieService interface {
	GetPaginatedMovies(ctx context.Context, page, perPage int) (*response.MovieListResponse, error)
	GetMovieByID(ctx context.Context, id int64) (*response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieCreateRequest) (*response.MovieResponse, error)
}

type movieService struct {
	repo  repository.MovieRepository
	cache cache.Cache
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewMovieService(repo repository.MovieRepository, c cache.Cache, ttl time.Duration, log *zap.Logger) MovieService {
	if ttl <= 0 {
		ttl = cache.MoviesPageTTL
	}
	return &movieService{
		repo:  repo,
		cache: c,
		ttl:   ttl,
		log:   log.With(zap.String("service", "movie")),
		now:   time.Now,
	}
}

// GetPaginatedMovies serves a page from cache, or loads it from the
// repository and caches it.
func (s *movieService) GetPaginatedMovies(ctx context.Context, page, perPage int) (*response.MovieListResponse, error) {
	req := request.MoviePageRequest{Page: page, PerPage: perPage}
	if errs := req.Validate(); errs != nil {
		return nil, NewValidationError(errs)
	}

	key := cache.MoviesPageKey(page, perPage)

	var cached response.MovieListResponse
	hit, err := cache.GetJSON(ctx, s.cache, key, &cached)
	if err != nil {
		s.log.Error("Failed to read movies page from cache", zap.Error(err), zap.String("key", key))
		return nil, err
	}
	if hit {
		s.log.Debug("Movies page cache hit", zap.String("key", key))
		return &cached, nil
	}

	var (
		movies []*entity.Movie
		total  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movies, err = s.repo.GetMoviesWithPagination(gctx, req.Offset(), req.Limit())
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repo.GetTotalCount(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("Failed to load movies page",
			zap.Error(err),
			zap.Int("page", page),
			zap.Int("per_page", perPage),
		)
		return nil, fmt.Errorf("load movies page %d: %w", page, err)
	}

	resp := response.MoviesToListResponse(movies, total)

	if err := cache.SetJSON(ctx, s.cache, key, resp, s.ttl); err != nil {
		s.log.Error("Failed to cache movies page", zap.Error(err), zap.String("key", key))
		return nil, err
	}

	s.log.Debug("Movies page cached",
		zap.String("key", key),
		zap.Int("count", len(resp.Movies)),
		zap.Int64("total", total),
	)
	return resp, nil
}

func (s *movieService) GetMovieByID(ctx context.Context, id int64) (*response.MovieResponse, error) {
	movie, err := s.repo.GetMovieByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

// CreateMovie validates and stores a movie. Cached pages are left to expire.
func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieCreateRequest) (*response.MovieResponse, error) {
	if errs := req.Validate(s.now()); errs != nil {
		s.log.Warn("Create movie validation failed", zap.Any("errors", errs))
		return nil, NewValidationError(errs)
	}

	movie, err := NewMovieEntity(req)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateMovie(ctx, movie, req.Certification)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrMovieExists
		}
		return nil, err
	}

	s.log.Info("Movie created",
		zap.Int64("movie_id", created.ID),
		zap.String("name", created.Name),
	)

	resp := response.MovieToResponse(created)
	return &resp, nil
}

// NewMovieEntity builds an unsaved movie with a fresh UUID from a validated request
func NewMovieEntity(req *request.MovieCreateRequest) (*entity.Movie, error) {
	movie := &entity.Movie{
		UUID:        uuid.New(),
		Name:        req.Name,
		Year:        req.Year,
		Time:        req.Time,
		IMDB:        req.IMDB,
		Votes:       req.Votes,
		MetaScore:   req.MetaScore,
		Gross:       req.Gross,
		Description: req.Description,
	}

	if req.Price != nil {
		if err := movie.Price.Scan(strconv.FormatFloat(*req.Price, 'f', 2, 64)); err != nil {
			return nil, NewValidationError(map[string]string{"price": "Invalid price"})
		}
	}

	return movie, nil
}

// IsCacheError reports whether err came from the cache layer
func IsCacheError(err error) bool {
	return errors.Is(err, cache.ErrCache)
}
