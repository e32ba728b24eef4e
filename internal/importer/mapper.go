package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/dto/request"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

// Record is a mapped CSV row: the movie plus the names it links to
type Record struct {
	Line      int
	Movie     request.MovieCreateRequest
	Genres    []string
	Directors []string
	Stars     []string
}

// RowError reports the column of a row that could not be parsed
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// MapRow converts raw CSV text to a Record. It only parses; Validate
// applies the business rules.
func MapRow(row Row) (*Record, error) {
	rec := &Record{Line: row.Line}
	m := &rec.Movie
	fail := func(col string, err error) (*Record, error) {
		return nil, &RowError{Line: row.Line, Column: col, Err: err}
	}

	m.Name = row.Get(ColName)

	var err error
	if m.Year, err = strconv.Atoi(row.Get(ColYear)); err != nil {
		return fail(ColYear, err)
	}
	if m.Time, err = strconv.Atoi(row.Get(ColTime)); err != nil {
		return fail(ColTime, err)
	}
	if m.IMDB, err = strconv.ParseFloat(row.Get(ColRating), 64); err != nil {
		return fail(ColRating, err)
	}
	if m.Votes, err = strconv.Atoi(stripThousands(row.Get(ColVotes))); err != nil {
		return fail(ColVotes, err)
	}
	if m.MetaScore, err = optionalFloat(row.Get(ColMetaScore)); err != nil {
		return fail(ColMetaScore, err)
	}
	if m.Gross, err = optionalFloat(stripThousands(row.Get(ColGross))); err != nil {
		return fail(ColGross, err)
	}

	if rec.Genres, err = ParseList(row.Get(ColGenre)); err != nil {
		return fail(ColGenre, err)
	}
	if rec.Directors, err = ParseList(row.Get(ColDirector)); err != nil {
		return fail(ColDirector, err)
	}
	if rec.Stars, err = ParseList(row.Get(ColStars)); err != nil {
		return fail(ColStars, err)
	}
	rec.Genres = uniqueNames(rec.Genres)
	rec.Directors = uniqueNames(rec.Directors)
	rec.Stars = uniqueNames(rec.Stars)

	m.Certification = row.Get(ColCertification)
	if m.Certification == "" {
		m.Certification = entity.NotRated
	}

	description := row.Get(ColDescription)
	if strings.HasPrefix(description, "[") {
		words, err := ParseList(description)
		if err != nil {
			return fail(ColDescription, err)
		}
		description = strings.Join(words, " ")
	}
	m.Description = description

	return rec, nil
}

// Validate runs the movie rules and the per-name limits. Returns nil when valid.
func (r *Record) Validate(now time.Time) map[string]string {
	errs := r.Movie.Validate(now)

	names := utils.ValidateStruct(struct {
		Genres    []string `json:"genres" validate:"dive,required,max=64"`
		Directors []string `json:"directors" validate:"dive,required,max=255"`
		Stars     []string `json:"stars" validate:"dive,required,max=255"`
	}{r.Genres, r.Directors, r.Stars})

	if len(names) == 0 {
		return errs
	}
	if errs == nil {
		errs = make(map[string]string, len(names))
	}
	for k, v := range names {
		errs[k] = v
	}
	return errs
}

func (r *Record) key() string {
	return fmt.Sprintf("%s\x00%d\x00%d", r.Movie.Name, r.Movie.Year, r.Movie.Time)
}

// Batch is the validated, de-duplicated content of one CSV file
type Batch struct {
	Records        []*Record
	Genres         []string
	Directors      []string
	Stars          []string
	Certifications []string

	Rows       int
	Invalid    int
	Duplicates int
}

// Plan maps and validates rows. Bad rows are logged and skipped; for
// repeated (name, year, time) only the first row is kept.
func Plan(rows []Row, now time.Time, log *zap.Logger) *Batch {
	batch := &Batch{Rows: len(rows)}
	seen := make(map[string]struct{}, len(rows))
	var genres, directors, stars, certifications []string

	for _, row := range rows {
		rec, err := MapRow(row)
		if err != nil {
			batch.Invalid++
			log.Warn("Skipping unreadable row", zap.Error(err))
			continue
		}
		if errs := rec.Validate(now); errs != nil {
			batch.Invalid++
			log.Warn("Skipping invalid row",
				zap.Int("line", rec.Line),
				zap.String("movie", rec.Movie.Name),
				zap.String("errors", utils.FormatValidationErrors(errs)),
			)
			continue
		}

		k := rec.key()
		if _, dup := seen[k]; dup {
			batch.Duplicates++
			log.Warn("Skipping duplicate movie",
				zap.Int("line", rec.Line),
				zap.String("movie", rec.Movie.Name),
				zap.Int("year", rec.Movie.Year),
			)
			continue
		}
		seen[k] = struct{}{}

		batch.Records = append(batch.Records, rec)
		genres = append(genres, rec.Genres...)
		directors = append(directors, rec.Directors...)
		stars = append(stars, rec.Stars...)
		certifications = append(certifications, rec.Movie.Certification)
	}

	batch.Genres = uniqueNames(genres)
	batch.Directors = uniqueNames(directors)
	batch.Stars = uniqueNames(stars)
	batch.Certifications = uniqueNames(certifications)
	return batch
}

func stripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
