package response

import (
	"movie-catalog/internal/data/entity"

	"github.com/jackc/pgx/v5/pgtype"
)

// MovieResponse is the public shape of a movie, also the cached shape.
// UUID is the canonical hyphenated form; Price is the NUMERIC value
// converted to float64.
type MovieResponse struct {
	ID              int64    `json:"id"`
	UUID            string   `json:"uuid"`
	Name            string   `json:"name"`
	Year            int      `json:"year"`
	Time            int      `json:"time"`
	IMDB            float64  `json:"imdb"`
	Votes           int      `json:"votes"`
	MetaScore       *float64 `json:"meta_score"`
	Gross           *float64 `json:"gross"`
	Description     string   `json:"description"`
	CertificationID int64    `json:"certification_id"`
	Price           *float64 `json:"price"`
}

type MovieListResponse struct {
	Movies []MovieResponse `json:"movies"`
	Total  int64           `json:"total"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:              movie.ID,
		UUID:            movie.UUID.String(),
		Name:            movie.Name,
		Year:            movie.Year,
		Time:            movie.Time,
		IMDB:            movie.IMDB,
		Votes:           movie.Votes,
		MetaScore:       movie.MetaScore,
		Gross:           movie.Gross,
		Description:     movie.Description,
		CertificationID: movie.CertificationID,
		Price:           NumericToFloat(movie.Price),
	}
}

func MoviesToListResponse(movies []*entity.Movie, total int64) *MovieListResponse {
	resp := &MovieListResponse{
		Movies: make([]MovieResponse, 0, len(movies)),
		Total:  total,
	}
	for _, m := range movies {
		resp.Movies = append(resp.Movies, MovieToResponse(m))
	}
	return resp
}

// NumericToFloat converts a nullable NUMERIC with the default float64 conversion
func NumericToFloat(n pgtype.Numeric) *float64 {
	if !n.Valid {
		return nil
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
