package request

import (
	"fmt"
	"strings"
	"time"

	"movie-catalog/pkg/utils"
)

const (
	FirstFilmYear     = 1888
	HighRating        = 9.0
	MinVotesForHighly = 1000
)

type MovieCreateRequest struct {
	Name          string   `json:"name" validate:"required,max=250"`
	Year          int      `json:"year" validate:"required"`
	Time          int      `json:"time" validate:"gt=0"`
	IMDB          float64  `json:"imdb" validate:"gte=0.1,lte=10"`
	Votes         int      `json:"votes" validate:"gte=0"`
	MetaScore     *float64 `json:"meta_score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Gross         *float64 `json:"gross,omitempty" validate:"omitempty,gte=0"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price,omitempty" validate:"omitempty,gte=0,lte=99999999.99"`
	Certification string   `json:"certification" validate:"max=64"`
}

// Validate applies the field rules plus the rules that depend on the clock
// or on several fields. Returns nil when the movie is valid.
func (r *MovieCreateRequest) Validate(now time.Time) map[string]string {
	r.Name = strings.TrimSpace(r.Name)

	errs := utils.ValidateStruct(r)
	if errs == nil {
		errs = make(map[string]string)
	}

	if _, bad := errs["year"]; !bad {
		maxYear := now.Year() + 2
		if r.Year < FirstFilmYear || r.Year > maxYear {
			errs["year"] = fmt.Sprintf("Year must be between %d and %d", FirstFilmYear, maxYear)
		}
	}

	if r.IMDB > HighRating && r.Votes < MinVotesForHighly {
		errs["votes"] = fmt.Sprintf("Movies rated above %.1f need at least %d votes", HighRating, MinVotesForHighly)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
