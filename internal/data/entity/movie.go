package entity

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// NotRated is used when a movie has no certification
const NotRated = "Not Rated"

type Certification Lookup
type Genre Lookup
type Director Lookup
type Star Lookup

type Movie struct {
	ID              int64          `db:"id"`
	UUID            uuid.UUID      `db:"uuid"`
	Name            string         `db:"name"`
	Year            int            `db:"year"`
	Time            int            `db:"time"`
	IMDB            float64        `db:"imdb"`
	Votes           int            `db:"votes"`
	MetaScore       *float64       `db:"meta_score"`
	Gross           *float64       `db:"gross"`
	Description     string         `db:"description"`
	Price           pgtype.Numeric `db:"price"`
	CertificationID int64          `db:"certification_id"`
}
