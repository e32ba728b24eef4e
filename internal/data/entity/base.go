package entity

import (
	"time"
)

// Lookup is a named catalog row (genre, director, star, certification)
type Lookup struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type Timestamps struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
