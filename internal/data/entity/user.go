package entity

import (
	"time"
)

type User struct {
	ID             int64  `db:"id"`
	Username       string `db:"username"`
	Email          string `db:"email"`
	FirstName      string `db:"first_name"`
	LastName       string `db:"last_name"`
	IsActive       bool   `db:"is_active"`
	IsStaff        bool   `db:"is_staff"`
	IsSuperuser    bool   `db:"is_superuser"`
	HashedPassword string `db:"hashed_password"`
	Timestamps
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type UserProfile struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Gender      Gender    `db:"gender"`
	DateOfBirth time.Time `db:"date_of_birth"`
	Info        string    `db:"info"`
	Avatar      string    `db:"avatar"`
	CreatedAt   time.Time `db:"created_at"`
}

// ActivationTokenTTL is how long an activation token stays usable
const ActivationTokenTTL = 24 * time.Hour

type ActivationToken struct {
	ID      int64     `db:"id"`
	UserID  int64     `db:"user_id"`
	Token   string    `db:"token"`
	Created time.Time `db:"created"`
}

// Expired reports whether the token is older than ActivationTokenTTL at now
func (t *ActivationToken) Expired(now time.Time) bool {
	return now.Sub(t.Created) > ActivationTokenTTL
}
