package database

import (
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
)

type ErrorClass int

const (
	ClassGeneric ErrorClass = iota
	ClassIntegrity
	ClassOperational
	ClassData
)

func (c ErrorClass) String() string {
	switch c {
	case ClassIntegrity:
		return "integrity"
	case ClassOperational:
		return "operational"
	case ClassData:
		return "data"
	default:
		return "generic"
	}
}

// Classify maps a driver error onto a coarse class using the SQLSTATE class
// (first two characters of the code).
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassGeneric
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		switch pgErr.Code[:2] {
		case "23":
			return ClassIntegrity
		case "22":
			return ClassData
		case "08", "53", "57", "58":
			return ClassOperational
		}
		return ClassGeneric
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.Timeout(err) {
		return ClassOperational
	}

	return ClassGeneric
}

// IsUniqueViolation reports a unique_violation (23505)
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ConstraintName returns the violated constraint of a driver error, or ""
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
