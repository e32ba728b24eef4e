package importer

import (
	"errors"
	"fmt"

	"movie-catalog/pkg/database"
)

// Every failure of a load or clean wraps ErrImport; the database ones
// additionally wrap one of the category errors.
var (
	ErrImport      = errors.New("import failed")
	ErrIntegrity   = fmt.Errorf("%w: integrity error", ErrImport)
	ErrOperational = fmt.Errorf("%w: operational error", ErrImport)
	ErrData        = fmt.Errorf("%w: data error", ErrImport)
)

func categorize(err error) error {
	if err == nil {
		return nil
	}
	switch database.Classify(err) {
	case database.ClassIntegrity:
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	case database.ClassOperational:
		return fmt.Errorf("%w: %w", ErrOperational, err)
	case database.ClassData:
		return fmt.Errorf("%w: %w", ErrData, err)
	default:
		return fmt.Errorf("%w: %w", ErrImport, err)
	}
}
