package mongodb

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tasknest/tasknest-api/internal/store"
)

// MapError maps a driver error to the store's sentinel errors.
// It wraps the original error to preserve context for debugging.
// Errors without a specific mapping propagate unchanged as store failures.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	}

	return err
}
