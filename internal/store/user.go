package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
//
// AddPendingTask, RemovePendingTask and RemovePendingTaskAll are the atomic
// set-semantic primitives the reconciliation layer is built on: the guarded
// push can never introduce a duplicate, and the pulls are no-ops when the
// entry is already gone, so any reconciliation step can be re-run safely.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)

	// FindOne retrieves a user as a raw document, shaped by the projection.
	// Returns ErrUserNotFound if the user does not exist.
	FindOne(ctx context.Context, id primitive.ObjectID, sel Projection) (map[string]interface{}, error)

	// Find executes a list query and returns the matching raw documents,
	// shaped by the query's projection.
	Find(ctx context.Context, q ListQuery) ([]map[string]interface{}, error)

	// Count returns the number of users matching the predicate.
	Count(ctx context.Context, where map[string]interface{}) (int64, error)

	// Replace overwrites the stored user identified by user.ID.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Replace(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// AddPendingTask appends taskID to the user's pendingTasks, guarded so
	// that an entry already present is not appended again.
	AddPendingTask(ctx context.Context, userID, taskID primitive.ObjectID) error

	// RemovePendingTask pulls taskID from the given user's pendingTasks.
	// Removing an absent entry is a no-op, not an error.
	RemovePendingTask(ctx context.Context, userID, taskID primitive.ObjectID) error

	// RemovePendingTaskAll pulls taskID from every user's pendingTasks.
	// Used as defensive cleanup when a task loses its owner.
	RemovePendingTaskAll(ctx context.Context, taskID primitive.ObjectID) error
}
