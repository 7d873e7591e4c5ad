package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Plain CRUD methods operate on whole documents. The reconciliation
// primitives (AssignToUser, UnassignFromUser, Unassign) each execute as a
// single atomic filtered multi-update against the store; the reconciliation
// layer composes them into idempotent sequences and relies on that atomicity
// instead of cross-collection transactions.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Task, error)

	// FindOne retrieves a task as a raw document, shaped by the projection.
	// Returns ErrTaskNotFound if the task does not exist.
	FindOne(ctx context.Context, id primitive.ObjectID, sel Projection) (map[string]interface{}, error)

	// Find executes a list query and returns the matching raw documents,
	// shaped by the query's projection.
	Find(ctx context.Context, q ListQuery) ([]map[string]interface{}, error)

	// Count returns the number of tasks matching the predicate.
	Count(ctx context.Context, where map[string]interface{}) (int64, error)

	// Replace overwrites the stored task identified by task.ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Replace(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id primitive.ObjectID) error

	// AssignToUser points every task in ids at the given owner: assignedUser
	// and assignedUserName are set and completed is forced to false.
	// Claiming is unconditional; whatever the tasks pointed at before loses.
	AssignToUser(ctx context.Context, ids []primitive.ObjectID, userID primitive.ObjectID, userName string) error

	// UnassignFromUser clears the assignment fields of every task in ids
	// that still belongs to userID. Tasks already reassigned elsewhere by a
	// concurrent writer are left alone.
	UnassignFromUser(ctx context.Context, ids []primitive.ObjectID, userID primitive.ObjectID) error

	// Unassign unconditionally clears the assignment fields of every task
	// in ids, restoring the "unassigned" display sentinel.
	Unassign(ctx context.Context, ids []primitive.ObjectID) error
}
