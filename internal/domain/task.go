package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnassignedName is the canonical display value for a task without an owner.
const UnassignedName = "unassigned"

// Common task validation errors
var (
	ErrEmptyTaskName       = errors.New("task name cannot be empty")
	ErrMissingDeadline     = errors.New("task deadline is required")
	ErrInvalidAssignedUser = errors.New("assignedUser must be empty or a valid user ID")
)

// Task represents a unit of work with a deadline, a completion flag and an
// optional single owning user.
//
// AssignedUser holds the owner's ID as a hex string, or "" when unowned.
// AssignedUserName is a denormalized copy of the owner's display name; it is
// server-owned and recomputed from the resolved owner on every write, never
// accepted verbatim from a caller when AssignedUser is set.
type Task struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"    json:"_id"`
	Name             string             `bson:"name"             json:"name"`
	Description      string             `bson:"description"      json:"description"`
	Deadline         time.Time          `bson:"deadline"         json:"deadline"`
	Completed        bool               `bson:"completed"        json:"completed"`
	AssignedUser     string             `bson:"assignedUser"     json:"assignedUser"`
	AssignedUserName string             `bson:"assignedUserName" json:"assignedUserName"`
	DateCreated      time.Time          `bson:"dateCreated"      json:"dateCreated"`
}

// NewTask creates an unassigned, incomplete Task with a fresh ID and the
// creation timestamp set. Returns an error if validation fails.
func NewTask(name, description string, deadline time.Time) (*Task, error) {
	task := &Task{
		ID:               primitive.NewObjectID(),
		Name:             name,
		Description:      description,
		Deadline:         deadline,
		AssignedUser:     "",
		AssignedUserName: UnassignedName,
		DateCreated:      time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if t.Deadline.IsZero() {
		return ErrMissingDeadline
	}

	if t.AssignedUser != "" {
		if _, err := primitive.ObjectIDFromHex(t.AssignedUser); err != nil {
			return ErrInvalidAssignedUser
		}
	}

	return nil
}

// Assigned reports whether the task currently names an owner.
func (t *Task) Assigned() bool {
	return t.AssignedUser != ""
}

// OwnerID returns the owner's ObjectID when the task is assigned.
// The second return is false for unassigned tasks or a malformed owner value.
func (t *Task) OwnerID() (primitive.ObjectID, bool) {
	if t.AssignedUser == "" {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(t.AssignedUser)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// ClearAssignment resets the task to the unowned state, restoring the
// "unassigned" display sentinel.
func (t *Task) ClearAssignment() {
	t.AssignedUser = ""
	t.AssignedUserName = UnassignedName
}

// AssignTo points the task at the given user and refreshes the denormalized
// name cache from the owner's current display name.
func (t *Task) AssignTo(userID primitive.ObjectID, userName string) {
	t.AssignedUser = userID.Hex()
	t.AssignedUserName = userName
}
