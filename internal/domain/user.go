package domain

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Common user validation errors
var (
	ErrEmptyUserName = errors.New("user name cannot be empty")
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrInvalidEmail  = errors.New("invalid email format")
)

// User represents an actor who may own zero or more incomplete tasks.
//
// PendingTasks is the derived list of task IDs currently assigned to this user
// and not completed. It is maintained by the reconciliation layer as a side
// effect of task and user mutations; it never contains duplicates.
type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name         string               `bson:"name"          json:"name"`
	Email        string               `bson:"email"         json:"email"`
	PendingTasks []primitive.ObjectID `bson:"pendingTasks"  json:"pendingTasks"`
	DateCreated  time.Time            `bson:"dateCreated"   json:"dateCreated"`
}

// NewUser creates a new User with the given name and email.
// The email is normalized (trimmed, lowercased) before validation, matching
// the store's case-insensitive uniqueness rule.
func NewUser(name, email string) (*User, error) {
	user := &User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        NormalizeEmail(email),
		PendingTasks: []primitive.ObjectID{},
		DateCreated:  time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims surrounding whitespace and lowercases the address so
// that uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrEmptyUserName
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	at := strings.IndexByte(u.Email, '@')
	if at <= 0 || at == len(u.Email)-1 {
		return ErrInvalidEmail
	}

	return nil
}

// HasPendingTask reports whether the given task ID is already in the user's
// pending list.
func (u *User) HasPendingTask(taskID primitive.ObjectID) bool {
	for _, id := range u.PendingTasks {
		if id == taskID {
			return true
		}
	}
	return false
}
