package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("Amy", "  Amy@X.COM ")
	require.NoError(t, err)

	assert.False(t, user.ID.IsZero())
	assert.Equal(t, "Amy", user.Name)
	assert.Equal(t, "amy@x.com", user.Email, "email should be trimmed and lowercased")
	assert.NotNil(t, user.PendingTasks)
	assert.Empty(t, user.PendingTasks)
	assert.False(t, user.DateCreated.IsZero())
}

func TestUserValidate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr error
	}{
		{
			name: "valid user",
			user: User{Name: "Amy", Email: "amy@x.com"},
		},
		{
			name:    "empty name",
			user:    User{Email: "amy@x.com"},
			wantErr: ErrEmptyUserName,
		},
		{
			name:    "empty email",
			user:    User{Name: "Amy"},
			wantErr: ErrEmptyEmail,
		},
		{
			name:    "email without at sign",
			user:    User{Name: "Amy", Email: "amy.x.com"},
			wantErr: ErrInvalidEmail,
		},
		{
			name:    "email with trailing at sign",
			user:    User{Name: "Amy", Email: "amy@"},
			wantErr: ErrInvalidEmail,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserHasPendingTask(t *testing.T) {
	taskID := primitive.NewObjectID()
	user := User{PendingTasks: []primitive.ObjectID{taskID}}

	assert.True(t, user.HasPendingTask(taskID))
	assert.False(t, user.HasPendingTask(primitive.NewObjectID()))
}
