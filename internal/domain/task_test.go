package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewTask(t *testing.T) {
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	task, err := NewTask("Write report", "quarterly numbers", deadline)
	require.NoError(t, err)

	assert.False(t, task.ID.IsZero())
	assert.Equal(t, "Write report", task.Name)
	assert.Equal(t, deadline, task.Deadline)
	assert.False(t, task.Completed)
	assert.Equal(t, "", task.AssignedUser)
	assert.Equal(t, UnassignedName, task.AssignedUserName)
	assert.False(t, task.DateCreated.IsZero())
}

func TestTaskValidate(t *testing.T) {
	deadline := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		task    Task
		wantErr error
	}{
		{
			name:    "valid unassigned task",
			task:    Task{Name: "a", Deadline: deadline},
			wantErr: nil,
		},
		{
			name:    "valid assigned task",
			task:    Task{Name: "a", Deadline: deadline, AssignedUser: primitive.NewObjectID().Hex()},
			wantErr: nil,
		},
		{
			name:    "empty name",
			task:    Task{Deadline: deadline},
			wantErr: ErrEmptyTaskName,
		},
		{
			name:    "missing deadline",
			task:    Task{Name: "a"},
			wantErr: ErrMissingDeadline,
		},
		{
			name:    "malformed assigned user",
			task:    Task{Name: "a", Deadline: deadline, AssignedUser: "not-an-id"},
			wantErr: ErrInvalidAssignedUser,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.task.Validate()
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskOwnerID(t *testing.T) {
	ownerID := primitive.NewObjectID()

	task := Task{Name: "a", AssignedUser: ownerID.Hex()}
	got, ok := task.OwnerID()
	require.True(t, ok)
	assert.Equal(t, ownerID, got)

	task.ClearAssignment()
	_, ok = task.OwnerID()
	assert.False(t, ok)
	assert.Equal(t, UnassignedName, task.AssignedUserName)
}

func TestTaskAssignTo(t *testing.T) {
	ownerID := primitive.NewObjectID()

	var task Task
	task.AssignTo(ownerID, "Amy")

	assert.True(t, task.Assigned())
	assert.Equal(t, ownerID.Hex(), task.AssignedUser)
	assert.Equal(t, "Amy", task.AssignedUserName)
}
