package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

func newTaskService(f *syncFixture) *TaskService {
	return NewTaskService(f.tasks, f.users, f.sync, nil)
}

func taskInput(name string) TaskInput {
	return TaskInput{
		Name:     name,
		Deadline: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestTaskServiceCreateUnassigned(t *testing.T) {
	f := newSyncFixture()
	svc := newTaskService(f)

	task, err := svc.Create(context.Background(), taskInput("Write report"))
	require.NoError(t, err)

	assert.False(t, task.ID.IsZero())
	assert.Equal(t, "", task.AssignedUser)
	assert.Equal(t, domain.UnassignedName, task.AssignedUserName)
	assert.False(t, task.Completed)
	assert.False(t, task.DateCreated.IsZero())
}

func TestTaskServiceCreateAssigned(t *testing.T) {
	f := newSyncFixture()
	svc := newTaskService(f)
	amy := f.addUser(t, "Amy", "amy@x.com")

	in := taskInput("Write report")
	in.AssignedUser = amy.ID.Hex()
	task, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, amy.ID.Hex(), task.AssignedUser)
	assert.Equal(t, "Amy", task.AssignedUserName, "owner name is resolved, never caller-supplied")
	assert.Equal(t, []primitive.ObjectID{task.ID}, f.pending(t, amy.ID))
}

func TestTaskServiceCreateValidation(t *testing.T) {
	f := newSyncFixture()
	svc := newTaskService(f)

	tests := []struct {
		name string
		in   TaskInput
	}{
		{"empty name", TaskInput{Deadline: time.Now()}},
		{"missing deadline", TaskInput{Name: "x"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.in)
			assert.True(t, IsValidationError(err), "got %v", err)
		})
	}
}

// Creating a task assigned to a nonexistent (or malformed) user is rejected
// before anything is written.
func TestTaskServiceCreateUnknownOwner(t *testing.T) {
	f := newSyncFixture()
	svc := newTaskService(f)

	for _, assigned := range []string{primitive.NewObjectID().Hex(), "not-hex"} {
		in := taskInput("Write report")
		in.AssignedUser = assigned
		_, err := svc.Create(context.Background(), in)
		assert.ErrorIs(t, err, ErrAssignedUserNotFound)
	}

	n, err := f.tasks.Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n, "rejected creates must not persist")
}

func TestTaskServiceUpdateCompletionToggle(t *testing.T) {
	f := newSyncFixture()
	svc := newTaskService(f)
	amy := f.addUser(t, "Amy", "amy@x.com")

	in := taskInput("Write report")
	in.AssignedUser = amy.ID.Hex()
	task, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	in.Completed = true
	updated, err := svc.Update(context.Background(), task.ID, in)
	require.NoError(t, err)

	assert.True(t, updated.Completed)
	assert.Equal(t, amy.ID.Hex(), updated.AssignedUser, "completion does not unassign")
	assert.Empty(t, f.pending(t, amy.ID), "completed tasks leave the pending list")

	in.Completed = false
	_, err = svc.Update(context.Background(), task.ID, in)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{task.ID}, f.pending(t, amy.ID))
}

func TestTaskServiceUpdateReassigns(t *testing.T) {
	f := newSyncFixture()
	svc := newTaskService(f)
	amy := f.addUser(t, "Amy", "amy@x.com")
	bob := f.addUser(t, "Bob", "bob@x.com")

	in := taskInput("Write report")
	in.AssignedUser = amy.ID.Hex()
	task, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	in.AssignedUser = bob.ID.Hex()
	updated, err := svc.Update(context.Background(), task.ID, in)
	require.NoError(t, err)

	assert.Equal(t, bob.ID.Hex(), updated.AssignedUser)
	assert.Equal(t, "Bob", updated.AssignedUserName)
	assert.Empty(t, f.pending(t, amy.ID))
	assert.Equal(t, []primitive.ObjectID{task.ID}, f.pending(t, bob.ID))
}

func TestTaskServiceUpdateUnassigns(t *testing.T) {
	f := newSyncFixture()
	svc := newTaskService(f)
	amy := f.addUser(t, "Amy", "amy@x.com")

	in := taskInput("Write report")
	in.AssignedUser = amy.ID.Hex()
	task, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	in.AssignedUser = ""
	updated, err := svc.Update(context.Background(), task.ID, in)
	require.NoError(t, err)

	assert.Equal(t, "", updated.AssignedUser)
	assert.Equal(t, domain.UnassignedName, updated.AssignedUserName)
	assert.Empty(t, f.pending(t, amy.ID))
}

func TestTaskServiceUpdateNotFound(t *testing.T) {
	f := newSyncFixture()
	svc := newTaskService(f)

	_, err := svc.Update(context.Background(), primitive.NewObjectID(), taskInput("x"))
	assert.True(t, store.IsNotFoundError(err))
}

func TestTaskServiceDelete(t *testing.T) {
	f := newSyncFixture()
	svc := newTaskService(f)
	amy := f.addUser(t, "Amy", "amy@x.com")

	in := taskInput("Write report")
	in.AssignedUser = amy.ID.Hex()
	task, err := svc.Create(context.Background(), in)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), task.ID))

	_, err = f.tasks.GetByID(context.Background(), task.ID)
	assert.True(t, store.IsNotFoundError(err))
	assert.Empty(t, f.pending(t, amy.ID), "delete cleans up the owner's list")
}

func TestTaskServiceDeleteNotFound(t *testing.T) {
	f := newSyncFixture()
	svc := newTaskService(f)

	err := svc.Delete(context.Background(), primitive.NewObjectID())
	assert.True(t, store.IsNotFoundError(err))
}
