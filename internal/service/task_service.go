package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// TaskInput carries the caller-supplied fields for a task create or replace.
// AssignedUser is the owner's ID as a hex string, or "" for unowned; the
// denormalized owner name is never taken from the caller, it is recomputed
// from the resolved owner.
type TaskInput struct {
	Name         string
	Description  string
	Deadline     time.Time
	Completed    bool
	AssignedUser string
}

// TaskService orchestrates task mutations: validation, the primary write,
// then reconciliation of the users collection through the Reconciler.
type TaskService struct {
	tasks  store.TaskStore
	users  store.UserStore
	sync   *Reconciler
	logger *slog.Logger
}

// NewTaskService creates a TaskService.
// If logger is nil, the default logger is used.
func NewTaskService(tasks store.TaskStore, users store.UserStore, sync *Reconciler, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		tasks:  tasks,
		users:  users,
		sync:   sync,
		logger: logger.With(slog.String("component", "task_service")),
	}
}

// resolveAssignedUser validates a non-empty assignedUser value and returns
// the owning user. A malformed ID or a missing user is a validation failure;
// it must be rejected before any state change is committed.
func (s *TaskService) resolveAssignedUser(ctx context.Context, assignedUser string) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(assignedUser)
	if err != nil {
		return nil, ErrAssignedUserNotFound
	}

	owner, err := s.users.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrAssignedUserNotFound
		}
		return nil, err
	}
	return owner, nil
}

// Create validates and inserts a new task, then reconciles the owner's
// pendingTasks.
func (s *TaskService) Create(ctx context.Context, in TaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(in.Name, in.Description, in.Deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	task.Completed = in.Completed

	if in.AssignedUser != "" {
		owner, err := s.resolveAssignedUser(ctx, in.AssignedUser)
		if err != nil {
			return nil, err
		}
		task.AssignTo(owner.ID, owner.Name)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	if err := s.sync.SyncTaskAssignment(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task created",
		slog.String("task_id", task.ID.Hex()),
		slog.String("assigned_user", task.AssignedUser))
	return task, nil
}

// Update replaces an existing task's fields, then reconciles pendingTasks.
// On reassignment the previous owner's pull is issued before the new
// owner's push.
func (s *TaskService) Update(ctx context.Context, id primitive.ObjectID, in TaskInput) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ownerName := domain.UnassignedName
	if in.AssignedUser != "" {
		owner, err := s.resolveAssignedUser(ctx, in.AssignedUser)
		if err != nil {
			return nil, err
		}
		ownerName = owner.Name
	}

	if err := s.sync.DetachFromPreviousOwner(ctx, task, in.AssignedUser); err != nil {
		return nil, err
	}

	task.Name = in.Name
	task.Description = in.Description
	task.Deadline = in.Deadline
	task.Completed = in.Completed
	task.AssignedUser = in.AssignedUser
	task.AssignedUserName = ownerName

	if err := s.tasks.Replace(ctx, task); err != nil {
		return nil, err
	}

	if err := s.sync.SyncTaskAssignment(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("task updated",
		slog.String("task_id", task.ID.Hex()),
		slog.String("assigned_user", task.AssignedUser),
		slog.Bool("completed", task.Completed))
	return task, nil
}

// Delete removes a task and strips its ID from its owner's pendingTasks.
// The pull runs first so a failure between the two steps leaves at worst a
// missing list entry, never a dangling one.
func (s *TaskService) Delete(ctx context.Context, id primitive.ObjectID) error {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.sync.TaskDeleted(ctx, task); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("task deleted", slog.String("task_id", id.Hex()))
	return nil
}
