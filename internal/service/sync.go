package service

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// Reconciler restores the cross-collection invariants after a mutation to
// either collection: a task's assignedUser and its owner's pendingTasks stay
// mutually consistent without cross-collection transactions.
//
// Every step is a single atomic filtered update, idempotent and set-semantic
// (guarded push, unconditional pull), so re-running a step or interleaving
// with a concurrent conflicting request converges instead of corrupting
// state. A failed step leaves a transient inconsistency that the next write
// touching either entity repairs; no rollback is attempted.
type Reconciler struct {
	tasks  store.TaskStore
	users  store.UserStore
	logger *slog.Logger
}

// NewReconciler creates a Reconciler over the given stores.
// If logger is nil, the default logger is used.
func NewReconciler(tasks store.TaskStore, users store.UserStore, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		tasks:  tasks,
		users:  users,
		logger: logger.With(slog.String("component", "reconciler")),
	}
}

// SyncTaskAssignment reconciles pendingTasks after a task create or replace.
//
// Unowned task: its ID is pulled from every user's list (defensive cleanup;
// normally already absent). Owned task: the ID is pushed to the owner's list
// when incomplete, pulled when completed. If the owner vanished between the
// caller's validation and this step, the task's assignment fields are
// cleared instead of leaving a dangling reference.
//
// Callers must reject assignment to a nonexistent user before committing the
// task; this method only reconciles already-accepted state.
func (r *Reconciler) SyncTaskAssignment(ctx context.Context, task *domain.Task) error {
	ownerID, ok := task.OwnerID()
	if !ok {
		return r.users.RemovePendingTaskAll(ctx, task.ID)
	}

	owner, err := r.users.GetByID(ctx, ownerID)
	if err != nil {
		if store.IsNotFoundError(err) {
			r.logger.Warn("assigned user vanished before reconciliation, clearing assignment",
				slog.String("task_id", task.ID.Hex()),
				slog.String("user_id", ownerID.Hex()))
			task.ClearAssignment()
			return r.tasks.Replace(ctx, task)
		}
		return err
	}

	if task.Completed {
		return r.users.RemovePendingTask(ctx, owner.ID, task.ID)
	}
	return r.users.AddPendingTask(ctx, owner.ID, task.ID)
}

// DetachFromPreviousOwner pulls the task from its current owner's list when
// a replacement is about to point it elsewhere (or at nobody). Issued before
// the new owner's push to keep the inconsistency window minimal.
func (r *Reconciler) DetachFromPreviousOwner(ctx context.Context, task *domain.Task, newAssignedUser string) error {
	if task.AssignedUser == "" || task.AssignedUser == newAssignedUser {
		return nil
	}

	prevOwner, ok := task.OwnerID()
	if !ok {
		// Malformed stored owner value; nothing to pull from.
		return nil
	}
	return r.users.RemovePendingTask(ctx, prevOwner, task.ID)
}

// TaskDeleted strips the deleted task's ID from its owner's pendingTasks.
// The owner is taken from the task record itself, so a single filtered pull
// suffices; tasks without an owner need no cleanup here.
func (r *Reconciler) TaskDeleted(ctx context.Context, task *domain.Task) error {
	ownerID, ok := task.OwnerID()
	if !ok {
		return nil
	}
	return r.users.RemovePendingTask(ctx, ownerID, task.ID)
}

// ClaimSeededTasks makes a newly created user the authoritative owner of
// every task in its seeded pendingTasks: assignedUser and assignedUserName
// are forced to the new user and completed back to false, in one filtered
// multi-update. A user cannot be seeded with tasks it is not assigned.
func (r *Reconciler) ClaimSeededTasks(ctx context.Context, user *domain.User) error {
	return r.tasks.AssignToUser(ctx, user.PendingTasks, user.ID, user.Name)
}

// ApplyPendingDiff reconciles tasks after a user replacement changed the
// pendingTasks list. IDs removed from the list are released only where the
// task still belongs to this user (a concurrent reassignment wins); IDs
// added are claimed unconditionally, matching the create-seed semantics.
// The two sets are disjoint by construction, so "added wins over removed"
// never needs a tie-break.
func (r *Reconciler) ApplyPendingDiff(ctx context.Context, user *domain.User, newPending []primitive.ObjectID, newName string) error {
	oldSet := make(map[primitive.ObjectID]bool, len(user.PendingTasks))
	for _, id := range user.PendingTasks {
		oldSet[id] = true
	}
	newSet := make(map[primitive.ObjectID]bool, len(newPending))
	for _, id := range newPending {
		newSet[id] = true
	}

	var toRelease []primitive.ObjectID
	for _, id := range user.PendingTasks {
		if !newSet[id] {
			toRelease = append(toRelease, id)
		}
	}
	var toClaim []primitive.ObjectID
	for _, id := range newPending {
		if !oldSet[id] {
			toClaim = append(toClaim, id)
		}
	}

	if err := r.tasks.UnassignFromUser(ctx, toRelease, user.ID); err != nil {
		return err
	}
	if err := r.tasks.AssignToUser(ctx, toClaim, user.ID, newName); err != nil {
		return err
	}

	if len(toRelease) > 0 || len(toClaim) > 0 {
		r.logger.Debug("reconciled pending task diff",
			slog.String("user_id", user.ID.Hex()),
			slog.Int("released", len(toRelease)),
			slog.Int("claimed", len(toClaim)))
	}
	return nil
}

// UserDeleted clears the assignment fields of every task the deleted user
// held, in one atomic filtered multi-update, so no task is left pointing at
// a user that no longer exists.
func (r *Reconciler) UserDeleted(ctx context.Context, user *domain.User) error {
	return r.tasks.Unassign(ctx, user.PendingTasks)
}
