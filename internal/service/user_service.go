package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// UserInput carries the caller-supplied fields for a user create or replace.
// PendingTasks holds task IDs as hex strings.
type UserInput struct {
	Name         string
	Email        string
	PendingTasks []string
}

// UserService orchestrates user mutations: validation, the primary write,
// then reconciliation of the tasks collection through the Reconciler.
type UserService struct {
	users  store.UserStore
	sync   *Reconciler
	logger *slog.Logger
}

// NewUserService creates a UserService.
// If logger is nil, the default logger is used.
func NewUserService(users store.UserStore, sync *Reconciler, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		users:  users,
		sync:   sync,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

// parsePendingTasks converts hex IDs to ObjectIDs, dropping duplicates while
// preserving order (pendingTasks never holds the same task twice).
// A malformed entry is a validation failure.
func parsePendingTasks(raw []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(raw))
	seen := make(map[primitive.ObjectID]bool, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTaskID, s)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// Create validates and inserts a new user. A seeded pendingTasks list makes
// the new user the authoritative owner of those tasks: they are claimed in
// one filtered multi-update after the insert.
func (s *UserService) Create(ctx context.Context, in UserInput) (*domain.User, error) {
	user, err := domain.NewUser(in.Name, in.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	seed, err := parsePendingTasks(in.PendingTasks)
	if err != nil {
		return nil, err
	}
	user.PendingTasks = seed

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if len(seed) > 0 {
		if err := s.sync.ClaimSeededTasks(ctx, user); err != nil {
			return nil, err
		}
	}

	s.logger.Info("user created",
		slog.String("user_id", user.ID.Hex()),
		slog.Int("seeded_tasks", len(seed)))
	return user, nil
}

// Update replaces an existing user's fields. Tasks dropped from the
// pendingTasks list are released (only where still owned by this user);
// tasks added are claimed unconditionally, under the possibly-new name.
func (s *UserService) Update(ctx context.Context, id primitive.ObjectID, in UserInput) (*domain.User, error) {
	newPending, err := parsePendingTasks(in.PendingTasks)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	replacement := *user
	replacement.Name = in.Name
	replacement.Email = domain.NormalizeEmail(in.Email)
	replacement.PendingTasks = newPending

	// Reject before touching either collection; reconciliation only ever
	// runs for an already-accepted state change.
	if err := replacement.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.sync.ApplyPendingDiff(ctx, user, newPending, in.Name); err != nil {
		return nil, err
	}

	if err := s.users.Replace(ctx, &replacement); err != nil {
		return nil, err
	}

	user = &replacement

	s.logger.Info("user updated", slog.String("user_id", user.ID.Hex()))
	return user, nil
}

// Delete removes a user and clears the assignment fields of every task it
// held. The cascade runs before the delete so a failure between the two
// steps cannot leave tasks pointing at a user that is already gone.
func (s *UserService) Delete(ctx context.Context, id primitive.ObjectID) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.sync.UserDeleted(ctx, user); err != nil {
		return err
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("user deleted",
		slog.String("user_id", id.Hex()),
		slog.Int("released_tasks", len(user.PendingTasks)))
	return nil
}
