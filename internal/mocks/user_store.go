package mocks

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// FakeUserStore is an in-memory store.UserStore with the unique-email rule
// and the set-semantic pendingTasks primitives of the real store.
type FakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
	order []primitive.ObjectID

	// ForcedError, when set, is returned by every method.
	ForcedError error
}

// NewFakeUserStore creates an empty in-memory user store.
func NewFakeUserStore() *FakeUserStore {
	return &FakeUserStore{users: make(map[primitive.ObjectID]*domain.User)}
}

var _ store.UserStore = (*FakeUserStore)(nil)

func userDoc(u *domain.User) map[string]interface{} {
	pending := make([]primitive.ObjectID, len(u.PendingTasks))
	copy(pending, u.PendingTasks)
	return map[string]interface{}{
		"_id":          u.ID,
		"name":         u.Name,
		"email":        u.Email,
		"pendingTasks": pending,
		"dateCreated":  u.DateCreated,
	}
}

func (s *FakeUserStore) emailTaken(email string, except primitive.ObjectID) bool {
	for id, user := range s.users {
		if id != except && user.Email == email {
			return true
		}
	}
	return false
}

// Create implements store.UserStore.Create.
func (s *FakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(user.Email, user.ID) {
		return fmt.Errorf("%w: %s", store.ErrEmailExists, user.Email)
	}
	copied := *user
	copied.PendingTasks = append([]primitive.ObjectID(nil), user.PendingTasks...)
	s.users[user.ID] = &copied
	s.order = append(s.order, user.ID)
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *FakeUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	if s.ForcedError != nil {
		return nil, s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	copied.PendingTasks = append([]primitive.ObjectID(nil), user.PendingTasks...)
	return &copied, nil
}

// FindOne implements store.UserStore.FindOne.
func (s *FakeUserStore) FindOne(ctx context.Context, id primitive.ObjectID, sel store.Projection) (map[string]interface{}, error) {
	if s.ForcedError != nil {
		return nil, s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return applyProjection(userDoc(user), sel), nil
}

// Find implements store.UserStore.Find.
func (s *FakeUserStore) Find(ctx context.Context, q store.ListQuery) ([]map[string]interface{}, error) {
	if s.ForcedError != nil {
		return nil, s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := []map[string]interface{}{}
	for _, id := range s.order {
		user, ok := s.users[id]
		if !ok {
			continue
		}
		doc := userDoc(user)
		if q.Where == nil || matches(doc, q.Where) {
			filtered = append(filtered, doc)
		}
	}
	return shape(filtered, q), nil
}

// Count implements store.UserStore.Count.
func (s *FakeUserStore) Count(ctx context.Context, where map[string]interface{}) (int64, error) {
	if s.ForcedError != nil {
		return 0, s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, user := range s.users {
		if where == nil || matches(userDoc(user), where) {
			n++
		}
	}
	return n, nil
}

// Replace implements store.UserStore.Replace.
func (s *FakeUserStore) Replace(ctx context.Context, user *domain.User) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	if s.emailTaken(user.Email, user.ID) {
		return fmt.Errorf("%w: %s", store.ErrEmailExists, user.Email)
	}
	copied := *user
	copied.PendingTasks = append([]primitive.ObjectID(nil), user.PendingTasks...)
	s.users[user.ID] = &copied
	return nil
}

// Delete implements store.UserStore.Delete.
func (s *FakeUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

// AddPendingTask implements store.UserStore.AddPendingTask with the
// $ne-guard semantics: a present entry is never appended again.
func (s *FakeUserStore) AddPendingTask(ctx context.Context, userID, taskID primitive.ObjectID) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return nil
	}
	for _, id := range user.PendingTasks {
		if id == taskID {
			return nil
		}
	}
	user.PendingTasks = append(user.PendingTasks, taskID)
	return nil
}

// RemovePendingTask implements store.UserStore.RemovePendingTask.
func (s *FakeUserStore) RemovePendingTask(ctx context.Context, userID, taskID primitive.ObjectID) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[userID]; ok {
		user.PendingTasks = removeID(user.PendingTasks, taskID)
	}
	return nil
}

// RemovePendingTaskAll implements store.UserStore.RemovePendingTaskAll.
func (s *FakeUserStore) RemovePendingTaskAll(ctx context.Context, taskID primitive.ObjectID) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		user.PendingTasks = removeID(user.PendingTasks, taskID)
	}
	return nil
}

func removeID(ids []primitive.ObjectID, target primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
