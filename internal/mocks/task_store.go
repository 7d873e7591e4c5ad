package mocks

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// FakeTaskStore is an in-memory store.TaskStore.
type FakeTaskStore struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]*domain.Task
	order []primitive.ObjectID

	// ForcedError, when set, is returned by every method. Used to exercise
	// store-failure propagation.
	ForcedError error
}

// NewFakeTaskStore creates an empty in-memory task store.
func NewFakeTaskStore() *FakeTaskStore {
	return &FakeTaskStore{tasks: make(map[primitive.ObjectID]*domain.Task)}
}

var _ store.TaskStore = (*FakeTaskStore)(nil)

func taskDoc(t *domain.Task) map[string]interface{} {
	return map[string]interface{}{
		"_id":              t.ID,
		"name":             t.Name,
		"description":      t.Description,
		"deadline":         t.Deadline,
		"completed":        t.Completed,
		"assignedUser":     t.AssignedUser,
		"assignedUserName": t.AssignedUserName,
		"dateCreated":      t.DateCreated,
	}
}

// Create implements store.TaskStore.Create.
func (s *FakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *task
	s.tasks[task.ID] = &copied
	s.order = append(s.order, task.ID)
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *FakeTaskStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	if s.ForcedError != nil {
		return nil, s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// FindOne implements store.TaskStore.FindOne.
func (s *FakeTaskStore) FindOne(ctx context.Context, id primitive.ObjectID, sel store.Projection) (map[string]interface{}, error) {
	if s.ForcedError != nil {
		return nil, s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return applyProjection(taskDoc(task), sel), nil
}

// Find implements store.TaskStore.Find.
func (s *FakeTaskStore) Find(ctx context.Context, q store.ListQuery) ([]map[string]interface{}, error) {
	if s.ForcedError != nil {
		return nil, s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := []map[string]interface{}{}
	for _, id := range s.order {
		task, ok := s.tasks[id]
		if !ok {
			continue
		}
		doc := taskDoc(task)
		if q.Where == nil || matches(doc, q.Where) {
			filtered = append(filtered, doc)
		}
	}
	return shape(filtered, q), nil
}

// Count implements store.TaskStore.Count.
func (s *FakeTaskStore) Count(ctx context.Context, where map[string]interface{}) (int64, error) {
	if s.ForcedError != nil {
		return 0, s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, task := range s.tasks {
		if where == nil || matches(taskDoc(task), where) {
			n++
		}
	}
	return n, nil
}

// Replace implements store.TaskStore.Replace.
func (s *FakeTaskStore) Replace(ctx context.Context, task *domain.Task) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *FakeTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

// AssignToUser implements store.TaskStore.AssignToUser.
func (s *FakeTaskStore) AssignToUser(ctx context.Context, ids []primitive.ObjectID, userID primitive.ObjectID, userName string) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if task, ok := s.tasks[id]; ok {
			task.AssignedUser = userID.Hex()
			task.AssignedUserName = userName
			task.Completed = false
		}
	}
	return nil
}

// UnassignFromUser implements store.TaskStore.UnassignFromUser.
func (s *FakeTaskStore) UnassignFromUser(ctx context.Context, ids []primitive.ObjectID, userID primitive.ObjectID) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if task, ok := s.tasks[id]; ok && task.AssignedUser == userID.Hex() {
			task.ClearAssignment()
		}
	}
	return nil
}

// Unassign implements store.TaskStore.Unassign.
func (s *FakeTaskStore) Unassign(ctx context.Context, ids []primitive.ObjectID) error {
	if s.ForcedError != nil {
		return s.ForcedError
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if task, ok := s.tasks[id]; ok {
			task.ClearAssignment()
		}
	}
	return nil
}
