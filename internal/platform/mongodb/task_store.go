package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tasknest/tasknest-api/internal/domain"
	"github.com/tasknest/tasknest-api/internal/store"
)

// MongoTaskStore implements the store.TaskStore interface using a MongoDB
// collection as the storage backend.
type MongoTaskStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoTaskStore creates a new MongoDB implementation of the TaskStore
// interface. If logger is nil, the default logger is used.
func NewMongoTaskStore(db *mongo.Database, logger *slog.Logger) *MongoTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoTaskStore{
		coll:   db.Collection(TaskCollection),
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure MongoTaskStore implements store.TaskStore
var _ store.TaskStore = (*MongoTaskStore)(nil)

// Create implements store.TaskStore.Create.
func (s *MongoTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if _, err := s.coll.InsertOne(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.Hex()))
		return MapError(err)
	}

	s.logger.Debug("task created", slog.String("task_id", task.ID.Hex()))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *MongoTaskStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Task, error) {
	var task domain.Task
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrTaskNotFound
		}
		s.logger.Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.Hex()))
		return nil, MapError(err)
	}
	return &task, nil
}

// FindOne implements store.TaskStore.FindOne.
func (s *MongoTaskStore) FindOne(ctx context.Context, id primitive.ObjectID, sel store.Projection) (map[string]interface{}, error) {
	opts := options.FindOne()
	if len(sel) > 0 {
		opts.SetProjection(projectionDoc(sel))
	}

	var doc map[string]interface{}
	err := s.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}
	return doc, nil
}

// Find implements store.TaskStore.Find.
func (s *MongoTaskStore) Find(ctx context.Context, q store.ListQuery) ([]map[string]interface{}, error) {
	cursor, err := s.coll.Find(ctx, NormalizeFilter(q.Where), findOptions(q))
	if err != nil {
		s.logger.Error("task query failed", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	docs := []map[string]interface{}{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, MapError(err)
	}
	return docs, nil
}

// Count implements store.TaskStore.Count.
func (s *MongoTaskStore) Count(ctx context.Context, where map[string]interface{}) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, NormalizeFilter(where))
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// Replace implements store.TaskStore.Replace.
func (s *MongoTaskStore) Replace(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		s.logger.Error("failed to replace task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.Hex()))
		return MapError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

// Delete implements store.TaskStore.Delete.
func (s *MongoTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.Hex()))
		return MapError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrTaskNotFound
	}

	s.logger.Debug("task deleted", slog.String("task_id", id.Hex()))
	return nil
}

// AssignToUser implements store.TaskStore.AssignToUser.
// One atomic filtered multi-update; claiming always wins over the tasks'
// previous owners, and completed is forced back to false.
func (s *MongoTaskStore) AssignToUser(ctx context.Context, ids []primitive.ObjectID, userID primitive.ObjectID, userName string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := s.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{
			"assignedUser":     userID.Hex(),
			"assignedUserName": userName,
			"completed":        false,
		}},
	)
	if err != nil {
		s.logger.Error("failed to assign tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.Hex()),
			slog.Int("task_count", len(ids)))
		return MapError(err)
	}
	return nil
}

// UnassignFromUser implements store.TaskStore.UnassignFromUser.
// The assignedUser guard in the filter leaves tasks alone that a concurrent
// writer already claimed for someone else.
func (s *MongoTaskStore) UnassignFromUser(ctx context.Context, ids []primitive.ObjectID, userID primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := s.coll.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}, "assignedUser": userID.Hex()},
		unassignUpdate,
	)
	if err != nil {
		s.logger.Error("failed to unassign tasks from user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.Hex()),
			slog.Int("task_count", len(ids)))
		return MapError(err)
	}
	return nil
}

// Unassign implements store.TaskStore.Unassign.
func (s *MongoTaskStore) Unassign(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := s.coll.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, unassignUpdate)
	if err != nil {
		s.logger.Error("failed to unassign tasks",
			slog.String("error", err.Error()),
			slog.Int("task_count", len(ids)))
		return MapError(err)
	}
	return nil
}

// unassignUpdate restores a task's assignment fields to the unowned state.
var unassignUpdate = bson.M{"$set": bson.M{
	"assignedUser":     "",
	"assignedUserName": domain.UnassignedName,
}}
