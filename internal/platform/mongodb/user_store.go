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

// MongoUserStore implements the store.UserStore interface using a MongoDB
// collection as the storage backend.
type MongoUserStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewMongoUserStore creates a new MongoDB implementation of the UserStore
// interface. If logger is nil, the default logger is used.
func NewMongoUserStore(db *mongo.Database, logger *slog.Logger) *MongoUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &MongoUserStore{
		coll:   db.Collection(UserCollection),
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure MongoUserStore implements store.UserStore
var _ store.UserStore = (*MongoUserStore)(nil)

// Create implements store.UserStore.Create.
// A duplicate email surfaces as store.ErrEmailExists via the unique index.
func (s *MongoUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", store.ErrEmailExists, user.Email)
		}
		s.logger.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.Hex()))
		return MapError(err)
	}

	s.logger.Debug("user created", slog.String("user_id", user.ID.Hex()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *MongoUserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	var user domain.User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrUserNotFound
		}
		s.logger.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.Hex()))
		return nil, MapError(err)
	}
	return &user, nil
}

// FindOne implements store.UserStore.FindOne.
func (s *MongoUserStore) FindOne(ctx context.Context, id primitive.ObjectID, sel store.Projection) (map[string]interface{}, error) {
	opts := options.FindOne()
	if len(sel) > 0 {
		opts.SetProjection(projectionDoc(sel))
	}

	var doc map[string]interface{}
	err := s.coll.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}
	return doc, nil
}

// Find implements store.UserStore.Find.
func (s *MongoUserStore) Find(ctx context.Context, q store.ListQuery) ([]map[string]interface{}, error) {
	cursor, err := s.coll.Find(ctx, NormalizeFilter(q.Where), findOptions(q))
	if err != nil {
		s.logger.Error("user query failed", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	docs := []map[string]interface{}{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, MapError(err)
	}
	return docs, nil
}

// Count implements store.UserStore.Count.
func (s *MongoUserStore) Count(ctx context.Context, where map[string]interface{}) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, NormalizeFilter(where))
	if err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// Replace implements store.UserStore.Replace.
func (s *MongoUserStore) Replace(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", store.ErrEmailExists, user.Email)
		}
		s.logger.Error("failed to replace user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.Hex()))
		return MapError(err)
	}
	if res.MatchedCount == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// Delete implements store.UserStore.Delete.
func (s *MongoUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.Hex()))
		return MapError(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrUserNotFound
	}

	s.logger.Debug("user deleted", slog.String("user_id", id.Hex()))
	return nil
}

// AddPendingTask implements store.UserStore.AddPendingTask.
// The $ne guard in the filter makes the push conditional on the entry being
// absent, so concurrent or repeated pushes cannot create duplicates.
func (s *MongoUserStore) AddPendingTask(ctx context.Context, userID, taskID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID, "pendingTasks": bson.M{"$ne": taskID}},
		bson.M{"$push": bson.M{"pendingTasks": taskID}},
	)
	if err != nil {
		s.logger.Error("failed to add pending task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.Hex()),
			slog.String("task_id", taskID.Hex()))
		return MapError(err)
	}
	return nil
}

// RemovePendingTask implements store.UserStore.RemovePendingTask.
func (s *MongoUserStore) RemovePendingTask(ctx context.Context, userID, taskID primitive.ObjectID) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"pendingTasks": taskID}},
	)
	if err != nil {
		s.logger.Error("failed to remove pending task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.Hex()),
			slog.String("task_id", taskID.Hex()))
		return MapError(err)
	}
	return nil
}

// RemovePendingTaskAll implements store.UserStore.RemovePendingTaskAll.
func (s *MongoUserStore) RemovePendingTaskAll(ctx context.Context, taskID primitive.ObjectID) error {
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"pendingTasks": taskID},
		bson.M{"$pull": bson.M{"pendingTasks": taskID}},
	)
	if err != nil {
		s.logger.Error("failed to remove pending task from all users",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.Hex()))
		return MapError(err)
	}
	return nil
}
