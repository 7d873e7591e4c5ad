package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/store"
)

func TestNormalizeFilterCoercesIDFields(t *testing.T) {
	id := primitive.NewObjectID()

	tests := []struct {
		name  string
		where map[string]interface{}
		want  bson.M
	}{
		{
			name:  "nil filter matches all",
			where: nil,
			want:  bson.M{},
		},
		{
			name:  "plain _id hex string",
			where: map[string]interface{}{"_id": id.Hex()},
			want:  bson.M{"_id": id},
		},
		{
			name:  "pendingTasks containment",
			where: map[string]interface{}{"pendingTasks": id.Hex()},
			want:  bson.M{"pendingTasks": id},
		},
		{
			name: "operator document under _id",
			where: map[string]interface{}{
				"_id": map[string]interface{}{"$in": []interface{}{id.Hex(), "not-hex"}},
			},
			want: bson.M{"_id": bson.M{"$in": []interface{}{id, "not-hex"}}},
		},
		{
			name:  "non-id fields pass through",
			where: map[string]interface{}{"assignedUser": id.Hex(), "completed": false},
			want:  bson.M{"assignedUser": id.Hex(), "completed": false},
		},
		{
			name: "logical operator recursion",
			where: map[string]interface{}{
				"$or": []interface{}{
					map[string]interface{}{"_id": id.Hex()},
					map[string]interface{}{"completed": true},
				},
			},
			want: bson.M{"$or": []interface{}{
				bson.M{"_id": id},
				bson.M{"completed": true},
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeFilter(tc.where))
		})
	}
}

func TestSortDocPreservesOrder(t *testing.T) {
	doc := sortDoc([]store.SortField{
		{Field: "deadline"},
		{Field: "name", Desc: true},
	})

	require.Len(t, doc, 2)
	assert.Equal(t, bson.E{Key: "deadline", Value: 1}, doc[0])
	assert.Equal(t, bson.E{Key: "name", Value: -1}, doc[1])
}

func TestProjectionDoc(t *testing.T) {
	doc := projectionDoc(store.Projection{"name": true, "_id": false})

	assert.Len(t, doc, 2)
	assert.Contains(t, doc, bson.E{Key: "name", Value: 1})
	assert.Contains(t, doc, bson.E{Key: "_id", Value: 0})
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(store.ListQuery{
		Sort:  []store.SortField{{Field: "deadline"}},
		Skip:  3,
		Limit: 7,
	})

	require.NotNil(t, opts.Skip)
	assert.Equal(t, int64(3), *opts.Skip)
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(7), *opts.Limit)
	assert.Nil(t, opts.Projection)
	assert.NotNil(t, opts.Sort)
}

func TestFindOptionsZeroValuesOmitted(t *testing.T) {
	opts := findOptions(store.ListQuery{})

	assert.Nil(t, opts.Skip)
	assert.Nil(t, opts.Limit, "limit 0 means uncapped, not an empty result")
	assert.Nil(t, opts.Sort)
	assert.Nil(t, opts.Projection)
}
