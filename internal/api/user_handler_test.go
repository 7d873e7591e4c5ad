package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tasknest/tasknest-api/internal/api/shared"
	"github.com/tasknest/tasknest-api/internal/domain"
)

func TestListUsers(t *testing.T) {
	f := newHandlerFixture()
	f.seedUser(t, "Amy", "amy@x.com")
	f.seedUser(t, "Bob", "bob@x.com")

	rec := f.do(t, http.MethodGet, "/api/users", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	docs, ok := decodeEnvelope(t, rec).Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, docs, 2)
}

func TestListUsersSortAndLimit(t *testing.T) {
	f := newHandlerFixture()
	f.seedUser(t, "Bob", "bob@x.com")
	f.seedUser(t, "Amy", "amy@x.com")
	f.seedUser(t, "Carol", "carol@x.com")

	rec := f.do(t, http.MethodGet, `/api/users?sort={"name":1}&limit=2`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	docs := decodeEnvelope(t, rec).Data.([]interface{})
	require.Len(t, docs, 2)
	assert.Equal(t, "Amy", docs[0].(map[string]interface{})["name"])
	assert.Equal(t, "Bob", docs[1].(map[string]interface{})["name"])
}

func TestListUsersCount(t *testing.T) {
	f := newHandlerFixture()
	f.seedUser(t, "Amy", "amy@x.com")

	rec := f.do(t, http.MethodGet, "/api/users?count=true", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"count": float64(1)},
		decodeEnvelope(t, rec).Data)
}

func TestGetUser(t *testing.T) {
	f := newHandlerFixture()
	amy := f.seedUser(t, "Amy", "amy@x.com")

	rec := f.do(t, http.MethodGet, "/api/users/"+amy.ID.Hex(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := decodeEnvelope(t, rec).Data.(map[string]interface{})
	assert.Equal(t, amy.ID.Hex(), doc["_id"])
	assert.Equal(t, "amy@x.com", doc["email"])
}

func TestGetUserNotFound(t *testing.T) {
	f := newHandlerFixture()

	for _, id := range []string{primitive.NewObjectID().Hex(), "garbage"} {
		rec := f.do(t, http.MethodGet, "/api/users/"+id, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	}
}

func TestCreateUser(t *testing.T) {
	f := newHandlerFixture()

	rec := f.do(t, http.MethodPost, "/api/users",
		`{"name":"Amy","email":"Amy@X.com"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, shared.MessageCreated, env.Message)
	doc := env.Data.(map[string]interface{})
	assert.Equal(t, "amy@x.com", doc["email"])
}

// The seeded pendingTasks list may arrive as an array or a comma-separated
// string; either way the listed tasks are claimed for the new user.
func TestCreateUserWithSeededTasks(t *testing.T) {
	f := newHandlerFixture()
	task := f.seedTask(t, "orphan", false)

	rec := f.do(t, http.MethodPost, "/api/users",
		`{"name":"Amy","email":"amy@x.com","pendingTasks":" `+task.ID.Hex()+` ,"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	claimed, err := f.tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amy", claimed.AssignedUserName)
}

func TestCreateUserBadRequests(t *testing.T) {
	f := newHandlerFixture()
	f.seedUser(t, "Amy", "amy@x.com")

	tests := []struct {
		name string
		body string
	}{
		{"invalid JSON", `{"name":`},
		{"missing email", `{"name":"Amy"}`},
		{"malformed email", `{"name":"Amy","email":"nope"}`},
		{"duplicate email", `{"name":"Copy","email":"amy@x.com"}`},
		{"bad pending task id", `{"name":"B","email":"b@x.com","pendingTasks":["zzz"]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/users", tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, shared.MessageBadRequest, decodeEnvelope(t, rec).Message)
		})
	}
}

func TestUpdateUser(t *testing.T) {
	f := newHandlerFixture()
	amy := f.seedUser(t, "Amy", "amy@x.com")
	task := f.seedTask(t, "gained", false)

	rec := f.do(t, http.MethodPut, "/api/users/"+amy.ID.Hex(),
		`{"name":"Amy Jones","email":"amy@x.com","pendingTasks":["`+task.ID.Hex()+`"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	doc := decodeEnvelope(t, rec).Data.(map[string]interface{})
	assert.Equal(t, "Amy Jones", doc["name"])

	claimed, err := f.tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, amy.ID.Hex(), claimed.AssignedUser)
	assert.Equal(t, "Amy Jones", claimed.AssignedUserName)
}

func TestUpdateUserNotFound(t *testing.T) {
	f := newHandlerFixture()

	rec := f.do(t, http.MethodPut, "/api/users/"+primitive.NewObjectID().Hex(),
		`{"name":"x","email":"x@x.com"}`)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUser(t *testing.T) {
	f := newHandlerFixture()
	amy := f.seedUser(t, "Amy", "amy@x.com")
	task := f.seedTask(t, "held", false)
	task.AssignTo(amy.ID, amy.Name)
	require.NoError(t, f.tasks.Replace(context.Background(), task))
	amy.PendingTasks = []primitive.ObjectID{task.ID}
	require.NoError(t, f.users.Replace(context.Background(), amy))

	rec := f.do(t, http.MethodDelete, "/api/users/"+amy.ID.Hex(), nil)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())

	released, err := f.tasks.GetByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.UnassignedName, released.AssignedUserName)

	rec = f.do(t, http.MethodDelete, "/api/users/"+amy.ID.Hex(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
