package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-clone/middleware"
	"twitter-clone/model"
)

func newUserController(users *mockUserRepo) *UserController {
	return NewUserController(users, nil)
}

func TestMe_ReturnsAuthenticatedUser(t *testing.T) {
	alice := testUser("Alice")
	alice.Email = "alice@example.com"
	c := newUserController(&mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	c.Me(rec, authed(req, alice))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp["username"])
	assert.Equal(t, "alice@example.com", resp["email"])
	assert.NotContains(t, resp, "password")
}

func TestGetByUsername_HidesPrivateFields(t *testing.T) {
	bob := testUser("Bob")
	bob.Email = "bob@example.com"
	bob.Password = "hash"
	users := &mockUserRepo{
		getByUsernameFn: func(_ context.Context, username string) (*model.User, error) {
			require.Equal(t, "bob", username)
			return bob, nil
		},
	}
	c := newUserController(users)

	req := httptest.NewRequest(http.MethodGet, "/users/bob", nil)
	req = mux.SetURLVars(req, map[string]string{"username": "bob"})
	rec := httptest.NewRecorder()
	c.GetByUsername(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bob", resp["username"])
	assert.NotContains(t, resp, "email")
	assert.NotContains(t, resp, "password")
}

func TestGetByUsername_NotFound(t *testing.T) {
	c := newUserController(&mockUserRepo{})

	req := httptest.NewRequest(http.MethodGet, "/users/ghost", nil)
	req = mux.SetURLVars(req, map[string]string{"username": "ghost"})
	rec := httptest.NewRecorder()
	c.GetByUsername(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateMe_PartialFields(t *testing.T) {
	alice := testUser("Alice")
	var got model.ProfileUpdate
	users := &mockUserRepo{
		updateProfileFn: func(_ context.Context, id primitive.ObjectID, update model.ProfileUpdate) (*model.User, error) {
			require.Equal(t, alice.ID, id)
			got = update
			updated := *alice
			updated.Bio = *update.Bio
			return &updated, nil
		},
	}
	c := newUserController(users)

	req := httptest.NewRequest(http.MethodPut, "/users/me", strings.NewReader(`{"bio":"new bio"}`))
	rec := httptest.NewRecorder()
	c.UpdateMe(rec, authed(req, alice))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "new bio", *got.Bio)
	assert.Nil(t, got.Name)
	assert.Nil(t, got.Location)
	assert.Nil(t, got.Website)
}

func TestUpdateProfileImage_NoFile(t *testing.T) {
	c := newUserController(&mockUserRepo{})

	req := httptest.NewRequest(http.MethodPut, "/users/me/profile-image", nil)
	rec := httptest.NewRecorder()
	c.UpdateProfileImage(rec, authed(req, testUser("Alice")))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCoverImage_Success(t *testing.T) {
	alice := testUser("Alice")
	users := &mockUserRepo{
		setImageFn: func(_ context.Context, id primitive.ObjectID, field, path string) (*model.User, error) {
			require.Equal(t, alice.ID, id)
			assert.Equal(t, "coverImage", field)
			assert.Equal(t, "uploads/banner.png", path)
			updated := *alice
			updated.CoverImage = path
			return &updated, nil
		},
	}
	c := newUserController(users)

	req := httptest.NewRequest(http.MethodPut, "/users/me/cover-image", nil)
	req = authed(req, alice)
	req = req.WithContext(middleware.WithFile(req.Context(), "banner.png"))
	rec := httptest.NewRecorder()
	c.UpdateCoverImage(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestToggleFollow_Self(t *testing.T) {
	alice := testUser("Alice")
	c := newUserController(&mockUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/users/"+alice.ID.Hex()+"/follow", nil)
	req = mux.SetURLVars(req, map[string]string{"id": alice.ID.Hex()})
	rec := httptest.NewRecorder()
	c.ToggleFollow(rec, authed(req, alice))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestToggleFollow_TargetMissing(t *testing.T) {
	alice := testUser("Alice")
	target := primitive.NewObjectID()
	c := newUserController(&mockUserRepo{})

	req := httptest.NewRequest(http.MethodPost, "/users/"+target.Hex()+"/follow", nil)
	req = mux.SetURLVars(req, map[string]string{"id": target.Hex()})
	rec := httptest.NewRecorder()
	c.ToggleFollow(rec, authed(req, alice))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestToggleFollow_Pair(t *testing.T) {
	alice := testUser("Alice")
	bob := testUser("Bob")

	followed, unfollowed := false, false
	users := &mockUserRepo{
		getByIDFn: func(context.Context, primitive.ObjectID) (*model.User, error) {
			return bob, nil
		},
		followFn: func(_ context.Context, userID, targetID primitive.ObjectID) error {
			require.Equal(t, alice.ID, userID)
			require.Equal(t, bob.ID, targetID)
			followed = true
			return nil
		},
		unfollowFn: func(_ context.Context, userID, targetID primitive.ObjectID) error {
			require.Equal(t, alice.ID, userID)
			require.Equal(t, bob.ID, targetID)
			unfollowed = true
			return nil
		},
	}
	c := newUserController(users)

	toggle := func() map[string]interface{} {
		req := httptest.NewRequest(http.MethodPost, "/users/"+bob.ID.Hex()+"/follow", nil)
		req = mux.SetURLVars(req, map[string]string{"id": bob.ID.Hex()})
		rec := httptest.NewRecorder()
		c.ToggleFollow(rec, authed(req, alice))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	resp := toggle()
	assert.Equal(t, true, resp["following"])
	assert.True(t, followed)
	assert.False(t, unfollowed)

	// With the relationship applied, the same request undoes it.
	alice.Following = []primitive.ObjectID{bob.ID}
	resp = toggle()
	assert.Equal(t, false, resp["following"])
	assert.True(t, unfollowed)
}

func TestSuggestions_ExcludesSelfAndFollowing(t *testing.T) {
	alice := testUser("Alice")
	bob := testUser("Bob")
	alice.Following = []primitive.ObjectID{bob.ID}

	carol := testUser("Carol")
	carol.Email = "carol@example.com"

	var gotExclude []primitive.ObjectID
	users := &mockUserRepo{
		suggestionsFn: func(_ context.Context, exclude []primitive.ObjectID) ([]model.User, error) {
			gotExclude = exclude
			return []model.User{*carol}, nil
		},
	}
	c := newUserController(users)

	req := httptest.NewRequest(http.MethodGet, "/users/suggestions", nil)
	rec := httptest.NewRecorder()
	c.Suggestions(rec, authed(req, alice))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []primitive.ObjectID{alice.ID, bob.ID}, gotExclude)

	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "carol", resp[0]["username"])
	assert.NotContains(t, resp[0], "email")
}
