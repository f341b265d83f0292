package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-clone/cache"
	"twitter-clone/middleware"
	"twitter-clone/model"
	"twitter-clone/repository"
)

// UserController implements profile reads and updates, follow toggling and
// follow suggestions.
type UserController struct {
	users       repository.UserRepository
	suggestions *cache.SuggestionCache
}

func NewUserController(users repository.UserRepository, suggestions *cache.SuggestionCache) *UserController {
	return &UserController{users: users, suggestions: suggestions}
}

// Me handles GET /users/me. The record was already resolved by the auth
// middleware.
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetByUsername handles GET /users/{username}, public fields only.
func (c *UserController) GetByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := c.users.GetByUsername(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		log.Error().Err(err).Msg("query user by username failed")
		writeInternalError(w)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user.Public())
}

// UpdateMe handles PUT /users/me, applying only the fields present in the
// body.
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var update model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := c.users.UpdateProfile(r.Context(), user.ID, update)
	if err != nil {
		log.Error().Err(err).Msg("update profile failed")
		writeInternalError(w)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UpdateProfileImage handles PUT /users/me/profile-image.
func (c *UserController) UpdateProfileImage(w http.ResponseWriter, r *http.Request) {
	c.updateImage(w, r, "profileImage")
}

// UpdateCoverImage handles PUT /users/me/cover-image.
func (c *UserController) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	c.updateImage(w, r, "coverImage")
}

func (c *UserController) updateImage(w http.ResponseWriter, r *http.Request, field string) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	name, ok := middleware.FileFrom(r.Context())
	if !ok {
		writeError(w, http.StatusBadRequest, "no file uploaded")
		return
	}

	updated, err := c.users.SetImage(r.Context(), user.ID, field, uploadPath(name))
	if err != nil {
		log.Error().Err(err).Msg("update image failed")
		writeInternalError(w)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// ToggleFollow handles POST /users/{id}/follow. Membership flips in both the
// caller's following list and the target's followers list.
func (c *UserController) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	targetID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	if targetID == user.ID {
		writeError(w, http.StatusBadRequest, "you cannot follow yourself")
		return
	}

	target, err := c.users.GetByID(r.Context(), targetID)
	if err != nil {
		log.Error().Err(err).Msg("query follow target failed")
		writeInternalError(w)
		return
	}
	if target == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	following := !user.IsFollowing(targetID)
	if following {
		err = c.users.Follow(r.Context(), user.ID, targetID)
	} else {
		err = c.users.Unfollow(r.Context(), user.ID, targetID)
	}
	if err != nil {
		log.Error().Err(err).Msg("toggle follow failed")
		writeInternalError(w)
		return
	}

	if err := c.suggestions.Invalidate(r.Context(), user.ID); err != nil {
		log.Warn().Err(err).Msg("invalidate suggestion cache failed")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"following": following, "userId": targetID})
}

// Suggestions handles GET /users/suggestions: up to 5 users the caller does
// not follow yet, themselves excluded.
func (c *UserController) Suggestions(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if cached, hit, err := c.suggestions.Get(r.Context(), user.ID); err != nil {
		log.Warn().Err(err).Msg("read suggestion cache failed")
	} else if hit {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	exclude := append([]primitive.ObjectID{user.ID}, user.Following...)
	users, err := c.users.Suggestions(r.Context(), exclude)
	if err != nil {
		log.Error().Err(err).Msg("query suggestions failed")
		writeInternalError(w)
		return
	}

	public := make([]model.User, 0, len(users))
	for i := range users {
		public = append(public, *users[i].Public())
	}

	if err := c.suggestions.Set(r.Context(), user.ID, public); err != nil {
		log.Warn().Err(err).Msg("write suggestion cache failed")
	}

	writeJSON(w, http.StatusOK, public)
}
