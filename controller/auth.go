package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"twitter-clone/middleware"
	"twitter-clone/model"
	"twitter-clone/repository"
)

// AuthController implements registration and login. Everything else about
// credentials is the auth middleware's concern.
type AuthController struct {
	users repository.UserRepository
	auth  *middleware.Auth
}

func NewAuthController(users repository.UserRepository, auth *middleware.Auth) *AuthController {
	return &AuthController{users: users, auth: auth}
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register handles POST /auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	errs := map[string]string{}
	if req.Name == "" {
		errs["name"] = "name is required"
	}
	if req.Username == "" {
		errs["username"] = "username is required"
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		errs["email"] = "a valid email is required"
	}
	if len(req.Password) < 6 {
		errs["password"] = "password must be at least 6 characters"
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}

	existing, err := c.users.GetByUsername(r.Context(), req.Username)
	if err != nil {
		log.Error().Err(err).Msg("register: username lookup failed")
		writeInternalError(w)
		return
	}
	if existing != nil {
		writeFieldErrors(w, map[string]string{"username": "username already taken"})
		return
	}

	existing, err = c.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		log.Error().Err(err).Msg("register: email lookup failed")
		writeInternalError(w)
		return
	}
	if existing != nil {
		writeFieldErrors(w, map[string]string{"email": "email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("register: hash password failed")
		writeInternalError(w)
		return
	}

	user := &model.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
	}
	// Uniqueness is ultimately enforced by the store's unique indexes; the
	// lookups above can miss a concurrent insert.
	if err := c.users.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			writeFieldErrors(w, map[string]string{"username": "username already taken"})
		case errors.Is(err, repository.ErrDuplicateEmail):
			writeFieldErrors(w, map[string]string{"email": "email already registered"})
		default:
			log.Error().Err(err).Msg("register: create user failed")
			writeInternalError(w)
		}
		return
	}

	token, err := c.auth.Token(user)
	if err != nil {
		log.Error().Err(err).Msg("register: sign token failed")
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// Login handles POST /auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := c.users.GetByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		log.Error().Err(err).Msg("login: username lookup failed")
		writeInternalError(w)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := c.auth.Token(user)
	if err != nil {
		log.Error().Err(err).Msg("login: sign token failed")
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}
