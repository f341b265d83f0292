package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"twitter-clone/model"
	"twitter-clone/repository"
)

type contextKey string

const userContextKey contextKey = "user"

// Claims is the JWT payload issued at login and verified on every
// authenticated request.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Auth issues bearer tokens and guards routes that require an authenticated
// caller. On success the full user record, follow lists included, is attached
// to the request context.
type Auth struct {
	users  repository.UserRepository
	secret []byte
	expiry time.Duration
}

func NewAuth(users repository.UserRepository, secret string, expiry time.Duration) *Auth {
	return &Auth{
		users:  users,
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Token signs a bearer token for the user.
func (a *Auth) Token(user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Require wraps a handler and rejects requests without a valid bearer token.
func (a *Auth) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			unauthorized(w, "missing authorization header")
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			unauthorized(w, "invalid authorization scheme")
			return
		}

		userID, err := a.parseToken(strings.TrimSpace(strings.TrimPrefix(authHeader, prefix)))
		if err != nil {
			unauthorized(w, "invalid or expired token")
			return
		}

		user, err := a.users.GetByID(r.Context(), userID)
		if err != nil {
			writeMessage(w, http.StatusInternalServerError, "authentication lookup failed")
			return
		}
		if user == nil {
			unauthorized(w, "user no longer exists")
			return
		}

		next(w, r.WithContext(WithUser(r.Context(), user)))
	}
}

func (a *Auth) parseToken(raw string) (primitive.ObjectID, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return primitive.NilObjectID, errors.New("invalid claims")
	}
	return primitive.ObjectIDFromHex(claims.UserID)
}

// WithUser attaches the resolved user to the context.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFrom retrieves the authenticated user attached by Require.
func UserFrom(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	writeMessage(w, http.StatusUnauthorized, msg)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
