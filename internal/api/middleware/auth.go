package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderUserID        = "X-User-ID"
	bearerPrefix        = "Bearer "
)

type contextKey string

const userIDKey contextKey = "user_id"

var (
	errMissingIdentity = errors.New("missing identity")
	errInvalidToken    = errors.New("invalid token")
)

// Auth определяет пользователя запроса по Bearer JWT (HS256, claim sub) или по заголовку X-User-ID.
// Заголовок принимается только при allowHeader. Идентификатор должен быть UUID.
func Auth(secret string, allowHeader bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolveUserID(r, []byte(secret), allowHeader)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "требуется аутентификация"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func resolveUserID(r *http.Request, secret []byte, allowHeader bool) (string, error) {
	if header := r.Header.Get(HeaderAuthorization); header != "" {
		if !strings.HasPrefix(header, bearerPrefix) || len(secret) == 0 {
			return "", errInvalidToken
		}
		return parseToken(strings.TrimPrefix(header, bearerPrefix), secret)
	}

	if allowHeader {
		if id := r.Header.Get(HeaderUserID); id != "" {
			if _, err := uuid.Parse(id); err != nil {
				return "", fmt.Errorf("%w: %v", errMissingIdentity, err)
			}
			return id, nil
		}
	}
	return "", errMissingIdentity
}

func parseToken(raw string, secret []byte) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errInvalidToken
	}
	if _, err := uuid.Parse(sub); err != nil {
		return "", errInvalidToken
	}
	return sub, nil
}

// WithUserID кладет ID пользователя в контекст
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID достает ID пользователя, положенный Auth
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
