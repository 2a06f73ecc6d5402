package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/recyloop/gateway/internal/status"
)

type contextKey string

const (
	userCtxKey contextKey = "user_id"
	roleCtxKey contextKey = "role"
)

func userFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userCtxKey).(string)
	return id
}

func roleFromContext(ctx context.Context) status.Role {
	role, _ := ctx.Value(roleCtxKey).(string)
	if role == "" {
		return status.RoleCustomer
	}
	return status.Role(role)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if loginRequest.Username == "" || loginRequest.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing username or password")
		return
	}

	user, err := s.users.Authenticate(r.Context(), loginRequest.Username, loginRequest.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"token": signed,
		"role":  user.Role,
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(w, http.StatusUnauthorized, "Invalid token format")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(s.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			respondError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			respondError(w, http.StatusUnauthorized, "Invalid claims")
			return
		}

		userID, _ := claims["user_id"].(string)
		role, _ := claims["role"].(string)
		if userID == "" {
			respondError(w, http.StatusUnauthorized, "Missing user_id claim")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, userID)
		ctx = context.WithValue(ctx, roleCtxKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
