package auth

import (
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"github.com/dcastellanos/gymcore-backend/internal/domain"
	"github.com/dcastellanos/gymcore-backend/internal/httpx"
)

// RequireRole gates a route to actors holding one of the given roles. The
// authenticated actor is placed into the request context for downstream
// services; no handler reads identity from anywhere else.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httpx.Fail(w, domain.Authorization("authorization token not provided"))
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httpx.Fail(w, domain.Authorization("invalid authorization header format"))
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
				return jwtKey(), nil
			})
			if err != nil || !token.Valid {
				httpx.Fail(w, domain.Authorization("invalid or expired token"))
				return
			}

			actorID, err := uuid.Parse(claims.Subject)
			if err != nil {
				httpx.Fail(w, domain.Authorization("invalid token subject"))
				return
			}

			allowed := false
			for _, role := range roles {
				if claims.Role == role {
					allowed = true
					break
				}
			}
			if !allowed {
				httpx.Fail(w, domain.Forbidden("role "+claims.Role+" may not perform this operation"))
				return
			}

			ctx := domain.WithActor(r.Context(), domain.Actor{ID: actorID, Role: claims.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
