package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	repo "github.com/galeria-app/users-api/internal/domain/repository"
	"github.com/galeria-app/users-api/pkg/helpers"
	"github.com/galeria-app/users-api/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUsernameKey = "userName"
	CtxEmailKey    = "userEmail"
)

// BearerAuth validates the Authorization: Bearer token and loads the current
// user record by the token's subject id. A token whose subject no longer
// exists is unauthenticated, not an error. On success userID, userName and
// userEmail are set in the Gin context.
func BearerAuth(jwt *helpers.JWTManager, users repo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, helpers.ErrTokenExpired) {
				msg = "token expired"
			}
			response.AbortError(c, http.StatusUnauthorized, msg, nil)
			return
		}

		u, err := users.FindByID(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, repo.ErrTimeout) {
				response.AbortError(c, http.StatusServiceUnavailable, "store timeout", nil)
				return
			}
			response.AbortError(c, http.StatusUnauthorized, "unknown user", nil)
			return
		}

		c.Set(CtxUserIDKey, u.ID.Hex())
		c.Set(CtxUsernameKey, u.Username)
		c.Set(CtxEmailKey, u.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
