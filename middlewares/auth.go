package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketplace-service/config"
	"marketplace-service/models"
	"marketplace-service/repository"
	"marketplace-service/utils"
)

const userContextKey = "currentUser"

// AuthMiddleware verifies the bearer token, reloads the user from the store
// (so role and status are always current) and attaches it to the request.
func AuthMiddleware(cfg *config.Config, users repository.IUserRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authenticate(c, cfg, users)
		if !ok {
			return
		}
		c.Set(userContextKey, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token is present but lets
// anonymous requests through. Used on the public product listing, where a
// vendor sees their own catalog.
func OptionalAuth(cfg *config.Config, users repository.IUserRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bearerToken(c) == "" {
			c.Next()
			return
		}
		if user, ok := authenticate(c, cfg, users); ok {
			c.Set(userContextKey, user)
			c.Next()
		}
	}
}

// RequireRoles gates a route group to the given roles. Must run after
// AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "not authenticated")
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "role "+user.Role+" is not authorized to access this route")
	}
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

func authenticate(c *gin.Context, cfg *config.Config, users repository.IUserRepo) (models.User, bool) {
	token := bearerToken(c)
	if token == "" {
		abort(c, http.StatusUnauthorized, "not authorized to access this route")
		return models.User{}, false
	}

	userID, err := utils.ParseToken(cfg.JWTSecret, token)
	if err != nil {
		abort(c, http.StatusUnauthorized, "not authorized to access this route")
		return models.User{}, false
	}

	user, err := users.GetByID(c.Request.Context(), userID)
	if err != nil {
		abort(c, http.StatusUnauthorized, "no user found with this token")
		return models.User{}, false
	}
	if user.Status == models.StatusInactive {
		abort(c, http.StatusUnauthorized, "account is inactive")
		return models.User{}, false
	}
	return user, true
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}
