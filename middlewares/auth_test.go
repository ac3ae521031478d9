package middlewares

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-service/config"
	"marketplace-service/models"
	"marketplace-service/repository"
	"marketplace-service/utils"
)

type fakeUserRepo struct {
	users map[int64]models.User
}

func (r fakeUserRepo) Create(context.Context, models.User) (int64, error) { return 0, nil }

func (r fakeUserRepo) GetByID(_ context.Context, id int64) (models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return models.User{}, sql.ErrNoRows
	}
	return user, nil
}

func (r fakeUserRepo) GetByEmail(context.Context, string) (models.User, error) {
	return models.User{}, sql.ErrNoRows
}

func (r fakeUserRepo) List(context.Context, repository.UserFilter) ([]models.User, int, error) {
	return nil, 0, nil
}

func (r fakeUserRepo) Update(context.Context, models.User) error { return nil }

func (r fakeUserRepo) Delete(context.Context, int64) (bool, error) { return false, nil }

func newAuthRouter(users repository.IUserRepo, extra ...gin.HandlerFunc) (*gin.Engine, *config.Config) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: "test-secret"}

	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(cfg, users)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"success": true, "user_id": user.ID})
	})
	r.GET("/protected", handlers...)
	return r, cfg
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	active := models.User{ID: 1, Role: models.RoleCustomer, Status: models.StatusActive}
	inactive := models.User{ID: 2, Role: models.RoleCustomer, Status: models.StatusInactive}
	users := fakeUserRepo{users: map[int64]models.User{1: active, 2: inactive}}
	r, cfg := newAuthRouter(users)

	t.Run("missing token", func(t *testing.T) {
		w := doRequest(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("malformed token", func(t *testing.T) {
		w := doRequest(r, "garbage")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := utils.GenerateToken("other-secret", active, time.Hour)
		require.NoError(t, err)
		w := doRequest(r, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		token, err := utils.GenerateToken(cfg.JWTSecret, models.User{ID: 99}, time.Hour)
		require.NoError(t, err)
		w := doRequest(r, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "no user found with this token")
	})

	t.Run("inactive user", func(t *testing.T) {
		token, err := utils.GenerateToken(cfg.JWTSecret, inactive, time.Hour)
		require.NoError(t, err)
		w := doRequest(r, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "account is inactive")
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := utils.GenerateToken(cfg.JWTSecret, active, time.Hour)
		require.NoError(t, err)
		w := doRequest(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":1`)
	})
}

func TestRequireRoles(t *testing.T) {
	vendorUser := models.User{ID: 3, Role: models.RoleVendor, Status: models.StatusActive}
	users := fakeUserRepo{users: map[int64]models.User{3: vendorUser}}
	r, cfg := newAuthRouter(users, RequireRoles(models.RoleAdmin))
	token, err := utils.GenerateToken(cfg.JWTSecret, vendorUser, time.Hour)
	require.NoError(t, err)

	w := doRequest(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "not authorized to access this route")

	r, cfg = newAuthRouter(users, RequireRoles(models.RoleVendor, models.RoleAdmin))
	token, err = utils.GenerateToken(cfg.JWTSecret, vendorUser, time.Hour)
	require.NoError(t, err)
	w = doRequest(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	active := models.User{ID: 1, Role: models.RoleVendor, Status: models.StatusActive}
	users := fakeUserRepo{users: map[int64]models.User{1: active}}
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: "test-secret"}

	r := gin.New()
	r.GET("/public", OptionalAuth(cfg, users), func(c *gin.Context) {
		if user, ok := CurrentUser(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"anonymous": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")

	token, err := utils.GenerateToken(cfg.JWTSecret, active, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":1`)

	// A bad token on an optional route is still rejected.
	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
