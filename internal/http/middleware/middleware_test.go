package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/request-tracker/backend/internal/auth"
	"github.com/request-tracker/backend/internal/models"
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	chain := append(handlers, func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, claims.Email)
	})
	r.GET("/", chain...)
	return r
}

func serve(r *gin.Engine, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewares(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", time.Minute, time.Hour)
	pair, err := jwtSvc.Generate(models.User{ID: 1, Email: "a@example.com", Role: models.RoleClient})
	require.NoError(t, err)

	strict := newEngine(Auth(jwtSvc))
	assert.Equal(t, http.StatusUnauthorized, serve(strict, "/", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(strict, "/", pair.RefreshToken).Code)
	w := serve(strict, "/", pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@example.com", w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	optional := newEngine(OptionalAuth(jwtSvc))
	assert.Equal(t, "anonymous", serve(optional, "/", "").Body.String())
	assert.Equal(t, http.StatusUnauthorized, serve(optional, "/", "bogus").Code)

	query := newEngine(QueryAuth(jwtSvc))
	assert.Equal(t, "a@example.com", serve(query, "/?token="+pair.AccessToken, "").Body.String())
	assert.Equal(t, http.StatusUnauthorized, serve(strict, "/?token="+pair.AccessToken, "").Code)
}

func TestRequireRole(t *testing.T) {
	jwtSvc := auth.NewJWTService("secret", time.Minute, time.Hour)
	client, err := jwtSvc.Generate(models.User{ID: 1, Email: "c@example.com", Role: models.RoleClient})
	require.NoError(t, err)
	admin, err := jwtSvc.Generate(models.User{ID: 2, Email: "r@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	r := newEngine(Auth(jwtSvc), RequireRole(models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serve(r, "/", client.AccessToken).Code)
	assert.Equal(t, http.StatusOK, serve(r, "/", admin.AccessToken).Code)
}

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/bounded", Timeout(time.Minute), func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
		c.Status(http.StatusNoContent)
	})
	r.GET("/unbounded", Timeout(0), func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.False(t, ok)
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, serve(r, "/bounded", "").Code)
	assert.Equal(t, http.StatusNoContent, serve(r, "/unbounded", "").Code)
}
