package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/interskill/internal/auth"
	"github.com/lalith-99/interskill/internal/models"
	"github.com/lalith-99/interskill/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// accounts holds the users tokens are issued to. u-1 is staff, u-2 admin,
// u-3 admin with a capitalised role.
func accounts(t *testing.T) *memory.UserStore {
	t.Helper()
	store := memory.NewUserStore()
	for _, u := range []models.User{
		{ID: "u-1", Username: "asha", FullName: "Asha", Role: models.RoleStaff},
		{ID: "u-2", Username: "root", FullName: "Root", Role: models.RoleAdmin},
		{ID: "u-3", Username: "boss", Role: "Admin"},
	} {
		require.NoError(t, store.Create(context.Background(), &u))
	}
	return store
}

func tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := auth.GenerateToken(u, secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func token(t *testing.T, role string) string {
	t.Helper()
	return tokenFor(t, &models.User{ID: "u-1", Username: "asha", FullName: "Asha", Role: role})
}

type failingLookup struct{}

func (failingLookup) GetByID(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func newRouter(t *testing.T, allowQuery bool, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	return newRouterWith(accounts(t), allowQuery, extra...)
}

func newRouterWith(lookup AccountLookup, allowQuery bool, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(secret, allowQuery, lookup)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		a := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"id": a.ID, "name": a.Name, "role": a.Role})
	})
	r.GET("/me", handlers...)
	return r
}

func do(r http.Handler, target, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(t, false)
	good := token(t, models.RoleStaff)

	tests := []struct {
		name   string
		authz  string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + good, http.StatusOK},
		{"lowercase scheme", "bearer " + good, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, "/me", tt.authz)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := do(r, "/me", "Bearer "+good)
	assert.JSONEq(t, `{"id":"u-1","name":"Asha","role":"staff"}`, w.Body.String())
}

func TestAuthMiddleware_QueryToken(t *testing.T) {
	good := token(t, models.RoleStaff)

	assert.Equal(t, http.StatusUnauthorized, do(newRouter(t, false), "/me?token="+good, "").Code)
	assert.Equal(t, http.StatusOK, do(newRouter(t, true), "/me?token="+good, "").Code)
}

func TestAuthMiddleware_UsesStoredAccount(t *testing.T) {
	store := accounts(t)
	r := newRouterWith(store, false)

	// The token claims admin and an old name; the stored record wins.
	stale := tokenFor(t, &models.User{ID: "u-1", Username: "asha", FullName: "Old Name", Role: models.RoleAdmin})
	w := do(r, "/me", "Bearer "+stale)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"u-1","name":"Asha","role":"staff"}`, w.Body.String())

	removed, err := store.Delete(context.Background(), "u-1")
	require.NoError(t, err)
	require.True(t, removed)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer "+stale).Code)
}

func TestAuthMiddleware_LookupFailure(t *testing.T) {
	r := newRouterWith(failingLookup{}, false)
	assert.Equal(t, http.StatusInternalServerError, do(r, "/me", "Bearer "+token(t, models.RoleStaff)).Code)
}

func TestRequireRole(t *testing.T) {
	r := newRouter(t, false, RequireRole(models.RoleAdmin))

	staff := tokenFor(t, &models.User{ID: "u-1", Username: "asha", Role: models.RoleStaff})
	admin := tokenFor(t, &models.User{ID: "u-2", Username: "root", Role: models.RoleAdmin})
	capitalised := tokenFor(t, &models.User{ID: "u-3", Username: "boss", Role: "Admin"})

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer "+staff).Code)
	assert.Equal(t, http.StatusOK, do(r, "/me", "Bearer "+admin).Code)
	assert.Equal(t, http.StatusOK, do(r, "/me", "Bearer "+capitalised).Code)

	// A staff account holding an admin-role token is still staff.
	forged := tokenFor(t, &models.User{ID: "u-1", Username: "asha", Role: models.RoleAdmin})
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "Bearer "+forged).Code)
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(2, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"))

	now = now.Add(61 * time.Second)
	assert.True(t, l.Allow("1.2.3.4"))

	assert.True(t, NewLimiter(0, time.Minute).Allow("x"))
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/leads", RateLimit(NewLimiter(1, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func() int {
		req := httptest.NewRequest(http.MethodPost, "/leads", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusCreated, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestRequestLoggerAndMetrics(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Metrics())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, "/ok", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, "/missing", "").Code)
}
