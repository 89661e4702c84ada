package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ayash-Bera/mentor/backend/internal/auth"
	"github.com/Ayash-Bera/mentor/backend/internal/database"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/internal/repository"
	"github.com/Ayash-Bera/mentor/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func userRepo(t *testing.T) models.UserRepository {
	t.Helper()
	db, err := database.Open("sqlite://:memory:", "silent", utils.DiscardLogger())
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return repository.NewUserRepository(db)
}

func authRouter(t *testing.T) (*gin.Engine, *auth.TokenManager, *models.User) {
	t.Helper()
	users := userRepo(t)
	user := &models.User{Email: "ana@example.com"}
	require.NoError(t, users.Create(context.Background(), user))

	tokens := auth.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.Use(NewAuthMiddleware(tokens, users, utils.DiscardLogger()).RequireAuth())
	r.GET("/me", func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"email": u.Email})
	})
	return r, tokens, user
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r, tokens, user := authRouter(t)

	valid, err := tokens.Issue(user.ID)
	require.NoError(t, err)
	w := get(r, "/me", valid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"ana@example.com"}`, w.Body.String())

	w = get(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Token is missing", body.Message)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "garbage").Code)

	unknown, err := tokens.Issue(999)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", unknown).Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(t.Context(), 2)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.Use(rl.RateLimit())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/ping", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/ping", "").Code)
	w := get(r, "/ping", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, get(r, "/ping", "").Code)

	now = now.Add(10 * time.Minute)
	rl.evict(5 * time.Minute)
	assert.Empty(t, rl.visitors)
}

func TestRateLimiter_KeysByUser(t *testing.T) {
	rl := NewRateLimiter(t.Context(), 1)

	a := gin.Context{}
	a.Set(userKey, &models.User{BaseModel: models.BaseModel{ID: 1}})
	b := gin.Context{}
	b.Set(userKey, &models.User{BaseModel: models.BaseModel{ID: 2}})

	assert.Equal(t, "user:1", visitorKey(&a))
	assert.True(t, rl.allow(visitorKey(&a)))
	assert.False(t, rl.allow(visitorKey(&a)))
	assert.True(t, rl.allow(visitorKey(&b)))
}

func TestRequestIDAndSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := get(r, "/", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	get(r, "/items/7", "")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/items/:id", entry["path"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, "warning", entry["level"])
	assert.NotEmpty(t, entry["request_id"])
}
