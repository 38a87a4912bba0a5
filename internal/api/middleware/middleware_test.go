package middleware

import (
	"Zuno/internal/pkg/consts"
	"Zuno/internal/pkg/security"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memoryBlacklist) Revoke(_ context.Context, signature string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[signature] = true
	return nil
}

func (m *memoryBlacklist) IsRevoked(_ context.Context, signature string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[signature], nil
}

func newBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: map[string]bool{}}
}

func identityEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"id":    c.GetUint64(consts.UserIDKey),
			"roles": c.GetStringSlice(consts.RolesKey),
		})
	})
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	bl := newBlacklist()
	r := identityEngine(AuthMiddleware(bl))

	token, err := security.GenerateToken(7, []string{"creator"})
	require.NoError(t, err)

	w := do(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"roles":["creator"]}`, w.Body.String())

	w = do(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Unauthorized"`)

	w = do(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	sig, err := security.ExtractSignature(token)
	require.NoError(t, err)
	require.NoError(t, bl.Revoke(context.Background(), sig, time.Hour))

	w = do(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthOptionalMiddleware(t *testing.T) {
	bl := newBlacklist()
	r := identityEngine(AuthOptionalMiddleware(bl))

	w := do(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":0,"roles":null}`, w.Body.String())

	token, err := security.GenerateToken(3, []string{"user"})
	require.NoError(t, err)
	w = do(r, token)
	assert.JSONEq(t, `{"id":3,"roles":["user"]}`, w.Body.String())

	w = do(r, "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":0,"roles":null}`, w.Body.String())

	sig, _ := security.ExtractSignature(token)
	_ = bl.Revoke(context.Background(), sig, time.Hour)
	w = do(r, token)
	assert.JSONEq(t, `{"id":0,"roles":null}`, w.Body.String())
}

func TestCheckRoles(t *testing.T) {
	r := identityEngine(AuthMiddleware(nil), CheckRoles("moderator", "admin"))

	mod, _ := security.GenerateToken(1, []string{"moderator"})
	user, _ := security.GenerateToken(2, []string{"user"})

	assert.Equal(t, http.StatusOK, do(r, mod).Code)

	w := do(r, user)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Forbidden"`)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2)
	r := gin.New()
	r.POST("/share", RateLimitMiddleware(limiter), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/share", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1"))
	// 其他 IP 不受影响
	assert.Equal(t, http.StatusOK, send("10.0.0.2"))
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/t", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("trace_id")) })

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("X-Trace-ID", "client-trace-01")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "client-trace-01", w.Body.String())
	assert.Equal(t, "client-trace-01", w.Header().Get("X-Trace-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Len(t, w.Header().Get("X-Trace-ID"), 36)

	req = httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set("X-Trace-ID", "bad id\n")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get("X-Trace-ID"), 36)
}

func TestRedactPassword(t *testing.T) {
	out := redact([]byte(`{"login":"amy","password":"s3cr\"et"}`))
	assert.Equal(t, `{"login":"amy","password":"***"}`, out)
	assert.False(t, strings.Contains(out, "s3cr"))
}
