package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/leon37/Hamhama/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResolver struct {
	tokens map[string]*model.Principal
	calls  int
}

func (r *fakeResolver) Authenticate(_ context.Context, token string) (*model.Principal, bool) {
	r.calls++
	p, ok := r.tokens[token]
	return p, ok
}

func newEngine(resolver Resolver, guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(resolver))
	handlers := append(guards, func(c *gin.Context) {
		if actor := Actor(c); actor != nil {
			c.String(http.StatusOK, actor.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/whoami", handlers...)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_NeverAborts(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string]*model.Principal{
		"good": {UserID: 1, Username: "alice", Authorities: []string{"ROLE_USER"}},
	}}
	r := newEngine(resolver)

	cases := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", "anonymous"},
		{"valid token", "Bearer good", "alice"},
		{"unknown token", "Bearer forged", "anonymous"},
		{"wrong scheme", "Basic good", "anonymous"},
		{"missing token", "Bearer ", "anonymous"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := do(r, req)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
	// 格式错误的头不会走到解析
	assert.Equal(t, 2, resolver.calls)
}

func TestGuards(t *testing.T) {
	resolver := &fakeResolver{tokens: map[string]*model.Principal{
		"user":  {UserID: 1, Username: "alice", Authorities: []string{"ROLE_USER"}},
		"admin": {UserID: 2, Username: "root", Authorities: []string{"ROLE_USER", "ROLE_ADMIN"}},
	}}

	authed := newEngine(resolver, RequireAuth())
	w := do(authed, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":40101`)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer user")
	assert.Equal(t, http.StatusOK, do(authed, req).Code)

	adminOnly := newEngine(resolver, RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, do(adminOnly, httptest.NewRequest(http.MethodGet, "/whoami", nil)).Code)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer user")
	assert.Equal(t, http.StatusForbidden, do(adminOnly, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer admin")
	w = do(adminOnly, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "root", w.Body.String())
}

func TestCors(t *testing.T) {
	r := gin.New()
	r.Use(Cors([]string{"https://app.example.com"}))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := do(r, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = do(r, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "https://app.example.com")
	assert.Equal(t, http.StatusNoContent, do(r, req).Code)

	wildcard := gin.New()
	wildcard.Use(Cors([]string{"*"}))
	wildcard.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	assert.Equal(t, "http://localhost:3000", do(wildcard, req).Header().Get("Access-Control-Allow-Origin"))
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	r := gin.New()
	r.Use(limiter.Middleware())
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":5555"
		return do(r, req).Code
	}

	assert.Equal(t, http.StatusOK, call("192.0.2.1"))
	assert.Equal(t, http.StatusOK, call("192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("192.0.2.1"))
	// 其他客户端不受影响
	assert.Equal(t, http.StatusOK, call("192.0.2.2"))

	// 令牌按时间补充
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("192.0.2.1"))

	// 长时间不活跃的客户端被清理
	now = now.Add(idleLimiterTTL + time.Second)
	call("192.0.2.3")
	limiter.mu.Lock()
	assert.Len(t, limiter.clients, 1)
	limiter.mu.Unlock()
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := do(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, id)
	assert.Equal(t, id, do(r, req).Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	assert.NotEqual(t, "not a uuid", do(r, req).Header().Get(RequestIDHeader))
}
