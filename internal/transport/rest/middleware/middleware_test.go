package middleware

import (
	"academyhub/internal/config"
	"academyhub/internal/logger"
	"academyhub/internal/model"
	"academyhub/internal/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newAuth() *service.AuthService {
	cfg := &config.Config{JWTSecret: "mw-secret", AdminUsername: "admin", AdminPassword: "pw", WizardTTL: time.Hour}
	return service.NewAuthService(cfg, nil, logger.Nop())
}

// echo writes back what the middleware stored in the context
func echo(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(GetAdminID(r.Context()) + "|" + GetAccountID(r.Context()) + "|" + GetSessionID(r.Context())))
}

func do(h http.Handler, method, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAdmin(t *testing.T) {
	auth := newAuth()
	h := NewAuthMiddleware(auth).RequireAdmin(http.HandlerFunc(echo))

	assert.Equal(t, http.StatusUnauthorized, do(h, "GET", "/", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(h, "GET", "/", "garbage").Code)

	sessionToken, err := auth.IssueSessionToken("s-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(h, "GET", "/", sessionToken).Code)

	login, err := auth.Login("admin", "pw")
	require.NoError(t, err)
	rec := do(h, "GET", "/", login.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, login.AdminID+"||", rec.Body.String())
}

func TestRequireAccount(t *testing.T) {
	auth := newAuth()
	h := NewAuthMiddleware(auth).RequireAccount(http.HandlerFunc(echo))

	token, err := auth.IssueAccountToken(&model.Account{ID: "acct-1", Email: "a@b.co"})
	require.NoError(t, err)
	rec := do(h, "GET", "/", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "|acct-1|", rec.Body.String())

	login, _ := auth.Login("admin", "pw")
	assert.Equal(t, http.StatusUnauthorized, do(h, "GET", "/", login.Token).Code)
}

func TestRequireSession_MatchesPath(t *testing.T) {
	auth := newAuth()
	r := mux.NewRouter()
	r.Handle("/sessions/{id}", NewAuthMiddleware(auth).RequireSession(http.HandlerFunc(echo)))

	token, err := auth.IssueSessionToken("s-1")
	require.NoError(t, err)

	rec := do(r, "GET", "/sessions/s-1", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "||s-1", rec.Body.String())

	rec = do(r, "GET", "/sessions/s-2", token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"token not valid for this session"}`, rec.Body.String())
}

func TestExtractBearerToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "bearer abc")
	assert.Equal(t, "abc", extractBearerToken(req))

	req.Header.Set("Authorization", "Basic abc")
	assert.Empty(t, extractBearerToken(req))
}

func TestRateLimiter_PerIP(t *testing.T) {
	l := NewRateLimiter(0.001, 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	from := func(ip string) int {
		req := httptest.NewRequest("POST", "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, http.StatusOK, from("10.0.0.2"))
}

func TestRateLimiter_SweepDropsIdle(t *testing.T) {
	l := NewRateLimiter(1, 1)
	clock := time.Now()
	l.now = func() time.Time { return clock }

	l.allow("a")
	clock = clock.Add(time.Hour)
	l.allow("b")

	assert.Equal(t, 1, l.Sweep(30*time.Minute))
	_, ok := l.limiters["b"]
	assert.True(t, ok)
}

func TestClientIP_IgnoresForwardedFromUntrustedPeer(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.7:1234"
	assert.Equal(t, "192.0.2.7", TrustedProxies(nil).ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	assert.Equal(t, "192.0.2.7", TrustedProxies(nil).ClientIP(req))
}

func TestClientIP_TrustedProxyChain(t *testing.T) {
	proxies, err := ParseTrustedProxies("10.0.0.0/8, 172.16.0.5")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 203.0.113.9, 172.16.0.5")
	assert.Equal(t, "203.0.113.9", proxies.ClientIP(req))

	req.Header.Set("X-Forwarded-For", "garbage")
	assert.Equal(t, "10.0.0.1", proxies.ClientIP(req))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "10.0.0.1", proxies.ClientIP(req))
}

func TestParseTrustedProxies(t *testing.T) {
	proxies, err := ParseTrustedProxies("")
	require.NoError(t, err)
	assert.Empty(t, proxies)

	_, err = ParseTrustedProxies("10.0.0.1, nope")
	assert.Error(t, err)
	_, err = ParseTrustedProxies("10.0.0.0/99")
	assert.Error(t, err)
}

func TestRateLimiter_SpoofedForwardedForSharesBucket(t *testing.T) {
	l := NewRateLimiter(0.001, 1)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(forwarded string) int {
		req := httptest.NewRequest("POST", "/", nil)
		req.RemoteAddr = "192.0.2.50:4000"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, send("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.2"))

	proxies, err := ParseTrustedProxies("192.0.2.50")
	require.NoError(t, err)
	l.TrustProxies(proxies)
	assert.Equal(t, http.StatusOK, send("203.0.113.3"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.3"))
}

func TestRequestLogger_UsesRouteTemplate(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	r := mux.NewRouter()
	r.Use(RequestLogger(log))
	r.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	do(r, "GET", "/items/42", "")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/items/{id}", fields["path"])
	assert.EqualValues(t, http.StatusTeapot, fields["status"])
}
