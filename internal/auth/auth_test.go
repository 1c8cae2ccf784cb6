package auth

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", LoginHandler)
	r.POST("/logout", LogoutHandler)
	protected := r.Group("/", Middleware())
	protected.GET("/secret", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func sessionCookie(t *testing.T, resp *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestLoginLogoutFlow(t *testing.T) {
	SetCredentials("admin", "hunter2")
	r := newAuthRouter()

	// Wrong password is rejected.
	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"username":"admin","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Correct credentials mint a session cookie.
	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"username":"admin","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	cookie := sessionCookie(t, resp)
	assert.NotEmpty(t, cookie.Value)

	// The cookie grants access to protected routes.
	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Logout revokes the session.
	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMiddlewareRejectsMissingCookie(t *testing.T) {
	r := newAuthRouter()

	resp := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestSessionExpiry(t *testing.T) {
	token := sessions.create()
	require.True(t, sessions.valid(token))

	sessions.mu.Lock()
	sessions.expiry[token] = time.Now().Add(-time.Minute)
	sessions.mu.Unlock()

	assert.False(t, sessions.valid(token))
	// Expired token is dropped from the store entirely.
	sessions.mu.Lock()
	_, stillThere := sessions.expiry[token]
	sessions.mu.Unlock()
	assert.False(t, stillThere)
}
