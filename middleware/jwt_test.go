package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoicing/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initJWTTestConfig() {
	config.GlobalConfig = &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{Secret: "test-jwt-secret-key"},
	}
}

func TestGenerateToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)

	token, err := GenerateToken(1, "nick@example.com", 24*time.Hour)
	require.NoError(t, err)
	assert.Greater(t, len(token), 20)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)
	assert.Equal(t, "nick@example.com", claims.Email)
}

func TestParseToken(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)

	_, err := ParseToken("")
	assert.Error(t, err)

	_, err = ParseToken("not.a.valid.jwt")
	assert.Error(t, err)
	_, err = ParseToken("eyJhbGciOiJmb29iIn0.xxxx.yyyy")
	assert.Error(t, err)

	// expired
	token, _ := GenerateToken(5, "old@example.com", -time.Minute)
	_, err = ParseToken(token)
	assert.Error(t, err)

	// signed with another secret
	InitJWT(&config.Config{JWT: config.JWTConfig{Secret: "other"}})
	foreign, _ := GenerateToken(5, "x@example.com", time.Hour)
	InitJWT(config.GlobalConfig)
	_, err = ParseToken(foreign)
	assert.Error(t, err)
}

func TestJWTAuth(t *testing.T) {
	initJWTTestConfig()
	defer func() { config.GlobalConfig = nil }()

	InitJWT(config.GlobalConfig)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(JWTAuth())
	router.GET("/protected", func(c *gin.Context) {
		c.String(200, "id:%d %s", GetCurrentUserID(c), GetCurrentEmail(c))
	})

	do := func(setup func(r *http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/protected", nil)
		setup(req)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// no token
	w := do(func(r *http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "401")

	// not a bearer token
	w = do(func(r *http.Request) { r.Header.Set("Authorization", "Basic xyz") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// bearer without token
	w = do(func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") })
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _ := GenerateToken(42, "user42@example.com", time.Hour)

	// bearer token
	w = do(func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "id:42 user42@example.com", w.Body.String())

	// session cookie
	w = do(func(r *http.Request) { r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token}) })
	assert.Equal(t, 200, w.Code)

	// a malformed header is not rescued by the cookie
	w = do(func(r *http.Request) {
		r.Header.Set("Authorization", "Token "+token)
		r.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetCurrentUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))

	c.Set("userID", uint(99))
	assert.Equal(t, uint(99), GetCurrentUserID(c))
}
