package api

import (
	"net/http"
	"time"

	"invoicing/config"
	"invoicing/middleware"

	"github.com/gin-gonic/gin"
)

// getCookieOptions cookie security settings for the running mode.
// Release mode only sends the cookie over HTTPS.
func getCookieOptions() (secure bool, sameSite http.SameSite) {
	if cfg := config.GlobalConfig; cfg != nil && cfg.Server.Mode == "release" {
		secure = true
	}
	sameSite = http.SameSiteLaxMode
	return
}

// setTokenCookie stores the session token for browser clients
func setTokenCookie(c *gin.Context, token string, ttl time.Duration) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.TokenCookie, token, int(ttl.Seconds()), "/", "", secure, true)
}

// clearTokenCookie expires the session cookie
func clearTokenCookie(c *gin.Context) {
	secure, sameSite := getCookieOptions()
	c.SetSameSite(sameSite)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", secure, true)
}
