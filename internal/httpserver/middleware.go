package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const visitorCookieName = "kf_visitor"

const visitorCtxKey = "visitorID"

// visitorCookie assigns each browser a stable visitor id. The id keys the
// persisted platform credential, so it must survive page reloads.
func visitorCookie(cookieDomain string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(visitorCookieName)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookieName, id, int((365 * 24 * time.Hour).Seconds()), "/", cookieDomain, true, true)
		}
		c.Set(visitorCtxKey, id)
		c.Next()
	}
}

func visitorID(c *gin.Context) string {
	return c.GetString(visitorCtxKey)
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		evt := logger.Info()
		switch {
		case status >= 500:
			evt = logger.Error()
		case status >= 400:
			evt = logger.Warn()
		}
		evt.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
