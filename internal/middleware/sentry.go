package middleware

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// ErrorMetaDegraded marks errors a handler recovered from but still wants
// reported, such as a collaborator replaced by a fallback.
const ErrorMetaDegraded = "degraded"

// reportError sends err as an exception so the wrapped causes show up as
// chained exceptions in Sentry.
func reportError(c *gin.Context, level sentry.Level, err error) {
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetLevel(level)
			scope.SetTag("path", c.FullPath())
			hub.CaptureException(err)
		})
	}
}

// Sentry reports the last error of a failed request, and every error a
// handler flagged as degraded. It is a no-op when Sentry is not initialised.
func Sentry() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			if e.Meta == ErrorMetaDegraded {
				reportError(c, sentry.LevelWarning, e.Err)
			}
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			if last := c.Errors.Last(); last != nil && last.Meta != ErrorMetaDegraded {
				reportError(c, sentry.LevelError, last.Err)
			}
		}
	}
}
