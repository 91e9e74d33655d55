// Package logging configures the process-wide logrus logger and hands out
// entries pre-filled with module and request fields.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the gin and context key holding the request id.
const RequestIDKey = "request_id"

// HeaderRequestID is read from and echoed back to clients.
const HeaderRequestID = "X-Request-ID"

type ctxKey struct{}

var appLogger = newLogger()

// Config selects level (trace..fatal) and format (text or json).
type Config struct {
	Level  string
	Format string
	Output io.Writer
}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

// Init applies cfg to the shared logger. Unknown levels fall back to info.
func Init(cfg Config) {
	level, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil {
		level = logrus.InfoLevel
	}
	appLogger.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		appLogger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		appLogger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.Output != nil {
		appLogger.SetOutput(cfg.Output)
	}
}

func Logger() *logrus.Logger {
	return appLogger
}

func WithModule(module string) *logrus.Entry {
	return appLogger.WithField("module", module)
}

func WithModuleAndCollection(module, collection string) *logrus.Entry {
	return appLogger.WithFields(logrus.Fields{
		"module":     module,
		"collection": collection,
	})
}

// ContextWithRequestID stores id so that WithContext can pick it up deeper
// in the call chain.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func WithContext(ctx context.Context) *logrus.Entry {
	entry := appLogger.WithContext(ctx)
	if id, ok := ctx.Value(ctxKey{}).(string); ok && id != "" {
		entry = entry.WithField(RequestIDKey, id)
	}
	return entry
}

// WithRequest returns an entry carrying request id, method, path and client ip.
func WithRequest(c *gin.Context) *logrus.Entry {
	entry := appLogger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
		"ip":     c.ClientIP(),
	})
	if id := c.GetString(RequestIDKey); id != "" {
		entry = entry.WithField(RequestIDKey, id)
	}
	return entry
}
