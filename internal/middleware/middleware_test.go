package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sals-backend/internal/apperr"
	"sals-backend/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/api/orders", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": c.GetString(logging.RequestIDKey)})
	})
	r.POST("/api/analyze-cv", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	r := newRouter(RequestID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	id := w.Header().Get(logging.HeaderRequestID)
	assert.Len(t, id, 36)
	assert.JSONEq(t, `{"request_id":"`+id+`"}`, w.Body.String())
}

func TestRequestIDKeepsCallerValue(t *testing.T) {
	r := newRouter(RequestID(), RequestLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set(logging.HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(logging.HeaderRequestID))
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS([]string{"https://sals.sa"}))

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "https://sals.sa")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://sals.sa", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcard(t *testing.T) {
	r := newRouter(CORS([]string{"*"}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterPerEndpoint(t *testing.T) {
	limiter := NewRateLimiter()
	frozen := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return frozen }
	limiter.SetEndpointLimit("/api/analyze-cv", time.Minute, 2)

	r := newRouter(limiter.Middleware())

	post := func() int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/analyze-cv", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusOK, w.Code, "other routes use their own bucket")

	frozen = frozen.Add(time.Minute)
	assert.Equal(t, http.StatusOK, post())
}

func TestRateLimiterEvictsIdleVisitors(t *testing.T) {
	limiter := NewRateLimiter()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.allow("10.0.0.1", "/api/orders"))
	assert.Len(t, limiter.visitors, 1)

	now = now.Add(time.Hour)
	assert.True(t, limiter.allow("10.0.0.2", "/api/orders"))
	assert.Len(t, limiter.visitors, 1)
}

func TestRateLimiterSweepsAtMostOncePerTTL(t *testing.T) {
	limiter := NewRateLimiter()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.allow("10.0.0.1", "/api/orders"))
	limiter.visitors["10.0.0.1"].lastSeen = start.Add(-time.Hour)

	now = start.Add(time.Minute)
	assert.True(t, limiter.allow("10.0.0.2", "/api/orders"))
	assert.Len(t, limiter.visitors, 2, "no sweep before idleTTL has passed")

	now = start.Add(limiter.idleTTL)
	assert.True(t, limiter.allow("10.0.0.3", "/api/orders"))
	assert.Len(t, limiter.visitors, 2)
	assert.NotContains(t, limiter.visitors, "10.0.0.1")
}

func newSentryRouter(t *testing.T, events *[]*sentry.Event, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()

	client, err := sentry.NewClient(sentry.ClientOptions{
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			*events = append(*events, event)
			return nil
		},
	})
	require.NoError(t, err)
	hub := sentry.NewHub(client, sentry.NewScope())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(sentry.SetHubOnContext(c.Request.Context(), hub))
	})
	r.Use(sentrygin.New(sentrygin.Options{}))
	r.Use(Sentry())
	r.GET("/boom", handler)
	return r
}

func TestSentryReportsServerErrorsAsExceptions(t *testing.T) {
	var events []*sentry.Event
	cause := errors.New("disk full")
	r := newSentryRouter(t, &events, func(c *gin.Context) {
		_ = c.Error(apperr.Storage(cause, "save document"))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	require.Len(t, events, 1)
	assert.Equal(t, sentry.LevelError, events[0].Level)
	require.NotEmpty(t, events[0].Exception)
	assert.Empty(t, events[0].Message)

	var values []string
	for _, ex := range events[0].Exception {
		values = append(values, ex.Value)
	}
	assert.Contains(t, values, "storage error: save document: disk full")
}

func TestSentryReportsDegradedAsWarning(t *testing.T) {
	var events []*sentry.Event
	r := newSentryRouter(t, &events, func(c *gin.Context) {
		_ = c.Error(apperr.Collaborator(nil, "gateway returned 502")).SetMeta(ErrorMetaDegraded)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, events, 1)
	assert.Equal(t, sentry.LevelWarning, events[0].Level)
	assert.NotEmpty(t, events[0].Exception)
}

func TestSentryWithoutHubPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(Sentry())
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
