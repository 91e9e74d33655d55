package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"sals-backend/internal/apperr"
	"sals-backend/internal/database"
	"sals-backend/internal/logging"
	"sals-backend/internal/middleware"
)

const (
	storeTimeout = 5 * time.Second
	pingTimeout  = 2 * time.Second

	msgInternalError = "internal server error"
	msgInvalidBody   = "invalid request body"
)

func init() {
	// report json field names (personalInfo.email) instead of Go names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		logging.WithRequest(c).WithField("route", route).Errorf("panic recovered: %v", r)
		_ = c.Error(fmt.Errorf("panic in %s: %v", route, r))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": msgInternalError})
	}
}

func ensureStoreAvailable(ctx context.Context, store database.Store) error {
	pinger, ok := store.(database.Pinger)
	if !ok {
		return nil
	}

	checkCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return pinger.Ping(checkCtx)
}

func storeContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	entry := logging.WithRequest(c).WithField("route", route).WithField("status", status)
	if status >= http.StatusInternalServerError {
		entry.Error(message)
	} else {
		entry.Warn(message)
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// respondWithAppError maps an error kind to its status. Storage and unknown
// errors never leak their text to the client.
func respondWithAppError(c *gin.Context, route string, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		respondWithError(c, http.StatusBadRequest, route, apperr.Message(err))
	case errors.Is(err, apperr.ErrNotFound):
		respondWithError(c, http.StatusNotFound, route, apperr.Message(err))
	case errors.Is(err, apperr.ErrConflict):
		respondWithError(c, http.StatusConflict, route, apperr.Message(err))
	case errors.Is(err, apperr.ErrCollaborator):
		_ = c.Error(err)
		respondWithError(c, http.StatusBadGateway, route, "upstream service unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		_ = c.Error(err)
		respondWithError(c, http.StatusGatewayTimeout, route, "request timed out")
	default:
		_ = c.Error(err)
		logging.WithRequest(c).WithField("route", route).WithError(err).Error("request failed")
		respondWithError(c, http.StatusInternalServerError, route, msgInternalError)
	}
}

// reportDegraded records an error the handler recovered from so Sentry still
// sees it.
func reportDegraded(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err).SetMeta(middleware.ErrorMetaDegraded)
}

// bindOptionalJSON decodes the body into v, treating an empty body as {}.
func bindOptionalJSON(c *gin.Context, v any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// bindingMessage turns validator errors into "personalInfo.email is required".
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return msgInvalidBody
	}

	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	if fe.Tag() == "required" {
		return field + " is required"
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
