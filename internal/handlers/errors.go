package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/applied-jobs-tracker/internal/auth"
	"github.com/justsurfingit/applied-jobs-tracker/internal/dashboard"
	"github.com/justsurfingit/applied-jobs-tracker/internal/database"
	"github.com/justsurfingit/applied-jobs-tracker/internal/services"
	"github.com/justsurfingit/applied-jobs-tracker/internal/table"
	"github.com/justsurfingit/applied-jobs-tracker/internal/validation"
)

// statusFor maps a domain error onto an HTTP status.
func statusFor(err error) int {
	var (
		verr *validation.Errors
		werr *services.WriteError
		ferr *services.FetchError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, auth.ErrUnauthenticated),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, table.ErrClosed),
		errors.Is(err, dashboard.ErrSessionEnded):
		return http.StatusUnauthorized
	case errors.Is(err, dashboard.ErrUnknownRow),
		errors.Is(err, dashboard.ErrNoLink),
		errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrSubmitting):
		return http.StatusConflict
	case errors.Is(err, table.ErrUnsortableColumn),
		errors.Is(err, table.ErrRowOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrExtractionDisabled):
		return http.StatusNotImplemented
	case errors.As(err, &werr):
		return http.StatusBadGateway
	case errors.As(err, &ferr):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	var verr *validation.Errors
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"summary": verr.Summary, "errors": verr.Fields})
		return
	}
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
