package api

import (
	"context"
	"errors"
	"net/http"

	"invoicing/config"
	"invoicing/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SafeErrorMessage hides internal error details from clients in release mode
func SafeErrorMessage(err error, fallback string) string {
	return config.SafeErrorMessage(err, fallback)
}

// respondError maps service errors onto HTTP responses
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case service.IsValidation(err):
		BadRequest(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		Conflict(c, service.ErrConflict.Error())
	case errors.Is(err, service.ErrClientHasInvoices):
		Conflict(c, "client has invoices and cannot be deleted")
	case errors.Is(err, service.ErrEmailDisabled):
		Error(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled):
		// client went away, nothing useful to send
		c.Status(499)
	default:
		zap.L().Error(fallback,
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
