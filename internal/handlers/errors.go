package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/fiado_backend/internal/apperrors"
	"github.com/SscSPs/fiado_backend/internal/dto"
	"github.com/SscSPs/fiado_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError maps a ledger error onto an HTTP status. Details of fatal and
// unexpected failures stay in the log.
func respondError(c *gin.Context, err error, action string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var stockErr *apperrors.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		logger.Warn(action+": insufficient stock", slog.String("product_id", stockErr.ProductID))
		c.JSON(http.StatusConflict, dto.InsufficientStockResponse{
			Error:       stockErr.Error(),
			ProductID:   stockErr.ProductID,
			ProductName: stockErr.ProductName,
			Requested:   stockErr.Requested,
			Available:   stockErr.Available,
		})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn(action+": not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(action+": validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn(action+": duplicate", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrTransient):
		logger.Warn(action+": storage busy", slog.String("error", err.Error()))
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "The ledger is busy, please retry"})
	default:
		logger.Error(action+": failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}

// ownerOrAbort reads the authenticated owner. It writes a 401 and returns false when missing.
func ownerOrAbort(c *gin.Context) (string, bool) {
	ownerID, ok := middleware.GetOwnerIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Owner ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return ownerID, true
}

func respondBindError(c *gin.Context, err error, action string) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn(action+": invalid request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: middleware.DescribeBindingError(err)})
}
