package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/liancar/yard/internal/apperrors"
	"github.com/liancar/yard/internal/domain/models"
)

// handleError maps domain errors onto HTTP statuses. Unexpected errors are
// logged and reported as 500 without their detail.
func handleError(c *gin.Context, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrIllegalTransition), errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrUpstream):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal server error"})
		return
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

// bindError turns a gin binding failure into a domain error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			if fe.Tag() == statusTag {
				return fmt.Errorf("%w: %v", apperrors.ErrInvalidStatus, fe.Value())
			}
			fields = append(fields, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: invalid request body: %v", apperrors.ErrValidation, err)
}

// parseDate reads a request date in loc.
func parseDate(raw string, loc *time.Location) (time.Time, error) {
	return models.ParseDate(raw, loc)
}

// parsePeriod reads the from/to query parameters.
func parsePeriod(c *gin.Context, loc *time.Location) (models.Period, error) {
	return models.ParsePeriod(c.Query("from"), c.Query("to"), loc)
}
