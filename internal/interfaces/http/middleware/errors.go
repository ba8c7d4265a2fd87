package middleware

import (
	"errors"
	"net/http"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse renders err as an error envelope in the request language.
// Validation errors list every violation; domain errors keep their code;
// anything else is logged and hidden behind a generic message.
func ErrorResponse(c *gin.Context, err error) (int, dto.Response) {
	requestID := GetRequestID(c)

	if ve, ok := shared.AsValidation(err); ok {
		details := make([]dto.ValidationDetail, 0, len(ve.Violations))
		for _, v := range ve.Violations {
			details = append(details, dto.ValidationDetail{
				Field:   v.Field,
				Message: T(c, v.Format, v.Args...),
			})
		}
		code := dto.NormalizeErrorCode(ve.Code)
		return dto.GetHTTPStatus(code), dto.NewDetailedErrorResponse(code, T(c, "Request validation failed."), requestID, details)
	}

	var de *shared.DomainError
	if errors.As(err, &de) {
		code := dto.NormalizeErrorCode(de.Code)
		return dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, Tr(c, de.Message), requestID)
	}

	logger.L(c.Request.Context()).Error("Unhandled request error",
		zap.Error(err),
		zap.String("path", c.FullPath()),
	)
	return http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, T(c, "An unexpected error occurred."), requestID)
}

// AbortWithError ends the request with the envelope of err.
func AbortWithError(c *gin.Context, err error) {
	status, body := ErrorResponse(c, err)
	c.AbortWithStatusJSON(status, body)
}
