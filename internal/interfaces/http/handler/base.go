package handler

import (
	"net/http"

	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/bizsuite/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Message sends a 200 response carrying a translated acknowledgement.
func (h *BaseHandler) Message(c *gin.Context, data any, format string, args ...any) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(middleware.T(c, format, args...), data))
}

// Created sends a 201 response carrying a translated acknowledgement.
func (h *BaseHandler) Created(c *gin.Context, data any, format string, args ...any) {
	c.JSON(http.StatusCreated, dto.NewMessageResponse(middleware.T(c, format, args...), data))
}

// ErrorWithCode sends an error response, deriving status code from error
// code. The message is translated.
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, format string, args ...any) {
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(
		code, middleware.T(c, format, args...), middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, format string, args ...any) {
	h.ErrorWithCode(c, dto.ErrCodeBadRequest, format, args...)
}

// Forbidden sends a 403 forbidden response
func (h *BaseHandler) Forbidden(c *gin.Context, format string, args ...any) {
	h.ErrorWithCode(c, dto.ErrCodeForbidden, format, args...)
}

// HandleError renders err with its status code. A nil err writes nothing.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	status, body := middleware.ErrorResponse(c, err)
	c.JSON(status, body)
}

// parseID reads the :id path parameter. It writes the error response and
// reports false when the parameter is not a UUID.
func (h *BaseHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record id.")
		return uuid.Nil, false
	}
	return id, true
}
