package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/bizsuite/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// Routable is a handler that adds its routes to a group.
type Routable interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// listParams are the query parameters consumed by dto.ListRequest. Every
// other parameter is an equality filter.
var listParams = []string{"page", "page_size", "order_by", "order_dir", "search"}

// ResourceHandler serves the list, detail, create, update and delete
// routes of one resource.
type ResourceHandler[T any] struct {
	BaseHandler
	svc *resource.Service[T]
}

// NewResourceHandler creates a handler for svc
func NewResourceHandler[T any](svc *resource.Service[T]) *ResourceHandler[T] {
	return &ResourceHandler[T]{svc: svc}
}

// Path is the route of the resource below the API root.
func (h *ResourceHandler[T]) Path() string {
	return "/" + h.svc.Group() + "/" + h.svc.Name()
}

// RegisterRoutes mounts the resource routes on rg.
func (h *ResourceHandler[T]) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group(h.Path())
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List returns one page of records of the acting company.
func (h *ResourceHandler[T]) List(c *gin.Context) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return
	}
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err)
		return
	}

	page, err := h.svc.List(c.Request.Context(), p, req.Filter(queryFilters(c)))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one record.
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	v, err := h.svc.Get(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, v)
}

// Create stores a record built from the JSON body.
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	p, ok := h.writer(c)
	if !ok {
		return
	}
	raw, ok := h.body(c)
	if !ok {
		return
	}

	v, err := h.svc.Create(c.Request.Context(), p, decodeInto[T](raw))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, v, "%s created successfully.", middleware.Tr(c, h.svc.Label()))
}

// Update applies the JSON body to a stored record. Fields absent from the
// body keep their stored value.
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	p, ok := h.writer(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	raw, ok := h.body(c)
	if !ok {
		return
	}

	v, err := h.svc.Update(c.Request.Context(), p, id, decodeInto[T](raw))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, v, "%s updated successfully.", middleware.Tr(c, h.svc.Label()))
}

// Delete removes a record.
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	p, ok := h.writer(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), p, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, nil, "%s deleted successfully.", middleware.Tr(c, h.svc.Label()))
}

// writer returns the principal of a write request, rejecting writes to
// read-only resources.
func (h *ResourceHandler[T]) writer(c *gin.Context) (shared.Principal, bool) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return p, false
	}
	if h.svc.Descriptor().ReadOnly {
		h.Forbidden(c, "Records of this resource are read-only.")
		return p, false
	}
	return p, true
}

// body reads the request body, which must be a JSON object.
func (h *ResourceHandler[T]) body(c *gin.Context) ([]byte, bool) {
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.ErrorWithCode(c, dto.ErrCodePayloadTooLarge, "Request body too large.")
			return nil, false
		}
		h.BadRequest(c, "Invalid request body.")
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' || !json.Valid(raw) {
		h.BadRequest(c, "Invalid request body.")
		return nil, false
	}
	return raw, true
}

func (h *ResourceHandler[T]) bindError(c *gin.Context, err error) {
	if ve, ok := middleware.BindingError(err); ok {
		h.HandleError(c, ve)
		return
	}
	h.HandleError(c, shared.FormError("Enter a valid value."))
}

// decodeInto returns an input function copying the JSON object raw onto
// a record. Type mismatches are reported on the offending field.
func decodeInto[T any](raw []byte) func(*T) error {
	return func(v *T) error {
		err := json.Unmarshal(raw, v)
		if err == nil {
			return nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return shared.FieldError(typeErr.Field, "Enter a valid value.")
		}
		return shared.FormError("Enter a valid value.")
	}
}

// queryFilters collects the equality filters of a list request. The
// service drops columns the resource does not allow.
func queryFilters(c *gin.Context) map[string]any {
	filters := map[string]any{}
	for key, values := range c.Request.URL.Query() {
		if len(values) == 0 || slices.Contains(listParams, key) {
			continue
		}
		switch v := strings.TrimSpace(values[0]); v {
		case "true":
			filters[key] = true
		case "false":
			filters[key] = false
		default:
			filters[key] = v
		}
	}
	return filters
}
