package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/i18n"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/bizsuite/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// serveBase runs fn behind the request id and locale middleware.
func serveBase(t *testing.T, lang string, fn gin.HandlerFunc) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Locale(i18n.New("en")))
	router.GET("/test/:id", fn)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test/not-a-uuid", nil)
	if lang != "" {
		req.Header.Set(middleware.HeaderAcceptLanguage, lang)
	}
	router.ServeHTTP(w, req)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}
	w, resp := serveBase(t, "", func(c *gin.Context) {
		h.Success(c, gin.H{"key": "value"})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, map[string]any{"key": "value"}, resp.Data)
	assert.Empty(t, resp.Message)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	_, resp := serveBase(t, "", func(c *gin.Context) {
		h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)
	})

	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandler_CreatedTranslatesMessage(t *testing.T) {
	h := &BaseHandler{}
	w, resp := serveBase(t, "fr", func(c *gin.Context) {
		h.Created(c, nil, "%s created successfully.", "Campaign")
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Campaign créé avec succès.", resp.Message)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{"validation", shared.FieldError("name", "This field is required."), http.StatusBadRequest, dto.ErrCodeValidation},
		{"conflict", shared.ConflictError("code", "This field must be unique."), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			w, resp := serveBase(t, "", func(c *gin.Context) {
				h.HandleError(c, tt.err)
			})

			assert.Equal(t, tt.wantStatus, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleErrorNil(t *testing.T) {
	h := &BaseHandler{}
	router := gin.New()
	router.GET("/", func(c *gin.Context) {
		h.HandleError(c, nil)
		c.String(http.StatusTeapot, "untouched")
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestBaseHandler_ParseID(t *testing.T) {
	h := &BaseHandler{}
	w, resp := serveBase(t, "fr", func(c *gin.Context) {
		if _, ok := h.parseID(c); ok {
			t.Fatal("expected an invalid id")
		}
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Equal(t, "Identifiant d'enregistrement invalide.", resp.Error.Message)
}
