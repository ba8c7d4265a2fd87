package handler

import (
	"github.com/bizsuite/backend/internal/application/analytics"
	"github.com/bizsuite/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ExportHandler runs data exports on demand.
type ExportHandler struct {
	BaseHandler
	runner *analytics.ExportRunner
}

// NewExportHandler creates a new export handler
func NewExportHandler(runner *analytics.ExportRunner) *ExportHandler {
	return &ExportHandler{runner: runner}
}

// RegisterRoutes mounts the run route next to the data export resource.
func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/"+analytics.Group+"/data-exports/:id/run", h.Run)
}

// Run renders the export, stores the file and returns a download link.
//
// @Summary      Run a data export
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        X-Company-ID header string false "Acting company"
// @Param        id path string true "Data export ID" format(uuid)
// @Success      200 {object} dto.Response{data=analytics.ExportResult}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /analytics/data-exports/{id}/run [post]
func (h *ExportHandler) Run(c *gin.Context) {
	p, ok := middleware.RequirePrincipal(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.runner.Run(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, result, "Export completed.")
}
