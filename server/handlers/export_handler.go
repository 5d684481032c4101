package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "entitysearch/server/errors"
	"entitysearch/server/middleware"
	"entitysearch/server/services"
	"entitysearch/server/types"
)

// ExportHandler обработчик выгрузки результатов в Excel
type ExportHandler struct {
	service *services.ExportService
}

// NewExportHandler создает новый обработчик выгрузки
func NewExportHandler(service *services.ExportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// HandleExport обрабатывает POST /api/export: принимает сущности со
// связями и отдает книгу Excel
func (h *ExportHandler) HandleExport(c *gin.Context) {
	var request types.ConnectionsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не переданы сущности для выгрузки"})
		return
	}

	workbook, err := h.service.BuildWorkbook(request.Entities)
	if err != nil {
		middleware.HandleGinError(c, apperrors.NewInternalError("выгрузка не сформирована", err))
		return
	}

	filename := fmt.Sprintf("entities_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
