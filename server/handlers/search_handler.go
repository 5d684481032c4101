package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"entitysearch/server/middleware"
	"entitysearch/server/services"
	"entitysearch/server/types"
)

// SearchHandler обработчик поиска сущностей
type SearchHandler struct {
	service *services.SearchService
}

// NewSearchHandler создает новый обработчик поиска
func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// HandleSearch обрабатывает POST /api/search
func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var request types.SearchRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не указан поисковый запрос"})
		return
	}

	response, err := h.service.Search(c.Request.Context(), &request)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
