package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"entitysearch/connections"
	"entitysearch/server/middleware"
	"entitysearch/server/services"
	"entitysearch/server/types"
)

// ConnectionsHandler обработчик поиска связей
type ConnectionsHandler struct {
	service *services.ConnectionService
}

// NewConnectionsHandler создает новый обработчик связей
func NewConnectionsHandler(service *services.ConnectionService) *ConnectionsHandler {
	return &ConnectionsHandler{service: service}
}

// HandleFindConnections обрабатывает POST /api/connections:
// полный поиск связей с группами и счетчиками
func (h *ConnectionsHandler) HandleFindConnections(c *gin.Context) {
	request, ok := bindConnectionsRequest(c)
	if !ok {
		return
	}

	enriched, err := h.service.FindConnections(c.Request.Context(), request.Entities)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ConnectionsResponse{
		Entities: enriched,
		Total:    len(enriched),
	})
}

// HandleFindByEmail обрабатывает POST /api/connections/email
func (h *ConnectionsHandler) HandleFindByEmail(c *gin.Context) {
	h.handleAttribute(c, h.service.FindByEmail)
}

// HandleFindByPhone обрабатывает POST /api/connections/phone
func (h *ConnectionsHandler) HandleFindByPhone(c *gin.Context) {
	h.handleAttribute(c, h.service.FindByPhone)
}

// HandleFindByINN обрабатывает POST /api/connections/inn
func (h *ConnectionsHandler) HandleFindByINN(c *gin.Context) {
	h.handleAttribute(c, h.service.FindByINN)
}

func (h *ConnectionsHandler) handleAttribute(
	c *gin.Context,
	find func(context.Context, []*connections.Entity) (connections.ConnectionMap, error),
) {
	request, ok := bindConnectionsRequest(c)
	if !ok {
		return
	}

	result, err := find(c.Request.Context(), request.Entities)
	if err != nil {
		middleware.HandleGinError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.AttributeConnectionsResponse{Connections: result})
}

func bindConnectionsRequest(c *gin.Context) (*types.ConnectionsRequest, bool) {
	var request types.ConnectionsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "не переданы сущности для поиска связей"})
		return nil, false
	}
	return &request, true
}
