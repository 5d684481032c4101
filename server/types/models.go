package types

import "entitysearch/connections"

// SearchRequest запрос поиска сущностей
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	// WithConnections включает поиск связей по найденным сущностям
	WithConnections bool `json:"withConnections"`
}

// SearchResponse результат поиска, сгруппированный по типу сущности
type SearchResponse struct {
	Query           string                `json:"query"`
	QueryType       string                `json:"queryType"`
	Total           int                   `json:"total"`
	Organizations   []*connections.Entity `json:"organizations"`
	Individuals     []*connections.Entity `json:"individuals"`
	SoleProprietors []*connections.Entity `json:"soleProprietors"`
	Unknown         []*connections.Entity `json:"unknown,omitempty"`
}

// ConnectionsRequest запрос поиска связей по готовому набору сущностей
type ConnectionsRequest struct {
	Entities []*connections.Entity `json:"entities" binding:"required"`
}

// ConnectionsResponse сущности, обогащенные связями
type ConnectionsResponse struct {
	Entities []*connections.Entity `json:"entities"`
	Total    int                   `json:"total"`
}

// AttributeConnectionsResponse результат поиска связей по одному атрибуту
type AttributeConnectionsResponse struct {
	Connections connections.ConnectionMap `json:"connections"`
}

// HealthResponse состояние сервиса
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Registry string `json:"registry"`
}
