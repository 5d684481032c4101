package services

import (
	"context"

	"entitysearch/connections"
	apperrors "entitysearch/server/errors"
)

// ConnectionService сервис поиска связей по готовому набору сущностей.
// Поиск по каждому атрибуту доступен как самостоятельная точка входа.
type ConnectionService struct {
	finder       *connections.Finder
	orchestrator *connections.Orchestrator
}

// NewConnectionService создает новый сервис связей
func NewConnectionService(finder *connections.Finder) *ConnectionService {
	return &ConnectionService{
		finder:       finder,
		orchestrator: connections.NewOrchestrator(finder),
	}
}

// FindConnections обогащает сущности связями через оркестратор
func (s *ConnectionService) FindConnections(ctx context.Context, entities []*connections.Entity) ([]*connections.Entity, error) {
	enriched, err := s.orchestrator.FindConnections(ctx, entities)
	if err != nil {
		return nil, apperrors.NewBadGatewayError("поиск связей не выполнен", err)
	}
	return enriched, nil
}

// FindByEmail находит связи по общим email
func (s *ConnectionService) FindByEmail(ctx context.Context, entities []*connections.Entity) (connections.ConnectionMap, error) {
	s.normalize(entities)
	result, err := s.finder.FindConnectionsByEmail(ctx, entities)
	if err != nil {
		return nil, apperrors.NewBadGatewayError("поиск связей по email не выполнен", err)
	}
	return result, nil
}

// FindByPhone находит связи по общим телефонам
func (s *ConnectionService) FindByPhone(ctx context.Context, entities []*connections.Entity) (connections.ConnectionMap, error) {
	s.normalize(entities)
	result, err := s.finder.FindConnectionsByPhone(ctx, entities)
	if err != nil {
		return nil, apperrors.NewBadGatewayError("поиск связей по телефону не выполнен", err)
	}
	return result, nil
}

// FindByINN находит связи по общим ИНН
func (s *ConnectionService) FindByINN(ctx context.Context, entities []*connections.Entity) (connections.ConnectionMap, error) {
	s.normalize(entities)
	result, err := s.finder.FindConnectionsByINN(ctx, entities)
	if err != nil {
		return nil, apperrors.NewBadGatewayError("поиск связей по ИНН не выполнен", err)
	}
	return result, nil
}

func (s *ConnectionService) normalize(entities []*connections.Entity) {
	for _, entity := range entities {
		connections.NormalizeEntity(entity)
	}
}
