package services

import (
	"context"
	"log"
	"sync"

	"entitysearch/connections"
	"entitysearch/database"
	"entitysearch/enrichment"
	apperrors "entitysearch/server/errors"
	"entitysearch/server/types"
)

// SearchService сервис поиска сущностей: локальный многотабличный поиск,
// запрос к внешнему реестру, слияние по ИНН и поиск связей
type SearchService struct {
	db           *database.SearchDB
	registry     *enrichment.RegistryClient
	finder       *connections.Finder
	orchestrator *connections.Orchestrator
}

// NewSearchService создает новый сервис поиска
func NewSearchService(db *database.SearchDB, registry *enrichment.RegistryClient) *SearchService {
	finder := connections.NewFinder(db)
	return &SearchService{
		db:           db,
		registry:     registry,
		finder:       finder,
		orchestrator: connections.NewOrchestrator(finder),
	}
}

// Finder возвращает поиск связей (для самостоятельных точек входа)
func (s *SearchService) Finder() *connections.Finder {
	return s.finder
}

// Orchestrator возвращает оркестратор связей
func (s *SearchService) Orchestrator() *connections.Orchestrator {
	return s.orchestrator
}

// Search выполняет полный цикл поиска по свободному текстовому запросу.
// Локальный поиск и запрос к реестру выполняются параллельно: это
// независимые чтения. Ошибка реестра не фатальна — возвращаются
// локальные данные; ошибка локального поиска фатальна.
func (s *SearchService) Search(ctx context.Context, request *types.SearchRequest) (*types.SearchResponse, error) {
	queryType := database.DetectQueryType(request.Query)

	var (
		wg        sync.WaitGroup
		localRows []map[string]interface{}
		localErr  error
		external  []*enrichment.RegistryEntity
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		localRows, localErr = s.db.SearchEntities(ctx, request.Query, queryType)
	}()

	if s.registry != nil && s.registry.IsAvailable() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := s.registry.Search(ctx, request.Query)
			if err != nil {
				// Недоступность реестра не роняет поиск
				log.Printf("Внешний реестр недоступен, продолжаем с локальными данными: %v", err)
				return
			}
			external = items
		}()
	}

	wg.Wait()

	if localErr != nil {
		return nil, apperrors.NewInternalError("локальный поиск не выполнен", localErr)
	}

	// Нормализация сырых строк в сущности
	entities := make([]*connections.Entity, 0, len(localRows))
	for _, row := range localRows {
		entities = append(entities, connections.NormalizeRow(row))
	}

	// Слияние с внешним реестром по ИНН
	endpoint := "registry"
	if s.registry != nil {
		endpoint = s.registry.Endpoint()
	}
	merged := enrichment.MergeWithRegistry(entities, external, endpoint)
	all := append(merged.Merged, merged.UnmatchedExternal...)

	// Поиск связей по найденным сущностям
	if request.WithConnections && len(all) > 0 {
		enriched, err := s.orchestrator.FindConnections(ctx, all)
		if err != nil {
			return nil, apperrors.NewBadGatewayError("поиск связей не выполнен", err)
		}
		all = enriched
	}

	return groupByType(request.Query, string(queryType), all), nil
}

// groupByType группирует сущности по типу для выдачи
func groupByType(query, queryType string, entities []*connections.Entity) *types.SearchResponse {
	response := &types.SearchResponse{
		Query:           query,
		QueryType:       queryType,
		Total:           len(entities),
		Organizations:   []*connections.Entity{},
		Individuals:     []*connections.Entity{},
		SoleProprietors: []*connections.Entity{},
	}

	for _, entity := range entities {
		switch entity.Type {
		case connections.TypeOrganization:
			response.Organizations = append(response.Organizations, entity)
		case connections.TypeIndividual:
			response.Individuals = append(response.Individuals, entity)
		case connections.TypeSoleProprietor:
			response.SoleProprietors = append(response.SoleProprietors, entity)
		default:
			response.Unknown = append(response.Unknown, entity)
		}
	}

	return response
}
