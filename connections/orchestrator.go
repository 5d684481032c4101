package connections

import (
	"context"
	"fmt"
	"log"
)

// Orchestrator собирает итоговый граф связей: нормализует сущности,
// запускает поиск по ИНН, присоединяет найденные группы связей и
// распространяет связи второго порядка через прежние места работы.
type Orchestrator struct {
	finder *Finder
}

// NewOrchestrator создает новый оркестратор поверх поиска связей
func NewOrchestrator(finder *Finder) *Orchestrator {
	return &Orchestrator{finder: finder}
}

// FindConnections обогащает сущности связями и счетчиком связей.
// Возвращаемый набор включает исходные сущности плюс сущности,
// обнаруженные только через связи. Состояние между вызовами не хранится.
func (o *Orchestrator) FindConnections(ctx context.Context, entities []*Entity) ([]*Entity, error) {
	// 1. Нормализуем все входные сущности
	for _, entity := range entities {
		NormalizeEntity(entity)
	}

	// 2. Поиск по ИНН — основной путь обнаружения связей.
	// Поиск по email и телефону доступен как самостоятельные точки входа.
	connResults, err := o.finder.FindConnectionsByINN(ctx, entities)
	if err != nil {
		return nil, fmt.Errorf("поиск связей не выполнен: %w", err)
	}

	// 3. Рабочий набор: входные сущности плюс все связанные сущности,
	// которых не было в исходной выдаче. Входные сущности без выводимого
	// ключа не участвуют в поиске связей, но остаются в выдаче без связей.
	allEntities := make(map[string]*Entity)
	var order []string
	var keyless []*Entity
	add := func(entity *Entity) {
		key := entity.Key()
		if key == "" {
			return
		}
		if _, exists := allEntities[key]; !exists {
			allEntities[key] = entity
			order = append(order, key)
		}
	}
	for _, entity := range entities {
		if entity.Key() == "" {
			keyless = append(keyless, entity)
			continue
		}
		add(entity)
	}
	for _, valueConns := range connResults {
		for _, conns := range valueConns {
			for _, conn := range conns {
				if conn.ConnectedEntity != nil {
					add(NormalizeEntity(conn.ConnectedEntity))
				}
			}
		}
	}

	// 4. Присоединяем группы связей к сущностям рабочего набора
	for key, valueConns := range connResults {
		entity, ok := allEntities[key]
		if !ok {
			continue
		}
		for value, conns := range valueConns {
			for _, conn := range conns {
				entity.AddConnection(AttributeINN, value, conn)
			}
		}
	}

	// 5. Связи второго порядка: организация наследует связи физлиц,
	// найденные через записи о прежней работе с ее ИНН
	o.propagatePrevWork(allEntities, connResults)

	// 6. Обогащаем связи именами физлиц (необязательный шаг)
	o.enrichPersonNames(ctx, allEntities)

	// 7. Пересчитываем счетчики связей; сущности без ключа идут в конце
	result := make([]*Entity, 0, len(order)+len(keyless))
	for _, key := range order {
		entity := allEntities[key]
		entity.RecomputeConnectionsCount()
		result = append(result, entity)
	}
	for _, entity := range keyless {
		entity.RecomputeConnectionsCount()
		result = append(result, entity)
	}

	return result, nil
}

// propagatePrevWork распространяет связи второго порядка: для каждой
// организации с ИНН находит в рабочем наборе записи о прежней работе
// с тем же ИНН и заполненным идентификатором физлица и копирует связи,
// найденные по этому физлицу, в группы самой организации.
func (o *Orchestrator) propagatePrevWork(allEntities map[string]*Entity, connResults ConnectionMap) {
	// Индекс: идентификатор физлица -> ключи сущностей рабочего набора,
	// под которыми поиск мог вернуть связи этого физлица
	keysByPersonUNID := make(map[string][]string)
	for key, entity := range allEntities {
		if entity.PersonUNID != "" {
			keysByPersonUNID[entity.PersonUNID] = append(keysByPersonUNID[entity.PersonUNID], key)
		}
	}

	for _, org := range allEntities {
		if org.Type != TypeOrganization || org.INN == "" {
			continue
		}

		for _, record := range allEntities {
			if record.SourceTable != TablePrevWork || record.PersonUNID == "" {
				continue
			}
			if record.INN != org.INN {
				continue
			}

			for _, personKey := range keysByPersonUNID[record.PersonUNID] {
				personConns, found := connResults[personKey]
				if !found {
					continue
				}
				for value, conns := range personConns {
					for _, conn := range conns {
						org.AddConnection(AttributeINN, value, conn)
					}
				}
			}
		}
	}
}

// enrichPersonNames дозаполняет отображаемые имена у связанных физлиц,
// найденных без имени (обогащение не фатально)
func (o *Orchestrator) enrichPersonNames(ctx context.Context, allEntities map[string]*Entity) {
	var missing []string
	seen := make(map[string]bool)
	for _, entity := range allEntities {
		for _, group := range entity.Connections {
			for _, conn := range group.Links {
				connected := conn.ConnectedEntity
				if connected == nil || connected.PersonUNID == "" || connected.DisplayName() != "" {
					continue
				}
				if !seen[connected.PersonUNID] {
					seen[connected.PersonUNID] = true
					missing = append(missing, connected.PersonUNID)
				}
			}
		}
	}

	if len(missing) == 0 {
		return
	}

	details := o.finder.ResolvePersonDetails(ctx, missing)
	if len(details) == 0 {
		return
	}

	enriched := 0
	for _, entity := range allEntities {
		for gi := range entity.Connections {
			group := &entity.Connections[gi]
			for li := range group.Links {
				connected := group.Links[li].ConnectedEntity
				if connected == nil || connected.PersonUNID == "" || connected.DisplayName() != "" {
					continue
				}
				if d, ok := details[connected.PersonUNID]; ok {
					connected.LastName = d.LastName
					connected.FirstName = d.FirstName
					connected.MiddleName = d.MiddleName
					if connected.DisplayName() == "" {
						connected.FIO = d.DisplayName
					}
					enriched++
				}
			}
		}
	}

	if enriched > 0 {
		log.Printf("Имена физлиц дозаполнены для %d связей", enriched)
	}
}
