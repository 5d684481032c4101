package connections

import (
	"context"
	"errors"
	"testing"

	"entitysearch/database"
)

func TestOrchestrator_FindConnections(t *testing.T) {
	store := &fakeStore{
		innRows: []database.ConnectionRow{
			{
				SourceTable:   TableOrganizations,
				MatchedColumn: "INN",
				RecID:         "org-2",
				NameShort:     "ООО Вектор",
				INN:           "7707083893",
				ContactValue:  "7707083893",
			},
		},
	}
	orchestrator := NewOrchestrator(NewFinder(store))

	target := &Entity{
		SourceTable: TableOrganizations,
		UNID:        "org-1",
		NameShort:   "ООО Ромашка",
		INN:         "7707083893",
		UrFiz:       1,
	}

	result, err := orchestrator.FindConnections(context.Background(), []*Entity{target})
	if err != nil {
		t.Fatalf("FindConnections: %v", err)
	}

	// Исходная сущность идет первой, обнаруженная — следом
	if len(result) != 2 {
		t.Fatalf("в результате %d сущностей, ожидались 2 (исходная + обнаруженная)", len(result))
	}
	if result[0].Key() != "organizations_UNID_org-1" {
		t.Errorf("первая сущность %q, ожидалась исходная", result[0].Key())
	}
	if result[1].Key() != "organizations_UNID_org-2" {
		t.Errorf("вторая сущность %q, ожидалась обнаруженная через связь", result[1].Key())
	}

	if result[0].ConnectionsCount != 1 {
		t.Errorf("ConnectionsCount = %d, ожидалось 1", result[0].ConnectionsCount)
	}
	if len(result[0].Connections) != 1 {
		t.Fatalf("у исходной сущности %d групп связей, ожидалась 1", len(result[0].Connections))
	}
	group := result[0].Connections[0]
	if group.AttributeType != AttributeINN || group.AttributeValue != "7707083893" {
		t.Errorf("группа (%s, %s), ожидалась (inn, 7707083893)", group.AttributeType, group.AttributeValue)
	}
}

func TestOrchestrator_ConnectionsCountConsistency(t *testing.T) {
	store := &fakeStore{
		innRows: []database.ConnectionRow{
			{
				SourceTable:   TablePersons,
				MatchedColumn: "INN",
				RecID:         "p-1",
				LastName:      "Иванов",
				FirstName:     "Иван",
				INN:           "500100732259",
				ContactValue:  "500100732259",
				PersonUNID:    "p-1",
			},
			{
				SourceTable:   TableEmployees,
				MatchedColumn: "fzINN",
				RecID:         "fz-1",
				FIO:           "Иванов Иван",
				FzINN:         "500100732259",
				ContactValue:  "500100732259",
				PersonUNID:    "p-1",
			},
		},
	}
	orchestrator := NewOrchestrator(NewFinder(store))

	target := &Entity{SourceTable: TablePersons, UNID: "p-9", INN: "500100732259", UrFiz: 2}

	result, err := orchestrator.FindConnections(context.Background(), []*Entity{target})
	if err != nil {
		t.Fatalf("FindConnections: %v", err)
	}

	for _, entity := range result {
		total := 0
		for _, group := range entity.Connections {
			total += len(group.Links)
		}
		if entity.ConnectionsCount != total {
			t.Errorf("сущность %s: ConnectionsCount = %d, сумма по группам = %d",
				entity.Key(), entity.ConnectionsCount, total)
		}
	}
}

func TestOrchestrator_PrevWorkPropagation(t *testing.T) {
	// Организация наследует связи физлица, которое раньше в ней работало:
	// запись о прежней работе с ИНН организации соединяет их, а связи,
	// найденные по текущему месту работы физлица, копируются организации
	store := &fakeStore{
		innRows: []database.ConnectionRow{
			// Прежнее место работы физлица p-1 с ИНН целевой организации
			{
				SourceTable:   TablePrevWork,
				MatchedColumn: "INN",
				RecID:         "p-1",
				NameFull:      "ООО Ромашка",
				INN:           "7707083893",
				ContactValue:  "7707083893",
				PersonUNID:    "p-1",
			},
			// Связь, найденная по ИНН самого физлица (через запись сотрудника)
			{
				SourceTable:   TablePersons,
				MatchedColumn: "INN",
				RecID:         "p-5",
				LastName:      "Сидоров",
				FirstName:     "Сидор",
				INN:           "500100732259",
				ContactValue:  "500100732259",
				PersonUNID:    "p-5",
			},
		},
	}
	orchestrator := NewOrchestrator(NewFinder(store))

	org := &Entity{
		SourceTable: TableOrganizations,
		UNID:        "org-1",
		NameShort:   "ООО Ромашка",
		INN:         "7707083893",
		UrFiz:       1,
	}
	employee := &Entity{
		SourceTable: TableEmployees,
		FzUID:       "fz-1",
		PersonUNID:  "p-1",
		FIO:         "Иванов Иван",
		FzINN:       "500100732259",
	}

	result, err := orchestrator.FindConnections(context.Background(), []*Entity{org, employee})
	if err != nil {
		t.Fatalf("FindConnections: %v", err)
	}

	var resultOrg *Entity
	for _, entity := range result {
		if entity.Key() == "organizations_UNID_org-1" {
			resultOrg = entity
		}
	}
	if resultOrg == nil {
		t.Fatal("организация отсутствует в результате")
	}

	// Прямая связь по собственному ИНН (прежнее место работы)
	// плюс унаследованная связь физлица
	var inherited bool
	for _, group := range resultOrg.Connections {
		for _, link := range group.Links {
			if link.ConnectedEntity.Key() == "persons_UNID_p-5" {
				inherited = true
			}
		}
	}
	if !inherited {
		t.Error("организация не унаследовала связь физлица через прежнее место работы")
	}
}

func TestOrchestrator_KeylessEntityStaysInResult(t *testing.T) {
	// Сущность без выводимого ключа (например, запись внешнего реестра
	// без идентификатора и ИНН) не участвует в поиске связей,
	// но остается в выдаче без связей
	orchestrator := NewOrchestrator(NewFinder(&fakeStore{}))

	keyed := targetOrg()
	keyless := &Entity{
		Source:         SourceExternal,
		SourceEndpoint: "registry",
		NameShort:      "ООО Без Реквизитов",
	}

	result, err := orchestrator.FindConnections(context.Background(), []*Entity{keyed, keyless})
	if err != nil {
		t.Fatalf("FindConnections: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("в результате %d сущностей, ожидались 2 (сущность без ключа должна остаться в выдаче)", len(result))
	}
	last := result[len(result)-1]
	if last.NameShort != "ООО Без Реквизитов" {
		t.Errorf("последней должна идти сущность без ключа, получено %q", last.NameShort)
	}
	if last.ConnectionsCount != 0 || len(last.Connections) != 0 {
		t.Errorf("сущность без ключа должна возвращаться без связей, получено %d", last.ConnectionsCount)
	}
}

func TestOrchestrator_StoreError(t *testing.T) {
	store := &fakeStore{err: errors.New("база недоступна")}
	orchestrator := NewOrchestrator(NewFinder(store))

	_, err := orchestrator.FindConnections(context.Background(), []*Entity{targetOrg()})
	if err == nil {
		t.Fatal("ошибка хранилища должна приводить к ошибке оркестратора")
	}
}

func TestOrchestrator_EnrichPersonNames(t *testing.T) {
	store := &fakeStore{
		innRows: []database.ConnectionRow{
			// Строка без имени: обобщенный контакт без присоединенного физлица
			{
				SourceTable:   TableContacts,
				MatchedColumn: "ContactValue",
				RecID:         "p-1",
				ContactValue:  "500100732259",
				PersonUNID:    "p-1",
			},
		},
		personRows: []database.PersonDetailRow{
			{PersonUNID: "p-1", SourceTable: TablePersons, LastName: "Иванов", FirstName: "Иван"},
		},
	}
	orchestrator := NewOrchestrator(NewFinder(store))

	target := &Entity{SourceTable: TablePersons, UNID: "p-9", INN: "500100732259", UrFiz: 2}

	result, err := orchestrator.FindConnections(context.Background(), []*Entity{target})
	if err != nil {
		t.Fatalf("FindConnections: %v", err)
	}

	link := result[0].Connections[0].Links[0]
	if link.ConnectedEntity.DisplayName() != "Иванов Иван" {
		t.Errorf("имя связанного физлица = %q, ожидалось %q",
			link.ConnectedEntity.DisplayName(), "Иванов Иван")
	}
}

func TestAddConnection_GroupsAndDedup(t *testing.T) {
	entity := targetOrg()
	other := NormalizeEntity(&Entity{SourceTable: TablePersons, UNID: "p-1"})

	conn := Connection{ConnectedEntity: other.Projection(), Kind: KindINNMatch, Status: StatusPersonMatch, Details: "d1"}
	entity.AddConnection(AttributeINN, "7707083893", conn)
	entity.AddConnection(AttributeINN, "7707083893", conn) // дубликат
	entity.AddConnection(AttributeINN, "7707083893", Connection{
		ConnectedEntity: other.Projection(), Kind: KindINNMatch, Status: StatusPersonMatch, Details: "d2",
	})
	// Связь с самим собой отбрасывается
	entity.AddConnection(AttributeINN, "7707083893", Connection{ConnectedEntity: entity.Projection()})

	if len(entity.Connections) != 1 {
		t.Fatalf("групп связей %d, ожидалась 1", len(entity.Connections))
	}
	if len(entity.Connections[0].Links) != 2 {
		t.Errorf("связей в группе %d, ожидались 2 (дубликат и самосвязь отброшены)",
			len(entity.Connections[0].Links))
	}

	entity.RecomputeConnectionsCount()
	if entity.ConnectionsCount != 2 {
		t.Errorf("ConnectionsCount = %d, ожидалось 2", entity.ConnectionsCount)
	}
}
