package connections

import (
	"context"
	"fmt"
	"strings"

	"entitysearch/database"
	"entitysearch/extractors"
)

// Store запросный слой локального хранилища, потребляемый поиском связей
type Store interface {
	FindRowsByEmails(ctx context.Context, emails []string) ([]database.ConnectionRow, error)
	FindRowsByPhones(ctx context.Context, phones []string) ([]database.ConnectionRow, error)
	FindRowsByINNs(ctx context.Context, inns []string) ([]database.ConnectionRow, error)
	FindPersonDetailRows(ctx context.Context, personIDs []string) ([]database.PersonDetailRow, error)
}

// ConnectionMap результат поиска связей:
// ключ сущности -> значение атрибута -> список связей
type ConnectionMap map[string]map[string][]Connection

// Finder поиск связей между сущностями по общим атрибутам
type Finder struct {
	store Store
}

// NewFinder создает новый поиск связей поверх хранилища
func NewFinder(store Store) *Finder {
	return &Finder{store: store}
}

// connectionMeta классификация связи по паре (таблица, колонка совпадения)
type connectionMeta struct {
	Kind   string
	Status string
}

var emailMeta = map[string]connectionMeta{
	"organizations.eMail":    {KindEmailMatch, StatusOrganizationMatch},
	"persons.eMail":          {KindEmailMatch, StatusPersonMatch},
	"employees.eMail":        {KindEmailMatch, StatusCurrentEmployee},
	"contactpersons.cpEmail": {KindEmailMatch, StatusContactPerson},
	"contacts.ContactValue":  {KindEmailMatch, StatusPersonMatch},
}

var phoneMeta = map[string]connectionMeta{
	"organizations.PhoneNum": {KindPhoneMatch, StatusOrganizationMatch},
	"persons.MobilePhone":    {KindPhoneMatch, StatusPersonMatch},
	"persons.HomePhone":      {KindPhoneMatch, StatusPersonMatch},
	"employees.WorkPhone":    {KindPhoneMatch, StatusCurrentEmployee},
	"contactpersons.cpPhone": {KindPhoneMatch, StatusContactPerson},
	"contacts.ContactValue":  {KindPhoneMatch, StatusPersonMatch},
}

var innMeta = map[string]connectionMeta{
	"organizations.INN":     {KindINNMatch, StatusOrganizationMatch},
	"persons.INN":           {KindINNMatch, StatusPersonMatch},
	"employees.fzINN":       {KindINNMatch, StatusPersonMatch},
	"employees.phOrgINN":    {KindPersonINNToOrgMatch, StatusCurrentEmployee},
	"prevwork.INN":          {KindOrgINNToPrevWorkMatch, StatusFormerEmployee},
	"contacts.ContactValue": {KindINNMatch, StatusPersonMatch},
}

// FindConnectionsByEmail находит связи целевых сущностей по общим email.
// Результат содержит запись для каждой целевой сущности с выводимым
// ключом, даже если связей не найдено.
func (f *Finder) FindConnectionsByEmail(ctx context.Context, targets []*Entity) (ConnectionMap, error) {
	return f.findByAttribute(ctx, targets, AttributeEmail,
		func(e *Entity) []string { return e.AllEmails() },
		f.store.FindRowsByEmails,
		emailMeta,
	)
}

// FindConnectionsByPhone находит связи целевых сущностей по общим телефонам
func (f *Finder) FindConnectionsByPhone(ctx context.Context, targets []*Entity) (ConnectionMap, error) {
	return f.findByAttribute(ctx, targets, AttributePhone,
		func(e *Entity) []string { return e.AllPhones() },
		f.store.FindRowsByPhones,
		phoneMeta,
	)
}

// FindConnectionsByINN находит связи целевых сущностей по общим ИНН
func (f *Finder) FindConnectionsByINN(ctx context.Context, targets []*Entity) (ConnectionMap, error) {
	return f.findByAttribute(ctx, targets, AttributeINN,
		func(e *Entity) []string { return e.AllINNs() },
		f.store.FindRowsByINNs,
		innMeta,
	)
}

// findByAttribute общий алгоритм поиска связей по одному типу атрибута.
// Один широкий запрос к хранилищу на весь набор значений; точность
// обеспечивается повторной выборкой значений из каждой строки результата
// и пересечением с целевыми значениями. Ошибка запроса фатальна для
// данного вызова целиком.
func (f *Finder) findByAttribute(
	ctx context.Context,
	targets []*Entity,
	attrType AttributeType,
	extract func(*Entity) []string,
	query func(context.Context, []string) ([]database.ConnectionRow, error),
	meta map[string]connectionMeta,
) (ConnectionMap, error) {
	entitiesByKey := filterKeyed(targets)

	// Каждая целевая сущность с ключом присутствует в результате,
	// даже при нулевом количестве связей
	result := make(ConnectionMap, len(entitiesByKey))
	for key := range entitiesByKey {
		result[key] = make(map[string][]Connection)
	}

	// Собираем целевые значения атрибута по всем сущностям
	valuesByKey := make(map[string][]string, len(entitiesByKey))
	targetValues := make(map[string]bool)
	var allValues []string
	for key, entity := range entitiesByKey {
		values := extract(entity)
		valuesByKey[key] = values
		for _, value := range values {
			if !targetValues[value] {
				targetValues[value] = true
				allValues = append(allValues, value)
			}
		}
	}

	if len(allValues) == 0 {
		return result, nil
	}

	rows, err := query(ctx, allValues)
	if err != nil {
		return nil, fmt.Errorf("поиск связей по атрибуту %s не выполнен: %w", attrType, err)
	}

	for _, row := range rows {
		// Повторно извлекаем значения, реально присутствующие в строке,
		// и пересекаем с целевыми: широкий LIKE-запрос может дать
		// частичные совпадения
		matched := intersectValues(rowAttributeValues(row, attrType), targetValues)
		if len(matched) == 0 {
			continue
		}

		rowMeta, ok := meta[row.SourceTable+"."+row.MatchedColumn]
		if !ok {
			continue
		}

		connected := entityFromRow(row)
		connectedKey := connected.Key()
		if connectedKey == "" {
			continue
		}

		for key, entity := range entitiesByKey {
			for _, value := range matched {
				if !containsValue(valuesByKey[key], value) {
					continue
				}
				if connectedKey == key {
					continue
				}
				conn := Connection{
					ConnectedEntity: connected.Projection(),
					Kind:            rowMeta.Kind,
					Status:          rowMeta.Status,
					Details:         connectionDetails(attrType, value, row),
				}
				result[key][value] = appendUnique(result[key][value], conn, entity.Key())
			}
		}
	}

	return result, nil
}

// rowAttributeValues извлекает значения атрибута, присутствующие в строке
// результата (колонка совпадения может содержать несколько значений через ";")
func rowAttributeValues(row database.ConnectionRow, attrType AttributeType) []string {
	switch attrType {
	case AttributeEmail:
		return extractors.SplitEmails(row.ContactValue)
	case AttributePhone:
		return extractors.SplitPhones(row.ContactValue)
	case AttributeINN:
		var inns []string
		for _, part := range strings.Split(row.ContactValue, ";") {
			if inn := cleanINN(part); inn != "" {
				inns = append(inns, inn)
			}
		}
		return inns
	}
	return nil
}

// intersectValues возвращает значения строки, входящие в целевой набор
func intersectValues(rowValues []string, targetValues map[string]bool) []string {
	var matched []string
	for _, value := range rowValues {
		if targetValues[value] {
			matched = append(matched, value)
		}
	}
	return matched
}

func containsValue(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// appendUnique добавляет связь, пропуская дубликаты (тот же ключ связанной
// сущности + тот же details) и связи с самим собой
func appendUnique(links []Connection, conn Connection, ownerKey string) []Connection {
	connKey := conn.ConnectedEntity.Key()
	if connKey == ownerKey {
		return links
	}
	for _, existing := range links {
		if existing.ConnectedEntity.Key() == connKey && existing.Details == conn.Details {
			return links
		}
	}
	return append(links, conn)
}

// entityFromRow строит сущность из строки результата запроса
func entityFromRow(row database.ConnectionRow) *Entity {
	entity := &Entity{
		SourceTable: row.SourceTable,
		Source:      SourceLocal,
		NameShort:   row.NameShort,
		NameFull:    row.NameFull,
		LastName:    row.LastName,
		FirstName:   row.FirstName,
		MiddleName:  row.MiddleName,
		FIO:         row.FIO,
		INN:         cleanINN(row.INN),
		FzINN:       cleanINN(row.FzINN),
		PhOrgINN:    cleanINN(row.PhOrgINN),
		OGRN:        row.OGRN,
		PersonUNID:  row.PersonUNID,
		BaseName:    row.BaseName,
	}

	switch row.SourceTable {
	case TableOrganizations, TablePersons:
		entity.UNID = row.RecID
	case TableEmployees:
		entity.FzUID = row.RecID
	case TableContactPersons:
		entity.CpUID = row.RecID
	case TablePrevWork, TableContacts:
		entity.PersonUNID = row.RecID
	}

	return NormalizeEntity(entity)
}

// connectionDetails воспроизводимая текстовая расшифровка связи
func connectionDetails(attrType AttributeType, value string, row database.ConnectionRow) string {
	switch attrType {
	case AttributeEmail:
		return fmt.Sprintf("общий email %s (источник: %s)", value, row.SourceTable)
	case AttributePhone:
		return fmt.Sprintf("общий телефон %s (источник: %s)", value, row.SourceTable)
	case AttributeINN:
		return fmt.Sprintf("общий ИНН %s (источник: %s.%s)", value, row.SourceTable, row.MatchedColumn)
	}
	return fmt.Sprintf("общий атрибут %s (источник: %s)", value, row.SourceTable)
}
