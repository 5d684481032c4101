package connections

import (
	"log"
	"strings"
)

// Имена таблиц-источников
const (
	TableContacts       = "contacts"
	TablePersons        = "persons"
	TablePrevWork       = "prevwork"
	TableContactPersons = "contactpersons"
	TableOrganizations  = "organizations"
	TableEmployees      = "employees"
)

// KeyConfig отображение таблица-источник -> имя ключевого поля.
// Вынесено в явную конфигурацию, чтобы новые таблицы подключались
// без правок логики вычисления ключа.
type KeyConfig map[string]string

// DefaultKeyConfig стандартное отображение ключевых полей
var DefaultKeyConfig = KeyConfig{
	TableContacts:       "PersonUNID",
	TablePersons:        "UNID",
	TablePrevWork:       "PersonUNID",
	TableContactPersons: "cpUID",
	TableOrganizations:  "UNID",
	TableEmployees:      "fzUID",
}

// Key возвращает стабильный ключ сущности.
// Для локальных записей: {таблица}_{имя ключевого поля}_{значение}.
// Для записей внешнего реестра: {endpoint}_{externalId}, при отсутствии
// externalId — {endpoint}_inn_{ИНН}. Пустая строка означает, что ключ
// не выводится; такие сущности не участвуют в поиске связей.
func (e *Entity) Key() string {
	return e.KeyWith(DefaultKeyConfig)
}

// KeyWith вычисляет ключ сущности по переданной конфигурации ключевых полей
func (e *Entity) KeyWith(cfg KeyConfig) string {
	if e == nil {
		return ""
	}

	if e.Source == SourceExternal || e.SourceEndpoint != "" {
		endpoint := e.SourceEndpoint
		if endpoint == "" {
			endpoint = "external"
		}
		if e.ExternalID != "" {
			return endpoint + "_" + e.ExternalID
		}
		if e.INN != "" {
			return endpoint + "_inn_" + e.INN
		}
		return ""
	}

	idField, ok := cfg[e.SourceTable]
	if !ok {
		return ""
	}
	idValue := e.idFieldValue(idField)
	if idValue == "" {
		return ""
	}
	return e.SourceTable + "_" + idField + "_" + idValue
}

// idFieldValue возвращает значение ключевого поля по его имени
func (e *Entity) idFieldValue(field string) string {
	switch field {
	case "UNID":
		return strings.TrimSpace(e.UNID)
	case "PersonUNID":
		return strings.TrimSpace(e.PersonUNID)
	case "cpUID":
		return strings.TrimSpace(e.CpUID)
	case "fzUID":
		return strings.TrimSpace(e.FzUID)
	}
	return ""
}

// filterKeyed отбирает сущности с выводимым ключом и строит индекс
// ключ -> сущность. Сущности без ключа логируются и исключаются
// из участия в поиске связей (но остаются в выдаче без связей).
func filterKeyed(entities []*Entity) map[string]*Entity {
	byKey := make(map[string]*Entity, len(entities))
	for _, entity := range entities {
		key := entity.Key()
		if key == "" {
			log.Printf("Сущность без выводимого ключа исключена из поиска связей (таблица %q, имя %q)",
				entity.SourceTable, entity.DisplayName())
			continue
		}
		if _, exists := byKey[key]; !exists {
			byKey[key] = entity
		}
	}
	return byKey
}
