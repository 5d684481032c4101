package connections

import (
	"context"
	"log"
)

// personTablePriority фиксированный приоритет таблиц при разрешении имен:
// каноническая таблица физлиц важнее производных имен из сотрудников,
// контактных лиц и обобщенных контактов.
var personTablePriority = map[string]int{
	TablePersons:        0,
	TableEmployees:      1,
	TableContactPersons: 2,
	TableContacts:       3,
}

// displayNameNotFound литерал для случая, когда имя не разрешилось
const displayNameNotFound = "ФИО не найдено"

// ResolvePersonDetails разрешает отображаемые имена физлиц по набору
// идентификаторов. Для каждого идентификатора берутся данные первой
// таблицы в фиксированном порядке приоритета; повторные строки для того
// же идентификатора логируются и отбрасываются, не сливаются по полям.
// Ошибка запроса гасится: возвращается то, что успели разрешить
// (обогащение имен не должно ронять поиск связей).
func (f *Finder) ResolvePersonDetails(ctx context.Context, personIDs []string) map[string]PersonDetails {
	resolved := make(map[string]PersonDetails)
	if len(personIDs) == 0 {
		return resolved
	}

	rows, err := f.store.FindPersonDetailRows(ctx, personIDs)
	if err != nil {
		log.Printf("Разрешение имен физлиц не выполнено (продолжаем без имен): %v", err)
		return resolved
	}

	for _, row := range rows {
		priority, known := personTablePriority[row.SourceTable]
		if !known {
			continue
		}

		if existing, seen := resolved[row.PersonUNID]; seen {
			existingPriority := personTablePriority[existing.SourceTable]
			if priority >= existingPriority {
				log.Printf("Повторная запись имени для %s из таблицы %s отброшена (уже есть из %s)",
					row.PersonUNID, row.SourceTable, existing.SourceTable)
				continue
			}
		}

		details := PersonDetails{
			PersonUNID:  row.PersonUNID,
			LastName:    row.LastName,
			FirstName:   row.FirstName,
			MiddleName:  row.MiddleName,
			SourceTable: row.SourceTable,
		}
		details.DisplayName = buildDisplayName(row.LastName, row.FirstName, row.MiddleName, row.FIO)
		resolved[row.PersonUNID] = details
	}

	return resolved
}

// buildDisplayName собирает отображаемое имя: "Фамилия Имя Отчество" при
// наличии фамилии и имени, иначе готовое поле ФИО, иначе литерал-заглушка
func buildDisplayName(lastName, firstName, middleName, fio string) string {
	if lastName != "" && firstName != "" {
		name := lastName + " " + firstName
		if middleName != "" {
			name += " " + middleName
		}
		return name
	}
	if fio != "" {
		return fio
	}
	return displayNameNotFound
}
