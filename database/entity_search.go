package database

import (
	"context"
	"fmt"
)

// searchLimit ограничение на количество строк из одной таблицы
const searchLimit = 100

// SearchEntities выполняет обычный многотабличный поиск по свободному
// текстовому запросу. Колонки для сравнения выбираются по типу запроса.
// Строки возвращаются как сырые записи с метками sourceTable и baseName;
// нормализация выполняется на стороне вызывающего кода.
func (db *SearchDB) SearchEntities(ctx context.Context, query string, queryType QueryType) ([]map[string]interface{}, error) {
	var results []map[string]interface{}

	for _, spec := range searchTableSpecs {
		columns := spec.columnsFor(queryType)
		if len(columns) == 0 {
			continue
		}

		clause := likeClause(columns[0], 1)
		args := []interface{}{searchArgument(query, queryType)}
		for _, column := range columns[1:] {
			clause += " OR " + likeClause(column, 1)
			args = append(args, searchArgument(query, queryType))
		}

		sqlQuery := fmt.Sprintf("SELECT * FROM %s WHERE %s LIMIT %d", spec.table, clause, searchLimit)
		rows, err := db.conn.QueryContext(ctx, sqlQuery, args...)
		if err != nil {
			return nil, fmt.Errorf("поиск по таблице %s не выполнен: %w", spec.table, err)
		}

		tableRows, err := scanRowMaps(rows)
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("не удалось прочитать строки таблицы %s: %w", spec.table, err)
		}

		for _, row := range tableRows {
			row["sourceTable"] = spec.table
			row["source"] = "local"
			if db.baseName != "" {
				row["baseName"] = db.baseName
			}
			results = append(results, row)
		}
	}

	return results, nil
}

// searchArgument подготавливает значение для сравнения по типу запроса
func searchArgument(query string, queryType QueryType) string {
	switch queryType {
	case QueryTypePhone:
		return NormalizeRussianPhone(query)
	case QueryTypeEmail:
		return query
	default:
		return query
	}
}

// searchTableSpec описывает, какие колонки таблицы участвуют в поиске
// для каждого типа запроса
type searchTableSpec struct {
	table   string
	byName  []string
	byINN   []string
	byOGRN  []string
	byPhone []string
	byEmail []string
}

var searchTableSpecs = []searchTableSpec{
	{
		table:   "organizations",
		byName:  []string{"NameShort", "NameFull"},
		byINN:   []string{"INN"},
		byOGRN:  []string{"OGRN"},
		byPhone: []string{"PhoneNum"},
		byEmail: []string{"eMail"},
	},
	{
		table:   "persons",
		byName:  []string{"LastName", "FirstName"},
		byINN:   []string{"INN"},
		byPhone: []string{"MobilePhone", "HomePhone"},
		byEmail: []string{"eMail"},
	},
	{
		table:   "employees",
		byName:  []string{"FIO"},
		byINN:   []string{"fzINN", "phOrgINN"},
		byPhone: []string{"WorkPhone"},
		byEmail: []string{"eMail"},
	},
	{
		table:   "contactpersons",
		byName:  []string{"FIO"},
		byPhone: []string{"cpPhone"},
		byEmail: []string{"cpEmail"},
	},
}

// columnsFor возвращает колонки таблицы для типа запроса
func (s searchTableSpec) columnsFor(queryType QueryType) []string {
	switch queryType {
	case QueryTypeINN:
		return s.byINN
	case QueryTypeOGRN:
		return s.byOGRN
	case QueryTypePhone:
		return s.byPhone
	case QueryTypeEmail:
		return s.byEmail
	default:
		return s.byName
	}
}

// scanRowMaps сканирует произвольные строки в словари колонка -> значение
func scanRowMaps(rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
			} else {
				row[column] = values[i]
			}
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
