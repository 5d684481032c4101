package database

import (
	"context"
	"database/sql"
	"fmt"
)

// PersonDetailRow строка объединенного запроса имен физлиц
type PersonDetailRow struct {
	SourceTable string
	PersonUNID  string
	LastName    string
	FirstName   string
	MiddleName  string
	FIO         string
}

// FindPersonDetailRows возвращает все строки из таблиц, которые могут
// содержать имя физлица с одним из переданных идентификаторов:
// persons, employees, contactpersons и contacts. Приоритет таблиц
// применяет вызывающий код.
func (db *SearchDB) FindPersonDetailRows(ctx context.Context, personIDs []string) ([]PersonDetailRow, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}

	in := placeholders(len(personIDs))
	query := fmt.Sprintf(`
		SELECT 'persons' AS source_table, UNID AS person_unid, LastName, FirstName, MiddleName, '' AS fio
		FROM persons WHERE UNID IN (%s)
		UNION ALL
		SELECT 'employees', PersonUNID, '', '', '', FIO
		FROM employees WHERE PersonUNID IN (%s)
		UNION ALL
		SELECT 'contactpersons', PersonUNID, '', '', '', FIO
		FROM contactpersons WHERE PersonUNID IN (%s)
		UNION ALL
		SELECT 'contacts', PersonUNID, '', '', '', PersonName
		FROM contacts WHERE PersonUNID IN (%s)`,
		in, in, in, in,
	)

	args := make([]interface{}, 0, len(personIDs)*4)
	for i := 0; i < 4; i++ {
		args = append(args, toArgs(personIDs)...)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("запрос имен физлиц не выполнен: %w", err)
	}
	defer rows.Close()

	var result []PersonDetailRow
	for rows.Next() {
		var row PersonDetailRow
		var lastName, firstName, middleName, fio sql.NullString
		if err := rows.Scan(&row.SourceTable, &row.PersonUNID, &lastName, &firstName, &middleName, &fio); err != nil {
			return nil, fmt.Errorf("не удалось прочитать строку имен: %w", err)
		}
		row.LastName = nullString(lastName)
		row.FirstName = nullString(firstName)
		row.MiddleName = nullString(middleName)
		row.FIO = nullString(fio)
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения результата: %w", err)
	}

	return result, nil
}
