package database

import (
	"context"
	"database/sql"
	"fmt"
)

// ConnectionRow строка результата широкого запроса "у кого еще есть этот
// атрибут". Каждая подвыборка помечает строки парой (таблица-источник,
// колонка совпадения), по которой вызывающий код восстанавливает
// происхождение и классифицирует вид связи.
type ConnectionRow struct {
	SourceTable   string // таблица-источник
	MatchedColumn string // колонка, по которой найдено совпадение
	RecID         string // значение ключевого поля таблицы-источника
	NameShort     string
	NameFull      string
	LastName      string
	FirstName     string
	MiddleName    string
	FIO           string
	INN           string
	FzINN         string
	PhOrgINN      string
	OGRN          string
	ContactValue  string // сырое содержимое колонки совпадения (возможно несколько значений через ";")
	PersonUNID    string // идентификатор физлица для непрямых связей
	BaseName      string
}

// FindRowsByEmails возвращает все записи, в которых встречается хотя бы
// один из переданных email. Один запрос: объединение подвыборок по
// (таблица, колонка) — прямые совпадения плюс один переход через
// обобщенную таблицу контактов.
func (db *SearchDB) FindRowsByEmails(ctx context.Context, emails []string) ([]ConnectionRow, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	n := len(emails)
	query := fmt.Sprintf(`
		SELECT 'organizations' AS source_table, 'eMail' AS matched_column, UNID AS rec_id,
		       NameShort, NameFull, '' , '', '', '',
		       INN, '', '', OGRN, eMail AS contact_value, '', BaseName
		FROM organizations WHERE %s
		UNION ALL
		SELECT 'persons', 'eMail', UNID,
		       '', '', LastName, FirstName, MiddleName, '',
		       INN, '', '', '', eMail, UNID, BaseName
		FROM persons WHERE %s
		UNION ALL
		SELECT 'employees', 'eMail', fzUID,
		       '', '', '', '', '', FIO,
		       '', fzINN, phOrgINN, '', eMail, PersonUNID, BaseName
		FROM employees WHERE %s
		UNION ALL
		SELECT 'contactpersons', 'cpEmail', cpUID,
		       '', '', '', '', '', FIO,
		       '', '', '', '', cpEmail, PersonUNID, BaseName
		FROM contactpersons WHERE %s
		UNION ALL
		SELECT 'contacts', 'ContactValue', c.PersonUNID,
		       '', '', IFNULL(p.LastName, ''), IFNULL(p.FirstName, ''), IFNULL(p.MiddleName, ''), c.PersonName,
		       IFNULL(p.INN, ''), '', '', '', c.ContactValue, c.PersonUNID, c.BaseName
		FROM contacts c LEFT JOIN persons p ON p.UNID = c.PersonUNID
		WHERE c.ContactType = 'email' AND %s`,
		likeClause("eMail", n),
		likeClause("eMail", n),
		likeClause("eMail", n),
		likeClause("cpEmail", n),
		likeClause("c.ContactValue", n),
	)

	args := make([]interface{}, 0, n*5)
	for i := 0; i < 5; i++ {
		args = append(args, toArgs(emails)...)
	}

	return db.queryConnectionRows(ctx, query, args)
}

// FindRowsByPhones возвращает все записи, в которых встречается хотя бы
// один из переданных телефонов (в каноническом виде, только цифры).
// Телефонные колонки хранятся в каноническом виде: импорт и генерация
// данных очищают номера при записи.
func (db *SearchDB) FindRowsByPhones(ctx context.Context, phones []string) ([]ConnectionRow, error) {
	if len(phones) == 0 {
		return nil, nil
	}

	n := len(phones)
	query := fmt.Sprintf(`
		SELECT 'organizations' AS source_table, 'PhoneNum' AS matched_column, UNID AS rec_id,
		       NameShort, NameFull, '', '', '', '',
		       INN, '', '', OGRN, PhoneNum AS contact_value, '', BaseName
		FROM organizations WHERE %s
		UNION ALL
		SELECT 'persons', 'MobilePhone', UNID,
		       '', '', LastName, FirstName, MiddleName, '',
		       INN, '', '', '', MobilePhone, UNID, BaseName
		FROM persons WHERE %s
		UNION ALL
		SELECT 'persons', 'HomePhone', UNID,
		       '', '', LastName, FirstName, MiddleName, '',
		       INN, '', '', '', HomePhone, UNID, BaseName
		FROM persons WHERE %s
		UNION ALL
		SELECT 'employees', 'WorkPhone', fzUID,
		       '', '', '', '', '', FIO,
		       '', fzINN, phOrgINN, '', WorkPhone, PersonUNID, BaseName
		FROM employees WHERE %s
		UNION ALL
		SELECT 'contactpersons', 'cpPhone', cpUID,
		       '', '', '', '', '', FIO,
		       '', '', '', '', cpPhone, PersonUNID, BaseName
		FROM contactpersons WHERE %s
		UNION ALL
		SELECT 'contacts', 'ContactValue', c.PersonUNID,
		       '', '', IFNULL(p.LastName, ''), IFNULL(p.FirstName, ''), IFNULL(p.MiddleName, ''), c.PersonName,
		       IFNULL(p.INN, ''), '', '', '', c.ContactValue, c.PersonUNID, c.BaseName
		FROM contacts c LEFT JOIN persons p ON p.UNID = c.PersonUNID
		WHERE c.ContactType = 'phone' AND %s`,
		likeClause("PhoneNum", n),
		likeClause("MobilePhone", n),
		likeClause("HomePhone", n),
		likeClause("WorkPhone", n),
		likeClause("cpPhone", n),
		likeClause("c.ContactValue", n),
	)

	args := make([]interface{}, 0, n*6)
	for i := 0; i < 6; i++ {
		args = append(args, toArgs(phones)...)
	}

	return db.queryConnectionRows(ctx, query, args)
}

// FindRowsByINNs возвращает все записи, несущие хотя бы один из переданных
// ИНН: собственные ИНН организаций и физлиц, ИНН сотрудника (fzINN), ИНН
// организации-работодателя (phOrgINN), прежние места работы и обобщенные
// контакты.
func (db *SearchDB) FindRowsByINNs(ctx context.Context, inns []string) ([]ConnectionRow, error) {
	if len(inns) == 0 {
		return nil, nil
	}

	n := len(inns)
	in := placeholders(n)
	query := fmt.Sprintf(`
		SELECT 'organizations' AS source_table, 'INN' AS matched_column, UNID AS rec_id,
		       NameShort, NameFull, '', '', '', '',
		       INN, '', '', OGRN, INN AS contact_value, '', BaseName
		FROM organizations WHERE INN IN (%s)
		UNION ALL
		SELECT 'persons', 'INN', UNID,
		       '', '', LastName, FirstName, MiddleName, '',
		       INN, '', '', '', INN, UNID, BaseName
		FROM persons WHERE INN IN (%s)
		UNION ALL
		SELECT 'employees', 'fzINN', fzUID,
		       '', '', '', '', '', FIO,
		       '', fzINN, phOrgINN, '', fzINN, PersonUNID, BaseName
		FROM employees WHERE fzINN IN (%s)
		UNION ALL
		SELECT 'employees', 'phOrgINN', fzUID,
		       '', '', '', '', '', FIO,
		       '', fzINN, phOrgINN, '', phOrgINN, PersonUNID, BaseName
		FROM employees WHERE phOrgINN IN (%s)
		UNION ALL
		SELECT 'prevwork', 'INN', PersonUNID,
		       '', OrgName, '', '', '', '',
		       INN, '', '', '', INN, PersonUNID, BaseName
		FROM prevwork WHERE INN IN (%s)
		UNION ALL
		SELECT 'contacts', 'ContactValue', c.PersonUNID,
		       '', '', IFNULL(p.LastName, ''), IFNULL(p.FirstName, ''), IFNULL(p.MiddleName, ''), c.PersonName,
		       IFNULL(p.INN, ''), '', '', '', c.ContactValue, c.PersonUNID, c.BaseName
		FROM contacts c LEFT JOIN persons p ON p.UNID = c.PersonUNID
		WHERE c.ContactType = 'inn' AND %s`,
		in, in, in, in, in,
		likeClause("c.ContactValue", n),
	)

	args := make([]interface{}, 0, n*6)
	for i := 0; i < 6; i++ {
		args = append(args, toArgs(inns)...)
	}

	return db.queryConnectionRows(ctx, query, args)
}

// queryConnectionRows выполняет объединенный запрос и сканирует строки
func (db *SearchDB) queryConnectionRows(ctx context.Context, query string, args []interface{}) ([]ConnectionRow, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("запрос поиска связей не выполнен: %w", err)
	}
	defer rows.Close()

	var result []ConnectionRow
	for rows.Next() {
		var row ConnectionRow
		var nameShort, nameFull, lastName, firstName, middleName, fio sql.NullString
		var inn, fzINN, phOrgINN, ogrn, contactValue, personUNID, baseName sql.NullString

		if err := rows.Scan(
			&row.SourceTable, &row.MatchedColumn, &row.RecID,
			&nameShort, &nameFull, &lastName, &firstName, &middleName, &fio,
			&inn, &fzINN, &phOrgINN, &ogrn, &contactValue, &personUNID, &baseName,
		); err != nil {
			return nil, fmt.Errorf("не удалось прочитать строку результата: %w", err)
		}

		row.NameShort = nullString(nameShort)
		row.NameFull = nullString(nameFull)
		row.LastName = nullString(lastName)
		row.FirstName = nullString(firstName)
		row.MiddleName = nullString(middleName)
		row.FIO = nullString(fio)
		row.INN = nullString(inn)
		row.FzINN = nullString(fzINN)
		row.PhOrgINN = nullString(phOrgINN)
		row.OGRN = nullString(ogrn)
		row.ContactValue = nullString(contactValue)
		row.PersonUNID = nullString(personUNID)
		row.BaseName = nullString(baseName)

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения результата: %w", err)
	}

	return result, nil
}
