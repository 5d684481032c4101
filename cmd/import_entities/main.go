// Импорт сущностей из CSV-выгрузок в поисковую базу данных.
//
// Выгрузки из учетных систем приходят в UTF-8 или Windows-1251; целевая
// таблица задается флагом -table. Колонки сопоставляются по заголовку CSV,
// лишние колонки игнорируются. Телефонные колонки при записи приводятся
// к цифровому виду, email — к нижнему регистру: поиск связей сравнивает
// значения в каноничной форме.
package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"entitysearch/database"
	"entitysearch/extractors"
)

// tableColumns допустимые колонки для каждой целевой таблицы
var tableColumns = map[string][]string{
	"organizations":  {"UNID", "NameShort", "NameFull", "INN", "OGRN", "eMail", "PhoneNum", "AddressUr", "AddressFact", "UrFiz", "fIP", "BaseName"},
	"persons":        {"UNID", "LastName", "FirstName", "MiddleName", "INN", "eMail", "MobilePhone", "HomePhone", "UrFiz", "fIP", "BaseName"},
	"employees":      {"fzUID", "PersonUNID", "FIO", "fzINN", "phOrgINN", "eMail", "WorkPhone", "BaseName"},
	"contactpersons": {"cpUID", "PersonUNID", "OrgUNID", "FIO", "cpEmail", "cpPhone", "BaseName"},
	"prevwork":       {"PersonUNID", "INN", "OrgName", "DateFrom", "DateTo", "BaseName"},
	"contacts":       {"PersonUNID", "PersonName", "ContactType", "ContactValue", "BaseName"},
}

// phoneColumns колонки с телефонами, приводимые к цифровому виду
var phoneColumns = map[string]bool{
	"PhoneNum":    true,
	"MobilePhone": true,
	"HomePhone":   true,
	"WorkPhone":   true,
	"cpPhone":     true,
}

// emailColumns колонки с email, приводимые к нижнему регистру
var emailColumns = map[string]bool{
	"eMail":   true,
	"cpEmail": true,
}

func main() {
	dbPath := flag.String("db", "search_data.db", "путь к поисковой базе данных")
	filePath := flag.String("file", "", "путь к CSV-файлу")
	table := flag.String("table", "", "целевая таблица (organizations, persons, employees, contactpersons, prevwork, contacts)")
	baseName := flag.String("base", "", "метка исходной базы (подставляется в BaseName, если колонки нет в файле)")
	encoding := flag.String("encoding", "utf-8", "кодировка файла: utf-8 или cp1251")
	delimiter := flag.String("delimiter", ";", "разделитель полей CSV")
	flag.Parse()

	if *filePath == "" || *table == "" {
		flag.Usage()
		os.Exit(1)
	}

	columns, ok := tableColumns[*table]
	if !ok {
		log.Fatalf("Неизвестная таблица: %s", *table)
	}

	db, err := database.NewSearchDB(*dbPath, *baseName)
	if err != nil {
		log.Fatalf("Ошибка открытия базы данных: %v", err)
	}
	defer db.Close()

	imported, skipped, err := importCSV(db.GetConnection(), *filePath, *table, columns, *baseName, *encoding, *delimiter)
	if err != nil {
		log.Fatalf("Ошибка импорта: %v", err)
	}

	log.Printf("Импорт завершен: таблица=%s, загружено=%d, пропущено=%d", *table, imported, skipped)
}

func importCSV(conn *sql.DB, filePath, table string, columns []string, baseName, encoding, delimiter string) (int, int, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, 0, fmt.Errorf("не удалось открыть файл %s: %w", filePath, err)
	}
	defer file.Close()

	var reader io.Reader = file
	switch strings.ToLower(encoding) {
	case "utf-8", "utf8":
		// как есть
	case "cp1251", "windows-1251":
		reader = transform.NewReader(file, charmap.Windows1251.NewDecoder())
	default:
		return 0, 0, fmt.Errorf("неподдерживаемая кодировка: %s", encoding)
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = rune(delimiter[0])
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("не удалось прочитать заголовок: %w", err)
	}

	// Сопоставление колонок файла с колонками таблицы
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	fieldIndex := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		if known[name] {
			fieldIndex[name] = i
		}
	}
	if len(fieldIndex) == 0 {
		return 0, 0, fmt.Errorf("в заголовке не найдено ни одной известной колонки таблицы %s", table)
	}

	insertColumns := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, found := fieldIndex[c]; found || (c == "BaseName" && baseName != "") {
			insertColumns = append(insertColumns, c)
		}
	}

	query := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(insertColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?,", len(insertColumns)), ","))

	tx, err := conn.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("не удалось начать транзакцию: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, 0, fmt.Errorf("не удалось подготовить запрос: %w", err)
	}
	defer stmt.Close()

	imported, skipped := 0, 0
	for lineNum := 2; ; lineNum++ {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Строка %d пропущена: %v", lineNum, err)
			skipped++
			continue
		}

		args := make([]interface{}, len(insertColumns))
		for i, column := range insertColumns {
			idx, found := fieldIndex[column]
			if !found || idx >= len(record) {
				if column == "BaseName" {
					args[i] = baseName
				} else {
					args[i] = ""
				}
				continue
			}
			args[i] = normalizeValue(column, record[idx])
		}

		if _, err := stmt.Exec(args...); err != nil {
			log.Printf("Строка %d не записана: %v", lineNum, err)
			skipped++
			continue
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("не удалось зафиксировать транзакцию: %w", err)
	}
	return imported, skipped, nil
}

// normalizeValue приводит значение колонки к каноничной форме хранения
func normalizeValue(column, value string) string {
	value = strings.TrimSpace(value)
	switch {
	case phoneColumns[column]:
		return canonicalPhones(value)
	case emailColumns[column]:
		return strings.ToLower(value)
	default:
		return value
	}
}

// canonicalPhones приводит многозначную телефонную строку к цифровому виду,
// сохраняя разделитель ";"
func canonicalPhones(value string) string {
	if value == "" {
		return ""
	}
	parts := strings.Split(value, ";")
	cleaned := make([]string, 0, len(parts))
	for _, part := range parts {
		if digits := extractors.CleanPhone(part); digits != "" {
			cleaned = append(cleaned, digits)
		}
	}
	return strings.Join(cleaned, ";")
}
