package database

import (
	"fmt"
	"strings"
)

// createSchema создает таблицы-источники и индексы, если их нет.
// Шесть таблиц: организации, физлица, сотрудники (фл), контактные лица,
// прежние места работы и обобщенные контакты (для непрямых связей).
func (db *SearchDB) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS organizations (
			UNID       TEXT PRIMARY KEY,
			NameShort  TEXT DEFAULT '',
			NameFull   TEXT DEFAULT '',
			INN        TEXT DEFAULT '',
			OGRN       TEXT DEFAULT '',
			eMail      TEXT DEFAULT '',
			PhoneNum   TEXT DEFAULT '',
			AddressUr  TEXT DEFAULT '',
			AddressFact TEXT DEFAULT '',
			UrFiz      INTEGER DEFAULT 1,
			fIP        INTEGER DEFAULT 0,
			BaseName   TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS persons (
			UNID        TEXT PRIMARY KEY,
			LastName    TEXT DEFAULT '',
			FirstName   TEXT DEFAULT '',
			MiddleName  TEXT DEFAULT '',
			INN         TEXT DEFAULT '',
			eMail       TEXT DEFAULT '',
			MobilePhone TEXT DEFAULT '',
			HomePhone   TEXT DEFAULT '',
			UrFiz       INTEGER DEFAULT 2,
			fIP         INTEGER DEFAULT 0,
			BaseName    TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			fzUID      TEXT PRIMARY KEY,
			PersonUNID TEXT DEFAULT '',
			FIO        TEXT DEFAULT '',
			fzINN      TEXT DEFAULT '',
			phOrgINN   TEXT DEFAULT '',
			eMail      TEXT DEFAULT '',
			WorkPhone  TEXT DEFAULT '',
			BaseName   TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS contactpersons (
			cpUID      TEXT PRIMARY KEY,
			PersonUNID TEXT DEFAULT '',
			OrgUNID    TEXT DEFAULT '',
			FIO        TEXT DEFAULT '',
			cpEmail    TEXT DEFAULT '',
			cpPhone    TEXT DEFAULT '',
			BaseName   TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS prevwork (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			PersonUNID TEXT DEFAULT '',
			INN        TEXT DEFAULT '',
			OrgName    TEXT DEFAULT '',
			DateFrom   TEXT DEFAULT '',
			DateTo     TEXT DEFAULT '',
			BaseName   TEXT DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			PersonUNID   TEXT DEFAULT '',
			PersonName   TEXT DEFAULT '',
			ContactType  TEXT DEFAULT '',
			ContactValue TEXT DEFAULT '',
			BaseName     TEXT DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_organizations_inn ON organizations(INN)`,
		`CREATE INDEX IF NOT EXISTS idx_persons_inn ON persons(INN)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_fz_inn ON employees(fzINN)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_ph_org_inn ON employees(phOrgINN)`,
		`CREATE INDEX IF NOT EXISTS idx_prevwork_inn ON prevwork(INN)`,
		`CREATE INDEX IF NOT EXISTS idx_prevwork_person ON prevwork(PersonUNID)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_person ON contacts(PersonUNID)`,
		`CREATE INDEX IF NOT EXISTS idx_contacts_value ON contacts(ContactValue)`,
	}

	for _, statement := range statements {
		if _, err := db.conn.Exec(statement); err != nil {
			errStr := strings.ToLower(err.Error())
			// Игнорируем ошибки, если объект уже существует
			if !strings.Contains(errStr, "already exists") &&
				!strings.Contains(errStr, "duplicate column") {
				return fmt.Errorf("schema statement failed: %s, error: %w", statement, err)
			}
		}
	}

	return nil
}
