package connections

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldAliases отображение канонических полей на варианты имен в источниках.
// Каноническая форма всегда идет первой: уже заполненное каноническое поле
// не перезаписывается сырым вариантом (first-writer-wins).
var fieldAliases = map[string][]string{
	"UNID":        {"UNID", "unid"},
	"PersonUNID":  {"PersonUNID", "person_unid", "personunid"},
	"cpUID":       {"cpUID", "cp_uid", "cpuid"},
	"fzUID":       {"fzUID", "fz_uid", "fzuid"},
	"INN":         {"INN", "inn"},
	"fzINN":       {"fzINN", "fz_inn", "fzinn"},
	"phOrgINN":    {"phOrgINN", "ph_org_inn", "phorginn"},
	"OGRN":        {"OGRN", "ogrn", "ogrnip"},
	"NameShort":   {"NameShort", "name_short", "short_name", "name"},
	"NameFull":    {"NameFull", "name_full", "full_name"},
	"LastName":    {"LastName", "last_name", "lastname"},
	"FirstName":   {"FirstName", "first_name", "firstname"},
	"MiddleName":  {"MiddleName", "middle_name", "middlename"},
	"FIO":         {"FIO", "fio"},
	"eMail":       {"eMail", "email", "e_mail", "EMail"},
	"PhoneNum":    {"PhoneNum", "phone", "phone_num", "phonenum"},
	"MobilePhone": {"MobilePhone", "mobile_phone", "mobilephone"},
	"WorkPhone":   {"WorkPhone", "work_phone", "workphone"},
	"HomePhone":   {"HomePhone", "home_phone", "homephone"},
	"AddressUr":   {"AddressUr", "address_ur", "legal_address", "register_address"},
	"AddressFact": {"AddressFact", "address_fact", "actual_address"},
	"UrFiz":       {"UrFiz", "ur_fiz", "urfiz"},
	"fIP":         {"fIP", "f_ip", "fip"},
	"source":      {"source"},
	"sourceTable": {"sourceTable", "source_table"},
	"baseName":    {"baseName", "base_name"},
	"endpoint":    {"sourceEndpoint", "endpoint"},
	"externalId":  {"externalId", "external_id", "id"},
	"Status":      {"Status", "status"},
}

// NormalizeRow приводит сырую строку (из любой таблицы или источника)
// к канонической сущности. Имена полей источника в нижнем/snake-регистре
// отображаются на канонические; уже заполненное каноническое поле не
// перезаписывается. fIP приводится к bool, UrFiz — к int. Без ввода-вывода.
func NormalizeRow(row map[string]interface{}) *Entity {
	entity := &Entity{}

	entity.UNID = pickString(row, "UNID")
	entity.PersonUNID = pickString(row, "PersonUNID")
	entity.CpUID = pickString(row, "cpUID")
	entity.FzUID = pickString(row, "fzUID")

	entity.INN = cleanINN(pickString(row, "INN"))
	entity.FzINN = cleanINN(pickString(row, "fzINN"))
	entity.PhOrgINN = cleanINN(pickString(row, "phOrgINN"))
	entity.OGRN = strings.TrimSpace(pickString(row, "OGRN"))

	entity.NameShort = pickString(row, "NameShort")
	entity.NameFull = pickString(row, "NameFull")
	entity.LastName = pickString(row, "LastName")
	entity.FirstName = pickString(row, "FirstName")
	entity.MiddleName = pickString(row, "MiddleName")
	entity.FIO = pickString(row, "FIO")

	entity.EMail = pickString(row, "eMail")
	entity.PhoneNum = pickString(row, "PhoneNum")
	entity.MobilePhone = pickString(row, "MobilePhone")
	entity.WorkPhone = pickString(row, "WorkPhone")
	entity.HomePhone = pickString(row, "HomePhone")

	entity.AddressUr = pickString(row, "AddressUr")
	entity.AddressFact = pickString(row, "AddressFact")

	entity.UrFiz = coerceInt(pickValue(row, "UrFiz"))
	entity.FIP = coerceBool(pickValue(row, "fIP"))

	entity.Source = pickString(row, "source")
	entity.SourceTable = pickString(row, "sourceTable")
	entity.BaseName = pickString(row, "baseName")
	entity.SourceEndpoint = pickString(row, "endpoint")
	entity.Status = pickString(row, "Status")
	if entity.SourceEndpoint != "" {
		entity.Source = SourceExternal
		entity.ExternalID = pickString(row, "externalId")
	} else if entity.Source == "" {
		entity.Source = SourceLocal
	}

	entity.Type = inferEntityType(entity)
	return entity
}

// NormalizeEntity дозаполняет вычисляемые поля уже построенной сущности.
// Идемпотентна: повторная нормализация ничего не меняет.
func NormalizeEntity(entity *Entity) *Entity {
	if entity == nil {
		return nil
	}
	if entity.Source == "" {
		if entity.SourceEndpoint != "" {
			entity.Source = SourceExternal
		} else {
			entity.Source = SourceLocal
		}
	}
	if entity.Type == "" || entity.Type == TypeUnknown {
		entity.Type = inferEntityType(entity)
	}
	return entity
}

// inferEntityType выводит тип сущности. Приоритет:
// явный тег типа -> признак ИП -> признак юр/физ -> длина ИНН ->
// таблица-источник.
func inferEntityType(e *Entity) EntityType {
	if e.Type != "" && e.Type != TypeUnknown {
		return e.Type
	}
	if e.FIP {
		return TypeSoleProprietor
	}
	switch e.UrFiz {
	case 1:
		return TypeOrganization
	case 2:
		return TypeIndividual
	}
	switch len(e.INN) {
	case 10:
		return TypeOrganization
	case 12:
		return TypeIndividual
	}
	switch e.SourceTable {
	case TableOrganizations:
		return TypeOrganization
	case TablePersons, TableEmployees, TableContactPersons, TableContacts, TablePrevWork:
		return TypeIndividual
	}
	return TypeUnknown
}

// cleanINN убирает пробелы и дефисы из ИНН
func cleanINN(inn string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(inn), " ", ""), "-", "")
}

// pickValue возвращает первое непустое значение среди вариантов имени поля
func pickValue(row map[string]interface{}, canonical string) interface{} {
	for _, alias := range fieldAliases[canonical] {
		if value, ok := row[alias]; ok && value != nil {
			if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
				continue
			}
			return value
		}
	}
	return nil
}

// pickString возвращает первое непустое строковое значение поля
func pickString(row map[string]interface{}, canonical string) string {
	value := pickValue(row, canonical)
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case int, int64, float64:
		return strings.TrimSuffix(fmt.Sprint(v), ".000000")
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

// coerceBool приводит значение признака к bool
func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true" || s == "да" || s == "истина"
	}
	return false
}

// coerceInt приводит значение перечисления к int
func coerceInt(value interface{}) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}
