package connections

import "entitysearch/extractors"

// EntityType тип сущности
type EntityType string

const (
	TypeOrganization   EntityType = "organization"
	TypeIndividual     EntityType = "individual"
	TypeSoleProprietor EntityType = "sole_proprietor"
	TypeUnknown        EntityType = "unknown"
)

// AttributeType тип атрибута, по которому найдена связь
type AttributeType string

const (
	AttributeEmail AttributeType = "email"
	AttributePhone AttributeType = "phone"
	AttributeINN   AttributeType = "inn"
)

// Виды связей (connection kind)
const (
	KindEmailMatch            = "email_match"
	KindPhoneMatch            = "phone_match"
	KindINNMatch              = "inn_match"
	KindPersonINNToOrgMatch   = "person_inn_to_org_match"
	KindOrgINNToWorkerMatch   = "org_inn_to_worker_match"
	KindOrgINNToPrevWorkMatch = "org_inn_to_prev_worker_match"
)

// Статусы связей (семантическое уточнение вида)
const (
	StatusOrganizationMatch = "organization_match"
	StatusPersonMatch       = "person_match"
	StatusCurrentEmployee   = "current_employee"
	StatusFormerEmployee    = "former_employee"
	StatusContactPerson     = "contact_person"
)

// Источники данных
const (
	SourceLocal    = "local"
	SourceExternal = "external"
)

// Entity нормализованная сущность: организация, физлицо, ИП или
// вспомогательная запись (прежнее место работы, запись контакта).
// Все поля, кроме ключа, опциональны.
type Entity struct {
	// Идентификаторы по таблицам-источникам
	UNID       string `json:"UNID,omitempty"`
	PersonUNID string `json:"PersonUNID,omitempty"`
	CpUID      string `json:"cpUID,omitempty"`
	FzUID      string `json:"fzUID,omitempty"`

	// Реквизиты
	INN      string `json:"INN,omitempty"`
	FzINN    string `json:"fzINN,omitempty"`
	PhOrgINN string `json:"phOrgINN,omitempty"`
	OGRN     string `json:"OGRN,omitempty"`

	// Наименования
	NameShort  string `json:"NameShort,omitempty"`
	NameFull   string `json:"NameFull,omitempty"`
	LastName   string `json:"LastName,omitempty"`
	FirstName  string `json:"FirstName,omitempty"`
	MiddleName string `json:"MiddleName,omitempty"`
	FIO        string `json:"FIO,omitempty"`

	// Контакты (сырые значения, возможно несколько через ";")
	EMail       string `json:"eMail,omitempty"`
	PhoneNum    string `json:"PhoneNum,omitempty"`
	MobilePhone string `json:"MobilePhone,omitempty"`
	WorkPhone   string `json:"WorkPhone,omitempty"`
	HomePhone   string `json:"HomePhone,omitempty"`

	// Адреса
	AddressUr   string `json:"AddressUr,omitempty"`
	AddressFact string `json:"AddressFact,omitempty"`

	// Признаки типа
	UrFiz int  `json:"UrFiz,omitempty"` // 1 = юрлицо, 2 = физлицо
	FIP   bool `json:"fIP,omitempty"`   // признак ИП

	// Данные внешнего реестра (переносятся при merge)
	Status           string `json:"Status,omitempty"`
	CharterCapital   string `json:"CharterCapital,omitempty"`
	Activity         string `json:"Activity,omitempty"`
	RegistrationDate string `json:"RegistrationDate,omitempty"`
	RegistrationKind string `json:"RegistrationKind,omitempty"`

	// Происхождение
	Source         string `json:"source,omitempty"` // local | external
	SourceTable    string `json:"sourceTable,omitempty"`
	SourceEndpoint string `json:"sourceEndpoint,omitempty"`
	ExternalID     string `json:"externalId,omitempty"`
	BaseName       string `json:"baseName,omitempty"` // метка исходной БД (только local)

	// Вычисляемые поля
	Type             EntityType        `json:"type,omitempty"`
	Connections      []ConnectionGroup `json:"connections,omitempty"`
	ConnectionsCount int               `json:"connectionsCount"`
}

// ConnectionGroup группа связей, найденных по одному общему атрибуту
type ConnectionGroup struct {
	AttributeType  AttributeType `json:"attributeType"`
	AttributeValue string        `json:"attributeValue"`
	Links          []Connection  `json:"links"`
}

// Connection одна связь с другой сущностью
type Connection struct {
	ConnectedEntity *Entity `json:"connectedEntity"`
	Kind            string  `json:"connectionKind"`
	Status          string  `json:"connectionStatus"`
	Details         string  `json:"details"`
}

// PersonDetails данные физлица, найденные по идентификатору
type PersonDetails struct {
	PersonUNID  string `json:"PersonUNID"`
	LastName    string `json:"LastName,omitempty"`
	FirstName   string `json:"FirstName,omitempty"`
	MiddleName  string `json:"MiddleName,omitempty"`
	DisplayName string `json:"displayName"`
	SourceTable string `json:"sourceTable"`
}

// AllEmails возвращает дедуплицированный набор email сущности.
// Сканируется фиксированный список полей-кандидатов.
func (e *Entity) AllEmails() []string {
	var emails []string
	seen := make(map[string]bool)
	for _, field := range []string{e.EMail} {
		for _, email := range extractors.SplitEmails(field) {
			if !seen[email] {
				seen[email] = true
				emails = append(emails, email)
			}
		}
	}
	return emails
}

// AllPhones возвращает дедуплицированный набор телефонов сущности
// в каноническом виде (только цифры). Сканируется фиксированный
// список полей-кандидатов: общий, мобильный, рабочий, домашний.
func (e *Entity) AllPhones() []string {
	var phones []string
	seen := make(map[string]bool)
	for _, field := range []string{e.PhoneNum, e.MobilePhone, e.WorkPhone, e.HomePhone} {
		for _, phone := range extractors.SplitPhones(field) {
			if !seen[phone] {
				seen[phone] = true
				phones = append(phones, phone)
			}
		}
	}
	return phones
}

// AllINNs возвращает дедуплицированный набор ИНН, которые несет запись:
// собственный ИНН, ИНН физлица (fzINN) и ИНН организации-работодателя (phOrgINN)
func (e *Entity) AllINNs() []string {
	var inns []string
	seen := make(map[string]bool)
	for _, inn := range []string{e.INN, e.FzINN, e.PhOrgINN} {
		inn = cleanINN(inn)
		if inn == "" || seen[inn] {
			continue
		}
		seen[inn] = true
		inns = append(inns, inn)
	}
	return inns
}

// DisplayName возвращает отображаемое имя сущности
func (e *Entity) DisplayName() string {
	switch {
	case e.NameShort != "":
		return e.NameShort
	case e.NameFull != "":
		return e.NameFull
	case e.LastName != "" && e.FirstName != "":
		name := e.LastName + " " + e.FirstName
		if e.MiddleName != "" {
			name += " " + e.MiddleName
		}
		return name
	case e.FIO != "":
		return e.FIO
	}
	return ""
}

// Projection возвращает частичную проекцию сущности для поля
// connectedEntity: идентичность, отображаемые поля и происхождение
func (e *Entity) Projection() *Entity {
	return &Entity{
		UNID:        e.UNID,
		PersonUNID:  e.PersonUNID,
		CpUID:       e.CpUID,
		FzUID:       e.FzUID,
		INN:         e.INN,
		FzINN:       e.FzINN,
		PhOrgINN:    e.PhOrgINN,
		OGRN:        e.OGRN,
		NameShort:   e.NameShort,
		NameFull:    e.NameFull,
		LastName:    e.LastName,
		FirstName:   e.FirstName,
		MiddleName:  e.MiddleName,
		FIO:         e.FIO,
		Source:      e.Source,
		SourceTable: e.SourceTable,
		BaseName:    e.BaseName,
		Type:        e.Type,
	}
}

// AddConnection добавляет связь в группу для пары (тип атрибута, значение),
// создавая группу при необходимости. Связь с самим собой и дубликаты
// (та же сущность + тот же details) отбрасываются.
func (e *Entity) AddConnection(attrType AttributeType, attrValue string, conn Connection) {
	if conn.ConnectedEntity != nil && conn.ConnectedEntity.Key() == e.Key() {
		return
	}

	for i := range e.Connections {
		group := &e.Connections[i]
		if group.AttributeType == attrType && group.AttributeValue == attrValue {
			if !group.containsConnection(conn) {
				group.Links = append(group.Links, conn)
			}
			return
		}
	}

	e.Connections = append(e.Connections, ConnectionGroup{
		AttributeType:  attrType,
		AttributeValue: attrValue,
		Links:          []Connection{conn},
	})
}

// containsConnection проверяет наличие эквивалентной связи в группе.
// Эквивалентность: одинаковый ключ связанной сущности и одинаковый details.
func (g *ConnectionGroup) containsConnection(conn Connection) bool {
	connKey := ""
	if conn.ConnectedEntity != nil {
		connKey = conn.ConnectedEntity.Key()
	}
	for _, existing := range g.Links {
		existingKey := ""
		if existing.ConnectedEntity != nil {
			existingKey = existing.ConnectedEntity.Key()
		}
		if existingKey == connKey && existing.Details == conn.Details {
			return true
		}
	}
	return false
}

// RecomputeConnectionsCount пересчитывает connectionsCount как сумму
// количества связей по всем группам
func (e *Entity) RecomputeConnectionsCount() {
	count := 0
	for _, group := range e.Connections {
		count += len(group.Links)
	}
	e.ConnectionsCount = count
}
