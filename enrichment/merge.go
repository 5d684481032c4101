package enrichment

import (
	"entitysearch/connections"
)

// MergeResult результат слияния локальных сущностей с внешним реестром
type MergeResult struct {
	// Merged локальные сущности; у совпавших по ИНН поля дополнены
	// данными реестра
	Merged []*connections.Entity
	// UnmatchedExternal записи реестра без локального двойника,
	// приведенные к сущностям
	UnmatchedExternal []*connections.Entity
}

// MergeWithRegistry сливает локальные сущности с записями внешнего реестра
// по ИНН. Участвуют только локальные сущности со структурным
// идентификатором (организация, сотрудник или контактное лицо) и
// непустым ИНН; остальные проходят без изменений. Поле реестра
// накладывается только когда оно непустое: локальные данные никогда не
// затираются отсутствующим внешним полем. Использованные записи реестра
// выбывают из пула; остаток возвращается как UnmatchedExternal.
func MergeWithRegistry(local []*connections.Entity, external []*RegistryEntity, endpoint string) *MergeResult {
	result := &MergeResult{
		Merged: make([]*connections.Entity, 0, len(local)),
	}

	// Пул кандидатов реестра по ИНН
	byINN := make(map[string]*RegistryEntity, len(external))
	consumed := make(map[string]bool)
	for _, ext := range external {
		if ext.INN != "" {
			if _, exists := byINN[ext.INN]; !exists {
				byINN[ext.INN] = ext
			}
		}
	}

	for _, entity := range local {
		if !isMergeable(entity) {
			result.Merged = append(result.Merged, entity)
			continue
		}

		ext, found := byINN[entity.INN]
		if !found {
			result.Merged = append(result.Merged, entity)
			continue
		}

		overlayRegistryFields(entity, ext)
		consumed[ext.INN] = true
		delete(byINN, entity.INN)
		result.Merged = append(result.Merged, entity)
	}

	for _, ext := range external {
		if ext.INN != "" && consumed[ext.INN] {
			continue
		}
		result.UnmatchedExternal = append(result.UnmatchedExternal, ext.ToEntity(endpoint))
	}

	return result
}

// isMergeable проверяет, участвует ли локальная сущность в слиянии:
// нужен структурный идентификатор и непустой ИНН
func isMergeable(entity *connections.Entity) bool {
	if entity.Source != connections.SourceLocal {
		return false
	}
	hasStructuralID := entity.UNID != "" || entity.FzUID != "" || entity.CpUID != ""
	return hasStructuralID && entity.INN != ""
}

// overlayRegistryFields накладывает фиксированный набор полей реестра
// на локальную сущность; пустые внешние значения пропускаются
func overlayRegistryFields(entity *connections.Entity, ext *RegistryEntity) {
	setIfPresent(&entity.NameFull, ext.FullName)
	setIfPresent(&entity.NameShort, ext.ShortName)
	setIfPresent(&entity.Status, ext.Status)
	setIfPresent(&entity.OGRN, ext.BestOGRN())
	setIfPresent(&entity.CharterCapital, ext.CharterCapital)
	setIfPresent(&entity.Activity, ext.Activity)
	setIfPresent(&entity.RegistrationDate, ext.RegistrationDate)
	setIfPresent(&entity.RegistrationKind, ext.RegistrationKind)
	setIfPresent(&entity.PhoneNum, ext.BestPhone())
	if ext.RegisterAddress != nil {
		setIfPresent(&entity.AddressUr, ext.RegisterAddress.Value)
	}
}

// setIfPresent записывает значение только когда оно непустое
func setIfPresent(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// ToEntity приводит запись реестра к сущности внешнего происхождения
func (e *RegistryEntity) ToEntity(endpoint string) *connections.Entity {
	entity := &connections.Entity{
		Source:           connections.SourceExternal,
		SourceEndpoint:   endpoint,
		ExternalID:       e.ID,
		INN:              e.INN,
		OGRN:             e.BestOGRN(),
		NameFull:         e.FullName,
		NameShort:        e.ShortName,
		Status:           e.Status,
		PhoneNum:         e.BestPhone(),
		CharterCapital:   e.CharterCapital,
		Activity:         e.Activity,
		RegistrationDate: e.RegistrationDate,
		RegistrationKind: e.RegistrationKind,
	}
	if e.RegisterAddress != nil {
		entity.AddressUr = e.RegisterAddress.Value
	}
	return connections.NormalizeEntity(entity)
}
