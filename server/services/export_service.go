package services

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"entitysearch/connections"
)

// ExportService выгрузка результатов поиска со связями в Excel
type ExportService struct{}

// NewExportService создает новый сервис выгрузки
func NewExportService() *ExportService {
	return &ExportService{}
}

var entitySheetHeaders = []string{
	"Ключ", "Тип", "Наименование", "ИНН", "ОГРН", "Email", "Телефон",
	"Адрес", "Источник", "Таблица", "База", "Связей",
}

var connectionSheetHeaders = []string{
	"Ключ сущности", "Наименование", "Атрибут", "Значение",
	"Связанная сущность", "Вид связи", "Статус", "Детали",
}

// BuildWorkbook формирует книгу Excel: лист сущностей и лист связей
func (s *ExportService) BuildWorkbook(entities []*connections.Entity) (*excelize.File, error) {
	file := excelize.NewFile()

	const entitySheet = "Сущности"
	if err := file.SetSheetName("Sheet1", entitySheet); err != nil {
		return nil, fmt.Errorf("не удалось переименовать лист: %w", err)
	}

	if err := writeRow(file, entitySheet, 1, entitySheetHeaders); err != nil {
		return nil, err
	}

	for i, entity := range entities {
		row := []string{
			entity.Key(),
			string(entity.Type),
			entity.DisplayName(),
			entity.INN,
			entity.OGRN,
			entity.EMail,
			entity.PhoneNum,
			entity.AddressUr,
			entity.Source,
			entity.SourceTable,
			entity.BaseName,
			strconv.Itoa(entity.ConnectionsCount),
		}
		if err := writeRow(file, entitySheet, i+2, row); err != nil {
			return nil, err
		}
	}

	const connectionSheet = "Связи"
	if _, err := file.NewSheet(connectionSheet); err != nil {
		return nil, fmt.Errorf("не удалось создать лист связей: %w", err)
	}
	if err := writeRow(file, connectionSheet, 1, connectionSheetHeaders); err != nil {
		return nil, err
	}

	rowIndex := 2
	for _, entity := range entities {
		for _, group := range entity.Connections {
			for _, link := range group.Links {
				connectedName := ""
				if link.ConnectedEntity != nil {
					connectedName = link.ConnectedEntity.DisplayName()
				}
				row := []string{
					entity.Key(),
					entity.DisplayName(),
					string(group.AttributeType),
					group.AttributeValue,
					connectedName,
					link.Kind,
					link.Status,
					link.Details,
				}
				if err := writeRow(file, connectionSheet, rowIndex, row); err != nil {
					return nil, err
				}
				rowIndex++
			}
		}
	}

	return file, nil
}

// writeRow записывает строку значений начиная с колонки A
func writeRow(file *excelize.File, sheet string, rowIndex int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return fmt.Errorf("не удалось вычислить адрес ячейки: %w", err)
	}
	interfaceValues := make([]interface{}, len(values))
	for i, v := range values {
		interfaceValues[i] = v
	}
	if err := file.SetSheetRow(sheet, cell, &interfaceValues); err != nil {
		return fmt.Errorf("не удалось записать строку %d листа %s: %w", rowIndex, sheet, err)
	}
	return nil
}
