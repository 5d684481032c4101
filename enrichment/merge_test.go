package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entitysearch/connections"
)

func TestMergeWithRegistry_OverlayByINN(t *testing.T) {
	local := []*connections.Entity{
		{
			Source:      connections.SourceLocal,
			SourceTable: connections.TableOrganizations,
			UNID:        "org-1",
			NameShort:   "ООО Ромашка",
			INN:         "7707083893",
			PhoneNum:    "74951234567",
		},
	}
	external := []*RegistryEntity{
		{
			ID:               "ext-1",
			INN:              "7707083893",
			OGRN:             "1027700132195",
			FullName:         `Общество с ограниченной ответственностью "Ромашка"`,
			Status:           "ACTIVE",
			Activity:         "Торговля оптовая",
			RegistrationDate: "2002-08-01",
		},
	}

	result := MergeWithRegistry(local, external, "registry")

	require.Len(t, result.Merged, 1)
	merged := result.Merged[0]

	// Поля реестра дополняют локальную сущность
	assert.Equal(t, "1027700132195", merged.OGRN)
	assert.Equal(t, "ACTIVE", merged.Status)
	assert.Equal(t, "Торговля оптовая", merged.Activity)
	assert.Equal(t, "2002-08-01", merged.RegistrationDate)

	// Локальные данные сохраняются
	assert.Equal(t, "ООО Ромашка", merged.NameShort)
	assert.Equal(t, "74951234567", merged.PhoneNum)
	assert.Equal(t, connections.SourceLocal, merged.Source)

	// Использованная запись реестра не дублируется в остатке
	assert.Empty(t, result.UnmatchedExternal)
}

func TestMergeWithRegistry_EmptyExternalFieldDoesNotErase(t *testing.T) {
	local := []*connections.Entity{
		{
			Source:      connections.SourceLocal,
			SourceTable: connections.TableOrganizations,
			UNID:        "org-1",
			NameShort:   "ООО Ромашка",
			INN:         "7707083893",
			Status:      "известный статус",
		},
	}
	external := []*RegistryEntity{
		{INN: "7707083893", Status: ""}, // у реестра нет статуса
	}

	result := MergeWithRegistry(local, external, "registry")

	require.Len(t, result.Merged, 1)
	assert.Equal(t, "известный статус", result.Merged[0].Status)
	assert.Equal(t, "ООО Ромашка", result.Merged[0].NameShort)
}

func TestMergeWithRegistry_NotMergeable(t *testing.T) {
	tests := []struct {
		name   string
		entity *connections.Entity
	}{
		{
			"без структурного идентификатора",
			&connections.Entity{Source: connections.SourceLocal, INN: "7707083893"},
		},
		{
			"без ИНН",
			&connections.Entity{Source: connections.SourceLocal, UNID: "org-1"},
		},
		{
			"внешняя сущность",
			&connections.Entity{Source: connections.SourceExternal, UNID: "e-1", INN: "7707083893"},
		},
	}

	external := []*RegistryEntity{
		{INN: "7707083893", Status: "ACTIVE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MergeWithRegistry([]*connections.Entity{tt.entity}, external, "registry")

			require.Len(t, result.Merged, 1)
			assert.Empty(t, result.Merged[0].Status,
				"несливаемая сущность должна пройти без изменений")
			// Неиспользованная запись реестра возвращается отдельно
			require.Len(t, result.UnmatchedExternal, 1)
		})
	}
}

func TestMergeWithRegistry_ConsumedRecordNotReused(t *testing.T) {
	// Использованная запись реестра выбывает из пула кандидатов:
	// вторая локальная сущность с тем же ИНН проходит без наложения
	local := []*connections.Entity{
		{
			Source:      connections.SourceLocal,
			SourceTable: connections.TableOrganizations,
			UNID:        "org-1",
			INN:         "7707083893",
		},
		{
			Source:      connections.SourceLocal,
			SourceTable: connections.TableOrganizations,
			UNID:        "org-2",
			INN:         "7707083893",
		},
	}
	external := []*RegistryEntity{
		{INN: "7707083893", Status: "ACTIVE"},
	}

	result := MergeWithRegistry(local, external, "registry")

	require.Len(t, result.Merged, 2)
	assert.Equal(t, "ACTIVE", result.Merged[0].Status)
	assert.Empty(t, result.Merged[1].Status,
		"вторая сущность не должна получать данные из уже использованной записи")
	assert.Empty(t, result.UnmatchedExternal)
}

func TestMergeWithRegistry_UnmatchedExternalBecomesEntity(t *testing.T) {
	external := []*RegistryEntity{
		{
			ID:        "ext-9",
			INN:       "5047041033",
			ShortName: "ООО Вектор",
			Phone:     "+7 495 000-00-00",
		},
	}

	result := MergeWithRegistry(nil, external, "registry")

	require.Len(t, result.UnmatchedExternal, 1)
	entity := result.UnmatchedExternal[0]
	assert.Equal(t, connections.SourceExternal, entity.Source)
	assert.Equal(t, "registry", entity.SourceEndpoint)
	assert.Equal(t, "ext-9", entity.ExternalID)
	assert.Equal(t, "registry_ext-9", entity.Key())
	assert.Equal(t, connections.TypeOrganization, entity.Type)
}

func TestRegistryEntity_BestPhone(t *testing.T) {
	direct := &RegistryEntity{Phone: "111", RegisterAddress: &RegistryAddress{Phone: "222"}}
	assert.Equal(t, "111", direct.BestPhone())

	fromAddress := &RegistryEntity{RegisterAddress: &RegistryAddress{Phone: "222"}}
	assert.Equal(t, "222", fromAddress.BestPhone())

	empty := &RegistryEntity{}
	assert.Equal(t, "", empty.BestPhone())
}

func TestRegistryEntity_BestOGRN(t *testing.T) {
	org := &RegistryEntity{OGRN: "1027700132195", OGRNIP: "304500116000157"}
	assert.Equal(t, "1027700132195", org.BestOGRN())

	ip := &RegistryEntity{OGRNIP: "304500116000157"}
	assert.Equal(t, "304500116000157", ip.BestOGRN())
}
