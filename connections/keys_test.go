package connections

import "testing"

func TestEntityKey_LocalTables(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
		want   string
	}{
		{
			"организация",
			Entity{SourceTable: TableOrganizations, UNID: "org-1"},
			"organizations_UNID_org-1",
		},
		{
			"физлицо",
			Entity{SourceTable: TablePersons, UNID: "p-1"},
			"persons_UNID_p-1",
		},
		{
			"сотрудник",
			Entity{SourceTable: TableEmployees, FzUID: "fz-1"},
			"employees_fzUID_fz-1",
		},
		{
			"контактное лицо",
			Entity{SourceTable: TableContactPersons, CpUID: "cp-1"},
			"contactpersons_cpUID_cp-1",
		},
		{
			"прежнее место работы",
			Entity{SourceTable: TablePrevWork, PersonUNID: "p-1"},
			"prevwork_PersonUNID_p-1",
		},
		{
			"обобщенный контакт",
			Entity{SourceTable: TableContacts, PersonUNID: "p-1"},
			"contacts_PersonUNID_p-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entity.Key(); got != tt.want {
				t.Errorf("Key() = %q, ожидалось %q", got, tt.want)
			}
		})
	}
}

func TestEntityKey_External(t *testing.T) {
	withID := Entity{Source: SourceExternal, SourceEndpoint: "registry", ExternalID: "ext-42", INN: "7707083893"}
	if got := withID.Key(); got != "registry_ext-42" {
		t.Errorf("Key() = %q, ожидалось %q", got, "registry_ext-42")
	}

	// Без внешнего идентификатора ключ выводится из ИНН
	withINN := Entity{Source: SourceExternal, SourceEndpoint: "registry", INN: "7707083893"}
	if got := withINN.Key(); got != "registry_inn_7707083893" {
		t.Errorf("Key() = %q, ожидалось %q", got, "registry_inn_7707083893")
	}

	empty := Entity{Source: SourceExternal, SourceEndpoint: "registry"}
	if got := empty.Key(); got != "" {
		t.Errorf("Key() = %q, ожидалась пустая строка", got)
	}
}

func TestEntityKey_NotDerivable(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
	}{
		{"неизвестная таблица", Entity{SourceTable: "unknown_table", UNID: "x"}},
		{"пустое ключевое поле", Entity{SourceTable: TableOrganizations}},
		{"ключевое поле из пробелов", Entity{SourceTable: TablePersons, UNID: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entity.Key(); got != "" {
				t.Errorf("Key() = %q, ожидалась пустая строка", got)
			}
		})
	}
}

func TestKeyWith_CustomConfig(t *testing.T) {
	cfg := KeyConfig{"custom_table": "PersonUNID"}
	entity := Entity{SourceTable: "custom_table", PersonUNID: "p-9"}

	if got := entity.KeyWith(cfg); got != "custom_table_PersonUNID_p-9" {
		t.Errorf("KeyWith() = %q, ожидалось %q", got, "custom_table_PersonUNID_p-9")
	}
}

func TestFilterKeyed(t *testing.T) {
	keyed := &Entity{SourceTable: TableOrganizations, UNID: "org-1"}
	keyless := &Entity{SourceTable: TableOrganizations}
	duplicate := &Entity{SourceTable: TableOrganizations, UNID: "org-1", NameShort: "дубль"}

	byKey := filterKeyed([]*Entity{keyed, keyless, duplicate})

	if len(byKey) != 1 {
		t.Fatalf("filterKeyed вернул %d сущностей, ожидалась 1", len(byKey))
	}
	if byKey["organizations_UNID_org-1"] != keyed {
		t.Error("при дубликате ключа должна сохраняться первая сущность")
	}
}
