package extractors

import (
	"reflect"
	"testing"
)

// TestSplitEmails проверяет разбор многозначных email-полей
func TestSplitEmails(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "один адрес",
			raw:  "info@example.ru",
			want: []string{"info@example.ru"},
		},
		{
			name: "несколько адресов через точку с запятой",
			raw:  "a@x.com;b@y.com",
			want: []string{"a@x.com", "b@y.com"},
		},
		{
			name: "несколько адресов через запятую",
			raw:  "a@x.com, b@y.com",
			want: []string{"a@x.com", "b@y.com"},
		},
		{
			name: "приведение к нижнему регистру",
			raw:  "B@Y.COM",
			want: []string{"b@y.com"},
		},
		{
			name: "дубликаты после нормализации",
			raw:  "a@x.com;A@X.COM",
			want: []string{"a@x.com"},
		},
		{
			name: "невалидные значения отбрасываются",
			raw:  "не email;a@x.com;@nodomain",
			want: []string{"a@x.com"},
		},
		{
			name: "пустая строка",
			raw:  "",
			want: nil,
		},
		{
			name: "только разделители",
			raw:  ";;,",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEmails(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitEmails(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// TestCleanPhone проверяет канонизацию телефонных номеров
func TestCleanPhone(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "номер с форматированием",
			raw:  "+7 (999) 123-45-67",
			want: "79991234567",
		},
		{
			name: "номер без форматирования",
			raw:  "79991234567",
			want: "79991234567",
		},
		{
			name: "номер с восьмеркой остается как есть",
			raw:  "8 (999) 123-45-67",
			want: "89991234567",
		},
		{
			name: "пустая строка",
			raw:  "",
			want: "",
		},
		{
			name: "только мусор",
			raw:  "тел.: -",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanPhone(tt.raw); got != tt.want {
				t.Errorf("CleanPhone(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// TestCleanPhone_Equality проверяет, что форматированный и сырой номера
// сводятся к одной канонической строке цифр
func TestCleanPhone_Equality(t *testing.T) {
	if CleanPhone("+7 (999) 123-45-67") != CleanPhone("79991234567") {
		t.Error("форматированный и сырой номера должны давать одинаковую каноническую строку")
	}
	// Известное ограничение: 8XXXXXXXXXX и 7XXXXXXXXXX остаются разными
	if CleanPhone("89991234567") == CleanPhone("79991234567") {
		t.Error("префиксы 8 и 7 не должны приводиться к одному виду в CleanPhone")
	}
}

// TestSplitPhones проверяет разбор многозначных телефонных полей
func TestSplitPhones(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "несколько номеров",
			raw:  "+7 (495) 111-22-33; 8-800-200-06-00",
			want: []string{"74951112233", "88002000600"},
		},
		{
			name: "дубликаты после очистки",
			raw:  "74951112233;+7 (495) 111-22-33",
			want: []string{"74951112233"},
		},
		{
			name: "короткий мусор отбрасывается",
			raw:  "123;74951112233",
			want: []string{"74951112233"},
		},
		{
			name: "пусто",
			raw:  "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitPhones(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitPhones(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

// TestValidateINN проверяет базовую валидацию ИНН
func TestValidateINN(t *testing.T) {
	tests := []struct {
		inn  string
		want bool
	}{
		{"7701234567", true},
		{"500100200300", true},
		{"77-01 234567", true},
		{"123", false},
		{"", false},
		{"77012345ab", false},
	}

	for _, tt := range tests {
		if got := ValidateINN(tt.inn); got != tt.want {
			t.Errorf("ValidateINN(%q) = %v, want %v", tt.inn, got, tt.want)
		}
	}
}
