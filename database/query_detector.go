package database

import (
	"regexp"
	"strings"

	"entitysearch/extractors"
)

// QueryType тип поискового запроса
type QueryType string

const (
	QueryTypeINN   QueryType = "inn"
	QueryTypeOGRN  QueryType = "ogrn"
	QueryTypePhone QueryType = "phone"
	QueryTypeEmail QueryType = "email"
	QueryTypeName  QueryType = "name"
)

var digitsOnlyPattern = regexp.MustCompile(`^\d+$`)

// DetectQueryType классифицирует свободный текстовый запрос:
// ИНН (10/12 цифр), ОГРН/ОГРНИП (13/15 цифр), телефон, email или имя.
func DetectQueryType(query string) QueryType {
	trimmed := strings.TrimSpace(query)

	if strings.Contains(trimmed, "@") && extractors.ValidateEmail(strings.ToLower(trimmed)) {
		return QueryTypeEmail
	}

	digits := extractors.CleanPhone(trimmed)
	if digits != "" && digitsOnlyPattern.MatchString(digits) {
		// Для чисто цифровых запросов длина решает
		switch {
		case extractors.ValidateINN(digits):
			// 10 и 12 цифр могут быть и ИНН, и телефоном без кода страны;
			// при явном телефонном форматировании считаем телефоном
			if looksLikePhone(trimmed) {
				return QueryTypePhone
			}
			return QueryTypeINN
		case extractors.ValidateOGRN(digits):
			return QueryTypeOGRN
		case len(digits) >= 7:
			return QueryTypePhone
		}
	}

	return QueryTypeName
}

// looksLikePhone проверяет наличие телефонного форматирования в запросе
func looksLikePhone(query string) bool {
	return strings.ContainsAny(query, "+()-") || strings.Contains(query, " ")
}

// NormalizeRussianPhone приводит российский номер к форме с ведущей
// семеркой: 8XXXXXXXXXX -> 7XXXXXXXXXX, XXXXXXXXXX -> 7XXXXXXXXXX.
// Применяется только в детекторе типа запроса; поиск связей сравнивает
// номера без этой канонизации (известное ограничение точности).
func NormalizeRussianPhone(phone string) string {
	digits := extractors.CleanPhone(phone)
	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "8"):
		return "7" + digits[1:]
	case len(digits) == 10:
		return "7" + digits
	}
	return digits
}
