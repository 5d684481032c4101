package extractors

import (
	"regexp"
	"strings"
)

// emailPattern простая проверка формата local@domain.tld
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// nonDigitPattern все символы, кроме цифр
var nonDigitPattern = regexp.MustCompile(`\D`)

// ValidateEmail проверяет, что строка похожа на email вида local@domain.tld
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// SplitEmails разбирает сырое значение email-поля на отдельные адреса.
// Значение может содержать несколько адресов через ";" или ",".
// Каждый адрес обрезается, приводится к нижнему регистру и валидируется;
// невалидные значения отбрасываются. Результат дедуплицирован с сохранением
// порядка первого вхождения.
func SplitEmails(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})

	var emails []string
	seen := make(map[string]bool)
	for _, part := range parts {
		email := strings.ToLower(strings.TrimSpace(part))
		if email == "" || !ValidateEmail(email) {
			continue
		}
		if seen[email] {
			continue
		}
		seen[email] = true
		emails = append(emails, email)
	}

	return emails
}

// CleanPhone приводит телефон к каноническому виду: удаляет все символы,
// кроме цифр (включая ведущий "+"). Два телефона считаются одинаковыми
// тогда и только тогда, когда их очищенные строки цифр совпадают.
// Префиксы 8/7 здесь намеренно не приводятся к одному виду: поиск связей
// воспроизводит поведение исходных данных (см. NormalizeRussianPhone
// в database/query_detector.go для детектора типа запроса).
func CleanPhone(raw string) string {
	return nonDigitPattern.ReplaceAllString(raw, "")
}

// SplitPhones разбирает сырое значение телефонного поля на отдельные
// номера. Значение может содержать несколько номеров через ";".
// Каждый номер очищается через CleanPhone; пустые и слишком короткие
// (меньше 5 цифр) отбрасываются. Результат дедуплицирован.
func SplitPhones(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ";")

	var phones []string
	seen := make(map[string]bool)
	for _, part := range parts {
		phone := CleanPhone(part)
		if len(phone) < 5 {
			continue
		}
		if seen[phone] {
			continue
		}
		seen[phone] = true
		phones = append(phones, phone)
	}

	return phones
}

// ValidateINN проверяет валидность ИНН (РФ: 10 или 12 цифр)
func ValidateINN(inn string) bool {
	cleaned := strings.ReplaceAll(strings.ReplaceAll(inn, " ", ""), "-", "")
	if len(cleaned) != 10 && len(cleaned) != 12 {
		return false
	}
	matched, _ := regexp.MatchString(`^\d+$`, cleaned)
	return matched
}

// ValidateOGRN проверяет валидность ОГРН (13 цифр) или ОГРНИП (15 цифр)
func ValidateOGRN(ogrn string) bool {
	cleaned := strings.TrimSpace(ogrn)
	if len(cleaned) != 13 && len(cleaned) != 15 {
		return false
	}
	matched, _ := regexp.MatchString(`^\d+$`, cleaned)
	return matched
}
