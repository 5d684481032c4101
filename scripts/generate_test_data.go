// Генератор демонстрационной базы для поиска сущностей и связей.
//
// Заполняет все шесть таблиц-источников взаимосвязанными данными: часть
// организаций и физлиц делит общие email, телефоны и ИНН, у сотрудников
// проставлен phOrgINN работодателя, у части физлиц есть записи о прежних
// местах работы. Телефоны записываются в цифровом виде.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"entitysearch/database"
)

const (
	orgCount    = 200
	personCount = 500
)

func main() {
	gofakeit.Seed(0)

	dbPath := "search_data.db"
	if len(os.Args) > 1 {
		dbPath = os.Args[1]
	}

	// Удаляем существующую БД
	os.Remove(dbPath)

	db, err := database.NewSearchDB(dbPath, "demo")
	if err != nil {
		log.Fatalf("Не удалось создать базу данных: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	conn := db.GetConnection()

	// Организации. Запоминаем ИНН и контакты для перекрестных ссылок.
	orgINNs := make([]string, 0, orgCount)
	sharedEmails := make([]string, 0, orgCount)
	sharedPhones := make([]string, 0, orgCount)

	for i := 0; i < orgCount; i++ {
		unid := uuid.New().String()
		name := generateOrgName()
		inn := gofakeit.Numerify("##########")
		email := strings.ToLower(gofakeit.Email())
		phone := "7" + gofakeit.Numerify("##########")

		orgINNs = append(orgINNs, inn)
		sharedEmails = append(sharedEmails, email)
		sharedPhones = append(sharedPhones, phone)

		_, err := conn.ExecContext(ctx,
			`INSERT INTO organizations (UNID, NameShort, NameFull, INN, OGRN, eMail, PhoneNum, AddressUr, UrFiz, fIP, BaseName)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, 0, 'demo')`,
			unid, name, `Общество с ограниченной ответственностью "`+strings.TrimPrefix(name, "ООО ")+`"`,
			inn, gofakeit.Numerify("#############"), email, phone, gofakeit.Address().Address)
		if err != nil {
			log.Fatalf("Не удалось записать организацию %d: %v", i+1, err)
		}
	}

	// Физлица. Каждый десятый делит email с организацией, каждый
	// пятнадцатый — телефон.
	for i := 0; i < personCount; i++ {
		unid := uuid.New().String()
		lastName := gofakeit.LastName()
		firstName := gofakeit.FirstName()
		inn := gofakeit.Numerify("############")

		email := strings.ToLower(gofakeit.Email())
		if i%10 == 0 {
			email = sharedEmails[i%orgCount]
		}
		phone := "79" + gofakeit.Numerify("#########")
		if i%15 == 0 {
			phone = sharedPhones[i%orgCount]
		}

		_, err := conn.ExecContext(ctx,
			`INSERT INTO persons (UNID, LastName, FirstName, MiddleName, INN, eMail, MobilePhone, UrFiz, fIP, BaseName)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 2, ?, 'demo')`,
			unid, lastName, firstName, gofakeit.FirstName(), inn, email, phone, boolToInt(i%20 == 0))
		if err != nil {
			log.Fatalf("Не удалось записать физлицо %d: %v", i+1, err)
		}

		// Каждый третий числится сотрудником какой-то организации
		if i%3 == 0 {
			orgINN := orgINNs[i%orgCount]
			_, err := conn.ExecContext(ctx,
				`INSERT INTO employees (fzUID, PersonUNID, FIO, fzINN, phOrgINN, eMail, WorkPhone, BaseName)
				 VALUES (?, ?, ?, ?, ?, ?, ?, 'demo')`,
				uuid.New().String(), unid, lastName+" "+firstName, inn, orgINN,
				email, "7495"+gofakeit.Numerify("#######"))
			if err != nil {
				log.Fatalf("Не удалось записать сотрудника %d: %v", i+1, err)
			}
		}

		// Каждый четвертый — контактное лицо организации
		if i%4 == 0 {
			_, err := conn.ExecContext(ctx,
				`INSERT INTO contactpersons (cpUID, PersonUNID, OrgUNID, FIO, cpEmail, cpPhone, BaseName)
				 VALUES (?, ?, '', ?, ?, ?, 'demo')`,
				uuid.New().String(), unid, lastName+" "+firstName, email, phone)
			if err != nil {
				log.Fatalf("Не удалось записать контактное лицо %d: %v", i+1, err)
			}
		}

		// Каждый пятый имеет прежнее место работы в одной из организаций
		if i%5 == 0 {
			orgIdx := (i + 7) % orgCount
			_, err := conn.ExecContext(ctx,
				`INSERT INTO prevwork (PersonUNID, INN, OrgName, DateFrom, DateTo, BaseName)
				 VALUES (?, ?, ?, ?, ?, 'demo')`,
				unid, orgINNs[orgIdx], generateOrgName(),
				strconv.Itoa(gofakeit.Number(2010, 2018)), strconv.Itoa(gofakeit.Number(2019, 2024)))
			if err != nil {
				log.Fatalf("Не удалось записать прежнее место работы %d: %v", i+1, err)
			}
		}

		// Каждый шестой имеет запись в обобщенных контактах
		if i%6 == 0 {
			_, err := conn.ExecContext(ctx,
				`INSERT INTO contacts (PersonUNID, PersonName, ContactType, ContactValue, BaseName)
				 VALUES (?, ?, 'email', ?, 'demo')`,
				unid, lastName+" "+firstName, email)
			if err != nil {
				log.Fatalf("Не удалось записать контакт %d: %v", i+1, err)
			}
		}
	}

	fmt.Printf("Демонстрационная база готова: %s (%d организаций, %d физлиц)\n", dbPath, orgCount, personCount)
}

// generateOrgName генерирует название организации
func generateOrgName() string {
	names := []string{"Ромашка", "Вектор", "Глобус", "Триумф", "Лидер", "Альфа", "Сатурн", "Прогресс", "Мир", "Звезда"}
	name := "ООО " + gofakeit.RandomString(names)
	if gofakeit.Bool() {
		name = fmt.Sprintf("%s %d", name, gofakeit.Number(1, 99))
	}
	return name
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
