package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DBConfig конфигурация подключения к БД
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SearchDB обертка для работы с поисковой базой данных
type SearchDB struct {
	conn     *sql.DB
	baseName string // метка исходной БД, попадает в baseName сущностей
}

// NewSearchDB открывает поисковую базу данных и применяет схему
func NewSearchDB(dbPath, baseName string, config ...DBConfig) (*SearchDB, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть базу данных %s: %w", dbPath, err)
	}

	// Настройка пула соединений
	if len(config) > 0 {
		cfg := config[0]
		if cfg.MaxOpenConns > 0 {
			conn.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			conn.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("база данных %s недоступна: %w", dbPath, err)
	}

	db := &SearchDB{conn: conn, baseName: baseName}
	if err := db.createSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("не удалось применить схему: %w", err)
	}

	log.Printf("Поисковая база данных открыта: %s (baseName=%s)", dbPath, baseName)
	return db, nil
}

// Close закрывает соединение с базой данных
func (db *SearchDB) Close() error {
	return db.conn.Close()
}

// Ping проверяет доступность базы данных
func (db *SearchDB) Ping() error {
	return db.conn.Ping()
}

// BaseName возвращает метку исходной базы данных
func (db *SearchDB) BaseName() string {
	return db.baseName
}

// GetConnection возвращает низкоуровневое соединение (для импорта и тестов)
func (db *SearchDB) GetConnection() *sql.DB {
	return db.conn
}

// QueryContext выполняет запрос с контекстом
func (db *SearchDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.QueryContext(ctx, query, args...)
}

// ExecContext выполняет команду с контекстом
func (db *SearchDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

// nullString разворачивает sql.NullString в строку
func nullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// placeholders возвращает строку вида "?,?,?" для n параметров
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// likeClause строит условие вида "(col LIKE '%'||?||'%' OR ...)" для n значений.
// Используется для колонок с многозначным содержимым (несколько значений
// через ";"); точность обеспечивается повторной выборкой значений на
// стороне вызывающего кода.
func likeClause(column string, n int) string {
	if n <= 0 {
		return "0"
	}
	conditions := make([]string, n)
	for i := range conditions {
		conditions[i] = column + " LIKE '%' || ? || '%'"
	}
	return "(" + strings.Join(conditions, " OR ") + ")"
}

// toArgs преобразует срез строк в аргументы запроса
func toArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
