package repository

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"workplace/internal/model"
)

// Dialect names the database engine picked for a connection string.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

// DetectDialect picks the engine from the shape of the connection string:
// postgres URLs or key/value DSNs, "mysql://" DSNs, anything else is a SQLite file.
func DetectDialect(url string) Dialect {
	lower := strings.ToLower(url)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"),
		strings.Contains(lower, "host="):
		return DialectPostgres
	case strings.HasPrefix(lower, "mysql://"):
		return DialectMySQL
	default:
		return DialectSQLite
	}
}

func dialector(url string) gorm.Dialector {
	switch DetectDialect(url) {
	case DialectPostgres:
		return postgres.Open(url)
	case DialectMySQL:
		return mysql.Open(mysqlDSN(url))
	default:
		return sqlite.Open(sqliteDSN(url))
	}
}

// mysqlDSN strips the scheme and turns on the options the stores rely on:
// time parsing and found-rows semantics for RowsAffected on no-op updates.
func mysqlDSN(url string) string {
	dsn := url[len("mysql://"):]
	for _, opt := range []string{"parseTime=true", "clientFoundRows=true"} {
		key := opt[:strings.Index(opt, "=")]
		if strings.Contains(dsn, key+"=") {
			continue
		}
		if strings.Contains(dsn, "?") {
			dsn += "&" + opt
		} else {
			dsn += "?" + opt
		}
	}
	return dsn
}

func sqliteDSN(url string) string {
	dsn := strings.TrimPrefix(url, "sqlite://")
	if strings.Contains(dsn, "_foreign_keys=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// Open connects to the database named by url. Driver errors are translated
// into gorm sentinels so the stores can detect unique and foreign key violations.
func Open(url string, debug bool) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if !debug {
		cfg.Logger = logger.Default.LogMode(logger.Warn)
	}
	db, err := gorm.Open(dialector(url), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", DetectDialect(url), err)
	}
	return db, nil
}

// Migrate creates or updates the users and tasks tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Task{}); err != nil {
		return err
	}
	return caseSensitiveEmail(db)
}

// caseSensitiveEmail switches users.email to a binary collation on MySQL,
// whose default collations ignore case in both lookups and the unique index.
// Postgres and SQLite already compare text byte-wise.
func caseSensitiveEmail(db *gorm.DB) error {
	if db.Dialector.Name() != string(DialectMySQL) {
		return nil
	}
	return db.Exec(mysqlEmailCollation).Error
}

const mysqlEmailCollation = "ALTER TABLE `users` MODIFY `email` VARCHAR(255) NOT NULL COLLATE utf8mb4_bin"
