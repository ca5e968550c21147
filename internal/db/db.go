package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens a lazy connection; nothing is dialed until the first query or
// probe, so the service can start while the store is down.
//
// driver is one of "postgres" (pgx), "pq" (lib/pq) or "sqlite".
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "postgres", "pgx":
		dialector = postgres.Open(dsn)
	case "pq":
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: dsn})
	case "sqlite":
		dialector = sqlite.Open(sqliteDSN(dsn))
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q (valid: postgres, pq, sqlite)", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		DisableAutomaticPing: true,
		TranslateError:       true,
		Logger: logger.New(log.New(os.Stderr, "", log.LstdFlags), logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

// sqliteDSN turns on case-sensitive LIKE so title search behaves as it does on postgres.
func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_cslike") || strings.Contains(dsn, "_case_sensitive_like") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_cslike=1"
	}
	return dsn + "?_cslike=1"
}

func AutoMigrate(gdb *gorm.DB, models ...any) error {
	if err := gdb.AutoMigrate(models...); err != nil {
		return err
	}

	if !gdb.Migrator().HasTable("items") {
		return nil
	}

	// items are always listed newest first
	stmts := []string{
		`create index if not exists idx_items_created_at on items(created_at desc);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}

// IsUniqueViolation reports whether err comes from a unique constraint.
// gorm translates pgx and sqlite errors; lib/pq errors arrive untranslated.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
