package db

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/paperstreet/paperbroker/env"
	"github.com/paperstreet/paperbroker/log"
)

var (
	db     *gorm.DB
	driver string
	once   sync.Once
)

const forUpdate = "FOR UPDATE"

// DB is a singleton wrapper to the gorm database object.
func DB() *gorm.DB {
	var err error

	once.Do(func() {
		db, err = NewDB()
		if err != nil {
			log.Panic("database initialization failure", "error", err)
		}
	})

	return db
}

/*
Optionally pass in a map of options, such as:

	[DB_DRIVER]sqlite3
	[DB_PATH]/tmp/test.db

These will override the settings made via environment variables.
*/
func NewDB(optionsList ...map[string]string) (dbT *gorm.DB, err error) {
	get := func(key string) string {
		if len(optionsList) != 0 {
			if v, ok := optionsList[0][key]; ok {
				return v
			}
		}
		return env.GetVar(key)
	}

	driver = get("DB_DRIVER")
	if driver == "" {
		driver = "sqlite3"
	}

	switch driver {
	case "sqlite3":
		path := get("DB_PATH")
		if path == "" {
			path = "paperbroker.db"
		}
		dbT, err = gorm.Open("sqlite3", path)
	case "postgres":
		sslmode := get("PGSSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}
		params := fmt.Sprintf(
			"host=%v user=%v dbname=%v sslmode=%v password=%v",
			get("PGHOST"), get("PGUSER"), get("PGDATABASE"), sslmode, get("PGPASSWORD"),
		)
		dbT, err = gorm.Open("postgres", params)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	if err != nil {
		return nil, err
	}

	// sqlite serializes writers itself; pooling matters for postgres only
	if driver == "postgres" {
		dbT.DB().SetMaxOpenConns(20)
		dbT.DB().SetConnMaxLifetime(30 * time.Minute)
	}

	logDB, _ := strconv.ParseBool(get("LOG_DB"))
	dbT.LogMode(logDB)

	return dbT, nil
}

func Begin() *gorm.DB {
	return DB().Begin()
}

// ForUpdate returns the row-locking query option for the active driver.
// sqlite has no SELECT ... FOR UPDATE; its single-writer lock covers the
// same ground, so the option is empty there.
func ForUpdate() string {
	if driver == "postgres" {
		return forUpdate
	}
	return ""
}

// IsUniqueViolation reports whether err is a unique-constraint violation
// raised by the underlying driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	if sqliteErr, ok := err.(sqlite3.Error); ok {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
