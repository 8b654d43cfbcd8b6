// Package dbtest provisions a throwaway sqlite database per test suite.
package dbtest

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/paperstreet/paperbroker/db"
	"github.com/paperstreet/paperbroker/migration"
)

type Suite struct {
	suite.Suite
	dbPath string
}

func (s *Suite) SetupDB() {
	if s.dbPath != "" {
		s.FailNowf("testing database already set", "db_path: %s", s.dbPath)
	}

	dir, err := ioutil.TempDir("", "pbtest")
	if err != nil {
		panic(err)
	}

	s.dbPath = filepath.Join(dir, fmt.Sprintf("pbtest_%s.db", uuid.Must(uuid.NewV4())))

	os.Setenv("DB_DRIVER", "sqlite3")
	os.Setenv("DB_PATH", s.dbPath)

	if err := migration.Migration(db.DB()).Migrate(); err != nil {
		panic(err)
	}
}

func (s *Suite) TeardownDB() {
	db.DB().Close()
	os.RemoveAll(filepath.Dir(s.dbPath))
}
