// Result cache for batch runs, keyed by (scenario, region, weather
// year) with an input fingerprint. The store is an explicit object
// with an open/flush/close lifecycle owned by the caller; there is no
// package-level database handle, so concurrent batches against
// separate stores need no shared state.
package resultdb

import (
	"database/sql"
	"embed"

	"github.com/NotCoffee418/dbmigrator"
	"github.com/rs/zerolog"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open creates or opens the cache database at path and applies
// pending migrations.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	dbmigrator.SetDatabaseType(dbmigrator.SQLite)
	<-dbmigrator.MigrateUpCh(db, migrationFS, "migrations")

	log.Info().Str("path", path).Msg("result cache open")
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
