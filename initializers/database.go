package initializers

import (
	"database/sql"
	"log"
	"os"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/lib/pq"
)

// ConnectDB opens the Postgres connection and returns the goqu handle.
// Callers own the handle and pass it to the services that need it; there is
// no package-level database state.
func ConnectDB() *goqu.Database {
	dsn := os.Getenv("DB_URL")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	return goqu.New("postgres", db)
}
