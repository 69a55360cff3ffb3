package postgresql

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "github.com/lib/pq"
	"github.com/tsel-ticketmaster/tm-analytics/config"
)

var (
	once sync.Once
	db   *sql.DB
)

// GetDatabase returns the shared PostgreSQL handle built from configuration.
func GetDatabase() *sql.DB {
	once.Do(func() {
		c := config.Get()

		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.PostgreSQL.Host,
			c.PostgreSQL.Port,
			c.PostgreSQL.User,
			c.PostgreSQL.Password,
			c.PostgreSQL.Name,
			c.PostgreSQL.SSLMode,
		)

		var err error
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			log.Fatalf("postgresql: %v", err)
		}

		db.SetMaxOpenConns(c.PostgreSQL.MaxOpenConnections)
		db.SetMaxIdleConns(c.PostgreSQL.MaxIdleConnections)
		db.SetConnMaxLifetime(c.PostgreSQL.ConnMaxLifetime)
	})

	return db
}
