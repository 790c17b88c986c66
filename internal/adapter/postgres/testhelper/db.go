// Package testhelper provides a migrated PostgreSQL for repository and
// end-to-end tests.
package testhelper

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for goose
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/pocamarket-backend/migrations"
)

// dsnEnv points tests at an already running database instead of a container.
const dsnEnv = "TEST_DATABASE_DSN"

const (
	pgImage = "postgres:17-alpine"
	pgUser  = "poca"
	pgPass  = "poca"
	pgDB    = "pocamarket_test"
)

var shared = struct {
	once sync.Once
	dsn  string
	err  error
}{}

// SetupTestDB returns a pool on a database with all migrations applied.
// The database is prepared once per test binary; each call gets its own
// pool, closed on t.Cleanup.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	shared.once.Do(func() {
		shared.dsn, shared.err = prepare()
	})
	if shared.err != nil {
		t.Fatalf("testhelper: prepare database: %v", shared.err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, shared.dsn)
	if err != nil {
		t.Fatalf("testhelper: open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func prepare() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dsn := os.Getenv(dsnEnv)
	if dsn == "" {
		var err error
		if dsn, err = startContainer(ctx); err != nil {
			return "", err
		}
	}
	if err := migrate(ctx, dsn); err != nil {
		return "", err
	}
	return dsn, nil
}

// startContainer runs a throwaway PostgreSQL. The container is reaped by
// testcontainers when the test process exits.
func startContainer(ctx context.Context) (string, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        pgImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPass,
				"POSTGRES_DB":       pgDB,
			},
			Cmd: []string{"postgres", "-c", "fsync=off", "-c", "full_page_writes=off"},
			// The init script restarts the server once, hence two occurrences.
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
				wait.ForListeningPort("5432/tcp"),
			).WithDeadline(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start postgres container: %w", err)
	}

	endpoint, err := c.PortEndpoint(ctx, "5432/tcp", "")
	if err != nil {
		return "", fmt.Errorf("postgres endpoint: %w", err)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(pgUser, pgPass),
		Host:     endpoint,
		Path:     pgDB,
		RawQuery: "sslmode=disable",
	}
	return u.String(), nil
}

func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration db: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
