//go:build integration

package containers

import (
	"context"
	"database/sql"
	"net/url"
	"testing"
	"time"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/testcontainers/testcontainers-go"
	tcmssql "github.com/testcontainers/testcontainers-go/modules/mssql"
)

const (
	mssqlImage    = "mcr.microsoft.com/mssql/server:2022-CU14-ubuntu-22.04"
	mssqlPassword = "Sessions!Passw0rd"
)

// MSSQLContainer wraps a testcontainers SQL Server instance.
type MSSQLContainer struct {
	Container testcontainers.Container
	URL       *url.URL
	DB        *sql.DB
}

// NewMSSQLContainer starts SQL Server and returns a pool connected to master.
// The container is terminated when the test finishes.
func NewMSSQLContainer(t *testing.T) *MSSQLContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcmssql.Run(ctx, mssqlImage,
		tcmssql.WithAcceptEULA(),
		tcmssql.WithPassword(mssqlPassword),
	)
	if err != nil {
		t.Fatalf("failed to start mssql container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get mssql connection string: %v", err)
	}
	u, err := url.Parse(connStr)
	if err != nil {
		t.Fatalf("failed to parse mssql URL: %v", err)
	}

	db, err := sql.Open("sqlserver", u.String())
	if err != nil {
		t.Fatalf("failed to open mssql pool: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		t.Fatalf("failed to ping mssql: %v", err)
	}

	return &MSSQLContainer{
		Container: container,
		URL:       u,
		DB:        db,
	}
}

// Session opens a dedicated connection that reports appName as its program
// name and uses database. It stays open until the test finishes.
func (m *MSSQLContainer) Session(t *testing.T, database, appName string) *sql.Conn {
	t.Helper()

	u := *m.URL
	q := u.Query()
	q.Set("database", database)
	q.Set("app name", appName)
	u.RawQuery = q.Encode()

	db, err := sql.Open("sqlserver", u.String())
	if err != nil {
		t.Fatalf("failed to open session pool: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("failed to open session %q: %v", appName, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
