// Package sqlserver opens the pooled SQL Server handle used by the session store.
package sqlserver

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net"
	"net/url"
	"strconv"

	// Registers the "sqlserver" driver.
	_ "github.com/microsoft/go-mssqldb"

	"erpsessions/internal/platform/config"
)

// DriverName is the database/sql driver registered by go-mssqldb.
const DriverName = "sqlserver"

// DSN builds a sqlserver:// connection URL. A named instance replaces the port:
// the SQL Browser service resolves it.
func DSN(cfg config.DatabaseConfig) string {
	u := &url.URL{
		Scheme: "sqlserver",
		User:   url.UserPassword(cfg.User, cfg.Password),
	}
	if cfg.Instance != "" {
		u.Host = cfg.Server
		u.Path = cfg.Instance
	} else {
		u.Host = net.JoinHostPort(cfg.Server, strconv.Itoa(cfg.Port))
	}

	q := url.Values{}
	q.Set("database", cfg.Name)
	if cfg.AppName != "" {
		q.Set("app name", cfg.AppName)
	}
	if cfg.DialTimeout > 0 {
		// The driver takes whole seconds and reads 0 as unbounded.
		q.Set("dial timeout", strconv.Itoa(int(math.Ceil(cfg.DialTimeout.Seconds()))))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Open returns a lazily connecting pool configured from cfg. No connection is
// attempted until first use.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open(DriverName, DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("open sqlserver pool: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Ready reports whether the database answers a ping within ctx.
func Ready(ctx context.Context, p Pinger) error {
	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlserver ping: %w", err)
	}
	return nil
}
