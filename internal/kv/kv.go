// Package kv provides the key-value persistence port used by the lead store,
// with memory, file, SQLite and PostgreSQL backends.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// Store is a flat string key-value store.
// Read reports ok=false for an absent key; that is not an error.
type Store interface {
	Read(ctx context.Context, key string) (value string, ok bool, err error)
	Write(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Driver names a Store backend.
type Driver string

// Supported drivers.
const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver Driver
	// Path is the directory for the file driver and the database file for sqlite.
	Path string
	// DatabaseURL is the PostgreSQL connection URL.
	DatabaseURL string
}

// ErrEmptyKey is returned for operations on an empty key.
var ErrEmptyKey = errors.New("kv: empty key")

// Open creates the Store selected by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverFile:
		return NewFile(opts.Path)
	case DriverSQLite:
		return OpenSQLite(ctx, opts.Path)
	case DriverPostgres:
		return ConnectPostgres(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

// ParseDriver validates a driver name.
func ParseDriver(s string) (Driver, error) {
	switch d := Driver(s); d {
	case DriverMemory, DriverFile, DriverSQLite, DriverPostgres:
		return d, nil
	default:
		return "", fmt.Errorf("unknown storage driver %q (want memory, file, sqlite or postgres)", s)
	}
}
