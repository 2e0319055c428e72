package store

import (
	"context"
	"fmt"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string
	SQLitePath    string
}

// Open creates a Store for the named backend.
//
// Supported backends:
//
//	"mongo"    - MongoDB at MongoURI (default)
//	"postgres" - PostgreSQL at PostgresDSN, documents in a JSONB table
//	"sqlite"   - SQLite file at SQLitePath
//	"memory"   - in-process, for tests and local runs
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "mongo", "":
		return OpenMongo(ctx, opts.MongoURI, opts.MongoDatabase)
	case "postgres":
		return OpenPostgres(ctx, opts.PostgresDSN)
	case "sqlite":
		return OpenSQLite(ctx, opts.SQLitePath)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: mongo, postgres, sqlite, memory)", opts.Backend)
	}
}
