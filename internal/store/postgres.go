package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS documents (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			fields JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (collection, id)
		)`,
		`CREATE INDEX IF NOT EXISTS documents_collection_created_at_idx
			ON documents (collection, created_at)`,
	},
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	fieldExpr:   func(ph string) string { return "fields->>" + ph + "::text" },
	fieldArg:    func(field string) string { return field },
	mergeExpr:   func(ph string) string { return "fields || " + ph + "::jsonb" },
	uniqueIndex: func(collection, field string) string {
		name := strings.ToLower(fmt.Sprintf("documents_%s_%s_key", collection, field))
		return fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s ON documents ((fields->>'%s')) WHERE collection = '%s'`,
			name, field, collection,
		)
	},
	isDuplicate: func(err error) bool {
		var pqErr *pq.Error
		return errors.As(err, &pqErr) && pqErr.Code == "23505"
	},
}

// OpenPostgres connects to PostgreSQL and creates the documents table if it
// does not exist.
func OpenPostgres(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s, err := newSQLStore(ctx, db, postgresDialect)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
