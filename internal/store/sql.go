package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// dialect holds the parts of the document table that differ between SQL
// backends. Documents live in one table keyed by (collection, id) with the
// entity fields in a JSON column.
type dialect struct {
	name        string
	schema      []string
	placeholder func(n int) string
	fieldExpr   func(ph string) string
	fieldArg    func(field string) string
	mergeExpr   func(ph string) string
	uniqueIndex func(collection, field string) string
	isDuplicate func(err error) bool
}

// SQLStore implements Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to apply %s schema: %w", d.name, err)
		}
	}
	return &SQLStore{
		db:      db,
		dialect: d,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *SQLStore) Collection(name string) Collection {
	return &sqlCollection{store: s, name: name}
}

func (s *SQLStore) EnsureUnique(ctx context.Context, collection, field string) error {
	if err := checkName("collection", collection); err != nil {
		return err
	}
	if err := checkName("field", field); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.uniqueIndex(collection, field)); err != nil {
		return fmt.Errorf("failed to create unique index on %s.%s: %w", collection, field, err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close(ctx context.Context) error {
	return s.db.Close()
}

type sqlCollection struct {
	store *SQLStore
	name  string
}

// query accumulates SQL text and positional arguments so placeholders are
// numbered in the order they appear.
type query struct {
	d    dialect
	sb   strings.Builder
	args []any
}

func (q *query) write(s string) *query {
	q.sb.WriteString(s)
	return q
}

func (q *query) arg(v any) string {
	q.args = append(q.args, v)
	return q.d.placeholder(len(q.args))
}

func (q *query) where(collection string, f Filter) {
	q.write(" WHERE collection = " + q.arg(collection))
	if f.ID != "" {
		q.write(" AND id = " + q.arg(f.ID))
	}
	for _, k := range sortedKeys(f.Fields) {
		q.write(" AND " + q.d.fieldExpr(q.arg(q.d.fieldArg(k))) + " = " + q.arg(f.Fields[k]))
	}
}

const selectColumns = "SELECT id, fields, created_at, updated_at FROM documents"

func scanDocument(row interface{ Scan(dest ...any) error }) (Document, error) {
	var (
		d   Document
		raw []byte
	)
	if err := row.Scan(&d.ID, &raw, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return Document{}, err
	}
	if err := json.Unmarshal(raw, &d.Fields); err != nil {
		return Document{}, fmt.Errorf("failed to decode document %s: %w", d.ID, err)
	}
	if d.Fields == nil {
		d.Fields = map[string]string{}
	}
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return d, nil
}

func (c *sqlCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	if err := checkFields(filter.Fields); err != nil {
		return Document{}, err
	}
	q := &query{d: c.store.dialect}
	q.write(selectColumns)
	q.where(c.name, filter)
	q.write(" ORDER BY created_at, id LIMIT 1")

	d, err := scanDocument(c.store.db.QueryRowContext(ctx, q.sb.String(), q.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("failed to find document in %s: %w", c.name, err)
	}
	return d, nil
}

func (c *sqlCollection) Find(ctx context.Context, filter Filter) ([]Document, error) {
	if err := checkFields(filter.Fields); err != nil {
		return nil, err
	}
	q := &query{d: c.store.dialect}
	q.write(selectColumns)
	q.where(c.name, filter)
	q.write(" ORDER BY created_at, id")

	rows, err := c.store.db.QueryContext(ctx, q.sb.String(), q.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents in %s: %w", c.name, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

func (c *sqlCollection) Insert(ctx context.Context, fields map[string]string) (Document, error) {
	if err := checkFields(fields); err != nil {
		return Document{}, err
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return Document{}, fmt.Errorf("failed to encode document: %w", err)
	}
	now := c.store.now()
	d := Document{
		ID:        NewID(),
		Fields:    copyFields(fields),
		CreatedAt: now,
		UpdatedAt: now,
	}

	q := &query{d: c.store.dialect}
	q.write("INSERT INTO documents (collection, id, fields, created_at, updated_at) VALUES (")
	q.write(strings.Join([]string{
		q.arg(c.name), q.arg(d.ID), q.arg(string(raw)), q.arg(now), q.arg(now),
	}, ", "))
	q.write(")")

	if _, err := c.store.db.ExecContext(ctx, q.sb.String(), q.args...); err != nil {
		if c.store.dialect.isDuplicate(err) {
			return Document{}, fmt.Errorf("insert into %s: %w", c.name, ErrDuplicate)
		}
		return Document{}, fmt.Errorf("failed to insert document into %s: %w", c.name, err)
	}
	return d, nil
}

func (c *sqlCollection) Update(ctx context.Context, filter Filter, fields map[string]string) (Document, error) {
	if err := checkFields(filter.Fields); err != nil {
		return Document{}, err
	}
	if err := checkFields(fields); err != nil {
		return Document{}, err
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return Document{}, fmt.Errorf("failed to encode update: %w", err)
	}

	q := &query{d: c.store.dialect}
	q.write("UPDATE documents SET fields = " + q.d.mergeExpr(q.arg(string(raw))))
	q.write(", updated_at = " + q.arg(c.store.now()))
	q.write(" WHERE collection = " + q.arg(c.name) + " AND id = (SELECT id FROM documents")
	q.where(c.name, filter)
	q.write(" ORDER BY created_at, id LIMIT 1)")
	q.write(" RETURNING id, fields, created_at, updated_at")

	d, err := scanDocument(c.store.db.QueryRowContext(ctx, q.sb.String(), q.args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Document{}, ErrNotFound
	case err != nil && c.store.dialect.isDuplicate(err):
		return Document{}, fmt.Errorf("update %s: %w", c.name, ErrDuplicate)
	case err != nil:
		return Document{}, fmt.Errorf("failed to update document in %s: %w", c.name, err)
	}
	return d, nil
}

func (c *sqlCollection) DeleteMany(ctx context.Context, filter Filter) (int64, error) {
	if err := checkFields(filter.Fields); err != nil {
		return 0, err
	}
	q := &query{d: c.store.dialect}
	q.write("DELETE FROM documents")
	q.where(c.name, filter)

	result, err := c.store.db.ExecContext(ctx, q.sb.String(), q.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete documents from %s: %w", c.name, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}

var _ Store = (*SQLStore)(nil)
