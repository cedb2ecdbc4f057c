/*
Package sqlite provides a SQLite-backed implementation of the ledger contract.

PURPOSE:
  Implements ledger.Ledger on a single key/value table, with selector
  queries answered by SQLite's JSON1 functions over the stored documents.
  This stands in for the replicated ledger substrate in single-node
  deployments; the engine cannot tell the difference.

SCHEMA:
  entries(key TEXT PRIMARY KEY, doc_type TEXT, value TEXT)

  doc_type is extracted from the document at write time so the selector
  hot path (filter by docType) hits an index instead of parsing JSON per
  row. Equality clauses on other fields use json_extract.

NO DELETE:
  The ledger contract has no delete operation and neither does this table.
  Put overwrites; nothing removes.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  l, err := sqlite.New("./data/provenance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer l.Close()
  engine := provenance.New(l, provenance.Config{})

SEE ALSO:
  - ledger/ledger.go: Contract definition
  - ledger/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/provenance-engine/ledger"
)

// Ledger implements ledger.Ledger using SQLite.
type Ledger struct {
	db *sql.DB
}

// New creates a SQLite ledger at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) migrate() error {
	schema := `
	-- Key/value ledger entries. Put overwrites, nothing deletes.
	CREATE TABLE IF NOT EXISTS entries (
		key TEXT PRIMARY KEY,
		doc_type TEXT,
		value TEXT NOT NULL
	);

	-- Selector hot path: filter by document kind
	CREATE INDEX IF NOT EXISTS idx_entries_doc_type
		ON entries(doc_type);
	`
	_, err := l.db.Exec(schema)
	return err
}

// =============================================================================
// LEDGER CONTRACT
// =============================================================================

func (l *Ledger) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := l.db.QueryRowContext(ctx,
		`SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, &ledger.StorageError{Op: "get", Key: key, Err: err}
	}
	return []byte(value), nil
}

func (l *Ledger) Put(ctx context.Context, key string, value []byte) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO entries (key, doc_type, value)
		VALUES (?, json_extract(?, '$.docType'), ?)
		ON CONFLICT(key) DO UPDATE SET
			doc_type = excluded.doc_type,
			value = excluded.value
	`, key, string(value), string(value))
	if err != nil {
		return &ledger.StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

func (l *Ledger) RangeScan(ctx context.Context, startKey, endKeyExclusive string) ([]ledger.KV, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT key, value FROM entries
		WHERE key >= ? AND key < ?
		ORDER BY key ASC
	`, startKey, endKeyExclusive)
	if err != nil {
		return nil, &ledger.StorageError{Op: "scan", Key: startKey, Err: err}
	}
	defer rows.Close()

	return collectKVs(rows, "scan", startKey)
}

func (l *Ledger) Query(ctx context.Context, sel ledger.Selector) ([]ledger.KV, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	query, args := buildQuery(sel)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ledger.StorageError{Op: "query", Err: err}
	}
	defer rows.Close()

	return collectKVs(rows, "query", "")
}

// =============================================================================
// QUERY BUILDING
// =============================================================================

// buildQuery translates a Selector to SQL. Equality clauses are emitted in
// sorted field order so the generated statement is stable for a given
// selector.
func buildQuery(sel ledger.Selector) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT key, value FROM entries WHERE 1=1`)

	if sel.DocType != "" {
		sb.WriteString(` AND doc_type = ?`)
		args = append(args, sel.DocType)
	}

	fields := make([]string, 0, len(sel.Equals))
	for f := range sel.Equals {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		sb.WriteString(` AND json_extract(value, ?) = ?`)
		args = append(args, "$."+f, sel.Equals[f])
	}

	if sel.SortBy != "" {
		direction := "ASC"
		if sel.Descending {
			direction = "DESC"
		}
		sb.WriteString(` ORDER BY json_extract(value, ?) ` + direction + `, key ASC`)
		args = append(args, "$."+sel.SortBy)
	} else {
		sb.WriteString(` ORDER BY key ASC`)
	}

	if sel.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, sel.Limit)
	}

	return sb.String(), args
}

func collectKVs(rows *sql.Rows, op, key string) ([]ledger.KV, error) {
	var result []ledger.KV
	for rows.Next() {
		var (
			k string
			v string
		)
		if err := rows.Scan(&k, &v); err != nil {
			return nil, &ledger.StorageError{Op: op, Key: key, Err: err}
		}
		result = append(result, ledger.KV{Key: k, Value: []byte(v)})
	}
	if err := rows.Err(); err != nil {
		return nil, &ledger.StorageError{Op: op, Key: key, Err: err}
	}
	return result, nil
}
