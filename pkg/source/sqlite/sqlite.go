// Package sqlite loads node collections from an SQLite table.
//
// The table needs four columns, plus an optional fifth for metadata:
//
//	CREATE TABLE nodes (
//	    id        INTEGER PRIMARY KEY,  -- or TEXT
//	    parent_id INTEGER,              -- NULL marks a root
//	    path      TEXT NOT NULL,
//	    name      TEXT,
//	    meta      TEXT                  -- optional JSON object
//	);
//
// Tables created by [Source.CreateTable] have the meta column. Without it,
// Load leaves Meta nil and Insert drops it.
//
// Rows are returned in rowid order, which is insertion order for tables
// that are only appended to.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/crumbtrail/pkg/breadcrumb"
	"github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/source"
)

// DefaultTable is the table read when none is configured.
const DefaultTable = "nodes"

// Source is a source.Source backed by an SQLite table.
type Source[PK comparable] struct {
	db    *sql.DB
	table string
	dsn   string
	owned bool
}

// Open opens the database at dsn with the modernc.org/sqlite driver.
// The returned source owns the connection; call Close when done.
func Open[PK comparable](ctx context.Context, dsn, table string) (*Source[PK], error) {
	if table == "" {
		table = DefaultTable
	}
	if err := errors.ValidateTableName(table); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dsn, err)
	}
	return &Source[PK]{db: db, table: table, dsn: dsn, owned: true}, nil
}

// New wraps an existing connection. Close does not close db.
func New[PK comparable](db *sql.DB, table string) (*Source[PK], error) {
	if table == "" {
		table = DefaultTable
	}
	if err := errors.ValidateTableName(table); err != nil {
		return nil, err
	}
	return &Source[PK]{db: db, table: table, dsn: "db"}, nil
}

// DB returns the underlying connection.
func (s *Source[PK]) DB() *sql.DB { return s.db }

// Name implements source.Source.
func (s *Source[PK]) Name() string { return "sqlite:" + s.dsn + "#" + s.table }

// Load implements source.Source.
func (s *Source[PK]) Load(ctx context.Context) ([]breadcrumb.Node[PK], error) {
	withMeta, err := s.hasMetaColumn(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, parent_id, path, name, NULL FROM ` + s.table + ` ORDER BY rowid`
	if withMeta {
		query = `SELECT id, parent_id, path, name, meta FROM ` + s.table + ` ORDER BY rowid`
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()

	var nodes []breadcrumb.Node[PK]
	for rows.Next() {
		var (
			n      breadcrumb.Node[PK]
			parent sql.Null[PK]
			name   sql.NullString
			meta   sql.NullString
		)
		if err := rows.Scan(&n.ID, &parent, &n.Path, &name, &meta); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		n.ParentID = parent.V
		n.Name = name.String
		if meta.Valid && meta.String != "" {
			if err := json.Unmarshal([]byte(meta.String), &n.Meta); err != nil {
				return nil, fmt.Errorf("decode meta of %v: %w", n.ID, err)
			}
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// hasMetaColumn reports whether the table has a meta column.
func (s *Source[PK]) hasMetaColumn(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM pragma_table_info(?) WHERE name = 'meta'`, s.table).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect %s: %w", s.table, err)
	}
	return n > 0, nil
}

// CreateTable creates the node table if it does not exist.
func (s *Source[PK]) CreateTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.table+` (
			id        NOT NULL,
			parent_id,
			path      TEXT NOT NULL,
			name      TEXT,
			meta      TEXT
		)`)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}
	return nil
}

// Insert appends nodes to the table in one transaction. A parent equal to
// the zero key is stored as NULL and Meta is stored as a JSON object when
// the table has a meta column.
func (s *Source[PK]) Insert(ctx context.Context, nodes []breadcrumb.Node[PK]) error {
	withMeta, err := s.hasMetaColumn(ctx)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	insert := `INSERT INTO ` + s.table + ` (id, parent_id, path, name) VALUES (?, ?, ?, ?)`
	if withMeta {
		insert = `INSERT INTO ` + s.table + ` (id, parent_id, path, name, meta) VALUES (?, ?, ?, ?, ?)`
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var zero PK
	for _, n := range nodes {
		var parent any
		if n.ParentID != zero {
			parent = n.ParentID
		}
		args := []any{n.ID, parent, n.Path, sql.NullString{String: n.Name, Valid: n.Name != ""}}
		if withMeta {
			var meta sql.NullString
			if len(n.Meta) > 0 {
				data, err := json.Marshal(n.Meta)
				if err != nil {
					return fmt.Errorf("encode meta of %v: %w", n.ID, err)
				}
				meta = sql.NullString{String: string(data), Valid: true}
			}
			args = append(args, meta)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert %v: %w", n.ID, err)
		}
	}
	return tx.Commit()
}

// Close closes the connection if the source opened it.
func (s *Source[PK]) Close() error {
	if s.owned {
		return s.db.Close()
	}
	return nil
}

var _ source.Source[source.ID] = (*Source[source.ID])(nil)
