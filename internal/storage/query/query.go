// Package query builds and runs parameterised statements. Statements use
// @name placeholders, bound by name in any order, and rewritten to the
// driver's positional syntax at execution time. Values are always passed as
// driver arguments.
package query

import (
	"context"
	"database/sql"
	"iter"
	"log/slog"
	"strings"
	"time"
)

// Kind is the shape of a statement
type Kind int

const (
	KindRead Kind = iota
	KindInsert
	KindUpdate
)

func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindUpdate:
		return "update"
	default:
		return "read"
	}
}

// DB is the part of *sql.DB the executor uses
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Executor creates queries against one database
type Executor struct {
	db      DB
	dialect Dialect
	logger  *slog.Logger
}

// NewExecutor creates an executor for the given database and dialect
func NewExecutor(db DB, dialect Dialect, logger *slog.Logger) *Executor {
	return &Executor{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "query")),
	}
}

// Dialect returns the executor's placeholder dialect
func (e *Executor) Dialect() Dialect {
	return e.dialect
}

// RowFunc is called once per result row, in store order
type RowFunc func(row *Row) error

// Query is a statement with its bound parameters
type Query struct {
	exec      *Executor
	kind      Kind
	statement string
	params    map[string]any
	onRow     RowFunc
	affected  int64
}

// Read creates a read statement. onRow may be nil when the rows are consumed
// with Rows instead of Execute.
func (e *Executor) Read(statement string, onRow RowFunc) *Query {
	return e.newQuery(KindRead, statement, onRow)
}

// Insert creates an insert statement
func (e *Executor) Insert(statement string) *Query {
	return e.newQuery(KindInsert, statement, nil)
}

// Update creates an update (or delete) statement
func (e *Executor) Update(statement string) *Query {
	return e.newQuery(KindUpdate, statement, nil)
}

func (e *Executor) newQuery(kind Kind, statement string, onRow RowFunc) *Query {
	return &Query{
		exec:      e,
		kind:      kind,
		statement: statement,
		params:    make(map[string]any),
		onRow:     onRow,
	}
}

// Bind associates a value with a placeholder name. The leading @ is optional.
func (q *Query) Bind(name string, value any) *Query {
	q.params[strings.TrimPrefix(name, "@")] = value
	return q
}

// Kind returns the statement shape
func (q *Query) Kind() Kind {
	return q.kind
}

// RowsAffected returns the number of rows changed by the last Execute of an
// insert or update
func (q *Query) RowsAffected() int64 {
	return q.affected
}

// Execute runs the statement. Reads invoke the row callback per row.
// Every failure is an *Error.
func (q *Query) Execute(ctx context.Context) error {
	if q.kind == KindRead {
		for _, err := range Rows(ctx, q, q.callback) {
			if err != nil {
				return err
			}
		}
		return nil
	}

	stmt, args, err := compile(q.statement, q.params, q.exec.dialect)
	if err != nil {
		return q.wrap(err)
	}

	start := time.Now()
	res, err := q.exec.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return q.wrap(err)
	}
	if n, err := res.RowsAffected(); err == nil {
		q.affected = n
	}
	q.exec.logger.Debug("statement executed",
		slog.String("kind", q.kind.String()),
		slog.Int64("rows_affected", q.affected),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (q *Query) callback(row *Row) (struct{}, error) {
	if q.onRow == nil {
		return struct{}{}, nil
	}
	return struct{}{}, q.onRow(row)
}

func (q *Query) wrap(err error) error {
	return &Error{Kind: q.kind, Statement: q.statement, Err: err}
}

// Rows runs a read statement and yields one mapped value per row. The
// sequence is lazy and single-pass; breaking out of the loop closes the
// underlying cursor. An error is yielded at most once and ends the sequence.
func Rows[T any](ctx context.Context, q *Query, mapRow func(*Row) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		if q.kind != KindRead {
			yield(zero, q.wrap(ErrNotRead))
			return
		}

		stmt, args, err := compile(q.statement, q.params, q.exec.dialect)
		if err != nil {
			yield(zero, q.wrap(err))
			return
		}

		start := time.Now()
		rows, err := q.exec.db.QueryContext(ctx, stmt, args...)
		if err != nil {
			yield(zero, q.wrap(err))
			return
		}
		defer func() { _ = rows.Close() }()

		cols, err := rows.Columns()
		if err != nil {
			yield(zero, q.wrap(err))
			return
		}

		count := 0
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				yield(zero, q.wrap(err))
				return
			}

			row := &Row{values: values}
			v, err := mapRow(row)
			if err == nil {
				err = row.Err()
			}
			if err != nil {
				yield(zero, q.wrap(err))
				return
			}
			count++
			if !yield(v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, q.wrap(err))
			return
		}

		q.exec.logger.Debug("statement executed",
			slog.String("kind", q.kind.String()),
			slog.Int("rows", count),
			slog.Duration("duration", time.Since(start)))
	}
}

// Collect drains a row sequence into a slice
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
