package repo

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubDB is a scripted infra.SQLExecutor. Each call pops the next queued
// response; queries and args are recorded for assertions.
type stubDB struct {
	rowQueue  []stubRow
	execQueue []stubExec
	rowsQueue []*stubRows

	queries []string
	args    [][]any
}

type stubRow struct {
	vals []any
	err  error
}

type stubExec struct {
	tag pgconn.CommandTag
	err error
}

func tag(s string) pgconn.CommandTag { return pgconn.NewCommandTag(s) }

func (db *stubDB) record(query string, args []any) {
	db.queries = append(db.queries, query)
	db.args = append(db.args, args)
}

func (db *stubDB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	db.record(query, args)
	if len(db.rowQueue) == 0 {
		return stubRow{err: fmt.Errorf("stubDB: unexpected QueryRow: %s", query)}
	}
	row := db.rowQueue[0]
	db.rowQueue = db.rowQueue[1:]
	return row
}

func (db *stubDB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	db.record(query, args)
	if len(db.execQueue) == 0 {
		return pgconn.CommandTag{}, fmt.Errorf("stubDB: unexpected Exec: %s", query)
	}
	res := db.execQueue[0]
	db.execQueue = db.execQueue[1:]
	return res.tag, res.err
}

func (db *stubDB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	db.record(query, args)
	if len(db.rowsQueue) == 0 {
		return nil, fmt.Errorf("stubDB: unexpected Query: %s", query)
	}
	rows := db.rowsQueue[0]
	db.rowsQueue = db.rowsQueue[1:]
	return rows, nil
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

func assign(dest, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("stubDB: scan arity mismatch: %d dest, %d vals", len(dest), len(vals))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d).Elem()
		sv := reflect.ValueOf(vals[i])
		if !sv.IsValid() {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		if !sv.Type().ConvertibleTo(dv.Type()) {
			return fmt.Errorf("stubDB: cannot scan %T into %T", vals[i], d)
		}
		dv.Set(sv.Convert(dv.Type()))
	}
	return nil
}

// stubRows is a minimal pgx.Rows over fixed value tuples.
type stubRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return r.err }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return fmt.Errorf("stubDB: Scan without Next")
	}
	return assign(dest, r.rows[r.idx-1])
}

func (r *stubRows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.rows) {
		return nil, fmt.Errorf("stubDB: Values without Next")
	}
	return r.rows[r.idx-1], nil
}
