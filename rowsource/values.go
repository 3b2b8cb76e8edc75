package rowsource

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Values is a column to value container filled by generated serializers
type Values map[string]any

// Put stores value under column. Pointers are dereferenced and a nil
// pointer is stored as NULL.
func (v Values) Put(column string, value any) {
	v[column] = deref(value)
}

// PutAll copies every pair of other into v
func (v Values) PutAll(other Values) {
	for c, val := range other {
		v[c] = val
	}
}

// Get returns the value stored under column
func (v Values) Get(column string) (any, bool) {
	val, ok := v[column]
	return val, ok
}

// Columns returns the column names in sorted order
func (v Values) Columns() []string {
	columns := make([]string, 0, len(v))
	for c := range v {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}

func deref(value any) any {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Pointer {
		return value
	}
	if rv.IsNil() {
		return nil
	}
	return rv.Elem().Interface()
}

// Placeholder selects the bind parameter syntax of the target database
type Placeholder int

const (
	// Question renders ?, as used by SQLite and MySQL
	Question Placeholder = iota
	// Dollar renders $1, $2, ... as used by PostgreSQL
	Dollar
)

func (p Placeholder) render(i int) string {
	if p == Dollar {
		return "$" + strconv.Itoa(i+1)
	}
	return "?"
}

// InsertStatement renders an INSERT of values into table with columns in
// sorted order, and returns the matching arguments
func InsertStatement(table string, values Values, style Placeholder) (string, []any) {
	columns := values.Columns()
	quoted := make([]string, len(columns))
	params := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		params[i] = style.render(i)
		args[i] = values[c]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(params, ", "))
	return query, args
}

// Insert executes the INSERT rendered by InsertStatement
func Insert(ctx context.Context, db Execer, table string, values Values, style Placeholder) (sql.Result, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("inserting into %s: no values", table)
	}
	query, args := InsertStatement(table, values, style)
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("inserting into %s: %w", table, err)
	}
	return res, nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
