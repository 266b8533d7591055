package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// querier is the query surface shared by the pool and a transaction
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// constraintName returns the violated constraint, if err is a Postgres error
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// filter accumulates AND-ed WHERE conditions with their positional arguments
type filter struct {
	conds []string
	args  []any
}

// add appends a condition. Every %[1]s in cond is replaced by the placeholder of arg.
func (f *filter) add(cond string, arg any) {
	f.args = append(f.args, arg)
	f.conds = append(f.conds, fmt.Sprintf(cond, fmt.Sprintf("$%d", len(f.args))))
}

// addSearch matches term anywhere in cond's columns, ignoring case. Blank terms are skipped.
func (f *filter) addSearch(cond, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	f.add(cond, "%"+likeEscaper.Replace(term)+"%")
}

// addEqual matches column against value when value is set
func (f *filter) addEqual(column, value string) {
	if value == "" {
		return
	}
	f.add(column+" = %[1]s", value)
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// next returns the placeholder following the filter arguments
func (f *filter) next(offset int) string {
	return fmt.Sprintf("$%d", len(f.args)+offset)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
