package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
)

// Events implements EventRepo and the read queries behind
// `quiztutor events`.
type Events struct {
	db  *sql.DB
	seq *sequenceCounter
}

var _ EventRepo = (*Events)(nil)

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// insert appends one row to t, stamping it with the next sequence number
// and the current time. cols and vals hold the remaining columns.
func (e *Events) insert(ctx context.Context, t *schema.Table, cols []string, vals []any) error {
	seq, err := e.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().
		Insert(t.Name).
		Columns(append([]string{"sequence", "timestamp"}, cols...)...).
		Values(append([]any{seq, time.Now().UTC()}, vals...)...).
		Query()

	if _, err := e.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert into %s: %w", t.Name, err)
	}
	return nil
}

// selectEvents builds a newest-first select over t restricted by opts.
func selectEvents(t *schema.Table, opts QueryOpts, cols ...string) (string, []any) {
	tbl := builder().Table(t.Name)

	qualified := make([]string, 0, len(cols)+3)
	for _, c := range append([]string{"id", "sequence", "timestamp"}, cols...) {
		qualified = append(qualified, tbl.C(c))
	}

	sel := builder().Select(qualified...).From(tbl).
		OrderBy(entsql.Desc(tbl.C("sequence")))

	if opts.After > 0 {
		sel.Where(entsql.GT(tbl.C("sequence"), opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT(tbl.C("sequence"), opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE(tbl.C("timestamp"), opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE(tbl.C("timestamp"), opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel.Query()
}

// selectByID builds a select of one row of t.
func selectByID(t *schema.Table, id int, cols ...string) (string, []any) {
	tbl := builder().Table(t.Name)

	qualified := make([]string, 0, len(cols)+3)
	for _, c := range append([]string{"id", "sequence", "timestamp"}, cols...) {
		qualified = append(qualified, tbl.C(c))
	}
	return builder().Select(qualified...).From(tbl).
		Where(entsql.EQ(tbl.C("id"), id)).
		Query()
}

// queryRows runs query and calls scan once per row.
func (e *Events) queryRows(ctx context.Context, query string, args []any, scan func(*sql.Rows) error) error {
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
