package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Every event table starts with the same three columns: row id, global
// sequence and timestamp.
func eventColumns(extra ...*schema.Column) []*schema.Column {
	base := []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
	}
	return append(base, extra...)
}

func eventTable(name string, cols []*schema.Column, indexed ...string) *schema.Table {
	t := &schema.Table{
		Name:       name,
		Columns:    cols,
		PrimaryKey: []*schema.Column{cols[0]},
	}
	for _, n := range append([]string{"timestamp"}, indexed...) {
		for _, c := range cols {
			if c.Name == n {
				t.Indexes = append(t.Indexes, &schema.Index{
					Name:    name + "_" + n,
					Columns: []*schema.Column{c},
				})
			}
		}
	}
	return t
}

var (
	questionFetchEventsTable = eventTable("question_fetch_events", eventColumns(
		&schema.Column{Name: "url", Type: field.TypeString},
		&schema.Column{Name: "question_count", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
	), "success")

	tutorExchangeEventsTable = eventTable("tutor_exchange_events", eventColumns(
		&schema.Column{Name: "backend", Type: field.TypeString},
		&schema.Column{Name: "question_index", Type: field.TypeInt},
		&schema.Column{Name: "answer", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "query", Type: field.TypeString, Size: 1 << 16},
		&schema.Column{Name: "reply", Type: field.TypeString, Size: 1 << 20, Default: ""},
		&schema.Column{Name: "session_id", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
	), "session_id", "success")

	llmRequestEventsTable = eventTable("llm_request_events", eventColumns(
		&schema.Column{Name: "provider", Type: field.TypeString},
		&schema.Column{Name: "model", Type: field.TypeString},
		&schema.Column{Name: "purpose", Type: field.TypeString},
		&schema.Column{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		&schema.Column{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		&schema.Column{Name: "success", Type: field.TypeBool},
		&schema.Column{Name: "error_message", Type: field.TypeString, Default: ""},
		&schema.Column{Name: "request_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
		&schema.Column{Name: "response_body", Type: field.TypeString, Size: 1 << 20, Default: ""},
	), "provider", "purpose", "success")

	tables = []*schema.Table{
		questionFetchEventsTable,
		tutorExchangeEventsTable,
		llmRequestEventsTable,
	}
)
