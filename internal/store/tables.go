package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	tableKV        = "kv_entries"
	tableRecords   = "session_records"
	tableStars     = "starred_topics"
	tableLLMEvents = "llm_request_events"
)

var (
	// KVColumns holds the columns for the "kv_entries" table.
	KVColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// KVTable holds the schema information for the "kv_entries" table.
	KVTable = &schema.Table{
		Name:       tableKV,
		Columns:    KVColumns,
		PrimaryKey: []*schema.Column{KVColumns[0]},
	}

	// RecordColumns holds the columns for the "session_records" table.
	RecordColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "session_id", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "topic_id", Type: field.TypeString},
		{Name: "status", Type: field.TypeString},
		{Name: "total_score", Type: field.TypeInt},
		{Name: "data", Type: field.TypeJSON},
	}
	// RecordTable holds the schema information for the "session_records" table.
	RecordTable = &schema.Table{
		Name:       tableRecords,
		Columns:    RecordColumns,
		PrimaryKey: []*schema.Column{RecordColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "sessionrecord_created_at",
				Unique:  false,
				Columns: []*schema.Column{RecordColumns[2]},
			},
			{
				Name:    "sessionrecord_topic_id",
				Unique:  false,
				Columns: []*schema.Column{RecordColumns[3]},
			},
		},
	}

	// StarColumns holds the columns for the "starred_topics" table.
	StarColumns = []*schema.Column{
		{Name: "topic_id", Type: field.TypeString, Unique: true},
		{Name: "starred_at", Type: field.TypeTime},
	}
	// StarTable holds the schema information for the "starred_topics" table.
	StarTable = &schema.Table{
		Name:       tableStars,
		Columns:    StarColumns,
		PrimaryKey: []*schema.Column{StarColumns[0]},
	}

	// LLMEventColumns holds the columns for the "llm_request_events" table.
	LLMEventColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMEventTable holds the schema information for the "llm_request_events" table.
	LLMEventTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    LLMEventColumns,
		PrimaryKey: []*schema.Column{LLMEventColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LLMEventColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		KVTable,
		RecordTable,
		StarTable,
		LLMEventTable,
	}
)
