package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/teachback/internal/logger"
)

// recordRepo implements RecordRepo. The full record is stored as JSON in
// the data column; the other columns are for ordering and filtering.
type recordRepo struct {
	drv *entsql.Driver
	log *logger.Logger
}

func (r *recordRepo) Save(ctx context.Context, rec *SessionRecord) (*SessionRecord, error) {
	out := *rec
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	if out.Date.IsZero() {
		out.Date = time.Now()
	}
	out.Date = out.Date.UTC()
	out.TopicID = out.Topic.ID
	if out.Status == "" {
		out.Status = StatusInProgress
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableRecords).
		Columns("id", "session_id", "created_at", "topic_id", "status", "total_score", "data").
		Values(out.ID, out.SessionID, out.Date, out.TopicID, string(out.Status), out.TotalScore, string(data)).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return nil, fmt.Errorf("save record %s: %w", out.ID, err)
	}
	return &out, nil
}

func (r *recordRepo) List(ctx context.Context) ([]SessionRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(tableRecords)
	query, args := b.Select(t.C("id"), t.C("data")).
		From(t).
		OrderBy(entsql.Desc(t.C("created_at")), entsql.Desc(t.C("id"))).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	// An unreadable row is skipped so the rest of the history stays usable.
	out := []SessionRecord{}
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var rec SessionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			r.log.Warn("skipping unreadable record", "id", id, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *recordRepo) Get(ctx context.Context, id string) (*SessionRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(tableRecords)
	query, args := b.Select(t.C("data")).
		From(t).
		Where(entsql.EQ(t.C("id"), id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return scanRecord(&rows)
}

func (r *recordRepo) Delete(ctx context.Context, id string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableRecords).
		Where(entsql.EQ("id", id)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *recordRepo) DeleteAll(ctx context.Context) error {
	query, args := entsql.Dialect(dialect.SQLite).Delete(tableRecords).Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete all records: %w", err)
	}
	return nil
}

func scanRecord(rows *entsql.Rows) (*SessionRecord, error) {
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}
	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return &rec, nil
}
