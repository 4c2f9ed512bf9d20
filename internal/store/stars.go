package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/teachback/internal/catalog"
)

// starRepo implements StarRepo backed by the starred_topics table.
type starRepo struct {
	drv *entsql.Driver
}

func (r *starRepo) SetStarred(ctx context.Context, topicID string, starred bool) error {
	if _, err := catalog.GetTopic(topicID); err != nil {
		return err
	}

	var (
		query string
		args  []any
	)
	if starred {
		query, args = entsql.Dialect(dialect.SQLite).
			Insert(tableStars).
			Columns("topic_id", "starred_at").
			Values(topicID, time.Now().UTC()).
			OnConflict(entsql.ConflictColumns("topic_id"), entsql.DoNothing()).
			Query()
	} else {
		query, args = entsql.Dialect(dialect.SQLite).
			Delete(tableStars).
			Where(entsql.EQ("topic_id", topicID)).
			Query()
	}

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("set starred %q: %w", topicID, err)
	}
	return nil
}

func (r *starRepo) Starred(ctx context.Context) (map[string]bool, error) {
	b := entsql.Dialect(dialect.SQLite)
	t := b.Table(tableStars)
	query, args := b.Select(t.C("topic_id")).From(t).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query starred topics: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan starred topic: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// Topics returns the catalog with the learner's starred flags applied.
func (s *Store) Topics(ctx context.Context) ([]catalog.Topic, error) {
	starred, err := s.StarRepo().Starred(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.WithStars(catalog.AllTopics(), starred), nil
}
