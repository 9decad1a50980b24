package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const attemptsTable = "quiz_attempts"

var attemptColumns = []string{
	"id", "sequence", "timestamp", "quiz_id", "title", "player_name",
	"score", "total", "accuracy", "submitted", "submit_error",
}

type attemptRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *attemptRepo) AppendAttempt(ctx context.Context, a *Attempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Sequence == 0 {
		seq, err := r.seq.Next(ctx)
		if err != nil {
			return err
		}
		a.Sequence = seq
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(attemptsTable).
		Columns(attemptColumns...).
		Values(
			a.ID, a.Sequence, a.Timestamp.UnixMilli(), a.QuizID, a.Title, a.PlayerName,
			a.Score, a.Total, a.Accuracy, a.Submitted, a.SubmitError,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("append attempt: %w", err)
	}
	return nil
}

func (r *attemptRepo) RecentAttempts(ctx context.Context, limit int) ([]Attempt, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(attemptColumns...).
		From(b.Table(attemptsTable)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a  Attempt
			ts int64
		)
		if err := rows.Scan(
			&a.ID, &a.Sequence, &ts, &a.QuizID, &a.Title, &a.PlayerName,
			&a.Score, &a.Total, &a.Accuracy, &a.Submitted, &a.SubmitError,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Timestamp = time.UnixMilli(ts)
		out = append(out, a)
	}
	return out, rows.Err()
}
