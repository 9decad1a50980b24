package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out a single increasing number shared by the API
// request log and the attempt history, so the two tables can be merged into
// one timeline. The mutex serializes within the process; the RETURNING
// clause makes the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

const apiEventsTable = "api_request_events"

var apiEventColumns = []string{
	"id", "sequence", "timestamp", "request_id", "method", "path",
	"purpose", "status_code", "latency_ms", "success", "error_message",
}

type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendAPIRequest(ctx context.Context, data APIRequestEventData) error {
	seq, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(apiEventsTable).
		Columns(apiEventColumns[1:]...).
		Values(
			seq, time.Now().UnixMilli(), data.RequestID, data.Method, data.Path,
			data.Purpose, data.StatusCode, data.LatencyMs, data.Success, data.ErrorMessage,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("append api request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAPIEvents(ctx context.Context, opts QueryOpts) ([]APIRequestEvent, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(apiEventColumns...).From(b.Table(apiEventsTable))
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query api events: %w", err)
	}
	defer rows.Close()

	var out []APIRequestEvent
	for rows.Next() {
		ev, err := scanAPIEvent(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetAPIEvent(ctx context.Context, id int64) (*APIRequestEvent, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(apiEventColumns...).
		From(b.Table(apiEventsTable)).
		Where(entsql.EQ("id", id)).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("get api event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	ev, err := scanAPIEvent(&rows)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func scanAPIEvent(rows *entsql.Rows) (APIRequestEvent, error) {
	var (
		ev APIRequestEvent
		ts int64
	)
	err := rows.Scan(
		&ev.ID, &ev.Sequence, &ts, &ev.RequestID, &ev.Method, &ev.Path,
		&ev.Purpose, &ev.StatusCode, &ev.LatencyMs, &ev.Success, &ev.ErrorMessage,
	)
	if err != nil {
		return APIRequestEvent{}, fmt.Errorf("scan api event: %w", err)
	}
	ev.Timestamp = time.UnixMilli(ts)
	return ev, nil
}
