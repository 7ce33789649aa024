package syncx

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Event is one entry of the append-only log. Stream groups the events of
// one session; Seq orders them globally.
type Event struct {
	Seq       int64
	SiteID    string
	Type      string
	Stream    string
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, stream, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Stream, e.DataJSON, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("append %s event: %w", e.Type, err)
	}
	return nil
}

// Stream returns the events of one stream in append order.
func (r *EventRepo) Stream(ctx context.Context, stream string) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, site_id, typ, stream, data, created_at
		   FROM event_log WHERE stream=$1 ORDER BY seq`, stream)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Seq, &e.SiteID, &e.Type, &e.Stream, &e.DataJSON, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
