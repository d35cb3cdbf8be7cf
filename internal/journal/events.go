package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event kinds written by the license and media stores.
const (
	KindLicenseActivated = "license.activated"
	KindLicenseRemoved   = "license.removed"
	KindLicenseRecovered = "license.recovered"
	KindMediaUploaded    = "media.uploaded"
)

const (
	timeLayout       = "2006-01-02T15:04:05.000000000Z07:00"
	defaultListLimit = 50
	maxListLimit     = 1000
)

// Event is one journal entry.
type Event struct {
	ID        string    `json:"id" yaml:"id"`
	Kind      string    `json:"kind" yaml:"kind"`
	Subject   string    `json:"subject" yaml:"subject"`
	Detail    string    `json:"detail,omitempty" yaml:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Filter narrows a List query.
type Filter struct {
	Kind  string
	Limit int
}

// Recorder accepts journal events. Implementations must be safe to call
// after the owning store operation has already succeeded or failed.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// Record appends ev, assigning an id and timestamp when missing.
func (j *Journal) Record(ctx context.Context, ev Event) error {
	if j == nil || j.db == nil {
		return fmt.Errorf("journal is not configured")
	}
	ev.Kind = strings.TrimSpace(ev.Kind)
	if ev.Kind == "" {
		return fmt.Errorf("event kind is required")
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = j.now()
	}

	_, err := j.db.ExecContext(ctx,
		"INSERT INTO events (id, kind, subject, detail, created_at) VALUES (?, ?, ?, ?, ?)",
		ev.ID, ev.Kind, ev.Subject, nullableString(ev.Detail), ev.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("record event %s: %w", ev.Kind, err)
	}
	return nil
}

// List returns events newest first.
func (j *Journal) List(ctx context.Context, f Filter) ([]Event, error) {
	if j == nil || j.db == nil {
		return nil, fmt.Errorf("journal is not configured")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := "SELECT id, kind, subject, detail, created_at FROM events"
	args := []any{}
	if kind := strings.TrimSpace(f.Kind); kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var (
			ev        Event
			detail    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&ev.ID, &ev.Kind, &ev.Subject, &detail, &createdAt); err != nil {
			return nil, err
		}
		ev.Detail = detail.String
		ev.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for event %s: %w", ev.ID, err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
