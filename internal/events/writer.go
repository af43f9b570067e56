package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"guardians/internal/domain"
)

// Event is one chronicle entry: a mutation applied to an entity.
type Event struct {
	ID         int64          `json:"id"`
	TS         string         `json:"ts" format:"date-time"`
	Type       string         `json:"type"`
	EntityKind string         `json:"entityKind"`
	EntityID   string         `json:"entityId,omitempty"`
	Payload    map[string]any `json:"payload"`
}

type Payload map[string]any

// Log appends and reads chronicle events. A nil DB makes it a no-op.
type Log struct {
	DB  *sql.DB
	Now func() time.Time
}

func (l Log) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l Log) Append(ctx context.Context, kind, action, entityID string, payload Payload) error {
	if l.DB == nil {
		return nil
	}
	if payload == nil {
		payload = Payload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = l.DB.ExecContext(ctx, `INSERT INTO events(ts,type,entity_kind,entity_id,payload_json) VALUES (?,?,?,?,?)`,
		domain.Timestamp(l.now()), kind+"."+action, kind, nullable(entityID), string(data))
	if err != nil {
		return fmt.Errorf("append event %s.%s: %w", kind, action, err)
	}
	return nil
}

type Filter struct {
	EntityKind string
	EntityID   string
	Type       string
	Limit      int
}

const defaultLimit = 50

// List returns the newest matching events first.
func (l Log) List(ctx context.Context, f Filter) ([]Event, error) {
	if l.DB == nil {
		return []Event{}, nil
	}
	var (
		clauses []string
		args    []any
	)
	if f.EntityKind != "" {
		clauses = append(clauses, "entity_kind=?")
		args = append(args, f.EntityKind)
	}
	if f.EntityID != "" {
		clauses = append(clauses, "entity_id=?")
		args = append(args, f.EntityID)
	}
	if f.Type != "" {
		clauses = append(clauses, "type=?")
		args = append(args, f.Type)
	}
	query := `SELECT id,ts,type,entity_kind,COALESCE(entity_id,''),payload_json FROM events`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := []Event{}
	for rows.Next() {
		var (
			ev  Event
			raw string
		)
		if err := rows.Scan(&ev.ID, &ev.TS, &ev.Type, &ev.EntityKind, &ev.EntityID, &raw); err != nil {
			return nil, err
		}
		ev.Payload = map[string]any{}
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &ev.Payload); err != nil {
				return nil, fmt.Errorf("decode event %d payload: %w", ev.ID, err)
			}
		}
		res = append(res, ev)
	}
	return res, rows.Err()
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
