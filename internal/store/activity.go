package store

import (
	"context"
	"time"
)

// ActivityLog records one HTTP request handled by the API, for auditing.
// RequestID ties the row to the X-Request-ID response header and the
// server's log lines for the same request.
type ActivityLog struct {
	ID         int64     `json:"id"`
	RequestID  *string   `json:"request_id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode *int      `json:"status_code"`
	IPAddress  *string   `json:"ip_address"`
	Body       *string   `json:"body"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActivityParams carries one request's audit fields.
type ActivityParams struct {
	RequestID  *string
	Method     string
	Path       string
	StatusCode *int
	IPAddress  *string
	Body       *string
}

func (s *Store) InsertActivity(ctx context.Context, p ActivityParams) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_logs (request_id, method, path, status_code, ip_address, body, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.RequestID, p.Method, p.Path, p.StatusCode, p.IPAddress, p.Body, time.Now().UTC())
	if err != nil {
		s.logger.Error("insert activity log failed", "method", p.Method, "path", p.Path, "error", err)
	}
	return err
}

// ListActivity returns the most recent log entries, newest first. With
// onlyAPI set, static-asset and root requests are filtered out so the
// view focuses on user/API activity.
func (s *Store) ListActivity(ctx context.Context, limit int, onlyAPI bool) ([]*ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, request_id, method, path, status_code, ip_address, body, timestamp
	      FROM activity_logs`
	if onlyAPI {
		q += ` WHERE path NOT LIKE '/assets%' AND path <> '/' AND path NOT LIKE '/favicon%'`
	}
	q += ` ORDER BY id DESC LIMIT $1`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		s.logger.Error("list activity logs failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]*ActivityLog, 0)
	for rows.Next() {
		var a ActivityLog
		if err := rows.Scan(&a.ID, &a.RequestID, &a.Method, &a.Path, &a.StatusCode,
			&a.IPAddress, &a.Body, &a.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
