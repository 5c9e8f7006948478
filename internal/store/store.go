// Package store keeps a history of emitted notification batches in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var errNotInitialized = errors.New("store is not initialized")

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Notification is one stored message. Position is its index in the batch.
type Notification struct {
	ID        int64
	BatchID   string
	Position  int
	Source    string
	Kind      string
	Message   string
	URL       string
	CreatedAt time.Time
}

type NotificationInput struct {
	Source  string
	Kind    string
	Message string
	URL     string
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Pragmas in the DSN run on every pooled connection, so cascades hold
	// whichever connection serves a query.
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveBatch stores in as one batch, keeping slice order as positions, and
// returns the new batch ID. An empty batch is recorded with size 0.
func (s *Store) SaveBatch(ctx context.Context, in []NotificationInput) (string, error) {
	if s == nil || s.db == nil {
		return "", errNotInitialized
	}

	for i, n := range in {
		if strings.TrimSpace(n.Message) == "" {
			return "", fmt.Errorf("notification %d: message is required", i)
		}
		if strings.TrimSpace(n.Source) == "" {
			return "", fmt.Errorf("notification %d: source is required", i)
		}
	}

	batchID := uuid.NewString()
	createdAt := formatTime(s.now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin batch transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO batches (id, size, created_at) VALUES (?, ?, ?)",
		batchID, len(in), createdAt,
	); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("insert batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO notifications (batch_id, position, source, kind, message, url)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("prepare notification insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, n := range in {
		var urlVal sql.NullString
		if u := strings.TrimSpace(n.URL); u != "" {
			urlVal = sql.NullString{String: u, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, batchID, i, n.Source, n.Kind, n.Message, urlVal); err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("insert notification %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit batch: %w", err)
	}
	return batchID, nil
}

// Batch returns the notifications of one batch in position order.
func (s *Store) Batch(ctx context.Context, batchID string) ([]Notification, error) {
	if s == nil || s.db == nil {
		return nil, errNotInitialized
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.batch_id, n.position, n.source, n.kind, n.message, n.url, b.created_at
		FROM notifications n
		JOIN batches b ON b.id = n.batch_id
		WHERE n.batch_id = ?
		ORDER BY n.position ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	return scanNotifications(rows)
}

// Recent returns the notifications of the newest limit non-empty batches,
// newest batch first and position order within a batch.
func (s *Store) Recent(ctx context.Context, limit int) ([]Notification, error) {
	if s == nil || s.db == nil {
		return nil, errNotInitialized
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT n.id, n.batch_id, n.position, n.source, n.kind, n.message, n.url, b.created_at
		FROM notifications n
		JOIN (
			SELECT id, created_at, rowid AS seq FROM batches
			WHERE size > 0
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		) b ON b.id = n.batch_id
		ORDER BY b.created_at DESC, b.seq DESC, n.position ASC
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	return scanNotifications(rows)
}

// PruneOld deletes batches older than retainDays; their notifications are
// cascade-deleted. Returns the number of batches removed.
func (s *Store) PruneOld(ctx context.Context, retainDays int) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errNotInitialized
	}
	if retainDays <= 0 {
		return 0, nil
	}

	cutoff := formatTime(s.now().AddDate(0, 0, -retainDays))
	res, err := s.db.ExecContext(ctx, "DELETE FROM batches WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune old batches: %w", err)
	}

	n, _ := res.RowsAffected()
	return n, nil
}

func scanNotifications(rows *sql.Rows) ([]Notification, error) {
	defer func() { _ = rows.Close() }()

	var out []Notification
	for rows.Next() {
		var (
			n         Notification
			urlVal    sql.NullString
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.BatchID, &n.Position, &n.Source, &n.Kind, &n.Message, &urlVal, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.URL = urlVal.String

		ts, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		n.CreatedAt = ts
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(timeLayout, value); err == nil {
		return ts, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
