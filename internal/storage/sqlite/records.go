package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pairbook/internal/models"
	"pairbook/internal/storage"
)

const recordColumns = `id, kind, title, amount, category, date, payer, receiver,
	method, split_type, my_ratio, note, recorded_by, created_at, updated_at`

// CreateRecord persists a new record, generating ID and timestamps.
func (s *SQLiteStore) CreateRecord(ctx context.Context, rec *models.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if rec.CreatedAt == 0 {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Kind, rec.Title, rec.Amount, rec.Category, rec.Date,
		rec.Payer, rec.Receiver, rec.Method, rec.SplitType, rec.MyRatio,
		rec.Note, rec.RecordedBy, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

// GetRecord retrieves a record by ID.
func (s *SQLiteStore) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return rec, nil
}

// UpdateRecord replaces an existing record wholesale.
func (s *SQLiteStore) UpdateRecord(ctx context.Context, rec *models.Record) error {
	rec.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET kind = ?, title = ?, amount = ?, category = ?,
		 date = ?, payer = ?, receiver = ?, method = ?, split_type = ?,
		 my_ratio = ?, note = ?, recorded_by = ?, updated_at = ?
		 WHERE id = ?`,
		rec.Kind, rec.Title, rec.Amount, rec.Category, rec.Date,
		rec.Payer, rec.Receiver, rec.Method, rec.SplitType, rec.MyRatio,
		rec.Note, rec.RecordedBy, rec.UpdatedAt, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteRecord removes a record by ID.
func (s *SQLiteStore) DeleteRecord(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ListRecords returns the snapshot matching filter, newest date first.
func (s *SQLiteStore) ListRecords(ctx context.Context, filter storage.RecordFilter) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records`
	var args []interface{}

	if filter.Month != "" {
		from, to, err := monthRange(filter.Month)
		if err != nil {
			return nil, err
		}
		query += " WHERE date >= ? AND date < ?"
		args = append(args, from, to)
	}
	query += " ORDER BY date DESC, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if filter.Query != "" && !matchesQuery(rec, filter.Query) {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*models.Record, error) {
	rec := &models.Record{}
	err := row.Scan(
		&rec.ID, &rec.Kind, &rec.Title, &rec.Amount, &rec.Category, &rec.Date,
		&rec.Payer, &rec.Receiver, &rec.Method, &rec.SplitType, &rec.MyRatio,
		&rec.Note, &rec.RecordedBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// matchesQuery implements the history search: a case-insensitive substring
// match over title, category, note and the amount digits.
func matchesQuery(rec *models.Record, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(rec.Title), q) ||
		strings.Contains(strings.ToLower(rec.Category), q) ||
		strings.Contains(strings.ToLower(rec.Note), q) ||
		strings.Contains(fmt.Sprintf("%d", rec.Amount), q)
}

// monthRange converts "2006-01" into the [from, to) Unix second range
// covering that calendar month in UTC.
func monthRange(month string) (int64, int64, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", month, err)
	}
	return start.Unix(), start.AddDate(0, 1, 0).Unix(), nil
}
