// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"pairbook/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// RecordFilter narrows a snapshot read.
// The zero value means the full record set.
type RecordFilter struct {
	// Month restricts records to one calendar month ("2006-01"). Empty
	// means all months.
	Month string

	// Query is a free-text filter over title, category, note and amount.
	// Empty means no filtering.
	Query string
}

// Store defines the interface for ledger persistence. It plays the role of
// the external document store the app is built around: full-record writes,
// full-snapshot reads, last write wins. The ledger engine never reads
// incrementally; callers fetch the snapshot and recompute.
type Store interface {
	// CreateRecord persists a new record, assigning ID and timestamps.
	CreateRecord(ctx context.Context, rec *models.Record) error

	// GetRecord retrieves a record by ID, or ErrNotFound.
	GetRecord(ctx context.Context, id string) (*models.Record, error)

	// UpdateRecord replaces an existing record wholesale (no field-level
	// patching), or returns ErrNotFound.
	UpdateRecord(ctx context.Context, rec *models.Record) error

	// DeleteRecord removes a record by ID, or returns ErrNotFound.
	DeleteRecord(ctx context.Context, id string) error

	// ListRecords returns the snapshot matching filter, newest date first.
	ListRecords(ctx context.Context, filter RecordFilter) ([]*models.Record, error)

	// ListCategories returns the configured category list in display order.
	ListCategories(ctx context.Context) ([]models.Category, error)

	// ReplaceCategories saves the full category list, replacing the old
	// one. Historical records keep whatever names they reference.
	ReplaceCategories(ctx context.Context, categories []models.Category) error

	// GetSettings returns the household settings (zero values if unset).
	GetSettings(ctx context.Context) (*models.Settings, error)

	// SaveSettings replaces the household settings.
	SaveSettings(ctx context.Context, settings *models.Settings) error

	// CreateUser inserts a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no
	// such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
