package sqlite

import (
	"context"
	"fmt"

	"pairbook/internal/models"
)

// ListCategories returns the configured category list in display order.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, icon, position FROM categories ORDER BY position, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.Name, &cat.Icon, &cat.Position); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// ReplaceCategories saves the full category list, replacing the old one.
// Records referencing removed names are left untouched.
func (s *SQLiteStore) ReplaceCategories(ctx context.Context, categories []models.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM categories"); err != nil {
		return fmt.Errorf("failed to clear categories: %w", err)
	}

	for i, cat := range categories {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO categories (name, icon, position) VALUES (?, ?, ?)",
			cat.Name, cat.Icon, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
