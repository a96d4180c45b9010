package sqlite

import (
	"context"

	"github.com/google/uuid"

	"taskhub/internal/models"
)

// CreateCategory persists a new category for its owner.
func (s *Store) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO categories(id, name, color, owner_id) VALUES(?, ?, ?, ?)`,
		id, c.Name, c.Color, c.OwnerID)
	if err != nil {
		return models.Category{}, wrapErr("insert category", err)
	}
	return s.GetCategory(ctx, id)
}

// GetCategory fetches a category by id.
func (s *Store) GetCategory(ctx context.Context, id string) (models.Category, error) {
	var c models.Category
	err := s.db.QueryRowContext(ctx, `SELECT id, name, color, owner_id, created_at, updated_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Color, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Category{}, wrapErr("get category", err)
	}
	return c, nil
}

// ListCategoriesByOwner returns one user's categories ordered by name.
func (s *Store) ListCategoriesByOwner(ctx context.Context, ownerID string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, owner_id, created_at, updated_at FROM categories WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, wrapErr("scan category", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// UpdateCategory writes a category's name and color. The owner column is never touched.
func (s *Store) UpdateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE categories SET name = ?, color = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		c.Name, c.Color, c.ID)
	if err != nil {
		return models.Category{}, wrapErr("update category", err)
	}
	if err := requireAffected(res, "update category"); err != nil {
		return models.Category{}, err
	}
	return s.GetCategory(ctx, c.ID)
}

// DeleteCategory removes a category and detaches it from any tasks.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete category", err)
	}
	return requireAffected(res, "delete category")
}
