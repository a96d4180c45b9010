package sqlite

import (
	"context"

	"github.com/google/uuid"

	"taskhub/internal/models"
)

// CreateTag persists a new tag for its owner.
func (s *Store) CreateTag(ctx context.Context, t models.Tag) (models.Tag, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO tags(id, name, color, owner_id) VALUES(?, ?, ?, ?)`,
		id, t.Name, t.Color, t.OwnerID)
	if err != nil {
		return models.Tag{}, wrapErr("insert tag", err)
	}
	return s.GetTag(ctx, id)
}

// GetTag fetches a tag by id.
func (s *Store) GetTag(ctx context.Context, id string) (models.Tag, error) {
	var t models.Tag
	err := s.db.QueryRowContext(ctx, `SELECT id, name, color, owner_id, created_at, updated_at FROM tags WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Color, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return models.Tag{}, wrapErr("get tag", err)
	}
	return t, nil
}

// ListTagsByOwner returns one user's tags ordered by name.
func (s *Store) ListTagsByOwner(ctx context.Context, ownerID string) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color, owner_id, created_at, updated_at FROM tags WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, wrapErr("list tags", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, wrapErr("scan tag", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// UpdateTag writes a tag's name and color. The owner column is never touched.
func (s *Store) UpdateTag(ctx context.Context, t models.Tag) (models.Tag, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tags SET name = ?, color = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		t.Name, t.Color, t.ID)
	if err != nil {
		return models.Tag{}, wrapErr("update tag", err)
	}
	if err := requireAffected(res, "update tag"); err != nil {
		return models.Tag{}, err
	}
	return s.GetTag(ctx, t.ID)
}

// DeleteTag removes a tag and detaches it from any tasks.
func (s *Store) DeleteTag(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete tag", err)
	}
	return requireAffected(res, "delete tag")
}
