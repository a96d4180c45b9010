package service

import (
	"context"
	"log/slog"
	"strings"

	"taskhub/internal/apperr"
	"taskhub/internal/auth"
	"taskhub/internal/models"
	"taskhub/internal/storage/sqlite"
)

// CategoryService mirrors TagService for the category axis.
type CategoryService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// CategoryInput carries fields for creating a category.
type CategoryInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CategoryUpdate carries a partial category mutation. A supplied owner id
// is rejected: ownership never changes.
type CategoryUpdate struct {
	Name    *string `json:"name"`
	Color   *string `json:"color"`
	OwnerID *string `json:"owner_id"`
}

// List returns the caller's categories.
func (s *CategoryService) List(ctx context.Context, sess auth.Session) ([]models.Category, error) {
	if !auth.Allowed(sess.Role, auth.ResourceCategory, auth.OpList) {
		return nil, apperr.Forbidden()
	}
	categories, err := s.store.ListCategoriesByOwner(ctx, sess.UserID)
	if err != nil {
		return nil, storeErr("category", err)
	}
	return categories, nil
}

// Get fetches one of the caller's categories.
func (s *CategoryService) Get(ctx context.Context, sess auth.Session, id string) (models.Category, error) {
	if !auth.Allowed(sess.Role, auth.ResourceCategory, auth.OpRead) {
		return models.Category{}, apperr.Forbidden()
	}
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return models.Category{}, storeErr("category", err)
	}
	if c.OwnerID != sess.UserID {
		return models.Category{}, apperr.Forbidden()
	}
	return c, nil
}

// Create validates and persists a new category owned by the caller.
func (s *CategoryService) Create(ctx context.Context, sess auth.Session, in CategoryInput) (models.Category, error) {
	if !auth.Allowed(sess.Role, auth.ResourceCategory, auth.OpCreate) {
		return models.Category{}, apperr.Forbidden()
	}
	if err := requireFields("name", in.Name); err != nil {
		return models.Category{}, err
	}

	color := models.ColorGray
	if in.Color != "" {
		color = models.Color(in.Color)
		if !color.Valid() {
			return models.Category{}, invalidEnum("color", in.Color)
		}
	}

	c, err := s.store.CreateCategory(ctx, models.Category{
		Name:    strings.TrimSpace(in.Name),
		Color:   color,
		OwnerID: sess.UserID,
	})
	if err != nil {
		return models.Category{}, storeErr("category", err)
	}
	return c, nil
}

// Update applies the supplied fields to one of the caller's categories.
func (s *CategoryService) Update(ctx context.Context, sess auth.Session, id string, in CategoryUpdate) (models.Category, error) {
	if !auth.Allowed(sess.Role, auth.ResourceCategory, auth.OpUpdate) {
		return models.Category{}, apperr.Forbidden()
	}
	if in.OwnerID != nil {
		return models.Category{}, apperr.Validationf("owner_id: category ownership cannot change")
	}

	current, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return models.Category{}, storeErr("category", err)
	}
	if current.OwnerID != sess.UserID {
		return models.Category{}, apperr.Forbidden()
	}

	if in.Name != nil {
		if err := requireFields("name", *in.Name); err != nil {
			return models.Category{}, err
		}
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Color != nil {
		color := models.Color(*in.Color)
		if !color.Valid() {
			return models.Category{}, invalidEnum("color", *in.Color)
		}
		current.Color = color
	}

	c, err := s.store.UpdateCategory(ctx, current)
	if err != nil {
		return models.Category{}, storeErr("category", err)
	}
	return c, nil
}

// Delete removes one of the caller's categories and detaches it from any tasks.
func (s *CategoryService) Delete(ctx context.Context, sess auth.Session, id string) error {
	if !auth.Allowed(sess.Role, auth.ResourceCategory, auth.OpDelete) {
		return apperr.Forbidden()
	}
	current, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return storeErr("category", err)
	}
	if current.OwnerID != sess.UserID {
		return apperr.Forbidden()
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return storeErr("category", err)
	}
	return nil
}
