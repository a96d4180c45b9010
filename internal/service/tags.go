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

// TagService exposes tag CRUD. Every tag belongs to exactly one user and
// is only ever visible to that user.
type TagService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// TagInput carries fields for creating a tag. The owner is always the
// caller; it is not part of the input.
type TagInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TagUpdate carries a partial tag mutation. A supplied owner id is
// rejected: ownership never changes.
type TagUpdate struct {
	Name    *string `json:"name"`
	Color   *string `json:"color"`
	OwnerID *string `json:"owner_id"`
}

// List returns the caller's tags.
func (s *TagService) List(ctx context.Context, sess auth.Session) ([]models.Tag, error) {
	if !auth.Allowed(sess.Role, auth.ResourceTag, auth.OpList) {
		return nil, apperr.Forbidden()
	}
	tags, err := s.store.ListTagsByOwner(ctx, sess.UserID)
	if err != nil {
		return nil, storeErr("tag", err)
	}
	return tags, nil
}

// Get fetches one of the caller's tags.
func (s *TagService) Get(ctx context.Context, sess auth.Session, id string) (models.Tag, error) {
	if !auth.Allowed(sess.Role, auth.ResourceTag, auth.OpRead) {
		return models.Tag{}, apperr.Forbidden()
	}
	t, err := s.store.GetTag(ctx, id)
	if err != nil {
		return models.Tag{}, storeErr("tag", err)
	}
	if t.OwnerID != sess.UserID {
		return models.Tag{}, apperr.Forbidden()
	}
	return t, nil
}

// Create validates and persists a new tag owned by the caller.
func (s *TagService) Create(ctx context.Context, sess auth.Session, in TagInput) (models.Tag, error) {
	if !auth.Allowed(sess.Role, auth.ResourceTag, auth.OpCreate) {
		return models.Tag{}, apperr.Forbidden()
	}
	if err := requireFields("name", in.Name); err != nil {
		return models.Tag{}, err
	}

	color := models.ColorGray
	if in.Color != "" {
		color = models.Color(in.Color)
		if !color.Valid() {
			return models.Tag{}, invalidEnum("color", in.Color)
		}
	}

	t, err := s.store.CreateTag(ctx, models.Tag{
		Name:    strings.TrimSpace(in.Name),
		Color:   color,
		OwnerID: sess.UserID,
	})
	if err != nil {
		return models.Tag{}, storeErr("tag", err)
	}
	return t, nil
}

// Update applies the supplied fields to one of the caller's tags.
func (s *TagService) Update(ctx context.Context, sess auth.Session, id string, in TagUpdate) (models.Tag, error) {
	if !auth.Allowed(sess.Role, auth.ResourceTag, auth.OpUpdate) {
		return models.Tag{}, apperr.Forbidden()
	}
	if in.OwnerID != nil {
		return models.Tag{}, apperr.Validationf("owner_id: tag ownership cannot change")
	}

	current, err := s.store.GetTag(ctx, id)
	if err != nil {
		return models.Tag{}, storeErr("tag", err)
	}
	if current.OwnerID != sess.UserID {
		return models.Tag{}, apperr.Forbidden()
	}

	if in.Name != nil {
		if err := requireFields("name", *in.Name); err != nil {
			return models.Tag{}, err
		}
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Color != nil {
		color := models.Color(*in.Color)
		if !color.Valid() {
			return models.Tag{}, invalidEnum("color", *in.Color)
		}
		current.Color = color
	}

	t, err := s.store.UpdateTag(ctx, current)
	if err != nil {
		return models.Tag{}, storeErr("tag", err)
	}
	return t, nil
}

// Delete removes one of the caller's tags and detaches it from any tasks.
func (s *TagService) Delete(ctx context.Context, sess auth.Session, id string) error {
	if !auth.Allowed(sess.Role, auth.ResourceTag, auth.OpDelete) {
		return apperr.Forbidden()
	}
	current, err := s.store.GetTag(ctx, id)
	if err != nil {
		return storeErr("tag", err)
	}
	if current.OwnerID != sess.UserID {
		return apperr.Forbidden()
	}
	if err := s.store.DeleteTag(ctx, id); err != nil {
		return storeErr("tag", err)
	}
	return nil
}
