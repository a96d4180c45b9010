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

// ProjectService exposes project CRUD for administrators and project managers.
type ProjectService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// ProjectInput carries fields for creating a project.
type ProjectInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	AssigneeID  *string `json:"assignee_id"`
}

// ProjectUpdate carries a partial project mutation. Nil fields are left
// unchanged; an empty assignee id clears the assignment.
type ProjectUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AssigneeID  *string `json:"assignee_id"`
}

// List returns all projects visible to the caller.
func (s *ProjectService) List(ctx context.Context, sess auth.Session) ([]models.Project, error) {
	if !auth.Allowed(sess.Role, auth.ResourceProject, auth.OpList) {
		return nil, apperr.Forbidden()
	}
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, storeErr("project", err)
	}
	return projects, nil
}

// Get fetches a single project.
func (s *ProjectService) Get(ctx context.Context, sess auth.Session, id string) (models.Project, error) {
	if !auth.Allowed(sess.Role, auth.ResourceProject, auth.OpRead) {
		return models.Project{}, apperr.Forbidden()
	}
	pr, err := s.store.GetProject(ctx, id)
	if err != nil {
		return models.Project{}, storeErr("project", err)
	}
	return pr, nil
}

// Create validates and persists a new project, returning the canonical record.
func (s *ProjectService) Create(ctx context.Context, sess auth.Session, in ProjectInput) (models.Project, error) {
	if !auth.Allowed(sess.Role, auth.ResourceProject, auth.OpCreate) {
		return models.Project{}, apperr.Forbidden()
	}
	if err := requireFields("name", in.Name); err != nil {
		return models.Project{}, err
	}

	assignee, err := s.resolveAssignee(ctx, in.AssigneeID)
	if err != nil {
		return models.Project{}, err
	}

	pr, err := s.store.CreateProject(ctx, models.Project{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		AssigneeID:  assignee,
	})
	if err != nil {
		return models.Project{}, storeErr("project", err)
	}
	return pr, nil
}

// Update applies the supplied fields to an existing project.
func (s *ProjectService) Update(ctx context.Context, sess auth.Session, id string, in ProjectUpdate) (models.Project, error) {
	if !auth.Allowed(sess.Role, auth.ResourceProject, auth.OpUpdate) {
		return models.Project{}, apperr.Forbidden()
	}

	current, err := s.store.GetProject(ctx, id)
	if err != nil {
		return models.Project{}, storeErr("project", err)
	}

	if in.Name != nil {
		if err := requireFields("name", *in.Name); err != nil {
			return models.Project{}, err
		}
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		current.Description = strings.TrimSpace(*in.Description)
	}
	if in.AssigneeID != nil {
		assignee, err := s.resolveAssignee(ctx, in.AssigneeID)
		if err != nil {
			return models.Project{}, err
		}
		current.AssigneeID = assignee
	}

	pr, err := s.store.UpdateProject(ctx, current)
	if err != nil {
		return models.Project{}, storeErr("project", err)
	}
	return pr, nil
}

// Delete removes a project. Its tasks survive with no parent project.
func (s *ProjectService) Delete(ctx context.Context, sess auth.Session, id string) error {
	if !auth.Allowed(sess.Role, auth.ResourceProject, auth.OpDelete) {
		return apperr.Forbidden()
	}
	if err := s.store.DeleteProject(ctx, id); err != nil {
		return storeErr("project", err)
	}
	return nil
}

// resolveAssignee validates an optional assignee reference. An empty id
// clears the assignment; a non-empty id must name an existing user.
func (s *ProjectService) resolveAssignee(ctx context.Context, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*id)
	if _, err := s.store.GetUser(ctx, trimmed); err != nil {
		return nil, apperr.Validationf("assignee_id: no such user")
	}
	return &trimmed, nil
}
