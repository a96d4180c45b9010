package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"taskhub/internal/apperr"
	"taskhub/internal/auth"
	"taskhub/internal/models"
	"taskhub/internal/storage/sqlite"
)

// TaskService exposes task CRUD for every role, with colaborators scoped
// to the tasks assigned to them.
type TaskService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// TaskInput carries fields for creating a task. Due dates arrive as
// RFC 3339 strings.
type TaskInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	AssigneeID  *string `json:"assignee_id"`
	ProjectID   *string `json:"project_id"`
	DueDate     *string `json:"due_date"`
}

// TaskUpdate carries a partial task mutation. Nil fields are left
// unchanged; empty assignee/project/due-date values clear the field.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	AssigneeID  *string `json:"assignee_id"`
	ProjectID   *string `json:"project_id"`
	DueDate     *string `json:"due_date"`
}

// List returns the tasks visible to the caller: everything for
// administrators and project managers, own assignments for colaborators.
func (s *TaskService) List(ctx context.Context, sess auth.Session) ([]models.Task, error) {
	if !auth.Allowed(sess.Role, auth.ResourceTask, auth.OpList) {
		return nil, apperr.Forbidden()
	}
	var (
		tasks []models.Task
		err   error
	)
	if sess.Role == models.RoleColaborator {
		tasks, err = s.store.ListTasksByAssignee(ctx, sess.UserID)
	} else {
		tasks, err = s.store.ListTasks(ctx)
	}
	if err != nil {
		return nil, storeErr("task", err)
	}
	return tasks, nil
}

// Get fetches a single task visible to the caller.
func (s *TaskService) Get(ctx context.Context, sess auth.Session, id string) (models.Task, error) {
	if !auth.Allowed(sess.Role, auth.ResourceTask, auth.OpRead) {
		return models.Task{}, apperr.Forbidden()
	}
	t, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, storeErr("task", err)
	}
	if err := s.checkScope(sess, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Create validates and persists a new task. Colaborators may only create
// tasks assigned to themselves.
func (s *TaskService) Create(ctx context.Context, sess auth.Session, in TaskInput) (models.Task, error) {
	if !auth.Allowed(sess.Role, auth.ResourceTask, auth.OpCreate) {
		return models.Task{}, apperr.Forbidden()
	}
	if err := requireFields("title", in.Title); err != nil {
		return models.Task{}, err
	}

	priority := models.PriorityLow
	if in.Priority != "" {
		priority = models.Priority(in.Priority)
		if !priority.Valid() {
			return models.Task{}, invalidEnum("priority", in.Priority)
		}
	}
	status := models.StatusPending
	if in.Status != "" {
		status = models.Status(in.Status)
		if !status.Valid() {
			return models.Task{}, invalidEnum("status", in.Status)
		}
	}

	assignee, err := s.resolveUser(ctx, in.AssigneeID)
	if err != nil {
		return models.Task{}, err
	}
	if sess.Role == models.RoleColaborator {
		if assignee == nil {
			assignee = &sess.UserID
		} else if *assignee != sess.UserID {
			return models.Task{}, apperr.Forbidden()
		}
	}

	project, err := s.resolveProject(ctx, in.ProjectID)
	if err != nil {
		return models.Task{}, err
	}
	due, err := parseDueDate(in.DueDate)
	if err != nil {
		return models.Task{}, err
	}

	t, err := s.store.CreateTask(ctx, models.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Priority:    priority,
		Status:      status,
		AssigneeID:  assignee,
		ProjectID:   project,
		DueDate:     due,
	})
	if err != nil {
		return models.Task{}, storeErr("task", err)
	}
	return t, nil
}

// Update applies the supplied fields to a task the caller may touch.
func (s *TaskService) Update(ctx context.Context, sess auth.Session, id string, in TaskUpdate) (models.Task, error) {
	if !auth.Allowed(sess.Role, auth.ResourceTask, auth.OpUpdate) {
		return models.Task{}, apperr.Forbidden()
	}

	current, err := s.store.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, storeErr("task", err)
	}
	if err := s.checkScope(sess, current); err != nil {
		return models.Task{}, err
	}

	if in.Title != nil {
		if err := requireFields("title", *in.Title); err != nil {
			return models.Task{}, err
		}
		current.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		current.Description = strings.TrimSpace(*in.Description)
	}
	if in.Priority != nil {
		priority := models.Priority(*in.Priority)
		if !priority.Valid() {
			return models.Task{}, invalidEnum("priority", *in.Priority)
		}
		current.Priority = priority
	}
	if in.Status != nil {
		status := models.Status(*in.Status)
		if !status.Valid() {
			return models.Task{}, invalidEnum("status", *in.Status)
		}
		current.Status = status
	}
	if in.AssigneeID != nil {
		assignee, err := s.resolveUser(ctx, in.AssigneeID)
		if err != nil {
			return models.Task{}, err
		}
		if sess.Role == models.RoleColaborator && (assignee == nil || *assignee != sess.UserID) {
			return models.Task{}, apperr.Forbidden()
		}
		current.AssigneeID = assignee
	}
	if in.ProjectID != nil {
		project, err := s.resolveProject(ctx, in.ProjectID)
		if err != nil {
			return models.Task{}, err
		}
		current.ProjectID = project
	}
	if in.DueDate != nil {
		due, err := parseDueDate(in.DueDate)
		if err != nil {
			return models.Task{}, err
		}
		current.DueDate = due
	}

	t, err := s.store.UpdateTask(ctx, current)
	if err != nil {
		return models.Task{}, storeErr("task", err)
	}
	return t, nil
}

// Delete removes a task the caller may touch and detaches its tag and
// category links.
func (s *TaskService) Delete(ctx context.Context, sess auth.Session, id string) error {
	if !auth.Allowed(sess.Role, auth.ResourceTask, auth.OpDelete) {
		return apperr.Forbidden()
	}
	current, err := s.store.GetTask(ctx, id)
	if err != nil {
		return storeErr("task", err)
	}
	if err := s.checkScope(sess, current); err != nil {
		return err
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return storeErr("task", err)
	}
	return nil
}

// AttachTag links one of the caller's tags to a visible task.
func (s *TaskService) AttachTag(ctx context.Context, sess auth.Session, taskID, tagID string) (models.Task, error) {
	task, err := s.Get(ctx, sess, taskID)
	if err != nil {
		return models.Task{}, err
	}
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return models.Task{}, storeErr("tag", err)
	}
	if tag.OwnerID != sess.UserID {
		return models.Task{}, apperr.Forbidden()
	}
	if err := s.store.LinkTag(ctx, task.ID, tag.ID); err != nil {
		return models.Task{}, storeErr("task", err)
	}
	return s.Get(ctx, sess, taskID)
}

// DetachTag unlinks one of the caller's tags from a visible task.
func (s *TaskService) DetachTag(ctx context.Context, sess auth.Session, taskID, tagID string) (models.Task, error) {
	task, err := s.Get(ctx, sess, taskID)
	if err != nil {
		return models.Task{}, err
	}
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return models.Task{}, storeErr("tag", err)
	}
	if tag.OwnerID != sess.UserID {
		return models.Task{}, apperr.Forbidden()
	}
	if err := s.store.UnlinkTag(ctx, task.ID, tag.ID); err != nil {
		return models.Task{}, storeErr("task", err)
	}
	return s.Get(ctx, sess, taskID)
}

// AttachCategory links one of the caller's categories to a visible task.
func (s *TaskService) AttachCategory(ctx context.Context, sess auth.Session, taskID, categoryID string) (models.Task, error) {
	task, err := s.Get(ctx, sess, taskID)
	if err != nil {
		return models.Task{}, err
	}
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return models.Task{}, storeErr("category", err)
	}
	if category.OwnerID != sess.UserID {
		return models.Task{}, apperr.Forbidden()
	}
	if err := s.store.LinkCategory(ctx, task.ID, category.ID); err != nil {
		return models.Task{}, storeErr("task", err)
	}
	return s.Get(ctx, sess, taskID)
}

// DetachCategory unlinks one of the caller's categories from a visible task.
func (s *TaskService) DetachCategory(ctx context.Context, sess auth.Session, taskID, categoryID string) (models.Task, error) {
	task, err := s.Get(ctx, sess, taskID)
	if err != nil {
		return models.Task{}, err
	}
	category, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return models.Task{}, storeErr("category", err)
	}
	if category.OwnerID != sess.UserID {
		return models.Task{}, apperr.Forbidden()
	}
	if err := s.store.UnlinkCategory(ctx, task.ID, category.ID); err != nil {
		return models.Task{}, storeErr("task", err)
	}
	return s.Get(ctx, sess, taskID)
}

// checkScope enforces assignment scoping for colaborators.
func (s *TaskService) checkScope(sess auth.Session, t models.Task) error {
	switch sess.Role {
	case models.RoleAdministrator, models.RoleProjectManager:
		return nil
	case models.RoleColaborator:
		if t.AssigneeID != nil && *t.AssigneeID == sess.UserID {
			return nil
		}
		return apperr.Forbidden()
	default:
		return apperr.Forbidden()
	}
}

func (s *TaskService) resolveUser(ctx context.Context, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*id)
	if _, err := s.store.GetUser(ctx, trimmed); err != nil {
		return nil, apperr.Validationf("assignee_id: no such user")
	}
	return &trimmed, nil
}

func (s *TaskService) resolveProject(ctx context.Context, id *string) (*string, error) {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*id)
	if _, err := s.store.GetProject(ctx, trimmed); err != nil {
		return nil, apperr.Validationf("project_id: no such project")
	}
	return &trimmed, nil
}

func parseDueDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	due, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, apperr.Validationf("due_date: expected RFC 3339 timestamp")
	}
	return &due, nil
}
