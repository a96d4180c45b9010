package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"taskhub/internal/models"
)

const taskColumns = `t.id, t.title, t.description, t.priority, t.status, t.assignee_id, t.project_id, t.due_date, t.created_at, u.id, u.name, p.avatar_url`

const taskJoin = `
    FROM tasks t
    LEFT JOIN users u ON u.id = t.assignee_id
    LEFT JOIN profiles p ON p.user_id = u.id`

// CreateTask persists a new task with a generated id.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks(id, title, description, priority, status, assignee_id, project_id, due_date)
        VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.Title, t.Description, t.Priority, t.Status, t.AssigneeID, t.ProjectID, t.DueDate)
	if err != nil {
		return models.Task{}, wrapErr("insert task", err)
	}
	return s.GetTask(ctx, id)
}

// GetTask fetches a task by id with its assignee summary, tags and categories.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+taskJoin+` WHERE t.id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return models.Task{}, wrapErr("get task", err)
	}
	if err := s.loadTaskRelations(ctx, &t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// ListTasks returns every task ordered by creation date.
func (s *Store) ListTasks(ctx context.Context) ([]models.Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+taskJoin+` ORDER BY t.created_at ASC, t.id ASC`)
}

// ListTasksByAssignee returns tasks assigned to one user.
func (s *Store) ListTasksByAssignee(ctx context.Context, userID string) ([]models.Task, error) {
	return s.listTasks(ctx, `SELECT `+taskColumns+taskJoin+` WHERE t.assignee_id = ? ORDER BY t.created_at ASC, t.id ASC`, userID)
}

func (s *Store) listTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list tasks", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrapErr("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range tasks {
		if err := s.loadTaskRelations(ctx, &tasks[i]); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// UpdateTask writes the full mutable field set of an existing task.
func (s *Store) UpdateTask(ctx context.Context, t models.Task) (models.Task, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, priority = ?, status = ?, assignee_id = ?, project_id = ?, due_date = ? WHERE id = ?`,
		t.Title, t.Description, t.Priority, t.Status, t.AssigneeID, t.ProjectID, t.DueDate, t.ID)
	if err != nil {
		return models.Task{}, wrapErr("update task", err)
	}
	if err := requireAffected(res, "update task"); err != nil {
		return models.Task{}, err
	}
	return s.GetTask(ctx, t.ID)
}

// DeleteTask removes a task. Join rows to tags and categories go with it;
// the tags and categories themselves remain.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete task", err)
	}
	return requireAffected(res, "delete task")
}

// LinkTag attaches a tag to a task. Linking twice is a no-op.
func (s *Store) LinkTag(ctx context.Context, taskID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO task_tags(task_id, tag_id) VALUES(?, ?)`, taskID, tagID)
	return wrapErr("link tag", err)
}

// UnlinkTag detaches a tag from a task.
func (s *Store) UnlinkTag(ctx context.Context, taskID, tagID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM task_tags WHERE task_id = ? AND tag_id = ?`, taskID, tagID)
	return wrapErr("unlink tag", err)
}

// LinkCategory attaches a category to a task. Linking twice is a no-op.
func (s *Store) LinkCategory(ctx context.Context, taskID, categoryID string) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO task_categories(task_id, category_id) VALUES(?, ?)`, taskID, categoryID)
	return wrapErr("link category", err)
}

// UnlinkCategory detaches a category from a task.
func (s *Store) UnlinkCategory(ctx context.Context, taskID, categoryID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM task_categories WHERE task_id = ? AND category_id = ?`, taskID, categoryID)
	return wrapErr("unlink category", err)
}

func (s *Store) loadTaskRelations(ctx context.Context, t *models.Task) error {
	tagRows, err := s.db.QueryContext(ctx, `SELECT tg.id, tg.name, tg.color, tg.owner_id, tg.created_at, tg.updated_at
        FROM tags tg JOIN task_tags tt ON tt.tag_id = tg.id WHERE tt.task_id = ? ORDER BY tg.name`, t.ID)
	if err != nil {
		return wrapErr("task tags", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tg models.Tag
		if err := tagRows.Scan(&tg.ID, &tg.Name, &tg.Color, &tg.OwnerID, &tg.CreatedAt, &tg.UpdatedAt); err != nil {
			return wrapErr("scan task tag", err)
		}
		t.Tags = append(t.Tags, tg)
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	catRows, err := s.db.QueryContext(ctx, `SELECT c.id, c.name, c.color, c.owner_id, c.created_at, c.updated_at
        FROM categories c JOIN task_categories tc ON tc.category_id = c.id WHERE tc.task_id = ? ORDER BY c.name`, t.ID)
	if err != nil {
		return wrapErr("task categories", err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var c models.Category
		if err := catRows.Scan(&c.ID, &c.Name, &c.Color, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return wrapErr("scan task category", err)
		}
		t.Categories = append(t.Categories, c)
	}
	return catRows.Err()
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	var assigneeID, projectID, userID, userName, avatar sql.NullString
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Priority, &t.Status, &assigneeID, &projectID, &due, &t.CreatedAt, &userID, &userName, &avatar)
	if err != nil {
		return models.Task{}, err
	}
	if assigneeID.Valid {
		t.AssigneeID = &assigneeID.String
	}
	if projectID.Valid {
		t.ProjectID = &projectID.String
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	if userID.Valid {
		t.Assignee = &models.UserSummary{ID: userID.String, Name: userName.String, AvatarURL: avatar.String}
	}
	return t, nil
}
