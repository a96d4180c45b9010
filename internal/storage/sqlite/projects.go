package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"taskhub/internal/models"
)

const projectColumns = `pr.id, pr.name, pr.description, pr.assignee_id, pr.created_at, u.id, u.name, p.avatar_url`

const projectJoin = `
    FROM projects pr
    LEFT JOIN users u ON u.id = pr.assignee_id
    LEFT JOIN profiles p ON p.user_id = u.id`

// CreateProject persists a new project with a generated id.
func (s *Store) CreateProject(ctx context.Context, pr models.Project) (models.Project, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO projects(id, name, description, assignee_id) VALUES(?, ?, ?, ?)`,
		id, pr.Name, pr.Description, pr.AssigneeID)
	if err != nil {
		return models.Project{}, wrapErr("insert project", err)
	}
	return s.GetProject(ctx, id)
}

// GetProject fetches a project by id with its assignee summary resolved.
func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+projectJoin+` WHERE pr.id = ?`, id)
	pr, err := scanProject(row)
	if err != nil {
		return models.Project{}, wrapErr("get project", err)
	}
	return pr, nil
}

// ListProjects returns all projects ordered by creation date.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+projectJoin+` ORDER BY pr.created_at ASC, pr.id ASC`)
	if err != nil {
		return nil, wrapErr("list projects", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		pr, err := scanProject(rows)
		if err != nil {
			return nil, wrapErr("scan project", err)
		}
		projects = append(projects, pr)
	}
	return projects, rows.Err()
}

// UpdateProject writes the full mutable field set of an existing project.
func (s *Store) UpdateProject(ctx context.Context, pr models.Project) (models.Project, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE projects SET name = ?, description = ?, assignee_id = ? WHERE id = ?`,
		pr.Name, pr.Description, pr.AssigneeID, pr.ID)
	if err != nil {
		return models.Project{}, wrapErr("update project", err)
	}
	if err := requireAffected(res, "update project"); err != nil {
		return models.Project{}, err
	}
	return s.GetProject(ctx, pr.ID)
}

// DeleteProject removes a project. Its tasks remain with a null project.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete project", err)
	}
	return requireAffected(res, "delete project")
}

func scanProject(row rowScanner) (models.Project, error) {
	var pr models.Project
	var assigneeID, userID, userName, avatar sql.NullString
	err := row.Scan(&pr.ID, &pr.Name, &pr.Description, &assigneeID, &pr.CreatedAt, &userID, &userName, &avatar)
	if err != nil {
		return models.Project{}, err
	}
	if assigneeID.Valid {
		pr.AssigneeID = &assigneeID.String
	}
	if userID.Valid {
		pr.Assignee = &models.UserSummary{ID: userID.String, Name: userName.String, AvatarURL: avatar.String}
	}
	return pr, nil
}
