package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"taskhub/internal/models"
)

const userColumns = `u.id, u.name, u.email, u.password_hash, u.role, u.created_at, p.user_id, p.bio, p.avatar_url`

// CreateUser persists a new user with a generated id.
func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `INSERT INTO users(id, name, email, password_hash, role) VALUES(?, ?, ?, ?, ?)`,
		id, u.Name, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		return models.User{}, wrapErr("insert user", err)
	}
	return s.GetUser(ctx, id)
}

// GetUser fetches a user by id together with their profile, when present.
func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+`
        FROM users u LEFT JOIN profiles p ON p.user_id = u.id WHERE u.id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, wrapErr("get user", err)
	}
	return u, nil
}

// GetUserByEmail fetches a user by their unique email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+`
        FROM users u LEFT JOIN profiles p ON p.user_id = u.id WHERE u.email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, wrapErr("get user by email", err)
	}
	return u, nil
}

// ListUsers returns all users ordered by creation date.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+`
        FROM users u LEFT JOIN profiles p ON p.user_id = u.id ORDER BY u.created_at ASC, u.id ASC`)
	if err != nil {
		return nil, wrapErr("list users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrapErr("scan user", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser writes the full mutable field set of an existing user.
func (s *Store) UpdateUser(ctx context.Context, u models.User) (models.User, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET name = ?, email = ?, password_hash = ?, role = ? WHERE id = ?`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.ID)
	if err != nil {
		return models.User{}, wrapErr("update user", err)
	}
	if err := requireAffected(res, "update user"); err != nil {
		return models.User{}, err
	}
	return s.GetUser(ctx, u.ID)
}

// DeleteUser removes a user. The profile row goes with it via cascade,
// as do owned tags and categories; project and task assignments become null.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete user", err)
	}
	return requireAffected(res, "delete user")
}

// UpsertProfile creates or replaces the profile attached to a user.
func (s *Store) UpsertProfile(ctx context.Context, p models.Profile) (models.Profile, error) {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO profiles(user_id, bio, avatar_url) VALUES(?, ?, ?)
        ON CONFLICT(user_id) DO UPDATE SET bio = excluded.bio, avatar_url = excluded.avatar_url`,
		p.UserID, p.Bio, p.AvatarURL)
	if err != nil {
		return models.Profile{}, wrapErr("upsert profile", err)
	}

	var out models.Profile
	err = s.db.QueryRowContext(ctx, `SELECT user_id, bio, avatar_url FROM profiles WHERE user_id = ?`, p.UserID).
		Scan(&out.UserID, &out.Bio, &out.AvatarURL)
	if err != nil {
		return models.Profile{}, wrapErr("get profile", err)
	}
	return out, nil
}

// GetProfile fetches the profile attached to a user, if any.
func (s *Store) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRowContext(ctx, `SELECT user_id, bio, avatar_url FROM profiles WHERE user_id = ?`, userID).
		Scan(&p.UserID, &p.Bio, &p.AvatarURL)
	if err != nil {
		return models.Profile{}, wrapErr("get profile", err)
	}
	return p, nil
}

// CountUsers reports how many users exist.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, wrapErr("count users", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var profileID, bio, avatar sql.NullString
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &profileID, &bio, &avatar)
	if err != nil {
		return models.User{}, err
	}
	if profileID.Valid {
		u.Profile = &models.Profile{UserID: profileID.String, Bio: bio.String, AvatarURL: avatar.String}
	}
	return u, nil
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return wrapErr(op, sql.ErrNoRows)
	}
	return nil
}
