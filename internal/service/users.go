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

// UserService exposes user management for administrators, plus the
// self-service operations every authenticated caller has: authentication
// and maintaining their own profile.
type UserService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// UserInput carries fields for creating a user.
type UserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserUpdate carries a partial user mutation. A nil password leaves the
// stored credential untouched.
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// ProfileInput carries the caller's profile fields.
type ProfileInput struct {
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// List returns all users. Administrators only.
func (s *UserService) List(ctx context.Context, sess auth.Session) ([]models.User, error) {
	if !auth.Allowed(sess.Role, auth.ResourceUser, auth.OpList) {
		return nil, apperr.Forbidden()
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, storeErr("user", err)
	}
	return users, nil
}

// Get fetches a user by id. Administrators only.
func (s *UserService) Get(ctx context.Context, sess auth.Session, id string) (models.User, error) {
	if !auth.Allowed(sess.Role, auth.ResourceUser, auth.OpRead) {
		return models.User{}, apperr.Forbidden()
	}
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return models.User{}, storeErr("user", err)
	}
	return u, nil
}

// Create validates and persists a new user with a hashed credential.
func (s *UserService) Create(ctx context.Context, sess auth.Session, in UserInput) (models.User, error) {
	if !auth.Allowed(sess.Role, auth.ResourceUser, auth.OpCreate) {
		return models.User{}, apperr.Forbidden()
	}
	if err := requireFields("name", in.Name, "email", in.Email, "password", in.Password, "role", in.Role); err != nil {
		return models.User{}, err
	}
	role := models.Role(in.Role)
	if !role.Valid() {
		return models.User{}, invalidEnum("role", in.Role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, apperr.Internal(err)
	}

	u, err := s.store.CreateUser(ctx, models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return models.User{}, storeErr("user", err)
	}
	return u, nil
}

// Update applies the supplied fields to an existing user.
func (s *UserService) Update(ctx context.Context, sess auth.Session, id string, in UserUpdate) (models.User, error) {
	if !auth.Allowed(sess.Role, auth.ResourceUser, auth.OpUpdate) {
		return models.User{}, apperr.Forbidden()
	}

	current, err := s.store.GetUser(ctx, id)
	if err != nil {
		return models.User{}, storeErr("user", err)
	}

	if in.Name != nil {
		if err := requireFields("name", *in.Name); err != nil {
			return models.User{}, err
		}
		current.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		if err := requireFields("email", *in.Email); err != nil {
			return models.User{}, err
		}
		current.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Role != nil {
		role := models.Role(*in.Role)
		if !role.Valid() {
			return models.User{}, invalidEnum("role", *in.Role)
		}
		current.Role = role
	}
	if in.Password != nil {
		if err := requireFields("password", *in.Password); err != nil {
			return models.User{}, err
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return models.User{}, apperr.Internal(err)
		}
		current.PasswordHash = hash
	}

	u, err := s.store.UpdateUser(ctx, current)
	if err != nil {
		return models.User{}, storeErr("user", err)
	}
	return u, nil
}

// Delete removes a user. The user's profile, tags and categories go with
// them; their project and task assignments become unassigned.
func (s *UserService) Delete(ctx context.Context, sess auth.Session, id string) error {
	if !auth.Allowed(sess.Role, auth.ResourceUser, auth.OpDelete) {
		return apperr.Forbidden()
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return storeErr("user", err)
	}
	return nil
}

// Authenticate verifies credentials for the login endpoint. It is not
// role-gated; the caller has no session yet.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	if err := requireFields("email", email, "password", password); err != nil {
		return models.User{}, err
	}
	u, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return models.User{}, apperr.Forbidden()
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return models.User{}, apperr.Forbidden()
	}
	return u, nil
}

// Me returns the caller's own record. Any authenticated role.
func (s *UserService) Me(ctx context.Context, sess auth.Session) (models.User, error) {
	u, err := s.store.GetUser(ctx, sess.UserID)
	if err != nil {
		return models.User{}, storeErr("user", err)
	}
	return u, nil
}

// UpdateProfile upserts the caller's own profile. Any authenticated role.
func (s *UserService) UpdateProfile(ctx context.Context, sess auth.Session, in ProfileInput) (models.Profile, error) {
	p, err := s.store.UpsertProfile(ctx, models.Profile{
		UserID:    sess.UserID,
		Bio:       strings.TrimSpace(in.Bio),
		AvatarURL: strings.TrimSpace(in.AvatarURL),
	})
	if err != nil {
		return models.Profile{}, storeErr("profile", err)
	}
	return p, nil
}

// EnsureAdmin seeds the first administrator when the store is empty, so a
// fresh deployment has a way in.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	n, err := s.store.CountUsers(ctx)
	if err != nil {
		return storeErr("user", err)
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperr.Internal(err)
	}
	u, err := s.store.CreateUser(ctx, models.User{
		Name:         name,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Role:         models.RoleAdministrator,
	})
	if err != nil {
		return storeErr("user", err)
	}
	s.logger.Info("seeded initial administrator", slog.String("id", u.ID), slog.String("email", u.Email))
	return nil
}
