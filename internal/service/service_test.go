package service

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/apperr"
	"taskhub/internal/auth"
	"taskhub/internal/models"
	"taskhub/internal/storage/sqlite"
)

type fixture struct {
	services *Services
	store    *sqlite.Store
	admin    auth.Session
	manager  auth.Session
	colab    auth.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	mkUser := func(name, email string, role models.Role) auth.Session {
		u, err := store.CreateUser(ctx, models.User{Name: name, Email: email, PasswordHash: "x", Role: role})
		require.NoError(t, err)
		return auth.Session{UserID: u.ID, Role: role}
	}

	return &fixture{
		services: New(store, logger),
		store:    store,
		admin:    mkUser("Ada", "ada@example.com", models.RoleAdministrator),
		manager:  mkUser("Mia", "mia@example.com", models.RoleProjectManager),
		colab:    mkUser("Cole", "cole@example.com", models.RoleColaborator),
	}
}

func TestColaboratorCannotCreateProject(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Projects.Create(ctx, f.colab, ProjectInput{Name: "Sneaky"})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// The store stayed untouched.
	projects, err := f.services.Projects.List(ctx, f.admin)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before := time.Now().Add(-2 * time.Second)
	created, err := f.services.Projects.Create(ctx, f.manager, ProjectInput{Name: "Website Redesign"})
	require.NoError(t, err)

	got, err := f.services.Projects.Get(ctx, f.manager, created.ID)
	require.NoError(t, err)

	assert.Equal(t, "Website Redesign", got.Name)
	assert.NotEmpty(t, got.ID)
	assert.Empty(t, got.Description)
	assert.Nil(t, got.AssigneeID)
	assert.False(t, got.CreatedAt.Before(before))
}

func TestProjectCreateRequiresName(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.Projects.Create(context.Background(), f.admin, ProjectInput{})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "name")
}

func TestProjectPartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.services.Projects.Create(ctx, f.admin, ProjectInput{
		Name: "Initial", Description: "keep me",
	})
	require.NoError(t, err)

	name := "Renamed"
	updated, err := f.services.Projects.Update(ctx, f.admin, created.ID, ProjectUpdate{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "keep me", updated.Description)
}

func TestProjectAssignmentResolvesSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.services.Projects.Create(ctx, f.admin, ProjectInput{
		Name: "Assigned", AssigneeID: &f.colab.UserID,
	})
	require.NoError(t, err)

	require.NotNil(t, created.Assignee)
	assert.Equal(t, "Cole", created.Assignee.Name)

	// Clearing uses an empty id.
	empty := ""
	updated, err := f.services.Projects.Update(ctx, f.admin, created.ID, ProjectUpdate{AssigneeID: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.AssigneeID)
	assert.Nil(t, updated.Assignee)
}

func TestProjectUpdateUnknownAssignee(t *testing.T) {
	f := newFixture(t)

	bogus := "no-such-user"
	_, err := f.services.Projects.Create(context.Background(), f.admin, ProjectInput{
		Name: "Broken", AssigneeID: &bogus,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTagOwnerIsCallerAndImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.services.Tags.Create(ctx, f.colab, TagInput{Name: "Urgent", Color: "red"})
	require.NoError(t, err)
	assert.Equal(t, f.colab.UserID, created.OwnerID)

	// Attempting to hand the tag to another user is rejected.
	_, err = f.services.Tags.Update(ctx, f.colab, created.ID, TagUpdate{OwnerID: &f.admin.UserID})
	require.ErrorIs(t, err, apperr.ErrValidation)

	got, err := f.services.Tags.Get(ctx, f.colab, created.ID)
	require.NoError(t, err)
	assert.Equal(t, f.colab.UserID, got.OwnerID)
}

func TestTagDefaultsToGray(t *testing.T) {
	f := newFixture(t)

	created, err := f.services.Tags.Create(context.Background(), f.colab, TagInput{Name: "Plain"})
	require.NoError(t, err)
	assert.Equal(t, models.ColorGray, created.Color)
}

func TestTagRejectsUnknownColor(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.Tags.Create(context.Background(), f.colab, TagInput{Name: "Odd", Color: "chartreuse"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTagsAreOwnerScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine, err := f.services.Tags.Create(ctx, f.colab, TagInput{Name: "Mine"})
	require.NoError(t, err)
	_, err = f.services.Tags.Create(ctx, f.admin, TagInput{Name: "Theirs"})
	require.NoError(t, err)

	listed, err := f.services.Tags.List(ctx, f.colab)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Mine", listed[0].Name)

	// Another user's tag is untouchable even for an administrator.
	_, err = f.services.Tags.Get(ctx, f.admin, mine.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	err = f.services.Tags.Delete(ctx, f.admin, mine.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestTagUpdateTouchesUpdatedAt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.services.Tags.Create(ctx, f.colab, TagInput{Name: "Slow"})
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)

	name := "Faster"
	updated, err := f.services.Tags.Update(ctx, f.colab, created.ID, TagUpdate{Name: &name})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestCategoryOwnerImmutable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.services.Categories.Create(ctx, f.colab, CategoryInput{Name: "Chores", Color: "green"})
	require.NoError(t, err)
	assert.Equal(t, f.colab.UserID, created.OwnerID)

	_, err = f.services.Categories.Update(ctx, f.colab, created.ID, CategoryUpdate{OwnerID: &f.admin.UserID})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTaskDefaults(t *testing.T) {
	f := newFixture(t)

	created, err := f.services.Tasks.Create(context.Background(), f.manager, TaskInput{Title: "Bare"})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityLow, created.Priority)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Nil(t, created.AssigneeID)
	assert.Nil(t, created.ProjectID)
	assert.Nil(t, created.DueDate)
}

func TestTaskRejectsBadEnums(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Tasks.Create(ctx, f.manager, TaskInput{Title: "X", Priority: "severe"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.services.Tasks.Create(ctx, f.manager, TaskInput{Title: "X", Status: "paused"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	bad := "yesterday"
	_, err = f.services.Tasks.Create(ctx, f.manager, TaskInput{Title: "X", DueDate: &bad})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestColaboratorTaskScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A colaborator's new task lands on themselves by default.
	own, err := f.services.Tasks.Create(ctx, f.colab, TaskInput{Title: "My work"})
	require.NoError(t, err)
	require.NotNil(t, own.AssigneeID)
	assert.Equal(t, f.colab.UserID, *own.AssigneeID)

	// They cannot create work for somebody else.
	_, err = f.services.Tasks.Create(ctx, f.colab, TaskInput{Title: "Not mine", AssigneeID: &f.manager.UserID})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// A manager's unassigned task stays invisible to them.
	other, err := f.services.Tasks.Create(ctx, f.manager, TaskInput{Title: "Manager work"})
	require.NoError(t, err)

	listed, err := f.services.Tasks.List(ctx, f.colab)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, own.ID, listed[0].ID)

	_, err = f.services.Tasks.Get(ctx, f.colab, other.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	err = f.services.Tasks.Delete(ctx, f.colab, other.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Managers see everything.
	all, err := f.services.Tasks.List(ctx, f.manager)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTaskPartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.services.Tasks.Create(ctx, f.manager, TaskInput{
		Title: "Original", Description: "keep", Priority: "high",
	})
	require.NoError(t, err)

	status := "in_process"
	updated, err := f.services.Tasks.Update(ctx, f.manager, created.ID, TaskUpdate{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProcess, updated.Status)
	assert.Equal(t, "Original", updated.Title)
	assert.Equal(t, "keep", updated.Description)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
}

func TestTaskTagAttachment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.services.Tasks.Create(ctx, f.colab, TaskInput{Title: "Tagged"})
	require.NoError(t, err)
	tag, err := f.services.Tags.Create(ctx, f.colab, TagInput{Name: "urgent", Color: "red"})
	require.NoError(t, err)
	foreign, err := f.services.Tags.Create(ctx, f.manager, TagInput{Name: "not yours"})
	require.NoError(t, err)

	withTag, err := f.services.Tasks.AttachTag(ctx, f.colab, task.ID, tag.ID)
	require.NoError(t, err)
	require.Len(t, withTag.Tags, 1)
	assert.Equal(t, "urgent", withTag.Tags[0].Name)

	// Only the tag's owner may attach it.
	_, err = f.services.Tasks.AttachTag(ctx, f.colab, task.ID, foreign.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	detached, err := f.services.Tasks.DetachTag(ctx, f.colab, task.ID, tag.ID)
	require.NoError(t, err)
	assert.Empty(t, detached.Tags)
}

func TestUserManagementIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Users.List(ctx, f.manager)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	_, err = f.services.Users.Create(ctx, f.colab, UserInput{
		Name: "Eve", Email: "eve@example.com", Password: "pw", Role: "colaborator",
	})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	users, err := f.services.Users.List(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, users, 3)
}

func TestUserCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Users.Create(ctx, f.admin, UserInput{Name: "Eve"})
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "email")
	assert.Contains(t, err.Error(), "password")
	assert.Contains(t, err.Error(), "role")

	_, err = f.services.Users.Create(ctx, f.admin, UserInput{
		Name: "Eve", Email: "eve@example.com", Password: "pw", Role: "overlord",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUserCreateHashesPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.services.Users.Create(ctx, f.admin, UserInput{
		Name: "Eve", Email: "Eve@Example.com", Password: "s3cret", Role: "colaborator",
	})
	require.NoError(t, err)
	assert.Equal(t, "eve@example.com", created.Email)

	authed, err := f.services.Users.Authenticate(ctx, "eve@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, authed.ID)

	_, err = f.services.Users.Authenticate(ctx, "eve@example.com", "wrong")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestDuplicateEmailConflict(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.Users.Create(context.Background(), f.admin, UserInput{
		Name: "Clone", Email: "ada@example.com", Password: "pw", Role: "colaborator",
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestProfileUpsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.services.Users.UpdateProfile(ctx, f.colab, ProfileInput{Bio: "hello", AvatarURL: "me.png"})
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Bio)

	p, err = f.services.Users.UpdateProfile(ctx, f.colab, ProfileInput{Bio: "updated"})
	require.NoError(t, err)
	assert.Equal(t, "updated", p.Bio)

	me, err := f.services.Users.Me(ctx, f.colab)
	require.NoError(t, err)
	require.NotNil(t, me.Profile)
	assert.Equal(t, "updated", me.Profile.Bio)
}

func TestEnsureAdminSeedsOnce(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "seed.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	services := New(store, logger)
	ctx := context.Background()

	require.NoError(t, services.Users.EnsureAdmin(ctx, "Root", "root@example.com", "pw"))
	// A second call on a populated store is a no-op.
	require.NoError(t, services.Users.EnsureAdmin(ctx, "Root", "other@example.com", "pw"))

	admin, err := services.Users.Authenticate(ctx, "root@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdministrator, admin.Role)

	n, err := store.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
