package models

import "time"

// Role classifies what a user is allowed to do across the board.
type Role string

const (
	RoleAdministrator  Role = "administrator"
	RoleProjectManager Role = "project_manager"
	RoleColaborator    Role = "colaborator"
)

// Valid reports whether the role is one of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleProjectManager, RoleColaborator:
		return true
	default:
		return false
	}
}

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Status tracks where a task sits in its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInProcess Status = "in_process"
	StatusReview    Status = "review"
	StatusFinished  Status = "finished"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProcess, StatusReview, StatusFinished:
		return true
	default:
		return false
	}
}

// Color is the fixed palette available for tags and categories.
type Color string

const (
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
)

func (c Color) Valid() bool {
	switch c {
	case ColorGray, ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple:
		return true
	default:
		return false
	}
}

// User is an identity record. The password hash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	Profile      *Profile  `json:"profile,omitempty"`
}

// Profile is the optional one-to-one extension of a user.
type Profile struct {
	UserID    string `json:"user_id"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

// UserSummary is the relation view of a user embedded in other records.
// It deliberately carries no credential or role data.
type UserSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Project groups tasks and may be assigned to a single user.
type Project struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	AssigneeID  *string      `json:"assignee_id"`
	Assignee    *UserSummary `json:"assignee,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Task is a unit of work, optionally assigned and optionally parented
// to a project. Tags and categories attach many-to-many.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    Priority     `json:"priority"`
	Status      Status       `json:"status"`
	AssigneeID  *string      `json:"assignee_id"`
	Assignee    *UserSummary `json:"assignee,omitempty"`
	ProjectID   *string      `json:"project_id"`
	DueDate     *time.Time   `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	Tags        []Tag        `json:"tags,omitempty"`
	Categories  []Category   `json:"categories,omitempty"`
}

// Tag is a user-owned label. The owner is set at creation and never changes.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     Color     `json:"color"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category has the same shape as Tag but is kept as a distinct entity
// so tasks can be organised along two independent axes.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     Color     `json:"color"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
