package taskapi

import (
	"time"
)

// Credentials are exchanged for a TokenPair at login.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Username        string `json:"username" validate:"required,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password2" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name,omitempty" validate:"max=150"`
	LastName        string `json:"last_name,omitempty" validate:"max=150"`
	Bio             string `json:"bio,omitempty"`
}

// ProfilePatch updates the fields that are set.
type ProfilePatch struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=1,max=150"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=150"`
	Bio       *string `json:"bio,omitempty"`
}

type ProjectInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description,omitempty"`
	Members     []int64 `json:"members,omitempty" validate:"omitempty,dive,gt=0"`
}

// ProjectPatch updates the fields that are set.
type ProjectPatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Members     []int64 `json:"members,omitempty" validate:"omitempty,dive,gt=0"`
}

type TaskInput struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty"`
	Project     int64      `json:"project" validate:"required,gt=0"`
	Status      Status     `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress review done cancelled"`
	Priority    Priority   `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Assignees   []int64    `json:"assignees,omitempty" validate:"omitempty,dive,gt=0"`
	Tags        []int64    `json:"tags,omitempty" validate:"omitempty,dive,gt=0"`
}

// TaskPatch updates the fields that are set.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty"`
	Project     *int64     `json:"project,omitempty" validate:"omitempty,gt=0"`
	Status      *Status    `json:"status,omitempty" validate:"omitempty,oneof=todo in_progress review done cancelled"`
	Priority    *Priority  `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Assignees   []int64    `json:"assignees,omitempty" validate:"omitempty,dive,gt=0"`
	Tags        []int64    `json:"tags,omitempty" validate:"omitempty,dive,gt=0"`
}

// TaskFilter narrows ListTasks. Zero fields are not sent.
type TaskFilter struct {
	Project  int64    `validate:"gte=0"`
	Status   Status   `validate:"omitempty,oneof=todo in_progress review done cancelled"`
	Priority Priority `validate:"omitempty,oneof=low medium high urgent"`
	Assignee int64    `validate:"gte=0"`
	Search   string
	// Ordering is a field name, prefixed with "-" for descending order.
	Ordering string `validate:"omitempty,oneof=created_at -created_at updated_at -updated_at due_date -due_date priority -priority status -status"`
}

type TagInput struct {
	Name  string `json:"name" validate:"required,max=50"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

type CommentInput struct {
	Task    int64  `json:"task" validate:"required,gt=0"`
	Content string `json:"content" validate:"required"`
}
