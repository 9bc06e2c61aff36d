package taskapi

import "time"

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// Priority ranks a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// TokenPair is the credential pair issued at login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type User struct {
	ID         int64      `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Bio        string     `json:"bio"`
	Avatar     *string    `json:"avatar"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

// DisplayName returns the full name, or the username when no name is set.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// Project is returned in full by detail views. List views leave Owner,
// Members and MembersDetail empty.
type Project struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Owner         int64     `json:"owner,omitempty"`
	OwnerDetail   *User     `json:"owner_detail,omitempty"`
	Members       []int64   `json:"members,omitempty"`
	MembersDetail []User    `json:"members_detail,omitempty"`
	TaskCount     int       `json:"task_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID           int64     `json:"id"`
	Content      string    `json:"content"`
	Task         int64     `json:"task"`
	Author       int64     `json:"author"`
	AuthorDetail *User     `json:"author_detail,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Attachment struct {
	ID               int64     `json:"id"`
	File             string    `json:"file"`
	FileName         string    `json:"file_name"`
	UploadedBy       *int64    `json:"uploaded_by"`
	UploadedByDetail *User     `json:"uploaded_by_detail,omitempty"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// Task covers the list, default and detail representations. Fields a
// representation does not carry stay at their zero value.
type Task struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	Project          int64        `json:"project"`
	ProjectTitle     string       `json:"project_title,omitempty"`
	ProjectDetail    *Project     `json:"project_detail,omitempty"`
	Status           Status       `json:"status"`
	Priority         Priority     `json:"priority"`
	DueDate          *time.Time   `json:"due_date"`
	Assignees        []int64      `json:"assignees,omitempty"`
	AssigneesDetail  []User       `json:"assignees_detail,omitempty"`
	Tags             []int64      `json:"tags,omitempty"`
	TagsDetail       []Tag        `json:"tags_detail,omitempty"`
	CreatedBy        *int64       `json:"created_by,omitempty"`
	CreatedByDetail  *User        `json:"created_by_detail,omitempty"`
	CommentsCount    int          `json:"comments_count,omitempty"`
	AttachmentsCount int          `json:"attachments_count,omitempty"`
	Comments         []Comment    `json:"comments,omitempty"`
	Attachments      []Attachment `json:"attachments,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// ProjectName returns the project title from whichever representation carried it.
func (t Task) ProjectName() string {
	if t.ProjectTitle != "" {
		return t.ProjectTitle
	}
	if t.ProjectDetail != nil {
		return t.ProjectDetail.Title
	}
	return ""
}
