package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/florianilch/taskdesk/internal/taskapi"
)

func newTable(w io.Writer, headers ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(headers, "\t"))
	return tw
}

func row(tw *tabwriter.Writer, cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	_, _ = fmt.Fprintln(tw, strings.Join(parts, "\t"))
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func formatDue(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(time.DateOnly)
}

func userNames(users []taskapi.User) string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.DisplayName())
	}
	return orDash(strings.Join(names, ", "))
}

func tagNames(tags []taskapi.Tag) string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return orDash(strings.Join(names, ", "))
}

func printTasks(w io.Writer, tasks []taskapi.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "no tasks")
		return err
	}
	tw := newTable(w, "ID", "TITLE", "PROJECT", "STATUS", "PRIORITY", "DUE", "ASSIGNEES")
	for _, t := range tasks {
		row(tw, t.ID, t.Title, orDash(t.ProjectName()), t.Status, t.Priority, formatDue(t.DueDate), userNames(t.AssigneesDetail))
	}
	return tw.Flush()
}

func printProjects(w io.Writer, projects []taskapi.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, "no projects")
		return err
	}
	tw := newTable(w, "ID", "TITLE", "TASKS", "OWNER", "CREATED")
	for _, p := range projects {
		owner := "-"
		if p.OwnerDetail != nil {
			owner = p.OwnerDetail.DisplayName()
		}
		row(tw, p.ID, p.Title, p.TaskCount, owner, formatTime(p.CreatedAt))
	}
	return tw.Flush()
}
