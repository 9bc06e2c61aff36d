package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/taskdesk/internal/app"
	"github.com/florianilch/taskdesk/internal/taskapi"
)

// taskFieldFlags are shared by create and update.
func taskFieldFlags(requireTitle bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "task title", Required: requireTitle},
		&cli.StringFlag{Name: "description", Usage: "task description"},
		&cli.StringFlag{Name: "status", Usage: "todo|in_progress|review|done|cancelled"},
		&cli.StringFlag{Name: "priority", Usage: "low|medium|high|urgent"},
		&cli.StringFlag{Name: "due", Usage: "due date (YYYY-MM-DD or RFC 3339)"},
		&cli.Int64SliceFlag{Name: "assignee", Usage: "user id of an assignee (repeatable)"},
		&cli.Int64SliceFlag{Name: "tag", Usage: "tag id (repeatable)"},
	}
}

// parseDue accepts a plain date, taken as midnight local time, or an RFC 3339 timestamp.
func parseDue(s string) (*time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, time.Local); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return &t, nil
}

func tasksCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:    "tasks",
		Aliases: []string{"task"},
		Usage:   "manage tasks",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list tasks",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "project", Usage: "only tasks of this project"},
					&cli.StringFlag{Name: "status", Usage: "todo|in_progress|review|done|cancelled"},
					&cli.StringFlag{Name: "priority", Usage: "low|medium|high|urgent"},
					&cli.Int64Flag{Name: "assignee", Usage: "only tasks assigned to this user id"},
					&cli.StringFlag{Name: "search", Usage: "search title and description"},
					&cli.StringFlag{Name: "ordering", Usage: "sort field, prefix with - for descending (e.g. -due_date)"},
				},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					tasks, err := a.API().ListTasks(ctx, taskapi.TaskFilter{
						Project:  cmd.Int64("project"),
						Status:   taskapi.Status(cmd.String("status")),
						Priority: taskapi.Priority(cmd.String("priority")),
						Assignee: cmd.Int64("assignee"),
						Search:   cmd.String("search"),
						Ordering: cmd.String("ordering"),
					})
					if err != nil {
						return err
					}
					return printTasks(con.out, tasks)
				}),
			},
			{
				Name:  "create",
				Usage: "create a task",
				Flags: append([]cli.Flag{
					&cli.Int64Flag{Name: "project", Usage: "project id", Required: true},
				}, taskFieldFlags(true)...),
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					in := taskapi.TaskInput{
						Title:       cmd.String("title"),
						Description: cmd.String("description"),
						Project:     cmd.Int64("project"),
						Status:      taskapi.Status(cmd.String("status")),
						Priority:    taskapi.Priority(cmd.String("priority")),
						Assignees:   cmd.Int64Slice("assignee"),
						Tags:        cmd.Int64Slice("tag"),
					}
					if cmd.IsSet("due") {
						due, err := parseDue(cmd.String("due"))
						if err != nil {
							return err
						}
						in.DueDate = due
					}

					t, err := a.API().CreateTask(ctx, in)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(con.out, "created task %d %q\n", t.ID, t.Title)
					return err
				}),
			},
			{
				Name:      "show",
				Usage:     "show a task with its comments and attachments",
				ArgsUsage: "<id>",
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := idArg(cmd, "task")
					if err != nil {
						return err
					}
					t, err := a.API().GetTask(ctx, id)
					if err != nil {
						return err
					}
					return printTask(con, t)
				}),
			},
			{
				Name:      "update",
				Usage:     "change task fields",
				ArgsUsage: "<id>",
				Flags: append([]cli.Flag{
					&cli.Int64Flag{Name: "project", Usage: "move to project id"},
				}, taskFieldFlags(false)...),
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := idArg(cmd, "task")
					if err != nil {
						return err
					}
					patch, err := taskPatch(cmd)
					if err != nil {
						return err
					}
					t, err := a.API().UpdateTask(ctx, id, patch)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(con.out, "updated task %d %q (%s, %s)\n", t.ID, t.Title, t.Status, t.Priority)
					return err
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete a task",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{yesFlag()},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := idArg(cmd, "task")
					if err != nil {
						return err
					}
					ok, err := confirmDelete(con, cmd, fmt.Sprintf("task %d", id))
					if err != nil || !ok {
						return err
					}
					if err := a.API().DeleteTask(ctx, id); err != nil {
						return err
					}
					_, err = fmt.Fprintf(con.out, "deleted task %d\n", id)
					return err
				}),
			},
		},
	}
}

func taskPatch(cmd *cli.Command) (taskapi.TaskPatch, error) {
	patch := taskapi.TaskPatch{
		Title:       optionalString(cmd, "title"),
		Description: optionalString(cmd, "description"),
	}
	if cmd.IsSet("project") {
		v := cmd.Int64("project")
		patch.Project = &v
	}
	if cmd.IsSet("status") {
		v := taskapi.Status(cmd.String("status"))
		patch.Status = &v
	}
	if cmd.IsSet("priority") {
		v := taskapi.Priority(cmd.String("priority"))
		patch.Priority = &v
	}
	if cmd.IsSet("due") {
		due, err := parseDue(cmd.String("due"))
		if err != nil {
			return patch, err
		}
		patch.DueDate = due
	}
	if cmd.IsSet("assignee") {
		patch.Assignees = cmd.Int64Slice("assignee")
	}
	if cmd.IsSet("tag") {
		patch.Tags = cmd.Int64Slice("tag")
	}

	if patch.Title == nil && patch.Description == nil && patch.Project == nil && patch.Status == nil &&
		patch.Priority == nil && patch.DueDate == nil && patch.Assignees == nil && patch.Tags == nil {
		return patch, errors.New("nothing to update")
	}
	return patch, nil
}

func printTask(con *console, t *taskapi.Task) error {
	tw := newTable(con.out, "FIELD", "VALUE")
	row(tw, "id", t.ID)
	row(tw, "title", t.Title)
	row(tw, "project", orDash(t.ProjectName()))
	row(tw, "status", t.Status)
	row(tw, "priority", t.Priority)
	row(tw, "due", formatDue(t.DueDate))
	row(tw, "assignees", userNames(t.AssigneesDetail))
	row(tw, "tags", tagNames(t.TagsDetail))
	row(tw, "description", orDash(t.Description))
	row(tw, "created", formatTime(t.CreatedAt))
	row(tw, "updated", formatTime(t.UpdatedAt))
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(t.Attachments) > 0 {
		_, _ = fmt.Fprintln(con.out, "\nAttachments:")
		for _, at := range t.Attachments {
			_, _ = fmt.Fprintf(con.out, "  %s (uploaded %s)\n", orDash(at.FileName), formatTime(at.UploadedAt))
		}
	}

	_, _ = fmt.Fprintf(con.out, "\nComments (%d):\n", len(t.Comments))
	return printComments(con, t.Comments)
}
