package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/taskdesk/internal/app"
	"github.com/florianilch/taskdesk/internal/taskapi"
)

func projectsCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:    "projects",
		Aliases: []string{"project"},
		Usage:   "manage projects",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list projects you own or belong to",
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					projects, err := a.API().ListProjects(ctx)
					if err != nil {
						return err
					}
					return printProjects(con.out, projects)
				}),
			},
			{
				Name:  "create",
				Usage: "create a project",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "project title", Required: true},
					&cli.StringFlag{Name: "description", Usage: "project description"},
					&cli.Int64SliceFlag{Name: "member", Usage: "user id of a member (repeatable)"},
				},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					p, err := a.API().CreateProject(ctx, taskapi.ProjectInput{
						Title:       cmd.String("title"),
						Description: cmd.String("description"),
						Members:     cmd.Int64Slice("member"),
					})
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(con.out, "created project %d %q\n", p.ID, p.Title)
					return err
				}),
			},
			{
				Name:      "show",
				Usage:     "show a project with its tasks",
				ArgsUsage: "<id>",
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := idArg(cmd, "project")
					if err != nil {
						return err
					}
					p, err := a.API().GetProject(ctx, id)
					if err != nil {
						return err
					}
					tasks, err := a.API().ListTasks(ctx, taskapi.TaskFilter{Project: id})
					if err != nil {
						return err
					}
					return printProject(con, p, tasks)
				}),
			},
			{
				Name:      "update",
				Usage:     "change project fields",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "project title"},
					&cli.StringFlag{Name: "description", Usage: "project description"},
				},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := idArg(cmd, "project")
					if err != nil {
						return err
					}
					patch := taskapi.ProjectPatch{
						Title:       optionalString(cmd, "title"),
						Description: optionalString(cmd, "description"),
					}
					if patch.Title == nil && patch.Description == nil {
						return errors.New("nothing to update")
					}
					p, err := a.API().UpdateProject(ctx, id, patch)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(con.out, "updated project %d %q\n", p.ID, p.Title)
					return err
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete a project and all its tasks",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{yesFlag()},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := idArg(cmd, "project")
					if err != nil {
						return err
					}
					ok, err := confirmDelete(con, cmd, fmt.Sprintf("project %d and all its tasks", id))
					if err != nil || !ok {
						return err
					}
					if err := a.API().DeleteProject(ctx, id); err != nil {
						return err
					}
					_, err = fmt.Fprintf(con.out, "deleted project %d\n", id)
					return err
				}),
			},
			memberCommand(con, "add-member", "add a member to a project", (*taskapi.Client).AddMember),
			memberCommand(con, "remove-member", "remove a member from a project", (*taskapi.Client).RemoveMember),
		},
	}
}

type memberFunc func(c *taskapi.Client, ctx context.Context, projectID, userID int64) (string, error)

func memberCommand(con *console, name, usage string, fn memberFunc) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<project-id>",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "user", Usage: "user id", Required: true},
		},
		Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			id, err := idArg(cmd, "project")
			if err != nil {
				return err
			}
			msg, err := fn(a.API(), ctx, id, cmd.Int64("user"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(con.out, msg)
			return err
		}),
	}
}

func printProject(con *console, p *taskapi.Project, tasks []taskapi.Task) error {
	owner := "-"
	if p.OwnerDetail != nil {
		owner = p.OwnerDetail.DisplayName()
	}

	tw := newTable(con.out, "FIELD", "VALUE")
	row(tw, "id", p.ID)
	row(tw, "title", p.Title)
	row(tw, "description", orDash(p.Description))
	row(tw, "owner", owner)
	row(tw, "members", userNames(p.MembersDetail))
	row(tw, "tasks", p.TaskCount)
	row(tw, "created", formatTime(p.CreatedAt))
	row(tw, "updated", formatTime(p.UpdatedAt))
	if err := tw.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(con.out)
	return printTasks(con.out, tasks)
}
