package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/taskdesk/internal/app"
)

func dashboardCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "summarize your projects and tasks",
		Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			d, err := a.Dashboard(ctx)
			if err != nil {
				return err
			}

			tw := newTable(con.out, "PROJECTS", "TASKS", "TO DO", "IN PROGRESS")
			row(tw, d.Projects, d.Tasks, d.TasksTodo, d.TasksInProgress)
			if err := tw.Flush(); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(con.out, "\nRecent projects:")
			if err := printProjects(con.out, d.RecentProjects); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(con.out, "\nRecent tasks:")
			return printTasks(con.out, d.RecentTasks)
		}),
	}
}
