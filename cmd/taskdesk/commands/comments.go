package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/taskdesk/internal/app"
	"github.com/florianilch/taskdesk/internal/taskapi"
)

func commentsCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:    "comments",
		Aliases: []string{"comment"},
		Usage:   "manage task comments",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list comments of a task",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "task", Usage: "task id", Required: true},
				},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					comments, err := a.API().ListComments(ctx, cmd.Int64("task"))
					if err != nil {
						return err
					}
					return printComments(con, comments)
				}),
			},
			{
				Name:  "add",
				Usage: "comment on a task",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "task", Usage: "task id", Required: true},
					&cli.StringFlag{Name: "content", Usage: "comment text", Required: true},
				},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					c, err := a.API().CreateComment(ctx, taskapi.CommentInput{
						Task:    cmd.Int64("task"),
						Content: cmd.String("content"),
					})
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(con.out, "added comment %d to task %d\n", c.ID, c.Task)
					return err
				}),
			},
			{
				Name:      "edit",
				Usage:     "change the text of your comment",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "content", Usage: "comment text", Required: true},
				},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := idArg(cmd, "comment")
					if err != nil {
						return err
					}
					c, err := a.API().UpdateComment(ctx, id, cmd.String("content"))
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(con.out, "updated comment %d\n", c.ID)
					return err
				}),
			},
			{
				Name:      "delete",
				Usage:     "delete your comment",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{yesFlag()},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					id, err := idArg(cmd, "comment")
					if err != nil {
						return err
					}
					ok, err := confirmDelete(con, cmd, fmt.Sprintf("comment %d", id))
					if err != nil || !ok {
						return err
					}
					if err := a.API().DeleteComment(ctx, id); err != nil {
						return err
					}
					_, err = fmt.Fprintf(con.out, "deleted comment %d\n", id)
					return err
				}),
			},
		},
	}
}

func printComments(con *console, comments []taskapi.Comment) error {
	if len(comments) == 0 {
		_, err := fmt.Fprintln(con.out, "no comments")
		return err
	}
	for _, c := range comments {
		author := "User"
		if c.AuthorDetail != nil {
			author = c.AuthorDetail.Email
		}
		if _, err := fmt.Fprintf(con.out, "#%d %s, %s\n  %s\n", c.ID, author, formatTime(c.CreatedAt), c.Content); err != nil {
			return err
		}
	}
	return nil
}
