package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/taskdesk/internal/app"
	"github.com/florianilch/taskdesk/internal/taskapi"
)

func tagsCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:    "tags",
		Aliases: []string{"tag"},
		Usage:   "manage tags",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list tags",
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					tags, err := a.API().ListTags(ctx)
					if err != nil {
						return err
					}
					tw := newTable(con.out, "ID", "NAME", "COLOR")
					for _, t := range tags {
						row(tw, t.ID, t.Name, t.Color)
					}
					return tw.Flush()
				}),
			},
			{
				Name:  "create",
				Usage: "create a tag",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "tag name", Required: true},
					&cli.StringFlag{Name: "color", Usage: "hex color such as #3498db"},
				},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					t, err := a.API().CreateTag(ctx, taskapi.TagInput{
						Name:  cmd.String("name"),
						Color: cmd.String("color"),
					})
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(con.out, "created tag %d %q (%s)\n", t.ID, t.Name, t.Color)
					return err
				}),
			},
		},
	}
}
