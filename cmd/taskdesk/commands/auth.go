package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/taskdesk/internal/app"
	"github.com/florianilch/taskdesk/internal/taskapi"
)

func registerCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Usage: "account name", Required: true},
			&cli.StringFlag{Name: "email", Usage: "e-mail address", Required: true},
			&cli.StringFlag{Name: "password", Usage: "password (prompted if omitted)"},
			&cli.StringFlag{Name: "first-name", Usage: "first name"},
			&cli.StringFlag{Name: "last-name", Usage: "last name"},
			&cli.StringFlag{Name: "bio", Usage: "short biography"},
		},
		Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			in := taskapi.RegisterInput{
				Username:  cmd.String("username"),
				Email:     cmd.String("email"),
				Password:  cmd.String("password"),
				FirstName: cmd.String("first-name"),
				LastName:  cmd.String("last-name"),
				Bio:       cmd.String("bio"),
			}
			in.PasswordConfirm = in.Password
			if in.Password == "" {
				var err error
				if in.Password, err = con.password("Password"); err != nil {
					return err
				}
				if in.PasswordConfirm, err = con.password("Confirm password"); err != nil {
					return err
				}
			}

			user, err := a.API().Register(ctx, in)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(con.out, "registered %s (%s), run `taskdesk login` to sign in\n", user.Username, user.Email)
			return err
		}),
	}
}

func loginCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "sign in and store the session tokens",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "e-mail address", Required: true},
			&cli.StringFlag{Name: "password", Usage: "password (prompted if omitted)"},
		},
		Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			creds := taskapi.Credentials{Email: cmd.String("email"), Password: cmd.String("password")}
			if creds.Password == "" {
				var err error
				if creds.Password, err = con.password("Password"); err != nil {
					return err
				}
			}

			user, err := a.Login(ctx, creds)
			if errors.Is(err, taskapi.ErrUnauthorized) {
				return errors.New("invalid e-mail or password")
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(con.out, "logged in as %s <%s>\n", user.DisplayName(), user.Email)
			return err
		}),
	}
}

func logoutCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "discard the stored session",
		Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			if err := a.Logout(ctx); err != nil {
				return err
			}
			_, err := fmt.Fprintln(con.out, "logged out")
			return err
		}),
	}
}

func whoamiCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the signed-in user",
		Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			loggedIn, err := a.LoggedIn(ctx)
			if err != nil {
				return err
			}
			if !loggedIn {
				return errors.New("not logged in, run `taskdesk login`")
			}

			user, err := a.API().Profile(ctx)
			if err != nil {
				return err
			}
			return printUser(con, user)
		}),
	}
}

func printUser(con *console, u *taskapi.User) error {
	tw := newTable(con.out, "FIELD", "VALUE")
	row(tw, "id", u.ID)
	row(tw, "username", u.Username)
	row(tw, "email", u.Email)
	row(tw, "name", orDash(u.FirstName+" "+u.LastName))
	row(tw, "bio", orDash(u.Bio))
	row(tw, "joined", formatTime(u.DateJoined))
	if u.LastLogin != nil {
		row(tw, "last login", formatTime(*u.LastLogin))
	}
	return tw.Flush()
}

func profileCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "manage your profile",
		Commands: []*cli.Command{
			{
				Name:  "update",
				Usage: "change profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Usage: "account name"},
					&cli.StringFlag{Name: "email", Usage: "e-mail address"},
					&cli.StringFlag{Name: "first-name", Usage: "first name"},
					&cli.StringFlag{Name: "last-name", Usage: "last name"},
					&cli.StringFlag{Name: "bio", Usage: "short biography"},
				},
				Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
					patch := taskapi.ProfilePatch{
						Username:  optionalString(cmd, "username"),
						Email:     optionalString(cmd, "email"),
						FirstName: optionalString(cmd, "first-name"),
						LastName:  optionalString(cmd, "last-name"),
						Bio:       optionalString(cmd, "bio"),
					}
					if patch == (taskapi.ProfilePatch{}) {
						return errors.New("nothing to update")
					}

					user, err := a.API().UpdateProfile(ctx, patch)
					if err != nil {
						return err
					}
					return printUser(con, user)
				}),
			},
		},
	}
}

func usersCommand(con *console) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "list accounts",
		Action: withApp(con, func(ctx context.Context, cmd *cli.Command, a *app.App) error {
			users, err := a.API().ListUsers(ctx)
			if err != nil {
				return err
			}
			tw := newTable(con.out, "ID", "USERNAME", "EMAIL", "NAME")
			for _, u := range users {
				row(tw, u.ID, u.Username, u.Email, u.DisplayName())
			}
			return tw.Flush()
		}),
	}
}
