package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/auth"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/usecase/session"
	"github.com/urfave/cli/v3"
)

func loginCommand() *cli.Command {
	var (
		cfg           config
		user, token   string
		promoteDrafts bool
	)

	flags := append(globalFlags(&cfg),
		&cli.StringFlag{
			Name:        "user",
			Aliases:     []string{"u"},
			Usage:       "User ID issued by the identity provider",
			Required:    true,
			Destination: &user,
		},
		&cli.StringFlag{
			Name:        "token",
			Usage:       "Bearer token for the backend",
			Sources:     cli.EnvVars("BLOSSOMER_TOKEN"),
			Required:    true,
			Destination: &token,
		},
		&cli.BoolFlag{
			Name:        "promote",
			Usage:       "Create the playground drafts on the backend",
			Destination: &promoteDrafts,
		},
	)

	return &cli.Command{
		Name:  "login",
		Usage: "Sign in and switch to the user's data",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()

			stop := startSpinner(c)
			ids, signInErr := a.session.SignIn(ctx, model.Identity{ID: user}, token, session.SignInOptions{
				Promote: promoteDrafts,
			})
			stop()

			if err := auth.Save(ctx, a.store, a.creds); err != nil {
				return err
			}
			for from, to := range ids {
				fmt.Fprintf(c.Root().Writer, "%s\t%s\n", from, to)
			}
			if signInErr != nil {
				return goerr.Wrap(signInErr, "signed in with drafts left in the playground")
			}

			fmt.Fprintf(c.Root().Writer, "Signed in as %s\n", user)
			return nil
		},
	}
}

func logoutCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and return to the playground",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()

			a.session.SignOut(ctx)
			if err := auth.Forget(ctx, a.store); err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "Signed out\n")
			return nil
		},
	}
}

func resetCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "reset",
		Usage: "Discard every draft and start a new analysis",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()

			drafts, entries := a.session.Reset(ctx)
			fmt.Fprintf(c.Root().Writer, "%d drafts and %d cache entries removed\n", drafts, entries)
			return nil
		},
	}
}
