package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/usecase/backup"
	"github.com/urfave/cli/v3"
)

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Copy drafts to and from Cloud Storage",
		Commands: []*cli.Command{
			backupPushCommand(),
			backupPullCommand(),
		},
	}
}

func backupPushCommand() *cli.Command {
	var (
		cfg config
		key string
	)

	flags := append(globalFlags(&cfg), backupFlags(&cfg)...)
	flags = append(flags, &cli.StringFlag{
		Name:        "key",
		Aliases:     []string{"k"},
		Usage:       "Object name, defaults to a timestamped name",
		Destination: &key,
	})

	return &cli.Command{
		Name:  "push",
		Usage: "Upload a snapshot of every draft",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()

			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}
			uc := backup.New(a.drafts, storage)
			if key == "" {
				key = uc.ObjectName()
			}

			stop := startSpinner(c)
			n, err := uc.Push(ctx, key)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "%d drafts saved to %s\n", n, key)
			return nil
		},
	}
}

func backupPullCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "pull",
		Usage:     "Replace every draft with a snapshot",
		ArgsUsage: "<key>",
		Flags:     append(globalFlags(&cfg), backupFlags(&cfg)...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("backup key is required")
			}
			key := c.Args().First()

			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()

			storage, err := cfg.newStorage(ctx)
			if err != nil {
				return err
			}

			stop := startSpinner(c)
			n, err := backup.New(a.drafts, storage).Pull(ctx, key)
			stop()
			if err != nil {
				return err
			}
			fmt.Fprintf(c.Root().Writer, "%d drafts restored from %s\n", n, key)
			return nil
		},
	}
}
