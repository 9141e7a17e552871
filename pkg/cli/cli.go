package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := newRootCommand()
	cmd.Commands = append(cmd.Commands, shellCommand())

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "blossomer",
		Usage: "Go-to-market analysis workspace with a local playground",
		Commands: []*cli.Command{
			draftCommand(),
			entityCommand(),
			loginCommand(),
			logoutCommand(),
			resetCommand(),
			backupCommand(),
		},
	}
}
