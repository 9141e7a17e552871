package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/urfave/cli/v3"
)

func draftCommand() *cli.Command {
	return &cli.Command{
		Name:  "draft",
		Usage: "Manage playground drafts on this machine",
		Commands: []*cli.Command{
			draftSaveCommand(),
			draftListCommand(),
			draftUpdateCommand(),
			draftRemoveCommand(),
			draftClearCommand(),
		},
	}
}

func draftType(c *cli.Command, nargs int) (model.EntityType, error) {
	if c.Args().Len() != nargs+1 {
		return "", goerr.New("wrong number of arguments", goerr.V("usage", c.ArgsUsage))
	}
	return model.ParseEntityType(c.Args().First())
}

func draftSaveCommand() *cli.Command {
	var (
		cfg         config
		data, input string
	)

	return &cli.Command{
		Name:      "save",
		Usage:     "Save a JSON document as a new draft",
		ArgsUsage: "<type>",
		Flags:     append(globalFlags(&cfg), dataFlags(&data, &input)...),
		Action: func(ctx context.Context, c *cli.Command) error {
			t, err := draftType(c, 0)
			if err != nil {
				return err
			}
			raw, err := readDocument(c, data, input)
			if err != nil {
				return err
			}

			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()

			id, ok := a.drafts.SaveDraft(ctx, t, raw)
			if !ok {
				return goerr.New("failed to save draft", goerr.V("type", t))
			}
			fmt.Fprintf(c.Root().Writer, "Draft saved: %s\n", id)
			return nil
		},
	}
}

func draftListCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "list",
		Usage:     "List drafts of one type",
		ArgsUsage: "<type>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			t, err := draftType(c, 0)
			if err != nil {
				return err
			}

			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()

			return printJSON(c, a.drafts.GetDrafts(ctx, t))
		},
	}
}

func draftUpdateCommand() *cli.Command {
	var (
		cfg         config
		data, input string
		replace     bool
	)

	return &cli.Command{
		Name:      "update",
		Usage:     "Merge top-level fields into a draft",
		ArgsUsage: "<type> <id>",
		Flags: append(append(globalFlags(&cfg), dataFlags(&data, &input)...), &cli.BoolFlag{
			Name:        "replace",
			Usage:       "Replace the whole draft instead of merging",
			Destination: &replace,
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			t, err := draftType(c, 1)
			if err != nil {
				return err
			}
			id := model.EntityID(c.Args().Get(1))
			raw, err := readDocument(c, data, input)
			if err != nil {
				return err
			}

			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()

			var ok bool
			if replace {
				ok = a.drafts.PutDraft(ctx, t, id, raw)
			} else {
				ok = a.drafts.UpdateDraftPreserveFields(ctx, t, id, raw)
			}
			if !ok {
				return goerr.New("draft not updated", goerr.V("type", t), goerr.V("id", id))
			}
			fmt.Fprintf(c.Root().Writer, "Draft updated: %s\n", id)
			return nil
		},
	}
}

func draftRemoveCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a draft",
		ArgsUsage: "<type> <id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			t, err := draftType(c, 1)
			if err != nil {
				return err
			}
			id := model.EntityID(c.Args().Get(1))

			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()

			a.drafts.RemoveDraft(ctx, t, id)
			fmt.Fprintf(c.Root().Writer, "Draft removed: %s\n", id)
			return nil
		},
	}
}

func draftClearCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "clear",
		Usage: "Remove every draft",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()

			n := a.drafts.ClearAllPlayground(ctx)
			fmt.Fprintf(c.Root().Writer, "%d drafts removed\n", n)
			return nil
		},
	}
}
