package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/usecase/entity"
	"github.com/urfave/cli/v3"
)

// entityOps is an entity use case with JSON in and out
type entityOps interface {
	Create(ctx context.Context, raw json.RawMessage) (any, error)
	Get(ctx context.Context, id model.EntityID) (any, error)
	Update(ctx context.Context, id model.EntityID, patch json.RawMessage) (any, error)
	Delete(ctx context.Context, id model.EntityID) error
	List(ctx context.Context, parent model.EntityID) (any, error)
}

type jsonEntities[U, W any, P entity.Record[U]] struct {
	uc *entity.UseCase[U, W, P]
}

func (x jsonEntities[U, W, P]) Create(ctx context.Context, raw json.RawMessage) (any, error) {
	var v U
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, goerr.Wrap(err, "failed to decode entity", goerr.V("type", x.uc.Type()))
	}
	return x.uc.Create(ctx, v)
}

func (x jsonEntities[U, W, P]) Get(ctx context.Context, id model.EntityID) (any, error) {
	return x.uc.Get(ctx, id)
}

func (x jsonEntities[U, W, P]) Update(ctx context.Context, id model.EntityID, patch json.RawMessage) (any, error) {
	return x.uc.Update(ctx, id, patch)
}

func (x jsonEntities[U, W, P]) Delete(ctx context.Context, id model.EntityID) error {
	return x.uc.Delete(ctx, id)
}

func (x jsonEntities[U, W, P]) List(ctx context.Context, parent model.EntityID) (any, error) {
	return x.uc.List(ctx, parent)
}

func entityCommand() *cli.Command {
	return &cli.Command{
		Name:  "entity",
		Usage: "Manage companies, accounts and personas",
		Commands: []*cli.Command{
			entityCreateCommand(),
			entityGetCommand(),
			entityUpdateCommand(),
			entityDeleteCommand(),
			entityListCommand(),
		},
	}
}

// entityAction runs fn with the entity operations of the type named by the
// first argument and prints its result. A string result is printed as a line,
// anything else as JSON.
func entityAction(cfg *config, nargs int, fn func(ctx context.Context, c *cli.Command, ops entityOps, args []string) (any, error)) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() != nargs+1 {
			return goerr.New("wrong number of arguments", goerr.V("usage", c.ArgsUsage))
		}
		t, err := model.ParseEntityType(c.Args().First())
		if err != nil {
			return err
		}

		ctx, a, release, err := cfg.setup(ctx, c)
		if err != nil {
			return err
		}
		defer release()

		stop := startSpinner(c)
		v, err := fn(ctx, c, a.entities(t), c.Args().Tail())
		stop()
		if err != nil {
			return err
		}
		if line, ok := v.(string); ok {
			fmt.Fprintln(c.Root().Writer, line)
			return nil
		}
		return printJSON(c, v)
	}
}

func entityCreateCommand() *cli.Command {
	var (
		cfg         config
		data, input string
	)

	return &cli.Command{
		Name:      "create",
		Usage:     "Create an entity, as a draft when signed out",
		ArgsUsage: "<type>",
		Flags:     append(globalFlags(&cfg), dataFlags(&data, &input)...),
		Action: entityAction(&cfg, 0, func(ctx context.Context, c *cli.Command, ops entityOps, _ []string) (any, error) {
			raw, err := readDocument(c, data, input)
			if err != nil {
				return nil, err
			}
			return ops.Create(ctx, raw)
		}),
	}
}

func entityGetCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "get",
		Usage:     "Show an entity",
		ArgsUsage: "<type> <id>",
		Flags:     globalFlags(&cfg),
		Action: entityAction(&cfg, 1, func(ctx context.Context, c *cli.Command, ops entityOps, args []string) (any, error) {
			return ops.Get(ctx, model.EntityID(args[0]))
		}),
	}
}

func entityUpdateCommand() *cli.Command {
	var (
		cfg         config
		data, input string
	)

	return &cli.Command{
		Name:      "update",
		Usage:     "Replace top-level fields of an entity",
		ArgsUsage: "<type> <id>",
		Flags:     append(globalFlags(&cfg), dataFlags(&data, &input)...),
		Action: entityAction(&cfg, 1, func(ctx context.Context, c *cli.Command, ops entityOps, args []string) (any, error) {
			patch, err := readDocument(c, data, input)
			if err != nil {
				return nil, err
			}
			return ops.Update(ctx, model.EntityID(args[0]), patch)
		}),
	}
}

func entityDeleteCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete an entity",
		ArgsUsage: "<type> <id>",
		Flags:     globalFlags(&cfg),
		Action: entityAction(&cfg, 1, func(ctx context.Context, c *cli.Command, ops entityOps, args []string) (any, error) {
			if err := ops.Delete(ctx, model.EntityID(args[0])); err != nil {
				return nil, err
			}
			return "Deleted " + args[0], nil
		}),
	}
}

func entityListCommand() *cli.Command {
	var (
		cfg    config
		parent string
	)

	return &cli.Command{
		Name:      "list",
		Usage:     "List entities, filtered by owner for accounts and personas",
		ArgsUsage: "<type>",
		Flags: append(globalFlags(&cfg), &cli.StringFlag{
			Name:        "parent",
			Usage:       "Owner entity ID",
			Destination: &parent,
		}),
		Action: entityAction(&cfg, 0, func(ctx context.Context, c *cli.Command, ops entityOps, _ []string) (any, error) {
			return ops.List(ctx, model.EntityID(parent))
		}),
	}
}
