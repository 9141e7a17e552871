package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

var errUnterminatedQuote = goerr.New("unterminated quote")

func shellCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "shell",
		Usage: "Run commands interactively, keeping the session cache between them",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx, a, release, err := cfg.setup(ctx, c)
			if err != nil {
				return err
			}
			defer release()
			ctx = withApp(ctx, a)

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "blossomer> ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdin:           io.NopCloser(c.Root().Reader),
				Stdout:          c.Root().Writer,
				Stderr:          c.Root().ErrWriter,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to start shell")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Type 'help' for commands, 'exit' to quit.\n")
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read command")
				}

				args, err := splitArgs(line)
				if err != nil {
					fmt.Fprintf(c.Root().ErrWriter, "%v\n", err)
					continue
				}
				if len(args) == 0 {
					continue
				}
				switch args[0] {
				case "exit", "quit":
					return nil
				case "shell":
					fmt.Fprintf(c.Root().ErrWriter, "already in a shell\n")
					continue
				}

				root := newRootCommand()
				root.Writer = c.Root().Writer
				root.ErrWriter = c.Root().ErrWriter
				root.Reader = c.Root().Reader
				if err := root.Run(ctx, append([]string{root.Name}, args...)); err != nil {
					fmt.Fprintf(c.Root().ErrWriter, "error: %v\n", err)
				}
			}
		},
	}
}

// splitArgs splits a command line into words. Single quotes keep their
// contents verbatim; double quotes allow backslash escapes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		word    strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			word.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				word.WriteRune(r)
			}
		case quote == '"':
			switch r {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				word.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == '\\':
			escaped = true
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, word.String())
				word.Reset()
				inWord = false
			}
		default:
			word.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 || escaped {
		return nil, goerr.Wrap(errUnterminatedQuote, "cannot parse command", goerr.V("line", line))
	}
	if inWord {
		args = append(args, word.String())
	}
	return args, nil
}
