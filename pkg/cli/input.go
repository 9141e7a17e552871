package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// dataFlags returns flags that supply a JSON document
func dataFlags(data, input *string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "data",
			Usage:       "JSON document",
			Destination: data,
		},
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to JSON file, - for stdin",
			Destination: input,
		},
	}
}

// readDocument returns the JSON document given by --data or --input
func readDocument(c *cli.Command, data, input string) (json.RawMessage, error) {
	var raw []byte
	switch {
	case data != "" && input != "":
		return nil, goerr.New("--data and --input are exclusive")
	case data != "":
		raw = []byte(data)
	case input == "-":
		b, err := io.ReadAll(c.Root().Reader)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read stdin")
		}
		raw = b
	case input != "":
		b, err := os.ReadFile(input)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read input file", goerr.V("file", input))
		}
		raw = b
	default:
		return nil, goerr.New("--data or --input is required")
	}

	if !json.Valid(raw) {
		return nil, goerr.New("input is not valid JSON")
	}
	return raw, nil
}

func printJSON(c *cli.Command, v any) error {
	enc := json.NewEncoder(c.Root().Writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to write output")
	}
	return nil
}
