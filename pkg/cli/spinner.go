package cli

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/urfave/cli/v3"
)

// startSpinner shows progress on the error stream until the returned function
// is called
func startSpinner(c *cli.Command) func() {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(c.Root().ErrWriter))
	s.Suffix = " working"
	s.Start()
	return s.Stop
}
