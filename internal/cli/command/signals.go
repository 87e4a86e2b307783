package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/sigguard/internal/sighandler"
)

// SignalsCommand prints the signals the dispatcher tracks on this
// platform and the strategy each one triggers.
func SignalsCommand() *cli.Command {
	return &cli.Command{
		Name:  "signals",
		Usage: "Show the signal classification table",
		Flags: outputFlags(),
		Action: func(c *cli.Context) error {
			return render(c, sighandler.Table())
		},
	}
}
