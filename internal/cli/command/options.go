package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/sigguard/internal/cmdline"
)

// OptionsCommand lists the options the run command accepts, as recorded
// in its registry.
func OptionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "options",
		Usage:     "List the options of the run command",
		ArgsUsage: "[name]",
		Flags: append(outputFlags(), &cli.BoolFlag{
			Name:  "all",
			Usage: "Include hidden options",
		}),
		Action: func(c *cli.Context) error {
			reg := RunOptions()
			if name := c.Args().First(); name != "" {
				o, ok := reg.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown option %q", name)
				}
				return render(c, o)
			}

			opts := []cmdline.Option{}
			for _, o := range reg.Options() {
				if o.Visible || c.Bool("all") {
					opts = append(opts, o)
				}
			}
			return render(c, opts)
		},
	}
}
