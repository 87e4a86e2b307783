package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/sigguard/internal/cli/output"
	"github.com/yndnr/sigguard/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "sigguard",
		Usage:   "Route fatal signals to shutdown strategies",
		Version: buildinfo.String(),
		Commands: []*cli.Command{
			RunCommand(),
			SignalsCommand(),
			OptionsCommand(),
			VersionCommand(),
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.BoolFlag{
			Name:  "no-headers",
			Usage: "Omit the table header row",
		},
	}
}

// render writes data in the format selected by the output flags.
func render(c *cli.Context, data any) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return err
	}
	f := output.NewFormatter(format)
	if tf, ok := f.(*output.TableFormatter); ok {
		tf.NoHeaders = c.Bool("no-headers")
	}
	if err := f.Format(c.App.Writer, data); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}
