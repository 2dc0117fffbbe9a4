package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dimenus/Odin/colors"
	"github.com/dimenus/Odin/internal/config"
	"github.com/dimenus/Odin/internal/pipeline"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	err := newApp(stdout, stderr).Run(args)
	if err == nil {
		return 0
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			colors.RED.Fprintln(stderr, msg)
		}
		return ec.ExitCode()
	}
	colors.RED.Fprintln(stderr, "error:", err)
	return 1
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "odin-check",
		Usage:     "type-check Odin units",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		// Exit codes are handled by run.
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			checkCommand(),
			{
				Name:  "version",
				Usage: "print the version",
				Action: func(c *cli.Context) error {
					fmt.Fprintf(c.App.Writer, "odin-check version %s\n", version)
					return nil
				},
			},
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "check one or more unit files",
		ArgsUsage: "<unit.yaml>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "TOML or YAML options file"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log checker progress"},
			&cli.BoolFlag{Name: "no-color", Usage: "never write color escapes"},
			&cli.BoolFlag{Name: "records", Usage: "list the declared entities of each unit"},
			&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Usage: "units checked in parallel (0 = GOMAXPROCS)"},
		},
		Action: runCheck,
	}
}

func runCheck(c *cli.Context) error {
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return cli.Exit("check: no unit files given", 2)
	}

	opts := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		opts = loaded
	}
	if c.IsSet("jobs") {
		opts.Jobs = c.Int("jobs")
	}
	if c.Bool("no-color") {
		opts.Color = "never"
	}
	if c.Bool("debug") {
		opts.LogLevel = "debug"
	}
	if err := opts.Validate(); err != nil {
		return cli.Exit(err.Error(), 2)
	}
	colors.SetMode(colors.ParseMode(opts.Color))

	level, _ := opts.Level()
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	results, err := pipeline.New(opts, logger).CheckFiles(c.Context, paths)
	if err != nil {
		return err
	}
	if failed := pipeline.Report(c.App.Writer, results, pipeline.ReportOptions{Records: c.Bool("records")}); failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}
