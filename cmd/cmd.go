// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Write a default config if missing, initialize the job store and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

// exportCommand renders a track list into a printable PDF
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "export",
		Aliases: []string{"print"},
		Usage:   "Render a track list into a PDF of label and QR code pages",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "tracks",
				Aliases:  []string{"t"},
				Usage:    "Track list file (.json or .csv)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "style",
				Aliases: []string{"s"},
				Usage:   "Layout preset (see 'mixster styles'); defaults to export.style",
			},
			&cli.StringFlag{
				Name:  "font",
				Usage: "TrueType/OpenType font for labels; defaults to export.font_path",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Destination PDF; defaults to <export.output_dir>/<playlist>.pdf",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent renders per page; defaults to export.workers",
			},
			&cli.StringFlag{
				Name:  "job-id",
				Usage: "Job ID to use instead of a generated one",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Show the interactive progress view",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print progress snapshots as JSON lines",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the track list and page count without rendering",
			},
		},
		Action: r.Export,
	}
}

func stopCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stop",
		Usage: "Ask a running export to stop",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "job-id",
				UsageText: "Export job ID",
			},
		},
		Action: r.Stop,
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the latest progress of an export",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "job-id",
				UsageText: "Export job ID",
			},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Keep polling until the export finishes",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print snapshots as JSON lines",
			},
		},
		Action: r.Status,
	}
}

func jobsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "jobs",
		Usage: "List recent exports",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of jobs to list",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "state",
				Usage: "Only list jobs in this state (pending, running, completed, cancelled, failed)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Jobs,
	}
}

func stylesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "styles",
		Usage: "List layout presets",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Styles,
	}
}
