// Package main is the entry point for the Cadence CLI.
// Cadence is a music playlist manager: a song catalog, user accounts and
// ordered playlists backed by a relational store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	app := &cli.Command{
		Name:    "cadence",
		Usage:   "Manage a music library: users, songs and playlists",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (trace|debug|info|warn|error)",
			},
			&cli.BoolFlag{
				Name:  "json-log",
				Usage: "Emit JSON logs instead of console output",
			},
		},
		Commands: []*cli.Command{
			userCommand(),
			songCommand(),
			playlistCommand(),
			dbCommand(),
			versionCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "cadence: %v\n", err)
		os.Exit(1)
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print detailed version information",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("Cadence\n")
			fmt.Printf("Version: %s\n", Version)
			fmt.Printf("Build Time: %s\n", BuildTime)
			fmt.Printf("Git Commit: %s\n", GitCommit)
			return nil
		},
	}
}
