package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// dbCommand administers the database schema.
func dbCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Database schema administration",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Create the schema (idempotent)",
				Action: withRunner(dbInit),
			},
			{
				Name:  "drop",
				Usage: "Drop all tables and their data",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "Confirm dropping all data"},
				},
				Action: withRunner(dbDrop),
			},
			{
				Name:   "ping",
				Usage:  "Verify database connectivity",
				Action: withRunner(dbPing),
			},
		},
	}
}

func dbInit(ctx context.Context, cmd *cli.Command, r *Runner) error {
	if err := r.db.InitSchema(ctx); err != nil {
		return err
	}
	r.printf("Schema initialized (%s).\n", r.cfg.Database.Driver)
	return nil
}

func dbDrop(ctx context.Context, cmd *cli.Command, r *Runner) error {
	if !cmd.Bool("force") {
		return fmt.Errorf("refusing to drop all data without --force")
	}
	if err := r.db.DropSchema(ctx); err != nil {
		return err
	}
	r.printf("Schema dropped.\n")
	return nil
}

func dbPing(ctx context.Context, cmd *cli.Command, r *Runner) error {
	if err := r.db.Health(ctx); err != nil {
		return err
	}
	r.printf("Database OK (%s).\n", r.cfg.Database.Driver)
	return nil
}
