package main

import (
	"os"
	"os/signal"
	"syscall"

	"leetstreak/cmd"
	"leetstreak/config"
	"leetstreak/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:   "leetstreak",
		Usage:  "streak tournament backend for LeetCode groups",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			newMigrateCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	cfg := config.Get()
	cmd.ConfigureLogging(cfg)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("Received shutdown signal, shutting down gracefully...")
	}()

	return cmd.Run(ctx, cfg)
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Before: func(c *cli.Context) error {
			if err := godotenv.Load(); err != nil {
				log.Debug("No .env file found, reading environment variables directly")
			}
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(c *cli.Context) error {
					return database.MigrateUp()
				},
			},
			{
				Name:      "down",
				Usage:     "roll back migrations",
				ArgsUsage: "[steps]",
				Action: func(c *cli.Context) error {
					steps := "1"
					if c.Args().Present() {
						steps = c.Args().First()
					}
					return database.MigrateDown(steps)
				},
			},
			{
				Name:  "status",
				Usage: "show the current migration version",
				Action: func(c *cli.Context) error {
					return database.MigrateStatus()
				},
			},
		},
	}
}
