package main

import (
	"context"
	"fmt"
	"os"

	"bookshelf/internal/config"
	"bookshelf/internal/logging"
	"bookshelf/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logging.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stderr)
	if err := newApp(log).RunContext(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("schema command failed")
	}
}

func newApp(log logrus.FieldLogger) *cli.App {
	return &cli.App{
		Name:  "schema",
		Usage: "inspect or create the books table",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "driver",
				Usage: "database driver (sqlite or postgres); defaults to DB_DRIVER",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "database file or connection URL; defaults to DB_DSN",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "ensure",
				Usage: "create the books table if it does not exist",
				Action: func(c *cli.Context) error {
					st, err := openStore(c, log)
					if err != nil {
						return err
					}
					defer st.Close()

					created, err := st.EnsureSchema(c.Context)
					if err != nil {
						return err
					}
					if created {
						fmt.Fprintln(c.App.Writer, "books table created")
					} else {
						fmt.Fprintln(c.App.Writer, "books table already exists")
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "report whether the books table exists and how many rows it holds",
				Action: func(c *cli.Context) error {
					st, err := openStore(c, log)
					if err != nil {
						return err
					}
					defer st.Close()

					exists, err := st.TableExists(c.Context)
					if err != nil {
						return err
					}
					if !exists {
						fmt.Fprintln(c.App.Writer, "books table: missing")
						return nil
					}
					n, err := st.Books().Count(c.Context)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "books table: present (%d rows)\n", n)
					return nil
				},
			},
		},
	}
}

func openStore(c *cli.Context, log logrus.FieldLogger) (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.IsSet("driver") {
		cfg.Database.Driver = c.String("driver")
	}
	if c.IsSet("dsn") {
		cfg.Database.DSN = c.String("dsn")
	}
	return store.Open(c.Context, store.Config{
		Driver:  cfg.Database.Driver,
		DSN:     cfg.Database.DSN,
		Timeout: cfg.Database.Timeout,
	}, log)
}
