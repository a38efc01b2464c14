package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/logging"
	"bookshelf/internal/lookup"
	"bookshelf/internal/platform/googlebooks"
	"bookshelf/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	if err := newApp(cfg, log).RunContext(context.Background(), os.Args); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
}

type summary struct {
	Added    int
	Existing int
	Missing  int
	Failed   int
}

func newApp(cfg config.Config, log logrus.FieldLogger) *cli.App {
	return &cli.App{
		Name:      "seed",
		Usage:     "add books to the catalog by ISBN",
		ArgsUsage: "[ISBN...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "read ISBNs from `PATH`, one per line; # starts a comment",
			},
			&cli.StringFlag{
				Name:  "location",
				Usage: "shelf location recorded for every added book",
			},
		},
		Action: func(c *cli.Context) error {
			isbns := c.Args().Slice()
			if path := c.String("file"); path != "" {
				fromFile, err := readISBNFile(path)
				if err != nil {
					return err
				}
				isbns = append(isbns, fromFile...)
			}
			if len(isbns) == 0 {
				return cli.Exit("no ISBNs given", 2)
			}

			st, err := store.Open(c.Context, store.Config{
				Driver:  cfg.Database.Driver,
				DSN:     cfg.Database.DSN,
				Timeout: cfg.Database.Timeout,
			}, log)
			if err != nil {
				return err
			}
			defer st.Close()
			if _, err := st.EnsureSchema(c.Context); err != nil {
				return err
			}

			client := googlebooks.NewClient(googlebooks.Options{
				BaseURL:   cfg.Lookup.BaseURL,
				APIKey:    cfg.Lookup.APIKey,
				UserAgent: cfg.Lookup.UserAgent,
				Timeout:   cfg.Lookup.Timeout,
				RPS:       cfg.Lookup.RPS,
			})
			service := book.NewService(st.Books(), lookup.NewFetcher(client, log), log)

			s := seed(c.Context, service, isbns, c.String("location"), log)
			fmt.Fprintf(c.App.Writer, "added %d, already present %d, not found %d, failed %d\n",
				s.Added, s.Existing, s.Missing, s.Failed)
			if s.Failed > 0 {
				return cli.Exit("some books could not be stored", 1)
			}
			return nil
		},
	}
}

func seed(ctx context.Context, service *book.Service, isbns []string, location string, log logrus.FieldLogger) summary {
	var s summary
	for _, isbn := range isbns {
		_, err := service.Add(ctx, book.AddInput{ISBN: isbn, Location: location})
		if err == nil {
			s.Added++
			continue
		}
		switch book.KindOf(err) {
		case book.KindConflict:
			s.Existing++
		case book.KindNotFound:
			s.Missing++
			log.WithField("isbn", isbn).Warn("no metadata found, skipped")
		default:
			s.Failed++
			log.WithError(err).WithField("isbn", isbn).Error("could not add book")
		}
	}
	return s
}

func readISBNFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parseISBNList(f)
}

func parseISBNList(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}
