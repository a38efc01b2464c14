package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bookshelf/internal/config"
	"bookshelf/internal/platform/googlebooks"
	"bookshelf/internal/testutil"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestParseISBNList(t *testing.T) {
	in := "9780134190440\n# comment\n\n  9780132350884  # trailing\n"

	got, err := parseISBNList(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"9780134190440", "9780132350884"}, got)
}

func TestSeed_AddsSkipsAndReports(t *testing.T) {
	volumes := testutil.NewVolumesServer(t, map[string]googlebooks.VolumeInfo{
		"9780134190440": {Title: testutil.Str("The Go Programming Language")},
		"9780132350884": {Title: testutil.Str("Clean Code")},
	})

	dir := t.TempDir()
	list := filepath.Join(dir, "isbns.txt")
	require.NoError(t, os.WriteFile(list, []byte("9780132350884\n9780000000002\n"), 0o600))

	cfg := config.Default()
	cfg.Database.DSN = filepath.Join(dir, "books.db")
	cfg.Lookup.BaseURL = volumes.URL

	logger, hook := test.NewNullLogger()
	app := newApp(cfg, logger)
	var out bytes.Buffer
	app.Writer = &out

	err := app.RunContext(context.Background(), []string{
		"seed", "--file", list, "--location", "Box 3",
		"9780134190440", "9780134190440",
	})
	require.NoError(t, err)
	assert.Equal(t, "added 2, already present 1, not found 1, failed 0\n", out.String())

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["isbn"] == "9780000000002" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestSeed_NoISBNs(t *testing.T) {
	logger, _ := test.NewNullLogger()
	app := newApp(config.Default(), logger)
	app.ExitErrHandler = func(*cli.Context, error) {}

	err := app.RunContext(context.Background(), []string{"seed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ISBNs given")
}
