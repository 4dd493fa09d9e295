package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/sitesearch/cmd/sitesearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	// Use kong.Exit to prevent os.Exit from being called during tests
	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	helpOutput := stdout.String()
	for _, cmd := range []string{"crawl", "search", "suggest", "runs"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
}

func TestCLI_CrawlDefaults(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	parser, err := kong.New(cli,
		kong.Writers(&bytes.Buffer{}, &bytes.Buffer{}),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"crawl", "https://example.test/docs/", "--no-robots", "-F", "/docs/", "-F", "/api/"})
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/docs/", cli.Crawl.URL)
	assert.Equal(t, 4, cli.Crawl.Concurrency)
	assert.False(t, cli.Crawl.Robots)
	assert.True(t, cli.Crawl.Sitemap)
	assert.Zero(t, cli.Crawl.Retries)
	assert.Equal(t, []string{"/docs/", "/api/"}, cli.Crawl.Filter)
	assert.InDelta(t, 1.0, cli.DictWeight, 1e-9)
	assert.InDelta(t, 0.1, cli.VocabWeight, 1e-9)
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	t.Run("help flag returns nil and lists commands", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})
		require.NoError(t, err)

		helpOutput := stdout.String()
		for _, cmd := range []string{"crawl", "search", "suggest", "runs"} {
			assert.Contains(t, helpOutput, cmd)
		}
		assert.Contains(t, helpOutput, "Usage:")
		assert.Contains(t, helpOutput, "Flags:")
	})

	t.Run("no arguments is an error", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), nil, stdout, &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, stdout.String(), "Usage:")
	})
}
