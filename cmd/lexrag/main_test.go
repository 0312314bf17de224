package main

import (
	"flag"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/veldkamp/lexrag/config"
	"github.com/veldkamp/lexrag/core"
)

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		testCases := []string{
			"DEBUG",
			"Info",
			"WaRn",
			"ERROR",
		}

		for _, tc := range testCases {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestLoadConfigOverrides(t *testing.T) {
	newContext := func(t *testing.T, args map[string]string) *cli.Context {
		t.Helper()
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		set.String("config", "", "")
		set.String("strategy", "", "")
		set.Int("chunk-size", 0, "")
		set.Int("chunk-overlap", 0, "")
		for name, value := range args {
			require.NoError(t, set.Set(name, value))
		}
		return cli.NewContext(nil, set, nil)
	}

	t.Run("flags override file defaults", func(t *testing.T) {
		c := newContext(t, map[string]string{
			"strategy":      "markdown",
			"chunk-size":    "800",
			"chunk-overlap": "120",
		})

		cfg := loadConfig(c)
		assert.Equal(t, "markdown", cfg.Chunk.Strategy)
		assert.Equal(t, 800, cfg.Chunk.Size)
		assert.Equal(t, 120, cfg.Chunk.Overlap)
	})

	t.Run("unset flags keep defaults", func(t *testing.T) {
		c := newContext(t, nil)

		cfg := loadConfig(c)
		def := config.Default()
		assert.Equal(t, def.Chunk.Strategy, cfg.Chunk.Strategy)
		assert.Equal(t, def.Chunk.Size, cfg.Chunk.Size)
		assert.Equal(t, def.Chunk.Overlap, cfg.Chunk.Overlap)
	})
}

func TestHitSource(t *testing.T) {
	t.Run("relative path with page", func(t *testing.T) {
		h := &core.Hit{Metadata: core.Metadata{
			core.MetaSourceRel: "laws/BW_Boek7.pdf",
			core.MetaPage:      "12",
		}}
		assert.Equal(t, "laws/BW_Boek7.pdf p.12", hitSource(h))
	})

	t.Run("falls back to absolute path", func(t *testing.T) {
		h := &core.Hit{Metadata: core.Metadata{
			core.MetaSourcePath: "/data/laws/BW_Boek7.txt",
		}}
		assert.Equal(t, "/data/laws/BW_Boek7.txt", hitSource(h))
	})

	t.Run("unknown when no source metadata", func(t *testing.T) {
		h := &core.Hit{Metadata: core.Metadata{}}
		assert.Equal(t, "unknown", hitSource(h))
	})
}

func TestCommandValidation(t *testing.T) {
	t.Run("ask requires a question", func(t *testing.T) {
		app := &cli.App{
			Name: "lexrag",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "config", Value: "lexrag.toml"},
			},
			Commands: []*cli.Command{
				{Name: "ask", Action: askCommand},
			},
		}

		err := app.Run([]string{"lexrag", "ask"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "question is required")
	})

	t.Run("crawl requires a base url", func(t *testing.T) {
		app := &cli.App{
			Name: "lexrag",
			Commands: []*cli.Command{
				{
					Name:   "crawl",
					Action: crawlCommand,
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "base-url"},
					},
				},
			},
		}

		err := app.Run([]string{"lexrag", "crawl"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create crawler")
	})
}

func TestMain(m *testing.M) {
	os.Exit(m.Run())
}
