package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/tmatch/config"
	"github.com/poiesic/tmatch/tokenizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const glossaryTMX = `<?xml version="1.0" encoding="UTF-8"?>
<tmx version="1.4">
  <header srclang="en" datatype="plaintext" segtype="sentence" adminlang="en" creationtool="test" creationtoolversion="1" o-tmf="test"/>
  <body>
    <tu>
      <tuv xml:lang="en"><seg>Save the file</seg></tuv>
      <tuv xml:lang="fr"><seg>Enregistrer le fichier</seg></tuv>
    </tu>
    <tu>
      <tuv xml:lang="en"><seg>Open the file</seg></tuv>
      <tuv xml:lang="fr"><seg>Ouvrir le fichier</seg></tuv>
    </tu>
  </body>
</tmx>`

const projectConfig = `
[project]
dir = "."
source_language = "en"
target_language = "fr"

[[memories]]
path = "glossary.tmx"

[logging]
level = "warn"
`

func writeProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "glossary.tmx"), []byte(glossaryTMX), 0644))
	cfgPath := filepath.Join(dir, "tmatch.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(projectConfig), 0644))
	return cfgPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(append([]string{"tmatch"}, args...))
	return out.String(), err
}

func TestCommands(t *testing.T) {
	cfgPath := writeProject(t)

	out, err := run(t, "-c", cfgPath, "import")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported glossary: 2 records")

	out, err = run(t, "-c", cfgPath, "search", "Save", "the", "file")
	require.NoError(t, err)
	assert.Contains(t, out, "Enregistrer le fichier")
	assert.Contains(t, out, "100")

	out, err = run(t, "-c", cfgPath, "search", "--exact", "Open the file")
	require.NoError(t, err)
	assert.Contains(t, out, "Ouvrir le fichier")
	assert.NotContains(t, out, "Enregistrer")

	out, err = run(t, "-c", cfgPath, "confirm", "Close the file", "Fermer le fichier")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored default translation")

	out, err = run(t, "-c", cfgPath, "confirm", "--alternative", "--file", "menu.txt", "Close the file", "Fermer")
	require.NoError(t, err)
	assert.Contains(t, out, "Stored alternative translation")

	out, err = run(t, "-c", cfgPath, "memories")
	require.NoError(t, err)
	assert.Contains(t, out, "project")
	assert.Contains(t, out, "glossary")

	out, err = run(t, "-c", cfgPath, "remove", "glossary")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed glossary")

	out, err = run(t, "-c", cfgPath, "search", "Open the file")
	require.NoError(t, err)
	assert.NotContains(t, out, "Ouvrir le fichier")
}

func TestCommandErrors(t *testing.T) {
	cfgPath := writeProject(t)

	t.Run("search needs text", func(t *testing.T) {
		_, err := run(t, "-c", cfgPath, "search")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "search text is required")
	})

	t.Run("confirm needs two arguments", func(t *testing.T) {
		_, err := run(t, "-c", cfgPath, "confirm", "only source")
		require.Error(t, err)
	})

	t.Run("project memory cannot be removed", func(t *testing.T) {
		_, err := run(t, "-c", cfgPath, "remove", "project")
		require.Error(t, err)
	})

	t.Run("id with several files", func(t *testing.T) {
		_, err := run(t, "-c", cfgPath, "import", "--id", "x", "a.tmx", "b.tmx")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--id")
	})

	t.Run("missing languages", func(t *testing.T) {
		empty := filepath.Join(t.TempDir(), "tmatch.toml")
		require.NoError(t, os.WriteFile(empty, []byte("[logging]\nlevel = \"warn\"\n"), 0644))
		_, err := run(t, "-c", empty, "memories")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load config")
	})
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmatch.toml")

	out, err := run(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Project.SourceLanguage)

	_, err = run(t, "init", path)
	assert.Error(t, err, "existing files are not overwritten")
}

func TestProjectOptions(t *testing.T) {
	for _, name := range []string{config.TokenizerAuto, config.TokenizerDefault, config.TokenizerStemming, config.TokenizerSegmenting} {
		t.Run(name, func(t *testing.T) {
			cfg := config.NewConfig(config.WithLanguages("en", "fr"))
			cfg.Matching.Tokenizer = name
			opts, err := projectOptions(cfg)
			require.NoError(t, err)
			assert.NotEmpty(t, opts)
		})
	}

	t.Run("stemming without a stemmer", func(t *testing.T) {
		cfg := config.NewConfig(config.WithLanguages("zh", "en"))
		cfg.Matching.Tokenizer = config.TokenizerStemming
		_, err := projectOptions(cfg)
		assert.ErrorIs(t, err, tokenizer.ErrNoStemmer)
	})
}

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
				level, err := parseLevel(tc.input)
				require.NoError(t, err)
				assert.Equal(t, tc.expected, level)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
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
		_, err := run(t, "--log-level", "invalid", "memories")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := newApp()
		var flag *cli.StringFlag
		for _, f := range app.Flags {
			if sf, ok := f.(*cli.StringFlag); ok && sf.Name == "log-level" {
				flag = sf
			}
		}
		require.NotNil(t, flag)
		assert.Equal(t, []string{"l"}, flag.Aliases)
		assert.Equal(t, "info", flag.Value)
	})
}
