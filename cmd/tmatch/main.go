// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/tmatch"
	"github.com/poiesic/tmatch/config"
	"github.com/poiesic/tmatch/core"
	"github.com/poiesic/tmatch/importer"
	"github.com/poiesic/tmatch/matching"
	"github.com/poiesic/tmatch/storage/badger"
	"github.com/poiesic/tmatch/tokenizer"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "tmatch",
		Usage: "Fuzzy translation memory matching",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file (default ./tmatch.toml)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Write a sample configuration file",
				ArgsUsage: "[path]",
				Action:    initCommand,
			},
			{
				Name:      "import",
				Usage:     "Import TMX files as external memories (all configured memories without arguments)",
				ArgsUsage: "[file.tmx...]",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "id",
						Usage: "Memory ID when importing a single file",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Find translations of similar source texts",
				ArgsUsage: "<text>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "exact",
						Usage: "Only return translations of the exact source text",
					},
					&cli.BoolFlag{
						Name:  "keep-foreign",
						Usage: "Keep translations into unrelated languages",
					},
					&cli.IntFlag{
						Name:    "max-results",
						Aliases: []string{"n"},
						Usage:   "Number of matches to show (default from config)",
					},
					&cli.IntFlag{
						Name:  "min-score",
						Usage: "Lowest score to show (default from config)",
						Value: -1,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Stop searching after this long and show what was found",
					},
				},
			},
			{
				Name:      "confirm",
				Usage:     "Store a translation in the project memory",
				ArgsUsage: "<source> <translation>",
				Action:    confirmCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "File the segment belongs to",
					},
					&cli.StringFlag{
						Name:  "prev",
						Usage: "Source text of the previous segment",
					},
					&cli.StringFlag{
						Name:  "next",
						Usage: "Source text of the next segment",
					},
					&cli.BoolFlag{
						Name:  "alternative",
						Usage: "Bind the translation to this segment only",
					},
				},
			},
			{
				Name:   "memories",
				Usage:  "List stored memories",
				Action: memoriesCommand,
			},
			{
				Name:      "remove",
				Usage:     "Remove an external memory",
				ArgsUsage: "<id>",
				Action:    removeCommand,
			},
		},
	}
}

func initCommand(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = "tmatch.toml"
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.CreateSample(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

func importCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, project, err := openProject(ctx, c)
	if err != nil {
		return err
	}
	defer project.Close()

	memories := cfg.Memories
	if c.Args().Present() {
		if c.NArg() > 1 && c.String("id") != "" {
			return fmt.Errorf("--id can only be used with a single file")
		}
		memories = nil
		for _, path := range c.Args().Slice() {
			memories = append(memories, config.Memory{Path: path, ID: c.String("id")})
		}
	}
	if len(memories) == 0 {
		return fmt.Errorf("no memories to import: pass TMX files or list them in the config")
	}

	for _, m := range memories {
		info, err := project.ImportTMX(ctx, m.Path, m.ID, progressWriter(c.App.ErrWriter))
		if err != nil {
			return fmt.Errorf("import %s failed: %w", m.Path, err)
		}
		fmt.Fprintf(c.App.Writer, "Imported %s: %d records\n", info.Id, info.RecordCount)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search text is required")
	}

	ctx := context.Background()
	cfg, project, err := openProject(ctx, c)
	if err != nil {
		return err
	}
	defer project.Close()

	maxResults := cfg.Matching.MaxResults
	if c.Int("max-results") > 0 {
		maxResults = c.Int("max-results")
	}
	minScore := cfg.Matching.MinScore
	if c.Int("min-score") >= 0 {
		minScore = c.Int("min-score")
	}

	finder, err := project.NewFinder(maxResults,
		matching.WithLogger(slog.Default()),
		matching.WithMinScore(minScore),
		matching.WithPoolSize(cfg.Matching.PoolSize),
		matching.WithTokenCacheSize(cfg.Matching.TokenCacheSize),
	)
	if err != nil {
		return err
	}
	defer finder.Release()

	probe := matching.NeverStop
	if timeout := c.Duration("timeout"); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
		probe = matching.ContextProbe(ctx)
	}

	keepForeign := cfg.Matching.KeepForeign || c.Bool("keep-foreign")
	results := finder.Search(query, c.Bool("exact"), keepForeign, probe)
	if len(results) == 0 {
		fmt.Fprintln(c.App.Writer, "No matches")
		return nil
	}
	printResults(c, results)
	return nil
}

func printResults(c *cli.Context, results []core.NearString) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		lang := r.Language.String()
		if r.Kind != core.MatchExact {
			lang += " (" + r.Kind.String() + ")"
		}
		rows = append(rows, []string{strconv.Itoa(r.Score), r.Origin, lang, r.Source, r.Translation})
	}
	fmt.Fprintln(c.App.Writer, renderTable(
		[]string{"Score", "Memory", "Language", "Source", "Translation"},
		rows,
		[]columnAlignment{alignRight},
	))
}

func confirmCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected <source> <translation>")
	}

	ctx := context.Background()
	_, project, err := openProject(ctx, c)
	if err != nil {
		return err
	}
	defer project.Close()

	key := core.EntryKey{
		File:       c.String("file"),
		SourceText: c.Args().Get(0),
		Prev:       c.String("prev"),
		Next:       c.String("next"),
	}
	rec, err := project.Confirm(ctx, key, c.Args().Get(1), !c.Bool("alternative"))
	if err != nil {
		return err
	}

	kind := "default"
	if rec.Alternative != nil {
		kind = "alternative"
	}
	fmt.Fprintf(c.App.Writer, "Stored %s translation of %q\n", kind, rec.Source)
	return nil
}

func memoriesCommand(c *cli.Context) error {
	ctx := context.Background()
	_, project, err := openProject(ctx, c)
	if err != nil {
		return err
	}
	defer project.Close()

	infos, err := project.Memories(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		updated := "-"
		if !info.UpdatedAt.IsZero() {
			updated = info.UpdatedAt.Local().Format(time.DateTime)
		}
		rows = append(rows, []string{
			info.Id,
			info.Kind.String(),
			info.SourceLanguage.String() + " → " + info.TargetLanguage.String(),
			strconv.Itoa(info.RecordCount),
			updated,
			info.Path,
		})
	}
	fmt.Fprintln(c.App.Writer, renderTable(
		[]string{"ID", "Kind", "Languages", "Records", "Updated", "Path"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}

func removeCommand(c *cli.Context) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("memory ID is required")
	}

	ctx := context.Background()
	_, project, err := openProject(ctx, c)
	if err != nil {
		return err
	}
	defer project.Close()

	if err := project.RemoveMemory(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Removed %s\n", id)
	return nil
}

// openProject loads the configuration and opens the project it describes.
func openProject(ctx context.Context, c *cli.Context) (*config.Config, *tmatch.Project, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !c.IsSet("log-level") {
		if err := configureLogger(cfg.Logging.Level); err != nil {
			return nil, nil, err
		}
	}

	opts, err := projectOptions(cfg)
	if err != nil {
		return nil, nil, err
	}
	props := tmatch.ProjectProperties{
		SourceLanguage:             core.NewLanguage(cfg.Project.SourceLanguage),
		TargetLanguage:             core.NewLanguage(cfg.Project.TargetLanguage),
		SupportDefaultTranslations: cfg.Project.SupportDefaultTranslations,
	}
	project, err := tmatch.OpenProject(ctx, cfg.DatabaseDir(), props, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open project: %w", err)
	}
	return cfg, project, nil
}

// projectOptions maps the configuration onto project options.
func projectOptions(cfg *config.Config) ([]tmatch.ProjectOption, error) {
	opts := []tmatch.ProjectOption{
		tmatch.WithLogger(slog.Default()),
		tmatch.WithBackendOptions(
			badger.WithSyncWrites(cfg.Storage.SyncWrites),
			badger.WithCompression(cfg.Storage.Compression),
		),
		tmatch.WithImportConfig(&importer.Config{
			BatchSize:      cfg.Storage.BatchSize,
			ReportInterval: cfg.Storage.ReportInterval,
			MaxRetries:     cfg.Storage.MaxRetries,
			RetryDelay:     cfg.RetryDelay(),
		}),
	}
	if cfg.Storage.InMemory {
		opts = append(opts, tmatch.WithInMemory())
	}

	base := core.NewLanguage(cfg.Project.SourceLanguage).Base()
	switch cfg.Matching.Tokenizer {
	case config.TokenizerDefault:
		opts = append(opts, tmatch.WithTokenizer(tokenizer.DefaultTokenizer{}))
	case config.TokenizerSegmenting:
		opts = append(opts, tmatch.WithTokenizer(tokenizer.SegmentingTokenizer{}))
	case config.TokenizerStemming:
		tok, err := tokenizer.NewStemmingTokenizer(base)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tmatch.WithTokenizer(tok))
	default:
		opts = append(opts, tmatch.WithTokenizerTable(tokenizer.NewTable()))
	}
	return opts, nil
}

func setupLogger(c *cli.Context) error {
	return configureLogger(c.String("log-level"))
}

func configureLogger(levelStr string) error {
	level, err := parseLevel(levelStr)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

func parseLevel(levelStr string) (slog.Level, error) {
	levelStr = strings.ToLower(levelStr)
	switch levelStr {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}
}
