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

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Project describes the project being translated.
type Project struct {
	// Dir is the project root. The database lives below it.
	Dir string `toml:"dir"`

	// SourceLanguage is the language of the text being translated, e.g. "en".
	SourceLanguage string `toml:"source_language"`

	// TargetLanguage is the language translated into, e.g. "fr-CA".
	TargetLanguage string `toml:"target_language"`

	// SupportDefaultTranslations stores confirmations as the shared default
	// translation of a source text. When false every confirmation is bound
	// to its segment.
	SupportDefaultTranslations bool `toml:"support_default_translations"`
}

// Matching tunes searches.
type Matching struct {
	MaxResults     int    `toml:"max_results"`
	MinScore       int    `toml:"min_score"`
	PoolSize       int    `toml:"pool_size"` // 0 picks runtime.NumCPU() / 2
	TokenCacheSize int64  `toml:"token_cache_size"`
	KeepForeign    bool   `toml:"keep_foreign"`
	Tokenizer      string `toml:"tokenizer"`
}

// Storage configures the database and imports.
type Storage struct {
	// Dir holds the database. Relative paths are resolved against the
	// project directory.
	Dir              string `toml:"dir"`
	InMemory         bool   `toml:"in_memory"`
	SyncWrites       bool   `toml:"sync_writes"`
	Compression      bool   `toml:"compression"`
	BatchSize        int    `toml:"batch_size"`
	ReportInterval   int    `toml:"report_interval"`
	MaxRetries       int    `toml:"max_retries"`
	RetryDelayMillis int    `toml:"retry_delay_ms"`
}

// Memory names an external translation memory file.
type Memory struct {
	Path string `toml:"path"`
	// ID defaults to the file name without extension.
	ID string `toml:"id"`
}

// Logging configures log output.
type Logging struct {
	Level string `toml:"level"`
}

// Config encapsulates all configuration values for tmatch.
type Config struct {
	Project  Project  `toml:"project"`
	Matching Matching `toml:"matching"`
	Storage  Storage  `toml:"storage"`
	Memories []Memory `toml:"memories"`
	Logging  Logging  `toml:"logging"`
}

// Option is a functional option for configuring a Config.
type Option func(*Config)

// WithProjectDir sets the project directory.
func WithProjectDir(dir string) Option {
	return func(c *Config) {
		c.Project.Dir = dir
	}
}

// WithLanguages sets the project language pair.
func WithLanguages(source, target string) Option {
	return func(c *Config) {
		c.Project.SourceLanguage = source
		c.Project.TargetLanguage = target
	}
}

// WithMaxResults sets the number of matches a search returns.
func WithMaxResults(n int) Option {
	return func(c *Config) {
		c.Matching.MaxResults = n
	}
}

// WithMinScore sets the lowest score a match may have.
func WithMinScore(score int) Option {
	return func(c *Config) {
		c.Matching.MinScore = score
	}
}

// WithInMemoryStorage keeps the database in memory.
func WithInMemoryStorage(inMemory bool) Option {
	return func(c *Config) {
		c.Storage.InMemory = inMemory
	}
}

// WithMemories replaces the list of external memories.
func WithMemories(memories ...Memory) Option {
	return func(c *Config) {
		c.Memories = memories
	}
}

// DefaultConfig returns a Config with sensible defaults.
// Languages have no default and must be provided.
func DefaultConfig() *Config {
	return &Config{
		Project: Project{
			Dir:                        defaultProjectDir,
			SupportDefaultTranslations: defaultSupportsDefaults,
		},
		Matching: Matching{
			MaxResults:     defaultMaxResults,
			MinScore:       defaultMinScore,
			TokenCacheSize: defaultTokenCacheSize,
			Tokenizer:      defaultTokenizer,
		},
		Storage: Storage{
			Dir:              defaultDatabaseDir,
			Compression:      defaultStorageCompressed,
			BatchSize:        defaultBatchSize,
			ReportInterval:   defaultReportInterval,
			MaxRetries:       defaultMaxRetries,
			RetryDelayMillis: defaultRetryDelayMillis,
		},
		Logging: Logging{
			Level: defaultLogLevel,
		},
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Load reads the TOML file at path over the defaults, applies opts,
// normalizes and validates the result. An empty path looks for
// tmatch.toml in the working directory; a missing file is not an error.
func Load(path string, opts ...Option) (*Config, error) {
	cfg := DefaultConfig()

	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}
	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := Decode(file, cfg); err != nil {
			return nil, err
		}
		// Relative project directories are relative to the config file
		if !filepath.IsAbs(cfg.Project.Dir) && !strings.HasPrefix(cfg.Project.Dir, "~") {
			cfg.Project.Dir = filepath.Join(filepath.Dir(resolved), cfg.Project.Dir)
		}
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode reads TOML from r into cfg. Unknown keys are rejected.
func Decode(r io.Reader, cfg *Config) error {
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config: %s", strict.String())
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Save writes cfg as TOML to path.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return file.Close()
}

// CreateSample writes a commented sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// DatabaseDir returns the directory of the database.
func (c *Config) DatabaseDir() string {
	if filepath.IsAbs(c.Storage.Dir) {
		return c.Storage.Dir
	}
	return filepath.Join(c.Project.Dir, c.Storage.Dir)
}

// RetryDelay returns the base delay between import retries.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Storage.RetryDelayMillis) * time.Millisecond
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		abs, err := filepath.Abs(defaultConfigFileName)
		if err != nil {
			return "", false, err
		}
		path = abs
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config %s is a directory", expanded)
	}
	return expanded, true, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
