package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/poiesic/tmatch/core"
)

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if err := c.validateProject(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateMemories(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProject() error {
	if c.Project.Dir == "" {
		return errors.New("project.dir must be set")
	}
	if err := core.ValidateLanguage(core.Language(c.Project.SourceLanguage), false); err != nil {
		return fmt.Errorf("project.source_language: %w", err)
	}
	if err := core.ValidateLanguage(core.Language(c.Project.TargetLanguage), false); err != nil {
		return fmt.Errorf("project.target_language: %w", err)
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.MaxResults < 1 {
		return errors.New("matching.max_results must be positive")
	}
	if c.Matching.MinScore < 0 || c.Matching.MinScore > 100 {
		return errors.New("matching.min_score must be between 0 and 100")
	}
	if c.Matching.PoolSize < 0 {
		return errors.New("matching.pool_size must not be negative")
	}
	if c.Matching.TokenCacheSize < 0 {
		return errors.New("matching.token_cache_size must not be negative")
	}
	tokenizers := []string{TokenizerAuto, TokenizerDefault, TokenizerStemming, TokenizerSegmenting}
	if !slices.Contains(tokenizers, c.Matching.Tokenizer) {
		return fmt.Errorf("matching.tokenizer must be one of %v, got %q", tokenizers, c.Matching.Tokenizer)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.BatchSize < 1 {
		return errors.New("storage.batch_size must be positive")
	}
	if c.Storage.MaxRetries < 1 {
		return errors.New("storage.max_retries must be positive")
	}
	if c.Storage.RetryDelayMillis < 0 {
		return errors.New("storage.retry_delay_ms must not be negative")
	}
	return nil
}

func (c *Config) validateMemories() error {
	seen := make(map[string]bool, len(c.Memories))
	for i, m := range c.Memories {
		if m.Path == "" {
			return fmt.Errorf("memories[%d].path must be set", i)
		}
		if seen[m.ID] {
			return fmt.Errorf("memories[%d].id %q is used twice", i, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
}
