package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/poiesic/tmatch/core"
)

// Normalize expands paths, canonicalizes language codes and fills derived
// defaults. Load calls it; callers building a Config by hand should too.
func (c *Config) Normalize() error {
	var err error
	if c.Project.Dir, err = expandPath(strings.TrimSpace(c.Project.Dir)); err != nil {
		return fmt.Errorf("project.dir: %w", err)
	}
	c.Project.SourceLanguage = core.NewLanguage(c.Project.SourceLanguage).String()
	c.Project.TargetLanguage = core.NewLanguage(c.Project.TargetLanguage).String()

	c.Matching.Tokenizer = strings.ToLower(strings.TrimSpace(c.Matching.Tokenizer))
	if c.Matching.Tokenizer == "" {
		c.Matching.Tokenizer = defaultTokenizer
	}

	c.Storage.Dir = strings.TrimSpace(c.Storage.Dir)
	if c.Storage.Dir == "" {
		c.Storage.Dir = defaultDatabaseDir
	}
	if strings.HasPrefix(c.Storage.Dir, "~") {
		if c.Storage.Dir, err = expandPath(c.Storage.Dir); err != nil {
			return fmt.Errorf("storage.dir: %w", err)
		}
	}

	for i := range c.Memories {
		m := &c.Memories[i]
		m.Path = strings.TrimSpace(m.Path)
		if m.Path != "" && !filepath.IsAbs(m.Path) && !strings.HasPrefix(m.Path, "~") {
			m.Path = filepath.Join(c.Project.Dir, m.Path)
		}
		if m.Path, err = expandPath(m.Path); err != nil {
			return fmt.Errorf("memories[%d].path: %w", i, err)
		}
		m.ID = strings.TrimSpace(m.ID)
		if m.ID == "" && m.Path != "" {
			m.ID = strings.TrimSuffix(filepath.Base(m.Path), filepath.Ext(m.Path))
		}
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
