// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package config loads the locale and catalog-directory configuration
// that the extraction pipeline consumes read-only.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// DefaultPath is the conventional location of the configuration file,
// relative to the source tree root.
const DefaultPath = "conf/locale/config.yaml"

var errNoLocales = errors.New("no locales configured")

// SegmentSpec maps a segment catalog filename to the source-path glob
// fragments whose entries it collects.
type SegmentSpec map[string][]string

// Config describes the translation layout of one source tree.
type Config struct {
	// Locales are opaque catalog-directory keys, in processing order.
	Locales []string `yaml:"locales"`

	// SourceDir is the root of the source tree extraction runs against.
	SourceDir string `yaml:"source_dir"`

	// LocaleDir is the root catalog directory, relative to SourceDir.
	LocaleDir string `yaml:"locale_dir"`

	// IgnoreDirs are directory fragments the primary extraction tool
	// must skip.
	IgnoreDirs []string `yaml:"ignore_dirs"`

	// Segment declares, per combined catalog filename, how entries are
	// split into category catalogs.
	Segment map[string]SegmentSpec `yaml:"segment"`
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- only loading a config file
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	cfg := &Config{}
	cfg.SetDefaults()

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML from %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("path", path).
		Int("locales", len(cfg.Locales)).
		Msg("Loaded configuration")

	return cfg, nil
}

// SetDefaults populates the configuration with default values.
func (c *Config) SetDefaults() {
	c.SourceDir = "."
	c.LocaleDir = "conf/locale"
}

// Validate checks the configuration. Locale codes that do not parse as
// BCP 47 tags are reported but not rejected; the pipeline treats locales
// as opaque directory keys.
func (c *Config) Validate() error {
	if len(c.Locales) == 0 {
		return errNoLocales
	}

	seen := make(map[string]struct{}, len(c.Locales))

	for _, locale := range c.Locales {
		if _, dup := seen[locale]; dup {
			return fmt.Errorf("duplicate locale %q", locale)
		}

		seen[locale] = struct{}{}

		if _, err := language.Parse(locale); err != nil {
			log.Warn().
				Str("locale", locale).
				Msg("Locale is not a recognizable BCP 47 tag")
		}
	}

	return nil
}

// LocaleRoot returns the root catalog directory joined onto the source tree.
func (c *Config) LocaleRoot() string {
	return filepath.Join(c.SourceDir, c.LocaleDir)
}

// MessagesDir returns the catalog directory for one locale.
func (c *Config) MessagesDir(locale string) string {
	return filepath.Join(c.LocaleRoot(), locale, "LC_MESSAGES")
}

// YAML renders the resolved configuration, for `i18ntool config`.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal configuration: %w", err)
	}

	return string(out), nil
}
