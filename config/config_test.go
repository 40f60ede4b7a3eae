// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
locales: [en, fr, pt_BR]
locale_dir: conf/locale
ignore_dirs:
  - docs
  - src/third-party
segment:
  django-partial.po:
    studio.po: ["cms/*"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"en", "fr", "pt_BR"}, cfg.Locales)
	assert.Equal(t, []string{"docs", "src/third-party"}, cfg.IgnoreDirs)
	assert.Equal(t, ".", cfg.SourceDir, "source_dir defaults to the working directory")

	require.Contains(t, cfg.Segment, "django-partial.po")
	assert.Equal(t, []string{"cms/*"}, cfg.Segment["django-partial.po"]["studio.po"])
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "locales: [en\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		locales []string
		wantErr bool
	}{
		{
			name:    "valid locales",
			locales: []string{"en", "fr"},
			wantErr: false,
		},
		{
			name:    "unparseable tag is tolerated",
			locales: []string{"en", "not_a_tag_at_all"},
			wantErr: false,
		},
		{
			name:    "no locales",
			locales: nil,
			wantErr: true,
		},
		{
			name:    "duplicate locale",
			locales: []string{"en", "fr", "en"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{Locales: tt.locales}
			cfg.SetDefaults()

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMessagesDir(t *testing.T) {
	t.Parallel()

	cfg := &Config{SourceDir: "/srv/app", LocaleDir: "conf/locale"}

	assert.Equal(t, filepath.Join("/srv/app", "conf", "locale"), cfg.LocaleRoot())
	assert.Equal(t, filepath.Join("/srv/app", "conf", "locale", "pt_BR", "LC_MESSAGES"), cfg.MessagesDir("pt_BR"))
}

func TestYAML(t *testing.T) {
	t.Parallel()

	cfg := &Config{Locales: []string{"en"}}
	cfg.SetDefaults()

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, out, "locales:")
	assert.Contains(t, out, "locale_dir: conf/locale")
}
