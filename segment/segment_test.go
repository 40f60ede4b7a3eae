// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

package segment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/openlearn/i18ntool/config"
	"codeberg.org/openlearn/i18ntool/pofile"
)

const combinedCatalog = `# Combined extraction output.
msgid ""
msgstr ""
"Project-Id-Version: 0.1a\n"
"Content-Type: text/plain; charset=UTF-8\n"

#: cms/templates/editor.html:4
msgid "Studio only"
msgstr ""

#: lms/views.py:20
msgid "Learner only"
msgstr ""

#: cms/app.py:9 lms/app.py:9
msgid "Shared everywhere"
msgstr ""

msgid "No references"
msgstr ""
`

func writeCatalog(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func segmentConfig(t *testing.T, spec map[string]config.SegmentSpec) *config.Config {
	t.Helper()

	cfg := &config.Config{Locales: []string{"fr"}, Segment: spec}
	cfg.SetDefaults()
	cfg.SourceDir = t.TempDir()

	return cfg
}

func TestSegmentSplitsByReference(t *testing.T) {
	t.Parallel()

	cfg := segmentConfig(t, map[string]config.SegmentSpec{
		"django-partial.po": {
			"studio.po": {"cms/*"},
		},
	})

	dir := cfg.MessagesDir("fr")
	writeCatalog(t, dir, "django-partial.po", combinedCatalog)

	produced, err := New(cfg).Segment("fr")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"django-partial.po", "studio.po"}, produced)

	studio, err := pofile.Load(filepath.Join(dir, "studio.po"))
	require.NoError(t, err)
	require.Len(t, studio.Entries, 1)
	assert.Equal(t, "Studio only", studio.Entries[0].MsgID)

	// Segment catalogs inherit header and metadata from the source.
	assert.Contains(t, studio.Header, "Combined extraction output.")

	version, ok := studio.Metadata("Project-Id-Version")
	require.True(t, ok)
	assert.Equal(t, "0.1a", version)

	remainder, err := pofile.Load(filepath.Join(dir, "django-partial.po"))
	require.NoError(t, err)

	var ids []string
	for _, e := range remainder.Entries {
		ids = append(ids, e.MsgID)
	}

	// Mixed-reference and reference-free entries stay in the remainder,
	// in their original order.
	assert.Equal(t, []string{"Learner only", "Shared everywhere", "No references"}, ids)
}

func TestSegmentPassThroughWithoutSpec(t *testing.T) {
	t.Parallel()

	cfg := segmentConfig(t, map[string]config.SegmentSpec{
		"django-partial.po":   {},
		"djangojs-partial.po": {},
	})

	dir := cfg.MessagesDir("fr")
	writeCatalog(t, dir, "django-partial.po", combinedCatalog)

	original, err := os.ReadFile(filepath.Join(dir, "django-partial.po"))
	require.NoError(t, err)

	produced, err := New(cfg).Segment("fr")
	require.NoError(t, err)

	// Only the catalog actually present is reported; pass-through does
	// not rewrite it.
	assert.Equal(t, []string{"django-partial.po"}, produced)

	after, err := os.ReadFile(filepath.Join(dir, "django-partial.po"))
	require.NoError(t, err)
	assert.Equal(t, original, after)
}

func TestSegmentSkipsAbsentCatalogs(t *testing.T) {
	t.Parallel()

	cfg := segmentConfig(t, map[string]config.SegmentSpec{
		"django-partial.po": {"studio.po": {"cms/*"}},
	})

	require.NoError(t, os.MkdirAll(cfg.MessagesDir("fr"), 0o755))

	produced, err := New(cfg).Segment("fr")
	require.NoError(t, err)
	assert.Empty(t, produced)
}

func TestSegmentOmitsEmptySegments(t *testing.T) {
	t.Parallel()

	cfg := segmentConfig(t, map[string]config.SegmentSpec{
		"django-partial.po": {
			"never-matches.po": {"no/such/dir/*"},
		},
	})

	dir := cfg.MessagesDir("fr")
	writeCatalog(t, dir, "django-partial.po", combinedCatalog)

	produced, err := New(cfg).Segment("fr")
	require.NoError(t, err)

	assert.Equal(t, []string{"django-partial.po"}, produced)
	assert.NoFileExists(t, filepath.Join(dir, "never-matches.po"))
}

func TestGlobMatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"cms/*", "cms/app.py", true},
		{"cms/*", "cms/templates/editor.html", true},
		{"cms/*", "lms/app.py", false},
		{"*/tests/*", "lms/tests/test_app.py", true},
		{"cms/?pp.py", "cms/app.py", true},
		{"cms/*", "cms/", true},
		{"cms/*", "cms", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, globMatch(tt.pattern, tt.path), "globMatch(%q, %q)", tt.pattern, tt.path)
	}
}
