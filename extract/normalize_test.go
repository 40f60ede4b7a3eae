// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/openlearn/i18ntool/pofile"
)

// fixedClock pins the normalizer's clock so fix operations are pure.
func fixedClock() time.Time {
	return time.Date(2026, time.August, 20, 12, 30, 0, 0, time.UTC)
}

func TestIsKeyString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"_foo", true},
		{"_internal_key", true},
		{"__", true},
		{"_", false},
		{"", false},
		{"foo", false},
		{"foo_bar", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsKeyString(tt.in), "IsKeyString(%q)", tt.in)
	}
}

func TestFixHeader(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer(fixedClock)

	f := &pofile.File{
		Header: strings.Join([]string{
			"SOME DESCRIPTIVE TITLE.",
			"Copyright (C) YEAR THE PACKAGE'S COPYRIGHT HOLDER",
			"This file is distributed under the same license as the PACKAGE package.",
			"FIRST AUTHOR <EMAIL@ADDRESS>, YEAR.",
		}, "\n"),
	}
	f.SetHeaderFuzzy(true)

	norm.FixHeader(f)

	assert.False(t, f.HeaderFuzzy())
	assert.Contains(t, f.Header, Marker)
	assert.Contains(t, f.Header, "Copyright (C) 2026 OpenLearn")
	assert.Contains(t, f.Header, "GNU AFFERO GENERAL PUBLIC LICENSE")
	assert.Contains(t, f.Header, "OpenLearn Team <openlearn-translation@lists.openlearn.dev>, 2026.")
	assert.NotContains(t, f.Header, "PACKAGE")
}

func TestFixHeaderBabelBoilerplate(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer(fixedClock)

	f := &pofile.File{
		Header: strings.Join([]string{
			"Translations template for PROJECT.",
			"Copyright (C) 2026 ORGANIZATION",
			"This file is distributed under the same license as the PROJECT project.",
			"FIRST AUTHOR <EMAIL@ADDRESS>, 2026.",
		}, "\n"),
	}

	norm.FixHeader(f)

	assert.Contains(t, f.Header, Marker)
	assert.Contains(t, f.Header, "Copyright (C) 2026 OpenLearn")
	assert.NotContains(t, f.Header, "PROJECT")
	assert.NotContains(t, f.Header, "ORGANIZATION")
}

func TestFixHeaderIdempotent(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer(fixedClock)

	f := &pofile.File{Header: "SOME DESCRIPTIVE TITLE.\nCopyright (C) YEAR ORGANIZATION"}
	norm.FixHeader(f)

	once := f.Header
	norm.FixHeader(f)

	assert.Equal(t, once, f.Header)
}

func TestFixMetadata(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer(fixedClock)

	f := &pofile.File{}
	f.SetMetadata("Project-Id-Version", "PACKAGE VERSION")
	f.SetMetadata("POT-Creation-Date", "2026-08-20 11:00+0000")
	f.SetMetadata("Language", "")
	f.SetMetadata("Content-Type", "text/plain; charset=UTF-8")

	norm.FixMetadata(f)

	want := map[string]string{
		"PO-Revision-Date":     "2026-08-20 12:30+0000",
		"Report-Msgid-Bugs-To": "openlearn-translation@lists.openlearn.dev",
		"Project-Id-Version":   "0.1a",
		"Language":             "en",
		"Last-Translator":      "",
		"Language-Team":        "openlearn-translation <openlearn-translation@lists.openlearn.dev>",
	}

	for key, value := range want {
		got, ok := f.Metadata(key)
		require.True(t, ok, "metadata %s missing", key)
		assert.Equal(t, value, got, "metadata %s", key)
	}

	// Keys outside the fixed set are untouched, and pre-existing keys
	// keep their serialization position.
	creation, _ := f.Metadata("POT-Creation-Date")
	assert.Equal(t, "2026-08-20 11:00+0000", creation)
	assert.Equal(t, "Project-Id-Version", f.MetadataKeys()[0])
}

func TestFixMetadataIdempotent(t *testing.T) {
	t.Parallel()

	norm := NewNormalizer(fixedClock)

	f := &pofile.File{}
	f.SetMetadata("Language", "")

	norm.FixMetadata(f)

	keys := f.MetadataKeys()
	lang, _ := f.Metadata("Language")

	norm.FixMetadata(f)

	assert.Equal(t, keys, f.MetadataKeys())

	again, _ := f.Metadata("Language")
	assert.Equal(t, lang, again)
}

func TestStripKeyStrings(t *testing.T) {
	t.Parallel()

	f := &pofile.File{Entries: []*pofile.Entry{
		{MsgID: "_hidden"},
		{MsgID: "Hello"},
		{MsgID: "_"},
		{MsgID: "World"},
		{MsgID: "_also_hidden"},
	}}

	stripped := StripKeyStrings(f)

	var ids []string
	for _, e := range stripped.Entries {
		ids = append(ids, e.MsgID)
	}

	assert.Equal(t, []string{"Hello", "_", "World"}, ids)
}
