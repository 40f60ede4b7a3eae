// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"strconv"
	"strings"
	"time"

	"codeberg.org/openlearn/i18ntool/pofile"
)

// Marker identifies catalogs owned by the OpenLearn translation workflow.
const Marker = "OpenLearn translation file"

// keyStringMarker prefixes msgids that are internal catalog keys rather
// than translatable text.
const keyStringMarker = '_'

// revisionDateFormat is the conventional gettext timestamp layout.
const revisionDateFormat = "2006-01-02 15:04+0000"

// Normalizer rewrites the boilerplate header and metadata that extraction
// tools generate into organization-specific values. All fields are plain
// values so tests can substitute them; both fix operations are idempotent.
type Normalizer struct {
	Marker         string
	Organization   string
	BugsAddress    string
	ProjectVersion string
	Language       string
	LanguageTeam   string

	// Now supplies the clock for revision timestamps.
	Now func() time.Time
}

// NewNormalizer returns a normalizer with the OpenLearn values. A nil now
// defaults to time.Now.
func NewNormalizer(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}

	return &Normalizer{
		Marker:         Marker,
		Organization:   "OpenLearn",
		BugsAddress:    "openlearn-translation@lists.openlearn.dev",
		ProjectVersion: "0.1a",
		Language:       "en",
		LanguageTeam:   "openlearn-translation <openlearn-translation@lists.openlearn.dev>",
		Now:            now,
	}
}

// headerFixes is the ordered list of literal substitutions applied to the
// header text. It is a list, not a map: each replacement runs to
// completion before the next pair is considered, and no replacement text
// is ever re-matched by a later pair.
//
// The targets cover the boilerplate both extraction tools generate:
//
//	SOME DESCRIPTIVE TITLE.
//	Copyright (C) YEAR THE PACKAGE'S COPYRIGHT HOLDER
//	This file is distributed under the same license as the PACKAGE package.
//	FIRST AUTHOR <EMAIL@ADDRESS>, YEAR.
func (n *Normalizer) headerFixes() [][2]string {
	year := strconv.Itoa(n.Now().UTC().Year())
	license := "This file is distributed under the GNU AFFERO GENERAL PUBLIC LICENSE."

	return [][2]string{
		{"SOME DESCRIPTIVE TITLE", n.Marker},
		{"Translations template for PROJECT.", n.Marker},
		{"YEAR", year},
		{"ORGANIZATION", n.Organization},
		{"THE PACKAGE'S COPYRIGHT HOLDER", n.Organization},
		{"This file is distributed under the same license as the PROJECT project.", license},
		{"This file is distributed under the same license as the PACKAGE package.", license},
		{"FIRST AUTHOR <EMAIL@ADDRESS>", n.Organization + " Team <" + n.BugsAddress + ">"},
	}
}

// FixHeader replaces the default extraction-tool header boilerplate and
// clears the catalog-level fuzzy marker.
func (n *Normalizer) FixHeader(f *pofile.File) {
	f.SetHeaderFuzzy(false)

	header := f.Header
	for _, fix := range n.headerFixes() {
		header = strings.ReplaceAll(header, fix[0], fix[1])
	}

	f.Header = header
}

// FixMetadata overwrites the fixed set of metadata keys with final
// values. Keys outside the set, and the insertion order of keys already
// present, are left untouched.
func (n *Normalizer) FixMetadata(f *pofile.File) {
	f.SetMetadata("PO-Revision-Date", n.Now().UTC().Format(revisionDateFormat))
	f.SetMetadata("Report-Msgid-Bugs-To", n.BugsAddress)
	f.SetMetadata("Project-Id-Version", n.ProjectVersion)
	f.SetMetadata("Language", n.Language)
	f.SetMetadata("Last-Translator", "")
	f.SetMetadata("Language-Team", n.LanguageTeam)
}

// IsKeyString reports whether s is a key string: an identifier meant only
// for the internal message catalog, marked by a leading underscore. A
// lone underscore is ordinary text.
func IsKeyString(s string) bool {
	return len(s) > 1 && s[0] == keyStringMarker
}

// StripKeyStrings returns f without the entries whose msgid is a key
// string. Those belong exclusively to the internal message catalog and
// must not reach translators. Order of the remaining entries is preserved.
func StripKeyStrings(f *pofile.File) *pofile.File {
	return f.Filter(func(e *pofile.Entry) bool { return !IsKeyString(e.MsgID) })
}
