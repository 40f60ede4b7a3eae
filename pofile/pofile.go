// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pofile

import (
	"fmt"
	"strconv"
	"strings"
)

// EotSeparator joins msgctxt and msgid into a single catalog-unique key,
// matching the gettext convention.
const EotSeparator = "\x04"

// FuzzyFlag marks an entry (or the catalog metadata) as needing review.
const FuzzyFlag = "fuzzy"

// Reference is one source location an entry was extracted from.
type Reference struct {
	Path string
	Line int
}

func (r Reference) String() string {
	if r.Line <= 0 {
		return r.Path
	}

	return r.Path + ":" + strconv.Itoa(r.Line)
}

// Entry is a single translatable message.
type Entry struct {
	MsgCtxt     string
	MsgID       string
	MsgIDPlural string

	// MsgStr holds the translation for non-plural entries.
	// Plural entries use MsgStrPlural (indexed msgstr[n] forms) instead.
	MsgStr       string
	MsgStrPlural []string

	// TranslatorComments are "# " lines; ExtractedComments are "#. " lines
	// added by extraction tools (for example "Translators:" hints).
	TranslatorComments []string
	ExtractedComments  []string

	// References are "#: " source locations, in extraction order.
	References []Reference

	// Flags are "#, " markers such as "fuzzy" or "python-format".
	Flags []string

	// PreviousComments preserves "#| " lines verbatim so catalogs produced
	// with msgmerge --previous survive a rewrite.
	PreviousComments []string

	// Obsolete marks a "#~ " entry kept by msgmerge for reference.
	Obsolete bool
}

// UID returns the catalog-unique identity of the entry: the msgid, or
// msgctxt joined with the msgid when a context is present.
func (e *Entry) UID() string {
	if e.MsgCtxt != "" {
		return e.MsgCtxt + EotSeparator + e.MsgID
	}

	return e.MsgID
}

// HasPlural reports whether the entry carries a plural form.
func (e *Entry) HasPlural() bool {
	return e.MsgIDPlural != ""
}

// Fuzzy reports whether the entry carries the fuzzy flag.
func (e *Entry) Fuzzy() bool {
	return hasFlag(e.Flags, FuzzyFlag)
}

// SetFuzzy adds or removes the fuzzy flag, keeping other flags intact.
func (e *Entry) SetFuzzy(fuzzy bool) {
	e.Flags = setFlag(e.Flags, FuzzyFlag, fuzzy)
}

func hasFlag(flags []string, flag string) bool {
	for _, f := range flags {
		if f == flag {
			return true
		}
	}

	return false
}

// setFlag adds or removes flag, keeping other flags intact.
func setFlag(flags []string, flag string, present bool) []string {
	if present == hasFlag(flags, flag) {
		return flags
	}

	if present {
		return append(flags, flag)
	}

	kept := flags[:0]

	for _, f := range flags {
		if f != flag {
			kept = append(kept, f)
		}
	}

	return kept
}

// metaField is one metadata key/value pair. Order is significant for
// serialization, so metadata is a slice rather than a map.
type metaField struct {
	Key   string
	Value string
}

// File is one .po catalog.
type File struct {
	// Header is the free-text comment block above the metadata entry,
	// without the leading "# " markers.
	Header string

	meta        []metaField
	headerFlags []string

	Entries []*Entry
}

// Metadata returns the value for key and whether it is present.
func (f *File) Metadata(key string) (string, bool) {
	for _, m := range f.meta {
		if m.Key == key {
			return m.Value, true
		}
	}

	return "", false
}

// SetMetadata updates key in place when present, otherwise appends it,
// preserving the serialization order of existing keys.
func (f *File) SetMetadata(key, value string) {
	for i := range f.meta {
		if f.meta[i].Key == key {
			f.meta[i].Value = value

			return
		}
	}

	f.meta = append(f.meta, metaField{Key: key, Value: value})
}

// MetadataKeys returns the metadata keys in serialization order. Raw
// lines preserved from malformed input have no key and are not listed.
func (f *File) MetadataKeys() []string {
	keys := make([]string, 0, len(f.meta))

	for _, m := range f.meta {
		if m.Key != "" {
			keys = append(keys, m.Key)
		}
	}

	return keys
}

// HeaderFuzzy reports whether the catalog-level metadata entry is flagged
// fuzzy. Extraction tools set this on freshly generated catalogs.
func (f *File) HeaderFuzzy() bool {
	return hasFlag(f.headerFlags, FuzzyFlag)
}

// SetHeaderFuzzy sets or clears the catalog-level fuzzy flag. Other
// header flags are left intact.
func (f *File) SetHeaderFuzzy(fuzzy bool) {
	f.headerFlags = setFlag(f.headerFlags, FuzzyFlag, fuzzy)
}

// Filter returns a new File containing the entries for which keep returns
// true, in their original order. Header and metadata are copied. The
// returned file shares Entry pointers with the receiver; callers must not
// rely on aliasing either way.
func (f *File) Filter(keep func(*Entry) bool) *File {
	out := &File{
		Header:      f.Header,
		meta:        append([]metaField(nil), f.meta...),
		headerFlags: append([]string(nil), f.headerFlags...),
	}

	for _, e := range f.Entries {
		if keep(e) {
			out.Entries = append(out.Entries, e)
		}
	}

	return out
}

// ParseError describes malformed catalog input.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("po parse error at line %d: %s", e.Line, e.Msg)
	}

	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// parseMetadata splits a metadata msgstr ("Key: value\n" lines) into
// ordered fields. Lines without a separator are folded into the previous
// value, or kept verbatim as key-less raw fields when there is no
// previous field, so nothing is dropped or rewritten.
func parseMetadata(msgstr string) []metaField {
	var fields []metaField

	for line := range strings.SplitSeq(msgstr, "\n") {
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, ": ")
		if !found || key == "" {
			// Continuation of the previous value (for example a
			// multi-line Plural-Forms expression).
			if n := len(fields); n > 0 {
				fields[n-1].Value += "\n" + line

				continue
			}

			fields = append(fields, metaField{Value: line})

			continue
		}

		fields = append(fields, metaField{Key: key, Value: value})
	}

	return fields
}

// metadataString reassembles ordered fields into a metadata msgstr. Raw
// fields round-trip without a separator.
func metadataString(fields []metaField) string {
	var b strings.Builder

	for _, m := range fields {
		if m.Key != "" {
			b.WriteString(m.Key)
			b.WriteString(": ")
		}

		b.WriteString(m.Value)
		b.WriteString("\n")
	}

	return b.String()
}
