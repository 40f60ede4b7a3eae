// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const catalogFileMode = 0o644

// Save serializes the catalog to path, replacing any existing file.
func (f *File) Save(path string) error {
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, catalogFileMode) // #nosec G304 -- catalog paths come from the run configuration
	if err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}

	if err := f.Write(fh); err != nil {
		fh.Close()

		return err
	}

	if err := fh.Close(); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	return nil
}

// Write serializes the catalog: header comment block, metadata entry,
// then entries in their current order.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	for _, line := range headerLines(f.Header) {
		if line == "" {
			fmt.Fprintln(bw, "#")
		} else {
			fmt.Fprintln(bw, "# "+line)
		}
	}

	if len(f.headerFlags) > 0 {
		fmt.Fprintln(bw, "#, "+strings.Join(f.headerFlags, ", "))
	}

	fmt.Fprintln(bw, `msgid ""`)
	writeString(bw, "msgstr", metadataString(f.meta))

	for _, e := range f.Entries {
		fmt.Fprintln(bw)
		writeEntry(bw, e)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	return nil
}

func headerLines(header string) []string {
	if header == "" {
		return nil
	}

	return strings.Split(header, "\n")
}

func writeEntry(w io.Writer, e *Entry) {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, c := range e.TranslatorComments {
		writeComment(w, "# ", c)
	}

	for _, c := range e.ExtractedComments {
		writeComment(w, "#. ", c)
	}

	if len(e.References) > 0 {
		refs := make([]string, len(e.References))
		for i, r := range e.References {
			refs[i] = r.String()
		}

		fmt.Fprintln(w, "#: "+strings.Join(refs, " "))
	}

	if len(e.Flags) > 0 {
		fmt.Fprintln(w, "#, "+strings.Join(e.Flags, ", "))
	}

	for _, c := range e.PreviousComments {
		writeComment(w, "#| ", c)
	}

	if e.MsgCtxt != "" {
		writeString(w, prefix+"msgctxt", e.MsgCtxt)
	}

	writeString(w, prefix+"msgid", e.MsgID)

	if e.HasPlural() {
		writeString(w, prefix+"msgid_plural", e.MsgIDPlural)

		forms := e.MsgStrPlural
		if len(forms) == 0 {
			forms = []string{"", ""}
		}

		for i, form := range forms {
			writeString(w, fmt.Sprintf("%smsgstr[%d]", prefix, i), form)
		}

		return
	}

	writeString(w, prefix+"msgstr", e.MsgStr)
}

func writeComment(w io.Writer, marker, text string) {
	if text == "" {
		fmt.Fprintln(w, strings.TrimRight(marker, " "))

		return
	}

	fmt.Fprintln(w, marker+text)
}

// writeString emits `keyword "value"`, splitting multi-line values into
// gettext continuation strings with an empty first segment.
func writeString(w io.Writer, keyword, value string) {
	segments := splitAfterNewlines(value)

	if len(segments) <= 1 {
		fmt.Fprintf(w, "%s \"%s\"\n", keyword, escape(value))

		return
	}

	fmt.Fprintf(w, "%s \"\"\n", keyword)

	for _, seg := range segments {
		fmt.Fprintf(w, "\"%s\"\n", escape(seg))
	}
}

// splitAfterNewlines breaks value into segments each ending with the
// newline that terminates it, matching conventional .po layout.
func splitAfterNewlines(value string) []string {
	if value == "" {
		return nil
	}

	var segments []string

	for {
		nl := strings.IndexByte(value, '\n')
		if nl < 0 {
			segments = append(segments, value)

			break
		}

		segments = append(segments, value[:nl+1])

		value = value[nl+1:]
		if value == "" {
			break
		}
	}

	return segments
}

// escape is the inverse of unescape for the characters gettext quotes.
func escape(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
