// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

package pofile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load reads and parses the catalog at path. Malformed input yields a
// *ParseError carrying the path and line number.
func Load(path string) (*File, error) {
	fh, err := os.Open(path) // #nosec G304 -- catalog paths come from the run configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer fh.Close()

	f, err := Parse(fh)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}

		return nil, err
	}

	return f, nil
}

// section identifies which string a bare "..." continuation line extends.
type section int

const (
	secNone section = iota
	secMsgCtxt
	secMsgID
	secMsgIDPlural
	secMsgStr
	secMsgStrPlural
)

// parser accumulates one entry at a time from scanned lines.
type parser struct {
	file *File
	seen map[string]int // UID -> line first seen, for duplicate detection

	cur       *Entry
	sec       section
	pluralIdx int
	line      int
	sawHeader bool
}

// Parse reads a .po catalog from r.
func Parse(r io.Reader) (*File, error) {
	p := &parser{
		file: &File{},
		seen: make(map[string]int),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		p.line++
		if err := p.consume(strings.TrimRight(scanner.Text(), "\r")); err != nil {
			return nil, err
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	if err := p.flush(); err != nil {
		return nil, err
	}

	return p.file, nil
}

func (p *parser) errf(format string, args ...any) error {
	return &ParseError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

// consume handles a single physical line.
func (p *parser) consume(line string) error {
	obsolete := false

	if rest, ok := strings.CutPrefix(line, "#~"); ok {
		obsolete = true
		line = strings.TrimPrefix(rest, " ")
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return p.flush()
	}

	switch {
	case strings.HasPrefix(line, "#"):
		return p.comment(line, obsolete)
	case strings.HasPrefix(line, "msgctxt "):
		return p.keyword(secMsgCtxt, strings.TrimPrefix(line, "msgctxt "), obsolete)
	case strings.HasPrefix(line, "msgid_plural "):
		return p.keyword(secMsgIDPlural, strings.TrimPrefix(line, "msgid_plural "), obsolete)
	case strings.HasPrefix(line, "msgid "):
		return p.keyword(secMsgID, strings.TrimPrefix(line, "msgid "), obsolete)
	case strings.HasPrefix(line, "msgstr["):
		closing := strings.Index(line, "]")
		if closing < 0 {
			return p.errf("malformed plural msgstr %q", line)
		}

		idx, err := strconv.Atoi(line[len("msgstr["):closing])
		if err != nil || idx < 0 {
			return p.errf("malformed plural index in %q", line)
		}

		p.pluralIdx = idx

		return p.keyword(secMsgStrPlural, strings.TrimSpace(line[closing+1:]), obsolete)
	case strings.HasPrefix(line, "msgstr "):
		return p.keyword(secMsgStr, strings.TrimPrefix(line, "msgstr "), obsolete)
	case strings.HasPrefix(trimmed, `"`):
		return p.continuation(trimmed)
	default:
		return p.errf("unexpected line %q", line)
	}
}

// comment dispatches the "#x" comment families onto the current entry.
func (p *parser) comment(line string, obsolete bool) error {
	// A comment after a msgstr opens the next entry.
	if p.sec == secMsgStr || p.sec == secMsgStrPlural {
		if err := p.flush(); err != nil {
			return err
		}
	}

	e := p.entry(obsolete)

	switch {
	case strings.HasPrefix(line, "#."):
		e.ExtractedComments = append(e.ExtractedComments, strings.TrimPrefix(strings.TrimPrefix(line, "#."), " "))
	case strings.HasPrefix(line, "#:"):
		for ref := range strings.FieldsSeq(strings.TrimPrefix(line, "#:")) {
			e.References = append(e.References, parseReference(ref))
		}
	case strings.HasPrefix(line, "#,"):
		for _, flag := range strings.Split(strings.TrimPrefix(line, "#,"), ",") {
			if flag = strings.TrimSpace(flag); flag != "" {
				e.Flags = append(e.Flags, flag)
			}
		}
	case strings.HasPrefix(line, "#|"):
		e.PreviousComments = append(e.PreviousComments, strings.TrimPrefix(strings.TrimPrefix(line, "#|"), " "))
	default:
		e.TranslatorComments = append(e.TranslatorComments, strings.TrimPrefix(strings.TrimPrefix(line, "#"), " "))
	}

	return nil
}

// keyword handles a "msgid ..."-style line carrying a quoted value.
func (p *parser) keyword(sec section, quoted string, obsolete bool) error {
	// msgctxt or msgid after a completed msgstr opens the next entry.
	if (sec == secMsgCtxt || sec == secMsgID) && (p.sec == secMsgStr || p.sec == secMsgStrPlural) {
		if err := p.flush(); err != nil {
			return err
		}
	}

	value, err := p.unquote(quoted)
	if err != nil {
		return err
	}

	e := p.entry(obsolete)
	p.sec = sec

	switch sec {
	case secMsgCtxt:
		e.MsgCtxt = value
	case secMsgID:
		e.MsgID = value
	case secMsgIDPlural:
		e.MsgIDPlural = value
	case secMsgStr:
		e.MsgStr = value
	case secMsgStrPlural:
		for len(e.MsgStrPlural) <= p.pluralIdx {
			e.MsgStrPlural = append(e.MsgStrPlural, "")
		}

		e.MsgStrPlural[p.pluralIdx] = value
	case secNone:
	}

	return nil
}

// continuation appends a bare quoted line to the last keyword's value.
func (p *parser) continuation(trimmed string) error {
	if p.cur == nil || p.sec == secNone {
		return p.errf("continuation %q outside an entry", trimmed)
	}

	value, err := p.unquote(trimmed)
	if err != nil {
		return err
	}

	switch p.sec {
	case secMsgCtxt:
		p.cur.MsgCtxt += value
	case secMsgID:
		p.cur.MsgID += value
	case secMsgIDPlural:
		p.cur.MsgIDPlural += value
	case secMsgStr:
		p.cur.MsgStr += value
	case secMsgStrPlural:
		p.cur.MsgStrPlural[p.pluralIdx] += value
	case secNone:
	}

	return nil
}

// entry returns the entry under construction, creating it on demand.
func (p *parser) entry(obsolete bool) *Entry {
	if p.cur == nil {
		p.cur = &Entry{}
		p.sec = secNone
	}

	if obsolete {
		p.cur.Obsolete = true
	}

	return p.cur
}

// flush completes the entry under construction. The first empty-msgid
// entry is the catalog header and becomes File.Header plus metadata.
func (p *parser) flush() error {
	e := p.cur
	if e == nil {
		return nil
	}

	p.cur = nil
	p.sec = secNone

	if e.MsgID == "" && e.MsgCtxt == "" && !e.Obsolete && !p.sawHeader {
		p.sawHeader = true
		p.file.Header = strings.Join(e.TranslatorComments, "\n")
		p.file.meta = parseMetadata(e.MsgStr)
		p.file.headerFlags = e.Flags

		return nil
	}

	if !e.Obsolete {
		uid := e.UID()
		if first, dup := p.seen[uid]; dup {
			return p.errf("duplicate msgid %q (first seen at line %d)", uid, first)
		}

		p.seen[uid] = p.line
	}

	p.file.Entries = append(p.file.Entries, e)

	return nil
}

// unquote strips the surrounding double quotes and expands gettext escape
// sequences.
func (p *parser) unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", p.errf("expected quoted string, got %q", s)
	}

	return unescape(s[1 : len(s)-1]), nil
}

// parseReference splits "path:line"; a missing or non-numeric line part
// leaves Line at zero.
func parseReference(s string) Reference {
	colon := strings.LastIndex(s, ":")
	if colon < 0 {
		return Reference{Path: s}
	}

	line, err := strconv.Atoi(s[colon+1:])
	if err != nil {
		return Reference{Path: s}
	}

	return Reference{Path: s[:colon], Line: line}
}

// unescape expands the C-style escapes gettext uses inside quoted strings.
// Unknown escapes are kept verbatim.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)

			continue
		}

		i++

		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}

	return b.String()
}
