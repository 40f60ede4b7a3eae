// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package segment splits combined translation catalogs into
// category-specific catalogs, routing entries by their source references.
package segment

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/openlearn/i18ntool/config"
	"codeberg.org/openlearn/i18ntool/pofile"
)

// Segmenter produces the set of catalog filenames present for a locale
// after segmentation.
type Segmenter interface {
	Segment(locale string) ([]string, error)
}

// CatalogSegmenter segments catalogs according to the segment section of
// the run configuration. It only touches catalogs already present in the
// locale's directory.
type CatalogSegmenter struct {
	cfg    *config.Config
	logger zerolog.Logger
}

// New returns a segmenter for cfg.
func New(cfg *config.Config) *CatalogSegmenter {
	return &CatalogSegmenter{
		cfg:    cfg,
		logger: log.With().Str("sys", "segment").Logger(),
	}
}

// Segment splits each configured catalog for locale and reports every
// filename written (segments plus the remainder). Source catalogs are
// processed in sorted filename order so runs are deterministic.
func (s *CatalogSegmenter) Segment(locale string) ([]string, error) {
	dir := s.cfg.MessagesDir(locale)

	sources := make([]string, 0, len(s.cfg.Segment))
	for name := range s.cfg.Segment {
		sources = append(sources, name)
	}

	sort.Strings(sources)

	var produced []string

	for _, name := range sources {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			s.logger.Debug().
				Str("locale", locale).
				Str("file", name).
				Msg("Catalog absent, nothing to segment")

			continue
		}

		spec := s.cfg.Segment[name]
		if len(spec) == 0 {
			// No segments declared: the catalog passes through untouched.
			produced = append(produced, name)

			continue
		}

		written, err := s.segmentFile(locale, dir, name, spec)
		if err != nil {
			return nil, err
		}

		produced = append(produced, written...)
	}

	return produced, nil
}

// segmentFile splits one catalog. Entries whose references all route to a
// single segment move there; entries with no matching reference stay in
// the remainder (under the original filename); entries straddling several
// destinations are logged and kept in the remainder so no string is lost.
func (s *CatalogSegmenter) segmentFile(locale, dir, name string, spec config.SegmentSpec) ([]string, error) {
	source, err := pofile.Load(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}

	segments := make([]string, 0, len(spec))
	for segName := range spec {
		segments = append(segments, segName)
	}

	sort.Strings(segments)

	byDest := make(map[string]*pofile.File, len(segments)+1)
	for _, dest := range append([]string{name}, segments...) {
		byDest[dest] = source.Filter(func(*pofile.Entry) bool { return false })
	}

	for _, entry := range source.Entries {
		dest := s.route(locale, name, entry, segments, spec)
		byDest[dest].Entries = append(byDest[dest].Entries, entry)
	}

	written := make([]string, 0, len(byDest))

	for _, dest := range append([]string{name}, segments...) {
		file := byDest[dest]
		if dest != name && len(file.Entries) == 0 {
			continue
		}

		if err := file.Save(filepath.Join(dir, dest)); err != nil {
			return nil, err
		}

		s.logger.Debug().
			Str("locale", locale).
			Str("file", dest).
			Int("entries", len(file.Entries)).
			Msg("Wrote segment")

		written = append(written, dest)
	}

	return written, nil
}

// route picks the destination filename for one entry.
func (s *CatalogSegmenter) route(locale, remainder string, entry *pofile.Entry, segments []string, spec config.SegmentSpec) string {
	dests := make(map[string]struct{})

	for _, ref := range entry.References {
		dest := remainder

		for _, segName := range segments {
			if matchesAny(ref.Path, spec[segName]) {
				dest = segName

				break
			}
		}

		dests[dest] = struct{}{}
	}

	if len(dests) == 1 {
		for dest := range dests {
			return dest
		}
	}

	if len(dests) > 1 {
		s.logger.Warn().
			Str("locale", locale).
			Str("msgid", entry.MsgID).
			Msg("Entry is used in several segments, keeping it in the remainder")
	}

	// No references at all: nothing to route by.
	return remainder
}

// matchesAny reports whether path matches one of the glob fragments.
// Unlike filepath.Match, '*' spans path separators, the way extraction
// configurations conventionally write "cms/*".
func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if globMatch(pattern, path) {
			return true
		}
	}

	return false
}

func globMatch(pattern, path string) bool {
	return globMatchFrom(pattern, path, 0, 0)
}

func globMatchFrom(pattern, path string, pi, si int) bool {
	for pi < len(pattern) {
		switch pattern[pi] {
		case '*':
			for skip := si; skip <= len(path); skip++ {
				if globMatchFrom(pattern, path, pi+1, skip) {
					return true
				}
			}

			return false
		case '?':
			if si >= len(path) {
				return false
			}

			pi++
			si++
		default:
			if si >= len(path) || path[si] != pattern[pi] {
				return false
			}

			pi++
			si++
		}
	}

	return si == len(path)
}
