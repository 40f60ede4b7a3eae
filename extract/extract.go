// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/openlearn/i18ntool/config"
	"codeberg.org/openlearn/i18ntool/execute"
	"codeberg.org/openlearn/i18ntool/pofile"
	"codeberg.org/openlearn/i18ntool/segment"
)

const catalogDirPermissions = 0o755

// makemessagesDomains are the domains the primary extraction tool is run
// for, in order: structured markup and server-side source first, then
// client-side scripts.
var makemessagesDomains = [...]string{"django", "djangojs"}

// mappedExtraction is one optional extraction pass driven by a babel
// mapping file. The pass is skipped when the mapping file is absent.
type mappedExtraction struct {
	domain  string
	mapping string
}

var mappedExtractions = [...]mappedExtraction{
	{domain: "mako", mapping: "babel_mako.cfg"},
	{domain: "underscore", mapping: "babel_underscore.cfg"},
}

// Options configures an Extractor. Zero values select production
// defaults; tests substitute the runner, segmenter and clock.
type Options struct {
	// Verbose is the CLI verbosity level: 0 quiet, 1 normal, 2 verbose.
	Verbose int

	// Runner executes external extraction tools. Defaults to running
	// them on the local machine.
	Runner execute.Runner

	// Segmenter splits combined catalogs per locale. Defaults to the
	// configuration-driven segmenter.
	Segmenter segment.Segmenter

	// Now supplies the clock for metadata timestamps.
	Now func() time.Time

	// ToolStderr receives live extraction-tool stderr when verbose.
	// Defaults to os.Stderr; ignored when Verbose is 0.
	ToolStderr io.Writer
}

// Extractor drives the extraction-and-normalization pipeline: external
// extraction passes, per-locale catalog initialization and update, the
// guarded primary extraction, segmentation, and catalog cleanup.
type Extractor struct {
	cfg       *config.Config
	runner    execute.Runner
	segmenter segment.Segmenter
	norm      *Normalizer
	verbose   int
	stderr    io.Writer // nil discards subprocess stderr
	logger    zerolog.Logger
}

// New returns an Extractor over cfg.
func New(cfg *config.Config, opts Options) *Extractor {
	runner := opts.Runner
	if runner == nil {
		runner = execute.Local{}
	}

	segmenter := opts.Segmenter
	if segmenter == nil {
		segmenter = segment.New(cfg)
	}

	var stderr io.Writer

	if opts.Verbose > 0 {
		stderr = opts.ToolStderr
		if stderr == nil {
			stderr = os.Stderr
		}
	}

	return &Extractor{
		cfg:       cfg,
		runner:    runner,
		segmenter: segmenter,
		norm:      NewNormalizer(opts.Now),
		verbose:   opts.Verbose,
		stderr:    stderr,
		logger:    log.With().Str("sys", "extract").Logger(),
	}
}

// Run executes the whole pipeline, strictly sequentially: mapped
// extraction passes first, then each locale in configured order. The
// first fatal error aborts the run; re-running from scratch is the
// recovery path.
func (x *Extractor) Run() error {
	if err := os.MkdirAll(x.cfg.LocaleRoot(), catalogDirPermissions); err != nil {
		return fmt.Errorf("failed to create catalog root: %w", err)
	}

	for _, pass := range mappedExtractions {
		if err := x.runMappedExtraction(pass); err != nil {
			return err
		}
	}

	for _, locale := range x.cfg.Locales {
		if err := x.extractLocale(locale); err != nil {
			return err
		}
	}

	return nil
}

// runMappedExtraction performs one babel-mapped pass: extract once into a
// combined catalog, initialize any locale that has never had a catalog
// for this domain, update every locale, then drop the combined file.
func (x *Extractor) runMappedExtraction(pass mappedExtraction) error {
	localeRoot := x.cfg.LocaleRoot()

	if _, err := os.Stat(filepath.Join(localeRoot, pass.mapping)); os.IsNotExist(err) {
		x.logger.Info().
			Str("mapping", pass.mapping).
			Str("domain", pass.domain).
			Msg("No mapping configuration, skipping extraction pass")

		return nil
	}

	// Tool argv paths are relative to the source tree root, the working
	// directory every tool runs in. The orchestrator's own filesystem
	// operations use the full LocaleRoot paths instead; the two must name
	// the same files even when SourceDir itself is a relative path.
	mapping := filepath.Join(x.cfg.LocaleDir, pass.mapping)
	combined := filepath.Join(x.cfg.LocaleDir, pass.domain+".po")

	argv := []string{"pybabel"}
	if v := babelVerbosity(x.verbose); v != "" {
		argv = append(argv, v)
	}

	argv = append(argv,
		"extract",
		"--mapping="+mapping,
		"--add-comments=Translators:",
		// interpolate() is a gettext-style function in the script
		// sources the underscore mapping covers.
		"--keyword=interpolate",
		".",
		"--output="+combined,
	)

	if err := x.run(argv); err != nil {
		return err
	}

	for _, locale := range x.cfg.Locales {
		target := filepath.Join(x.cfg.MessagesDir(locale), pass.domain+".po")

		// Creating the per-locale catalog happens at most once per
		// locale lifetime; reinitializing would discard translations
		// humans have already entered.
		if _, err := os.Stat(target); err == nil {
			continue
		}

		x.logger.Info().
			Str("locale", locale).
			Str("domain", pass.domain).
			Msg("Initializing locale catalog")

		if err := x.run([]string{"pybabel", "init", "-D", pass.domain, "-i", combined, "-d", x.cfg.LocaleDir, "-l", locale}); err != nil {
			return err
		}
	}

	if err := x.run([]string{"pybabel", "update", "-D", pass.domain, "-i", combined, "-d", x.cfg.LocaleDir}); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(localeRoot, pass.domain+".po")); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove combined catalog: %w", err)
	}

	return nil
}

// extractLocale runs the guarded primary extraction, segmentation and
// cleanup for one locale. The guard must hold from before the first
// makemessages call until every segmented catalog has been cleaned.
func (x *Extractor) extractLocale(locale string) error {
	x.logger.Info().Str("locale", locale).Msg("Extracting locale")

	dir := x.cfg.MessagesDir(locale)

	if err := x.guardCatalogs(dir); err != nil {
		return err
	}

	for _, domain := range makemessagesDomains {
		if err := x.runMakemessages(locale, domain); err != nil {
			return err
		}
	}

	// makemessages hardcodes its output filenames; rename them to the
	// "-partial" variants so a later merge can combine them with the
	// guarded originals without collision.
	for _, name := range guardedCatalogs {
		renamed, err := x.renameCatalog(dir, name, partialName(name))
		if err != nil {
			return err
		}

		if !renamed {
			x.logger.Warn().
				Str("locale", locale).
				Str("file", name).
				Msg("Extraction produced no catalog to rename")
		}
	}

	produced, err := x.segmenter.Segment(locale)
	if err != nil {
		return err
	}

	for _, name := range produced {
		if err := x.clean(locale, dir, name); err != nil {
			return err
		}
	}

	return x.restoreCatalogs(dir)
}

// runMakemessages invokes the primary extraction tool for one domain.
func (x *Extractor) runMakemessages(locale, domain string) error {
	argv := []string{"django-admin", "makemessages", "-l", locale, fmt.Sprintf("-v%d", x.verbose)}

	for _, dir := range x.cfg.IgnoreDirs {
		argv = append(argv, fmt.Sprintf("--ignore=%s/*", dir))
	}

	argv = append(argv, "-d", domain)

	return x.run(argv)
}

// clean finishes one produced catalog: normalize header and metadata,
// strip key strings, save, and verify the result is consumable by the
// gettext runtime.
func (x *Extractor) clean(locale, dir, name string) error {
	x.logger.Info().
		Str("locale", locale).
		Str("file", name).
		Msg("Cleaning catalog")

	path := filepath.Join(dir, name)

	file, err := pofile.Load(path)
	if err != nil {
		return err
	}

	x.norm.FixHeader(file)
	x.norm.FixMetadata(file)

	file = StripKeyStrings(file)

	if err := file.Save(path); err != nil {
		return err
	}

	return x.checkCatalog(path, len(file.Entries))
}

// run executes an external tool from the source tree root and converts a
// non-zero exit into a fatal ToolError. When verbosity is suppressed the
// captured stderr is discarded rather than surfaced.
func (x *Extractor) run(argv []string) error {
	x.logger.Debug().Strs("argv", argv).Msg("Running extraction tool")

	res, err := x.runner.Run(argv, x.cfg.SourceDir, x.stderr)
	if err != nil {
		return err
	}

	if !res.Ok() {
		if x.stderr == nil {
			res.Stderr = ""
		}

		return &execute.ToolError{Argv: argv, Result: res}
	}

	return nil
}

// babelVerbosity maps the CLI verbosity level onto pybabel's flag.
func babelVerbosity(verbose int) string {
	switch verbose {
	case 0:
		return "-q"
	case 2:
		return "-v"
	default:
		return ""
	}
}
