// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// guardedCatalogs are the catalogs the primary extraction tool clobbers
// unconditionally: its output filenames are hardcoded and cannot be
// overridden, so any existing file must be moved aside for the duration
// of the extraction.
var guardedCatalogs = [...]string{"django.po", "djangojs.po"}

// savedName returns the reserved "-saved" variant of a catalog filename.
func savedName(name string) string {
	return strings.TrimSuffix(name, ".po") + "-saved.po"
}

// partialName returns the "-partial" variant a freshly extracted catalog
// is renamed to, so a later merge can combine it with the saved original.
func partialName(name string) string {
	return strings.TrimSuffix(name, ".po") + "-partial.po"
}

// guardCatalogs moves each guarded catalog in dir aside. A catalog that
// does not exist (first-ever extraction for the locale) is not an error;
// a failed rename is fatal and aborts the run without retrying.
func (x *Extractor) guardCatalogs(dir string) error {
	for _, name := range guardedCatalogs {
		if _, err := x.renameCatalog(dir, name, savedName(name)); err != nil {
			return err
		}
	}

	return nil
}

// restoreCatalogs is the symmetric release: each "-saved" variant moves
// back to its original name. Calling it when nothing was guarded is a
// no-op, which also makes a second guard call without an intervening
// restore harmless.
func (x *Extractor) restoreCatalogs(dir string) error {
	for _, name := range guardedCatalogs {
		if _, err := x.renameCatalog(dir, savedName(name), name); err != nil {
			return err
		}
	}

	return nil
}

// renameCatalog renames from to to within dir, reporting whether a rename
// happened. An absent source file is a no-op.
func (x *Extractor) renameCatalog(dir, from, to string) (bool, error) {
	src := filepath.Join(dir, from)

	if _, err := os.Stat(src); os.IsNotExist(err) {
		x.logger.Debug().
			Str("file", src).
			Msg("Catalog does not exist, nothing to rename")

		return false, nil
	}

	if err := os.Rename(src, filepath.Join(dir, to)); err != nil {
		return false, fmt.Errorf("failed to rename catalog %s: %w", from, err)
	}

	return true, nil
}
