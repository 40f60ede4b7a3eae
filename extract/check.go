// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"fmt"
	"os"

	"github.com/leonelquinteros/gotext"
)

// checkCatalog re-parses a finished catalog with the gettext runtime that
// will eventually consume it. A catalog the runtime sees no entries in,
// while the pipeline just wrote some, would reach translators broken, so
// that fails the run.
func (x *Extractor) checkCatalog(path string, wrote int) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path was produced by this run
	if err != nil {
		return fmt.Errorf("failed to re-read catalog: %w", err)
	}

	po := gotext.NewPo()
	po.Parse(data)

	loaded := len(po.GetDomain().GetTranslations())

	if wrote > 0 && loaded == 0 {
		return fmt.Errorf("catalog %s is not consumable by the gettext runtime", path)
	}

	x.logger.Debug().
		Str("file", path).
		Int("entries", loaded).
		Msg("Catalog loads under the gettext runtime")

	return nil
}
