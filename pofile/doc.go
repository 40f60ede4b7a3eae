// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package pofile reads and writes GNU gettext .po translation catalogs.

A catalog is modeled as a [File]: a free-text header (the comment block
above the first entry), an ordered metadata mapping (the msgstr of the
empty-msgid entry), and an ordered sequence of [Entry] values. Load and
Save round-trip losslessly, so a catalog can be rewritten in place by the
extraction pipeline without disturbing translator-visible content.

The package deliberately implements only what the extraction workflow
needs; it is not a general gettext runtime. Catalogs emitted here are
verified against one (github.com/leonelquinteros/gotext) in the tests.
*/
package pofile
