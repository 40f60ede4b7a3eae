// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package extract orchestrates the translation-string extraction pipeline.

One run drives, in strict sequence: two optional babel-mapped extraction
passes (templates and client scripts) whose combined output initializes
and updates per-locale catalogs; then, per locale, the primary
makemessages extraction under a rename-based guard that protects the
tool-managed django.po and djangojs.po catalogs from being clobbered;
segmentation of the produced catalogs; and normalization of every
resulting catalog (organization header and metadata, key-string
stripping).

Runs are single-threaded and from-scratch. The first fatal error aborts
the pipeline with the filesystem left as-is; re-running after fixing the
cause is the recovery path. Every step tolerates being re-run, including
per-locale catalog initialization, which only acts when the target
catalog is absent.
*/
package extract
