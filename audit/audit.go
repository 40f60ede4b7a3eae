// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package audit configures structured logging for the i18ntool commands.
package audit

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetDefaultLogger provides an ok log output format on startup.
func SetDefaultLogger() {
	log.Logger = log.Output(ConsoleWriter(os.Stderr))
}

// SetVerbosity maps the CLI --verbose level onto the global log level:
// 0 quiet (warnings only), 1 normal, 2 verbose.
func SetVerbosity(verbose int) {
	switch {
	case verbose <= 0:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case verbose == 1:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// isTerminal returns true if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}

// ConsoleWriter returns a writer for zerolog that has NoColor:isTerminal(f).
func ConsoleWriter(f *os.File) io.Writer {
	return zerolog.ConsoleWriter{Out: f, NoColor: !isTerminal(f), TimeFormat: time.DateTime}
}
