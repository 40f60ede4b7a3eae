// Copyright 2024 - 2026, the OpenLearn contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package execute runs the external extraction tools the pipeline drives.
//
// A non-zero exit is data, not an error: Run reports it through [Result]
// so callers can decide per invocation whether it is tolerable or fatal.
// Errors are reserved for failures to spawn the process at all.
package execute

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Result is the outcome of one external tool invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the tool exited successfully.
func (r Result) Ok() bool {
	return r.ExitCode == 0
}

// Runner executes a command in a working directory. Implementations must
// block until the process exits. stderr, when non-nil, receives the
// process stderr in addition to the captured copy in Result; a nil stderr
// discards the live stream.
type Runner interface {
	Run(argv []string, dir string, stderr io.Writer) (Result, error)
}

// Local runs commands on the local machine via os/exec.
type Local struct{}

// Run executes argv with dir as the working directory.
func (Local) Run(argv []string, dir string, stderr io.Writer) (Result, error) {
	if len(argv) == 0 {
		return Result{}, errors.New("empty command")
	}

	var stdout, captured bytes.Buffer

	cmd := exec.Command(argv[0], argv[1:]...) // #nosec G204 -- commands are assembled by the orchestrator, not user input
	cmd.Dir = dir
	cmd.Stdout = &stdout

	if stderr != nil {
		cmd.Stderr = io.MultiWriter(&captured, stderr)
	} else {
		cmd.Stderr = &captured
	}

	err := cmd.Run()

	res := Result{
		Stdout: stdout.String(),
		Stderr: captured.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()

			return res, nil
		}

		return res, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}

	return res, nil
}

// ToolError is the fatal failure of an external extraction tool.
type ToolError struct {
	Argv   []string
	Result Result
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Argv[0], e.Result.ExitCode)

	if tail := stderrTail(e.Result.Stderr); tail != "" {
		msg += ": " + tail
	}

	return msg
}

// stderrTail returns the last non-empty stderr line, usually the actual
// diagnostic in gettext tooling output.
func stderrTail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")

	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}

	return ""
}
