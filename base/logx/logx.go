// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logx provides a simple leveled front end over [log/slog]
// with colored terminal output, used for user-facing messages such as
// solver convergence warnings and progress reporting.
package logx

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
)

// UserLevel is the verbosity level that the user has selected,
// gating all output produced through this package.
// Command tools set this from their -v / -q flags.
var UserLevel = defaultUserLevel

var output = termenv.NewOutput(os.Stderr)

// colors per level, in the terminal's profile.
var (
	debugColor = output.Color("13")
	infoColor  = output.Color("12")
	warnColor  = output.Color("11")
	errorColor = output.Color("9")
)

// LevelEnabled reports whether the given level is enabled
// under the current [UserLevel].
func LevelEnabled(level slog.Level) bool {
	return level >= UserLevel
}

func println(level slog.Level, color termenv.Color, args ...any) {
	if !LevelEnabled(level) {
		return
	}
	s := output.String(fmt.Sprintln(args...)).Foreground(color)
	fmt.Fprint(os.Stderr, s.String())
}

// PrintlnDebug prints the given arguments at the debug level.
func PrintlnDebug(args ...any) {
	println(slog.LevelDebug, debugColor, args...)
}

// PrintlnInfo prints the given arguments at the info level.
func PrintlnInfo(args ...any) {
	println(slog.LevelInfo, infoColor, args...)
}

// PrintlnWarn prints the given arguments at the warn level.
func PrintlnWarn(args ...any) {
	println(slog.LevelWarn, warnColor, args...)
}

// PrintlnError prints the given arguments at the error level.
func PrintlnError(args ...any) {
	println(slog.LevelError, errorColor, args...)
}
