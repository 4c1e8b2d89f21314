// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a few convenience functions on top of the
// standard library errors package, for logging and must-style handling
// of errors at the outermost convenience-wrapper layer of an API.
package errors

import "errors"

// New returns an error that formats as the given text.
// It is a direct wrapper around [errors.New].
func New(text string) error {
	return errors.New(text)
}

// Must panics if the given error is non-nil.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 returns the given value and panics if the error is non-nil.
func Must1[T any](v T, err error) T {
	Must(err)
	return v
}
