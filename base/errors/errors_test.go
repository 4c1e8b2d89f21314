// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLog(t *testing.T) {
	err := New("test error")
	assert.Equal(t, err, Log(err))
	assert.NoError(t, Log(nil))
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })
	assert.Panics(t, func() { Must(New("boom")) })
	assert.Equal(t, 3, Must1(3, nil))
	assert.Panics(t, func() { Must1(3, New("boom")) })
}

func TestCallerInfo(t *testing.T) {
	assert.Contains(t, Log(New("located")).Error(), "located")
	assert.NotEmpty(t, CallerInfo())
}
