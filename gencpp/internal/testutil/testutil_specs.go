// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package testutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/ros/gencpp/gencpp/msgs"
	"github.com/ros/gencpp/gencpp/syntax"
)

// TestdataFS returns the shared gencpp/testdata directory.
func TestdataFS() (fs.FS, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return nil, fmt.Errorf("testutil: unable to locate source file")
	}
	dir := filepath.Join(filepath.Dir(file), "..", "..", "testdata")
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	return os.DirFS(dir), nil
}

func ParseMessage(t *testing.T, fullName, src string) *msgs.MessageSpec {
	t.Helper()
	spec, err := syntax.ParseMessage([]byte(src), fullName)
	AssertNoError(t, err)
	return spec
}

func ParseService(t *testing.T, fullName, src string) *msgs.ServiceSpec {
	t.Helper()
	spec, err := syntax.ParseService([]byte(src), fullName)
	AssertNoError(t, err)
	return spec
}

// SpecMap is an in-memory spec loader keyed by full type name.
type SpecMap map[string]*msgs.MessageSpec

func NewSpecMap(specs ...*msgs.MessageSpec) SpecMap {
	m := make(SpecMap, len(specs))
	for _, spec := range specs {
		m[spec.FullName()] = spec
	}
	return m
}

func (m SpecMap) LoadMessage(fullName string) (*msgs.MessageSpec, error) {
	if spec, ok := m[fullName]; ok {
		return spec, nil
	}
	return nil, fmt.Errorf("%w: %s", fs.ErrNotExist, fullName)
}

// HeaderSpec is the standard message header type.
func HeaderSpec(t *testing.T) *msgs.MessageSpec {
	t.Helper()
	return ParseMessage(t, msgs.HeaderFullName, "uint32 seq\ntime stamp\nstring frame_id\n")
}
