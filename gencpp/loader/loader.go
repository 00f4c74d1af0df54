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

// Package loader finds .msg and .srv files on a package search path and
// parses them into descriptors.
package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/ros/gencpp/gencpp/compiler"
	"github.com/ros/gencpp/gencpp/msgs"
	"github.com/ros/gencpp/gencpp/syntax"
)

const (
	MsgExt = ".msg"
	SrvExt = ".srv"
)

// SearchPath maps a package name to the directories holding its .msg files.
type SearchPath map[string][]string

// ParseIncludePath parses "pkg:dir" entries. Entries for the same package
// accumulate in order.
func ParseIncludePath(entries []string) (SearchPath, error) {
	searchPath := make(SearchPath)
	for _, entry := range entries {
		pkg, dir, ok := strings.Cut(entry, ":")
		if !ok || pkg == "" || dir == "" {
			return nil, fmt.Errorf("invalid include path entry %q (expected PKG:DIR)", entry)
		}
		if !msgs.IsValidName(pkg) {
			return nil, fmt.Errorf("invalid package name %q in include path entry %q", pkg, entry)
		}
		expanded, err := homedir.Expand(dir)
		if err != nil {
			return nil, fmt.Errorf("include path entry %q: %w", entry, err)
		}
		searchPath[pkg] = append(searchPath[pkg], expanded)
	}
	return searchPath, nil
}

// ComputeFullTypeName derives "pkg/Name" from a package and a file name such
// as "Name.msg".
func ComputeFullTypeName(pkg, fileName string) string {
	base := filepath.Base(fileName)
	switch ext := filepath.Ext(base); ext {
	case MsgExt, SrvExt:
		base = strings.TrimSuffix(base, ext)
	}
	return pkg + msgs.Sep + base
}

type Option interface {
	apply(*Loader)
}

type option func(*Loader)

func (f option) apply(l *Loader) { f(l) }

// WithFS reads all files from fsys instead of the host filesystem. Paths are
// then slash-separated and relative to the root of fsys.
func WithFS(fsys fs.FS) Option {
	return option(func(l *Loader) {
		l.fsys = fsys
	})
}

// Loader is scoped to one generator invocation and is not safe for
// concurrent use.
type Loader struct {
	searchPath SearchPath
	fsys       fs.FS
	files      map[string]string
}

func New(searchPath SearchPath, opts ...Option) *Loader {
	l := &Loader{
		searchPath: searchPath,
		files:      make(map[string]string),
	}
	for _, opt := range opts {
		opt.apply(l)
	}
	return l
}

func (l *Loader) LoadMessageFile(filePath, fullName string) (*msgs.MessageSpec, error) {
	src, err := l.readFile(filePath)
	if err != nil {
		return nil, &SpecLoadError{Path: filePath, Err: err}
	}
	spec, err := syntax.ParseMessage(src, fullName)
	if err != nil {
		return nil, &SpecLoadError{Path: filePath, Err: err}
	}
	l.files[fullName] = filePath
	return spec, nil
}

func (l *Loader) LoadServiceFile(filePath, fullName string) (*msgs.ServiceSpec, error) {
	src, err := l.readFile(filePath)
	if err != nil {
		return nil, &SpecLoadError{Path: filePath, Err: err}
	}
	spec, err := syntax.ParseService(src, fullName)
	if err != nil {
		return nil, &SpecLoadError{Path: filePath, Err: err}
	}
	l.files[fullName] = filePath
	return spec, nil
}

// LoadMessage implements compiler.SpecLoader.
func (l *Loader) LoadMessage(fullName string) (*msgs.MessageSpec, error) {
	filePath, err := l.FindMessage(fullName)
	if err != nil {
		return nil, err
	}
	return l.LoadMessageFile(filePath, fullName)
}

// FindMessage returns the first "<dir>/<Name>.msg" on the search path for the
// package of fullName.
func (l *Loader) FindMessage(fullName string) (string, error) {
	if filePath, ok := l.files[fullName]; ok {
		return filePath, nil
	}
	pkg, name := msgs.PackageResourceName(fullName)
	dirs := l.searchPath[pkg]
	for _, dir := range dirs {
		filePath := l.join(dir, name+MsgExt)
		if l.exists(filePath) {
			return filePath, nil
		}
	}
	return "", &NotFoundError{TypeName: fullName, Dirs: dirs}
}

// File returns the path a type was loaded from.
func (l *Loader) File(fullName string) (string, bool) {
	filePath, ok := l.files[fullName]
	return filePath, ok
}

// ResolveDependencies loads every message type reachable from spec.
func (l *Loader) ResolveDependencies(spec *msgs.MessageSpec) ([]*compiler.Dependency, error) {
	return compiler.ResolveDependencies(spec, compiler.WithLoader(l))
}

func (l *Loader) readFile(filePath string) ([]byte, error) {
	if l.fsys != nil {
		return fs.ReadFile(l.fsys, filePath)
	}
	return os.ReadFile(filePath)
}

func (l *Loader) join(dir, name string) string {
	if l.fsys != nil {
		return path.Join(dir, name)
	}
	return filepath.Join(dir, name)
}

func (l *Loader) exists(filePath string) bool {
	var info fs.FileInfo
	var err error
	if l.fsys != nil {
		info, err = fs.Stat(l.fsys, filePath)
	} else {
		info, err = os.Stat(filePath)
	}
	return err == nil && !info.IsDir()
}
