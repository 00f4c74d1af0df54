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

// Package output writes generated headers into an output directory.
//
// A batch of files is staged as temporary files next to their targets and
// only renamed into place once every file has been written, so readers never
// observe a truncated header.
package output

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/ros/gencpp/gencpp/codegen/cppgen"
)

// OutputIOError reports an output directory or file that could not be
// created or written.
type OutputIOError struct {
	Op   string
	Path string
	Err  error
}

func (err *OutputIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", err.Op, err.Path, err.Err)
}

func (err *OutputIOError) Unwrap() error {
	return err.Err
}

type Option interface {
	apply(*Writer)
}

type option func(*Writer)

func (f option) apply(w *Writer) { f(w) }

// WithDiff makes the writer print a unified diff against the existing files
// to out instead of writing anything.
func WithDiff(out io.Writer) Option {
	return option(func(w *Writer) {
		w.diff = out
	})
}

// WithFileMode sets the permissions of written files. The default is 0644.
func WithFileMode(mode fs.FileMode) Option {
	return option(func(w *Writer) {
		w.mode = mode
	})
}

type Writer struct {
	dir  string
	diff io.Writer
	mode fs.FileMode
}

func NewWriter(dir string, opts ...Option) *Writer {
	w := &Writer{
		dir:  dir,
		mode: 0o644,
	}
	for _, opt := range opts {
		opt.apply(w)
	}
	return w
}

func (w *Writer) Dir() string {
	return w.dir
}

// WriteAll writes every file, or none of them. In diff mode it prints the
// differences and leaves the output directory untouched.
func (w *Writer) WriteAll(files []*cppgen.OutputFile) error {
	if w.diff != nil {
		for _, file := range files {
			if err := w.printDiff(file); err != nil {
				return err
			}
		}
		return nil
	}

	if err := EnsureDir(w.dir); err != nil {
		return err
	}

	staged := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}
	for _, file := range files {
		tmp, err := w.stage(file)
		if err != nil {
			cleanup()
			return err
		}
		staged = append(staged, tmp)
	}
	for ii, file := range files {
		target := w.path(file)
		if err := os.Rename(staged[ii], target); err != nil {
			cleanup()
			return &OutputIOError{Op: "rename", Path: target, Err: err}
		}
	}
	return nil
}

func (w *Writer) path(file *cppgen.OutputFile) string {
	return filepath.Join(w.dir, filepath.FromSlash(file.Path))
}

func (w *Writer) stage(file *cppgen.OutputFile) (string, error) {
	target := w.path(file)
	if err := EnsureDir(filepath.Dir(target)); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", &OutputIOError{Op: "create", Path: target, Err: err}
	}
	if _, err := tmp.Write(file.Content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &OutputIOError{Op: "write", Path: target, Err: err}
	}
	if err := tmp.Chmod(w.mode); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &OutputIOError{Op: "chmod", Path: target, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", &OutputIOError{Op: "write", Path: target, Err: err}
	}
	return tmp.Name(), nil
}

func (w *Writer) printDiff(file *cppgen.OutputFile) error {
	target := w.path(file)
	existing, err := os.ReadFile(target)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &OutputIOError{Op: "read", Path: target, Err: err}
	}
	if bytes.Equal(existing, file.Content) {
		return nil
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(existing)),
		B:        difflib.SplitLines(string(file.Content)),
		FromFile: "a/" + file.Path,
		ToFile:   "b/" + file.Path,
		Context:  3,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to diff %s", target)
	}
	if _, err := io.WriteString(w.diff, diff); err != nil {
		return errors.Wrap(err, "failed to print diff")
	}
	return nil
}

// EnsureDir creates dir and its parents. A directory that already exists,
// including one created concurrently by another process, is not an error.
func EnsureDir(dir string) error {
	err := os.MkdirAll(dir, 0o755)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			return nil
		}
	}
	return &OutputIOError{Op: "mkdir", Path: dir, Err: err}
}
