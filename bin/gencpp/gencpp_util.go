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

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/ros/gencpp/gencpp/codegen/cppgen"
	"github.com/ros/gencpp/gencpp/loader"
	"github.com/ros/gencpp/gencpp/output"
	"github.com/ros/gencpp/internal/logger"
)

func packageFlags(flags *pflag.FlagSet) {
	flags.StringP("package", "p", "", "Package the input files belong to")
	flags.StringSliceP("include", "I", nil, "Search path entry PKG:DIR for dependencies (repeatable)")
}

func outputFlags(flags *pflag.FlagSet) {
	flags.StringP("output", "o", "", "Directory the headers are written to")
}

type settings struct {
	pkg        string
	searchPath loader.SearchPath
	outDir     string
	jobs       int
	diff       bool
}

func (a *app) settings(needOutput bool) (*settings, error) {
	s := &settings{
		pkg:    a.v.GetString("package"),
		outDir: a.v.GetString("output"),
		jobs:   a.v.GetInt("jobs"),
		diff:   a.v.GetBool("diff"),
	}
	if s.pkg == "" {
		return nil, fmt.Errorf("No package specified (set --package=)")
	}
	if needOutput && s.outDir == "" {
		return nil, fmt.Errorf("No output directory specified (set --output=)")
	}
	if s.jobs <= 0 {
		s.jobs = runtime.NumCPU()
	}
	searchPath, err := loader.ParseIncludePath(a.v.GetStringSlice("include"))
	if err != nil {
		return nil, err
	}
	s.searchPath = searchPath
	return s, nil
}

func (s *settings) newLoader() *loader.Loader {
	return loader.New(s.searchPath)
}

func (s *settings) fullTypeName(file string) string {
	return loader.ComputeFullTypeName(s.pkg, filepath.Base(file))
}

// write stores files in the output directory, or prints their diff to
// stdout in diff mode.
func (s *settings) write(stdout io.Writer, files []*cppgen.OutputFile) error {
	var opts []output.Option
	if s.diff {
		opts = append(opts, output.WithDiff(stdout))
	}
	w := output.NewWriter(s.outDir, opts...)
	if err := w.WriteAll(files); err != nil {
		return err
	}
	if !s.diff {
		for _, file := range files {
			logger.Infof("wrote %s", filepath.Join(w.Dir(), filepath.FromSlash(file.Path)))
		}
	}
	return nil
}

// batch runs fn for every input file, at most jobs at a time. Output is
// buffered per file and printed in input order; errors are collected in
// input order and never cancel sibling files.
func (a *app) batch(
	ctx context.Context,
	files []string,
	jobs int,
	fn func(ctx context.Context, file string, stdout io.Writer) error,
) error {
	outs := make([]bytes.Buffer, len(files))
	errs := make([]error, len(files))

	g := new(errgroup.Group)
	g.SetLimit(jobs)
	for ii, file := range files {
		g.Go(func() error {
			errs[ii] = fn(ctx, file, &outs[ii])
			return nil
		})
	}
	g.Wait()

	var result *multierror.Error
	for ii := range files {
		if _, err := a.stdout.Write(outs[ii].Bytes()); err != nil {
			result = multierror.Append(result, err)
		}
		if errs[ii] != nil {
			result = multierror.Append(result, errs[ii])
		}
	}
	return result.ErrorOrNil()
}

// report logs err, one line per aggregated error, and returns the exit code.
func report(err error) int {
	if merr, ok := err.(*multierror.Error); ok {
		for _, err := range merr.Errors {
			logger.Error(err)
		}
		return 1
	}
	logger.Error(err)
	return 1
}

func usageError(help *commandHelp) int {
	logger.Errorf("Not enough arguments (usage: gencpp %s)", help.usage)
	return 1
}

func isService(file string) bool {
	return strings.HasSuffix(file, loader.SrvExt)
}
