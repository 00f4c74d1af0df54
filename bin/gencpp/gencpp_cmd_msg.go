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
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ros/gencpp/gencpp/codegen/cppgen"
	"github.com/ros/gencpp/gencpp/compiler"
	"github.com/ros/gencpp/gencpp/loader"
	"github.com/ros/gencpp/gencpp/msgs"
)

type cmdMsg struct {
	app     *app
	deps    bool
	allDeps bool
}

func (*cmdMsg) help() *commandHelp {
	return &commandHelp{
		usage:   "msg -p PKG [-I PKG:DIR]... -o OUTDIR [-d|-a] FILE...",
		summary: "Generate C++ headers for .msg files",
	}
}

func (cmd *cmdMsg) flags(flags *pflag.FlagSet) {
	packageFlags(flags)
	outputFlags(flags)
	flags.BoolVarP(&cmd.deps, "deps", "d", false, "List the files of direct dependencies instead of generating")
	flags.BoolVarP(&cmd.allDeps, "all-deps", "a", false, "Print the dependency tree instead of generating")
}

func (cmd *cmdMsg) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		return usageError(cmd.help())
	}
	if cmd.deps && cmd.allDeps {
		return report(fmt.Errorf("--deps and --all-deps are mutually exclusive"))
	}
	listOnly := cmd.deps || cmd.allDeps
	s, err := cmd.app.settings(!listOnly)
	if err != nil {
		return report(err)
	}
	err = cmd.app.batch(ctx, argv, s.jobs, func(_ context.Context, file string, stdout io.Writer) error {
		return cmd.generate(s, file, stdout)
	})
	if err != nil {
		return report(err)
	}
	return 0
}

func (cmd *cmdMsg) generate(s *settings, file string, stdout io.Writer) error {
	ld := s.newLoader()
	spec, err := ld.LoadMessageFile(file, s.fullTypeName(file))
	if err != nil {
		return err
	}

	if cmd.allDeps || cmd.deps {
		deps, err := ld.ResolveDependencies(spec)
		if err != nil {
			return errors.Wrapf(err, "failed to resolve dependencies of %s", file)
		}
		if cmd.allDeps {
			printDependencyTree(stdout, spec, deps)
		} else {
			printDirectDependencies(stdout, ld, spec)
		}
		return nil
	}

	res, err := compiler.Compile(spec, compiler.WithLoader(ld))
	if err != nil {
		return errors.Wrapf(err, "failed to compile %s", file)
	}
	return s.write(stdout, []*cppgen.OutputFile{
		cppgen.GenerateMessage(res, filepath.Base(file)),
	})
}

func printDirectDependencies(w io.Writer, ld *loader.Loader, spec *msgs.MessageSpec) {
	for _, dep := range spec.Dependencies() {
		if file, ok := ld.File(dep); ok {
			fmt.Fprintln(w, file)
		}
	}
}

// printDependencyTree prints the root type followed by one "|-Name" line per
// dependency, indented two spaces per level.
func printDependencyTree(w io.Writer, spec *msgs.MessageSpec, deps []*compiler.Dependency) {
	specs := make(map[string]*msgs.MessageSpec, len(deps))
	for _, dep := range deps {
		specs[dep.FullName()] = dep.Spec
	}
	fmt.Fprintln(w, spec.FullName())

	var visit func(spec *msgs.MessageSpec, depth int)
	visit = func(spec *msgs.MessageSpec, depth int) {
		for _, dep := range spec.Dependencies() {
			fmt.Fprintf(w, "%s|-%s\n", strings.Repeat("  ", depth), dep)
			if depSpec, ok := specs[dep]; ok {
				visit(depSpec, depth+1)
			}
		}
	}
	visit(spec, 0)
}
