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

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ros/gencpp/gencpp/compiler"
	"github.com/ros/gencpp/gencpp/loader"
	"github.com/ros/gencpp/gencpp/msgs"
)

type cmdDeps struct {
	app    *app
	format string
}

func (*cmdDeps) help() *commandHelp {
	return &commandHelp{
		usage:   "deps -p PKG [-I PKG:DIR]... [--format text|yaml] FILE",
		summary: "List the resolved dependencies of a .msg or .srv file",
	}
}

func (cmd *cmdDeps) flags(flags *pflag.FlagSet) {
	packageFlags(flags)
	flags.StringVarP(&cmd.format, "format", "f", "text", "Output format: text or yaml")
}

type depsReport struct {
	Type         string      `yaml:"type"`
	MD5          string      `yaml:"md5"`
	File         string      `yaml:"file"`
	Dependencies []depsEntry `yaml:"dependencies"`
}

type depsEntry struct {
	Type string `yaml:"type"`
	MD5  string `yaml:"md5"`
	File string `yaml:"file"`
}

func (cmd *cmdDeps) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		return usageError(cmd.help())
	}
	switch cmd.format {
	case "text", "yaml":
	default:
		return report(fmt.Errorf("Unsupported output format %q", cmd.format))
	}
	s, err := cmd.app.settings(false)
	if err != nil {
		return report(err)
	}

	rep, err := cmd.resolve(s, argv[0])
	if err != nil {
		return report(err)
	}
	if cmd.format == "yaml" {
		out, err := yaml.Marshal(rep)
		if err != nil {
			return report(errors.Wrap(err, "failed to encode dependencies"))
		}
		if _, err := cmd.app.stdout.Write(out); err != nil {
			return report(err)
		}
		return 0
	}
	printDepsText(cmd.app.stdout, rep)
	return 0
}

func (cmd *cmdDeps) resolve(s *settings, file string) (*depsReport, error) {
	ld := s.newLoader()
	fullName := s.fullTypeName(file)
	rep := &depsReport{Type: fullName, File: file}

	var roots []*msgs.MessageSpec
	if isService(file) {
		spec, err := ld.LoadServiceFile(file, fullName)
		if err != nil {
			return nil, err
		}
		res, err := compiler.CompileService(spec, compiler.WithLoader(ld))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compile %s", file)
		}
		rep.MD5 = res.MD5.Hex()
		roots = append(roots, spec.Request(), spec.Response())
	} else {
		spec, err := ld.LoadMessageFile(file, fullName)
		if err != nil {
			return nil, err
		}
		res, err := compiler.Compile(spec, compiler.WithLoader(ld))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to compile %s", file)
		}
		rep.MD5 = res.MD5.Hex()
		roots = append(roots, spec)
	}

	seen := make(map[string]bool)
	for _, root := range roots {
		deps, err := ld.ResolveDependencies(root)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve dependencies of %s", file)
		}
		for _, dep := range deps {
			if seen[dep.FullName()] {
				continue
			}
			seen[dep.FullName()] = true
			entry, err := dependencyEntry(ld, dep)
			if err != nil {
				return nil, err
			}
			rep.Dependencies = append(rep.Dependencies, entry)
		}
	}
	return rep, nil
}

func dependencyEntry(ld *loader.Loader, dep *compiler.Dependency) (depsEntry, error) {
	res, err := compiler.Compile(dep.Spec, compiler.WithLoader(ld))
	if err != nil {
		return depsEntry{}, errors.Wrapf(err, "failed to compile %s", dep.FullName())
	}
	file, _ := ld.File(dep.FullName())
	return depsEntry{
		Type: dep.FullName(),
		MD5:  res.MD5.Hex(),
		File: file,
	}, nil
}

func printDepsText(w io.Writer, rep *depsReport) {
	fmt.Fprintf(w, "%s %s\n", rep.Type, rep.MD5)
	for _, dep := range rep.Dependencies {
		fmt.Fprintf(w, "  %s %s %s\n", dep.Type, dep.MD5, dep.File)
	}
}
