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
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ros/gencpp/gencpp/codegen/cppgen"
	"github.com/ros/gencpp/gencpp/compiler"
)

type cmdSrv struct {
	app *app
}

func (*cmdSrv) help() *commandHelp {
	return &commandHelp{
		usage:   "srv -p PKG [-I PKG:DIR]... -o OUTDIR FILE...",
		summary: "Generate C++ headers for .srv files",
	}
}

func (cmd *cmdSrv) flags(flags *pflag.FlagSet) {
	packageFlags(flags)
	outputFlags(flags)
}

func (cmd *cmdSrv) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 {
		return usageError(cmd.help())
	}
	s, err := cmd.app.settings(true)
	if err != nil {
		return report(err)
	}
	err = cmd.app.batch(ctx, argv, s.jobs, func(_ context.Context, file string, stdout io.Writer) error {
		ld := s.newLoader()
		spec, err := ld.LoadServiceFile(file, s.fullTypeName(file))
		if err != nil {
			return err
		}
		res, err := compiler.CompileService(spec, compiler.WithLoader(ld))
		if err != nil {
			return errors.Wrapf(err, "failed to compile %s", file)
		}
		return s.write(stdout, cppgen.GenerateService(res, filepath.Base(file)))
	})
	if err != nil {
		return report(err)
	}
	return 0
}
