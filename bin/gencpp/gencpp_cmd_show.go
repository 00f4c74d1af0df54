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
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/ros/gencpp/gencpp/codegen/cppgen"
	"github.com/ros/gencpp/gencpp/compiler"
)

type cmdShow struct {
	app *app
}

func (*cmdShow) help() *commandHelp {
	return &commandHelp{
		usage:   "show -p PKG [-I PKG:DIR]... FILE",
		summary: "Describe a compiled .msg or .srv file",
	}
}

func (cmd *cmdShow) flags(flags *pflag.FlagSet) {
	packageFlags(flags)
}

func (cmd *cmdShow) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		return usageError(cmd.help())
	}
	s, err := cmd.app.settings(false)
	if err != nil {
		return report(err)
	}
	file := argv[0]
	ld := s.newLoader()
	fullName := s.fullTypeName(file)
	w := cmd.app.stdout

	if isService(file) {
		spec, err := ld.LoadServiceFile(file, fullName)
		if err != nil {
			return report(err)
		}
		res, err := compiler.CompileService(spec, compiler.WithLoader(ld))
		if err != nil {
			return report(errors.Wrapf(err, "failed to compile %s", file))
		}
		fmt.Fprintf(w, "Service: %s\n", spec.FullName())
		fmt.Fprintf(w, "MD5: %s\n", res.MD5.Hex())
		fmt.Fprintln(w)
		showMessage(w, res.Request)
		fmt.Fprintln(w)
		showMessage(w, res.Response)
		return 0
	}

	spec, err := ld.LoadMessageFile(file, fullName)
	if err != nil {
		return report(err)
	}
	res, err := compiler.Compile(spec, compiler.WithLoader(ld))
	if err != nil {
		return report(errors.Wrapf(err, "failed to compile %s", file))
	}
	showMessage(w, res)
	return 0
}

func showMessage(w io.Writer, res *compiler.Result) {
	spec := res.Spec
	fmt.Fprintf(w, "Type: %s\n", spec.FullName())
	fmt.Fprintf(w, "MD5: %s\n", res.MD5.Hex())
	fmt.Fprintf(w, "Fixed length: %s\n", strconv.FormatBool(res.FixedLength))
	fmt.Fprintf(w, "Has header: %s\n", strconv.FormatBool(spec.HasHeader()))

	if len(spec.Fields()) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"field", "type", "c++ type"})
		table.SetAutoWrapText(false)
		for _, field := range spec.Fields() {
			table.Append([]string{
				field.Name(),
				field.Type(),
				cppgen.MapType(field, spec.Package()),
			})
		}
		table.Render()
	}
	if len(spec.Constants()) > 0 {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"constant", "type", "value"})
		table.SetAutoWrapText(false)
		for _, constant := range spec.Constants() {
			table.Append([]string{constant.Name(), constant.Type(), constant.Value()})
		}
		table.Render()
	}
	fmt.Fprintln(w, "Definition:")
	fmt.Fprint(w, res.Definition)
}
