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

// Package cppgen emits C++ headers for compiled message and service types.
//
// Every function in this package is pure: output depends only on the
// compiled result and the source file name, and nothing is written to disk.
package cppgen

import (
	"fmt"
	"strings"

	"github.com/ros/gencpp/gencpp/compiler"
)

const (
	generatorName = "gencpp"
	headerExt     = ".h"
)

// OutputFile is one generated header. Path is relative to the output
// directory.
type OutputFile struct {
	Path    string
	Content []byte
}

// GenerateMessage renders the header for a compiled message type.
func GenerateMessage(res *compiler.Result, sourceFile string) *OutputFile {
	return &OutputFile{
		Path:    res.Spec.ShortName() + headerExt,
		Content: joinLines(EmitMessage(res, sourceFile)),
	}
}

// GenerateService renders the request, response, and service headers for a
// compiled service, in that order.
func GenerateService(res *compiler.ServiceResult, sourceFile string) []*OutputFile {
	return []*OutputFile{
		GenerateMessage(res.Request, sourceFile),
		GenerateMessage(res.Response, sourceFile),
		{
			Path:    res.Spec.ShortName() + headerExt,
			Content: joinLines(EmitService(res, sourceFile)),
		},
	}
}

func joinLines(lines []string) []byte {
	var buf strings.Builder
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return []byte(buf.String())
}

type writer struct {
	lines  []string
	indent int
}

func (w *writer) line(s string) {
	if s == "" {
		w.lines = append(w.lines, "")
		return
	}
	w.lines = append(w.lines, strings.Repeat("  ", w.indent)+s)
}

func (w *writer) linef(format string, a ...any) {
	w.line(fmt.Sprintf(format, a...))
}

// raw appends s without indentation.
func (w *writer) raw(s string) {
	w.lines = append(w.lines, s)
}

func (w *writer) banner(sourceFile string) {
	w.linef("/* Auto-generated by %s for file %s */", generatorName, sourceFile)
}

// stringTrait writes a traits specialization whose value() returns a string
// literal. The literal may span several physical lines; continuation lines
// are written without indentation so they do not alter the string. Any extra
// lines are written after the value() overloads.
func (w *writer) stringTrait(head, trait, cppType, literal string, extra ...string) {
	w.line("")
	w.line(head)
	w.linef("struct %s< %s >", trait, cppType)
	w.line("{")
	w.indent++
	w.line("static const char* value()")
	w.line("{")
	w.indent++
	parts := strings.Split(literal, "\n")
	if len(parts) == 1 {
		w.linef(`return "%s";`, parts[0])
	} else {
		w.linef(`return "%s`, parts[0])
		for _, part := range parts[1 : len(parts)-1] {
			w.raw(part)
		}
		w.raw(parts[len(parts)-1] + `";`)
	}
	w.indent--
	w.line("}")
	w.line("")
	w.linef("static const char* value(const %s&) { return value(); }", cppType)
	for _, line := range extra {
		w.line(line)
	}
	w.indent--
	w.line("};")
}

var cppStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteCpp(s string) string {
	return `"` + cppStringEscaper.Replace(s) + `"`
}
