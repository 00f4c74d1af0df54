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

package syntax

import (
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/ros/gencpp/gencpp/msgs"
)

const (
	maxSrcLen = 0x7FFFFFFF // (2**31)-1

	commentChar    = "#"
	constChar      = "="
	serviceDelim   = "---"
	requestSuffix  = "Request"
	responseSuffix = "Response"
)

// ParseMessage parses the text of a .msg file into a message descriptor named
// fullName ("pkg/Name").
func ParseMessage(src []byte, fullName string) (*msgs.MessageSpec, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	ctx := newParseCtx()
	for l := range lines(src) {
		if err := ctx.declaration(l); err != nil {
			return nil, err
		}
	}
	return ctx.finish(fullName)
}

// ParseService parses the text of a .srv file. The request and response
// messages are named fullName+"Request" and fullName+"Response".
func ParseService(src []byte, fullName string) (*msgs.ServiceSpec, error) {
	if err := checkSource(src); err != nil {
		return nil, err
	}
	request := newParseCtx()
	response := newParseCtx()
	ctx := request
	for l := range lines(src) {
		if strings.HasPrefix(l.clean, serviceDelim) {
			if ctx == response {
				return nil, errUnexpectedServiceDelimiter(l)
			}
			ctx = response
			continue
		}
		if err := ctx.declaration(l); err != nil {
			return nil, err
		}
	}
	if ctx != response {
		return nil, errMissingServiceDelimiter()
	}

	requestSpec, err := request.finish(fullName + requestSuffix)
	if err != nil {
		return nil, err
	}
	responseSpec, err := response.finish(fullName + responseSuffix)
	if err != nil {
		return nil, err
	}
	srv, err := msgs.NewServiceSpec(fullName, requestSpec, responseSpec)
	if err != nil {
		return nil, errInvalidTypeName(fullName, err)
	}
	return srv, nil
}

func checkSource(src []byte) error {
	if len(src) > maxSrcLen {
		return errSourceTooLong(len(src))
	}
	if !utf8.Valid(src) {
		return errInvalidUtf8(src)
	}
	return nil
}

type line struct {
	num   int
	start uint32
	text  string
	clean string
}

func (l *line) span() Span {
	return Span{l.start, uint32(len(l.text))}
}

func lines(src []byte) iter.Seq[*line] {
	return func(yield func(*line) bool) {
		text := string(src)
		var start uint32
		for num := 1; len(text) > 0; num++ {
			raw, rest, _ := strings.Cut(text, "\n")
			text = rest
			raw = strings.TrimSuffix(raw, "\r")
			clean, _, _ := strings.Cut(raw, commentChar)
			l := &line{
				num:   num,
				start: start,
				text:  raw,
				clean: strings.TrimSpace(clean),
			}
			start += uint32(len(raw)) + 1
			if !yield(l) {
				return
			}
		}
	}
}

type parseCtx struct {
	fields     []*msgs.Field
	constants  []*msgs.Constant
	fieldLines map[string]int
	constLines map[string]int
}

func newParseCtx() *parseCtx {
	return &parseCtx{
		fieldLines: make(map[string]int),
		constLines: make(map[string]int),
	}
}

func (ctx *parseCtx) declaration(l *line) error {
	for ii := 0; ii < len(l.text); ii++ {
		c := l.text[ii]
		if (c < 0x20 && c != '\t') || c == 0x7F {
			return errForbiddenControlCharacter(l, ii)
		}
	}
	if l.clean == "" {
		return nil
	}
	if strings.Contains(l.clean, constChar) {
		return ctx.constant(l)
	}
	return ctx.field(l)
}

func (ctx *parseCtx) field(l *line) error {
	parts := strings.Fields(l.clean)
	if len(parts) != 2 {
		return errInvalidDeclaration(l)
	}
	typeName, name := parts[0], parts[1]
	if !msgs.IsValidName(name) {
		return errInvalidFieldName(l, name)
	}
	if prev, dup := ctx.fieldLines[name]; dup {
		return errDuplicateFieldName(l, name, prev)
	}
	field, err := msgs.NewField(typeName, name)
	if err != nil {
		return errInvalidFieldType(l, err)
	}
	ctx.fieldLines[name] = l.num
	ctx.fields = append(ctx.fields, field)
	return nil
}

func (ctx *parseCtx) constant(l *line) error {
	sp := strings.IndexAny(l.clean, " \t")
	if sp < 0 {
		return errInvalidConstantDeclaration(l)
	}
	typeName, rest := l.clean[:sp], l.clean[sp+1:]
	var ok bool
	if !isConstantType(typeName) {
		return errInvalidConstantType(l, typeName)
	}

	var name, value string
	if typeName == "string" {
		// String constants run to the end of the line; '#' is not a
		// comment marker inside the value.
		_, afterType, _ := strings.Cut(strings.TrimSpace(l.text), typeName)
		name, value, _ = strings.Cut(afterType, constChar)
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
	} else {
		name, value, ok = strings.Cut(rest, constChar)
		if !ok || strings.Contains(value, constChar) {
			return errInvalidConstantDeclaration(l)
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if value == "" {
			return errInvalidConstantDeclaration(l)
		}
	}
	if !msgs.IsValidName(name) {
		return errInvalidConstantName(l, name)
	}
	if prev, dup := ctx.constLines[name]; dup {
		return errDuplicateConstantName(l, name, prev)
	}
	if err := checkConstantValue(typeName, value); err != nil {
		return errInvalidConstantValue(l, typeName, value, err)
	}
	ctx.constLines[name] = l.num
	ctx.constants = append(ctx.constants, msgs.NewConstant(typeName, name, value))
	return nil
}

func (ctx *parseCtx) finish(fullName string) (*msgs.MessageSpec, error) {
	spec, err := msgs.NewMessageSpec(fullName, ctx.fields, ctx.constants)
	if err != nil {
		return nil, errInvalidTypeName(fullName, err)
	}
	return spec, nil
}
