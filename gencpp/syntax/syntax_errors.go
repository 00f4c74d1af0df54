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
	"fmt"
	"math"
	"unicode/utf8"
)

type Span struct {
	start uint32
	len   uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s Span) Start() uint32 {
	return s.start
}

func (s Span) Len() uint32 {
	return s.len
}

type Error struct {
	code    uint32
	message string
	line    int
	span    Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	if err.line > 0 {
		return fmt.Sprintf("line %d: E%d: %s", err.line, err.code, err.message)
	}
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// Line is the 1-based line of the offending declaration, or 0 if the error
// applies to the whole source.
func (err *Error) Line() int {
	return err.line
}

func (err *Error) Span() Span {
	return err.span
}

func errSourceTooLong(srcLen int) error {
	lenUint32 := uint32(math.MaxUint32)
	if uint64(srcLen) < math.MaxUint32 {
		lenUint32 = uint32(srcLen)
	}
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, lenUint32},
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1001,
		message: "Source file contains invalid UTF-8",
		span:    Span{off, 1},
	}
}

func errForbiddenControlCharacter(l *line, col int) error {
	c := l.text[col]
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		line:    l.num,
		span:    Span{l.start + uint32(col), 1},
	}
}

func errInvalidDeclaration(l *line) error {
	return &Error{
		code:    1010,
		message: fmt.Sprintf("Invalid declaration %q (expected '<type> <name>')", l.clean),
		line:    l.num,
		span:    l.span(),
	}
}

func errInvalidFieldName(l *line, name string) error {
	return &Error{
		code:    1011,
		message: fmt.Sprintf("Invalid field name '%s'", name),
		line:    l.num,
		span:    l.span(),
	}
}

func errInvalidFieldType(l *line, cause error) error {
	return &Error{
		code:    1012,
		message: fmt.Sprintf("Invalid field type: %v", cause),
		line:    l.num,
		span:    l.span(),
	}
}

func errDuplicateFieldName(l *line, name string, prevLine int) error {
	return &Error{
		code: 1013,
		message: fmt.Sprintf(
			"Field '%s' conflicts with earlier declaration on line %d",
			name, prevLine,
		),
		line: l.num,
		span: l.span(),
	}
}

func errInvalidConstantDeclaration(l *line) error {
	return &Error{
		code:    1020,
		message: fmt.Sprintf("Invalid constant declaration %q (expected '<type> <name>=<value>')", l.clean),
		line:    l.num,
		span:    l.span(),
	}
}

func errInvalidConstantType(l *line, typeName string) error {
	return &Error{
		code:    1021,
		message: fmt.Sprintf("Type '%s' cannot be used for constants", typeName),
		line:    l.num,
		span:    l.span(),
	}
}

func errInvalidConstantValue(l *line, typeName, value string, cause error) error {
	return &Error{
		code:    1022,
		message: fmt.Sprintf("Invalid %s constant value %q: %v", typeName, value, cause),
		line:    l.num,
		span:    l.span(),
	}
}

func errDuplicateConstantName(l *line, name string, prevLine int) error {
	return &Error{
		code: 1023,
		message: fmt.Sprintf(
			"Constant '%s' conflicts with earlier declaration on line %d",
			name, prevLine,
		),
		line: l.num,
		span: l.span(),
	}
}

func errInvalidConstantName(l *line, name string) error {
	return &Error{
		code:    1024,
		message: fmt.Sprintf("Invalid constant name '%s'", name),
		line:    l.num,
		span:    l.span(),
	}
}

func errUnexpectedServiceDelimiter(l *line) error {
	return &Error{
		code:    1030,
		message: "Unexpected '---' delimiter",
		line:    l.num,
		span:    l.span(),
	}
}

func errMissingServiceDelimiter() error {
	return &Error{
		code:    1031,
		message: "Service description has no '---' delimiter",
	}
}

func errInvalidTypeName(fullName string, cause error) error {
	return &Error{
		code:    1040,
		message: fmt.Sprintf("Invalid type name %q: %v", fullName, cause),
	}
}
