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

package compiler

import (
	"fmt"
	"strings"
)

type Error struct {
	code    uint32
	message string
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

// MissingSpecError reports a field type that could not be located on the
// search path.
type MissingSpecError struct {
	typeName     string
	referencedBy string
	cause        error
}

var _ error = (*MissingSpecError)(nil)

func (err *MissingSpecError) Error() string {
	return fmt.Sprintf("E%d: %s", err.Code(), err.Message())
}

func (err *MissingSpecError) Code() uint32 {
	return 3001
}

func (err *MissingSpecError) Message() string {
	msg := fmt.Sprintf(
		"Cannot locate message type '%s' (referenced by '%s')",
		err.typeName, err.referencedBy,
	)
	if err.cause != nil {
		msg += ": " + err.cause.Error()
	}
	return msg
}

func (err *MissingSpecError) TypeName() string {
	return err.typeName
}

func (err *MissingSpecError) ReferencedBy() string {
	return err.referencedBy
}

func (err *MissingSpecError) Unwrap() error {
	return err.cause
}

func errMissingSpec(typeName, referencedBy string, cause error) error {
	return &MissingSpecError{
		typeName:     typeName,
		referencedBy: referencedBy,
		cause:        cause,
	}
}

func errDependencyCycle(path []string) error {
	return &Error{
		code: 3002,
		message: fmt.Sprintf(
			"Message types form a dependency cycle: %s",
			strings.Join(path, " -> "),
		),
	}
}

func errSpecNameMismatch(want, got string) error {
	return &Error{
		code: 3003,
		message: fmt.Sprintf(
			"Loader returned message type '%s' for '%s'",
			got, want,
		),
	}
}

func errNoLoader() error {
	return &Error{
		code:    3004,
		message: "No spec loader configured",
	}
}
