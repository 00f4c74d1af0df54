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

package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ros/gencpp/gencpp/syntax"
)

// SpecLoadError reports an input file that is missing or malformed.
type SpecLoadError struct {
	Path string
	Err  error
}

func (err *SpecLoadError) Error() string {
	var syntaxErr *syntax.Error
	if errors.As(err.Err, &syntaxErr) && syntaxErr.Line() > 0 {
		return fmt.Sprintf(
			"%s:%d: E%d: %s",
			err.Path, syntaxErr.Line(), syntaxErr.Code(), syntaxErr.Message(),
		)
	}
	return fmt.Sprintf("%s: %v", err.Path, err.Err)
}

func (err *SpecLoadError) Unwrap() error {
	return err.Err
}

// NotFoundError reports a message type missing from the search path. It
// matches fs.ErrNotExist.
type NotFoundError struct {
	TypeName string
	Dirs     []string
}

func (err *NotFoundError) Error() string {
	if len(err.Dirs) == 0 {
		return fmt.Sprintf("no include path entry for package of %q", err.TypeName)
	}
	return fmt.Sprintf(
		"message type %q not found in [%s]",
		err.TypeName, strings.Join(err.Dirs, ", "),
	)
}

func (err *NotFoundError) Is(target error) bool {
	return target == fs.ErrNotExist
}
