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
	"strconv"

	"github.com/ros/gencpp/gencpp/msgs"
)

type intRange struct {
	signed  bool
	bitSize int
}

var constantIntRanges = map[string]intRange{
	"byte":   {true, 8},
	"int8":   {true, 8},
	"char":   {false, 8},
	"uint8":  {false, 8},
	"int16":  {true, 16},
	"uint16": {false, 16},
	"int32":  {true, 32},
	"uint32": {false, 32},
	"int64":  {true, 64},
	"uint64": {false, 64},
}

func isConstantType(typeName string) bool {
	return msgs.IsBuiltin(typeName) && !msgs.IsTimeType(typeName)
}

func checkConstantValue(typeName, value string) error {
	if r, ok := constantIntRanges[typeName]; ok {
		var err error
		if r.signed {
			_, err = strconv.ParseInt(value, 10, r.bitSize)
		} else {
			_, err = strconv.ParseUint(value, 10, r.bitSize)
		}
		return unwrapNumError(err)
	}
	switch typeName {
	case "float32":
		_, err := strconv.ParseFloat(value, 32)
		return unwrapNumError(err)
	case "float64":
		_, err := strconv.ParseFloat(value, 64)
		return unwrapNumError(err)
	case "bool":
		_, err := strconv.ParseBool(value)
		return unwrapNumError(err)
	}
	return nil
}

func unwrapNumError(err error) error {
	if numErr, ok := err.(*strconv.NumError); ok {
		return numErr.Err
	}
	return err
}
