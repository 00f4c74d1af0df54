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

package msgs

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Sep = "/"

	HeaderType     = "Header"
	HeaderFullName = "std_msgs/Header"
)

type typeClass uint8

const (
	typeClass_INTEGER typeClass = iota + 1
	typeClass_FLOAT
	typeClass_BOOL
	typeClass_STRING
	typeClass_TIME
)

var builtinTypes = map[string]typeClass{
	"byte":     typeClass_INTEGER,
	"char":     typeClass_INTEGER,
	"int8":     typeClass_INTEGER,
	"uint8":    typeClass_INTEGER,
	"int16":    typeClass_INTEGER,
	"uint16":   typeClass_INTEGER,
	"int32":    typeClass_INTEGER,
	"uint32":   typeClass_INTEGER,
	"int64":    typeClass_INTEGER,
	"uint64":   typeClass_INTEGER,
	"float32":  typeClass_FLOAT,
	"float64":  typeClass_FLOAT,
	"bool":     typeClass_BOOL,
	"string":   typeClass_STRING,
	"time":     typeClass_TIME,
	"duration": typeClass_TIME,
}

func IsBuiltin(baseType string) bool {
	_, ok := builtinTypes[baseType]
	return ok
}

func IsIntegerType(baseType string) bool {
	return builtinTypes[baseType] == typeClass_INTEGER
}

func IsFloatType(baseType string) bool {
	return builtinTypes[baseType] == typeClass_FLOAT
}

func IsTimeType(baseType string) bool {
	return builtinTypes[baseType] == typeClass_TIME
}

func IsHeaderType(baseType string) bool {
	switch baseType {
	case HeaderType, HeaderFullName, "roslib/Header":
		return true
	}
	return false
}

// ResolveType returns the full name of a non-builtin base type as seen from
// package pkg. Builtin types are returned unchanged.
func ResolveType(baseType string, pkg string) string {
	if IsBuiltin(baseType) {
		return baseType
	}
	if IsHeaderType(baseType) {
		return HeaderFullName
	}
	if strings.Contains(baseType, Sep) {
		return baseType
	}
	return pkg + Sep + baseType
}

// ParseType splits a declared type into its base type and array marker. The
// returned length is -1 for unbounded arrays and for scalars.
func ParseType(typeName string) (string, bool, int, error) {
	if typeName == "" {
		return "", false, -1, fmt.Errorf("empty type")
	}
	if !strings.HasSuffix(typeName, "]") {
		if strings.ContainsAny(typeName, "[]") {
			return "", false, -1, fmt.Errorf("invalid array syntax in type %q", typeName)
		}
		if !IsValidBaseType(typeName) {
			return "", false, -1, fmt.Errorf("invalid type %q", typeName)
		}
		return typeName, false, -1, nil
	}

	open := strings.LastIndexByte(typeName, '[')
	if open < 0 {
		return "", false, -1, fmt.Errorf("invalid array syntax in type %q", typeName)
	}
	baseType := typeName[:open]
	bound := typeName[open+1 : len(typeName)-1]
	if strings.ContainsAny(baseType, "[]") {
		return "", false, -1, fmt.Errorf("multi-dimensional arrays are not supported: %q", typeName)
	}
	if !IsValidBaseType(baseType) {
		return "", false, -1, fmt.Errorf("invalid type %q", typeName)
	}
	if bound == "" {
		return baseType, true, -1, nil
	}
	for ii := 0; ii < len(bound); ii++ {
		if bound[ii] < '0' || bound[ii] > '9' {
			return "", false, -1, fmt.Errorf("invalid array bound %q in type %q", bound, typeName)
		}
	}
	n, err := strconv.Atoi(bound)
	if err != nil {
		return "", false, -1, fmt.Errorf("invalid array bound %q in type %q", bound, typeName)
	}
	if n <= 0 {
		return "", false, -1, fmt.Errorf("array bound must be positive in type %q", typeName)
	}
	return baseType, true, n, nil
}

func IsValidBaseType(baseType string) bool {
	if IsBuiltin(baseType) {
		return true
	}
	pkg, name := PackageResourceName(baseType)
	if strings.Contains(baseType, Sep) && !IsValidName(pkg) {
		return false
	}
	return IsValidName(name)
}

// IsValidName reports whether s matches [a-zA-Z][a-zA-Z0-9_]*.
func IsValidName(s string) bool {
	if s == "" {
		return false
	}
	for ii := 0; ii < len(s); ii++ {
		c := s[ii]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case ii > 0 && ('0' <= c && c <= '9' || c == '_'):
		default:
			return false
		}
	}
	return true
}
