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

package cppgen

import (
	"fmt"
	"strings"

	"github.com/ros/gencpp/gencpp/msgs"
)

// StringType is the allocator-aware string used for "string" fields.
const StringType = "std::basic_string<char, std::char_traits<char>, typename ContainerAllocator::template rebind<char>::other >"

var builtinTypes = map[string]string{
	"byte":     "int8_t",
	"int8":     "int8_t",
	"char":     "uint8_t",
	"uint8":    "uint8_t",
	"bool":     "uint8_t",
	"int16":    "int16_t",
	"uint16":   "uint16_t",
	"int32":    "int32_t",
	"uint32":   "uint32_t",
	"int64":    "int64_t",
	"uint64":   "uint64_t",
	"float32":  "float",
	"float64":  "double",
	"string":   StringType,
	"time":     "ros::Time",
	"duration": "ros::Duration",
}

// MapBaseType returns the C++ type of a single element of baseType, as seen
// from package pkg. Composite types are parameterized by ContainerAllocator.
func MapBaseType(baseType string, pkg string) string {
	if cppType, ok := builtinTypes[baseType]; ok {
		return cppType
	}
	return qualifiedName(msgs.ResolveType(baseType, pkg)) + "_<ContainerAllocator>"
}

// MapType returns the C++ type of a field, wrapping the element type in
// std::vector or boost::array for array fields.
func MapType(field *msgs.Field, pkg string) string {
	elem := MapBaseType(field.BaseType(), pkg)
	if !field.IsArray() {
		return elem
	}
	if n, bounded := field.ArrayLen(); bounded {
		return fmt.Sprintf("boost::array< %s, %d >", elem, n)
	}
	return fmt.Sprintf(
		"std::vector< %s, typename ContainerAllocator::template rebind< %s >::other >",
		elem, elem,
	)
}

// qualifiedName converts "pkg/Name" to "::pkg::Name".
func qualifiedName(fullName string) string {
	pkg, name := msgs.PackageResourceName(fullName)
	return "::" + pkg + "::" + name
}

// defaultValue is the initializer for a scalar of baseType, or "" for types
// that are default-constructed.
func defaultValue(baseType string) string {
	switch {
	case msgs.IsIntegerType(baseType):
		return "0"
	case msgs.IsFloatType(baseType):
		return "0.0"
	case baseType == "bool":
		return "false"
	}
	return ""
}

// takesAllocator reports whether a value of baseType is constructed from the
// container allocator.
func takesAllocator(baseType string) bool {
	switch {
	case msgs.IsIntegerType(baseType), msgs.IsFloatType(baseType), msgs.IsTimeType(baseType):
		return false
	case baseType == "bool":
		return false
	}
	return true
}

// isEnumConstant reports whether constants of typeName are emitted as enum
// members rather than static data members.
func isEnumConstant(typeName string) bool {
	return msgs.IsIntegerType(typeName)
}

// guardName builds an include guard such as "STD_MSGS_MESSAGE_STRING_H".
func guardName(pkg, kind, name string) string {
	raw := pkg + "_" + kind + "_" + name + "_H"
	return strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z':
			return r - ('a' - 'A')
		case 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			return r
		}
		return '_'
	}, raw)
}
