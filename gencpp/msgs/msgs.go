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

// Package msgs defines the read-only descriptors produced by the message loader
// and consumed by the compiler and code emitters.
package msgs

import (
	"fmt"
	"slices"
	"strings"
)

type Field struct {
	name     string
	type_    string
	baseType string
	isArray  bool
	arrayLen int // -1 if unbounded
	builtin  bool
	header   bool
}

// NewField parses a declared field type such as "int32", "string[]",
// "geometry_msgs/Point[4]" or "Header".
func NewField(typeName string, name string) (*Field, error) {
	baseType, isArray, arrayLen, err := ParseType(typeName)
	if err != nil {
		return nil, err
	}
	if !IsValidName(name) {
		return nil, fmt.Errorf("invalid field name %q", name)
	}
	return &Field{
		name:     name,
		type_:    typeName,
		baseType: baseType,
		isArray:  isArray,
		arrayLen: arrayLen,
		builtin:  IsBuiltin(baseType),
		header:   IsHeaderType(baseType),
	}, nil
}

func (f *Field) Name() string {
	return f.name
}

// Type returns the type as declared, including any array suffix.
func (f *Field) Type() string {
	return f.type_
}

func (f *Field) BaseType() string {
	return f.baseType
}

func (f *Field) IsBuiltin() bool {
	return f.builtin
}

func (f *Field) IsArray() bool {
	return f.isArray
}

// ArrayLen returns the static bound of a fixed-size array field. The second
// result is false for scalars and unbounded arrays.
func (f *Field) ArrayLen() (int, bool) {
	if !f.isArray || f.arrayLen < 0 {
		return 0, false
	}
	return f.arrayLen, true
}

func (f *Field) IsHeader() bool {
	return f.header
}

func (f *Field) String() string {
	return f.type_ + " " + f.name
}

type Constant struct {
	type_ string
	name  string
	value string
}

func NewConstant(typeName, name, value string) *Constant {
	return &Constant{
		type_: typeName,
		name:  name,
		value: value,
	}
}

func (c *Constant) Type() string {
	return c.type_
}

func (c *Constant) Name() string {
	return c.name
}

func (c *Constant) Value() string {
	return c.value
}

func (c *Constant) String() string {
	return c.type_ + " " + c.name + "=" + c.value
}

type MessageSpec struct {
	pkg       string
	shortName string
	fields    []*Field
	constants []*Constant
	hasHeader bool
}

func NewMessageSpec(
	fullName string,
	fields []*Field,
	constants []*Constant,
) (*MessageSpec, error) {
	pkg, shortName := PackageResourceName(fullName)
	if pkg == "" || !IsValidName(pkg) || !IsValidName(shortName) {
		return nil, fmt.Errorf("invalid full type name %q", fullName)
	}
	names := make(map[string]struct{}, len(fields))
	hasHeader := false
	for _, f := range fields {
		if _, dup := names[f.name]; dup {
			return nil, fmt.Errorf("duplicate field name %q in %s", f.name, fullName)
		}
		names[f.name] = struct{}{}
		if f.header {
			hasHeader = true
		}
	}
	return &MessageSpec{
		pkg:       pkg,
		shortName: shortName,
		fields:    slices.Clone(fields),
		constants: slices.Clone(constants),
		hasHeader: hasHeader,
	}, nil
}

func (m *MessageSpec) Package() string {
	return m.pkg
}

func (m *MessageSpec) ShortName() string {
	return m.shortName
}

func (m *MessageSpec) FullName() string {
	return m.pkg + Sep + m.shortName
}

func (m *MessageSpec) Fields() []*Field {
	return slices.Clone(m.fields)
}

func (m *MessageSpec) Constants() []*Constant {
	return slices.Clone(m.constants)
}

// HasHeader reports whether any field's base type is the header type.
func (m *MessageSpec) HasHeader() bool {
	return m.hasHeader
}

// Dependencies returns the full names of the non-builtin types referenced by
// m's fields, in field order, without duplicates.
func (m *MessageSpec) Dependencies() []string {
	var deps []string
	seen := make(map[string]bool)
	for _, field := range m.fields {
		if field.IsBuiltin() {
			continue
		}
		fullName := ResolveType(field.BaseType(), m.pkg)
		if !seen[fullName] {
			seen[fullName] = true
			deps = append(deps, fullName)
		}
	}
	return deps
}

type ServiceSpec struct {
	pkg       string
	shortName string
	request   *MessageSpec
	response  *MessageSpec
}

func NewServiceSpec(fullName string, request, response *MessageSpec) (*ServiceSpec, error) {
	pkg, shortName := PackageResourceName(fullName)
	if pkg == "" || !IsValidName(pkg) || !IsValidName(shortName) {
		return nil, fmt.Errorf("invalid full type name %q", fullName)
	}
	if request.FullName() != fullName+"Request" {
		return nil, fmt.Errorf("service %s has request type %s", fullName, request.FullName())
	}
	if response.FullName() != fullName+"Response" {
		return nil, fmt.Errorf("service %s has response type %s", fullName, response.FullName())
	}
	return &ServiceSpec{
		pkg:       pkg,
		shortName: shortName,
		request:   request,
		response:  response,
	}, nil
}

func (s *ServiceSpec) Package() string {
	return s.pkg
}

func (s *ServiceSpec) ShortName() string {
	return s.shortName
}

func (s *ServiceSpec) FullName() string {
	return s.pkg + Sep + s.shortName
}

func (s *ServiceSpec) Request() *MessageSpec {
	return s.request
}

func (s *ServiceSpec) Response() *MessageSpec {
	return s.response
}

// PackageResourceName splits "pkg/Name" into its parts. A bare name has an
// empty package.
func PackageResourceName(name string) (string, string) {
	if pkg, short, ok := strings.Cut(name, Sep); ok {
		return pkg, short
	}
	return "", name
}
