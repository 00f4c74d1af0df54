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
	"github.com/ros/gencpp/gencpp/msgs"
)

func (c *compiler) isFixedLength(spec *msgs.MessageSpec) (bool, error) {
	fullName := spec.FullName()
	if fixed, ok := c.fixed[fullName]; ok {
		return fixed, nil
	}
	if err := c.enter(fullName); err != nil {
		return false, err
	}
	defer c.leave(fullName)

	fixed := true
	for _, field := range spec.Fields() {
		if field.IsArray() {
			if _, bounded := field.ArrayLen(); !bounded {
				fixed = false
				break
			}
		}
		if field.BaseType() == "string" {
			fixed = false
			break
		}
		if field.IsBuiltin() {
			continue
		}
		nestedName := msgs.ResolveType(field.BaseType(), spec.Package())
		nested, err := c.load(nestedName, fullName)
		if err != nil {
			return false, err
		}
		nestedFixed, err := c.isFixedLength(nested)
		if err != nil {
			return false, err
		}
		if !nestedFixed {
			fixed = false
			break
		}
	}
	c.fixed[fullName] = fixed
	return fixed, nil
}
