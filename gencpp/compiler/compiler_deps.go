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
	"errors"
	"io/fs"
	"slices"

	"github.com/ros/gencpp/gencpp/msgs"
)

func (c *compiler) resolveDependencies(spec *msgs.MessageSpec) ([]*Dependency, error) {
	if _, ok := c.specs[spec.FullName()]; !ok {
		c.specs[spec.FullName()] = spec
	}
	var deps []*Dependency
	seen := make(map[string]struct{})

	var visit func(spec *msgs.MessageSpec) error
	visit = func(spec *msgs.MessageSpec) error {
		if err := c.enter(spec.FullName()); err != nil {
			return err
		}
		defer c.leave(spec.FullName())

		for _, field := range spec.Fields() {
			if field.IsBuiltin() {
				continue
			}
			fullName := msgs.ResolveType(field.BaseType(), spec.Package())
			if _, ok := seen[fullName]; ok {
				continue
			}
			dep, err := c.load(fullName, spec.FullName())
			if err != nil {
				return err
			}
			if err := visit(dep); err != nil {
				return err
			}
			seen[fullName] = struct{}{}
			deps = append(deps, &Dependency{
				Package: dep.Package(),
				Name:    dep.ShortName(),
				Spec:    dep,
			})
		}
		return nil
	}

	if err := visit(spec); err != nil {
		return nil, err
	}
	return deps, nil
}

func (c *compiler) enter(fullName string) error {
	if start, ok := c.visiting[fullName]; ok {
		path := slices.Clone(c.stack[start:])
		return errDependencyCycle(append(path, fullName))
	}
	c.visiting[fullName] = len(c.stack)
	c.stack = append(c.stack, fullName)
	return nil
}

func (c *compiler) leave(fullName string) {
	delete(c.visiting, fullName)
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *compiler) load(fullName, referencedBy string) (*msgs.MessageSpec, error) {
	if spec, ok := c.specs[fullName]; ok {
		return spec, nil
	}
	if c.opts.loader == nil {
		return nil, errMissingSpec(fullName, referencedBy, errNoLoader())
	}
	spec, err := c.opts.loader.LoadMessage(fullName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errMissingSpec(fullName, referencedBy, err)
		}
		return nil, err
	}
	if spec.FullName() != fullName {
		return nil, errSpecNameMismatch(fullName, spec.FullName())
	}
	c.specs[fullName] = spec
	return spec, nil
}
