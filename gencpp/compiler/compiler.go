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

// Package compiler resolves a message's dependencies and computes the
// properties the code emitters need: fixed-length classification, canonical
// definition text, and the MD5 fingerprint.
package compiler

import (
	"github.com/ros/gencpp/gencpp/msgs"
)

// SpecLoader locates and parses message types by full name. Implementations
// should return an error wrapping fs.ErrNotExist when the type is not on the
// search path.
type SpecLoader interface {
	LoadMessage(fullName string) (*msgs.MessageSpec, error)
}

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	loader SpecLoader
	specs  []*msgs.MessageSpec
}

func WithLoader(loader SpecLoader) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.loader = loader
	})
}

// WithSpecs registers already-loaded message types. They take precedence over
// the loader.
func WithSpecs(specs ...*msgs.MessageSpec) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.specs = append(opts.specs, specs...)
	})
}

type Dependency struct {
	Package string
	Name    string
	Spec    *msgs.MessageSpec
}

func (d *Dependency) FullName() string {
	return d.Package + msgs.Sep + d.Name
}

type Result struct {
	Spec         *msgs.MessageSpec
	Dependencies []*Dependency
	FixedLength  bool
	Definition   string
	MD5          Fingerprint
}

type ServiceResult struct {
	Spec     *msgs.ServiceSpec
	Request  *Result
	Response *Result
	MD5      Fingerprint
}

func Compile(spec *msgs.MessageSpec, opts ...CompileOption) (*Result, error) {
	return NewCompileOptions(opts...).Compile(spec)
}

func CompileService(spec *msgs.ServiceSpec, opts ...CompileOption) (*ServiceResult, error) {
	return NewCompileOptions(opts...).CompileService(spec)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(spec *msgs.MessageSpec) (*Result, error) {
	return newCompiler(opts).compileMessage(spec)
}

// CompileService compiles the request and response messages independently,
// each with its own dependency cache.
func (opts *CompileOptions) CompileService(spec *msgs.ServiceSpec) (*ServiceResult, error) {
	request, err := opts.Compile(spec.Request())
	if err != nil {
		return nil, err
	}
	response, err := opts.Compile(spec.Response())
	if err != nil {
		return nil, err
	}
	return &ServiceResult{
		Spec:     spec,
		Request:  request,
		Response: response,
		MD5:      ComputeFingerprint(request.Definition + response.Definition),
	}, nil
}

// IsFixedLength reports whether spec's wire size is independent of its data.
func IsFixedLength(spec *msgs.MessageSpec, opts ...CompileOption) (bool, error) {
	c := newCompiler(NewCompileOptions(opts...))
	return c.isFixedLength(spec)
}

// ResolveDependencies returns the transitive non-builtin dependencies of spec,
// each listed after its own dependencies.
func ResolveDependencies(spec *msgs.MessageSpec, opts ...CompileOption) ([]*Dependency, error) {
	c := newCompiler(NewCompileOptions(opts...))
	return c.resolveDependencies(spec)
}

// compiler holds the state of a single invocation. It is never shared.
type compiler struct {
	opts *CompileOptions

	specs    map[string]*msgs.MessageSpec
	visiting map[string]int
	stack    []string
	fixed    map[string]bool
}

func newCompiler(opts *CompileOptions) *compiler {
	c := &compiler{
		opts:     opts,
		specs:    make(map[string]*msgs.MessageSpec),
		visiting: make(map[string]int),
		fixed:    make(map[string]bool),
	}
	for _, spec := range opts.specs {
		c.specs[spec.FullName()] = spec
	}
	return c
}

func (c *compiler) compileMessage(spec *msgs.MessageSpec) (*Result, error) {
	deps, err := c.resolveDependencies(spec)
	if err != nil {
		return nil, err
	}
	fixed, err := c.isFixedLength(spec)
	if err != nil {
		return nil, err
	}
	definition := CanonicalText(spec, deps)
	return &Result{
		Spec:         spec,
		Dependencies: deps,
		FixedLength:  fixed,
		Definition:   definition,
		MD5:          ComputeFingerprint(definition),
	}, nil
}
