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

// Package plugin defines the messages exchanged between gencpp and a codegen
// plugin, and the built-in handler that answers them with the C++ emitter.
//
// A request carries the declarations of the type being generated and of each
// of its dependencies as message source text, so a plugin can rebuild the
// compiled result with the same syntax and compiler packages the host uses.
package plugin

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/ros/gencpp/gencpp/codegen/cppgen"
	"github.com/ros/gencpp/gencpp/compiler"
	"github.com/ros/gencpp/gencpp/msgs"
	"github.com/ros/gencpp/gencpp/syntax"
)

const (
	KindMessage = "msg"
	KindService = "srv"
)

const serviceDelimiter = "---\n"

type Request struct {
	Kind         string `json:"kind"`
	FullName     string `json:"full_name"`
	SourceFile   string `json:"source_file"`
	Source       string `json:"source"`
	Dependencies []Spec `json:"dependencies,omitempty"`
}

type Spec struct {
	FullName string `json:"full_name"`
	Source   string `json:"source"`
}

type Response struct {
	Error string `json:"error,omitempty"`
	Files []File `json:"files,omitempty"`
}

type File struct {
	Path    string `json:"path"`
	Content []byte `json:"content"`
}

// NewMessageRequest describes a compiled message type.
func NewMessageRequest(res *compiler.Result, sourceFile string) *Request {
	return &Request{
		Kind:         KindMessage,
		FullName:     res.Spec.FullName(),
		SourceFile:   sourceFile,
		Source:       compiler.CanonicalText(res.Spec, nil),
		Dependencies: dependencySpecs(res.Dependencies),
	}
}

// NewServiceRequest describes a compiled service. Dependencies shared by the
// request and response are listed once.
func NewServiceRequest(res *compiler.ServiceResult, sourceFile string) *Request {
	source := compiler.CanonicalText(res.Request.Spec, nil) +
		serviceDelimiter +
		compiler.CanonicalText(res.Response.Spec, nil)
	deps := append([]*compiler.Dependency{}, res.Request.Dependencies...)
	deps = append(deps, res.Response.Dependencies...)
	return &Request{
		Kind:         KindService,
		FullName:     res.Spec.FullName(),
		SourceFile:   sourceFile,
		Source:       source,
		Dependencies: dependencySpecs(deps),
	}
}

func dependencySpecs(deps []*compiler.Dependency) []Spec {
	seen := make(map[string]bool, len(deps))
	var specs []Spec
	for _, dep := range deps {
		if seen[dep.FullName()] {
			continue
		}
		seen[dep.FullName()] = true
		specs = append(specs, Spec{
			FullName: dep.FullName(),
			Source:   compiler.CanonicalText(dep.Spec, nil),
		})
	}
	return specs
}

// EncodeMessage frames a request or response as a little-endian uint32
// length followed by its JSON encoding.
func EncodeMessage(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 4, 4+len(body))
	binary.LittleEndian.PutUint32(buf, uint32(len(body)))
	return append(buf, body...), nil
}

// DecodeMessage reads a message framed by EncodeMessage. Trailing bytes after
// the framed body are ignored.
func DecodeMessage(buf []byte, v any) error {
	if len(buf) < 4 {
		return fmt.Errorf("plugin message too short: %d bytes", len(buf))
	}
	bodyLen := binary.LittleEndian.Uint32(buf)
	if uint64(bodyLen) > uint64(len(buf)-4) {
		return fmt.Errorf("plugin message truncated: want %d bytes, have %d", bodyLen, len(buf)-4)
	}
	return json.Unmarshal(buf[4:4+bodyLen], v)
}

// Generate answers a request with the built-in C++ emitter. Failures are
// reported in the response rather than returned.
func Generate(req *Request) *Response {
	files, err := generate(req)
	if err != nil {
		return &Response{Error: err.Error()}
	}
	resp := &Response{}
	for _, file := range files {
		resp.Files = append(resp.Files, File{
			Path:    file.Path,
			Content: file.Content,
		})
	}
	return resp
}

func generate(req *Request) ([]*cppgen.OutputFile, error) {
	deps := make([]*msgs.MessageSpec, 0, len(req.Dependencies))
	for _, dep := range req.Dependencies {
		spec, err := syntax.ParseMessage([]byte(dep.Source), dep.FullName)
		if err != nil {
			return nil, fmt.Errorf("dependency %s: %w", dep.FullName, err)
		}
		deps = append(deps, spec)
	}
	opts := compiler.NewCompileOptions(compiler.WithSpecs(deps...))

	switch req.Kind {
	case KindMessage:
		spec, err := syntax.ParseMessage([]byte(req.Source), req.FullName)
		if err != nil {
			return nil, err
		}
		res, err := opts.Compile(spec)
		if err != nil {
			return nil, err
		}
		return []*cppgen.OutputFile{cppgen.GenerateMessage(res, req.SourceFile)}, nil
	case KindService:
		spec, err := syntax.ParseService([]byte(req.Source), req.FullName)
		if err != nil {
			return nil, err
		}
		res, err := opts.CompileService(spec)
		if err != nil {
			return nil, err
		}
		return cppgen.GenerateService(res, req.SourceFile), nil
	}
	return nil, fmt.Errorf("unknown request kind %q", req.Kind)
}
