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

// Package host runs codegen plugins compiled to WebAssembly.
//
// A plugin exports gencpp_codegen_allocate(len) -> ptr and
// gencpp_codegen_generate(request_ptr, response_ptr_ptr) -> rc. The request
// and response are framed with plugin.EncodeMessage. On return the plugin
// stores the address of the framed response at response_ptr_ptr; a non-zero
// rc means the response carries an error.
package host

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	wasm "github.com/tetratelabs/wazero"

	"github.com/ros/gencpp/gencpp/codegen/cppgen"
	"github.com/ros/gencpp/gencpp/plugin"
)

const (
	PluginPathEnv = "GENCPP_PLUGIN_PATH"

	exportAllocate = "gencpp_codegen_allocate"
	exportGenerate = "gencpp_codegen_generate"

	memoryLimitPages = 16384
)

// Locate finds the plugin for language in a ':'-separated list of
// directories. An empty path falls back to $GENCPP_PLUGIN_PATH.
func Locate(path, language string) (string, error) {
	if path == "" {
		path = os.Getenv(PluginPathEnv)
	}
	if path == "" {
		return "", fmt.Errorf("No plugin path set, use --plugin-path= or $%s", PluginPathEnv)
	}
	basename := fmt.Sprintf("gencpp-plugin-%s.wasm", language)
	for _, dir := range strings.Split(path, ":") {
		if dir == "" {
			continue
		}
		pluginPath := filepath.Join(dir, basename)
		if _, err := os.Stat(pluginPath); err == nil {
			return pluginPath, nil
		}
	}
	return "", fmt.Errorf("Codegen plugin %s not found in plugin path %q", basename, path)
}

// Plugin is a compiled plugin module. Each call to Generate instantiates a
// fresh copy, so a Plugin may be shared by concurrent callers.
type Plugin struct {
	runtime wasm.Runtime
	exe     wasm.CompiledModule
}

func Load(ctx context.Context, pluginPath string) (*Plugin, error) {
	pluginBin, err := os.ReadFile(pluginPath)
	if err != nil {
		return nil, err
	}
	return Compile(ctx, pluginBin)
}

func Compile(ctx context.Context, pluginBin []byte) (*Plugin, error) {
	runtimeConfig := wasm.NewRuntimeConfigInterpreter()
	runtimeConfig = runtimeConfig.WithMemoryLimitPages(memoryLimitPages)
	runtime := wasm.NewRuntimeWithConfig(ctx, runtimeConfig)
	exe, err := runtime.CompileModule(ctx, pluginBin)
	if err != nil {
		runtime.Close(ctx)
		return nil, err
	}
	return &Plugin{runtime: runtime, exe: exe}, nil
}

func (p *Plugin) Close(ctx context.Context) error {
	return p.runtime.Close(ctx)
}

// Generate sends req to the plugin and returns the files it produced.
func (p *Plugin) Generate(ctx context.Context, req *plugin.Request) ([]*cppgen.OutputFile, error) {
	requestBuf, err := plugin.EncodeMessage(req)
	if err != nil {
		return nil, err
	}

	moduleConfig := wasm.NewModuleConfig().WithName("")
	mod, err := p.runtime.InstantiateModule(ctx, p.exe, moduleConfig)
	if err != nil {
		return nil, err
	}
	defer mod.Close(ctx)
	mem := mod.Memory()
	if mem == nil {
		return nil, fmt.Errorf("Codegen plugin does not export its memory")
	}

	wasmAlloc := mod.ExportedFunction(exportAllocate)
	wasmGenerate := mod.ExportedFunction(exportGenerate)
	if wasmAlloc == nil || wasmGenerate == nil {
		return nil, fmt.Errorf("Codegen plugin must export %s and %s", exportAllocate, exportGenerate)
	}

	results, err := wasmAlloc.Call(ctx, uint64(len(requestBuf)))
	if err != nil {
		return nil, err
	}
	requestPtr := uint32(results[0])
	if !mem.Write(requestPtr, requestBuf) {
		return nil, fmt.Errorf("Failed to write request message")
	}

	results, err = wasmAlloc.Call(ctx, 4)
	if err != nil {
		return nil, err
	}
	responsePtrPtr := uint32(results[0])

	results, err = wasmGenerate.Call(ctx, uint64(requestPtr), uint64(responsePtrPtr))
	if err != nil {
		return nil, err
	}
	rc := uint8(results[0])

	responsePtr, ok := mem.ReadUint32Le(responsePtrPtr)
	if !ok {
		return nil, fmt.Errorf("Failed to read response message address")
	}
	responseLen, ok := mem.ReadUint32Le(responsePtr)
	if !ok {
		return nil, fmt.Errorf("Failed to read response message length")
	}
	responseBuf, ok := mem.Read(responsePtr, 4+responseLen)
	if !ok {
		return nil, fmt.Errorf("Failed to read response message")
	}

	var resp plugin.Response
	if err := plugin.DecodeMessage(responseBuf, &resp); err != nil {
		return nil, err
	}
	return ResponseFiles(rc, &resp)
}

// ResponseFiles checks a decoded response and converts its files. Every path
// must be relative and stay inside the output directory.
func ResponseFiles(rc uint8, resp *plugin.Response) ([]*cppgen.OutputFile, error) {
	if rc != 0 || resp.Error != "" {
		msg := strings.TrimSpace(strings.ToValidUTF8(resp.Error, "�"))
		if msg == "" {
			msg = fmt.Sprintf("Codegen plugin failed with code %d", rc)
		}
		return nil, fmt.Errorf("%s", msg)
	}
	if len(resp.Files) == 0 {
		return nil, fmt.Errorf("Plugin did not generate any output files")
	}
	files := make([]*cppgen.OutputFile, 0, len(resp.Files))
	for _, file := range resp.Files {
		if err := CheckOutputPath(file.Path); err != nil {
			return nil, err
		}
		files = append(files, &cppgen.OutputFile{
			Path:    file.Path,
			Content: file.Content,
		})
	}
	return files, nil
}

// CheckOutputPath validates a '/'-separated path returned by a plugin.
func CheckOutputPath(path string) error {
	if path == "" {
		return fmt.Errorf("Invalid output path %q: empty", path)
	}
	if path[0] == '/' || filepath.IsAbs(path) {
		return fmt.Errorf("Invalid output path %q: absolute path", path)
	}
	for _, part := range strings.Split(path, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("Invalid output path %q: bad path component %q", path, part)
		}
		if strings.ContainsRune(part, '\\') {
			return fmt.Errorf("Invalid output path %q: component %q contains '\\'", path, part)
		}
	}
	return nil
}
