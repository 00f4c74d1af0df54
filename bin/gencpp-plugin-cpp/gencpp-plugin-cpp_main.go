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

// Command gencpp-plugin-cpp is the built-in C++ emitter packaged as a codegen
// plugin. Built with TinyGo it exports the plugin ABI; run natively it reads
// one JSON request from stdin and writes the JSON response to stdout.
package main

//go:generate go run ../../internal/build -tinygo=tinygo -output=gencpp-plugin-cpp.wasm -- -target=wasm-unknown -no-debug .

import (
	"encoding/json"
	"io"
	"log"
	"os"

	"github.com/ros/gencpp/gencpp/plugin"
)

func main() {
	os.Exit(serve(os.Stdin, os.Stdout))
}

func serve(r io.Reader, w io.Writer) int {
	var req plugin.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		log.Printf("[ERROR] decode request: %v", err)
		return 1
	}
	resp := plugin.Generate(&req)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
		return 1
	}
	if resp.Error != "" {
		log.Printf("[ERROR] %s", resp.Error)
		return 1
	}
	for _, file := range resp.Files {
		log.Printf("[INFO ] generated %s (%d bytes)", file.Path, len(file.Content))
	}
	return 0
}
