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

// Command build compiles a codegen plugin to WebAssembly with TinyGo.
//
//	go run ./internal/build -output=plugin.wasm [-chdir=DIR] -- TINYGO_BUILD_ARGS...
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

var (
	tinygo  = flag.String("tinygo", "tinygo", "TinyGo executable, looked up in $PATH unless it contains a '/'")
	output  = flag.String("output", "", "Path of the .wasm file to write")
	chdir   = flag.String("chdir", "", "Directory to run TinyGo in")
	wasmOpt = flag.String("wasm-opt", "", "wasm-opt executable passed to TinyGo as $WASMOPT")
)

func main() {
	flag.Parse()
	if err := build(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func build() error {
	if *output == "" {
		return fmt.Errorf("No output path specified (set -output=)")
	}
	pwd, err := os.Getwd()
	if err != nil {
		return err
	}
	tinygoPath, err := exec.LookPath(*tinygo)
	if err != nil {
		return err
	}
	outPath := *output
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(pwd, outPath)
	}

	tinygoArgs := []string{"build"}
	tinygoArgs = append(tinygoArgs, "-o="+outPath)
	tinygoArgs = append(tinygoArgs, flag.Args()...)

	cmd := exec.Command(tinygoPath, tinygoArgs...)
	cmd.Env = os.Environ()
	if *wasmOpt != "" {
		cmd.Env = append(cmd.Env, "WASMOPT="+*wasmOpt)
	}
	cmd.Dir = pwd
	if filepath.IsAbs(*chdir) {
		cmd.Dir = *chdir
	} else if *chdir != "" {
		cmd.Dir = filepath.Join(pwd, *chdir)
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
