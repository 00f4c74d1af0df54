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

// Package logger prints diagnostics for the gencpp commands.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	defaultLogger = log.New(os.Stderr, "", 0)
	verbose       = false

	infoColor  = color.New(color.FgCyan)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
)

func init() {
	Reset()
}

// Reset restores the defaults: stderr output, quiet, automatic color.
func Reset() {
	defaultLogger.SetOutput(os.Stderr)
	verbose = false
	_ = SetColor(ColorAuto)
}

// SetOutput redirects diagnostics to w. Color stays as configured by the
// last call to SetColor.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetVerbose enables Infof output.
func SetVerbose(v bool) {
	verbose = v
}

// SetColor selects when level prefixes are colored. "auto" colors them when
// the current output is a terminal.
func SetColor(mode string) error {
	var enabled bool
	switch mode {
	case ColorAlways:
		enabled = true
	case ColorNever:
		enabled = false
	case ColorAuto, "":
		enabled = isTerminal(defaultLogger.Writer())
	default:
		return fmt.Errorf("invalid color mode %q (want %s, %s, or %s)", mode, ColorAuto, ColorAlways, ColorNever)
	}
	for _, c := range []*color.Color{infoColor, warnColor, errorColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func Infof(format string, v ...interface{}) {
	if !verbose {
		return
	}
	defaultLogger.Print(infoColor.Sprint("[INFO ]") + " " + fmt.Sprintf(format, v...))
}

func Warnf(format string, v ...interface{}) {
	defaultLogger.Print(warnColor.Sprint("[WARN ]") + " " + fmt.Sprintf(format, v...))
}

func Errorf(format string, v ...interface{}) {
	defaultLogger.Print(errorColor.Sprint("[ERROR]") + " " + fmt.Sprintf(format, v...))
}

func Error(err error) {
	Errorf("%v", err)
}
