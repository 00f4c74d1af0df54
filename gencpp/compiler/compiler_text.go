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
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ros/gencpp/gencpp/msgs"
)

var definitionSeparator = strings.Repeat("=", 80)

// CanonicalText renders the declarations of spec followed by the declarations
// of each dependency, in the order given. Every line ends with '\n'.
func CanonicalText(spec *msgs.MessageSpec, deps []*Dependency) string {
	var buf strings.Builder
	writeDeclarations(&buf, spec)
	for _, dep := range deps {
		buf.WriteString(definitionSeparator)
		buf.WriteString("\n")
		buf.WriteString("MSG: ")
		buf.WriteString(dep.FullName())
		buf.WriteString("\n")
		writeDeclarations(&buf, dep.Spec)
	}
	return buf.String()
}

func writeDeclarations(buf *strings.Builder, spec *msgs.MessageSpec) {
	for _, field := range spec.Fields() {
		buf.WriteString(field.String())
		buf.WriteString("\n")
	}
	for _, constant := range spec.Constants() {
		buf.WriteString(constant.String())
		buf.WriteString("\n")
	}
}

// Fingerprint identifies a message definition for wire compatibility checks.
// It is not a security hash.
type Fingerprint [md5.Size]byte

func ComputeFingerprint(text string) Fingerprint {
	return Fingerprint(md5.Sum([]byte(text)))
}

func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f[:])
}

func (f Fingerprint) String() string {
	return f.Hex()
}

// High is the first eight digest bytes as a big-endian integer.
func (f Fingerprint) High() uint64 {
	return binary.BigEndian.Uint64(f[:8])
}

func (f Fingerprint) Low() uint64 {
	return binary.BigEndian.Uint64(f[8:])
}

// EscapeLiteral formats text for the body of a C++ string literal. Each
// source line becomes one physical line ending in `\n\` so the literal spans
// several lines but compiles to a single string.
func EscapeLiteral(text string) string {
	var buf strings.Builder
	for len(text) > 0 {
		line, rest, found := strings.Cut(text, "\n")
		line = strings.ReplaceAll(line, `\`, `\\`)
		line = strings.ReplaceAll(line, `"`, `\"`)
		buf.WriteString(line)
		if found {
			buf.WriteString(`\n`)
		}
		buf.WriteString("\\\n")
		text = rest
	}
	return buf.String()
}

// UnescapeLiteral reverses EscapeLiteral.
func UnescapeLiteral(literal string) (string, error) {
	var buf strings.Builder
	for ii := 0; ii < len(literal); ii++ {
		c := literal[ii]
		if c != '\\' {
			buf.WriteByte(c)
			continue
		}
		if ii+1 == len(literal) {
			return "", fmt.Errorf("trailing backslash at offset %d", ii)
		}
		ii++
		switch literal[ii] {
		case '\n':
		case 'n':
			buf.WriteByte('\n')
		case '\\':
			buf.WriteByte('\\')
		case '"':
			buf.WriteByte('"')
		default:
			return "", fmt.Errorf("unknown escape '\\%c' at offset %d", literal[ii], ii-1)
		}
	}
	return buf.String(), nil
}
