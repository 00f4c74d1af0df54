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

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ros/gencpp/gencpp/plugin"
)

const pointRequest = `{
  "kind": "msg",
  "full_name": "my_msgs/Point",
  "source_file": "Point.msg",
  "source": "int32 x\nint32 y\n"
}`

func TestServe(t *testing.T) {
	var out bytes.Buffer
	require.Equal(t, 0, serve(strings.NewReader(pointRequest), &out))

	var resp plugin.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Empty(t, resp.Error)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "Point.h", resp.Files[0].Path)
	assert.Contains(t, string(resp.Files[0].Content), `return "a563edcdd2fff59e129549ba5c2b8b48";`)
}

func TestServeErrors(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, 1, serve(strings.NewReader("{"), &out))

	out.Reset()
	assert.Equal(t, 1, serve(strings.NewReader(`{"kind": "msg", "full_name": "my_msgs/Bad", "source": "int32\n"}`), &out))
	var resp plugin.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Contains(t, resp.Error, "E1010")
}

func TestExports(t *testing.T) {
	request, err := plugin.EncodeMessage(&plugin.Request{
		Kind:       plugin.KindMessage,
		FullName:   "my_msgs/Point",
		SourceFile: "Point.msg",
		Source:     "int32 x\nint32 y\n",
	})
	require.NoError(t, err)

	requestPtr := gencppCodegenAllocate(uint32(len(request)))
	copy(unsafe.Slice(requestPtr, len(request)), request)
	defer gencppCodegenDeallocate(requestPtr)

	var responsePtr *uint8
	rc := gencppCodegenGenerate(requestPtr, &responsePtr)
	require.Equal(t, uint8(0), rc)
	defer gencppCodegenDeallocate(responsePtr)

	response := buffers[responsePtr]
	var resp plugin.Response
	require.NoError(t, plugin.DecodeMessage(response, &resp))
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "Point.h", resp.Files[0].Path)
}
