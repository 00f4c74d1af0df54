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

package compiler_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/ros/gencpp/gencpp/compiler"
	"github.com/ros/gencpp/gencpp/internal/testutil"
	"github.com/ros/gencpp/gencpp/msgs"
)

var separator = strings.Repeat("=", 80)

func depNames(deps []*compiler.Dependency) []string {
	names := make([]string, 0, len(deps))
	for _, dep := range deps {
		names = append(names, dep.FullName())
	}
	return names
}

func TestCompilePoint(t *testing.T) {
	t.Parallel()

	point := testutil.ParseMessage(t, "pkg/Point", "int32 x\nint32 y\n")
	result, err := compiler.Compile(point)
	testutil.AssertNoError(t, err)

	testutil.ExpectEq(t, 0, len(result.Dependencies))
	testutil.ExpectTrue(t, result.FixedLength)
	testutil.ExpectEq(t, "int32 x\nint32 y\n", result.Definition)
	testutil.ExpectEq(t, "a563edcdd2fff59e129549ba5c2b8b48", result.MD5.Hex())
	testutil.ExpectEq(t, uint64(0xa563edcdd2fff59e), result.MD5.High())
	testutil.ExpectEq(t, uint64(0x129549ba5c2b8b48), result.MD5.Low())
}

func TestCompileEmpty(t *testing.T) {
	t.Parallel()

	empty := testutil.ParseMessage(t, "std_msgs/Empty", "")
	result, err := compiler.Compile(empty)
	testutil.AssertNoError(t, err)
	testutil.ExpectTrue(t, result.FixedLength)
	testutil.ExpectEq(t, "", result.Definition)
	testutil.ExpectEq(t, "d41d8cd98f00b204e9800998ecf8427e", result.MD5.Hex())
}

func TestCompileWithDependency(t *testing.T) {
	t.Parallel()

	point := testutil.ParseMessage(t, "pkg/Point", "int32 x\nint32 y\n")
	polygon := testutil.ParseMessage(t, "pkg/Polygon", "Point[] points\n")

	result, err := compiler.Compile(polygon, compiler.WithLoader(testutil.NewSpecMap(point)))
	testutil.AssertNoError(t, err)

	testutil.ExpectSliceEq(t, []string{"pkg/Point"}, depNames(result.Dependencies))
	testutil.ExpectFalse(t, result.FixedLength)
	testutil.ExpectNoDiff(t, ""+
		"Point[] points\n"+
		separator+"\n"+
		"MSG: pkg/Point\n"+
		"int32 x\n"+
		"int32 y\n",
		result.Definition,
	)
	testutil.ExpectEq(t, "bac33fa092f10399672278f85f23b188", result.MD5.Hex())
}

func TestDependencyOrder(t *testing.T) {
	t.Parallel()

	loader := testutil.NewSpecMap(
		testutil.ParseMessage(t, "geometry_msgs/Point", "float64 x\nfloat64 y\nfloat64 z\n"),
		testutil.ParseMessage(t, "geometry_msgs/Pose", "Point position\nQuaternion orientation\n"),
		testutil.ParseMessage(t, "geometry_msgs/Quaternion", "float64 x\nfloat64 y\nfloat64 z\nfloat64 w\n"),
		testutil.ParseMessage(t, "nav_msgs/Waypoint", "geometry_msgs/Pose pose\n"),
	)
	route := testutil.ParseMessage(t, "nav_msgs/Route", ""+
		"Waypoint[] waypoints\n"+
		"geometry_msgs/Point origin\n"+
		"geometry_msgs/Pose goal\n",
	)

	deps, err := compiler.ResolveDependencies(route, compiler.WithLoader(loader))
	testutil.AssertNoError(t, err)
	testutil.ExpectSliceEq(t, []string{
		"geometry_msgs/Point",
		"geometry_msgs/Quaternion",
		"geometry_msgs/Pose",
		"nav_msgs/Waypoint",
	}, depNames(deps))
}

func TestCompileHeader(t *testing.T) {
	t.Parallel()

	stamped := testutil.ParseMessage(t, "pkg/Stamped", "Header header\nfloat64 value\n")
	result, err := compiler.Compile(stamped, compiler.WithSpecs(testutil.HeaderSpec(t)))
	testutil.AssertNoError(t, err)

	testutil.ExpectTrue(t, result.Spec.HasHeader())
	testutil.ExpectSliceEq(t, []string{"std_msgs/Header"}, depNames(result.Dependencies))
	testutil.ExpectFalse(t, result.FixedLength)
	testutil.ExpectTrue(t, strings.HasPrefix(result.Definition, "Header header\nfloat64 value\n"))
	testutil.ExpectContains(t, result.Definition, "MSG: std_msgs/Header\nuint32 seq\n")
}

func TestIsFixedLength(t *testing.T) {
	t.Parallel()

	loader := testutil.NewSpecMap(
		testutil.ParseMessage(t, "pkg/Point", "int32 x\nint32 y\n"),
		testutil.ParseMessage(t, "pkg/Named", "string name\n"),
		testutil.ParseMessage(t, "pkg/Stamp", "time t\nduration d\n"),
	)
	tests := []struct {
		src   string
		fixed bool
	}{
		{"int32 x\n", true},
		{"float64[9] covariance\n", true},
		{"time t\nduration d\n", true},
		{"Point p\n", true},
		{"Point[4] corners\n", true},
		{"Stamp s\nPoint p\n", true},
		{"string s\n", false},
		{"string[2] s\n", false},
		{"uint8[] data\n", false},
		{"Point[] points\n", false},
		{"Named n\n", false},
		{"Named[3] n\n", false},
	}
	for _, test := range tests {
		t.Run(test.src, func(t *testing.T) {
			spec := testutil.ParseMessage(t, "pkg/Test", test.src)
			fixed, err := compiler.IsFixedLength(spec, compiler.WithLoader(loader))
			testutil.AssertNoError(t, err)
			testutil.ExpectEq(t, test.fixed, fixed)
		})
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	t.Parallel()

	base := "int32 x\nint32 y\nint32 MAX=1\n"
	variants := []string{
		"int32 x\nint32 z\nint32 MAX=1\n",
		"int32 x\nint64 y\nint32 MAX=1\n",
		"int32 y\nint32 x\nint32 MAX=1\n",
		"int32 x\nint32 y\nint32 MAX=2\n",
		"int32 x\nint32 y\n",
	}

	baseResult, err := compiler.Compile(testutil.ParseMessage(t, "pkg/Msg", base))
	testutil.AssertNoError(t, err)

	again, err := compiler.Compile(testutil.ParseMessage(t, "pkg/Msg", base))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, baseResult.MD5, again.MD5)

	// Comments and blank lines are not part of the definition.
	commented, err := compiler.Compile(testutil.ParseMessage(t, "pkg/Msg", "# hi\nint32 x # x\n\nint32 y\nint32 MAX = 1\n"))
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, baseResult.MD5, commented.MD5)

	for _, variant := range variants {
		result, err := compiler.Compile(testutil.ParseMessage(t, "pkg/Msg", variant))
		testutil.AssertNoError(t, err)
		testutil.ExpectNe(t, baseResult.MD5, result.MD5)
	}
}

func TestCompileService(t *testing.T) {
	t.Parallel()

	srv := testutil.ParseService(t, "rospy_tutorials/AddTwoInts", "int64 a\nint64 b\n---\nint64 sum\n")
	result, err := compiler.CompileService(srv)
	testutil.AssertNoError(t, err)

	testutil.ExpectEq(t, "int64 a\nint64 b\n", result.Request.Definition)
	testutil.ExpectEq(t, "int64 sum\n", result.Response.Definition)
	testutil.ExpectEq(t, "d4271eafec179c2b77a9f8ef7d97604d", result.MD5.Hex())
	testutil.ExpectEq(t,
		compiler.ComputeFingerprint(result.Request.Definition+result.Response.Definition),
		result.MD5,
	)
}

func TestDependencyCycle(t *testing.T) {
	t.Parallel()

	loader := testutil.NewSpecMap(
		testutil.ParseMessage(t, "pkg/A", "B b\n"),
		testutil.ParseMessage(t, "pkg/B", "A a\n"),
	)
	a, _ := loader.LoadMessage("pkg/A")
	_, err := compiler.Compile(a, compiler.WithLoader(loader))

	var compileErr *compiler.Error
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *compiler.Error, got: %v", err)
	}
	testutil.ExpectEq(t, uint32(3002), compileErr.Code())
	testutil.ExpectContains(t, compileErr.Message(), "pkg/A -> pkg/B -> pkg/A")
}

func TestSelfReference(t *testing.T) {
	t.Parallel()

	node := testutil.ParseMessage(t, "pkg/Node", "Node[] children\n")
	_, err := compiler.Compile(node)

	var compileErr *compiler.Error
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *compiler.Error, got: %v", err)
	}
	testutil.ExpectEq(t, uint32(3002), compileErr.Code())
}

func TestMissingSpec(t *testing.T) {
	t.Parallel()

	spec := testutil.ParseMessage(t, "pkg/A", "int32 x\nother_pkg/Missing m\n")
	_, err := compiler.Compile(spec, compiler.WithLoader(testutil.NewSpecMap()))

	var missing *compiler.MissingSpecError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *compiler.MissingSpecError, got: %v", err)
	}
	testutil.ExpectEq(t, "other_pkg/Missing", missing.TypeName())
	testutil.ExpectEq(t, "pkg/A", missing.ReferencedBy())
	testutil.ExpectEq(t, uint32(3001), missing.Code())
}

func TestMissingLoader(t *testing.T) {
	t.Parallel()

	spec := testutil.ParseMessage(t, "pkg/A", "Point p\n")
	_, err := compiler.Compile(spec)

	var missing *compiler.MissingSpecError
	if !errors.As(err, &missing) {
		t.Fatalf("expected *compiler.MissingSpecError, got: %v", err)
	}
	testutil.ExpectEq(t, "pkg/Point", missing.TypeName())
}

type renamingLoader struct{}

func (renamingLoader) LoadMessage(fullName string) (*msgs.MessageSpec, error) {
	return msgs.NewMessageSpec("pkg/Other", nil, nil)
}

func TestSpecNameMismatch(t *testing.T) {
	t.Parallel()

	spec := testutil.ParseMessage(t, "pkg/A", "Point p\n")
	_, err := compiler.Compile(spec, compiler.WithLoader(renamingLoader{}))

	var compileErr *compiler.Error
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected *compiler.Error, got: %v", err)
	}
	testutil.ExpectEq(t, uint32(3003), compileErr.Code())
}

func TestLoaderErrorPassthrough(t *testing.T) {
	t.Parallel()

	loadErr := errors.New("permission denied")
	spec := testutil.ParseMessage(t, "pkg/A", "Point p\n")
	_, err := compiler.Compile(spec, compiler.WithLoader(failingLoader{loadErr}))
	testutil.ExpectTrue(t, errors.Is(err, loadErr))

	var missing *compiler.MissingSpecError
	testutil.ExpectFalse(t, errors.As(err, &missing))
}

type failingLoader struct {
	err error
}

func (l failingLoader) LoadMessage(string) (*msgs.MessageSpec, error) {
	return nil, l.err
}

func TestEscapeLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text    string
		literal string
	}{
		{"", ""},
		{"int32 x\n", "int32 x\\n\\\n"},
		{"a\nb\n", "a\\n\\\nb\\n\\\n"},
		{"string S=say \"hi\"\n", "string S=say \\\"hi\\\"\\n\\\n"},
		{"string S=C:\\dir\n", "string S=C:\\\\dir\\n\\\n"},
		{"no newline", "no newline\\\n"},
	}
	for _, test := range tests {
		literal := compiler.EscapeLiteral(test.text)
		testutil.ExpectEq(t, test.literal, literal)

		text, err := compiler.UnescapeLiteral(literal)
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, test.text, text)
	}

	_, err := compiler.UnescapeLiteral(`bad\q`)
	testutil.ExpectTrue(t, err != nil)
}
