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

package cppgen_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/ros/gencpp/gencpp/codegen/cppgen"
	"github.com/ros/gencpp/gencpp/compiler"
	"github.com/ros/gencpp/gencpp/internal/testutil"
	"github.com/ros/gencpp/gencpp/msgs"
)

var testdata fs.FS

func init() {
	var err error
	testdata, err = testutil.TestdataFS()
	if err != nil {
		panic(err)
	}
}

func compile(t *testing.T, spec *msgs.MessageSpec, deps ...*msgs.MessageSpec) *compiler.Result {
	t.Helper()
	result, err := compiler.Compile(spec, compiler.WithSpecs(deps...))
	testutil.AssertNoError(t, err)
	return result
}

func emit(t *testing.T, spec *msgs.MessageSpec, deps ...*msgs.MessageSpec) string {
	t.Helper()
	file := cppgen.GenerateMessage(compile(t, spec, deps...), spec.ShortName()+".msg")
	return string(file.Content)
}

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typeName string
		cppType  string
	}{
		{"byte", "int8_t"},
		{"int8", "int8_t"},
		{"char", "uint8_t"},
		{"uint8", "uint8_t"},
		{"bool", "uint8_t"},
		{"int16", "int16_t"},
		{"uint16", "uint16_t"},
		{"int32", "int32_t"},
		{"uint32", "uint32_t"},
		{"int64", "int64_t"},
		{"uint64", "uint64_t"},
		{"float32", "float"},
		{"float64", "double"},
		{"string", cppgen.StringType},
		{"time", "ros::Time"},
		{"duration", "ros::Duration"},
		{"Point", "::my_msgs::Point_<ContainerAllocator>"},
		{"geometry_msgs/Pose", "::geometry_msgs::Pose_<ContainerAllocator>"},
		{"Header", "::std_msgs::Header_<ContainerAllocator>"},
		{"std_msgs/Header", "::std_msgs::Header_<ContainerAllocator>"},
		{"float64[9]", "boost::array< double, 9 >"},
		{"uint8[]", "std::vector< uint8_t, typename ContainerAllocator::template rebind< uint8_t >::other >"},
		{
			"Point[]",
			"std::vector< ::my_msgs::Point_<ContainerAllocator>, typename ContainerAllocator::template rebind< ::my_msgs::Point_<ContainerAllocator> >::other >",
		},
		{"geometry_msgs/Pose[2]", "boost::array< ::geometry_msgs::Pose_<ContainerAllocator>, 2 >"},
	}
	for _, test := range tests {
		t.Run(test.typeName, func(t *testing.T) {
			field, err := msgs.NewField(test.typeName, "f")
			testutil.AssertNoError(t, err)
			testutil.ExpectEq(t, test.cppType, cppgen.MapType(field, "my_msgs"))
		})
	}
}

func TestGeneratePointGolden(t *testing.T) {
	t.Parallel()

	src, err := fs.ReadFile(testdata, "msg/my_msgs/Point.msg")
	testutil.AssertNoError(t, err)
	expect, err := fs.ReadFile(testdata, "cpp/my_msgs/Point.h")
	testutil.AssertNoError(t, err)

	point := testutil.ParseMessage(t, "my_msgs/Point", string(src))
	file := cppgen.GenerateMessage(compile(t, point), "Point.msg")
	testutil.ExpectEq(t, "Point.h", file.Path)
	testutil.ExpectNoDiff(t, string(expect), string(file.Content))
}

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	src := "Header header\nstring[] names\nfloat64[3] xyz\nint32 MAX=3\n"
	first := emit(t, testutil.ParseMessage(t, "my_msgs/Det", src), testutil.HeaderSpec(t))
	second := emit(t, testutil.ParseMessage(t, "my_msgs/Det", src), testutil.HeaderSpec(t))
	testutil.ExpectNoDiff(t, first, second)
}

func TestStringArrayField(t *testing.T) {
	t.Parallel()

	out := emit(t, testutil.ParseMessage(t, "my_msgs/Names", "string[] names\n"))
	vectorType := "std::vector< " + cppgen.StringType +
		", typename ContainerAllocator::template rebind< " + cppgen.StringType + " >::other >"

	testutil.ExpectContains(t, out, "  typedef "+vectorType+" _names_type;\n")
	testutil.ExpectContains(t, out, "  "+vectorType+" names;\n")
	testutil.ExpectContains(t, out, "  Names_()\n    : names()\n  {\n  }\n")
	testutil.ExpectContains(t, out, "  Names_(const ContainerAllocator& _alloc)\n    : names(_alloc)\n  {\n  }\n")
	testutil.ExpectContains(t, out, ""+
		"    s << indent << \"names[]\" << std::endl;\n"+
		"    for (size_t i = 0; i < v.names.size(); ++i)\n"+
		"    {\n"+
		"      s << indent << \"  names[\" << i << \"]: \";\n"+
		"      Printer< "+cppgen.StringType+" >::stream(s, indent + \"  \", v.names[i]);\n"+
		"    }\n",
	)
	testutil.ExpectNotContains(t, out, "HasHeader")
}

func TestHeaderField(t *testing.T) {
	t.Parallel()

	header := testutil.HeaderSpec(t)
	out := emit(t, testutil.ParseMessage(t, "my_msgs/Stamped", "std_msgs/Header header\n"), header)

	testutil.ExpectContains(t, out, "#include <std_msgs/Header.h>\n")
	testutil.ExpectContains(t, out, "  typedef ::std_msgs::Header_<ContainerAllocator> _header_type;\n")
	testutil.ExpectContains(t, out, "  Stamped_()\n    : header()\n")
	testutil.ExpectContains(t, out, "  Stamped_(const ContainerAllocator& _alloc)\n    : header(_alloc)\n")
	testutil.ExpectContains(t, out, ""+
		"template<class ContainerAllocator> struct HasHeader< ::my_msgs::Stamped_<ContainerAllocator> > : public TrueType {};\n"+
		"template<class ContainerAllocator> struct HasHeader< ::my_msgs::Stamped_<ContainerAllocator> const> : public TrueType {};\n",
	)
	testutil.ExpectContains(t, out, ""+
		"    s << indent << \"header: \";\n"+
		"    s << std::endl;\n"+
		"    Printer< ::std_msgs::Header_<ContainerAllocator> >::stream(s, indent + \"  \", v.header);\n",
	)
	testutil.ExpectContains(t, out, ""+
		"    return \"std_msgs/Header header\\n\\\n"+
		"================================================================================\\n\\\n"+
		"MSG: std_msgs/Header\\n\\\n"+
		"uint32 seq\\n\\\n"+
		"time stamp\\n\\\n"+
		"string frame_id\\n\\\n"+
		"\";\n",
	)
}

func TestIncludeOrder(t *testing.T) {
	t.Parallel()

	point := testutil.ParseMessage(t, "geometry_msgs/Point", "float64 x\nfloat64 y\nfloat64 z\n")
	pose := testutil.ParseMessage(t, "geometry_msgs/Pose", "Point position\n")
	out := emit(t,
		testutil.ParseMessage(t, "nav_msgs/Path", "Header header\ngeometry_msgs/Pose[] poses\n"),
		testutil.HeaderSpec(t), point, pose,
	)
	testutil.ExpectContains(t, out, ""+
		"#include <ros/message_operations.h>\n"+
		"\n"+
		"#include <std_msgs/Header.h>\n"+
		"#include <geometry_msgs/Point.h>\n"+
		"#include <geometry_msgs/Pose.h>\n"+
		"\n"+
		"namespace nav_msgs\n",
	)
	testutil.ExpectContains(t, out, ""+
		"      s << std::endl;\n"+
		"      s << indent;\n"+
		"      Printer< ::geometry_msgs::Pose_<ContainerAllocator> >::stream(s, indent + \"    \", v.poses[i]);\n",
	)
}

func TestSerializerFieldOrder(t *testing.T) {
	t.Parallel()

	out := emit(t, testutil.ParseMessage(t, "my_msgs/Order", ""+
		"uint8 c\n"+
		"int32 FIRST=1\n"+
		"float64 a\n"+
		"string NAME=x\n"+
		"time b\n",
	))
	testutil.ExpectContains(t, out, ""+
		"  template<typename Stream, typename T> inline static void allInOne(Stream& stream, T m)\n"+
		"  {\n"+
		"    stream.next(m.c);\n"+
		"    stream.next(m.a);\n"+
		"    stream.next(m.b);\n"+
		"  }\n",
	)
	testutil.ExpectNotContains(t, out, "stream.next(m.FIRST)")
	testutil.ExpectNotContains(t, out, "stream.next(m.NAME)")
}

func TestConstants(t *testing.T) {
	t.Parallel()

	out := emit(t, testutil.ParseMessage(t, "my_msgs/Consts", ""+
		"int8 LOW=-1\n"+
		"uint64 HIGH=18446744073709551615\n"+
		"float64 PI=3.14159\n"+
		"bool ON=True\n"+
		"string GREETING=say \"hi\"\n",
	))
	testutil.ExpectContains(t, out, ""+
		"  enum { LOW = -1 };\n"+
		"  enum { HIGH = 18446744073709551615 };\n"+
		"  static const double PI;\n"+
		"  static const uint8_t ON;\n"+
		"  static const "+cppgen.StringType+" GREETING;\n",
	)
	testutil.ExpectContains(t, out, ""+
		"template <class ContainerAllocator>\n"+
		"const double Consts_<ContainerAllocator>::PI = 3.14159;\n",
	)
	testutil.ExpectContains(t, out, "const uint8_t Consts_<ContainerAllocator>::ON = 1;\n")
	testutil.ExpectContains(t, out, "::GREETING = \"say \\\"hi\\\"\";\n")
}

func TestFixedArrays(t *testing.T) {
	t.Parallel()

	point := testutil.ParseMessage(t, "my_msgs/Point", "int32 x\nint32 y\n")
	out := emit(t, testutil.ParseMessage(t, "my_msgs/Fixed", ""+
		"float64[9] covariance\n"+
		"string[2] labels\n"+
		"Point[4] corners\n"+
		"time[2] stamps\n"+
		"bool[3] flags\n",
	), point)

	testutil.ExpectContains(t, out, ""+
		"  Fixed_()\n"+
		"    : covariance()\n"+
		"    , labels()\n"+
		"    , corners()\n"+
		"    , stamps()\n"+
		"    , flags()\n"+
		"  {\n"+
		"    covariance.assign(0.0);\n"+
		"    labels.assign("+cppgen.StringType+"());\n"+
		"    corners.assign(::my_msgs::Point_<ContainerAllocator>());\n"+
		"    flags.assign(false);\n"+
		"  }\n",
	)
	testutil.ExpectContains(t, out, ""+
		"  Fixed_(const ContainerAllocator& _alloc)\n"+
		"    : covariance()\n"+
		"    , labels()\n"+
		"    , corners()\n"+
		"    , stamps()\n"+
		"    , flags()\n"+
		"  {\n"+
		"    covariance.assign(0.0);\n"+
		"    labels.assign("+cppgen.StringType+"(_alloc));\n"+
		"    corners.assign(::my_msgs::Point_<ContainerAllocator>(_alloc));\n"+
		"    flags.assign(false);\n"+
		"  }\n",
	)
	testutil.ExpectNotContains(t, out, "stamps.assign")
}

func TestScalarInitializers(t *testing.T) {
	t.Parallel()

	point := testutil.ParseMessage(t, "my_msgs/Point", "int32 x\nint32 y\n")
	out := emit(t, testutil.ParseMessage(t, "my_msgs/Mixed", ""+
		"uint8 a\n"+
		"float32 b\n"+
		"bool c\n"+
		"string d\n"+
		"time e\n"+
		"duration f\n"+
		"Point g\n",
	), point)

	testutil.ExpectContains(t, out, ""+
		"  Mixed_()\n"+
		"    : a(0)\n"+
		"    , b(0.0)\n"+
		"    , c(false)\n"+
		"    , d()\n"+
		"    , e()\n"+
		"    , f()\n"+
		"    , g()\n",
	)
	testutil.ExpectContains(t, out, ""+
		"  Mixed_(const ContainerAllocator& _alloc)\n"+
		"    : a(0)\n"+
		"    , b(0.0)\n"+
		"    , c(false)\n"+
		"    , d(_alloc)\n"+
		"    , e()\n"+
		"    , f()\n"+
		"    , g(_alloc)\n",
	)
}

func TestEmptyMessage(t *testing.T) {
	t.Parallel()

	out := emit(t, testutil.ParseMessage(t, "std_msgs/Empty", ""))
	testutil.ExpectContains(t, out, "  Empty_()\n  {\n  }\n")
	testutil.ExpectContains(t, out, "    return \"d41d8cd98f00b204e9800998ecf8427e\";\n")
	testutil.ExpectContains(t, out, "    return \"\";\n")
	testutil.ExpectContains(t, out, "inline static void allInOne(Stream& stream, T m)\n  {\n  }\n")
}

func TestGuardName(t *testing.T) {
	t.Parallel()

	lines := cppgen.EmitMessage(compile(t, testutil.ParseMessage(t, "my_msgs2/Point3d", "")), "Point3d.msg")
	testutil.ExpectEq(t, "/* Auto-generated by gencpp for file Point3d.msg */", lines[0])
	testutil.ExpectEq(t, "#ifndef MY_MSGS2_MESSAGE_POINT3D_H", lines[1])
	testutil.ExpectEq(t, "#define MY_MSGS2_MESSAGE_POINT3D_H", lines[2])
	testutil.ExpectEq(t, "#endif // MY_MSGS2_MESSAGE_POINT3D_H", lines[len(lines)-1])
}

func TestGenerateService(t *testing.T) {
	t.Parallel()

	src, err := fs.ReadFile(testdata, "srv/my_msgs/AddTwoInts.srv")
	testutil.AssertNoError(t, err)
	srv := testutil.ParseService(t, "my_msgs/AddTwoInts", string(src))
	result, err := compiler.CompileService(srv)
	testutil.AssertNoError(t, err)

	files := cppgen.GenerateService(result, "AddTwoInts.srv")
	if len(files) != 3 {
		t.Fatalf("expected 3 output files, got %d", len(files))
	}
	testutil.ExpectEq(t, "AddTwoIntsRequest.h", files[0].Path)
	testutil.ExpectEq(t, "AddTwoIntsResponse.h", files[1].Path)
	testutil.ExpectEq(t, "AddTwoInts.h", files[2].Path)

	request := string(files[0].Content)
	testutil.ExpectContains(t, request, "#ifndef MY_MSGS_MESSAGE_ADDTWOINTSREQUEST_H\n")
	testutil.ExpectContains(t, request, "    return \"81c207b89fc46a3422318ff3ded86fd3\";\n")
	testutil.ExpectContains(t, request, "    stream.next(m.a);\n    stream.next(m.b);\n")

	service := string(files[2].Content)
	testutil.ExpectContains(t, service, "/* Auto-generated by gencpp for file AddTwoInts.srv */\n")
	testutil.ExpectContains(t, service, "#ifndef MY_MSGS_SERVICE_ADDTWOINTS_H\n")
	testutil.ExpectContains(t, service, ""+
		"#include <my_msgs/AddTwoIntsRequest.h>\n"+
		"#include <my_msgs/AddTwoIntsResponse.h>\n",
	)
	testutil.ExpectContains(t, service, ""+
		"struct AddTwoInts\n"+
		"{\n"+
		"  typedef AddTwoIntsRequest Request;\n"+
		"  typedef AddTwoIntsResponse Response;\n",
	)
	testutil.ExpectContains(t, service, ""+
		"template<>\n"+
		"struct MD5Sum< ::my_msgs::AddTwoInts >\n"+
		"{\n"+
		"  static const char* value()\n"+
		"  {\n"+
		"    return \"33a3102455a3059ded9c1b342ae0f976\";\n"+
		"  }\n",
	)
	testutil.ExpectContains(t, service, "    return \"my_msgs/AddTwoInts\";\n")
	testutil.ExpectContains(t, service, ""+
		"struct DataType< ::my_msgs::AddTwoIntsResponse_<ContainerAllocator> >\n"+
		"{\n"+
		"  static const char* value()\n"+
		"  {\n"+
		"    return DataType< ::my_msgs::AddTwoInts >::value();\n"+
		"  }\n",
	)
	testutil.ExpectTrue(t, strings.HasSuffix(service, "#endif // MY_MSGS_SERVICE_ADDTWOINTS_H\n"))
}
