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

package cppgen

import (
	"fmt"
	"strconv"

	"github.com/ros/gencpp/gencpp/compiler"
	"github.com/ros/gencpp/gencpp/msgs"
)

var (
	stdIncludes = []string{
		"string",
		"vector",
		"map",
	}
	rosIncludes = []string{
		"ros/types.h",
		"ros/serialization.h",
		"ros/builtin_message_traits.h",
		"ros/message_operations.h",
	}
)

// EmitMessage returns the lines of the C++ header for a compiled message.
func EmitMessage(res *compiler.Result, sourceFile string) []string {
	e := &messageEmitter{
		res:        res,
		spec:       res.Spec,
		sourceFile: sourceFile,
	}
	e.structName = e.spec.ShortName() + "_"
	e.cppName = qualifiedName(e.spec.FullName()) + "_"
	e.cppType = e.cppName + "<ContainerAllocator>"
	e.emit()
	return e.lines
}

type messageEmitter struct {
	writer
	res        *compiler.Result
	spec       *msgs.MessageSpec
	sourceFile string

	structName string // Name_
	cppName    string // ::pkg::Name_
	cppType    string // ::pkg::Name_<ContainerAllocator>
}

func (e *messageEmitter) emit() {
	guard := guardName(e.spec.Package(), "MESSAGE", e.spec.ShortName())

	e.banner(e.sourceFile)
	e.linef("#ifndef %s", guard)
	e.linef("#define %s", guard)
	e.line("")
	e.emitIncludes()

	e.linef("namespace %s", e.spec.Package())
	e.line("{")
	e.emitStruct()
	e.emitConstantDefinitions()
	e.emitTypedefs()
	e.emitOstreamOperator()
	e.line("")
	e.linef("} // namespace %s", e.spec.Package())
	e.line("")

	e.emitTraits()
	e.emitSerializer()
	e.emitPrinter()

	e.linef("#endif // %s", guard)
}

func (e *messageEmitter) emitIncludes() {
	for _, inc := range stdIncludes {
		e.linef("#include <%s>", inc)
	}
	e.line("")
	for _, inc := range rosIncludes {
		e.linef("#include <%s>", inc)
	}
	e.line("")
	if len(e.res.Dependencies) == 0 {
		return
	}
	for _, dep := range e.res.Dependencies {
		e.linef("#include <%s/%s%s>", dep.Package, dep.Name, headerExt)
	}
	e.line("")
}

func (e *messageEmitter) emitStruct() {
	e.line("template <class ContainerAllocator>")
	e.linef("struct %s", e.structName)
	e.line("{")
	e.indent++
	e.linef("typedef %s<ContainerAllocator> Type;", e.structName)
	e.line("")

	e.emitConstructor(false)
	e.line("")
	e.emitConstructor(true)
	e.line("")

	for _, field := range e.spec.Fields() {
		cppType := MapType(field, e.spec.Package())
		e.linef("typedef %s _%s_type;", cppType, field.Name())
		e.linef("%s %s;", cppType, field.Name())
		e.line("")
	}

	if constants := e.spec.Constants(); len(constants) > 0 {
		for _, constant := range constants {
			if isEnumConstant(constant.Type()) {
				e.linef("enum { %s = %s };", constant.Name(), constant.Value())
			} else {
				e.linef(
					"static const %s %s;",
					MapBaseType(constant.Type(), e.spec.Package()),
					constant.Name(),
				)
			}
		}
		e.line("")
	}

	e.linef("typedef boost::shared_ptr< %s > Ptr;", e.cppType)
	e.linef("typedef boost::shared_ptr< %s const> ConstPtr;", e.cppType)
	e.line("boost::shared_ptr<std::map<std::string, std::string> > __connection_header;")
	e.indent--
	e.linef("}; // struct %s", e.structName)
}

func (e *messageEmitter) emitConstructor(withAlloc bool) {
	if withAlloc {
		e.linef("%s(const ContainerAllocator& _alloc)", e.structName)
	} else {
		e.linef("%s()", e.structName)
	}

	e.indent++
	sep := ":"
	for _, field := range e.spec.Fields() {
		e.linef("%s %s(%s)", sep, field.Name(), initializer(field, withAlloc))
		sep = ","
	}
	e.indent--

	e.line("{")
	e.indent++
	for _, field := range e.spec.Fields() {
		if value := e.fixedArrayFill(field, withAlloc); value != "" {
			e.linef("%s.assign(%s);", field.Name(), value)
		}
	}
	e.indent--
	e.line("}")
}

// initializer is the member-initializer argument for field.
func initializer(field *msgs.Field, withAlloc bool) string {
	if field.IsArray() {
		if _, bounded := field.ArrayLen(); !bounded && withAlloc {
			return "_alloc"
		}
		return ""
	}
	if withAlloc && takesAllocator(field.BaseType()) {
		return "_alloc"
	}
	return defaultValue(field.BaseType())
}

// fixedArrayFill is the element value assigned to every slot of a bounded
// array field, or "" if the field needs no assignment.
func (e *messageEmitter) fixedArrayFill(field *msgs.Field, withAlloc bool) string {
	if _, bounded := field.ArrayLen(); !bounded {
		return ""
	}
	baseType := field.BaseType()
	if baseType == "string" || !field.IsBuiltin() {
		elem := MapBaseType(baseType, e.spec.Package())
		if withAlloc {
			return elem + "(_alloc)"
		}
		return elem + "()"
	}
	return defaultValue(baseType)
}

// emitConstantDefinitions defines the static data members declared for
// non-integer constants.
func (e *messageEmitter) emitConstantDefinitions() {
	for _, constant := range e.spec.Constants() {
		if isEnumConstant(constant.Type()) {
			continue
		}
		e.line("")
		e.line("template <class ContainerAllocator>")
		e.linef(
			"const %s %s<ContainerAllocator>::%s = %s;",
			MapBaseType(constant.Type(), e.spec.Package()),
			e.structName,
			constant.Name(),
			constantLiteral(constant),
		)
	}
}

func constantLiteral(constant *msgs.Constant) string {
	switch constant.Type() {
	case "string":
		return quoteCpp(constant.Value())
	case "bool":
		if value, _ := strconv.ParseBool(constant.Value()); value {
			return "1"
		}
		return "0"
	}
	return constant.Value()
}

func (e *messageEmitter) emitTypedefs() {
	name := e.spec.ShortName()
	plain := qualifiedName(e.spec.FullName())
	e.line("")
	e.linef("typedef %s<std::allocator<void> > %s;", e.cppName, name)
	e.line("")
	e.linef("typedef boost::shared_ptr< %s > %sPtr;", plain, name)
	e.linef("typedef boost::shared_ptr< %s const> %sConstPtr;", plain, name)
}

func (e *messageEmitter) emitOstreamOperator() {
	e.line("")
	e.line("template<typename ContainerAllocator>")
	e.linef("std::ostream& operator<<(std::ostream& s, const %s & v)", e.cppType)
	e.line("{")
	e.indent++
	e.linef(`ros::message_operations::Printer< %s >::stream(s, "", v);`, e.cppType)
	e.line("return s;")
	e.indent--
	e.line("}")
}

func (e *messageEmitter) emitTraits() {
	e.line("namespace ros")
	e.line("{")
	e.line("namespace message_traits")
	e.line("{")

	markers := []string{"IsMessage"}
	if e.spec.HasHeader() {
		markers = append(markers, "HasHeader")
	}
	for _, marker := range markers {
		e.line("")
		e.linef("template<class ContainerAllocator> struct %s< %s > : public TrueType {};", marker, e.cppType)
		e.linef("template<class ContainerAllocator> struct %s< %s const> : public TrueType {};", marker, e.cppType)
	}

	const head = "template<class ContainerAllocator>"
	md5 := e.res.MD5
	e.stringTrait(head, "MD5Sum", e.cppType, md5.Hex(),
		fmt.Sprintf("static const uint64_t static_value1 = 0x%016xULL;", md5.High()),
		fmt.Sprintf("static const uint64_t static_value2 = 0x%016xULL;", md5.Low()),
	)
	e.stringTrait(head, "DataType", e.cppType, e.spec.FullName())
	e.stringTrait(head, "Definition", e.cppType, compiler.EscapeLiteral(e.res.Definition))

	e.line("")
	e.line("} // namespace message_traits")
	e.line("} // namespace ros")
	e.line("")
}

func (e *messageEmitter) emitSerializer() {
	e.line("namespace ros")
	e.line("{")
	e.line("namespace serialization")
	e.line("{")
	e.line("")
	e.linef("template<class ContainerAllocator> struct Serializer< %s >", e.cppType)
	e.line("{")
	e.indent++
	e.line("template<typename Stream, typename T> inline static void allInOne(Stream& stream, T m)")
	e.line("{")
	e.indent++
	for _, field := range e.spec.Fields() {
		e.linef("stream.next(m.%s);", field.Name())
	}
	e.indent--
	e.line("}")
	e.line("")
	e.line("ROS_DECLARE_ALLINONE_SERIALIZER;")
	e.indent--
	e.linef("}; // struct %s", e.structName)
	e.line("")
	e.line("} // namespace serialization")
	e.line("} // namespace ros")
	e.line("")
}

func (e *messageEmitter) emitPrinter() {
	e.line("namespace ros")
	e.line("{")
	e.line("namespace message_operations")
	e.line("{")
	e.line("")
	e.line("template<class ContainerAllocator>")
	e.linef("struct Printer< %s >", e.cppType)
	e.line("{")
	e.indent++
	e.linef("template<typename Stream> static void stream(Stream& s, const std::string& indent, const %s& v)", e.cppType)
	e.line("{")
	e.indent++
	for _, field := range e.spec.Fields() {
		e.emitPrintField(field)
	}
	e.indent--
	e.line("}")
	e.indent--
	e.line("};")
	e.line("")
	e.line("} // namespace message_operations")
	e.line("} // namespace ros")
	e.line("")
}

func (e *messageEmitter) emitPrintField(field *msgs.Field) {
	name := field.Name()
	elem := MapBaseType(field.BaseType(), e.spec.Package())
	if !field.IsArray() {
		e.linef(`s << indent << "%s: ";`, name)
		if !field.IsBuiltin() {
			e.line("s << std::endl;")
		}
		e.linef(`Printer< %s >::stream(s, indent + "  ", v.%s);`, elem, name)
		return
	}

	e.linef(`s << indent << "%s[]" << std::endl;`, name)
	e.linef("for (size_t i = 0; i < v.%s.size(); ++i)", name)
	e.line("{")
	e.indent++
	e.linef(`s << indent << "  %s[" << i << "]: ";`, name)
	step := "  "
	if !field.IsBuiltin() {
		e.line("s << std::endl;")
		e.line("s << indent;")
		step = "    "
	}
	e.linef(`Printer< %s >::stream(s, indent + "%s", v.%s[i]);`, elem, step, name)
	e.indent--
	e.line("}")
}
