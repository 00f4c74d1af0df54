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
	"github.com/ros/gencpp/gencpp/compiler"
	"github.com/ros/gencpp/gencpp/msgs"
)

// EmitService returns the lines of the service header, which ties the
// request and response types together under the service's name. The request
// and response headers are emitted separately with EmitMessage.
func EmitService(res *compiler.ServiceResult, sourceFile string) []string {
	spec := res.Spec
	pkg := spec.Package()
	name := spec.ShortName()
	guard := guardName(pkg, "SERVICE", name)
	request := res.Request.Spec
	response := res.Response.Spec
	srvType := qualifiedName(spec.FullName())

	w := &writer{}
	w.banner(sourceFile)
	w.linef("#ifndef %s", guard)
	w.linef("#define %s", guard)
	w.line("")
	w.line("#include <ros/service_traits.h>")
	w.line("")
	w.linef("#include <%s/%s%s>", pkg, request.ShortName(), headerExt)
	w.linef("#include <%s/%s%s>", pkg, response.ShortName(), headerExt)
	w.line("")

	w.linef("namespace %s", pkg)
	w.line("{")
	w.line("")
	w.linef("struct %s", name)
	w.line("{")
	w.indent++
	w.linef("typedef %s Request;", request.ShortName())
	w.linef("typedef %s Response;", response.ShortName())
	w.line("Request request;")
	w.line("Response response;")
	w.line("")
	w.line("typedef Request RequestType;")
	w.line("typedef Response ResponseType;")
	w.indent--
	w.linef("}; // struct %s", name)
	w.line("")
	w.linef("} // namespace %s", pkg)
	w.line("")

	w.line("namespace ros")
	w.line("{")
	w.line("namespace service_traits")
	w.line("{")

	w.stringTrait("template<>", "MD5Sum", srvType, res.MD5.Hex())
	w.stringTrait("template<>", "DataType", srvType, spec.FullName())
	for _, sub := range []*msgs.MessageSpec{request, response} {
		subType := qualifiedName(sub.FullName()) + "_<ContainerAllocator>"
		for _, trait := range []string{"MD5Sum", "DataType"} {
			w.line("")
			w.line("template<class ContainerAllocator>")
			w.linef("struct %s< %s >", trait, subType)
			w.line("{")
			w.indent++
			w.line("static const char* value()")
			w.line("{")
			w.indent++
			w.linef("return %s< %s >::value();", trait, srvType)
			w.indent--
			w.line("}")
			w.linef("static const char* value(const %s&)", subType)
			w.line("{")
			w.indent++
			w.line("return value();")
			w.indent--
			w.line("}")
			w.indent--
			w.line("};")
		}
	}

	w.line("")
	w.line("} // namespace service_traits")
	w.line("} // namespace ros")
	w.line("")
	w.linef("#endif // %s", guard)
	return w.lines
}
