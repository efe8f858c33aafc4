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

package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/schema"
	"go.tl-lang.org/tl/syntax"
)

func (g *generator) emitNamespace(ns *schema.Namespace) []*goFile {
	var files []*goFile
	if len(ns.Types) > 0 {
		files = append(files, g.emitBase(ns))
	}
	if len(ns.Constructors) > 0 {
		f := g.newFile(fileName("types", ns.Name))
		for _, c := range ns.Constructors {
			g.emitCombinator(f, c)
		}
		files = append(files, f)
	}
	if len(ns.Functions) > 0 {
		f := g.newFile(fileName("functions", ns.Name))
		for _, c := range ns.Functions {
			g.emitCombinator(f, c)
		}
		files = append(files, f)
	}
	return files
}

func (g *generator) emitBase(ns *schema.Namespace) *goFile {
	f := g.newFile(fileName("base", ns.Name))
	f.useRuntime()
	for _, ref := range ns.Types {
		class := g.classes[ref]
		var members []string
		for _, c := range g.model.TypeConstructors[ref] {
			members = append(members, g.structs[c])
		}
		f.printf("// %s is the TL type %s, implemented by %s.\n", class, ref, joinNames(members))
		f.printf("type %s interface {\n\ttl.Object\n\t%s()\n}\n\n", class, markerMethod(ref))
	}
	return f
}

func markerMethod(ref schema.TypeRef) string {
	return "is" + syntax.GoName(ref.String())
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}

func (g *generator) emitCombinator(f *goFile, c *schema.Combinator) {
	name := g.structs[c]
	f.useRuntime()
	f.use("iter")

	kind := "constructor"
	if c.IsFunction() {
		kind = "function"
	}
	f.printf("// %s is the TL %s\n//\n//\t%s\n", name, kind, c.String())
	f.printf("type %s struct {\n", name)
	for _, field := range c.SortedFields() {
		if goName, ok := g.fields[field]; ok {
			f.printf("\t%s %s\n", goName, g.fieldType(field))
		}
	}
	f.printf("}\n\n")

	f.printf("const %sTypeID uint32 = 0x%08x\n\n", name, c.ID)
	if c.IsFunction() {
		f.printf("var _ tl.Object = (*%s)(nil)\n\n", name)
	} else {
		f.printf("var _ %s = (*%s)(nil)\n\n", g.classes[c.Result], name)
	}
	f.printf("func (*%s) TypeID() uint32 { return %sTypeID }\n\n", name, name)
	f.printf("func (*%s) TypeName() string { return %q }\n\n", name, c.QualifiedName())
	if !c.IsFunction() {
		f.printf("func (*%s) %s() {}\n\n", name, markerMethod(c.Result))
	}

	g.emitBareLength(f, c)
	g.emitEncodeBare(f, c)
	g.emitDecodeBare(f, c)
	g.emitFields(f, c)
	if c.IsFunction() {
		f.printf("// DecodeResult reads the %s result of %s.\n", c.ResultType, c.QualifiedName())
		f.printf("func (*%s) DecodeResult(d *tl.Decoder) (%s, error) {\nreturn %s\n}\n\n",
			name, g.goType(c.ResultType), g.getExpr(c.ResultType))
	}
}

func (g *generator) emitBareLength(f *goFile, c *schema.Combinator) {
	f.printf("func (obj *%s) BareLength() int {\n", g.structs[c])
	if len(c.Fields) == 0 {
		f.printf("return 0\n}\n\n")
		return
	}
	f.printf("n := 0\n")
	for _, field := range c.Fields {
		v := "obj." + g.fields[field]
		switch {
		case hasNoGoField(field):
			f.printf("n += 4\n")
		case field.IsFlag():
		case g.isLazy(field):
			f.printf("n += %s\n", g.lengthExpr(field.Type, v+".Peek()"))
		case field.Optional():
			if size := field.Type.Kind.FixedLength(); size >= 0 {
				f.printf("if %s.IsSet() {\nn += %d\n}\n", v, size)
			} else {
				f.printf("if v, ok := %s.Get(); ok {\nn += %s\n}\n", v, g.lengthExpr(field.Type, "v"))
			}
		default:
			f.printf("n += %s\n", g.lengthExpr(field.Type, v))
		}
	}
	f.printf("return n\n}\n\n")
}

func (g *generator) emitEncodeBare(f *goFile, c *schema.Combinator) {
	f.printf("func (obj *%s) EncodeBare(e *tl.Encoder) error {\n", g.structs[c])
	words := 0
	for _, field := range c.Fields {
		v := "obj." + g.fields[field]
		switch {
		case field.IsFlagWord():
			word := fmt.Sprintf("word%d", words)
			words++
			f.printf("var %s uint32\n", word)
			for _, guarded := range c.Fields {
				if guarded.FlagField != field.Index {
					continue
				}
				cond := "obj." + g.fields[guarded]
				if !guarded.IsFlag() {
					cond += ".IsSet()"
				}
				f.printf("if %s {\n%s |= 1 << %d\n}\n", cond, word, guarded.FlagBit)
			}
			f.printf("e.PutUint32(%s)\n", word)
		case hasNoGoField(field):
			f.printf("e.PutTrue()\n")
		case field.IsFlag():
		case g.isLazy(field):
			f.printf("{\nv, err := %s.Encodable(%q)\nif err != nil {\nreturn err\n}\n%s}\n",
				v, field.Name, g.putStmt(field.Type, "v", field.Name))
		case field.Optional():
			f.printf("if v, ok := %s.Get(); ok {\n%s}\n", v, g.putStmt(field.Type, "v", field.Name))
		default:
			f.printf("%s", g.putStmt(field.Type, v, field.Name))
		}
	}
	f.printf("return nil\n}\n\n")
}

func (g *generator) emitDecodeBare(f *goFile, c *schema.Combinator) {
	name := g.structs[c]
	if len(c.Fields) == 0 {
		f.printf("func (obj *%s) DecodeBare(*tl.Decoder) error {\n*obj = %s{}\nreturn nil\n}\n\n", name, name)
		return
	}
	f.printf("func (obj *%s) DecodeBare(d *tl.Decoder) (err error) {\n", name)
	f.printf("*obj = %s{}\n", name)

	// Wire index of each flag word to the local holding it.
	words := make(map[int]string)
	for _, field := range c.Fields {
		v := "obj." + g.fields[field]
		switch {
		case field.IsFlagWord():
			if !guardsAny(c, field) {
				f.printf("if _, err = d.Uint32(); err != nil {\nreturn err\n}\n")
				continue
			}
			word := fmt.Sprintf("word%d", len(words))
			words[field.Index] = word
			f.printf("%s, err := d.Uint32()\nif err != nil {\nreturn err\n}\n", word)
		case hasNoGoField(field):
			f.printf("if _, err = d.True(); err != nil {\nreturn err\n}\n")
		case field.IsFlag():
			f.printf("%s = %s&(1<<%d) != 0\n", v, words[field.FlagField], field.FlagBit)
		case g.isLazy(field):
			f.printf("{\nv, err := %s\nif err != nil {\nreturn err\n}\n%s = tl.DecodeLazy(d, %sTypeID, %q, v)\n}\n",
				g.getExpr(field.Type), v, name, field.Name)
		case field.Optional():
			f.printf("if %s&(1<<%d) != 0 {\nv, err := %s\nif err != nil {\nreturn err\n}\n%s = tl.Some(v)\n}\n",
				words[field.FlagField], field.FlagBit, g.getExpr(field.Type), v)
		default:
			f.printf("if %s, err = %s; err != nil {\nreturn err\n}\n", v, g.getExpr(field.Type))
		}
	}
	f.printf("return nil\n}\n\n")
}

func guardsAny(c *schema.Combinator, word *schema.Field) bool {
	for _, field := range c.Fields {
		if field.FlagField == word.Index {
			return true
		}
	}
	return false
}

func (g *generator) emitFields(f *goFile, c *schema.Combinator) {
	f.printf("func (obj *%s) Fields() iter.Seq2[string, any] {\n", g.structs[c])
	fields := c.SortedFields()
	if len(fields) == 0 {
		f.printf("return func(func(string, any) bool) {}\n}\n\n")
		return
	}
	f.printf("return func(yield func(string, any) bool) {\n")
	for _, field := range fields {
		v := "obj." + g.fields[field]
		switch {
		case hasNoGoField(field):
			f.printf("if !yield(%q, true) {\nreturn\n}\n", field.Name)
		case field.IsFlag():
			f.printf("if %s {\nif !yield(%q, true) {\nreturn\n}\n}\n", v, field.Name)
		case field.Optional():
			f.printf("if v, ok := %s.Get(); ok {\nif !yield(%q, v) {\nreturn\n}\n}\n", v, field.Name)
		default:
			f.printf("if !yield(%q, %s) {\nreturn\n}\n", field.Name, v)
		}
	}
	f.printf("}\n}\n\n")
}

func (g *generator) isLazy(f *schema.Field) bool {
	_, ok := g.lazy[f]
	return ok
}

// class returns the interface generated for an object type, or "" when
// the type is generic or declared outside the model.
func (g *generator) class(t *schema.Type) string {
	if t.Generic != "" {
		return ""
	}
	return g.classes[t.Ref]
}

func (g *generator) goType(t *schema.Type) string {
	switch t.Kind {
	case tl.KindInt:
		return "int32"
	case tl.KindLong:
		return "int64"
	case tl.KindInt128:
		return "tl.Int128"
	case tl.KindInt256:
		return "tl.Int256"
	case tl.KindDouble:
		return "float64"
	case tl.KindBytes:
		return "[]byte"
	case tl.KindString:
		return "string"
	case tl.KindBool, tl.KindTrue:
		return "bool"
	case tl.KindVector:
		return "[]" + g.goType(t.Elem)
	}
	if class := g.class(t); class != "" {
		return class
	}
	return "tl.Object"
}

func (g *generator) fieldType(f *schema.Field) string {
	base := g.goType(f.Type)
	switch {
	case f.IsFlag():
		return "bool"
	case g.isLazy(f):
		return "tl.Lazy[" + base + "]"
	case f.Optional():
		return "tl.Opt[" + base + "]"
	}
	return base
}

var scalarMethods = map[tl.Kind]string{
	tl.KindInt:    "Int",
	tl.KindLong:   "Long",
	tl.KindInt128: "Int128",
	tl.KindInt256: "Int256",
	tl.KindDouble: "Double",
	tl.KindBytes:  "Bytes",
	tl.KindString: "String",
	tl.KindBool:   "Bool",
	tl.KindTrue:   "True",
}

// lengthExpr is an expression for the encoded length of v.
func (g *generator) lengthExpr(t *schema.Type, v string) string {
	if size := t.Kind.FixedLength(); size >= 0 {
		return strconv.Itoa(size)
	}
	switch t.Kind {
	case tl.KindTrue:
		return "4"
	case tl.KindBytes:
		return "tl.BytesLength(len(" + v + "))"
	case tl.KindString:
		return "tl.StringLength(" + v + ")"
	case tl.KindVector:
		elem := t.Elem
		if size := elem.Kind.FixedLength(); size >= 0 {
			return fmt.Sprintf("tl.VectorHeaderLength(%t) + %d*len(%s)", t.Boxed, size, v)
		}
		if elem.Kind == tl.KindObject {
			return fmt.Sprintf("tl.ObjectVectorLength(%t, %s)", t.Boxed, v)
		}
		return fmt.Sprintf("tl.VectorLength(%t, %s, func(v %s) int {\nreturn %s\n})",
			t.Boxed, v, g.goType(elem), g.lengthExpr(elem, "v"))
	}
	return "tl.WireLength(" + v + ")"
}

// putStmt is a statement writing v. name labels nil-object errors.
func (g *generator) putStmt(t *schema.Type, v, name string) string {
	switch t.Kind {
	case tl.KindObject:
		return fmt.Sprintf("if err := e.PutField(%q, %s); err != nil {\nreturn err\n}\n", name, v)
	case tl.KindVector:
		elem := t.Elem
		switch elem.Kind {
		case tl.KindObject:
			return fmt.Sprintf("if err := tl.PutObjectVector(e, %t, %s); err != nil {\nreturn err\n}\n", t.Boxed, v)
		case tl.KindVector:
			return fmt.Sprintf("if err := tl.PutVectorErr(e, %t, %s, func(e *tl.Encoder, v %s) error {\n%sreturn nil\n}); err != nil {\nreturn err\n}\n",
				t.Boxed, v, g.goType(elem), g.putStmt(elem, "v", name))
		}
		return fmt.Sprintf("tl.PutVector(e, %t, %s, (*tl.Encoder).Put%s)\n", t.Boxed, v, scalarMethods[elem.Kind])
	case tl.KindTrue:
		return "e.PutTrue()\n"
	}
	return fmt.Sprintf("e.Put%s(%s)\n", scalarMethods[t.Kind], v)
}

// getExpr is an expression of type (T, error) reading a value.
func (g *generator) getExpr(t *schema.Type) string {
	switch t.Kind {
	case tl.KindObject:
		if class := g.class(t); class != "" {
			return "tl.DecodeObjectAs[" + class + "](d)"
		}
		return "d.Object()"
	case tl.KindVector:
		if t.Elem.Kind == tl.KindObject {
			return fmt.Sprintf("tl.DecodeObjectVector[%s](d, %t)", g.goType(t.Elem), t.Boxed)
		}
		return fmt.Sprintf("tl.DecodeVector(d, %t, %s)", t.Boxed, g.getFunc(t.Elem))
	}
	return "d." + scalarMethods[t.Kind] + "()"
}

func (g *generator) getFunc(t *schema.Type) string {
	switch t.Kind {
	case tl.KindObject:
		return "tl.DecodeObjectAs[" + g.goType(t) + "]"
	case tl.KindVector:
		return fmt.Sprintf("func(d *tl.Decoder) (%s, error) {\nreturn %s\n}", g.goType(t), g.getExpr(t))
	}
	return "(*tl.Decoder)." + scalarMethods[t.Kind]
}
