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
	"slices"
	"strconv"
	"strings"

	"go.tl-lang.org/tl/schema"
)

func (g *generator) emitRegistry() *goFile {
	f := g.newFile("registry.go")
	f.useRuntime()
	combinators := slices.Concat(g.model.Constructors(), g.model.Functions())

	f.printf("// Layer is the schema layer these definitions were generated from.\n")
	f.printf("const Layer int32 = %d\n\n", g.model.Layer)

	f.printf("// TypeIDs maps the qualified TL name of each generated combinator to its wire id.\n")
	var ids []string
	for _, c := range combinators {
		ids = append(ids, strconv.Quote(c.QualifiedName())+": "+g.structs[c]+"TypeID,")
	}
	f.printf("var TypeIDs = map[string]uint32{%s}\n\n", block(ids))

	f.printf("// Register adds every generated combinator to b and sets its layer.\n")
	f.printf("func Register(b *tl.RegistryBuilder) {\nb.SetLayer(Layer)\n")
	for _, c := range combinators {
		name := g.structs[c]
		f.printf("b.Register(%sTypeID, %q, func() tl.Object { return new(%s) })\n", name, c.QualifiedName(), name)
	}
	f.printf("}\n\n")

	f.printf("// NewRegistry returns a registry of the runtime builtins and every\n// generated combinator.\n")
	f.printf("func NewRegistry() (*tl.Registry, error) {\nb := tl.NewRegistryBuilder()\nRegister(b)\nreturn b.Build()\n}\n\n")

	g.emitPlaceholders(f, combinators)
	g.emitRedirects(f)
	return f
}

func (g *generator) emitPlaceholders(f *goFile, combinators []*schema.Combinator) {
	f.printf("// Placeholders returns the placeholder table for [tl.DecodeCtx].\n")
	var groups []string
	for _, c := range combinators {
		var entries []string
		for _, field := range c.Fields {
			p, ok := g.lazy[field]
			if !ok {
				continue
			}
			entries = append(entries, "{Field: "+strconv.Quote(field.Name)+", Sentinel: tl.Equals("+p.sentinel+"), Marker: "+strconv.Quote(p.marker)+"},")
		}
		if len(entries) == 0 {
			continue
		}
		groups = append(groups, g.structs[c]+"TypeID: {\n"+strings.Join(entries, "\n")+"\n},")
	}
	f.printf("func Placeholders() *tl.Placeholders {\nreturn tl.NewPlaceholders(map[uint32][]tl.Placeholder{%s})\n}\n\n", block(groups))
}

func (g *generator) emitRedirects(f *goFile) {
	f.printf("// Redirects returns the redirect table for [tl.DecodeCtx].\n")
	var entries []string
	for _, c := range g.model.Constructors() {
		target, ok := g.redirect[c]
		if !ok {
			continue
		}
		entries = append(entries, g.structs[c]+"TypeID: func() tl.Object { return new("+g.structs[target]+") },")
	}
	f.printf("func Redirects() *tl.Redirects {\nreturn tl.NewRedirects(map[uint32]func() tl.Object{%s})\n}\n", block(entries))
}

// block lays out composite literal elements one per line, or nothing for
// an empty literal.
func block(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}
