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
	"encoding/hex"
	"fmt"
	"go/token"
	"slices"
	"strconv"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/schema"
	"go.tl-lang.org/tl/syntax"
)

// Identifiers the generated package declares itself.
var packageNames = []string{
	"Layer",
	"TypeIDs",
	"Register",
	"NewRegistry",
	"Placeholders",
	"Redirects",
}

// Method names of generated structs. A field with one of these names
// gets a trailing underscore.
var methodNames = map[string]bool{
	"TypeID":       true,
	"TypeName":     true,
	"BareLength":   true,
	"EncodeBare":   true,
	"DecodeBare":   true,
	"Fields":       true,
	"DecodeResult": true,
}

type placeholder struct {
	sentinel string
	marker   string
}

type generator struct {
	opts  *Options
	model *schema.Model

	// claimed maps each package-level Go identifier to the TL name that
	// produced it.
	claimed map[string]string

	classes  map[schema.TypeRef]string
	structs  map[*schema.Combinator]string
	fields   map[*schema.Field]string
	lazy     map[*schema.Field]placeholder
	redirect map[*schema.Combinator]*schema.Combinator
}

func newGenerator(opts *Options, model *schema.Model) *generator {
	return &generator{
		opts:     opts,
		model:    model,
		claimed:  make(map[string]string),
		classes:  make(map[schema.TypeRef]string),
		structs:  make(map[*schema.Combinator]string),
		fields:   make(map[*schema.Field]string),
		lazy:     make(map[*schema.Field]placeholder),
		redirect: make(map[*schema.Combinator]*schema.Combinator),
	}
}

func (g *generator) claim(goName, tlName string) error {
	if !token.IsIdentifier(goName) {
		return fmt.Errorf("codegen: %q does not convert to a Go identifier (got %q)", tlName, goName)
	}
	if prev, ok := g.claimed[goName]; ok {
		return fmt.Errorf("codegen: Go name %s of %q collides with %q", goName, tlName, prev)
	}
	g.claimed[goName] = tlName
	return nil
}

func (g *generator) assignNames() error {
	if !token.IsIdentifier(g.opts.pkg) || token.IsKeyword(g.opts.pkg) {
		return fmt.Errorf("codegen: invalid package name %q", g.opts.pkg)
	}
	for _, name := range packageNames {
		g.claimed[name] = "(package)"
	}
	for _, ref := range g.model.Types() {
		name := syntax.GoName(ref.String()) + "Class"
		if err := g.claim(name, ref.String()); err != nil {
			return err
		}
		g.classes[ref] = name
	}
	combinators := slices.Concat(g.model.Constructors(), g.model.Functions())
	for _, c := range combinators {
		name := syntax.GoName(c.QualifiedName())
		if c.IsFunction() {
			name += "Request"
		}
		if err := g.claim(name, c.QualifiedName()); err != nil {
			return err
		}
		if err := g.claim(name+"TypeID", c.QualifiedName()); err != nil {
			return err
		}
		g.structs[c] = name
		if err := g.assignFieldNames(c); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) assignFieldNames(c *schema.Combinator) error {
	seen := make(map[string]string)
	for _, f := range c.SortedFields() {
		if hasNoGoField(f) {
			continue
		}
		name := syntax.GoName(f.Name)
		if methodNames[name] {
			name += "_"
		}
		if !token.IsIdentifier(name) {
			return fmt.Errorf("codegen: field %q of %q does not convert to a Go identifier", f.Name, c.QualifiedName())
		}
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("codegen: fields %q and %q of %q share the Go name %s", prev, f.Name, c.QualifiedName(), name)
		}
		seen[name] = f.Name
		g.fields[f] = name
	}
	return nil
}

// hasNoGoField reports whether f is carried on the wire only. A required
// true is always written, so the struct needs nothing to hold it.
func hasNoGoField(f *schema.Field) bool {
	return f.IsFlagWord() || (!f.Optional() && f.Type.Kind == tl.KindTrue)
}

func (g *generator) resolveOverrides() error {
	overrides := g.opts.overrides
	if overrides == nil {
		return nil
	}
	for _, p := range overrides.Placeholders {
		c, ok := g.model.Lookup(p.Constructor)
		if !ok {
			return fmt.Errorf("codegen: placeholder names unknown combinator %q", p.Constructor)
		}
		f, ok := c.Field(p.Field)
		if !ok {
			return fmt.Errorf("codegen: placeholder names unknown field %q of %q", p.Field, p.Constructor)
		}
		if f.Optional() || !f.Type.Kind.Placeable() {
			return fmt.Errorf("codegen: placeholder field %q of %q must be a required scalar", p.Field, p.Constructor)
		}
		sentinel, err := sentinelLiteral(f.Type.Kind, p.Sentinel)
		if err != nil {
			return fmt.Errorf("codegen: placeholder field %q of %q: %w", p.Field, p.Constructor, err)
		}
		if _, dup := g.lazy[f]; dup {
			return fmt.Errorf("codegen: duplicate placeholder for field %q of %q", p.Field, p.Constructor)
		}
		g.lazy[f] = placeholder{sentinel: sentinel, marker: p.Marker}
	}
	for _, r := range overrides.Redirects {
		from, ok := g.model.Lookup(r.Constructor)
		if !ok || from.IsFunction() {
			return fmt.Errorf("codegen: redirect source %q is not a constructor", r.Constructor)
		}
		to, ok := g.model.Lookup(r.Target)
		if !ok || to.IsFunction() {
			return fmt.Errorf("codegen: redirect target %q is not a constructor", r.Target)
		}
		if from == to {
			return fmt.Errorf("codegen: %q redirects to itself", r.Constructor)
		}
		if !sameLayout(from, to) {
			return fmt.Errorf("codegen: %q and %q have different wire layouts", r.Constructor, r.Target)
		}
		if _, dup := g.redirect[from]; dup {
			return fmt.Errorf("codegen: duplicate redirect for %q", r.Constructor)
		}
		g.redirect[from] = to
	}
	return nil
}

func sameLayout(a, b *schema.Combinator) bool {
	if len(a.Fields) != len(b.Fields) {
		return false
	}
	for ii := range a.Fields {
		fa, fb := a.Fields[ii], b.Fields[ii]
		if fa.FlagField != fb.FlagField || fa.FlagBit != fb.FlagBit {
			return false
		}
		if fa.Type.String() != fb.Type.String() {
			return false
		}
	}
	return true
}

// sentinelLiteral renders a sentinel as a Go expression of the field's
// decoded type.
func sentinelLiteral(kind tl.Kind, text string) (string, error) {
	switch kind {
	case tl.KindInt:
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return "", fmt.Errorf("sentinel %q is not an int", text)
		}
		return fmt.Sprintf("int32(%d)", v), nil
	case tl.KindLong:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return "", fmt.Errorf("sentinel %q is not a long", text)
		}
		return fmt.Sprintf("int64(%d)", v), nil
	case tl.KindDouble:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return "", fmt.Errorf("sentinel %q is not a double", text)
		}
		return "float64(" + strconv.FormatFloat(v, 'g', -1, 64) + ")", nil
	case tl.KindBool:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return "", fmt.Errorf("sentinel %q is not a Bool", text)
		}
		return strconv.FormatBool(v), nil
	case tl.KindString:
		return strconv.Quote(text), nil
	case tl.KindBytes:
		return "[]byte(" + strconv.Quote(text) + ")", nil
	case tl.KindInt128, tl.KindInt256:
		raw, err := hex.DecodeString(text)
		size := kind.FixedLength()
		if err != nil || len(raw) != size {
			return "", fmt.Errorf("sentinel %q is not %d hex bytes", text, size)
		}
		lit := "tl.Int128{"
		if kind == tl.KindInt256 {
			lit = "tl.Int256{"
		}
		for ii, b := range raw {
			if ii > 0 {
				lit += ", "
			}
			lit += fmt.Sprintf("0x%02x", b)
		}
		return lit + "}", nil
	}
	return "", fmt.Errorf("no sentinel form for %s", kind)
}
