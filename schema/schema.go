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

// Package schema holds the resolved model of a TL schema: combinators
// with typed fields, and the cross-reference maps between abstract types,
// constructors, functions, and namespaces.
package schema

import (
	"fmt"
	"slices"
	"strings"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/syntax"
)

// TypeRef names a TL type.
type TypeRef struct {
	Namespace string
	Name      string
}

// ParseTypeRef splits "ns.Name" into its parts.
func ParseTypeRef(qualified string) TypeRef {
	if ns, name, ok := strings.Cut(qualified, "."); ok {
		return TypeRef{Namespace: ns, Name: name}
	}
	return TypeRef{Name: qualified}
}

func (r TypeRef) String() string {
	if r.Namespace == "" {
		return r.Name
	}
	return r.Namespace + "." + r.Name
}

func (r TypeRef) IsZero() bool {
	return r.Name == ""
}

// Type is a resolved field or result type.
type Type struct {
	Kind tl.Kind

	// Elem is the element type of a vector.
	Elem *Type

	// Boxed is set for Vector<T>.
	Boxed bool

	// Ref is the abstract type of an object. It is zero for generic
	// objects and scalars.
	Ref TypeRef

	// Generic is the parameter name of a "!X" object.
	Generic string
}

func (t *Type) String() string {
	switch t.Kind {
	case tl.KindVector:
		if t.Boxed {
			return "Vector<" + t.Elem.String() + ">"
		}
		return "vector<" + t.Elem.String() + ">"
	case tl.KindObject:
		if t.Generic != "" {
			return "!" + t.Generic
		}
		return t.Ref.String()
	}
	return t.Kind.String()
}

// Descriptor converts t to a runtime field descriptor named name.
func (t *Type) Descriptor(name string) tl.FieldDescriptor {
	desc := tl.FieldDescriptor{
		Name:      name,
		Kind:      t.Kind,
		Boxed:     t.Boxed,
		FlagField: -1,
	}
	switch t.Kind {
	case tl.KindObject:
		desc.TypeName = t.String()
	case tl.KindVector:
		elem := t.Elem.Descriptor("")
		desc.Elem = &elem
	}
	return desc
}

// Field is one resolved argument of a combinator.
type Field struct {
	// Name is the field name after reserved-name substitution.
	Name    string
	RawName string

	// Raw is the type token as written, e.g. "flags.2?Vector<long>".
	Raw  string
	Type *Type

	// Index is the position of the field in wire order.
	Index int

	// FlagField is the wire index of the guarding flag word, and
	// FlagWord its ordinal among the combinator's flag words. Both are -1
	// for required fields.
	FlagField int
	FlagWord  int
	FlagBit   uint8
}

func (f *Field) Optional() bool {
	return f.FlagField >= 0
}

// IsFlagWord reports whether f is a "#" field holding flag bits.
func (f *Field) IsFlagWord() bool {
	return f.Type.Kind == tl.KindFlags
}

// IsFlag reports whether f is an optional true, which is a flag bit
// with no payload.
func (f *Field) IsFlag() bool {
	return f.Optional() && f.Type.Kind == tl.KindTrue
}

// Param is a generic type parameter.
type Param struct {
	Name string
	Type string
}

// Combinator is a resolved constructor or function.
type Combinator struct {
	Section   syntax.Section
	Namespace string
	Name      string
	ID        uint32
	HasFlags  bool
	Params    []Param

	// Fields are in wire order, flag words included.
	Fields []*Field

	// Result is the abstract type key. For "Vector<Foo>" it is Foo.
	Result TypeRef

	// ResultType is the full result type.
	ResultType *Type
}

func (c *Combinator) QualifiedName() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + "." + c.Name
}

func (c *Combinator) IsFunction() bool {
	return c.Section == syntax.SectionFunctions
}

// SortedFields returns the user-visible fields: required fields in wire
// order, then optional fields in wire order. Flag words are omitted.
func (c *Combinator) SortedFields() []*Field {
	out := make([]*Field, 0, len(c.Fields))
	for _, f := range c.Fields {
		if !f.IsFlagWord() && !f.Optional() {
			out = append(out, f)
		}
	}
	for _, f := range c.Fields {
		if f.Optional() {
			out = append(out, f)
		}
	}
	return out
}

// FlagWords returns the "#" fields in declaration order.
func (c *Combinator) FlagWords() []*Field {
	var out []*Field
	for _, f := range c.Fields {
		if f.IsFlagWord() {
			out = append(out, f)
		}
	}
	return out
}

// Field returns the named field.
func (c *Combinator) Field(name string) (*Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Descriptor returns the runtime layout of c.
func (c *Combinator) Descriptor() *tl.TypeDescriptor {
	desc := &tl.TypeDescriptor{
		ID:       c.ID,
		Name:     c.QualifiedName(),
		Type:     c.ResultType.String(),
		Function: c.IsFunction(),
		Fields:   make([]tl.FieldDescriptor, 0, len(c.Fields)),
	}
	for _, f := range c.Fields {
		fd := f.Type.Descriptor(f.Name)
		fd.FlagField = f.FlagField
		fd.FlagBit = f.FlagBit
		desc.Fields = append(desc.Fields, fd)
	}
	return desc
}

// Namespace groups the members of one namespace. The global namespace
// has an empty name.
type Namespace struct {
	Name         string
	Types        []TypeRef
	Constructors []*Combinator
	Functions    []*Combinator
}

// Model is a compiled schema.
type Model struct {
	Layer int32

	// TypeConstructors maps each abstract type to its constructors,
	// sorted by qualified name.
	TypeConstructors map[TypeRef][]*Combinator

	// TypeFunctions maps a type to the functions returning it. Functions
	// returning Vector<T> are listed under T.
	TypeFunctions map[TypeRef][]*Combinator

	// ConstructorFunctions maps a constructor's qualified name to the
	// functions that can return it.
	ConstructorFunctions map[string][]*Combinator

	Namespaces map[string]*Namespace

	constructors []*Combinator
	functions    []*Combinator
}

// Constructors returns every constructor sorted by qualified name.
func (m *Model) Constructors() []*Combinator {
	return m.constructors
}

// Functions returns every function sorted by qualified name.
func (m *Model) Functions() []*Combinator {
	return m.functions
}

// Types returns every abstract type, sorted.
func (m *Model) Types() []TypeRef {
	out := make([]TypeRef, 0, len(m.TypeConstructors))
	for ref := range m.TypeConstructors {
		out = append(out, ref)
	}
	slices.SortFunc(out, CompareTypeRefs)
	return out
}

// NamespaceNames returns namespace names sorted, global first.
func (m *Model) NamespaceNames() []string {
	out := make([]string, 0, len(m.Namespaces))
	for name := range m.Namespaces {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Lookup finds a combinator by qualified name.
func (m *Model) Lookup(qualifiedName string) (*Combinator, bool) {
	for _, list := range [][]*Combinator{m.constructors, m.functions} {
		idx, found := slices.BinarySearchFunc(list, qualifiedName, func(c *Combinator, name string) int {
			return strings.Compare(c.QualifiedName(), name)
		})
		if found {
			return list[idx], true
		}
	}
	return nil, false
}

// Register adds a [tl.Dynamic] constructor for every combinator.
func (m *Model) Register(b *tl.RegistryBuilder) {
	b.SetLayer(m.Layer)
	for _, c := range m.constructors {
		b.RegisterDescriptor(c.Descriptor())
	}
	for _, c := range m.functions {
		b.RegisterDescriptor(c.Descriptor())
	}
}

// Registry builds a registry of [tl.Dynamic] objects for the model.
func (m *Model) Registry() (*tl.Registry, error) {
	b := tl.NewRegistryBuilder()
	m.Register(b)
	return b.Build()
}

func CompareTypeRefs(a, b TypeRef) int {
	if x := strings.Compare(a.Namespace, b.Namespace); x != 0 {
		return x
	}
	return strings.Compare(a.Name, b.Name)
}

func compareCombinators(a, b *Combinator) int {
	return strings.Compare(a.QualifiedName(), b.QualifiedName())
}

// String renders c as a TL declaration.
func (c *Combinator) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s#%08x", c.QualifiedName(), c.ID)
	for _, param := range c.Params {
		fmt.Fprintf(&buf, " {%s:%s}", param.Name, param.Type)
	}
	for _, f := range c.Fields {
		fmt.Fprintf(&buf, " %s:%s", f.RawName, f.Raw)
	}
	fmt.Fprintf(&buf, " = %s;", c.ResultType)
	return buf.String()
}
