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

package schema

import (
	"slices"
)

// NewModel builds the cross-reference maps over a set of resolved
// combinators. Combinator order does not affect the result.
func NewModel(layer int32, combinators []*Combinator) *Model {
	m := &Model{
		Layer:                layer,
		TypeConstructors:     make(map[TypeRef][]*Combinator),
		TypeFunctions:        make(map[TypeRef][]*Combinator),
		ConstructorFunctions: make(map[string][]*Combinator),
		Namespaces:           make(map[string]*Namespace),
	}
	for _, c := range combinators {
		if c.IsFunction() {
			m.functions = append(m.functions, c)
		} else {
			m.constructors = append(m.constructors, c)
		}
	}
	slices.SortFunc(m.constructors, compareCombinators)
	slices.SortFunc(m.functions, compareCombinators)

	for _, c := range m.constructors {
		m.TypeConstructors[c.Result] = append(m.TypeConstructors[c.Result], c)
		ns := m.namespace(c.Namespace)
		ns.Constructors = append(ns.Constructors, c)
		typeNs := m.namespace(c.Result.Namespace)
		if !slices.Contains(typeNs.Types, c.Result) {
			typeNs.Types = append(typeNs.Types, c.Result)
		}
	}
	for _, f := range m.functions {
		if !f.Result.IsZero() {
			m.TypeFunctions[f.Result] = append(m.TypeFunctions[f.Result], f)
		}
		ns := m.namespace(f.Namespace)
		ns.Functions = append(ns.Functions, f)
	}
	for _, c := range m.constructors {
		m.ConstructorFunctions[c.QualifiedName()] = slices.Clone(m.TypeFunctions[c.Result])
		if m.ConstructorFunctions[c.QualifiedName()] == nil {
			m.ConstructorFunctions[c.QualifiedName()] = []*Combinator{}
		}
	}
	for _, ns := range m.Namespaces {
		slices.SortFunc(ns.Types, CompareTypeRefs)
	}
	return m
}

func (m *Model) namespace(name string) *Namespace {
	ns, ok := m.Namespaces[name]
	if !ok {
		ns = &Namespace{Name: name}
		m.Namespaces[name] = ns
	}
	return ns
}
