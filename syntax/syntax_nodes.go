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

package syntax

import (
	"fmt"
	"strings"
)

type Span struct {
	start, len uint32
}

func NewSpan(start, len uint32) Span {
	return Span{start, len}
}

func (s *Span) Start() uint32 {
	return s.start
}

func (s *Span) End() uint32 {
	return s.start + s.len
}

func (s *Span) Len() uint32 {
	return s.len
}

type Section uint8

const (
	SectionTypes Section = iota
	SectionFunctions
	sectionUnknown
)

func (s Section) String() string {
	switch s {
	case SectionTypes:
		return "types"
	case SectionFunctions:
		return "functions"
	default:
		return fmt.Sprintf("Section(%d)", uint8(s))
	}
}

// Schema is the result of parsing one TL source file.
type Schema struct {
	// Layer is the value of the "// LAYER n" marker, or 0 if absent.
	Layer    int32
	HasLayer bool

	// Combinators are in source order.
	Combinators []*Combinator

	// Warnings lists declaration-like lines that were skipped.
	Warnings []*Warning
}

// Combinator is one declaration line, before type resolution.
type Combinator struct {
	Section   Section
	Namespace string
	Name      string

	// ID is the explicit "#hex" id, or the CRC32 of the normalized
	// declaration when the id is omitted.
	ID         uint32
	ExplicitID bool

	Params []Param
	Args   []Arg

	// Result is the result type expression, e.g. "messages.Chats" or
	// "Vector<User>".
	Result string

	span Span
}

func (c *Combinator) Span() Span {
	return c.span
}

// QualifiedName returns "namespace.name", or the bare name for global
// combinators.
func (c *Combinator) QualifiedName() string {
	if c.Namespace == "" {
		return c.Name
	}
	return c.Namespace + "." + c.Name
}

// String renders the declaration in canonical form.
func (c *Combinator) String() string {
	var buf strings.Builder
	buf.WriteString(c.QualifiedName())
	fmt.Fprintf(&buf, "#%08x", c.ID)
	for _, param := range c.Params {
		fmt.Fprintf(&buf, " {%s:%s}", param.Name, param.Type)
	}
	for _, arg := range c.Args {
		fmt.Fprintf(&buf, " %s:%s", arg.Name, arg.Type)
	}
	fmt.Fprintf(&buf, " = %s;", c.Result)
	return buf.String()
}

// Param is a generic type parameter such as "{X:Type}".
type Param struct {
	Name string
	Type string
}

// Arg is one "name:type" pair. Name has already been passed through
// [FieldName]; RawName keeps the identifier as written.
type Arg struct {
	Name    string
	RawName string
	Type    string

	span Span
}

func (a *Arg) Span() Span {
	return a.span
}
