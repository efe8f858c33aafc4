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

// Package compiler resolves parsed TL combinators into a [schema.Model].
package compiler

import (
	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/schema"
	"go.tl-lang.org/tl/syntax"
)

// IDHistory reports the id a constructor or function had in earlier
// layers.
type IDHistory interface {
	PreviousID(qualifiedName string, function bool, layer int32) (id uint32, prevLayer int32, ok bool, err error)
}

type CompileOption interface {
	apply(*CompileOptions)
}

type compileOption func(*CompileOptions)

func (f compileOption) apply(opts *CompileOptions) { f(opts) }

type CompileOptions struct {
	skipBuiltins bool
	history      IDHistory
}

// WithBuiltins controls whether declarations of the runtime's framing
// types (boolTrue, vector, ...) are dropped from the model. The default
// is true.
func WithBuiltins(skip bool) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.skipBuiltins = skip
	})
}

// WithCatalog enables warnings for combinators whose id differs from the
// one recorded for an earlier layer.
func WithCatalog(history IDHistory) CompileOption {
	return compileOption(func(opts *CompileOptions) {
		opts.history = history
	})
}

type CompileResult struct {
	model *schema.Model

	Errors   []*Error
	Warnings []*Warning
}

// Model returns the compiled model, or nil if compilation failed.
func (r *CompileResult) Model() *schema.Model {
	if len(r.Errors) > 0 {
		return nil
	}
	return r.model
}

func Compile(parsedSchema *syntax.Schema, opts ...CompileOption) CompileResult {
	return NewCompileOptions(opts...).Compile(parsedSchema)
}

func NewCompileOptions(opts ...CompileOption) *CompileOptions {
	compileOptions := &CompileOptions{
		skipBuiltins: true,
	}
	for _, opt := range opts {
		opt.apply(compileOptions)
	}
	return compileOptions
}

func (opts *CompileOptions) Compile(parsedSchema *syntax.Schema) CompileResult {
	c := &compiler{
		opts:       opts,
		parsed:     parsedSchema,
		knownTypes: make(map[schema.TypeRef]struct{}),
	}
	c.compile()
	return CompileResult{
		model:    c.model,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
}

type compiler struct {
	opts       *CompileOptions
	parsed     *syntax.Schema
	model      *schema.Model
	knownTypes map[schema.TypeRef]struct{}
	errors     []*Error
	warnings   []*Warning
}

func (c *compiler) compile() {
	if !c.parsed.HasLayer {
		c.warnings = append(c.warnings, warnMissingLayer())
	}

	builtins := make(map[uint32]string)
	if c.opts.skipBuiltins {
		for id, name := range tl.BuiltinIDs() {
			builtins[id] = name
		}
	}

	var decls []*syntax.Combinator
	for _, decl := range c.parsed.Combinators {
		if name, isBuiltin := builtins[decl.ID]; isBuiltin {
			if name != decl.QualifiedName() {
				c.warnings = append(c.warnings, warnBuiltinRedeclared(
					decl.QualifiedName(), decl.ID, decl.Span(),
				))
			}
			if decl.Section == syntax.SectionTypes {
				c.knownTypes[schema.ParseTypeRef(decl.Result)] = struct{}{}
			}
			continue
		}
		decls = append(decls, decl)
	}

	c.checkDuplicates(decls)

	// Constructor results are collected first so that fields may refer to
	// types declared later in the file.
	results := make(map[*syntax.Combinator]*schema.Type, len(decls))
	for _, decl := range decls {
		if decl.Section != syntax.SectionTypes {
			continue
		}
		result, ok := c.constructorResult(decl)
		if !ok {
			continue
		}
		results[decl] = result
		c.knownTypes[resultKey(result)] = struct{}{}
	}

	combinators := make([]*schema.Combinator, 0, len(decls))
	for _, decl := range decls {
		comb := c.resolveCombinator(decl)
		if comb == nil {
			continue
		}
		if decl.Section == syntax.SectionTypes {
			result, ok := results[decl]
			if !ok {
				continue
			}
			comb.ResultType = result
		} else {
			result, ok := c.functionResult(decl)
			if !ok {
				continue
			}
			comb.ResultType = result
		}
		comb.Result = resultKey(comb.ResultType)
		c.checkHistory(decl, comb)
		combinators = append(combinators, comb)
	}

	c.model = schema.NewModel(c.parsed.Layer, combinators)
}

func (c *compiler) checkDuplicates(decls []*syntax.Combinator) {
	type sectionKey struct {
		section syntax.Section
		id      uint32
	}
	type nameKey struct {
		section syntax.Section
		name    string
	}
	ids := make(map[sectionKey]string)
	names := make(map[nameKey]struct{})
	for _, decl := range decls {
		name := decl.QualifiedName()
		if prev, dup := ids[sectionKey{decl.Section, decl.ID}]; dup {
			c.errors = append(c.errors, errDuplicateID(
				decl.Section, decl.ID, prev, name, decl.Span(),
			))
		} else {
			ids[sectionKey{decl.Section, decl.ID}] = name
		}
		if _, dup := names[nameKey{decl.Section, name}]; dup {
			c.errors = append(c.errors, errDuplicateName(decl.Section, name, decl.Span()))
		}
		names[nameKey{decl.Section, name}] = struct{}{}
	}
}

func (c *compiler) checkHistory(decl *syntax.Combinator, comb *schema.Combinator) {
	if c.opts.history == nil {
		return
	}
	name := comb.QualifiedName()
	prevID, prevLayer, ok, err := c.opts.history.PreviousID(name, comb.IsFunction(), c.parsed.Layer)
	if err != nil {
		c.errors = append(c.errors, errCatalog(name, err, decl.Span()))
		return
	}
	if ok && prevID != comb.ID {
		c.warnings = append(c.warnings, warnIDChanged(
			name, prevID, prevLayer, comb.ID, decl.Span(),
		))
	}
}

// resultKey returns the type a combinator is grouped under: the element
// type of vectors, or the name of a scalar.
func resultKey(result *schema.Type) schema.TypeRef {
	for result.Kind == tl.KindVector {
		result = result.Elem
	}
	switch result.Kind {
	case tl.KindObject:
		return result.Ref
	case tl.KindFlags, tl.KindInvalid:
		return schema.TypeRef{}
	}
	return schema.TypeRef{Name: result.Kind.String()}
}
