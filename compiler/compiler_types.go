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

package compiler

import (
	"strconv"
	"strings"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/schema"
	"go.tl-lang.org/tl/syntax"
)

var scalarKinds = map[string]tl.Kind{
	"#":      tl.KindFlags,
	"int":    tl.KindInt,
	"long":   tl.KindLong,
	"int128": tl.KindInt128,
	"int256": tl.KindInt256,
	"double": tl.KindDouble,
	"bytes":  tl.KindBytes,
	"string": tl.KindString,
	"Bool":   tl.KindBool,
	"true":   tl.KindTrue,
}

func (c *compiler) resolveCombinator(decl *syntax.Combinator) *schema.Combinator {
	comb := &schema.Combinator{
		Section:   decl.Section,
		Namespace: decl.Namespace,
		Name:      decl.Name,
		ID:        decl.ID,
	}
	for _, param := range decl.Params {
		comb.Params = append(comb.Params, schema.Param{
			Name: param.Name,
			Type: param.Type,
		})
	}

	name := decl.QualifiedName()
	flagWords := make(map[string]int)
	flagOrdinals := make(map[string]int)
	usedWords := make(map[string]bool)
	fieldNames := make(map[string]struct{})
	ok := true
	for ii := range decl.Args {
		arg := &decl.Args[ii]
		if _, dup := fieldNames[arg.Name]; dup {
			c.errors = append(c.errors, errDuplicateField(name, arg.Name, arg.Span()))
			ok = false
			continue
		}
		fieldNames[arg.Name] = struct{}{}

		field := &schema.Field{
			Name:      arg.Name,
			RawName:   arg.RawName,
			Raw:       arg.Type,
			Index:     ii,
			FlagField: -1,
			FlagWord:  -1,
		}
		expr := arg.Type
		if cond, rest, isOptional := strings.Cut(expr, "?"); isOptional {
			expr = rest
			word, bitStr, hasBit := strings.Cut(cond, ".")
			if !hasBit {
				c.errors = append(c.errors, errInvalidType(name, arg.Name, arg.Type, arg.Span()))
				ok = false
				continue
			}
			idx, declared := flagWords[word]
			if !declared {
				c.errors = append(c.errors, errUndeclaredFlagWord(name, arg.Name, word, arg.Span()))
				ok = false
				continue
			}
			bit, err := strconv.ParseUint(bitStr, 10, 8)
			if err != nil || bit > 31 {
				c.errors = append(c.errors, errFlagBitRange(name, arg.Name, bitStr, arg.Span()))
				ok = false
				continue
			}
			field.FlagField = idx
			field.FlagWord = flagOrdinals[word]
			field.FlagBit = uint8(bit)
			usedWords[word] = true
			comb.HasFlags = true
		}

		ty, err := c.resolveType(decl, arg.Name, expr, arg.Span())
		if err != nil {
			c.errors = append(c.errors, err)
			ok = false
			continue
		}
		if ty.Kind == tl.KindFlags {
			if field.Optional() {
				c.errors = append(c.errors, errInvalidType(name, arg.Name, arg.Type, arg.Span()))
				ok = false
				continue
			}
			flagWords[arg.RawName] = ii
			flagOrdinals[arg.RawName] = len(flagOrdinals)
		}
		field.Type = ty
		comb.Fields = append(comb.Fields, field)
	}
	if !ok {
		return nil
	}

	for _, field := range comb.Fields {
		if field.IsFlagWord() && !usedWords[field.RawName] {
			c.warnings = append(c.warnings, warnUnusedFlagWord(
				name, field.Name, decl.Args[field.Index].Span(),
			))
		}
	}
	return comb
}

func (c *compiler) resolveType(
	decl *syntax.Combinator,
	field string,
	expr string,
	span syntax.Span,
) (*schema.Type, *Error) {
	name := decl.QualifiedName()
	if kind, ok := scalarKinds[expr]; ok {
		return &schema.Type{Kind: kind}, nil
	}

	if param, ok := strings.CutPrefix(expr, "!"); ok {
		if !hasParam(decl, param) {
			return nil, errUndeclaredParam(name, field, param, span)
		}
		return &schema.Type{Kind: tl.KindObject, Generic: param}, nil
	}
	if hasParam(decl, expr) {
		return &schema.Type{Kind: tl.KindObject, Generic: expr}, nil
	}

	for _, prefix := range []string{"vector<", "Vector<"} {
		inner, ok := strings.CutPrefix(expr, prefix)
		if !ok {
			continue
		}
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return nil, errInvalidType(name, field, expr, span)
		}
		elem, err := c.resolveType(decl, field, inner, span)
		if err != nil {
			return nil, err
		}
		if elem.Kind == tl.KindFlags || elem.Kind == tl.KindTrue {
			return nil, errInvalidType(name, field, expr, span)
		}
		return &schema.Type{
			Kind:  tl.KindVector,
			Elem:  elem,
			Boxed: prefix[0] == 'V',
		}, nil
	}

	if expr == "" || strings.ContainsAny(expr, "<>%?#! ") {
		return nil, errInvalidType(name, field, expr, span)
	}
	ref := schema.ParseTypeRef(expr)
	if _, known := c.knownTypes[ref]; !known {
		return nil, errUnknownType(name, field, expr, span)
	}
	return &schema.Type{Kind: tl.KindObject, Ref: ref}, nil
}

func hasParam(decl *syntax.Combinator, name string) bool {
	for _, param := range decl.Params {
		if param.Name == name {
			return true
		}
	}
	return false
}

func (c *compiler) constructorResult(decl *syntax.Combinator) (*schema.Type, bool) {
	expr := decl.Result
	boxed := false
	if inner, ok := strings.CutPrefix(expr, "Vector<"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			c.errors = append(c.errors, errInvalidResult(decl.QualifiedName(), decl.Result, decl.Span()))
			return nil, false
		}
		expr = inner
		boxed = true
	}
	if expr == "" || strings.ContainsAny(expr, "<>%?#! ") {
		c.errors = append(c.errors, errInvalidResult(decl.QualifiedName(), decl.Result, decl.Span()))
		return nil, false
	}
	ty := &schema.Type{Kind: tl.KindObject, Ref: schema.ParseTypeRef(expr)}
	if boxed {
		ty = &schema.Type{Kind: tl.KindVector, Boxed: true, Elem: ty}
	}
	return ty, true
}

func (c *compiler) functionResult(decl *syntax.Combinator) (*schema.Type, bool) {
	ty, err := c.resolveType(decl, "", decl.Result, decl.Span())
	if err != nil || ty.Kind == tl.KindFlags {
		c.errors = append(c.errors, errUnresolvableResult(decl.QualifiedName(), decl.Result, decl.Span()))
		return nil, false
	}
	return ty, true
}
