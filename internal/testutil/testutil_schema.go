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

package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/compiler"
	"go.tl-lang.org/tl/schema"
	"go.tl-lang.org/tl/syntax"
)

// CompileSchema parses and compiles src, failing the test on any error.
func CompileSchema(t *testing.T, src string, opts ...compiler.CompileOption) *schema.Model {
	t.Helper()
	parsed, err := syntax.Parse([]byte(src), syntax.WithStrict(true))
	if err != nil {
		t.Fatalf("syntax.Parse: %v", err)
	}
	result := compiler.Compile(parsed, opts...)
	for _, err := range result.Errors {
		t.Errorf("compiler.Compile: %v", err)
	}
	if len(result.Errors) > 0 {
		t.FailNow()
	}
	return result.Model()
}

// Registry compiles src into a registry of dynamic objects.
func Registry(t *testing.T, src string) (*schema.Model, *tl.Registry) {
	t.Helper()
	model := CompileSchema(t, src)
	registry, err := model.Registry()
	if err != nil {
		t.Fatalf("Registry: %v", err)
	}
	return model, registry
}

// NewObject returns an empty dynamic object for the named combinator.
func NewObject(t *testing.T, model *schema.Model, name string) *tl.Dynamic {
	t.Helper()
	comb, ok := model.Lookup(name)
	if !ok {
		t.Fatalf("combinator %q not found", name)
	}
	return tl.NewDynamic(comb.Descriptor())
}

// Set assigns a field of a dynamic object, failing the test on error.
func Set(t *testing.T, obj *tl.Dynamic, name string, value any) {
	t.Helper()
	if err := obj.Set(name, value); err != nil {
		t.Fatalf("Set(%q): %v", name, err)
	}
}

// DynamicComparer compares dynamic objects by type id and field values.
func DynamicComparer() cmp.Option {
	var opt cmp.Option
	opt = cmp.Comparer(func(a, b *tl.Dynamic) bool {
		if a == nil || b == nil {
			return a == b
		}
		return a.TypeID() == b.TypeID() && cmp.Equal(a.Values(), b.Values(), opt)
	})
	return opt
}
