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

// Package codegen renders a compiled [schema.Model] as Go source.
//
// The output is one Go package. Each namespace contributes up to three
// files: base[_ns].go with an interface per abstract type,
// types[_ns].go with a struct per constructor, and functions[_ns].go
// with a request struct per function. registry.go registers every
// generated combinator with a [tl.RegistryBuilder] and carries the
// placeholder and redirect tables configured by [Overrides].
package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"go.tl-lang.org/tl/schema"
)

const (
	DefaultPackage = "tlschema"
	DefaultRuntime = "go.tl-lang.org/tl"
)

// File is one generated source file. Path is relative to the output
// directory and uses '/' separators.
type File struct {
	Path    string
	Content []byte
}

type Option interface {
	apply(*Options)
}

type option func(*Options)

func (f option) apply(opts *Options) { f(opts) }

type Options struct {
	pkg       string
	runtime   string
	overrides *Overrides
}

// WithPackage sets the name of the generated package.
func WithPackage(name string) Option {
	return option(func(opts *Options) {
		opts.pkg = name
	})
}

// WithRuntimeImport sets the import path of the tl runtime package.
func WithRuntimeImport(path string) Option {
	return option(func(opts *Options) {
		opts.runtime = path
	})
}

func WithOverrides(overrides *Overrides) Option {
	return option(func(opts *Options) {
		opts.overrides = overrides
	})
}

func NewOptions(opts ...Option) *Options {
	options := &Options{
		pkg:     DefaultPackage,
		runtime: DefaultRuntime,
	}
	for _, opt := range opts {
		opt.apply(options)
	}
	return options
}

// Overrides configures the placeholder and redirect tables emitted in
// registry.go.
type Overrides struct {
	Placeholders []PlaceholderOverride `json:"placeholders"`
	Redirects    []RedirectOverride    `json:"redirects"`
}

// PlaceholderOverride marks a required scalar field whose Sentinel value
// means "computed later". The generated field has type tl.Lazy[T].
//
// Sentinel is written as TL text would show it: decimal for numbers,
// "true"/"false" for Bool, literal text for string and bytes, and hex for
// int128 and int256.
type PlaceholderOverride struct {
	Constructor string `json:"constructor"`
	Field       string `json:"field"`
	Sentinel    string `json:"sentinel"`
	Marker      string `json:"marker"`
}

// RedirectOverride decodes the wire id of Constructor as Target. Both
// must be constructors with the same wire layout.
type RedirectOverride struct {
	Constructor string `json:"constructor"`
	Target      string `json:"target"`
}

// ParseOverrides reads an overrides table from JSON. Unknown keys are
// rejected.
func ParseOverrides(data []byte) (*Overrides, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	overrides := &Overrides{}
	if err := decoder.Decode(overrides); err != nil {
		return nil, fmt.Errorf("overrides: %w", err)
	}
	return overrides, nil
}

func Generate(model *schema.Model, opts ...Option) ([]File, error) {
	return NewOptions(opts...).Generate(model)
}

// Generate renders the model. The result is sorted by path and depends
// only on the model and options.
func (opts *Options) Generate(model *schema.Model) ([]File, error) {
	if model == nil {
		return nil, fmt.Errorf("codegen: nil model")
	}
	g := newGenerator(opts, model)
	if err := g.assignNames(); err != nil {
		return nil, err
	}
	if err := g.resolveOverrides(); err != nil {
		return nil, err
	}

	var files []*goFile
	for _, ns := range model.NamespaceNames() {
		files = append(files, g.emitNamespace(model.Namespaces[ns])...)
	}
	files = append(files, g.emitRegistry())

	out := make([]File, 0, len(files))
	for _, f := range files {
		content, err := f.render()
		if err != nil {
			return nil, err
		}
		out = append(out, File{Path: f.path, Content: content})
	}
	slices.SortFunc(out, func(a, b File) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out, nil
}
