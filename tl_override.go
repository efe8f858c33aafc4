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

package tl

import (
	"bytes"
	"reflect"
)

// Placeholder marks a field whose sentinel value stands for data the
// server fills in later.
type Placeholder struct {
	Field    string
	Sentinel func(value any) bool
	Marker   string
}

// Placeholders is an immutable table of placeholder fields keyed by
// constructor id.
type Placeholders struct {
	byID map[uint32]map[string]Placeholder
}

func NewPlaceholders(table map[uint32][]Placeholder) *Placeholders {
	byID := make(map[uint32]map[string]Placeholder, len(table))
	for id, fields := range table {
		byField := make(map[string]Placeholder, len(fields))
		for _, p := range fields {
			byField[p.Field] = p
		}
		byID[id] = byField
	}
	return &Placeholders{byID: byID}
}

func (p *Placeholders) Lookup(id uint32, field string) (Placeholder, bool) {
	if p == nil {
		return Placeholder{}, false
	}
	entry, ok := p.byID[id][field]
	return entry, ok
}

// Has reports whether any field of id is a placeholder.
func (p *Placeholders) Has(id uint32) bool {
	if p == nil {
		return false
	}
	return len(p.byID[id]) > 0
}

// Equals returns a sentinel predicate matching values equal to sentinel.
// Byte slices compare by content.
func Equals(sentinel any) func(any) bool {
	if want, ok := sentinel.([]uint8); ok {
		return func(value any) bool {
			got, ok := value.([]uint8)
			return ok && bytes.Equal(got, want)
		}
	}
	return func(value any) bool {
		return reflect.DeepEqual(value, sentinel)
	}
}

// Redirects is an immutable table of alternate constructors. It takes
// effect only through [DecodeCtx.Redirects].
type Redirects struct {
	byID map[uint32]func() Object
}

func NewRedirects(table map[uint32]func() Object) *Redirects {
	byID := make(map[uint32]func() Object, len(table))
	for id, newFn := range table {
		byID[id] = newFn
	}
	return &Redirects{byID: byID}
}

func (r *Redirects) Lookup(id uint32) (func() Object, bool) {
	if r == nil {
		return nil, false
	}
	newFn, ok := r.byID[id]
	return newFn, ok
}
