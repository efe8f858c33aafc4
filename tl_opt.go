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
	"sync/atomic"
)

// Opt holds the value of a field guarded by a flag bit. The bit is set on
// encode exactly when the value is present.
type Opt[T any] struct {
	value T
	set   bool
}

func Some[T any](value T) Opt[T] {
	return Opt[T]{value: value, set: true}
}

func None[T any]() Opt[T] {
	return Opt[T]{}
}

func (o Opt[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Opt[T]) IsSet() bool {
	return o.set
}

// Or returns the value if present, and fallback otherwise.
func (o Opt[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

func (o *Opt[T]) Set(value T) {
	o.value = value
	o.set = true
}

func (o *Opt[T]) Clear() {
	var zero T
	o.value = zero
	o.set = false
}

// Lazy holds a field value that is either computed or a pending
// placeholder awaiting server-side substitution. The zero Lazy is a
// computed zero value.
//
// Resolution is memoized. Concurrent resolvers may each run the resolve
// function, but all observe the first stored result.
type Lazy[T any] struct {
	cell *lazyCell[T]
}

type lazyCell[T any] struct {
	marker string
	value  atomic.Pointer[T]
}

// Computed returns a Lazy holding value.
func Computed[T any](value T) Lazy[T] {
	cell := &lazyCell[T]{}
	cell.value.Store(&value)
	return Lazy[T]{cell: cell}
}

// Pending returns an unresolved Lazy tagged with marker.
func Pending[T any](marker string) Lazy[T] {
	return Lazy[T]{cell: &lazyCell[T]{marker: marker}}
}

func (l Lazy[T]) IsPending() bool {
	return l.cell != nil && l.cell.value.Load() == nil
}

// Marker returns the marker of a Lazy created by [Pending].
func (l Lazy[T]) Marker() string {
	if l.cell == nil {
		return ""
	}
	return l.cell.marker
}

// Get returns the value and whether it has been computed.
func (l Lazy[T]) Get() (T, bool) {
	var zero T
	if l.cell == nil {
		return zero, true
	}
	if v := l.cell.value.Load(); v != nil {
		return *v, true
	}
	return zero, false
}

// Peek returns the value, or the zero value while pending.
func (l Lazy[T]) Peek() T {
	v, _ := l.Get()
	return v
}

// Resolve computes a pending value with fn and memoizes it. Resolving a
// computed value returns it without calling fn.
func (l Lazy[T]) Resolve(fn func(marker string) (T, error)) (T, error) {
	if v, ok := l.Get(); ok {
		return v, nil
	}
	v, err := fn(l.cell.marker)
	if err != nil {
		var zero T
		return zero, err
	}
	if l.cell.value.CompareAndSwap(nil, &v) {
		return v, nil
	}
	return *l.cell.value.Load(), nil
}

// Encodable returns the value for encoding, or an error naming field if
// it is still pending.
func (l Lazy[T]) Encodable(field string) (T, error) {
	v, ok := l.Get()
	if !ok {
		return v, errPendingPlaceholder(field)
	}
	return v, nil
}

// DecodeLazy wraps a decoded field value, replacing it by a pending
// placeholder when the decoder's placeholder table matches it.
func DecodeLazy[T any](d *Decoder, id uint32, field string, v T) Lazy[T] {
	if d.ctx != nil && d.ctx.Placeholders != nil {
		if p, ok := d.ctx.Placeholders.Lookup(id, field); ok && p.Sentinel(v) {
			return Pending[T](p.Marker)
		}
	}
	return Computed(v)
}
