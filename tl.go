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

// Package tl implements the MTProto binary encoding of TL values.
//
// Every value on the wire is either boxed (prefixed by the 4-byte id of its
// constructor) or bare (type implied by context). Objects are reconstructed
// from their id through a [Registry], which is built once and then shared by
// any number of concurrent decoders.
package tl

import (
	"encoding/binary"
	"iter"
)

// Object is implemented by every TL constructor and function.
type Object interface {
	// TypeID returns the 32-bit wire id of the constructor.
	TypeID() uint32

	// TypeName returns the qualified TL name, e.g. "messages.chats".
	TypeName() string

	// BareLength returns the number of bytes EncodeBare writes.
	BareLength() int

	EncodeBare(e *Encoder) error
	DecodeBare(d *Decoder) error

	// Fields yields the TL name and value of each field that is present,
	// in the order the constructor exposes them.
	Fields() iter.Seq2[string, any]
}

// Int128 is the TL int128 type, stored as little-endian bytes.
type Int128 [16]byte

// Int256 is the TL int256 type, stored as little-endian bytes.
type Int256 [32]byte

// EncodeCtx is reserved for encoder options.
type EncodeCtx struct{}

// DecodeCtx selects the registry and override tables used while decoding.
type DecodeCtx struct {
	Registry     *Registry
	Placeholders *Placeholders
	Redirects    *Redirects
}

func (ctx *DecodeCtx) newObject(id uint32) (Object, bool) {
	if ctx == nil {
		return nil, false
	}
	if ctx.Redirects != nil {
		if newFn, ok := ctx.Redirects.Lookup(id); ok {
			return newFn(), true
		}
	}
	if ctx.Registry == nil {
		return nil, false
	}
	newFn, ok := ctx.Registry.Lookup(id)
	if !ok {
		return nil, false
	}
	return newFn(), true
}

// Encode returns the boxed encoding of obj.
func Encode(obj Object) ([]uint8, error) {
	return EncodeTo(nil, obj, nil)
}

// EncodeTo appends the boxed encoding of obj to buf.
func EncodeTo(ctx *EncodeCtx, obj Object, buf []uint8) ([]uint8, error) {
	if isNil(obj) {
		return buf, errNilObject("")
	}
	e := &Encoder{
		ctx: ctx,
		buf: buf,
	}
	e.buf = growBuf(e.buf, WireLength(obj))
	if err := e.PutObject(obj); err != nil {
		return buf, err
	}
	if err := e.Err(); err != nil {
		return buf, err
	}
	return e.buf, nil
}

// EncodeBare returns the bare encoding of obj, without its id.
func EncodeBare(obj Object) ([]uint8, error) {
	if isNil(obj) {
		return nil, errNilObject("")
	}
	e := NewEncoder(obj.BareLength())
	if err := obj.EncodeBare(e); err != nil {
		return nil, err
	}
	if err := e.Err(); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// Decode reads one boxed object from buf. The whole buffer must be consumed.
func Decode(ctx *DecodeCtx, buf []uint8) (Object, error) {
	d := NewDecoder(ctx, buf)
	obj, err := d.Object()
	if err != nil {
		return nil, err
	}
	if d.Remaining() != 0 {
		return nil, errTrailingBytes(d.Offset(), d.Remaining())
	}
	return obj, nil
}

// DecodeAs reads one boxed object from buf and asserts its Go type.
func DecodeAs[T any](ctx *DecodeCtx, buf []uint8) (T, error) {
	var zero T
	d := NewDecoder(ctx, buf)
	obj, err := DecodeObjectAs[T](d)
	if err != nil {
		return zero, err
	}
	if d.Remaining() != 0 {
		return zero, errTrailingBytes(d.Offset(), d.Remaining())
	}
	return obj, nil
}

// WireID returns the wire id of obj.
func WireID(obj Object) uint32 {
	return obj.TypeID()
}

// WireLength returns the length of the boxed encoding of obj, which is
// always equal to the length of the output of [Encode].
func WireLength(obj Object) int {
	if isNil(obj) {
		return 0
	}
	return 4 + obj.BareLength()
}

func growBuf(buf []uint8, n int) []uint8 {
	if n <= 0 || cap(buf)-len(buf) >= n {
		return buf
	}
	grown := make([]uint8, len(buf), len(buf)+n)
	copy(grown, buf)
	return grown
}

func leUint32(buf []uint8) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

func leUint64(buf []uint8) uint64 {
	return binary.LittleEndian.Uint64(buf)
}
