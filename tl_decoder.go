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
	"math"
)

// Decoder reads TL values from an in-memory buffer. It never blocks and
// holds no state shared with other decoders.
type Decoder struct {
	ctx *DecodeCtx
	buf []uint8
	off int
}

// NewDecoder returns a decoder over buf. Nested objects are constructed
// through ctx; a nil ctx can only decode bare scalar values.
func NewDecoder(ctx *DecodeCtx, buf []uint8) *Decoder {
	return &Decoder{
		ctx: ctx,
		buf: buf,
	}
}

func (d *Decoder) Context() *DecodeCtx {
	return d.ctx
}

// Offset returns the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.off
}

func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

func (d *Decoder) take(n int) ([]uint8, error) {
	if n < 0 || d.Remaining() < n {
		return nil, errTruncated(d.off, n, d.Remaining())
	}
	buf := d.buf[d.off : d.off+n]
	d.off += n
	return buf, nil
}

// PeekID returns the next 4 bytes as a wire id without consuming them.
func (d *Decoder) PeekID() (uint32, error) {
	if d.Remaining() < 4 {
		return 0, errTruncated(d.off, 4, d.Remaining())
	}
	return leUint32(d.buf[d.off : d.off+4]), nil
}

func (d *Decoder) ID() (uint32, error) {
	return d.Uint32()
}

func (d *Decoder) Uint32() (uint32, error) {
	buf, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return leUint32(buf), nil
}

func (d *Decoder) Int() (int32, error) {
	v, err := d.Uint32()
	return int32(v), err
}

func (d *Decoder) Long() (int64, error) {
	buf, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return int64(leUint64(buf)), nil
}

func (d *Decoder) Double() (float64, error) {
	buf, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(leUint64(buf)), nil
}

func (d *Decoder) Int128() (Int128, error) {
	var v Int128
	buf, err := d.take(len(v))
	if err != nil {
		return v, err
	}
	copy(v[:], buf)
	return v, nil
}

func (d *Decoder) Int256() (Int256, error) {
	var v Int256
	buf, err := d.take(len(v))
	if err != nil {
		return v, err
	}
	copy(v[:], buf)
	return v, nil
}

func (d *Decoder) Bool() (bool, error) {
	off := d.off
	id, err := d.ID()
	if err != nil {
		return false, err
	}
	switch id {
	case BoolTrueID:
		return true, nil
	case BoolFalseID:
		return false, nil
	}
	return false, errUnexpectedType(id, "Bool", off)
}

// True reads the boxed true#3fed6320 marker.
func (d *Decoder) True() (bool, error) {
	off := d.off
	id, err := d.ID()
	if err != nil {
		return false, err
	}
	if id != TrueID {
		return false, errUnexpectedType(id, "True", off)
	}
	return true, nil
}

func (d *Decoder) Bytes() ([]uint8, error) {
	buf, err := d.rawBytes()
	if err != nil {
		return nil, err
	}
	return bytes.Clone(buf), nil
}

func (d *Decoder) String() (string, error) {
	buf, err := d.rawBytes()
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (d *Decoder) rawBytes() ([]uint8, error) {
	start := d.off
	prefix, err := d.take(1)
	if err != nil {
		return nil, err
	}
	n := int(prefix[0])
	header := 1
	switch {
	case n == bytesLongPrefix:
		lenBuf, err := d.take(3)
		if err != nil {
			return nil, err
		}
		n = int(lenBuf[0]) | int(lenBuf[1])<<8 | int(lenBuf[2])<<16
		header = 4
		if n < bytesLongPrefix {
			return nil, errInvalidLength(start, n)
		}
	case n > bytesLongPrefix:
		return nil, errInvalidLength(start, n)
	}
	total := BytesLength(n) - header
	buf, err := d.take(total)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

// VectorLen reads a vector header. A boxed header must start with the
// vector#1cb5c415 id.
func (d *Decoder) VectorLen(boxed bool) (int, error) {
	if boxed {
		off := d.off
		id, err := d.ID()
		if err != nil {
			return 0, err
		}
		if id != VectorID {
			return 0, errUnexpectedType(id, "Vector", off)
		}
	}
	off := d.off
	n, err := d.Uint32()
	if err != nil {
		return 0, err
	}
	// Every element occupies at least 4 bytes.
	if uint64(n)*4 > uint64(d.Remaining()) {
		return 0, errTruncated(off, int(min(uint64(n)*4, math.MaxInt32)), d.Remaining())
	}
	return int(n), nil
}

// Object reads one boxed object, constructing it from the id through the
// decoder's context.
func (d *Decoder) Object() (Object, error) {
	off := d.off
	id, err := d.ID()
	if err != nil {
		return nil, err
	}
	obj, ok := d.ctx.newObject(id)
	if !ok {
		return nil, errUnknownType(id, off)
	}
	if err := obj.DecodeBare(d); err != nil {
		return nil, err
	}
	return obj, nil
}

// DecodeObjectAs reads one boxed object and asserts that it implements T.
// A gzip_packed wrapper is unpacked unless T accepts it directly.
func DecodeObjectAs[T any](d *Decoder) (T, error) {
	var zero T
	off := d.off
	obj, err := d.Object()
	if err != nil {
		return zero, err
	}
	if v, ok := obj.(T); ok {
		return v, nil
	}
	if packed, ok := obj.(*GzipPacked); ok {
		inner, err := packed.Unpack(d.ctx)
		if err != nil {
			return zero, err
		}
		if v, ok := inner.(T); ok {
			return v, nil
		}
		obj = inner
	}
	return zero, errUnexpectedType(obj.TypeID(), typeName[T](), off)
}

// DecodeVector reads a vector whose elements are read by get.
func DecodeVector[T any](
	d *Decoder,
	boxed bool,
	get func(*Decoder) (T, error),
) ([]T, error) {
	n, err := d.VectorLen(boxed)
	if err != nil {
		return nil, err
	}
	values := make([]T, 0, n)
	for ii := 0; ii < n; ii++ {
		v, err := get(d)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// DecodeObjectVector reads a vector of boxed objects implementing T.
func DecodeObjectVector[T any](d *Decoder, boxed bool) ([]T, error) {
	return DecodeVector(d, boxed, DecodeObjectAs[T])
}
