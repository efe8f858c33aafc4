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
	"encoding/binary"
	"math"
	"reflect"
)

const (
	// MaxBytesLen is the longest bytes or string value the length prefix
	// can describe.
	MaxBytesLen = 1<<24 - 1

	bytesLongPrefix = 0xFE
)

// Encoder appends TL values to a byte buffer. Scalar writes cannot fail;
// the first oversized value is remembered and reported by Err.
type Encoder struct {
	ctx *EncodeCtx
	buf []uint8
	err error
}

func NewEncoder(size int) *Encoder {
	return &Encoder{
		buf: make([]uint8, 0, max(size, 0)),
	}
}

func (e *Encoder) Bytes() []uint8 {
	return e.buf
}

func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) Err() error {
	return e.err
}

func (e *Encoder) PutID(id uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, id)
}

func (e *Encoder) PutUint32(v uint32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
}

func (e *Encoder) PutInt(v int32) {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(v))
}

func (e *Encoder) PutLong(v int64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, uint64(v))
}

func (e *Encoder) PutDouble(v float64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, math.Float64bits(v))
}

func (e *Encoder) PutInt128(v Int128) {
	e.buf = append(e.buf, v[:]...)
}

func (e *Encoder) PutInt256(v Int256) {
	e.buf = append(e.buf, v[:]...)
}

func (e *Encoder) PutBool(v bool) {
	if v {
		e.PutID(BoolTrueID)
	} else {
		e.PutID(BoolFalseID)
	}
}

// PutTrue writes the boxed true#3fed6320 marker used by non-optional
// fields of type true.
func (e *Encoder) PutTrue() {
	e.PutID(TrueID)
}

func (e *Encoder) PutBytes(v []uint8) {
	if !e.putLenPrefix(len(v)) {
		return
	}
	e.buf = append(e.buf, v...)
	e.putPadding(len(v))
}

func (e *Encoder) PutString(v string) {
	if !e.putLenPrefix(len(v)) {
		return
	}
	e.buf = append(e.buf, v...)
	e.putPadding(len(v))
}

func (e *Encoder) putLenPrefix(n int) bool {
	if n > MaxBytesLen {
		if e.err == nil {
			e.err = errBytesTooLong(n)
		}
		return false
	}
	if n < bytesLongPrefix {
		e.buf = append(e.buf, uint8(n))
		return true
	}
	e.buf = append(e.buf, bytesLongPrefix, uint8(n), uint8(n>>8), uint8(n>>16))
	return true
}

func (e *Encoder) putPadding(n int) {
	header := 1
	if n >= bytesLongPrefix {
		header = 4
	}
	for pad := BytesLength(n) - header - n; pad > 0; pad-- {
		e.buf = append(e.buf, 0x00)
	}
}

// PutVectorHeader writes the element count of a vector, preceded by the
// vector#1cb5c415 id when boxed is true.
func (e *Encoder) PutVectorHeader(n int, boxed bool) {
	if boxed {
		e.PutID(VectorID)
	}
	e.PutUint32(uint32(n))
}

// PutObject writes obj boxed.
func (e *Encoder) PutObject(obj Object) error {
	if isNil(obj) {
		return errNilObject("")
	}
	e.PutID(obj.TypeID())
	return obj.EncodeBare(e)
}

// PutField writes obj boxed, naming field in the error if obj is nil.
func (e *Encoder) PutField(field string, obj Object) error {
	if isNil(obj) {
		return errNilObject(field)
	}
	e.PutID(obj.TypeID())
	return obj.EncodeBare(e)
}

// PutVector writes a vector of values using put for each element.
func PutVector[T any](e *Encoder, boxed bool, values []T, put func(*Encoder, T)) {
	e.PutVectorHeader(len(values), boxed)
	for _, v := range values {
		put(e, v)
	}
}

// PutVectorErr is PutVector for element writers that can fail.
func PutVectorErr[T any](
	e *Encoder,
	boxed bool,
	values []T,
	put func(*Encoder, T) error,
) error {
	e.PutVectorHeader(len(values), boxed)
	for _, v := range values {
		if err := put(e, v); err != nil {
			return err
		}
	}
	return nil
}

// PutObjectVector writes a vector of boxed objects.
func PutObjectVector[T Object](e *Encoder, boxed bool, values []T) error {
	e.PutVectorHeader(len(values), boxed)
	for _, v := range values {
		if err := e.PutObject(v); err != nil {
			return err
		}
	}
	return nil
}

// BytesLength returns the encoded length of an n-byte bytes or string value,
// including the length prefix and padding.
func BytesLength(n int) int {
	header := 1
	if n >= bytesLongPrefix {
		header = 4
	}
	return (header + n + 3) &^ 3
}

func StringLength(s string) int {
	return BytesLength(len(s))
}

func VectorHeaderLength(boxed bool) int {
	if boxed {
		return 8
	}
	return 4
}

// VectorLength returns the encoded length of a vector whose elements are
// measured by size.
func VectorLength[T any](boxed bool, values []T, size func(T) int) int {
	n := VectorHeaderLength(boxed)
	for _, v := range values {
		n += size(v)
	}
	return n
}

// ObjectVectorLength returns the encoded length of a vector of boxed
// objects.
func ObjectVectorLength[T Object](boxed bool, values []T) int {
	n := VectorHeaderLength(boxed)
	for _, v := range values {
		n += WireLength(v)
	}
	return n
}

func isNil(obj Object) bool {
	if obj == nil {
		return true
	}
	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
