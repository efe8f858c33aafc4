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
	"fmt"
)

// Kind classifies how a field is laid out on the wire.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindLong
	KindInt128
	KindInt256
	KindDouble
	KindBytes
	KindString
	KindBool
	KindTrue
	KindFlags
	KindObject
	KindVector
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindInt:     "int",
	KindLong:    "long",
	KindInt128:  "int128",
	KindInt256:  "int256",
	KindDouble:  "double",
	KindBytes:   "bytes",
	KindString:  "string",
	KindBool:    "Bool",
	KindTrue:    "true",
	KindFlags:   "#",
	KindObject:  "object",
	KindVector:  "vector",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Scalar reports whether values of this kind are written without an id.
func (k Kind) Scalar() bool {
	switch k {
	case KindInt, KindLong, KindInt128, KindInt256, KindDouble,
		KindBytes, KindString:
		return true
	}
	return false
}

// Placeable reports whether a field of this kind may carry a placeholder
// sentinel.
func (k Kind) Placeable() bool {
	return k.Scalar() || k == KindBool
}

// FixedLength returns the encoded length of fixed-size kinds, or -1.
func (k Kind) FixedLength() int {
	switch k {
	case KindInt, KindBool, KindFlags:
		return 4
	case KindLong, KindDouble:
		return 8
	case KindInt128:
		return 16
	case KindInt256:
		return 32
	}
	return -1
}

// TypeDescriptor describes the wire layout of one constructor or function.
type TypeDescriptor struct {
	ID       uint32
	Name     string
	Type     string
	Function bool

	// Fields are in wire order, flag words included.
	Fields []FieldDescriptor
}

// FieldDescriptor describes one field, or the element of a vector.
type FieldDescriptor struct {
	Name string
	Kind Kind

	// Elem describes vector elements when Kind is KindVector.
	Elem *FieldDescriptor

	// Boxed is set for Vector<T>, which carries the vector id.
	Boxed bool

	// TypeName is the TL type of an object field. Generic "!X" fields
	// accept any object.
	TypeName string

	// FlagField is the index in Fields of the flag word guarding this
	// field, or -1 if the field is required.
	FlagField int
	FlagBit   uint8
}

// Optional reports whether the field is guarded by a flag bit.
func (f *FieldDescriptor) Optional() bool {
	return f.FlagField >= 0
}

// Field returns the descriptor of the named field.
func (desc *TypeDescriptor) Field(name string) (*FieldDescriptor, int, bool) {
	for ii := range desc.Fields {
		if desc.Fields[ii].Name == name {
			return &desc.Fields[ii], ii, true
		}
	}
	return nil, -1, false
}
