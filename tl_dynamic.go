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
	"iter"
	"maps"
)

// Dynamic is an [Object] whose layout comes from a [TypeDescriptor]
// rather than generated code.
//
// Field values use these Go types:
//
//	int     int32
//	long    int64
//	int128  Int128
//	int256  Int256
//	double  float64
//	bytes   []uint8
//	string  string
//	Bool    bool
//	true    bool
//	#       uint32 (read-only, computed on encode)
//	object  Object
//	vector  []any
//
// A field listed in the decoder's placeholder table may also hold a
// Lazy[any].
type Dynamic struct {
	desc   *TypeDescriptor
	values map[string]any
}

var _ Object = (*Dynamic)(nil)

func NewDynamic(desc *TypeDescriptor) *Dynamic {
	return &Dynamic{
		desc:   desc,
		values: make(map[string]any),
	}
}

func (obj *Dynamic) Descriptor() *TypeDescriptor {
	return obj.desc
}

// Set assigns a field value. The value's Go type must match the field.
func (obj *Dynamic) Set(name string, value any) error {
	field, _, ok := obj.desc.Field(name)
	if !ok {
		return errUnknownField(obj.desc.Name, name)
	}
	if field.Kind == KindFlags || !checkValue(field, value) {
		return errFieldType(obj.desc.Name, name, value)
	}
	obj.values[name] = value
	return nil
}

// Get returns a field value. Flag words report the value they would be
// encoded with.
func (obj *Dynamic) Get(name string) (any, bool) {
	field, idx, ok := obj.desc.Field(name)
	if !ok {
		return nil, false
	}
	if field.Kind == KindFlags {
		return obj.flagWord(idx), true
	}
	value, ok := obj.values[name]
	return value, ok
}

// Clear removes a field value, which unsets an optional field's bit.
func (obj *Dynamic) Clear(name string) {
	delete(obj.values, name)
}

func (obj *Dynamic) TypeID() uint32 {
	return obj.desc.ID
}

func (obj *Dynamic) TypeName() string {
	return obj.desc.Name
}

func (obj *Dynamic) present(field *FieldDescriptor) bool {
	value, ok := obj.values[field.Name]
	if !ok {
		return false
	}
	if field.Kind == KindTrue {
		set, _ := value.(bool)
		return set
	}
	return true
}

func (obj *Dynamic) flagWord(idx int) uint32 {
	var word uint32
	for ii := range obj.desc.Fields {
		field := &obj.desc.Fields[ii]
		if field.FlagField == idx && obj.present(field) {
			word |= 1 << field.FlagBit
		}
	}
	return word
}

func (obj *Dynamic) BareLength() int {
	var n int
	for ii := range obj.desc.Fields {
		field := &obj.desc.Fields[ii]
		switch {
		case field.Kind == KindFlags:
			n += 4
		case field.Optional() && !obj.present(field):
		case field.Optional() && field.Kind == KindTrue:
		case field.Kind == KindTrue:
			n += 4
		default:
			if value, ok := obj.values[field.Name]; ok {
				n += valueLength(field, value)
			}
		}
	}
	return n
}

func (obj *Dynamic) EncodeBare(e *Encoder) error {
	for ii := range obj.desc.Fields {
		field := &obj.desc.Fields[ii]
		if field.Kind == KindFlags {
			e.PutUint32(obj.flagWord(ii))
			continue
		}
		if field.Optional() {
			if !obj.present(field) || field.Kind == KindTrue {
				continue
			}
		} else if field.Kind == KindTrue {
			e.PutTrue()
			continue
		}
		value, ok := obj.values[field.Name]
		if !ok {
			return errMissingField(obj.desc.Name, field.Name)
		}
		if lazy, ok := value.(Lazy[any]); ok {
			computed, err := lazy.Encodable(field.Name)
			if err != nil {
				return err
			}
			value = computed
		}
		if err := putValue(e, obj.desc.Name, field, value); err != nil {
			return err
		}
	}
	return nil
}

func (obj *Dynamic) DecodeBare(d *Decoder) error {
	words := make(map[int]uint32)
	values := make(map[string]any)
	for ii := range obj.desc.Fields {
		field := &obj.desc.Fields[ii]
		if field.Kind == KindFlags {
			word, err := d.Uint32()
			if err != nil {
				return err
			}
			words[ii] = word
			continue
		}
		if field.Optional() {
			if words[field.FlagField]&(1<<field.FlagBit) == 0 {
				continue
			}
			if field.Kind == KindTrue {
				values[field.Name] = true
				continue
			}
		}
		value, err := decodeValue(d, field)
		if err != nil {
			return err
		}
		if field.Kind.Placeable() {
			lazy := DecodeLazy(d, obj.desc.ID, field.Name, value)
			if lazy.IsPending() {
				value = lazy
			}
		}
		values[field.Name] = value
	}
	obj.values = values
	return nil
}

// Fields yields present fields, required ones first, in the order
// generated structs declare them.
func (obj *Dynamic) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, optional := range []bool{false, true} {
			for ii := range obj.desc.Fields {
				field := &obj.desc.Fields[ii]
				if field.Kind == KindFlags || field.Optional() != optional {
					continue
				}
				if field.Kind == KindTrue && !field.Optional() {
					if !yield(field.Name, true) {
						return
					}
					continue
				}
				value, ok := obj.values[field.Name]
				if !ok {
					continue
				}
				if !yield(field.Name, value) {
					return
				}
			}
		}
	}
}

// Values returns a copy of the field values.
func (obj *Dynamic) Values() map[string]any {
	return maps.Clone(obj.values)
}

func checkValue(field *FieldDescriptor, value any) bool {
	var ok bool
	switch field.Kind {
	case KindInt:
		_, ok = value.(int32)
	case KindLong:
		_, ok = value.(int64)
	case KindInt128:
		_, ok = value.(Int128)
	case KindInt256:
		_, ok = value.(Int256)
	case KindDouble:
		_, ok = value.(float64)
	case KindBytes:
		_, ok = value.([]uint8)
	case KindString:
		_, ok = value.(string)
	case KindBool, KindTrue:
		_, ok = value.(bool)
	case KindObject:
		var obj Object
		obj, ok = value.(Object)
		ok = ok && !isNil(obj)
	case KindVector:
		var items []any
		if items, ok = value.([]any); ok {
			for _, item := range items {
				if !checkValue(field.Elem, item) {
					return false
				}
			}
		}
	}
	if !ok {
		if lazy, isLazy := value.(Lazy[any]); isLazy {
			if v, computed := lazy.Get(); computed {
				return checkValue(field, v)
			}
			return field.Kind.Placeable()
		}
	}
	return ok
}

func valueLength(field *FieldDescriptor, value any) int {
	if lazy, ok := value.(Lazy[any]); ok {
		value = lazy.Peek()
		if value == nil {
			return 0
		}
	}
	if n := field.Kind.FixedLength(); n >= 0 {
		return n
	}
	switch field.Kind {
	case KindBytes:
		v, _ := value.([]uint8)
		return BytesLength(len(v))
	case KindString:
		v, _ := value.(string)
		return StringLength(v)
	case KindTrue:
		return 4
	case KindObject:
		v, _ := value.(Object)
		return WireLength(v)
	case KindVector:
		items, _ := value.([]any)
		return VectorLength(field.Boxed, items, func(item any) int {
			return valueLength(field.Elem, item)
		})
	}
	return 0
}

func putValue(e *Encoder, typeName string, field *FieldDescriptor, value any) error {
	if !checkValue(field, value) {
		return errFieldType(typeName, field.Name, value)
	}
	switch field.Kind {
	case KindInt:
		e.PutInt(value.(int32))
	case KindLong:
		e.PutLong(value.(int64))
	case KindInt128:
		e.PutInt128(value.(Int128))
	case KindInt256:
		e.PutInt256(value.(Int256))
	case KindDouble:
		e.PutDouble(value.(float64))
	case KindBytes:
		e.PutBytes(value.([]uint8))
	case KindString:
		e.PutString(value.(string))
	case KindBool:
		e.PutBool(value.(bool))
	case KindTrue:
		e.PutTrue()
	case KindObject:
		return e.PutField(field.Name, value.(Object))
	case KindVector:
		return PutVectorErr(e, field.Boxed, value.([]any), func(e *Encoder, item any) error {
			return putValue(e, typeName, field.Elem, item)
		})
	}
	return nil
}

func decodeValue(d *Decoder, field *FieldDescriptor) (any, error) {
	switch field.Kind {
	case KindInt:
		return d.Int()
	case KindLong:
		return d.Long()
	case KindInt128:
		return d.Int128()
	case KindInt256:
		return d.Int256()
	case KindDouble:
		return d.Double()
	case KindBytes:
		return d.Bytes()
	case KindString:
		return d.String()
	case KindBool:
		return d.Bool()
	case KindTrue:
		return d.True()
	case KindObject:
		return d.Object()
	case KindVector:
		return DecodeVector(d, field.Boxed, func(d *Decoder) (any, error) {
			return decodeValue(d, field.Elem)
		})
	}
	return nil, errUnexpectedType(0, field.Kind.String(), d.Offset())
}
