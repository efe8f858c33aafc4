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
	"errors"
	"fmt"
	"reflect"
)

// DecodeError describes malformed or unsupported input. Offset is the
// byte position in the input where the problem was detected.
type DecodeError struct {
	code    uint32
	message string
	offset  int
	id      uint32
}

var _ error = (*DecodeError)(nil)

func (err *DecodeError) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *DecodeError) Code() uint32 {
	return err.code
}

func (err *DecodeError) Message() string {
	return err.message
}

func (err *DecodeError) Offset() int {
	return err.offset
}

// TypeID returns the wire id involved in the failure, if any.
func (err *DecodeError) TypeID() uint32 {
	return err.id
}

// Is reports whether target is a [DecodeError] with the same code, so
// that callers can match against the exported sentinels.
func (err *DecodeError) Is(target error) bool {
	var other *DecodeError
	if !errors.As(target, &other) {
		return false
	}
	return other.code == err.code
}

// EncodeError describes a value that cannot be encoded.
type EncodeError struct {
	code    uint32
	message string
	field   string
}

var _ error = (*EncodeError)(nil)

func (err *EncodeError) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *EncodeError) Code() uint32 {
	return err.code
}

func (err *EncodeError) Message() string {
	return err.message
}

// Field returns the TL field name involved in the failure, if any.
func (err *EncodeError) Field() string {
	return err.field
}

func (err *EncodeError) Is(target error) bool {
	var other *EncodeError
	if !errors.As(target, &other) {
		return false
	}
	return other.code == err.code
}

// Sentinels for use with [errors.Is].
var (
	ErrUnknownType     error = &DecodeError{code: 5000, message: "unknown type"}
	ErrTruncated       error = &DecodeError{code: 5001, message: "truncated input"}
	ErrTrailingBytes   error = &DecodeError{code: 5002, message: "trailing bytes"}
	ErrUnexpectedType  error = &DecodeError{code: 5003, message: "unexpected type"}
	ErrInvalidLength   error = &DecodeError{code: 5004, message: "invalid length"}
	ErrCorruptGzip     error = &DecodeError{code: 5005, message: "corrupt gzip_packed payload"}
	ErrDuplicateTypeID error = &DecodeError{code: 5006, message: "duplicate type id"}

	ErrNilObject          error = &EncodeError{code: 6000, message: "nil object"}
	ErrPendingPlaceholder error = &EncodeError{code: 6001, message: "placeholder not resolved"}
	ErrMissingField       error = &EncodeError{code: 6002, message: "missing required field"}
	ErrFieldType          error = &EncodeError{code: 6003, message: "field type mismatch"}
	ErrBytesTooLong       error = &EncodeError{code: 6004, message: "bytes value too long"}
	ErrUnknownField       error = &EncodeError{code: 6005, message: "unknown field"}
)

// Decode errors {{{

func errUnknownType(id uint32, offset int) error {
	return &DecodeError{
		code:    5000,
		message: fmt.Sprintf("Unknown type id 0x%08x at offset %d", id, offset),
		offset:  offset,
		id:      id,
	}
}

func errTruncated(offset, need, have int) error {
	return &DecodeError{
		code: 5001,
		message: fmt.Sprintf(
			"Input truncated at offset %d (need %d bytes, have %d)",
			offset, need, have,
		),
		offset: offset,
	}
}

func errTrailingBytes(offset, n int) error {
	return &DecodeError{
		code:    5002,
		message: fmt.Sprintf("%d trailing bytes after offset %d", n, offset),
		offset:  offset,
	}
}

func errUnexpectedType(id uint32, want string, offset int) error {
	return &DecodeError{
		code: 5003,
		message: fmt.Sprintf(
			"Unexpected type id 0x%08x at offset %d (want %s)",
			id, offset, want,
		),
		offset: offset,
		id:     id,
	}
}

func errInvalidLength(offset, n int) error {
	return &DecodeError{
		code:    5004,
		message: fmt.Sprintf("Invalid length prefix %d at offset %d", n, offset),
		offset:  offset,
	}
}

func errCorruptGzip(err error) error {
	return &DecodeError{
		code:    5005,
		message: fmt.Sprintf("Corrupt gzip_packed payload: %v", err),
		id:      GzipPackedID,
	}
}

func errDuplicateTypeID(id uint32, prev, name string) error {
	return &DecodeError{
		code: 5006,
		message: fmt.Sprintf(
			"Type id 0x%08x registered for both %q and %q",
			id, prev, name,
		),
		id: id,
	}
}

// }}}

// Encode errors {{{

func errNilObject(field string) error {
	message := "Cannot encode nil object"
	if field != "" {
		message = fmt.Sprintf("Cannot encode nil object in field %q", field)
	}
	return &EncodeError{
		code:    6000,
		message: message,
		field:   field,
	}
}

func errPendingPlaceholder(field string) error {
	return &EncodeError{
		code:    6001,
		message: fmt.Sprintf("Field %q holds an unresolved placeholder", field),
		field:   field,
	}
}

func errMissingField(typeName, field string) error {
	return &EncodeError{
		code:    6002,
		message: fmt.Sprintf("Missing required field %q of %s", field, typeName),
		field:   field,
	}
}

func errFieldType(typeName, field string, value any) error {
	return &EncodeError{
		code: 6003,
		message: fmt.Sprintf(
			"Field %q of %s cannot hold a value of type %T",
			field, typeName, value,
		),
		field: field,
	}
}

func errBytesTooLong(n int) error {
	return &EncodeError{
		code: 6004,
		message: fmt.Sprintf(
			"Bytes value length (%d) exceeds maximum (%d)",
			n, MaxBytesLen,
		),
	}
}

func errUnknownField(typeName, field string) error {
	return &EncodeError{
		code:    6005,
		message: fmt.Sprintf("%s has no field %q", typeName, field),
		field:   field,
	}
}

// }}}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
