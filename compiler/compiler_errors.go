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

package compiler

import (
	"fmt"

	"go.tl-lang.org/tl/syntax"
)

type Error struct {
	code    uint32
	message string
	span    syntax.Span
}

var _ error = (*Error)(nil)

func (err *Error) Error() string {
	return fmt.Sprintf("E%d: %s", err.code, err.message)
}

func (err *Error) Code() uint32 {
	return err.code
}

func (err *Error) Message() string {
	return err.message
}

func (err *Error) Span() syntax.Span {
	return err.span
}

func errDuplicateID(section syntax.Section, id uint32, prev, name string, span syntax.Span) *Error {
	return &Error{
		code: 3000,
		message: fmt.Sprintf(
			"Duplicate %s id 0x%08x: declared by both '%s' and '%s'",
			section, id, prev, name,
		),
		span: span,
	}
}

func errDuplicateName(section syntax.Section, name string, span syntax.Span) *Error {
	return &Error{
		code:    3001,
		message: fmt.Sprintf("Duplicate %s name '%s'", section, name),
		span:    span,
	}
}

func errUndeclaredFlagWord(comb, field, word string, span syntax.Span) *Error {
	return &Error{
		code: 3002,
		message: fmt.Sprintf(
			"Field '%s' of '%s' references undeclared flags field '%s'",
			field, comb, word,
		),
		span: span,
	}
}

func errFlagBitRange(comb, field, bit string, span syntax.Span) *Error {
	return &Error{
		code: 3003,
		message: fmt.Sprintf(
			"Field '%s' of '%s' uses flag bit %q (must be 0 to 31)",
			field, comb, bit,
		),
		span: span,
	}
}

func errUnknownType(comb, field, ty string, span syntax.Span) *Error {
	return &Error{
		code: 3004,
		message: fmt.Sprintf(
			"Field '%s' of '%s' has unknown type '%s'",
			field, comb, ty,
		),
		span: span,
	}
}

func errUnresolvableResult(comb, result string, span syntax.Span) *Error {
	return &Error{
		code:    3005,
		message: fmt.Sprintf("Function '%s' returns unknown type '%s'", comb, result),
		span:    span,
	}
}

func errInvalidType(comb, field, ty string, span syntax.Span) *Error {
	return &Error{
		code: 3006,
		message: fmt.Sprintf(
			"Field '%s' of '%s' has unsupported type expression '%s'",
			field, comb, ty,
		),
		span: span,
	}
}

func errUndeclaredParam(comb, field, param string, span syntax.Span) *Error {
	return &Error{
		code: 3007,
		message: fmt.Sprintf(
			"Field '%s' of '%s' references undeclared type parameter '%s'",
			field, comb, param,
		),
		span: span,
	}
}

func errInvalidResult(comb, result string, span syntax.Span) *Error {
	return &Error{
		code:    3008,
		message: fmt.Sprintf("Constructor '%s' has invalid result type '%s'", comb, result),
		span:    span,
	}
}

func errDuplicateField(comb, field string, span syntax.Span) *Error {
	return &Error{
		code:    3009,
		message: fmt.Sprintf("Duplicate field '%s' in '%s'", field, comb),
		span:    span,
	}
}

func errCatalog(comb string, err error, span syntax.Span) *Error {
	return &Error{
		code:    3010,
		message: fmt.Sprintf("Catalog lookup for '%s' failed: %v", comb, err),
		span:    span,
	}
}
