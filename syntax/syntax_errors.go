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

package syntax

import (
	"fmt"
	"math"
	"unicode/utf8"
)

type Error struct {
	code    uint32
	message string
	span    Span
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

func (err *Error) Span() Span {
	return err.span
}

type Warning struct {
	code    uint32
	message string
	span    Span
}

func (w *Warning) String() string {
	return fmt.Sprintf("W%d: %s", w.code, w.message)
}

func (w *Warning) Code() uint32 {
	return w.code
}

func (w *Warning) Message() string {
	return w.message
}

func (w *Warning) Span() Span {
	return w.span
}

func clampLen(n int) uint32 {
	if uint64(n) < math.MaxUint32 {
		return uint32(n)
	}
	return math.MaxUint32
}

func errSourceTooLong(srcLen int) error {
	return &Error{
		code: 1000,
		message: fmt.Sprintf(
			"Source file size (%d bytes) exceeds maximum (%d bytes)",
			srcLen, maxSrcLen,
		),
		span: Span{0, clampLen(srcLen)},
	}
}

func errInvalidUtf8(src []byte) error {
	var off uint32
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError {
			break
		}
		off += uint32(size)
		src = src[size:]
	}
	return &Error{
		code:    1001,
		message: "Source file contains invalid UTF-8",
		span:    Span{off, 1},
	}
}

func errUnexpectedCharacter(start uint32, r rune) error {
	return &Error{
		code:    1002,
		message: fmt.Sprintf("Unexpected character '%s' (U+%04X)", string(r), r),
		span:    Span{start, uint32(utf8.RuneLen(r))},
	}
}

func errForbiddenControlCharacter(start uint32, c byte) error {
	return &Error{
		code:    1003,
		message: fmt.Sprintf("Forbidden control character U+%04X", c),
		span:    Span{start, 1},
	}
}

func errTokenTooLong(start uint32, tokenLen int) error {
	return &Error{
		code: 1004,
		message: fmt.Sprintf(
			"Token size (%d bytes) exceeds maximum (%d bytes)",
			tokenLen, maxTokenLen,
		),
		span: Span{start, clampLen(tokenLen)},
	}
}

func errSectionInvalid(start uint32, token []byte) error {
	return &Error{
		code:    1005,
		message: fmt.Sprintf("Invalid section marker %q", token),
		span:    Span{start, clampLen(len(token))},
	}
}

func errCombinatorIDInvalid(span Span, token []byte) *Error {
	return &Error{
		code:    1006,
		message: fmt.Sprintf("Invalid combinator id %q", token),
		span:    span,
	}
}

func errUnexpectedToken(span Span, token []byte, want string) *Error {
	return &Error{
		code:    1007,
		message: fmt.Sprintf("Unexpected %q, expected %s", token, want),
		span:    span,
	}
}

func errUnexpectedEOL(span Span, want string) *Error {
	return &Error{
		code:    1008,
		message: fmt.Sprintf("Unexpected end of line, expected %s", want),
		span:    span,
	}
}

func errLayerDuplicate(span Span, prev int32) error {
	return &Error{
		code:    1009,
		message: fmt.Sprintf("Duplicate layer marker (layer %d already declared)", prev),
		span:    span,
	}
}

func errLayerInvalid(span Span, token []byte) error {
	return &Error{
		code:    1010,
		message: fmt.Sprintf("Invalid layer number %q", token),
		span:    span,
	}
}

func warnDeclarationSkipped(err *Error) *Warning {
	return &Warning{
		code:    1100,
		message: fmt.Sprintf("Skipped malformed declaration (%s)", err.message),
		span:    err.span,
	}
}
