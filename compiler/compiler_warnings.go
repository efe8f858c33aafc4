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

type Warning struct {
	code    uint32
	message string
	span    syntax.Span
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

func (w *Warning) Span() syntax.Span {
	return w.span
}

func warnMissingLayer() *Warning {
	return &Warning{
		code:    4000,
		message: "Schema has no LAYER marker",
	}
}

func warnIDChanged(name string, prevID uint32, prevLayer int32, id uint32, span syntax.Span) *Warning {
	return &Warning{
		code: 4001,
		message: fmt.Sprintf(
			"Id of '%s' changed from 0x%08x (layer %d) to 0x%08x",
			name, prevID, prevLayer, id,
		),
		span: span,
	}
}

func warnUnusedFlagWord(comb, field string, span syntax.Span) *Warning {
	return &Warning{
		code:    4002,
		message: fmt.Sprintf("Flags field '%s' of '%s' guards no fields", field, comb),
		span:    span,
	}
}

func warnBuiltinRedeclared(name string, id uint32, span syntax.Span) *Warning {
	return &Warning{
		code:    4003,
		message: fmt.Sprintf("Builtin '%s' (0x%08x) is provided by the runtime", name, id),
		span:    span,
	}
}
