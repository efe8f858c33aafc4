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

// Package tltext renders TL objects as indented text, for debugging and
// for the output of "tlc decode".
//
//	user#83314fca {
//		id = 42
//		is_self = .true
//		first_name = "Ada"
//	}
package tltext

import (
	"encoding/hex"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"go.tl-lang.org/tl"
)

func Encode(obj tl.Object) string {
	var buf strings.Builder
	EncodeTo(obj, &buf)
	return buf.String()
}

func EncodeTo(obj tl.Object, w io.Writer) error {
	e := encoder{w: w}
	e.linef("%s {", header(obj))
	e.indent += 1
	e.visitObject(obj)
	e.indent -= 1
	e.line("}")
	return e.err
}

type encoder struct {
	w      io.Writer
	indent int
	err    error
}

// pending is implemented by [tl.Lazy] values.
type pending interface {
	IsPending() bool
	Marker() string
}

func header(obj tl.Object) string {
	return fmt.Sprintf("%s#%08x", obj.TypeName(), obj.TypeID())
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	if indent := strings.Repeat("\t", e.indent); indent != "" {
		if _, err := io.WriteString(e.w, indent); err != nil {
			e.err = err
			return
		}
	}
	if _, err := io.WriteString(e.w, s); err != nil {
		e.err = err
		return
	}
	if _, err := io.WriteString(e.w, "\n"); err != nil {
		e.err = err
		return
	}
}

func (e *encoder) linef(format string, a ...any) {
	e.line(fmt.Sprintf(format, a...))
}

func (e *encoder) visitObject(obj tl.Object) {
	for name, value := range obj.Fields() {
		if e.err != nil {
			return
		}
		e.visitField(name+" = ", value)
	}
}

// visitField writes one value. The prefix is "name = " for fields and
// empty for vector items.
func (e *encoder) visitField(prefix string, value any) {
	if value == nil {
		e.line(prefix + "null")
		return
	}
	if lazy, ok := value.(pending); ok {
		if lazy.IsPending() {
			e.linef("%s<pending %s>", prefix, quote(lazy.Marker()))
			return
		}
		value = reflect.ValueOf(value).MethodByName("Peek").Call(nil)[0].Interface()
	}

	if scalar := fmtScalar(value); scalar != "" {
		e.line(prefix + scalar)
		return
	}

	if value, ok := value.([]uint8); ok {
		var buf strings.Builder
		for ii, b := range value {
			if ii != 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "0x%02X", b)
		}
		e.linef("%s[%s]", prefix, buf.String())
		return
	}

	if obj, ok := value.(tl.Object); ok {
		if v := reflect.ValueOf(obj); v.Kind() == reflect.Pointer && v.IsNil() {
			e.line(prefix + "null")
			return
		}
		e.linef("%s%s {", prefix, header(obj))
		e.indent += 1
		e.visitObject(obj)
		e.indent -= 1
		e.line("}")
		return
	}

	if items := reflect.ValueOf(value); items.Kind() == reflect.Slice {
		if items.Len() == 0 {
			e.line(prefix + "[]")
			return
		}
		e.line(prefix + "[")
		e.indent += 1
		for ii := 0; ii < items.Len(); ii++ {
			item := items.Index(ii)
			// Builtins such as future_salts hold bare items by value.
			if item.Kind() == reflect.Struct {
				if obj, ok := item.Addr().Interface().(tl.Object); ok {
					e.visitField("", obj)
					continue
				}
			}
			e.visitField("", item.Interface())
		}
		e.indent -= 1
		e.line("]")
		return
	}

	panic(fmt.Sprintf("visitField: unhandled value %v (%T)", value, value))
}

func fmtScalar(value any) string {
	switch value := value.(type) {
	case bool:
		if value {
			return ".true"
		}
		return ".false"
	case uint32:
		return strconv.FormatUint(uint64(value), 10)
	case int32:
		return strconv.FormatInt(int64(value), 10)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64)
	case string:
		return quote(value)
	case tl.Int128:
		return "0x" + hex.EncodeToString(value[:])
	case tl.Int256:
		return "0x" + hex.EncodeToString(value[:])
	}
	return ""
}

func quote(text string) string {
	var buf strings.Builder
	buf.WriteByte('"')
	for _, c := range text {
		if c == '\\' || c == '"' {
			buf.WriteByte('\\')
			buf.WriteRune(c)
			continue
		}
		if c == '\t' {
			buf.WriteString("\\t")
			continue
		}
		if c == '\n' {
			buf.WriteString("\\n")
			continue
		}
		if c < 0x20 || c == 0x7F {
			fmt.Fprintf(&buf, "\\x%02X", c)
			continue
		}
		buf.WriteRune(c)
	}
	buf.WriteByte('"')
	return buf.String()
}
