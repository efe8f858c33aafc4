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
	"strings"
	"unicode"
)

// ReservedNames maps field names that cannot be used as identifiers in
// generated code to their substitutes. The same table is applied by the
// parser, the code generator, and the runtime field descriptors.
var ReservedNames = map[string]string{
	"self": "is_self",

	"break":       "break_",
	"case":        "case_",
	"chan":        "chan_",
	"const":       "const_",
	"continue":    "continue_",
	"default":     "default_",
	"defer":       "defer_",
	"else":        "else_",
	"fallthrough": "fallthrough_",
	"for":         "for_",
	"func":        "func_",
	"go":          "go_",
	"goto":        "goto_",
	"if":          "if_",
	"import":      "import_",
	"interface":   "interface_",
	"map":         "map_",
	"package":     "package_",
	"range":       "range_",
	"return":      "return_",
	"select":      "select_",
	"struct":      "struct_",
	"switch":      "switch_",
	"type":        "type_",
	"var":         "var_",
}

// FieldName applies [ReservedNames] to a field name.
func FieldName(name string) string {
	if renamed, ok := ReservedNames[name]; ok {
		return renamed
	}
	return name
}

// SnakeCase converts a lowerCamel TL identifier to snake_case by
// lowering each upper-case letter and prefixing it with '_'.
//
// For identifiers that start with a lower-case letter and contain no
// '_', CamelCase(SnakeCase(name)) == name.
func SnakeCase(name string) string {
	var buf strings.Builder
	for ii, r := range name {
		if unicode.IsUpper(r) {
			if ii > 0 {
				buf.WriteByte('_')
			}
			buf.WriteRune(unicode.ToLower(r))
			continue
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

// CamelCase converts snake_case to lowerCamel by removing each '_' and
// upper-casing the letter after it.
func CamelCase(name string) string {
	var buf strings.Builder
	upper := false
	for _, r := range name {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		buf.WriteRune(r)
	}
	return buf.String()
}

// GoName converts a TL identifier to an exported Go identifier, e.g.
// "inputPeerEmpty" to "InputPeerEmpty" and "access_hash" to "AccessHash".
func GoName(name string) string {
	var buf strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '.' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		buf.WriteRune(r)
	}
	return buf.String()
}
