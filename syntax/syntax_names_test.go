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

package syntax_test

import (
	"testing"

	"go.tl-lang.org/tl/internal/testutil"
	"go.tl-lang.org/tl/syntax"
)

func TestCaseConversion(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"inputPeerUser",
		"getFutureSalts",
		"id",
		"resolveUsername",
	} {
		snake := syntax.SnakeCase(name)
		testutil.ExpectEq(t, name, syntax.CamelCase(snake))
	}
	testutil.ExpectEq(t, "input_peer_user", syntax.SnakeCase("inputPeerUser"))
	testutil.ExpectEq(t, "accessHash", syntax.CamelCase("access_hash"))
}

func TestGoName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"inputPeerEmpty":      "InputPeerEmpty",
		"access_hash":         "AccessHash",
		"messages.chatsSlice": "MessagesChatsSlice",
		"Vector":              "Vector",
	}
	for in, want := range tests {
		testutil.ExpectEq(t, want, syntax.GoName(in))
	}
}

func TestFieldName(t *testing.T) {
	t.Parallel()

	testutil.ExpectEq(t, "is_self", syntax.FieldName("self"))
	testutil.ExpectEq(t, "type_", syntax.FieldName("type"))
	testutil.ExpectEq(t, "range_", syntax.FieldName("range"))
	testutil.ExpectEq(t, "user_id", syntax.FieldName("user_id"))
}
