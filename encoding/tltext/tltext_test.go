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

package tltext_test

import (
	"testing"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/encoding/tltext"
	"go.tl-lang.org/tl/internal/testutil"
)

func TestEncodeNested(t *testing.T) {
	t.Parallel()

	model := testutil.CompileSchema(t, string(testutil.Schema("api")))
	username := testutil.NewObject(t, model, "username")
	testutil.Set(t, username, "username", "ada")
	testutil.Set(t, username, "active", true)

	user := testutil.NewObject(t, model, "user")
	testutil.Set(t, user, "id", int64(42))
	testutil.Set(t, user, "is_self", true)
	testutil.Set(t, user, "access_hash", int64(7))
	testutil.Set(t, user, "first_name", "Ada \"L\"\n")
	testutil.Set(t, user, "usernames", []any{username})

	want := `user#83314fca {
	id = 42
	is_self = .true
	access_hash = 7
	first_name = "Ada \"L\"\n"
	usernames = [
		username#b4073647 {
			username = "ada"
			active = .true
		}
	]
}
`
	testutil.ExpectNoDiff(t, want, tltext.Encode(user))
}

func TestEncodeScalars(t *testing.T) {
	t.Parallel()

	model := testutil.CompileSchema(t, string(testutil.Schema("api")))
	part := testutil.NewObject(t, model, "upload.saveFilePart")
	testutil.Set(t, part, "file_id", int64(-1))
	testutil.Set(t, part, "file_part", int32(3))
	testutil.Set(t, part, "bytes", []uint8{0x01, 0xFF})

	getChats := testutil.NewObject(t, model, "messages.getChats")
	testutil.Set(t, getChats, "id", []any{})

	file := testutil.NewObject(t, model, "inputFile")
	testutil.Set(t, file, "id", int64(1))
	testutil.Set(t, file, "parts", int32(2))
	testutil.Set(t, file, "name", "a.jpg")
	testutil.Set(t, file, "md5_checksum", tl.Pending[any]("md5"))

	testutil.ExpectNoDiff(t, `upload.saveFilePart#b304a621 {
	file_id = -1
	file_part = 3
	bytes = [0x01, 0xFF]
}
`, tltext.Encode(part))
	testutil.ExpectNoDiff(t, `messages.getChats#49e9528f {
	id = []
}
`, tltext.Encode(getChats))
	testutil.ExpectNoDiff(t, `inputFile#f52ff27f {
	id = 1
	parts = 2
	name = "a.jpg"
	md5_checksum = <pending "md5">
}
`, tltext.Encode(file))
}

func TestEncodeBuiltins(t *testing.T) {
	t.Parallel()

	salts := &tl.FutureSalts{
		ReqMsgID: 5,
		Now:      6,
		Salts: []tl.FutureSalt{
			{ValidSince: 1, ValidUntil: 2, Salt: 3},
		},
	}
	got := tltext.Encode(salts)
	testutil.ExpectMatch(t, `^future_salts#ae500895 \{\n`, got)
	testutil.ExpectMatch(t, `\tsalts = \[\n\t\tfuture_salt#0949d9dc \{\n`, got)

	var nonce tl.Int128
	nonce[0] = 0xAB
	model := testutil.CompileSchema(t, string(testutil.Schema("mtproto")))
	req := testutil.NewObject(t, model, "req_pq_multi")
	testutil.Set(t, req, "nonce", nonce)
	testutil.ExpectNoDiff(t, `req_pq_multi#be7e8ef1 {
	nonce = 0xab000000000000000000000000000000
}
`, tltext.Encode(req))
}
