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

package testutil

import (
	"embed"
	"io/fs"
)

//go:embed testdata
var testdataFS embed.FS

// TestdataFS returns the shared test fixtures, rooted at testdata/.
func TestdataFS() (fs.FS, error) {
	return fs.Sub(testdataFS, "testdata")
}

// Schema returns the source of schemas/<name>.tl.
func Schema(name string) []byte {
	src, err := testdataFS.ReadFile("testdata/schemas/" + name + ".tl")
	if err != nil {
		panic(err)
	}
	return src
}
