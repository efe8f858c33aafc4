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

// Command tlc-codegen-go is the Go code generator plugin.
//
// Built for WebAssembly it exports the tlc_codegen functions called by
// "tlc codegen --plugin=go". Run natively it reads one encoded request
// from stdin and writes the encoded response to stdout.
package main

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"go.tl-lang.org/tl/codegen/plugin"
)

func main() {
	req, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	resp, ok := plugin.Serve(req, plugin.GenerateGo)
	if _, err := os.Stdout.Write(resp); err != nil {
		log.Fatal(err)
	}
	if !ok {
		os.Exit(1)
	}
}
