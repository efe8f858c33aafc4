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

package main

import (
	"context"
	"encoding/hex"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/encoding/tltext"
)

type cmdDecode struct {
	schemaFlags
	hexInput bool
	unpack   bool
}

func (*cmdDecode) help() *commandHelp {
	return &commandHelp{
		usage:   "decode SCHEMA [INPUT]",
		summary: "Print a TL-encoded object as text",
	}
}

func (cmd *cmdDecode) flags(flags *pflag.FlagSet) {
	cmd.schemaFlags.register(flags)
	flags.BoolVar(&cmd.hexInput, "hex", false, "input is hex text; whitespace is ignored")
	flags.BoolVar(&cmd.unpack, "unpack", true, "print the contents of a top-level gzip_packed object")
}

func (cmd *cmdDecode) run(ctx context.Context, argv []string) int {
	if len(argv) < 1 || len(argv) > 2 {
		log.Error("usage: tlc decode SCHEMA [INPUT]")
		return 1
	}
	inputPath := "-"
	if len(argv) == 2 {
		inputPath = argv[1]
	}

	model, _ := cmd.load(argv[0])
	if model == nil {
		return 1
	}
	registry, err := model.Registry()
	if err != nil {
		log.Error(err)
		return 1
	}

	data, err := readInput(inputPath)
	if err != nil {
		log.Error(err)
		return 1
	}
	if cmd.hexInput {
		if data, err = hex.DecodeString(strings.Join(strings.Fields(string(data)), "")); err != nil {
			log.Error(err)
			return 1
		}
	}

	decodeCtx := &tl.DecodeCtx{Registry: registry}
	obj, err := tl.Decode(decodeCtx, data)
	if err != nil {
		log.Error(err)
		return 1
	}
	if packed, ok := obj.(*tl.GzipPacked); ok && cmd.unpack {
		if obj, err = packed.Unpack(decodeCtx); err != nil {
			log.Error(err)
			return 1
		}
	}
	log.Debugf("decoded %s#%08x from %d bytes", obj.TypeName(), obj.TypeID(), len(data))

	if err := tltext.EncodeTo(obj, os.Stdout); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}
