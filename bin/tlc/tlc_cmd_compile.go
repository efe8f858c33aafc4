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
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"go.tl-lang.org/tl/catalog"
	"go.tl-lang.org/tl/schema"
)

type cmdCompile struct {
	schemaFlags
	outPath string
	record  bool
}

func (*cmdCompile) help() *commandHelp {
	return &commandHelp{
		usage:   "compile SCHEMA",
		summary: "Check a schema and print its canonical declarations",
	}
}

func (cmd *cmdCompile) flags(flags *pflag.FlagSet) {
	cmd.schemaFlags.register(flags)
	flags.StringVarP(&cmd.outPath, "output", "o", "", "write declarations to this file instead of stdout")
	flags.BoolVar(&cmd.record, "record", false, "record the compiled layer in the --catalog database")
}

func (cmd *cmdCompile) run(ctx context.Context, argv []string) int {
	if len(argv) != 1 {
		log.Error("usage: tlc compile SCHEMA")
		return 1
	}
	if cmd.record && cmd.catalogPath == "" {
		log.Error("--record requires --catalog")
		return 1
	}

	model, _ := cmd.load(argv[0])
	if model == nil {
		return 1
	}

	if cmd.record {
		cat, err := catalog.Open(cmd.catalogPath)
		if err != nil {
			log.Error(err)
			return 1
		}
		err = cat.AddLayer(model)
		closeErr := cat.Close()
		if err == nil {
			err = closeErr
		}
		if err != nil {
			log.Error(err)
			return 1
		}
		log.Infof("recorded layer %d in %s", model.Layer, cmd.catalogPath)
	}

	if err := writeOutput(cmd.outPath, []byte(canonical(model))); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

// canonical renders a model as TL source: constructors, then functions,
// each sorted by qualified name with explicit ids.
func canonical(model *schema.Model) string {
	var buf strings.Builder
	for _, c := range model.Constructors() {
		buf.WriteString(c.String() + "\n")
	}
	if functions := model.Functions(); len(functions) > 0 {
		buf.WriteString("\n---functions---\n\n")
		for _, c := range functions {
			buf.WriteString(c.String() + "\n")
		}
	}
	if model.Layer != 0 {
		fmt.Fprintf(&buf, "\n// LAYER %d\n", model.Layer)
	}
	return buf.String()
}
