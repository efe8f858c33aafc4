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
	"math"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"go.tl-lang.org/tl/catalog"
)

type cmdCatalog struct {
	dbPath string
	strict bool
}

func (*cmdCatalog) help() *commandHelp {
	return &commandHelp{
		usage:   "catalog (add SCHEMA | layers | lookup ID|NAME | diff FROM TO)",
		summary: "Record schema layers and query combinator id history",
	}
}

func (cmd *cmdCatalog) flags(flags *pflag.FlagSet) {
	flags.StringVar(&cmd.dbPath, "db", "", "catalog database file")
	flags.BoolVar(&cmd.strict, "strict", false, "reject malformed declaration lines in added schemas")
}

func (cmd *cmdCatalog) run(ctx context.Context, argv []string) int {
	if cmd.dbPath == "" {
		log.Error("No catalog database specified (set --db=)")
		return 1
	}
	if len(argv) < 1 {
		log.Errorf("usage: tlc %s", cmd.help().usage)
		return 1
	}

	if argv[0] == "add" {
		if len(argv) != 2 {
			log.Error("usage: tlc catalog add SCHEMA")
			return 1
		}
		return cmd.add(argv[1])
	}

	cat, err := catalog.Open(cmd.dbPath)
	if err != nil {
		log.Error(err)
		return 1
	}
	defer cat.Close()

	switch argv[0] {
	case "layers":
		err = cmd.layers(cat)
	case "lookup":
		if len(argv) != 2 {
			log.Error("usage: tlc catalog lookup ID|NAME")
			return 1
		}
		err = cmd.lookup(cat, argv[1])
	case "diff":
		if len(argv) != 3 {
			log.Error("usage: tlc catalog diff FROM TO")
			return 1
		}
		err = cmd.diff(cat, argv[1], argv[2])
	default:
		log.Errorf("Unknown catalog command %q", argv[0])
		return 1
	}
	if err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func (cmd *cmdCatalog) add(schemaPath string) int {
	sf := &schemaFlags{strict: cmd.strict, catalogPath: cmd.dbPath}
	model, _ := sf.load(schemaPath)
	if model == nil {
		return 1
	}
	cat, err := catalog.Open(cmd.dbPath)
	if err != nil {
		log.Error(err)
		return 1
	}
	defer cat.Close()
	if err := cat.AddLayer(model); err != nil {
		log.Error(err)
		return 1
	}
	log.Infof(
		"recorded layer %d: %d constructors, %d functions",
		model.Layer, len(model.Constructors()), len(model.Functions()),
	)
	return 0
}

func (cmd *cmdCatalog) layers(cat *catalog.Catalog) error {
	layers, err := cat.Layers()
	if err != nil {
		return err
	}
	for _, layer := range layers {
		fmt.Fprintln(os.Stdout, layer)
	}
	return nil
}

// lookup accepts a hex id ("0x83314fca" or "83314fca") or a qualified
// name, which resolves to its id in the latest recorded layer. A
// constructor name is tried before a function name.
func (cmd *cmdCatalog) lookup(cat *catalog.Catalog, arg string) error {
	id, err := resolveID(cat, arg)
	if err != nil {
		return err
	}
	entries, err := cat.Lookup(id)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("id 0x%08x is not in the catalog", id)
	}
	for _, entry := range entries {
		fmt.Fprintf(os.Stdout, "%d\t%s\n", entry.Layer, entry.Decl)
	}
	return nil
}

func resolveID(cat *catalog.Catalog, arg string) (uint32, error) {
	if digits, ok := strings.CutPrefix(arg, "0x"); ok {
		id, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("Invalid combinator id %q", arg)
		}
		return uint32(id), nil
	}
	for _, function := range []bool{false, true} {
		latest, _, found, err := cat.PreviousID(arg, function, math.MaxInt32)
		if err != nil || found {
			return latest, err
		}
	}
	id, err := strconv.ParseUint(arg, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%q is not in the catalog", arg)
	}
	return uint32(id), nil
}

func (cmd *cmdCatalog) diff(cat *catalog.Catalog, fromArg, toArg string) error {
	from, err := parseLayer(fromArg)
	if err != nil {
		return err
	}
	to, err := parseLayer(toArg)
	if err != nil {
		return err
	}
	diff, err := cat.Diff(from, to)
	if err != nil {
		return err
	}
	for _, entry := range diff.Removed {
		fmt.Fprintf(os.Stdout, "- %s\n", entry.Decl)
	}
	for _, entry := range diff.Added {
		fmt.Fprintf(os.Stdout, "+ %s\n", entry.Decl)
	}
	for _, change := range diff.Changed {
		fmt.Fprintf(os.Stdout, "~ %s\n  %s\n", change.From.Decl, change.To.Decl)
	}
	return nil
}

func parseLayer(arg string) (int32, error) {
	layer, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("Invalid layer number %q", arg)
	}
	return int32(layer), nil
}
