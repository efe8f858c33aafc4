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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"go.tl-lang.org/tl/catalog"
	"go.tl-lang.org/tl/compiler"
	"go.tl-lang.org/tl/schema"
	"go.tl-lang.org/tl/syntax"
)

// readInput reads a file, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes to a file, or stdout when path is "" or "-".
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	openFlags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	fp, err := os.OpenFile(path, openFlags, 0o666)
	if err != nil {
		return err
	}
	_, writeErr := fp.Write(data)
	closeErr := fp.Close()
	if writeErr != nil {
		return writeErr
	}
	return closeErr
}

// schemaFlags are shared by the commands that compile a schema.
type schemaFlags struct {
	strict      bool
	catalogPath string
}

func (sf *schemaFlags) register(flags *pflag.FlagSet) {
	flags.BoolVar(&sf.strict, "strict", false, "reject malformed declaration lines instead of skipping them")
	flags.StringVar(&sf.catalogPath, "catalog", "", "layer catalog checked for changed combinator ids")
}

// source is a schema file and its text, used to place diagnostics.
type source struct {
	path string
	text []byte
}

type diagnostic interface {
	Span() syntax.Span
}

// at renders the position of a diagnostic as "path:line:col".
func (src *source) at(d diagnostic) string {
	span := d.Span()
	if span.Len() == 0 && span.Start() == 0 {
		return src.path
	}
	off := int(span.Start())
	if off > len(src.text) {
		off = len(src.text)
	}
	before := src.text[:off]
	line := bytes.Count(before, []byte("\n")) + 1
	col := utf8.RuneCount(before[bytes.LastIndexByte(before, '\n')+1:]) + 1
	return fmt.Sprintf("%s:%d:%d", src.path, line, col)
}

// load parses and compiles the schema at path. Diagnostics are logged;
// the model is nil if any error was reported.
func (sf *schemaFlags) load(path string) (*schema.Model, *source) {
	text, err := readInput(path)
	if err != nil {
		log.Error(err)
		return nil, nil
	}
	src := &source{path: path, text: text}
	log.Debugf("parsing %s (%d bytes)", path, len(text))

	parsed, err := syntax.Parse(text, syntax.WithStrict(sf.strict))
	if err != nil {
		var synErr *syntax.Error
		if errors.As(err, &synErr) {
			log.Errorf("%s: %v", src.at(synErr), err)
		} else {
			log.Errorf("%s: %v", path, err)
		}
		return nil, src
	}
	for _, warn := range parsed.Warnings {
		log.Warnf("%s: %s", src.at(warn), warn)
	}

	var opts []compiler.CompileOption
	if sf.catalogPath != "" {
		cat, err := catalog.Open(sf.catalogPath)
		if err != nil {
			log.Error(err)
			return nil, src
		}
		defer cat.Close()
		opts = append(opts, compiler.WithCatalog(cat))
	}

	result := compiler.Compile(parsed, opts...)
	for _, warn := range result.Warnings {
		log.Warnf("%s: %s", src.at(warn), warn)
	}
	if len(result.Errors) > 0 {
		for _, err := range result.Errors {
			log.Errorf("%s: %v", src.at(err), err)
		}
		return nil, src
	}
	model := result.Model()
	log.Debugf(
		"compiled layer %d: %d constructors, %d functions",
		model.Layer, len(model.Constructors()), len(model.Functions()),
	)
	return model, src
}

func splitPath(path string) []string {
	return strings.Split(path, "/")
}

// outPath joins a plugin-supplied relative path onto outDir, rejecting
// paths that would escape it.
func outPath(outDir, path string) (string, error) {
	parts := splitPath(path)
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return "", fmt.Errorf("Invalid output path %q: bad path component %q", path, part)
		}
		if filepath.IsAbs(part) || strings.ContainsRune(part, '\\') {
			return "", fmt.Errorf("Invalid output path %q: bad path component %q", path, part)
		}
	}
	return filepath.Join(append([]string{outDir}, parts...)...), nil
}
