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

package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"path"
	"slices"
)

// goFile accumulates the body of one generated file and the imports it
// needs.
type goFile struct {
	path    string
	pkg     string
	runtime string
	imports map[string]bool
	body    bytes.Buffer
}

func (g *generator) newFile(name string) *goFile {
	return &goFile{
		path:    name,
		pkg:     g.opts.pkg,
		runtime: g.opts.runtime,
		imports: make(map[string]bool),
	}
}

func (f *goFile) printf(format string, args ...any) {
	fmt.Fprintf(&f.body, format, args...)
}

func (f *goFile) use(importPath string) {
	f.imports[importPath] = true
}

func (f *goFile) useRuntime() {
	f.use(f.runtime)
}

func (f *goFile) render() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by tlc. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", f.pkg)

	paths := make([]string, 0, len(f.imports))
	for p := range f.imports {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	if len(paths) > 0 {
		buf.WriteString("import (\n")
		for _, p := range paths {
			if p == f.runtime && path.Base(p) != "tl" {
				fmt.Fprintf(&buf, "\ttl %q\n", p)
			} else {
				fmt.Fprintf(&buf, "\t%q\n", p)
			}
		}
		buf.WriteString(")\n\n")
	}
	buf.Write(f.body.Bytes())

	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: formatting %s: %w", f.path, err)
	}
	return out, nil
}

func fileName(kind, namespace string) string {
	if namespace == "" {
		return kind + ".go"
	}
	return kind + "_" + namespace + ".go"
}
