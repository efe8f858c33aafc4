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

package plugin

import (
	"errors"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/codegen"
	"go.tl-lang.org/tl/compiler"
	"go.tl-lang.org/tl/syntax"
)

// OptionRuntime names the import path of the tl runtime package in the
// generated code.
const OptionRuntime = "runtime"

// Serve decodes a request, runs generate and encodes its response. A
// request that fails to decode is answered with an error message. The
// result reports whether the response carries generated files rather
// than an error.
func Serve(buf []byte, generate func(*Request) *Response) ([]byte, bool) {
	var resp *Response
	req, err := DecodeRequest(buf)
	if err != nil {
		resp = Failure(err)
	} else {
		resp = generate(req)
	}
	out, err := tl.Encode(resp)
	if err != nil {
		resp = Failure(err)
		out, _ = tl.Encode(resp)
	}
	return out, !resp.Message.IsSet()
}

// Failure returns a response reporting err.
func Failure(err error) *Response {
	return &Response{
		Files:   []*File{},
		Message: tl.Some(err.Error()),
	}
}

// GenerateGo answers req with the output of the Go emitter.
func GenerateGo(req *Request) *Response {
	files, err := generateGo(req)
	if err != nil {
		return Failure(err)
	}
	return &Response{Files: files}
}

func generateGo(req *Request) ([]*File, error) {
	parsed, err := syntax.Parse(req.Source)
	if err != nil {
		return nil, err
	}
	result := compiler.Compile(parsed)
	if len(result.Errors) > 0 {
		errs := make([]error, 0, len(result.Errors))
		for _, err := range result.Errors {
			errs = append(errs, err)
		}
		return nil, errors.Join(errs...)
	}

	var opts []codegen.Option
	if req.PackageName != "" {
		opts = append(opts, codegen.WithPackage(req.PackageName))
	}
	if runtime, ok := req.Option(OptionRuntime); ok {
		opts = append(opts, codegen.WithRuntimeImport(runtime))
	}
	if raw, ok := req.Overrides.Get(); ok {
		overrides, err := codegen.ParseOverrides(raw)
		if err != nil {
			return nil, err
		}
		opts = append(opts, codegen.WithOverrides(overrides))
	}

	generated, err := codegen.Generate(result.Model(), opts...)
	if err != nil {
		return nil, err
	}
	files := make([]*File, 0, len(generated))
	for _, f := range generated {
		files = append(files, &File{Path: f.Path, Content: f.Content})
	}
	return files, nil
}
