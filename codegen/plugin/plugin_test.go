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

package plugin_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/codegen/plugin"
	"go.tl-lang.org/tl/internal/testutil"
)

var optComparer = cmp.AllowUnexported(tl.Opt[[]byte]{}, tl.Opt[string]{})

func TestSchemaIDs(t *testing.T) {
	t.Parallel()

	model := testutil.CompileSchema(t, plugin.Schema)
	for name, want := range map[string]uint32{
		"codegen.option":   plugin.OptionID,
		"codegen.request":  plugin.RequestID,
		"codegen.file":     plugin.FileID,
		"codegen.response": plugin.ResponseID,
	} {
		comb, ok := model.Lookup(name)
		if !ok {
			t.Fatalf("%s not in schema", name)
		}
		testutil.ExpectEq(t, want, comb.ID)
	}
}

func sampleRequest() *plugin.Request {
	return &plugin.Request{
		Source:      []byte("foo = Foo;\n"),
		PackageName: "foo",
		Options: []*plugin.Option{
			{Key: plugin.OptionRuntime, Value: "example.com/tl"},
		},
		Overrides: tl.Some([]byte(`{}`)),
	}
}

func TestRequestMatchesSchema(t *testing.T) {
	t.Parallel()

	_, registry := testutil.Registry(t, plugin.Schema)
	req := sampleRequest()
	buf, err := tl.Encode(req)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, len(buf), tl.WireLength(req))

	obj, err := tl.Decode(&tl.DecodeCtx{Registry: registry}, buf)
	testutil.AssertNoError(t, err)
	dyn := obj.(*tl.Dynamic)
	testutil.ExpectEq(t, "codegen.request", dyn.TypeName())
	source, _ := dyn.Get("source")
	testutil.ExpectBytesEq(t, req.Source, source.([]byte))
	overrides, _ := dyn.Get("overrides")
	testutil.ExpectBytesEq(t, []byte(`{}`), overrides.([]byte))

	again, err := tl.Encode(dyn)
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, buf, again)
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	req := sampleRequest()
	buf, err := tl.Encode(req)
	testutil.AssertNoError(t, err)
	decoded, err := plugin.DecodeRequest(buf)
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, req, decoded, optComparer)

	runtime, ok := decoded.Option(plugin.OptionRuntime)
	testutil.ExpectTrue(t, ok)
	testutil.ExpectEq(t, "example.com/tl", runtime)
	_, ok = decoded.Option("missing")
	testutil.ExpectFalse(t, ok)

	resp := &plugin.Response{
		Files: []*plugin.File{
			{Path: "types.go", Content: []byte("package foo\n")},
		},
		Message: tl.Some("partial"),
	}
	buf, err = tl.Encode(resp)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, len(buf), tl.WireLength(resp))
	decodedResp, err := plugin.DecodeResponse(buf)
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, resp, decodedResp, optComparer)
}

func TestGenerateGo(t *testing.T) {
	t.Parallel()

	resp := plugin.GenerateGo(&plugin.Request{
		Source:      testutil.Schema("api"),
		PackageName: "telegram",
	})
	if msg, ok := resp.Message.Get(); ok {
		t.Fatalf("GenerateGo: %s", msg)
	}
	paths := make([]string, 0, len(resp.Files))
	for _, f := range resp.Files {
		paths = append(paths, f.Path)
		testutil.ExpectTrue(t, strings.Contains(string(f.Content), "\npackage telegram\n"))
	}
	testutil.ExpectEq(t, 15, len(paths))
	testutil.ExpectEq(t, "base.go", paths[0])
}

func TestGenerateGoFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  *plugin.Request
		want string
	}{
		{
			name: "syntax",
			req:  &plugin.Request{Source: []byte("foo\xff = Foo;")},
			want: `^E1001: `,
		},
		{
			name: "compile",
			req:  &plugin.Request{Source: []byte("foo#00000001 x:Bar = Foo;")},
			want: `^E30\d\d: `,
		},
		{
			name: "overrides",
			req: &plugin.Request{
				Source:    []byte("foo#00000001 = Foo;"),
				Overrides: tl.Some([]byte(`{"redirect": []}`)),
			},
			want: `unknown field "redirect"`,
		},
		{
			name: "package",
			req: &plugin.Request{
				Source:      []byte("foo#00000001 = Foo;"),
				PackageName: "func",
			},
			want: `invalid package name`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			resp := plugin.GenerateGo(test.req)
			msg, ok := resp.Message.Get()
			testutil.ExpectTrue(t, ok)
			testutil.ExpectMatch(t, test.want, msg)
			testutil.ExpectEq(t, 0, len(resp.Files))
		})
	}
}

func TestServe(t *testing.T) {
	t.Parallel()

	req := &plugin.Request{Source: []byte("foo#00000001 = Foo;")}
	buf, err := tl.Encode(req)
	testutil.AssertNoError(t, err)
	out, ok := plugin.Serve(buf, plugin.GenerateGo)
	testutil.ExpectTrue(t, ok)
	resp, err := plugin.DecodeResponse(out)
	testutil.AssertNoError(t, err)
	testutil.ExpectFalse(t, resp.Message.IsSet())
	testutil.ExpectEq(t, 3, len(resp.Files))

	out, ok = plugin.Serve([]byte{1, 2, 3}, plugin.GenerateGo)
	testutil.ExpectFalse(t, ok)
	resp, err = plugin.DecodeResponse(out)
	testutil.AssertNoError(t, err)
	msg, _ := resp.Message.Get()
	testutil.ExpectMatch(t, `^E50\d\d: `, msg)
}
