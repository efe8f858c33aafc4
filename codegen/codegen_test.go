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

package codegen_test

import (
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"go.tl-lang.org/tl/codegen"
	"go.tl-lang.org/tl/internal/testutil"
	"go.tl-lang.org/tl/schema"
)

func apiModel(t *testing.T) *schema.Model {
	t.Helper()
	return testutil.CompileSchema(t, string(testutil.Schema("api")))
}

func generate(t *testing.T, model *schema.Model, opts ...codegen.Option) map[string]string {
	t.Helper()
	files, err := codegen.Generate(model, opts...)
	testutil.AssertNoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Path] = string(f.Content)
	}
	return out
}

func parseFile(t *testing.T, name, src string) *ast.File {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), name, src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated %s does not parse: %v\n%s", name, err, src)
	}
	return file
}

// structFields returns "Name Type" for each field of the named struct.
func structFields(t *testing.T, file *ast.File, name string) []string {
	t.Helper()
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			if ts.Name.Name != name {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				t.Fatalf("%s is not a struct", name)
			}
			out := []string{}
			for _, field := range st.Fields.List {
				for _, ident := range field.Names {
					out = append(out, ident.Name+" "+types.ExprString(field.Type))
				}
			}
			return out
		}
	}
	t.Fatalf("struct %s not found", name)
	return nil
}

func declaredNames(file *ast.File) map[string]bool {
	out := make(map[string]bool)
	for _, decl := range file.Decls {
		switch decl := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range decl.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					out[spec.Name.Name] = true
				case *ast.ValueSpec:
					for _, ident := range spec.Names {
						if ident.Name != "_" {
							out[ident.Name] = true
						}
					}
				}
			}
		case *ast.FuncDecl:
			if decl.Recv == nil {
				out[decl.Name.Name] = true
			}
		}
	}
	return out
}

func TestGenerateAPI(t *testing.T) {
	t.Parallel()

	files := generate(t, apiModel(t))
	testutil.ExpectSliceEq(t, []string{
		"base.go",
		"base_contacts.go",
		"base_messages.go",
		"base_updates.go",
		"functions.go",
		"functions_contacts.go",
		"functions_messages.go",
		"functions_updates.go",
		"functions_upload.go",
		"functions_users.go",
		"registry.go",
		"types.go",
		"types_contacts.go",
		"types_messages.go",
		"types_updates.go",
	}, slices.Sorted(maps.Keys(files)))

	declared := make(map[string]bool)
	for path, src := range files {
		file := parseFile(t, path, src)
		testutil.ExpectEq(t, codegen.DefaultPackage, file.Name.Name)
		testutil.ExpectTrue(t, strings.HasPrefix(src, "// Code generated by tlc. DO NOT EDIT.\n"))
		for name := range declaredNames(file) {
			if declared[name] {
				t.Errorf("%s declared twice", name)
			}
			declared[name] = true
		}
	}
	for _, name := range []string{
		"InputPeerClass",
		"InputPeerUser",
		"InputPeerUserTypeID",
		"MessagesChatsClass",
		"MessagesChatsSlice",
		"ContactsResolvedPeer",
		"InvokeWithLayerRequest",
		"UsersGetUsersRequest",
		"UploadSaveFilePartRequest",
		"Layer",
		"TypeIDs",
		"Register",
		"NewRegistry",
		"Placeholders",
		"Redirects",
	} {
		if !declared[name] {
			t.Errorf("%s not declared", name)
		}
	}
	testutil.ExpectFalse(t, declared["BoolTrue"])
}

func TestStructFields(t *testing.T) {
	t.Parallel()

	files := generate(t, apiModel(t))
	file := parseFile(t, "types.go", files["types.go"])

	testutil.ExpectSliceEq(t, []string{
		"Id int64",
		"IsSelf bool",
		"Contact bool",
		"Bot bool",
		"BotCanEdit bool",
		"AccessHash tl.Opt[int64]",
		"FirstName tl.Opt[string]",
		"LastName tl.Opt[string]",
		"Username tl.Opt[string]",
		"Phone tl.Opt[string]",
		"Usernames tl.Opt[[]UsernameClass]",
	}, structFields(t, file, "User"))

	testutil.ExpectSliceEq(t, []string{
		"Id int64",
		"Title string",
		"ParticipantsCount int32",
		"Date int32",
		"Version int32",
		"Creator bool",
	}, structFields(t, file, "Chat"))

	testutil.ExpectSliceEq(t, []string{}, structFields(t, file, "InputPeerEmpty"))

	functions := parseFile(t, "functions.go", files["functions.go"])
	testutil.ExpectSliceEq(t, []string{
		"Layer int32",
		"Query tl.Object",
	}, structFields(t, functions, "InvokeWithLayerRequest"))

	upload := parseFile(t, "functions_upload.go", files["functions_upload.go"])
	testutil.ExpectSliceEq(t, []string{
		"FileId int64",
		"FilePart int32",
		"Bytes []byte",
	}, structFields(t, upload, "UploadSaveFilePartRequest"))
}

func TestGeneratedMethods(t *testing.T) {
	t.Parallel()

	files := generate(t, apiModel(t))
	types := files["types.go"]
	for _, want := range []string{
		"const InputPeerUserTypeID uint32 = 0xdde8a54c\n",
		"var _ InputPeerClass = (*InputPeerUser)(nil)\n",
		"func (*InputPeerUser) TypeName() string { return \"inputPeerUser\" }\n",
		"func (*InputPeerUser) isInputPeer() {}\n",
		"//\tuser#83314fca flags:# self:flags.10?true",
		"\t\tword0 |= 1 << 10\n",
		"\tif obj.AccessHash.IsSet() {\n\t\tword0 |= 1 << 0\n\t}\n",
		"\te.PutUint32(word1)\n",
		"\tobj.IsSelf = word0&(1<<10) != 0\n",
		"\t\tv, err := tl.DecodeObjectVector[UsernameClass](d, true)\n",
		"\t\tobj.Usernames = tl.Some(v)\n",
		"\tif obj.Id, err = d.Long(); err != nil {\n",
	} {
		if !strings.Contains(types, want) {
			t.Errorf("types.go does not contain %q", want)
		}
	}

	users := files["functions_users.go"]
	testutil.ExpectTrue(t, strings.Contains(users,
		"func (*UsersGetUsersRequest) DecodeResult(d *tl.Decoder) ([]UserClass, error) {\n"+
			"\treturn tl.DecodeObjectVector[UserClass](d, true)\n}"))

	upload := files["functions_upload.go"]
	testutil.ExpectTrue(t, strings.Contains(upload,
		"DecodeResult(d *tl.Decoder) (bool, error) {\n\treturn d.Bool()\n}"))

	base := files["base_messages.go"]
	testutil.ExpectTrue(t, strings.Contains(base,
		"// MessagesChatsClass is the TL type messages.Chats, implemented by MessagesChats and MessagesChatsSlice.\n"+
			"type MessagesChatsClass interface {\n\ttl.Object\n\tisMessagesChats()\n}\n"))

	registry := files["registry.go"]
	for _, want := range []string{
		"const Layer int32 = 158\n",
		"\tb.Register(UsersGetUsersRequestTypeID, \"users.getUsers\", func() tl.Object { return new(UsersGetUsersRequest) })\n",
		"\treturn tl.NewPlaceholders(map[uint32][]tl.Placeholder{})\n",
		"\treturn tl.NewRedirects(map[uint32]func() tl.Object{})\n",
	} {
		if !strings.Contains(registry, want) {
			t.Errorf("registry.go does not contain %q", want)
		}
	}
	testutil.ExpectMatch(t, `"messages\.chats":\s+MessagesChatsTypeID,`, registry)
}

func TestDeterministic(t *testing.T) {
	t.Parallel()

	model := apiModel(t)
	first, err := codegen.Generate(model)
	testutil.AssertNoError(t, err)
	second, err := codegen.Generate(model)
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, first, second)
}

func TestOptions(t *testing.T) {
	t.Parallel()

	model := apiModel(t)
	files := generate(t, model, codegen.WithPackage("telegram"))
	for path, src := range files {
		testutil.ExpectEq(t, "telegram", parseFile(t, path, src).Name.Name)
	}

	files = generate(t, model, codegen.WithRuntimeImport("example.com/runtime"))
	testutil.ExpectTrue(t, strings.Contains(files["registry.go"], "tl \"example.com/runtime\""))

	files = generate(t, model, codegen.WithRuntimeImport("example.com/wire/tl"))
	testutil.ExpectTrue(t, strings.Contains(files["registry.go"], "\t\"example.com/wire/tl\"\n"))

	for _, pkg := range []string{"", "func", "9lives", "a-b"} {
		_, err := codegen.Generate(model, codegen.WithPackage(pkg))
		testutil.ExpectMatch(t, `invalid package name`, errString(err))
	}

	_, err := codegen.Generate(nil)
	testutil.AssertError(t, err)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func TestWireLayouts(t *testing.T) {
	t.Parallel()

	model := testutil.CompileSchema(t, `
a#00000001 flags:# x:flags.0?Vector<vector<int>> y:flags.1?true z:int128 = A;
b#00000002 flags:# = B;
c#00000003 t:true fields:string = C;
`)
	files := generate(t, model)
	types := files["types.go"]
	file := parseFile(t, "types.go", types)

	testutil.ExpectSliceEq(t, []string{
		"Z tl.Int128",
		"X tl.Opt[[][]int32]",
		"Y bool",
	}, structFields(t, file, "A"))
	testutil.ExpectSliceEq(t, []string{}, structFields(t, file, "B"))
	testutil.ExpectSliceEq(t, []string{"Fields_ string"}, structFields(t, file, "C"))

	for _, want := range []string{
		"tl.PutVectorErr(e, true, v, func(e *tl.Encoder, v []int32) error {",
		"tl.PutVector(e, false, v, (*tl.Encoder).PutInt)",
		"tl.DecodeVector(d, true, func(d *tl.Decoder) ([]int32, error) {",
		"return tl.DecodeVector(d, false, (*tl.Decoder).Int)",
		"return tl.VectorHeaderLength(false) + 4*len(v)",
		"if _, err = d.Uint32(); err != nil {",
		"e.PutTrue()",
		"if _, err = d.True(); err != nil {",
		"if !yield(\"t\", true) {",
		"if obj.Z, err = d.Int128(); err != nil {",
	} {
		if !strings.Contains(types, want) {
			t.Errorf("types.go does not contain %q", want)
		}
	}
}

func TestOverrides(t *testing.T) {
	t.Parallel()

	overrides, err := codegen.ParseOverrides([]byte(`{
	"placeholders": [
		{"constructor": "inputFile", "field": "md5_checksum", "sentinel": "", "marker": "md5"},
		{"constructor": "inputFile", "field": "parts", "sentinel": "-1", "marker": "parts"}
	],
	"redirects": [
		{"constructor": "peerChat", "target": "peerUser"}
	]
}`))
	testutil.AssertNoError(t, err)

	files := generate(t, apiModel(t), codegen.WithOverrides(overrides))
	types := files["types.go"]
	testutil.ExpectSliceEq(t, []string{
		"Id int64",
		"Parts tl.Lazy[int32]",
		"Name string",
		"Md5Checksum tl.Lazy[string]",
	}, structFields(t, parseFile(t, "types.go", types), "InputFile"))

	for _, want := range []string{
		"v, err := obj.Md5Checksum.Encodable(\"md5_checksum\")",
		"obj.Md5Checksum = tl.DecodeLazy(d, InputFileTypeID, \"md5_checksum\", v)",
		"n += tl.StringLength(obj.Md5Checksum.Peek())",
	} {
		if !strings.Contains(types, want) {
			t.Errorf("types.go does not contain %q", want)
		}
	}

	registry := files["registry.go"]
	for _, want := range []string{
		"\t\tInputFileTypeID: {\n" +
			"\t\t\t{Field: \"parts\", Sentinel: tl.Equals(int32(-1)), Marker: \"parts\"},\n" +
			"\t\t\t{Field: \"md5_checksum\", Sentinel: tl.Equals(\"\"), Marker: \"md5\"},\n" +
			"\t\t},\n",
		"PeerChatTypeID: func() tl.Object { return new(PeerUser) },",
	} {
		if !strings.Contains(registry, want) {
			t.Errorf("registry.go does not contain %q", want)
		}
	}
}

// internal/sample is checked in so that the generated code is compiled
// and tested along with the rest of the module. It must stay byte-equal
// (after gofmt) to what the generator emits for the sample schema.
func TestSamplePackage(t *testing.T) {
	t.Parallel()

	testdata, err := testutil.TestdataFS()
	testutil.AssertNoError(t, err)
	overridesJSON, err := fs.ReadFile(testdata, "schemas/sample.json")
	testutil.AssertNoError(t, err)
	overrides, err := codegen.ParseOverrides(overridesJSON)
	testutil.AssertNoError(t, err)

	model := testutil.CompileSchema(t, string(testutil.Schema("sample")))
	files := generate(t, model, codegen.WithPackage("sample"), codegen.WithOverrides(overrides))

	const dir = "internal/sample"
	entries, err := os.ReadDir(dir)
	testutil.AssertNoError(t, err)
	var checkedIn []string
	for _, entry := range entries {
		name := entry.Name()
		if name == "doc.go" || strings.HasSuffix(name, "_test.go") {
			continue
		}
		checkedIn = append(checkedIn, name)
	}
	testutil.ExpectSliceEq(t, slices.Sorted(maps.Keys(files)), checkedIn)

	for _, name := range checkedIn {
		want, ok := files[name]
		if !ok {
			continue
		}
		src, err := os.ReadFile(filepath.Join(dir, name))
		testutil.AssertNoError(t, err)
		got, err := format.Source(src)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		testutil.ExpectNoDiff(t, want, string(got))
	}
}

func TestOverrideErrors(t *testing.T) {
	t.Parallel()

	model := apiModel(t)
	tests := []struct {
		name      string
		overrides codegen.Overrides
		want      string
	}{
		{
			name: "unknown combinator",
			overrides: codegen.Overrides{Placeholders: []codegen.PlaceholderOverride{
				{Constructor: "inputFileBig", Field: "parts", Sentinel: "0"},
			}},
			want: `unknown combinator "inputFileBig"`,
		},
		{
			name: "unknown field",
			overrides: codegen.Overrides{Placeholders: []codegen.PlaceholderOverride{
				{Constructor: "inputFile", Field: "size", Sentinel: "0"},
			}},
			want: `unknown field "size"`,
		},
		{
			name: "optional field",
			overrides: codegen.Overrides{Placeholders: []codegen.PlaceholderOverride{
				{Constructor: "user", Field: "access_hash", Sentinel: "0"},
			}},
			want: `must be a required scalar`,
		},
		{
			name: "object field",
			overrides: codegen.Overrides{Placeholders: []codegen.PlaceholderOverride{
				{Constructor: "contacts.resolvedPeer", Field: "peer", Sentinel: "0"},
			}},
			want: `must be a required scalar`,
		},
		{
			name: "bad sentinel",
			overrides: codegen.Overrides{Placeholders: []codegen.PlaceholderOverride{
				{Constructor: "inputFile", Field: "parts", Sentinel: "many"},
			}},
			want: `sentinel "many" is not an int`,
		},
		{
			name: "duplicate placeholder",
			overrides: codegen.Overrides{Placeholders: []codegen.PlaceholderOverride{
				{Constructor: "inputFile", Field: "parts", Sentinel: "0"},
				{Constructor: "inputFile", Field: "parts", Sentinel: "1"},
			}},
			want: `duplicate placeholder`,
		},
		{
			name: "redirect layout",
			overrides: codegen.Overrides{Redirects: []codegen.RedirectOverride{
				{Constructor: "peerUser", Target: "inputPeerUser"},
			}},
			want: `different wire layouts`,
		},
		{
			name: "redirect to self",
			overrides: codegen.Overrides{Redirects: []codegen.RedirectOverride{
				{Constructor: "peerUser", Target: "peerUser"},
			}},
			want: `redirects to itself`,
		},
		{
			name: "redirect function",
			overrides: codegen.Overrides{Redirects: []codegen.RedirectOverride{
				{Constructor: "updates.getState", Target: "updates.state"},
			}},
			want: `is not a constructor`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := codegen.Generate(model, codegen.WithOverrides(&test.overrides))
			testutil.ExpectMatch(t, regexp.QuoteMeta(test.want), errString(err))
		})
	}
}

func TestParseOverridesRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := codegen.ParseOverrides([]byte(`{"placeholder": []}`))
	testutil.ExpectMatch(t, `unknown field "placeholder"`, errString(err))

	_, err = codegen.ParseOverrides([]byte(`{`))
	testutil.AssertError(t, err)
}

func TestNameCollisions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "constructors",
			src:  "fooBar#00000001 = Foo;\nfoo_bar#00000002 = Foo;",
			want: `Go name FooBar of "foo_bar" collides with "fooBar"`,
		},
		{
			name: "class",
			src:  "fooClass#00000001 = Foo;",
			want: `Go name FooClass of "fooClass" collides with "Foo"`,
		},
		{
			name: "package declaration",
			src:  "register#00000001 = Foo;",
			want: `Go name Register of "register" collides with "(package)"`,
		},
		{
			name: "fields",
			src:  "foo#00000001 a_b:int aB:int = Foo;",
			want: `fields "a_b" and "aB" of "foo" share the Go name AB`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			model := testutil.CompileSchema(t, test.src)
			_, err := codegen.Generate(model)
			testutil.ExpectMatch(t, regexp.QuoteMeta(test.want), errString(err))
		})
	}
}
