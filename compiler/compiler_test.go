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

package compiler_test

import (
	"errors"
	"io/fs"
	"testing"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/compiler"
	"go.tl-lang.org/tl/internal/testutil"
	"go.tl-lang.org/tl/schema"
	"go.tl-lang.org/tl/syntax"
)

var (
	testdata         fs.FS
	compilerErrors   map[string]*testutil.Diagnostic
	compilerWarnings map[string]*testutil.Diagnostic
)

func init() {
	var err error
	testdata, err = testutil.TestdataFS()
	if err != nil {
		panic(err)
	}
	compilerErrors, err = testutil.LoadDiagnostics(testdata, "compiler_errors")
	if err != nil {
		panic(err)
	}
	compilerWarnings, err = testutil.LoadDiagnostics(testdata, "compiler_warnings")
	if err != nil {
		panic(err)
	}
}

func compile(t *testing.T, src string, opts ...compiler.CompileOption) compiler.CompileResult {
	t.Helper()
	parsed, err := syntax.Parse([]byte(src), syntax.WithStrict(true))
	testutil.AssertNoError(t, err)
	return compiler.Compile(parsed, opts...)
}

func names(combs []*schema.Combinator) []string {
	out := make([]string, 0, len(combs))
	for _, c := range combs {
		out = append(out, c.QualifiedName())
	}
	return out
}

func fieldNames(fields []*schema.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}

type historyFunc func(name string, function bool, layer int32) (uint32, int32, bool, error)

func (f historyFunc) PreviousID(name string, function bool, layer int32) (uint32, int32, bool, error) {
	return f(name, function, layer)
}

func TestCompileAPI(t *testing.T) {
	t.Parallel()

	result := compile(t, string(testutil.Schema("api")))
	testutil.ExpectEq(t, 0, len(result.Errors))
	testutil.ExpectEq(t, 0, len(result.Warnings))
	model := result.Model()
	if model == nil {
		t.Fatal("Model() returned nil")
	}

	testutil.ExpectEq(t, int32(158), model.Layer)
	testutil.ExpectEq(t, 20, len(model.Constructors()))
	testutil.ExpectEq(t, 6, len(model.Functions()))

	testutil.ExpectSliceEq(t,
		[]string{"inputPeerChat", "inputPeerEmpty", "inputPeerSelf", "inputPeerUser"},
		names(model.TypeConstructors[schema.TypeRef{Name: "InputPeer"}]))
	testutil.ExpectSliceEq(t,
		[]string{"users.getUsers"},
		names(model.TypeFunctions[schema.TypeRef{Name: "User"}]))
	testutil.ExpectSliceEq(t,
		[]string{"upload.saveFilePart"},
		names(model.TypeFunctions[schema.TypeRef{Name: "Bool"}]))

	chatsRef := schema.TypeRef{Namespace: "messages", Name: "Chats"}
	testutil.ExpectSliceEq(t,
		[]string{"messages.chats", "messages.chatsSlice"},
		names(model.TypeConstructors[chatsRef]))
	testutil.ExpectSliceEq(t,
		[]string{"messages.getChats"},
		names(model.ConstructorFunctions["messages.chatsSlice"]))

	empty, ok := model.ConstructorFunctions["inputPeerEmpty"]
	testutil.ExpectTrue(t, ok)
	testutil.ExpectTrue(t, empty != nil)
	testutil.ExpectEq(t, 0, len(empty))

	testutil.ExpectSliceEq(t,
		[]string{"", "contacts", "messages", "updates", "upload", "users"},
		model.NamespaceNames())
	testutil.ExpectSliceEq(t,
		[]schema.TypeRef{chatsRef},
		model.Namespaces["messages"].Types)
	testutil.ExpectSliceEq(t,
		[]string{"users.getUsers"},
		names(model.Namespaces["users"].Functions))
	testutil.ExpectEq(t, 0, len(model.Namespaces["users"].Types))
}

func TestFlagFields(t *testing.T) {
	t.Parallel()

	model := testutil.CompileSchema(t, string(testutil.Schema("api")))
	user, ok := model.Lookup("user")
	if !ok {
		t.Fatal("user not found")
	}

	testutil.ExpectTrue(t, user.HasFlags)
	testutil.ExpectSliceEq(t, []string{"flags", "flags2"}, fieldNames(user.FlagWords()))
	testutil.ExpectSliceEq(t, []string{
		"id",
		"is_self", "contact", "bot", "bot_can_edit",
		"access_hash", "first_name", "last_name", "username", "phone",
		"usernames",
	}, fieldNames(user.SortedFields()))

	self, _ := user.Field("is_self")
	testutil.ExpectEq(t, "self", self.RawName)
	testutil.ExpectTrue(t, self.IsFlag())
	testutil.ExpectEq(t, 0, self.FlagField)
	testutil.ExpectEq(t, uint8(10), self.FlagBit)

	botCanEdit, _ := user.Field("bot_can_edit")
	testutil.ExpectEq(t, 4, botCanEdit.FlagField)
	testutil.ExpectEq(t, 1, botCanEdit.FlagWord)
	testutil.ExpectEq(t, uint8(1), botCanEdit.FlagBit)

	accessHash, _ := user.Field("access_hash")
	testutil.ExpectTrue(t, accessHash.Optional())
	testutil.ExpectFalse(t, accessHash.IsFlag())
	testutil.ExpectEq(t, tl.KindLong, accessHash.Type.Kind)

	usernames, _ := user.Field("usernames")
	testutil.ExpectEq(t, tl.KindVector, usernames.Type.Kind)
	testutil.ExpectTrue(t, usernames.Type.Boxed)
	testutil.ExpectEq(t, schema.TypeRef{Name: "Username"}, usernames.Type.Elem.Ref)
	testutil.ExpectEq(t, "flags2.0?Vector<Username>", usernames.Raw)

	id, _ := user.Field("id")
	testutil.ExpectFalse(t, id.Optional())
	testutil.ExpectEq(t, -1, id.FlagWord)
}

func TestFunctionResults(t *testing.T) {
	t.Parallel()

	model := testutil.CompileSchema(t, string(testutil.Schema("api")))

	getUsers, _ := model.Lookup("users.getUsers")
	testutil.ExpectTrue(t, getUsers.IsFunction())
	testutil.ExpectEq(t, schema.TypeRef{Name: "User"}, getUsers.Result)
	testutil.ExpectEq(t, "Vector<User>", getUsers.ResultType.String())

	invoke, _ := model.Lookup("invokeWithLayer")
	testutil.ExpectTrue(t, invoke.Result.IsZero())
	testutil.ExpectEq(t, "X", invoke.ResultType.Generic)
	query, _ := invoke.Field("query")
	testutil.ExpectEq(t, "X", query.Type.Generic)
	testutil.ExpectEq(t, "!X", query.Type.String())

	getChats, _ := model.Lookup("messages.getChats")
	ids, _ := getChats.Field("id")
	testutil.ExpectEq(t, "Vector<long>", ids.Type.String())
}

func TestCompileMTProto(t *testing.T) {
	t.Parallel()

	result := compile(t, string(testutil.Schema("mtproto")))
	testutil.ExpectEq(t, 0, len(result.Errors))
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
	testutil.ExpectDiagnostic(t, compilerWarnings["missing_layer"], result.Warnings[0])

	model := result.Model()
	testutil.ExpectEq(t, int32(0), model.Layer)
	testutil.ExpectSliceEq(t, []string{
		"bad_msg_notification",
		"bad_server_salt",
		"msgs_ack",
		"p_q_inner_data_dc",
		"pong",
		"resPQ",
		"server_DH_params_ok",
	}, names(model.Constructors()))
	testutil.ExpectSliceEq(t,
		[]string{"get_future_salts", "ping", "req_pq_multi"},
		names(model.Functions()))

	// Builtins are dropped from the model but their types still resolve.
	_, known := model.TypeConstructors[schema.TypeRef{Name: "Bool"}]
	testutil.ExpectFalse(t, known)
	getSalts, _ := model.Lookup("get_future_salts")
	testutil.ExpectEq(t, schema.TypeRef{Name: "FutureSalts"}, getSalts.Result)
}

func TestCompileWithoutBuiltinSkip(t *testing.T) {
	t.Parallel()

	result := compile(t, string(testutil.Schema("mtproto")), compiler.WithBuiltins(false))
	testutil.ExpectTrue(t, result.Model() == nil)

	codes := make(map[uint32]bool)
	for _, err := range result.Errors {
		codes[err.Code()] = true
	}
	testutil.ExpectTrue(t, codes[compilerErrors["unknown_type"].Code])
	testutil.ExpectTrue(t, codes[compilerErrors["invalid_type"].Code])
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		error string
	}{
		{"duplicate id", "a#1 = A;\nb#1 = A;", "duplicate_id"},
		{"duplicate name", "a#1 = A;\na#2 = A;", "duplicate_name"},
		{"undeclared flag word", "a#1 x:flags.0?int = A;", "undeclared_flag_word"},
		{"flag word declared later", "a#1 x:flags.0?int flags:# = A;", "undeclared_flag_word"},
		{"flag bit too large", "a#1 flags:# x:flags.32?int = A;", "flag_bit_range"},
		{"flag bit not a number", "a#1 flags:# x:flags.x?int = A;", "flag_bit_range"},
		{"unknown type", "a#1 x:Missing = A;", "unknown_type"},
		{"unknown vector element", "a#1 x:Vector<Missing> = A;", "unknown_type"},
		{"unknown function result", "a#1 = A;\n---functions---\nf#2 = Missing;", "unresolvable_result"},
		{"bare type", "a#1 x:%A = A;", "invalid_type"},
		{"optional flag word", "a#1 flags:# f:flags.0?# = A;", "invalid_type"},
		{"condition without bit", "a#1 flags:# x:flags?int = A;", "invalid_type"},
		{"vector of true", "a#1 x:Vector<true> = A;", "invalid_type"},
		{"undeclared param", "a#1 x:!X = A;", "undeclared_param"},
		{"unterminated vector result", "a#1 = Vector<A;", "invalid_result"},
		{"bare result", "a#1 = %A;", "invalid_result"},
		{"duplicate field", "a#1 x:int x:long = A;", "duplicate_field"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			result := compile(t, "// LAYER 1\n"+test.src)
			if len(result.Errors) == 0 {
				t.Fatalf("expected error %s, got none", test.error)
			}
			testutil.ExpectTrue(t, result.Model() == nil)
			testutil.ExpectDiagnostic(t, compilerErrors[test.error], result.Errors[0])
			testutil.ExpectMatch(t, `^E30\d\d: `, result.Errors[0].Error())
		})
	}
}

func TestCompileWarnings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		warning string
	}{
		{"missing layer", "a#1 = A;", "missing_layer"},
		{"unused flag word", "// LAYER 1\na#1 flags:# = A;", "unused_flag_word"},
		{"builtin redeclared", "// LAYER 1\nmyTrue#997275b5 = Bool;", "builtin_redeclared"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			result := compile(t, test.src)
			testutil.ExpectEq(t, 0, len(result.Errors))
			if len(result.Warnings) != 1 {
				t.Fatalf("expected 1 warning, got %v", result.Warnings)
			}
			testutil.ExpectDiagnostic(t, compilerWarnings[test.warning], result.Warnings[0])
			testutil.ExpectTrue(t, result.Model() != nil)
		})
	}
}

func TestBuiltinNotRedeclaredUnderOwnName(t *testing.T) {
	t.Parallel()

	result := compile(t, "// LAYER 1\nboolTrue#997275b5 = Bool;\na#1 b:Bool = A;")
	testutil.ExpectEq(t, 0, len(result.Errors))
	testutil.ExpectEq(t, 0, len(result.Warnings))
	_, found := result.Model().Lookup("boolTrue")
	testutil.ExpectFalse(t, found)
}

func TestCatalogHistory(t *testing.T) {
	t.Parallel()

	history := historyFunc(func(name string, function bool, layer int32) (uint32, int32, bool, error) {
		testutil.ExpectEq(t, int32(5), layer)
		switch {
		case name == "a" && !function:
			return 0x1, 4, true, nil
		case name == "b" && !function:
			return 0x99, 3, true, nil
		case name == "b" && function:
			return 0x4, 4, true, nil
		}
		return 0, 0, false, nil
	})
	result := compile(t, "// LAYER 5\na#1 = A;\nb#2 = B;\nc#3 = C;\n---functions---\nb#4 = A;", compiler.WithCatalog(history))
	testutil.ExpectEq(t, 0, len(result.Errors))
	if len(result.Warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Warnings)
	}
	warning := result.Warnings[0]
	testutil.ExpectDiagnostic(t, compilerWarnings["id_changed"], warning)
	testutil.ExpectMatch(t, `'b' changed from 0x00000099 \(layer 3\) to 0x00000002`, warning.Message())
}

func TestCatalogFailure(t *testing.T) {
	t.Parallel()

	history := historyFunc(func(string, bool, int32) (uint32, int32, bool, error) {
		return 0, 0, false, errors.New("database closed")
	})
	result := compile(t, "// LAYER 5\na#1 = A;", compiler.WithCatalog(history))
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %v", result.Errors)
	}
	testutil.ExpectDiagnostic(t, compilerErrors["catalog"], result.Errors[0])
}

func TestForwardReferences(t *testing.T) {
	t.Parallel()

	model := testutil.CompileSchema(t, `// LAYER 1
holder#1 item:ns.Item items:vector<ns.Item> = Holder;
ns.item#2 = ns.Item;
ns.otherItem#3 value:int = ns.Item;
`)
	holder, _ := model.Lookup("holder")
	items, _ := holder.Field("items")
	testutil.ExpectFalse(t, items.Type.Boxed)
	testutil.ExpectEq(t, "vector<ns.Item>", items.Type.String())

	// Each abstract type is listed once per namespace.
	testutil.ExpectSliceEq(t,
		[]schema.TypeRef{{Namespace: "ns", Name: "Item"}},
		model.Namespaces["ns"].Types)

	empty, _ := model.Lookup("ns.item")
	testutil.ExpectEq(t, 0, len(empty.Fields))
	testutil.ExpectFalse(t, empty.HasFlags)
}
