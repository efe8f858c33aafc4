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

package tl_test

import (
	"bytes"
	"compress/gzip"
	"testing"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/internal/testutil"
)

func TestBool(t *testing.T) {
	t.Parallel()

	registry, err := tl.NewRegistryBuilder().Build()
	testutil.AssertNoError(t, err)

	for _, value := range []bool{true, false} {
		buf, err := tl.Encode(&tl.Bool{Value: value})
		testutil.AssertNoError(t, err)
		if value {
			testutil.ExpectBytesEq(t, []byte{0xb5, 0x75, 0x72, 0x99}, buf)
		} else {
			testutil.ExpectBytesEq(t, []byte{0x37, 0x97, 0x79, 0xbc}, buf)
		}

		got, err := tl.DecodeAs[*tl.Bool](&tl.DecodeCtx{Registry: registry}, buf)
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, value, got.Value)
	}
}

func TestVector(t *testing.T) {
	t.Parallel()

	registry, err := tl.NewRegistryBuilder().Build()
	testutil.AssertNoError(t, err)

	for _, items := range [][]tl.Object{
		{},
		{&tl.Bool{Value: true}},
		{&tl.Bool{Value: true}, &tl.Bool{}, &tl.FutureSalt{Salt: 7}},
	} {
		vec := &tl.Vector{Items: items}
		buf, err := tl.Encode(vec)
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, len(buf), tl.WireLength(vec))

		got, err := tl.DecodeAs[*tl.Vector](&tl.DecodeCtx{Registry: registry}, buf)
		testutil.AssertNoError(t, err)
		testutil.ExpectEq(t, len(items), len(got.Items))
		testutil.ExpectCmp(t, vec.Items, got.Items)
	}
}

func TestGzipPacked(t *testing.T) {
	t.Parallel()

	model, registry := testutil.Registry(t, fooSchema)
	ctx := &tl.DecodeCtx{Registry: registry}
	foo := testutil.NewObject(t, model, "Foo")
	testutil.Set(t, foo, "a", int32(42))
	testutil.Set(t, foo, "b", "compressed")

	packed, err := tl.Pack(foo)
	testutil.AssertNoError(t, err)
	buf, err := tl.Encode(packed)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, len(buf), tl.WireLength(packed))

	obj, err := tl.Decode(ctx, buf)
	testutil.AssertNoError(t, err)
	gotPacked, ok := obj.(*tl.GzipPacked)
	if !ok {
		t.Fatalf("Decode returned %T", obj)
	}
	unpacked, err := gotPacked.Unpack(ctx)
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, foo, unpacked, testutil.DynamicComparer())

	direct, err := tl.DecodeAs[*tl.Dynamic](ctx, buf)
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, foo, direct, testutil.DynamicComparer())

	_, err = (&tl.GzipPacked{Data: []byte("not gzip")}).Unpack(ctx)
	testutil.ExpectErrorIs(t, err, tl.ErrCorruptGzip)
}

func TestGzipPackedSizeLimit(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(make([]byte, tl.MaxUnpackedLen+1))
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, zw.Close())

	_, registry := testutil.Registry(t, fooSchema)
	_, err = (&tl.GzipPacked{Data: buf.Bytes()}).Unpack(&tl.DecodeCtx{Registry: registry})
	testutil.AssertError(t, err)
	testutil.ExpectErrorIs(t, err, tl.ErrCorruptGzip)
	testutil.ExpectMatch(t, `unpacked size exceeds`, err.Error())
}

func TestMsgContainer(t *testing.T) {
	t.Parallel()

	model, registry := testutil.Registry(t, fooSchema)
	foo := testutil.NewObject(t, model, "Foo")
	testutil.Set(t, foo, "b", "hi")

	container := &tl.MsgContainer{
		Messages: []tl.Message{
			{MsgID: 1 << 32, Seqno: 1, Body: &tl.Bool{Value: true}},
			{MsgID: 1<<32 + 4, Seqno: 3, Body: foo},
		},
	}
	buf, err := tl.Encode(container)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, len(buf), tl.WireLength(container))
	testutil.ExpectEq(t, 4+4+(16+4)+(16+12), len(buf))

	got, err := tl.DecodeAs[*tl.MsgContainer](&tl.DecodeCtx{Registry: registry}, buf)
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, container, got, testutil.DynamicComparer())
}

func TestMessageBodyLength(t *testing.T) {
	t.Parallel()

	registry, err := tl.NewRegistryBuilder().Build()
	testutil.AssertNoError(t, err)
	ctx := &tl.DecodeCtx{Registry: registry}

	msg := &tl.Message{MsgID: 5, Seqno: 2, Body: &tl.Bool{}}
	buf, err := tl.Encode(msg)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, 4+8+4+4+4, len(buf))
	testutil.ExpectEq(t, uint8(4), buf[16])

	// A body length longer than the body itself.
	bad := append([]byte{}, buf...)
	bad[16] = 8
	bad = append(bad, 0, 0, 0, 0)
	_, err = tl.Decode(ctx, bad)
	testutil.ExpectErrorIs(t, err, tl.ErrInvalidLength)

	_, err = tl.Encode(&tl.Message{})
	testutil.ExpectErrorIs(t, err, tl.ErrNilObject)
}

func TestFutureSalts(t *testing.T) {
	t.Parallel()

	registry, err := tl.NewRegistryBuilder().Build()
	testutil.AssertNoError(t, err)

	salts := &tl.FutureSalts{
		ReqMsgID: 99,
		Now:      1700000000,
		Salts: []tl.FutureSalt{
			{ValidSince: 1, ValidUntil: 2, Salt: 3},
			{ValidSince: 4, ValidUntil: 5, Salt: -6},
		},
	}
	buf, err := tl.Encode(salts)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, len(buf), tl.WireLength(salts))
	testutil.ExpectEq(t, 4+8+4+4+2*16, len(buf))

	got, err := tl.DecodeAs[*tl.FutureSalts](&tl.DecodeCtx{Registry: registry}, buf)
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, salts, got)
}

func TestDecodeAsWrongType(t *testing.T) {
	t.Parallel()

	registry, err := tl.NewRegistryBuilder().Build()
	testutil.AssertNoError(t, err)

	buf, err := tl.Encode(&tl.Bool{Value: true})
	testutil.AssertNoError(t, err)
	_, err = tl.DecodeAs[*tl.Vector](&tl.DecodeCtx{Registry: registry}, buf)
	testutil.ExpectErrorIs(t, err, tl.ErrUnexpectedType)
}
