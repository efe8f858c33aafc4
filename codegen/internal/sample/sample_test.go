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

package sample_test

import (
	"encoding/binary"
	"maps"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.tl-lang.org/tl"
	"go.tl-lang.org/tl/codegen/internal/sample"
	"go.tl-lang.org/tl/internal/testutil"
)

var sampleComparer = cmp.Options{
	cmp.AllowUnexported(
		tl.Opt[int32]{},
		tl.Opt[int64]{},
		tl.Opt[string]{},
		tl.Opt[[]sample.UsernameClass]{},
	),
	cmp.Comparer(func(a, b tl.Lazy[int64]) bool {
		av, aok := a.Get()
		bv, bok := b.Get()
		return av == bv && aok == bok && a.Marker() == b.Marker()
	}),
}

func newRegistry(t *testing.T) *tl.Registry {
	t.Helper()
	registry, err := sample.NewRegistry()
	testutil.AssertNoError(t, err)
	return registry
}

// roundTrip encodes obj, checks the length law, and decodes it again.
func roundTrip(t *testing.T, ctx *tl.DecodeCtx, obj tl.Object) ([]byte, tl.Object) {
	t.Helper()
	buf, err := tl.Encode(obj)
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, tl.WireLength(obj), len(buf))
	testutil.ExpectEq(t, obj.TypeID(), binary.LittleEndian.Uint32(buf))
	decoded, err := tl.Decode(ctx, buf)
	testutil.AssertNoError(t, err)
	return buf, decoded
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t)
	testutil.ExpectEq(t, sample.Layer, registry.Layer())
	for _, name := range slices.Sorted(maps.Keys(sample.TypeIDs)) {
		id := sample.TypeIDs[name]
		got, ok := registry.Name(id)
		if !ok {
			t.Errorf("0x%08x (%s) is not registered", id, name)
			continue
		}
		testutil.ExpectEq(t, name, got)
		newFn, _ := registry.Lookup(id)
		obj := newFn()
		testutil.ExpectEq(t, id, obj.TypeID())
		testutil.ExpectEq(t, name, obj.TypeName())
	}
}

func TestUserRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := &tl.DecodeCtx{Registry: newRegistry(t)}
	user := &sample.User{
		Id:         1001,
		Verified:   true,
		IsSelf:     true,
		BotCanEdit: true,
		AccessHash: tl.Some(int64(-77)),
		FirstName:  tl.Some("Ada"),
		Usernames: tl.Some([]sample.UsernameClass{
			&sample.Username{Username: "ada", Editable: true, Active: true},
			&sample.Username{Username: "lovelace"},
		}),
		StoriesMaxId: tl.Some(int32(12)),
	}
	_, decoded := roundTrip(t, ctx, user)
	testutil.ExpectCmp(t, user, decoded, sampleComparer)

	var names []string
	for name := range decoded.Fields() {
		names = append(names, name)
	}
	testutil.ExpectSliceEq(t, []string{
		"id",
		"verified",
		"is_self",
		"bot_can_edit",
		"access_hash",
		"first_name",
		"usernames",
		"stories_max_id",
	}, names)
}

// Each optional field of user, with the flag word and bit that guards it.
var userOptionals = []struct {
	name string
	word int
	bit  uint
	set  func(*sample.User)
}{
	{"is_self", 0, 10, func(u *sample.User) { u.IsSelf = true }},
	{"bot", 0, 14, func(u *sample.User) { u.Bot = true }},
	{"access_hash", 0, 0, func(u *sample.User) { u.AccessHash = tl.Some(int64(1) << 40) }},
	{"first_name", 0, 1, func(u *sample.User) { u.FirstName = tl.Some("Grace") }},
	{"bot_can_edit", 1, 1, func(u *sample.User) { u.BotCanEdit = true }},
	{"usernames", 1, 0, func(u *sample.User) {
		u.Usernames = tl.Some([]sample.UsernameClass{&sample.Username{Username: "hopper", Active: true}})
	}},
	{"stories_max_id", 1, 5, func(u *sample.User) { u.StoriesMaxId = tl.Some(int32(-3)) }},
}

func TestUserFlagWords(t *testing.T) {
	t.Parallel()

	ctx := &tl.DecodeCtx{Registry: newRegistry(t)}
	for mask := 0; mask < 1<<len(userOptionals); mask++ {
		user := &sample.User{Id: int64(mask)}
		var want [2]uint32
		for ii, opt := range userOptionals {
			if mask&(1<<ii) != 0 {
				opt.set(user)
				want[opt.word] |= 1 << opt.bit
			}
		}
		buf, decoded := roundTrip(t, ctx, user)
		got := [2]uint32{
			binary.LittleEndian.Uint32(buf[4:]),
			binary.LittleEndian.Uint32(buf[8:]),
		}
		if got != want {
			t.Errorf("mask %07b: flag words %#x, want %#x", mask, got, want)
		}
		testutil.ExpectCmp(t, user, decoded, sampleComparer)
	}
}

func TestUserMinimalLayout(t *testing.T) {
	t.Parallel()

	buf, err := tl.Encode(&sample.User{Id: 2})
	testutil.AssertNoError(t, err)
	testutil.ExpectBytesEq(t, []byte{
		0xca, 0x4f, 0x31, 0x83, // user
		0x00, 0x00, 0x00, 0x00, // flags
		0x00, 0x00, 0x00, 0x00, // flags2
		0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // id
		0x37, 0x97, 0x79, 0xbc, // boolFalse
	}, buf)
}

func TestResolvedPeer(t *testing.T) {
	t.Parallel()

	ctx := &tl.DecodeCtx{Registry: newRegistry(t)}
	resolved := &sample.ContactsResolvedPeer{
		Peer: &sample.PeerUser{UserId: 42},
		Users: []sample.UserClass{
			&sample.User{Id: 42, FirstName: tl.Some("Linus")},
			&sample.UserEmpty{Id: tl.Computed(int64(43))},
		},
	}
	_, decoded := roundTrip(t, ctx, resolved)
	testutil.ExpectCmp(t, resolved, decoded, sampleComparer)

	_, err := tl.Encode(&sample.ContactsResolvedPeer{})
	testutil.ExpectErrorIs(t, err, tl.ErrNilObject)
}

func TestFunctions(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t)
	ctx := &tl.DecodeCtx{Registry: registry}

	getUsers := &sample.UsersGetUsersRequest{Id: []int64{5, 6}}
	buf, decoded := roundTrip(t, ctx, getUsers)
	testutil.ExpectCmp(t, getUsers, decoded)
	testutil.ExpectEq(t, 4+8+2*8, len(buf))

	resolve := &sample.ContactsResolveUsernameRequest{Username: "durov"}
	_, decoded = roundTrip(t, ctx, resolve)
	testutil.ExpectCmp(t, resolve, decoded)

	users := []sample.UserClass{
		&sample.User{Id: 5, Bot: true},
		&sample.UserEmpty{Id: tl.Computed(int64(6))},
	}
	e := tl.NewEncoder(0)
	testutil.AssertNoError(t, tl.PutObjectVector(e, true, users))
	result, err := getUsers.DecodeResult(tl.NewDecoder(ctx, e.Bytes()))
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, users, result, sampleComparer)

	peer := &sample.ContactsResolvedPeer{
		Peer:  &sample.PeerChat{ChatId: 9},
		Users: []sample.UserClass{},
	}
	buf, err = tl.Encode(peer)
	testutil.AssertNoError(t, err)
	resolved, err := resolve.DecodeResult(tl.NewDecoder(ctx, buf))
	testutil.AssertNoError(t, err)
	testutil.ExpectCmp(t, peer, resolved, sampleComparer)
}

func TestUserEmptyPlaceholder(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t)
	ctx := &tl.DecodeCtx{
		Registry:     registry,
		Placeholders: sample.Placeholders(),
	}

	// The zero id is the sentinel only when the placeholder table is in use.
	_, plain := roundTrip(t, &tl.DecodeCtx{Registry: registry}, &sample.UserEmpty{})
	testutil.ExpectFalse(t, plain.(*sample.UserEmpty).Id.IsPending())

	_, obj := roundTrip(t, ctx, &sample.UserEmpty{})
	pending := obj.(*sample.UserEmpty)
	testutil.ExpectTrue(t, pending.Id.IsPending())
	testutil.ExpectEq(t, "self_id", pending.Id.Marker())
	testutil.ExpectEq(t, 12, tl.WireLength(pending))

	_, err := tl.Encode(pending)
	testutil.ExpectErrorIs(t, err, tl.ErrPendingPlaceholder)

	id, err := pending.Id.Resolve(func(marker string) (int64, error) {
		testutil.ExpectEq(t, "self_id", marker)
		return 777, nil
	})
	testutil.AssertNoError(t, err)
	testutil.ExpectEq(t, int64(777), id)
	_, resolved := roundTrip(t, ctx, pending)
	testutil.ExpectCmp(t, &sample.UserEmpty{Id: tl.Computed(int64(777))}, resolved, sampleComparer)
}

func TestPeerChatRedirect(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t)
	chat := &sample.PeerChat{ChatId: 31}

	_, obj := roundTrip(t, &tl.DecodeCtx{Registry: registry}, chat)
	testutil.ExpectCmp(t, chat, obj)

	_, obj = roundTrip(t, &tl.DecodeCtx{
		Registry:  registry,
		Redirects: sample.Redirects(),
	}, chat)
	testutil.ExpectCmp(t, &sample.PeerUser{UserId: 31}, obj)
}
