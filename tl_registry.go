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

package tl

import (
	"iter"
	"slices"
)

// Wire ids of the framing primitives every registry carries.
const (
	BoolTrueID     uint32 = 0x997275b5
	BoolFalseID    uint32 = 0xbc799737
	TrueID         uint32 = 0x3fed6320
	VectorID       uint32 = 0x1cb5c415
	GzipPackedID   uint32 = 0x3072cfa1
	MsgContainerID uint32 = 0x73f1f8dc
	FutureSaltID   uint32 = 0x0949d9dc
	FutureSaltsID  uint32 = 0xae500895
	MessageID      uint32 = 0x5bb8e511
)

type registryEntry struct {
	name  string
	newFn func() Object
}

// Registry maps wire ids to constructors. A Registry is immutable once
// built and may be shared by concurrent decoders.
type Registry struct {
	entries map[uint32]registryEntry
	layer   int32
}

// RegistryBuilder collects constructors for a [Registry]. The builtin
// framing types are registered by [NewRegistryBuilder].
type RegistryBuilder struct {
	entries map[uint32]registryEntry
	layer   int32
	err     error
}

func NewRegistryBuilder() *RegistryBuilder {
	b := &RegistryBuilder{
		entries: make(map[uint32]registryEntry),
	}
	for _, builtin := range builtins {
		b.entries[builtin.id] = registryEntry{builtin.name, builtin.newFn}
	}
	return b
}

// SetLayer records the schema layer the registered types belong to.
func (b *RegistryBuilder) SetLayer(layer int32) {
	b.layer = layer
}

// Register adds a constructor for id. Registering an id twice under a
// different name is an error reported by Build; re-registering the same
// name replaces the constructor.
func (b *RegistryBuilder) Register(id uint32, name string, newFn func() Object) {
	if prev, ok := b.entries[id]; ok && prev.name != name {
		if b.err == nil {
			b.err = errDuplicateTypeID(id, prev.name, name)
		}
		return
	}
	b.entries[id] = registryEntry{name, newFn}
}

// RegisterDescriptor adds a constructor producing [Dynamic] objects
// described by desc.
func (b *RegistryBuilder) RegisterDescriptor(desc *TypeDescriptor) {
	b.Register(desc.ID, desc.Name, func() Object {
		return NewDynamic(desc)
	})
}

// Build returns the registry, or the first registration error.
func (b *RegistryBuilder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	entries := make(map[uint32]registryEntry, len(b.entries))
	for id, entry := range b.entries {
		entries[id] = entry
	}
	return &Registry{
		entries: entries,
		layer:   b.layer,
	}, nil
}

// Lookup returns the constructor registered for id.
func (r *Registry) Lookup(id uint32) (func() Object, bool) {
	entry, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return entry.newFn, true
}

// Name returns the qualified TL name registered for id.
func (r *Registry) Name(id uint32) (string, bool) {
	entry, ok := r.entries[id]
	return entry.name, ok
}

func (r *Registry) Len() int {
	return len(r.entries)
}

func (r *Registry) Layer() int32 {
	return r.layer
}

// IDs yields every registered id in ascending order.
func (r *Registry) IDs() iter.Seq[uint32] {
	ids := make([]uint32, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Values(ids)
}

// Decode reads one boxed object from buf using only this registry.
func (r *Registry) Decode(buf []uint8) (Object, error) {
	return Decode(&DecodeCtx{Registry: r}, buf)
}

var builtins = []struct {
	id    uint32
	name  string
	newFn func() Object
}{
	{BoolTrueID, "boolTrue", func() Object { return &Bool{Value: true} }},
	{BoolFalseID, "boolFalse", func() Object { return &Bool{} }},
	{VectorID, "vector", func() Object { return &Vector{} }},
	{GzipPackedID, "gzip_packed", func() Object { return &GzipPacked{} }},
	{MsgContainerID, "msg_container", func() Object { return &MsgContainer{} }},
	{FutureSaltID, "future_salt", func() Object { return &FutureSalt{} }},
	{FutureSaltsID, "future_salts", func() Object { return &FutureSalts{} }},
	{MessageID, "message", func() Object { return &Message{} }},
}

// BuiltinIDs yields the ids registered by every [RegistryBuilder],
// together with true#3fed6320, which is written inline and never decoded
// as a standalone object.
func BuiltinIDs() iter.Seq2[uint32, string] {
	return func(yield func(uint32, string) bool) {
		for _, builtin := range builtins {
			if !yield(builtin.id, builtin.name) {
				return
			}
		}
		yield(TrueID, "true")
	}
}
