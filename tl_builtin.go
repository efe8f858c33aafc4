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
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"iter"
)

// MaxUnpackedLen bounds the decompressed size of a [GzipPacked] payload.
const MaxUnpackedLen = 4 * (MaxBytesLen + 1)

// Bool {{{

// Bool is the boxed TL Bool, encoded as boolTrue#997275b5 or
// boolFalse#bc799737.
type Bool struct {
	Value bool
}

func (b *Bool) TypeID() uint32 {
	if b.Value {
		return BoolTrueID
	}
	return BoolFalseID
}

func (b *Bool) TypeName() string {
	if b.Value {
		return "boolTrue"
	}
	return "boolFalse"
}

func (*Bool) BareLength() int             { return 0 }
func (*Bool) EncodeBare(e *Encoder) error { return nil }
func (*Bool) DecodeBare(d *Decoder) error { return nil }

func (b *Bool) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {}
}

// }}}

// Vector {{{

// Vector is a boxed vector of boxed objects, decoded when a vector id
// appears where an arbitrary object is expected.
type Vector struct {
	Items []Object
}

func (*Vector) TypeID() uint32   { return VectorID }
func (*Vector) TypeName() string { return "vector" }

func (v *Vector) BareLength() int {
	return ObjectVectorLength(false, v.Items)
}

func (v *Vector) EncodeBare(e *Encoder) error {
	return PutObjectVector(e, false, v.Items)
}

func (v *Vector) DecodeBare(d *Decoder) error {
	items, err := DecodeVector(d, false, (*Decoder).Object)
	if err != nil {
		return err
	}
	v.Items = items
	return nil
}

func (v *Vector) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		yield("items", v.Items)
	}
}

// }}}

// GzipPacked {{{

// GzipPacked carries the gzip-compressed boxed encoding of another object.
type GzipPacked struct {
	Data []uint8
}

// Pack returns a GzipPacked wrapping the boxed encoding of obj.
func Pack(obj Object) (*GzipPacked, error) {
	raw, err := Encode(obj)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return &GzipPacked{Data: buf.Bytes()}, nil
}

// Unpack decompresses the payload and decodes the object inside it.
func (p *GzipPacked) Unpack(ctx *DecodeCtx) (Object, error) {
	zr, err := gzip.NewReader(bytes.NewReader(p.Data))
	if err != nil {
		return nil, errCorruptGzip(err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(io.LimitReader(zr, MaxUnpackedLen+1))
	if err != nil {
		return nil, errCorruptGzip(err)
	}
	if len(raw) > MaxUnpackedLen {
		return nil, errCorruptGzip(fmt.Errorf("unpacked size exceeds %d bytes", MaxUnpackedLen))
	}
	return Decode(ctx, raw)
}

func (*GzipPacked) TypeID() uint32   { return GzipPackedID }
func (*GzipPacked) TypeName() string { return "gzip_packed" }

func (p *GzipPacked) BareLength() int {
	return BytesLength(len(p.Data))
}

func (p *GzipPacked) EncodeBare(e *Encoder) error {
	e.PutBytes(p.Data)
	return nil
}

func (p *GzipPacked) DecodeBare(d *Decoder) (err error) {
	p.Data, err = d.Bytes()
	return err
}

func (p *GzipPacked) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		yield("packed_data", p.Data)
	}
}

// }}}

// Message {{{

// Message is one entry of a message container. Its body length is
// derived from Body when encoding.
type Message struct {
	MsgID int64
	Seqno int32
	Body  Object
}

func (*Message) TypeID() uint32   { return MessageID }
func (*Message) TypeName() string { return "message" }

func (m *Message) BareLength() int {
	return 16 + WireLength(m.Body)
}

func (m *Message) EncodeBare(e *Encoder) error {
	if isNil(m.Body) {
		return errNilObject("body")
	}
	e.PutLong(m.MsgID)
	e.PutInt(m.Seqno)
	e.PutInt(int32(WireLength(m.Body)))
	return e.PutField("body", m.Body)
}

func (m *Message) DecodeBare(d *Decoder) (err error) {
	if m.MsgID, err = d.Long(); err != nil {
		return err
	}
	if m.Seqno, err = d.Int(); err != nil {
		return err
	}
	off := d.Offset()
	n, err := d.Int()
	if err != nil {
		return err
	}
	if n < 4 || n%4 != 0 {
		return errInvalidLength(off, int(n))
	}
	body, err := d.take(int(n))
	if err != nil {
		return err
	}
	sub := &Decoder{ctx: d.ctx, buf: d.buf[:d.off], off: d.off - len(body)}
	if m.Body, err = sub.Object(); err != nil {
		return err
	}
	if sub.Remaining() != 0 {
		return errInvalidLength(off, int(n))
	}
	return nil
}

func (m *Message) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		_ = yield("msg_id", m.MsgID) &&
			yield("seqno", m.Seqno) &&
			yield("bytes", int32(WireLength(m.Body))) &&
			yield("body", m.Body)
	}
}

// }}}

// MsgContainer {{{

// MsgContainer holds a bare vector of bare messages.
type MsgContainer struct {
	Messages []Message
}

func (*MsgContainer) TypeID() uint32   { return MsgContainerID }
func (*MsgContainer) TypeName() string { return "msg_container" }

func (c *MsgContainer) BareLength() int {
	return VectorLength(false, c.Messages, func(m Message) int {
		return m.BareLength()
	})
}

func (c *MsgContainer) EncodeBare(e *Encoder) error {
	return PutVectorErr(e, false, c.Messages, func(e *Encoder, m Message) error {
		return m.EncodeBare(e)
	})
}

func (c *MsgContainer) DecodeBare(d *Decoder) (err error) {
	c.Messages, err = DecodeVector(d, false, func(d *Decoder) (Message, error) {
		var m Message
		err := m.DecodeBare(d)
		return m, err
	})
	return err
}

func (c *MsgContainer) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		yield("messages", c.Messages)
	}
}

// }}}

// FutureSalt {{{

type FutureSalt struct {
	ValidSince int32
	ValidUntil int32
	Salt       int64
}

func (*FutureSalt) TypeID() uint32   { return FutureSaltID }
func (*FutureSalt) TypeName() string { return "future_salt" }
func (*FutureSalt) BareLength() int  { return 16 }

func (s *FutureSalt) EncodeBare(e *Encoder) error {
	e.PutInt(s.ValidSince)
	e.PutInt(s.ValidUntil)
	e.PutLong(s.Salt)
	return nil
}

func (s *FutureSalt) DecodeBare(d *Decoder) (err error) {
	if s.ValidSince, err = d.Int(); err != nil {
		return err
	}
	if s.ValidUntil, err = d.Int(); err != nil {
		return err
	}
	s.Salt, err = d.Long()
	return err
}

func (s *FutureSalt) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		_ = yield("valid_since", s.ValidSince) &&
			yield("valid_until", s.ValidUntil) &&
			yield("salt", s.Salt)
	}
}

// }}}

// FutureSalts {{{

type FutureSalts struct {
	ReqMsgID int64
	Now      int32
	Salts    []FutureSalt
}

func (*FutureSalts) TypeID() uint32   { return FutureSaltsID }
func (*FutureSalts) TypeName() string { return "future_salts" }

func (s *FutureSalts) BareLength() int {
	return 12 + VectorHeaderLength(false) + 16*len(s.Salts)
}

func (s *FutureSalts) EncodeBare(e *Encoder) error {
	e.PutLong(s.ReqMsgID)
	e.PutInt(s.Now)
	return PutVectorErr(e, false, s.Salts, func(e *Encoder, salt FutureSalt) error {
		return salt.EncodeBare(e)
	})
}

func (s *FutureSalts) DecodeBare(d *Decoder) (err error) {
	if s.ReqMsgID, err = d.Long(); err != nil {
		return err
	}
	if s.Now, err = d.Int(); err != nil {
		return err
	}
	s.Salts, err = DecodeVector(d, false, func(d *Decoder) (FutureSalt, error) {
		var salt FutureSalt
		err := salt.DecodeBare(d)
		return salt, err
	})
	return err
}

func (s *FutureSalts) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		_ = yield("req_msg_id", s.ReqMsgID) &&
			yield("now", s.Now) &&
			yield("salts", s.Salts)
	}
}

// }}}
