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

// Package plugin defines the protocol between tlc and code generator
// plugins.
//
// A plugin receives one [Request] and answers with one [Response]. Both
// are TL objects described by [Schema] and encoded with the tl runtime,
// so a plugin written in any language only needs a TL codec.
package plugin

import (
	"iter"

	"go.tl-lang.org/tl"
)

const Schema = `codegen.option key:string value:string = codegen.Option;
codegen.request flags:# source:bytes package_name:string overrides:flags.0?bytes options:Vector<codegen.Option> = codegen.Request;
codegen.file path:string content:bytes = codegen.File;
codegen.response flags:# files:Vector<codegen.File> message:flags.0?string = codegen.Response;
`

const (
	OptionID   uint32 = 0x11b14fa6
	RequestID  uint32 = 0xcda0781e
	FileID     uint32 = 0x1831527b
	ResponseID uint32 = 0xd5a22765
)

var registry = newRegistry()

func newRegistry() *tl.Registry {
	b := tl.NewRegistryBuilder()
	b.Register(OptionID, "codegen.option", func() tl.Object { return new(Option) })
	b.Register(RequestID, "codegen.request", func() tl.Object { return new(Request) })
	b.Register(FileID, "codegen.file", func() tl.Object { return new(File) })
	b.Register(ResponseID, "codegen.response", func() tl.Object { return new(Response) })
	reg, err := b.Build()
	if err != nil {
		panic(err)
	}
	return reg
}

// Registry returns the registry of protocol objects.
func Registry() *tl.Registry {
	return registry
}

func DecodeRequest(buf []byte) (*Request, error) {
	return tl.DecodeAs[*Request](&tl.DecodeCtx{Registry: registry}, buf)
}

func DecodeResponse(buf []byte) (*Response, error) {
	return tl.DecodeAs[*Response](&tl.DecodeCtx{Registry: registry}, buf)
}

// Option {{{

// Option is a generator-specific setting passed through from the command
// line.
type Option struct {
	Key   string
	Value string
}

func (*Option) TypeID() uint32   { return OptionID }
func (*Option) TypeName() string { return "codegen.option" }

func (o *Option) BareLength() int {
	return tl.StringLength(o.Key) + tl.StringLength(o.Value)
}

func (o *Option) EncodeBare(e *tl.Encoder) error {
	e.PutString(o.Key)
	e.PutString(o.Value)
	return nil
}

func (o *Option) DecodeBare(d *tl.Decoder) (err error) {
	if o.Key, err = d.String(); err != nil {
		return err
	}
	o.Value, err = d.String()
	return err
}

func (o *Option) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		_ = yield("key", o.Key) && yield("value", o.Value)
	}
}

// }}}

// Request {{{

// Request asks a plugin to generate code for Source, the TL schema text.
// Overrides holds the JSON overrides table when one was given.
type Request struct {
	Source      []byte
	PackageName string
	Options     []*Option
	Overrides   tl.Opt[[]byte]
}

func (*Request) TypeID() uint32   { return RequestID }
func (*Request) TypeName() string { return "codegen.request" }

// Option returns the value of the named option.
func (r *Request) Option(key string) (string, bool) {
	for _, opt := range r.Options {
		if opt.Key == key {
			return opt.Value, true
		}
	}
	return "", false
}

func (r *Request) BareLength() int {
	n := 4 + tl.BytesLength(len(r.Source)) + tl.StringLength(r.PackageName)
	if v, ok := r.Overrides.Get(); ok {
		n += tl.BytesLength(len(v))
	}
	return n + tl.ObjectVectorLength(true, r.Options)
}

func (r *Request) EncodeBare(e *tl.Encoder) error {
	var flags uint32
	if r.Overrides.IsSet() {
		flags |= 1 << 0
	}
	e.PutUint32(flags)
	e.PutBytes(r.Source)
	e.PutString(r.PackageName)
	if v, ok := r.Overrides.Get(); ok {
		e.PutBytes(v)
	}
	return tl.PutObjectVector(e, true, r.Options)
}

func (r *Request) DecodeBare(d *tl.Decoder) (err error) {
	*r = Request{}
	flags, err := d.Uint32()
	if err != nil {
		return err
	}
	if r.Source, err = d.Bytes(); err != nil {
		return err
	}
	if r.PackageName, err = d.String(); err != nil {
		return err
	}
	if flags&(1<<0) != 0 {
		v, err := d.Bytes()
		if err != nil {
			return err
		}
		r.Overrides = tl.Some(v)
	}
	r.Options, err = tl.DecodeObjectVector[*Option](d, true)
	return err
}

func (r *Request) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if !(yield("source", r.Source) &&
			yield("package_name", r.PackageName) &&
			yield("options", r.Options)) {
			return
		}
		if v, ok := r.Overrides.Get(); ok {
			yield("overrides", v)
		}
	}
}

// }}}

// File {{{

type File struct {
	Path    string
	Content []byte
}

func (*File) TypeID() uint32   { return FileID }
func (*File) TypeName() string { return "codegen.file" }

func (f *File) BareLength() int {
	return tl.StringLength(f.Path) + tl.BytesLength(len(f.Content))
}

func (f *File) EncodeBare(e *tl.Encoder) error {
	e.PutString(f.Path)
	e.PutBytes(f.Content)
	return nil
}

func (f *File) DecodeBare(d *tl.Decoder) (err error) {
	if f.Path, err = d.String(); err != nil {
		return err
	}
	f.Content, err = d.Bytes()
	return err
}

func (f *File) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		_ = yield("path", f.Path) && yield("content", f.Content)
	}
}

// }}}

// Response {{{

// Response carries the generated files, or Message when generation
// failed.
type Response struct {
	Files   []*File
	Message tl.Opt[string]
}

func (*Response) TypeID() uint32   { return ResponseID }
func (*Response) TypeName() string { return "codegen.response" }

func (r *Response) BareLength() int {
	n := 4 + tl.ObjectVectorLength(true, r.Files)
	if v, ok := r.Message.Get(); ok {
		n += tl.StringLength(v)
	}
	return n
}

func (r *Response) EncodeBare(e *tl.Encoder) error {
	var flags uint32
	if r.Message.IsSet() {
		flags |= 1 << 0
	}
	e.PutUint32(flags)
	if err := tl.PutObjectVector(e, true, r.Files); err != nil {
		return err
	}
	if v, ok := r.Message.Get(); ok {
		e.PutString(v)
	}
	return nil
}

func (r *Response) DecodeBare(d *tl.Decoder) (err error) {
	*r = Response{}
	flags, err := d.Uint32()
	if err != nil {
		return err
	}
	if r.Files, err = tl.DecodeObjectVector[*File](d, true); err != nil {
		return err
	}
	if flags&(1<<0) != 0 {
		v, err := d.String()
		if err != nil {
			return err
		}
		r.Message = tl.Some(v)
	}
	return nil
}

func (r *Response) Fields() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if !yield("files", r.Files) {
			return
		}
		if v, ok := r.Message.Get(); ok {
			yield("message", v)
		}
	}
}

// }}}
