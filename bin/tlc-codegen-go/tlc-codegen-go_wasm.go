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

package main

import (
	"encoding/binary"
	"math"
	"unsafe"

	"go.tl-lang.org/tl/codegen/plugin"
)

// Buffers handed to the host stay reachable until it deallocates them.
var buffers = make(map[*uint8][]uint8)

//go:export tlc_codegen_allocate
func tlcCodegenAllocate(size uint32) *uint8 {
	if size > math.MaxInt32 {
		return nil
	}
	buf := make([]uint8, int(size))
	ptr := unsafe.SliceData(buf)
	buffers[ptr] = buf
	return ptr
}

//go:export tlc_codegen_deallocate
func tlcCodegenDeallocate(ptr *uint8) {
	delete(buffers, ptr)
}

// The response is written as a little-endian uint32 length followed by
// the encoded codegen.response.
//
//go:export tlc_codegen_generate
func tlcCodegenGenerate(requestPtr *uint8, requestLen uint32, responsePtrPtr **uint8) uint8 {
	requestBuf := unsafe.Slice(requestPtr, requestLen)
	response, ok := plugin.Serve(requestBuf, plugin.GenerateGo)

	out := make([]uint8, 4+len(response))
	binary.LittleEndian.PutUint32(out, uint32(len(response)))
	copy(out[4:], response)
	responsePtr := unsafe.SliceData(out)
	buffers[responsePtr] = out
	*responsePtrPtr = responsePtr

	if !ok {
		return 1
	}
	return 0
}
