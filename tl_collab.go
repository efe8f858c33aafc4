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
	"context"
	"errors"
	"net/netip"
)

// PartStore receives uploaded file parts and assembles them into files.
// The part flagged last fixes the file's part count. Implementations live
// outside this module.
type PartStore interface {
	SavePart(ctx context.Context, fileID int64, part int32, data []uint8, last bool) error
	Finalize(ctx context.Context, fileID int64, kind string, parts int32) (size int64, err error)
}

// DatagramRelay forwards datagrams between peers behind NAT.
// Implementations live outside this module.
type DatagramRelay interface {
	Send(ctx context.Context, peer netip.AddrPort, payload []uint8) error
	Receive(ctx context.Context) (peer netip.AddrPort, payload []uint8, err error)
	Close() error
}

// ErrRelayClosed is returned by a [DatagramRelay] after Close.
var ErrRelayClosed = errors.New("tl: datagram relay closed")
