// Copyright 2015 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pipe implements the anonymous-pipe backing buffer: a single
// fixed-size byte array shared between a reader and writer descriptor, with
// a busy-wait protocol standing in for blocking I/O. This mirrors the
// original source's single-shot drain behavior exactly: a reader does not
// return until bytes are available or the writer has gone away, and when it
// does return it drains the entire buffered payload at once, there is no
// partial-read accounting.
package pipe

import "runtime"

// Capacity is the fixed size of a pipe's backing buffer.
const Capacity = 4096

// Buffer is the shared state between a pipe's two endpoint descriptors.
type Buffer struct {
	data   [Capacity]byte
	offset int

	// WriterOpen and ReaderOpen are flipped to false by imfs.State when
	// the corresponding endpoint descriptor closes. The busy
	// wait in Read observes WriterOpen.
	WriterOpen bool
	ReaderOpen bool
}

// NewBuffer returns a buffer with both endpoints marked open.
func NewBuffer() *Buffer {
	return &Buffer{WriterOpen: true, ReaderOpen: true}
}

// Write appends buf to the buffer, advancing the offset. It never blocks;
// callers are expected to size writes so they fit, matching the original's
// assumption that a single write call fits within the shared buffer.
func (b *Buffer) Write(buf []byte) (n int, err error) {
	room := Capacity - b.offset
	n = len(buf)
	if n > room {
		n = room
	}
	copy(b.data[b.offset:b.offset+n], buf[:n])
	b.offset += n
	return n, nil
}

// Read busy-waits while the writer endpoint is open and the buffer is
// empty, then drains the whole buffer in one shot and resets the offset.
// If the writer has closed and the buffer is empty, Read returns 0, nil
// (EOF), matching a closed pipe with no more data.
func (b *Buffer) Read(buf []byte) (n int, err error) {
	for b.WriterOpen && b.offset <= 0 {
		runtime.Gosched()
	}

	if b.offset <= 0 {
		return 0, nil
	}

	toRead := b.offset
	if toRead > len(buf) {
		toRead = len(buf)
	}
	copy(buf, b.data[:toRead])
	b.offset = 0

	return toRead, nil
}

// Drained reports whether the buffer holds no unread bytes.
func (b *Buffer) Drained() bool {
	return b.offset <= 0
}
