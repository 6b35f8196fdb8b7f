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

// Package chunk implements the fixed-size singly-linked chunk chain backing
// a regular file's content. The walk-and-copy algorithm here is byte-exact
// to the original chunked write/read loop: it never reallocates a flat
// buffer, walks past fully-used chunks to find the one holding the target
// offset, and grows the chain by one chunk at a time as needed.
package chunk

// Size is the fixed byte capacity of a single chunk.
const Size = 1024

// Chunk is one fixed-size fragment of a regular file's content.
type Chunk struct {
	Data [Size]byte
	Used int
	Next *Chunk
}

// Chain is the content of a single regular file: a singly-linked list of
// Chunks plus the user-visible total size.
//
// A zero-value Chain is empty and ready to use.
type Chain struct {
	head  *Chunk
	tail  *Chunk
	total int64
}

// Size returns the user-visible byte length of the chain.
func (c *Chain) Size() int64 {
	return c.total
}

// ReadAt copies up to len(buf) bytes starting at offset into buf, clipping
// to the chain's total size. It never allocates. Returns 0, nil when
// offset >= total size.
func (c *Chain) ReadAt(buf []byte, offset int64) (n int, err error) {
	if offset >= c.total {
		return 0, nil
	}

	toRead := int64(len(buf))
	if offset+toRead > c.total {
		toRead = c.total - offset
	}

	cur := c.head
	localOffset := offset
	for cur != nil && localOffset >= int64(cur.Used) {
		localOffset -= int64(cur.Used)
		cur = cur.Next
	}

	var copied int64
	for copied < toRead && cur != nil {
		avail := int64(cur.Used) - localOffset
		if avail <= 0 {
			cur = cur.Next
			localOffset = 0
			continue
		}
		want := toRead - copied
		if want > avail {
			want = avail
		}
		copy(buf[copied:copied+want], cur.Data[localOffset:localOffset+want])
		copied += want
		localOffset += want
		if localOffset >= int64(cur.Used) {
			cur = cur.Next
			localOffset = 0
		}
	}

	return int(copied), nil
}

// WriteAt copies buf into the chain starting at offset, allocating new
// tail chunks as needed. total size grows to offset+len(buf) when that
// exceeds the current size.
func (c *Chain) WriteAt(buf []byte, offset int64) (n int, err error) {
	if len(buf) == 0 {
		return 0, nil
	}

	// Walk to the chunk holding offset, allocating chunks up to that point
	// if the chain is shorter than offset requires.
	var prev *Chunk
	cur := c.head
	localOffset := offset
	for localOffset >= Size {
		if cur == nil {
			cur = c.appendChunk()
		}
		// A chunk skipped over lies entirely before offset, whether it was
		// created just now or was a short existing chunk; mark it fully
		// used so later reads don't mistake it for a short chunk and walk
		// past it early.
		cur.Used = Size
		prev = cur
		cur = cur.Next
		localOffset -= Size
	}
	if cur == nil {
		cur = c.appendChunk()
		_ = prev
	}

	remaining := buf
	written := 0
	for len(remaining) > 0 {
		if cur == nil {
			cur = c.appendChunk()
		}

		room := Size - int(localOffset)
		want := len(remaining)
		if want > room {
			want = room
		}

		copy(cur.Data[localOffset:int(localOffset)+want], remaining[:want])
		newUsed := int(localOffset) + want
		if newUsed > cur.Used {
			cur.Used = newUsed
		}

		written += want
		remaining = remaining[want:]
		localOffset = 0
		prev = cur
		cur = cur.Next
	}
	_ = prev

	if end := offset + int64(written); end > c.total {
		c.total = end
	}

	return written, nil
}

// appendChunk grows the chain by one empty chunk and returns it.
func (c *Chain) appendChunk() *Chunk {
	ch := &Chunk{}
	if c.tail == nil {
		c.head = ch
		c.tail = ch
	} else {
		c.tail.Next = ch
		c.tail = ch
	}
	return ch
}

// Reset discards all chunks, restoring the chain to its zero state.
func (c *Chain) Reset() {
	c.head = nil
	c.tail = nil
	c.total = 0
}
