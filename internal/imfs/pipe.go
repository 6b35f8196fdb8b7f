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

package imfs

import (
	"github.com/stupendoussuperpowers/imfs/internal/fdtable"
	"github.com/stupendoussuperpowers/imfs/internal/node"
	"github.com/stupendoussuperpowers/imfs/internal/pipe"
)

// Pipe creates an anonymous pipe node and returns its read-end and
// write-end descriptors within cage.
func (s *State) Pipe(cage int) (readFd, writeFd int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("pipe", err) }()

	table, err := s.table(cage)
	if err != nil {
		return 0, 0, err
	}

	n, err := s.slab.Allocate(node.NamedPipe, 0600, "")
	if err != nil {
		return 0, 0, err
	}
	n.Pipe = pipe.NewBuffer()

	readFd, err = table.Allocate(n.Index, ORdonly)
	if err != nil {
		s.slab.Free(n.Index)
		return 0, 0, err
	}
	writeFd, err = table.Allocate(n.Index, OWronly)
	if err != nil {
		table.Close(readFd, nil)
		s.slab.Free(n.Index)
		return 0, 0, err
	}

	n.InUse = 2
	return readFd, writeFd, nil
}

// Pipe2 is Pipe; flags is accepted but ignored, matching the original
// source's imfs_pipe2, which forwards straight to imfs_pipe regardless of
// the flags argument.
func (s *State) Pipe2(cage, flags int) (readFd, writeFd int, err error) {
	return s.Pipe(cage)
}

// closePipeEnd flips the Buffer's WriterOpen/ReaderOpen flag for whichever
// endpoint d represents, so the busy-wait read loop observes the other
// side going away. The node itself has no path entry and so can never be
// marked doomed by unlink; releaseNode instead frees a NamedPipe node
// unconditionally once its in_use count reaches zero, matching the
// original's unconditional imfs_remove_pipe call on dual-close.
func (s *State) closePipeEnd(n *node.Node, d *fdtable.Desc) {
	switch d.Flags & (ORdonly | OWronly | ORdwr) {
	case OWronly:
		n.Pipe.WriterOpen = false
	default:
		n.Pipe.ReaderOpen = false
	}
}
