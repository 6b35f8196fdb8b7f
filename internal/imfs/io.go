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
	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
	"github.com/stupendoussuperpowers/imfs/internal/node"
)

// Read reads into buf at the descriptor's current offset, advancing it.
func (s *State) Read(cage, fd int, buf []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("read", err) }()

	direct, n, err := s.readCommon(cage, fd, buf, -1)
	if err == nil && direct != nil {
		direct.Offset += int64(n)
	}
	return n, err
}

// Pread reads into buf at offset without touching the descriptor's offset.
func (s *State) Pread(cage, fd int, buf []byte, offset int64) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("pread", err) }()

	_, n, err = s.readCommon(cage, fd, buf, offset)
	return n, err
}

// readCommon resolves fd and performs the read either against the
// descriptor's own offset (offset < 0) or a given positional offset. It
// returns the resolved direct descriptor so Read can advance its offset.
func (s *State) readCommon(cage, fd int, buf []byte, offset int64) (direct *fdtable.Desc, n int, err error) {
	table, err := s.table(cage)
	if err != nil {
		return nil, 0, err
	}
	direct, _, err = table.Resolve(fd)
	if err != nil {
		return nil, 0, err
	}

	n_, err := s.readFromNode(direct, buf, offset)
	return direct, n_, err
}

func (s *State) readFromNode(direct *fdtable.Desc, buf []byte, offset int64) (int, error) {
	n := s.slab.Get(direct.NodeIndex)
	if n == nil {
		return 0, imfserr.ErrBadFd
	}

	if n.Type == node.NamedPipe {
		return n.Pipe.Read(buf)
	}
	if n.Type != node.Regular {
		return 0, imfserr.ErrIsDir
	}

	at := offset
	if at < 0 {
		at = direct.Offset
	}
	return n.Content.ReadAt(buf, at)
}

// Readv reads into successive buffers, summing byte counts and stopping at
// the first error (propagating it, discarding further iovecs).
func (s *State) Readv(cage, fd int, bufs [][]byte) (total int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("readv", err) }()

	table, err := s.table(cage)
	if err != nil {
		return 0, err
	}
	direct, _, err := table.Resolve(fd)
	if err != nil {
		return 0, err
	}

	for _, b := range bufs {
		n, err := s.readFromNode(direct, b, -1)
		direct.Offset += int64(n)
		total += n
		if err != nil {
			return total, err
		}
		if n < len(b) {
			break
		}
	}
	return total, nil
}

// Preadv is Readv at a fixed starting offset, not touching the
// descriptor's own offset.
func (s *State) Preadv(cage, fd int, bufs [][]byte, offset int64) (total int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("preadv", err) }()

	table, err := s.table(cage)
	if err != nil {
		return 0, err
	}
	direct, _, err := table.Resolve(fd)
	if err != nil {
		return 0, err
	}

	at := offset
	for _, b := range bufs {
		n, err := s.readFromNode(direct, b, at)
		at += int64(n)
		total += n
		if err != nil {
			return total, err
		}
		if n < len(b) {
			break
		}
	}
	return total, nil
}

// Write writes buf at the descriptor's current offset, advancing it.
func (s *State) Write(cage, fd int, buf []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("write", err) }()

	direct, n, err := s.writeCommon(cage, fd, buf, -1)
	if err == nil && direct != nil {
		direct.Offset += int64(n)
	}
	return n, err
}

// Pwrite writes buf at offset without touching the descriptor's offset.
func (s *State) Pwrite(cage, fd int, buf []byte, offset int64) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("pwrite", err) }()

	_, n, err = s.writeCommon(cage, fd, buf, offset)
	return n, err
}

func (s *State) writeCommon(cage, fd int, buf []byte, offset int64) (direct *fdtable.Desc, n int, err error) {
	table, err := s.table(cage)
	if err != nil {
		return nil, 0, err
	}
	direct, _, err = table.Resolve(fd)
	if err != nil {
		return nil, 0, err
	}

	n_, err := s.writeToNode(direct, buf, offset)
	return direct, n_, err
}

func (s *State) writeToNode(direct *fdtable.Desc, buf []byte, offset int64) (int, error) {
	n := s.slab.Get(direct.NodeIndex)
	if n == nil {
		return 0, imfserr.ErrBadFd
	}

	if n.Type == node.NamedPipe {
		return n.Pipe.Write(buf)
	}
	if n.Type != node.Regular {
		return 0, imfserr.ErrIsDir
	}

	at := offset
	if at < 0 {
		at = direct.Offset
	}
	written, err := n.Content.WriteAt(buf, at)
	if err == nil {
		n.Mtime = s.clock.Now()
	}
	return written, err
}

// Writev writes successive buffers, summing byte counts and stopping at
// the first error.
func (s *State) Writev(cage, fd int, bufs [][]byte) (total int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("writev", err) }()

	table, err := s.table(cage)
	if err != nil {
		return 0, err
	}
	direct, _, err := table.Resolve(fd)
	if err != nil {
		return 0, err
	}

	for _, b := range bufs {
		n, err := s.writeToNode(direct, b, -1)
		direct.Offset += int64(n)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Pwritev is Writev at a fixed starting offset.
func (s *State) Pwritev(cage, fd int, bufs [][]byte, offset int64) (total int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("pwritev", err) }()

	table, err := s.table(cage)
	if err != nil {
		return 0, err
	}
	direct, _, err := table.Resolve(fd)
	if err != nil {
		return 0, err
	}

	at := offset
	for _, b := range bufs {
		n, err := s.writeToNode(direct, b, at)
		at += int64(n)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
