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
	"os"
	"time"

	"github.com/stupendoussuperpowers/imfs/internal/node"
	"github.com/stupendoussuperpowers/imfs/internal/pathutil"
	"github.com/stupendoussuperpowers/imfs/internal/resolver"
)

// StatResult mirrors the fields of a POSIX stat buffer that IMFS can
// meaningfully populate.
type StatResult struct {
	Dev     uint64
	Ino     int
	Mode    os.FileMode
	Nlink   uint32
	Uid     uint32
	Gid     uint32
	Size    int64
	BlkSize int64
	Ctime   time.Time
	Atime   time.Time
	Mtime   time.Time
}

// imfsDev is the constant device id every node reports, since IMFS has no
// concept of multiple backing devices.
const imfsDev = 1

// blockSize is the fixed block size reported in stat results.
const blockSize = 512

// imfsUid and imfsGid are the fixed owner/group every node reports,
// matching the original source's GET_UID/GET_GID constants (imfs.h:21-22).
const (
	imfsUid = 501
	imfsGid = 20
)

func (s *State) statNode(n *node.Node) StatResult {
	return StatResult{
		Dev:     imfsDev,
		Ino:     n.Index,
		Mode:    n.Mode | modeType(n.Type),
		Nlink:   1,
		Uid:     imfsUid,
		Gid:     imfsGid,
		Size:    n.Size(),
		BlkSize: blockSize,
		Ctime:   n.Ctime,
		Atime:   n.Atime,
		Mtime:   n.Mtime,
	}
}

// Stat populates a StatResult for path, dereferencing a terminal symlink.
func (s *State) Stat(cage int, path string) (result StatResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("stat", err) }()

	components, err := pathutil.Split(path)
	if err != nil {
		return StatResult{}, err
	}
	idx, err := resolver.Resolve(s.slab, node.RootIndex, components)
	if err != nil {
		return StatResult{}, err
	}
	return s.statNode(s.slab.Get(idx)), nil
}

// Lstat is Stat without dereferencing a terminal symlink.
func (s *State) Lstat(cage int, path string) (result StatResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("lstat", err) }()

	components, err := pathutil.Split(path)
	if err != nil {
		return StatResult{}, err
	}
	idx, err := resolver.ResolveNoFollow(s.slab, node.RootIndex, components)
	if err != nil {
		return StatResult{}, err
	}
	return s.statNode(s.slab.Get(idx)), nil
}

// Fstat is Stat against an already-open descriptor.
func (s *State) Fstat(cage, fd int) (result StatResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("fstat", err) }()

	table, err := s.table(cage)
	if err != nil {
		return StatResult{}, err
	}
	direct, _, err := table.Resolve(fd)
	if err != nil {
		return StatResult{}, err
	}
	return s.statNode(s.slab.Get(direct.NodeIndex)), nil
}
