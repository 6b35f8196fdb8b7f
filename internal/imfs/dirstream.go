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

	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
	"github.com/stupendoussuperpowers/imfs/internal/node"
	"github.com/stupendoussuperpowers/imfs/internal/pathutil"
	"github.com/stupendoussuperpowers/imfs/internal/resolver"
)

// DirEntry is one entry returned by Readdir.
type DirEntry struct {
	Ino  int
	Type os.FileMode
	Name string
}

// DirStream is a cursor over a directory's child list, returned by
// Opendir. The value itself is fully populated at construction (the
// original source's opendir assigns through a null pointer before
// populating it; Go value semantics make that bug unrepresentable here —
// see design note Q5).
type DirStream struct {
	cage    int
	fd      int
	nodeIdx int
	offset  int
}

// Opendir resolves path to a directory and returns a stream positioned at
// its first entry.
func (s *State) Opendir(cage int, path string) (stream *DirStream, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("opendir", err) }()

	components, err := pathutil.Split(path)
	if err != nil {
		return nil, err
	}
	idx, err := resolver.Resolve(s.slab, node.RootIndex, components)
	if err != nil {
		return nil, err
	}
	n := s.slab.Get(idx)
	if n.Type != node.Directory {
		return nil, imfserr.ErrNotDir
	}

	return &DirStream{cage: cage, nodeIdx: idx}, nil
}

// Readdir advances stream and returns the next entry, or ok == false at
// the end of the directory.
func (s *State) Readdir(stream *DirStream) (entry DirEntry, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("readdir", err) }()

	dir := s.slab.Get(stream.nodeIdx)
	if dir == nil || dir.Type != node.Directory {
		return DirEntry{}, false, imfserr.ErrNotDir
	}
	if stream.offset >= len(dir.Children) {
		return DirEntry{}, false, nil
	}

	ent := dir.Children[stream.offset]
	stream.offset++

	child := s.slab.Get(ent.Index)
	return DirEntry{Ino: child.Index, Type: modeType(child.Type), Name: ent.Name}, true, nil
}
