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

package node

import "github.com/stupendoussuperpowers/imfs/internal/imfserr"

// AddChild installs a new entry named name -> childIdx in the directory at
// parentIdx. Fails with ErrNotDir if parentIdx is not a directory.
func (s *Slab) AddChild(parentIdx int, name string, childIdx int) error {
	parent := s.Get(parentIdx)
	if parent == nil || parent.Type != Directory {
		return imfserr.ErrNotDir
	}

	parent.Children = append(parent.Children, DirEnt{Name: name, Index: childIdx})
	parent.DirCount++
	parent.Mtime = s.clock.Now()

	return nil
}

// RemoveChild deletes the entry named name from the directory at
// parentIdx, decrementing DirCount regardless of whether the child node's
// own slot is reclaimed immediately or left doomed.
func (s *Slab) RemoveChild(parentIdx int, name string) error {
	parent := s.Get(parentIdx)
	if parent == nil || parent.Type != Directory {
		return imfserr.ErrNotDir
	}

	for i, ent := range parent.Children {
		if ent.Name == name {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			parent.DirCount--
			parent.Mtime = s.clock.Now()
			return nil
		}
	}

	return imfserr.ErrNotExist
}

// NonDotChildCount returns the number of entries in a directory beyond the
// mandatory "." and ".." children.
func (n *Node) NonDotChildCount() int {
	count := 0
	for _, ent := range n.Children {
		if ent.Name != "." && ent.Name != ".." {
			count++
		}
	}
	return count
}
