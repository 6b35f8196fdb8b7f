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
	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
	"github.com/stupendoussuperpowers/imfs/internal/node"
	"github.com/stupendoussuperpowers/imfs/internal/pathutil"
	"github.com/stupendoussuperpowers/imfs/internal/resolver"
)

// Unlink removes a regular file or symlink at path. The node is marked
// doomed and decremented from its parent's child count immediately; if no
// descriptor still references it, it is reclaimed in place. Unlink never
// fails merely because the file is open.
func (s *State) Unlink(cage int, path string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("unlink", err) }()

	return s.removeCommon(path, false)
}

// Rmdir removes an empty directory at path (one containing only "." and
// ".."). Fails with ErrBusy if the directory has other entries or is the
// root.
func (s *State) Rmdir(cage int, path string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("rmdir", err) }()

	return s.removeCommon(path, true)
}

// Remove dispatches to Unlink or Rmdir based on the node's actual type,
// matching the POSIX remove() convenience wrapper.
func (s *State) Remove(cage int, path string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("remove", err) }()

	components, err := pathutil.Split(path)
	if err != nil {
		return err
	}
	idx, err := resolver.ResolveNoFollow(s.slab, node.RootIndex, components)
	if err != nil {
		return err
	}

	return s.removeCommon(path, s.slab.Get(idx).Type == node.Directory)
}

func (s *State) removeCommon(path string, wantDir bool) error {
	parentComponents, name, err := pathutil.SplitParent(path)
	if err != nil {
		return err
	}
	parentIdx, err := resolver.Resolve(s.slab, node.RootIndex, parentComponents)
	if err != nil {
		return err
	}
	parent := s.slab.Get(parentIdx)
	if parent.Type != node.Directory {
		return imfserr.ErrNotDir
	}

	childIdx, exists := parent.FindChild(name)
	if !exists {
		return imfserr.ErrNotExist
	}
	child := s.slab.Get(childIdx)

	if child.Type == node.Directory {
		if !wantDir {
			return imfserr.ErrIsDir
		}
		if childIdx == node.RootIndex {
			return imfserr.ErrBusy
		}
		// Guard on entries beyond "." and "..", matching the spec's
		// invariant 4 rather than the original's d_count > 0 revision
		// (design note Q4).
		if child.NonDotChildCount() > 0 {
			return imfserr.ErrBusy
		}
	} else if wantDir {
		return imfserr.ErrNotDir
	}

	if err := s.slab.RemoveChild(parentIdx, name); err != nil {
		return err
	}

	child.Doomed = true
	if child.InUse == 0 {
		s.slab.Free(childIdx)
	}

	return nil
}
