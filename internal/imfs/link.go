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

// Linkat creates a symlink at newPath pointing at the node oldPath
// resolves to. Despite the POSIX name, this does not implement hard-link
// reference counting: no target refcount is incremented, matching the
// conflation present in the original source (design note Q2). Use
// Symlinkat for the same behavior under its POSIX-correct name.
func (s *State) Linkat(cage int, oldPath, newPath string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("linkat", err) }()

	return s.linkCommon(cage, oldPath, newPath)
}

// Symlinkat is Linkat under its POSIX-correct name; both create a symlink
// node in this implementation.
func (s *State) Symlinkat(cage int, oldPath, newPath string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("symlinkat", err) }()

	return s.linkCommon(cage, oldPath, newPath)
}

// Link is Linkat with both paths resolved from the root, matching the
// original source's imfs_link, which forwards straight to imfs_linkat
// with AT_FDCWD on both sides.
func (s *State) Link(cage int, oldPath, newPath string) error {
	return s.Linkat(cage, oldPath, newPath)
}

// Symlink is Symlinkat with both paths resolved from the root.
func (s *State) Symlink(cage int, oldPath, newPath string) error {
	return s.Symlinkat(cage, oldPath, newPath)
}

func (s *State) linkCommon(cage int, oldPath, newPath string) error {
	oldComponents, err := pathutil.Split(oldPath)
	if err != nil {
		return err
	}
	targetIdx, err := resolver.Resolve(s.slab, node.RootIndex, oldComponents)
	if err != nil {
		return err
	}

	parentComponents, name, err := pathutil.SplitParent(newPath)
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
	if _, exists := parent.FindChild(name); exists {
		return imfserr.ErrInvalid
	}

	link, err := s.slab.Allocate(node.Symlink, 0777, name)
	if err != nil {
		return err
	}
	link.ParentIndex = parentIdx
	link.LinkTarget = targetIdx

	return s.slab.AddChild(parentIdx, name, link.Index)
}
