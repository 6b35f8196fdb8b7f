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

// Mkdirat creates a directory at path relative to dirFd, installing "."
// and ".." as symlink children. Fails with ErrInvalid if the terminal
// component is "." or "..", and with ErrExist if the terminal component
// already resolves.
func (s *State) Mkdirat(cage, dirFd int, path string, mode os.FileMode) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("mkdirat", err) }()

	table, err := s.table(cage)
	if err != nil {
		return err
	}
	base, err := s.baseIndex(cage, table, dirFd, path)
	if err != nil {
		return err
	}

	parentComponents, name, err := pathutil.SplitParent(path)
	if err != nil {
		return err
	}
	if name == "." || name == ".." {
		return imfserr.ErrInvalid
	}

	parentIdx, err := resolver.Resolve(s.slab, base, parentComponents)
	if err != nil {
		return err
	}
	parent := s.slab.Get(parentIdx)
	if parent.Type != node.Directory {
		return imfserr.ErrNotDir
	}
	if _, exists := parent.FindChild(name); exists {
		return imfserr.ErrExist
	}

	dir, err := s.slab.Allocate(node.Directory, mode.Perm(), name)
	if err != nil {
		return err
	}
	dir.ParentIndex = parentIdx

	dot, err := s.slab.Allocate(node.Symlink, 0777, ".")
	if err != nil {
		return err
	}
	dot.LinkTarget = dir.Index
	dot.ParentIndex = dir.Index

	dotdot, err := s.slab.Allocate(node.Symlink, 0777, "..")
	if err != nil {
		return err
	}
	dotdot.LinkTarget = parentIdx
	dotdot.ParentIndex = dir.Index

	dir.Children = append(dir.Children,
		node.DirEnt{Name: ".", Index: dot.Index},
		node.DirEnt{Name: "..", Index: dotdot.Index})
	dir.DirCount = 2

	return s.slab.AddChild(parentIdx, name, dir.Index)
}

// Mkdir is Mkdirat relative to the cage's current directory.
func (s *State) Mkdir(cage int, path string, mode os.FileMode) error {
	return s.Mkdirat(cage, AtFdCwd, path, mode)
}
