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

// Package resolver walks a parsed path component list from a starting
// directory node, dereferencing symlink components along the way. It does
// not itself split paths (see pathutil) or allocate nodes (see node); it is
// the pure tree-walk step between the two.
package resolver

import (
	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
	"github.com/stupendoussuperpowers/imfs/internal/node"
)

// Resolve walks components starting at the directory node startIdx,
// following symlink components as it goes. It returns the index of the
// final resolved node. A missing component at any position fails with
// ErrNotExist; a non-terminal component that is neither a directory nor a
// symlink fails with ErrNotDir.
func Resolve(slab *node.Slab, startIdx int, components []string) (idx int, err error) {
	cur := startIdx

	for i, name := range components {
		n := slab.Get(cur)
		if n == nil || n.Type != node.Directory {
			return 0, imfserr.ErrNotDir
		}

		childIdx, ok := n.FindChild(name)
		if !ok {
			return 0, imfserr.ErrNotExist
		}

		child := slab.Get(childIdx)
		if child.Type == node.Symlink {
			childIdx = child.LinkTarget
		}

		isLast := i == len(components)-1
		if !isLast {
			resolved := slab.Get(childIdx)
			if resolved.Type != node.Directory {
				return 0, imfserr.ErrNotDir
			}
		}

		cur = childIdx
	}

	return cur, nil
}

// ResolveNoFollow is like Resolve but does not dereference a symlink at the
// terminal component, returning the symlink node itself. Non-terminal
// symlink components are still followed (they must resolve to a
// directory). Used by lstat.
func ResolveNoFollow(slab *node.Slab, startIdx int, components []string) (idx int, err error) {
	if len(components) == 0 {
		return startIdx, nil
	}

	parentIdx, err := Resolve(slab, startIdx, components[:len(components)-1])
	if err != nil {
		return 0, err
	}

	parent := slab.Get(parentIdx)
	if parent == nil || parent.Type != node.Directory {
		return 0, imfserr.ErrNotDir
	}

	name := components[len(components)-1]
	childIdx, ok := parent.FindChild(name)
	if !ok {
		return 0, imfserr.ErrNotExist
	}

	return childIdx, nil
}
