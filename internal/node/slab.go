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

import (
	"fmt"
	"os"

	"github.com/jacobsa/timeutil"
	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
)

// Capacity is the fixed number of node slots in the slab.
const Capacity = 1024

// RootIndex is the slab index of the root directory. It is its own parent.
const RootIndex = 0

// Slab is the process-wide collection of nodes, with a LIFO free-hole list
// preferred over bump allocation for reuse of deleted slots.
//
// Slab itself performs no locking; imfs.State wraps it in an
// InvariantMutex so every mutation is invariant-checked.
type Slab struct {
	clock timeutil.Clock

	nodes    [Capacity]Node
	occupied [Capacity]bool
	freeList []int
	next     int
}

// NewSlab constructs an empty slab and creates the root directory at index
// RootIndex, parented to itself, with "." and ".." installed as symlink
// children pointing at the root.
func NewSlab(clock timeutil.Clock) *Slab {
	s := &Slab{clock: clock}

	root, err := s.Allocate(Directory, 0755, "/")
	if err != nil {
		panic(fmt.Sprintf("node.NewSlab: failed to allocate root: %v", err))
	}
	if root.Index != RootIndex {
		panic("node.NewSlab: root did not land at index 0")
	}
	root.ParentIndex = RootIndex

	dot, err := s.Allocate(Symlink, 0777, ".")
	if err != nil {
		panic(fmt.Sprintf("node.NewSlab: failed to allocate '.': %v", err))
	}
	dot.LinkTarget = RootIndex
	dot.ParentIndex = RootIndex

	dotdot, err := s.Allocate(Symlink, 0777, "..")
	if err != nil {
		panic(fmt.Sprintf("node.NewSlab: failed to allocate '..': %v", err))
	}
	dotdot.LinkTarget = RootIndex
	dotdot.ParentIndex = RootIndex

	root.Children = append(root.Children, DirEnt{Name: ".", Index: dot.Index})
	root.Children = append(root.Children, DirEnt{Name: "..", Index: dotdot.Index})
	root.DirCount = 2

	return s
}

// Allocate pops a slot from the free-hole list if non-empty, verifying the
// popped slot's current type is free, else bumps the next-free cursor.
// Fails with ErrNoSpace when the slab is exhausted.
func (s *Slab) Allocate(t Type, mode os.FileMode, name string) (*Node, error) {
	var idx int
	if len(s.freeList) > 0 {
		idx = s.freeList[len(s.freeList)-1]
		if s.occupied[idx] {
			panic(fmt.Sprintf("node.Slab: free-list slot %d is not actually free", idx))
		}
		s.freeList = s.freeList[:len(s.freeList)-1]
	} else {
		if s.next >= Capacity {
			return nil, imfserr.ErrNoSpace
		}
		idx = s.next
		s.next++
	}

	now := s.clock.Now()
	s.nodes[idx] = Node{
		Type:  t,
		Index: idx,
		Name:  name,
		Mode:  mode,
		Ctime: now,
		Atime: now,
		Mtime: now,
	}
	s.occupied[idx] = true

	return &s.nodes[idx], nil
}

// Get returns the node at idx. It does not check occupancy; callers that
// need to distinguish a free slot should check Type == Free.
func (s *Slab) Get(idx int) *Node {
	if idx < 0 || idx >= Capacity {
		return nil
	}
	return &s.nodes[idx]
}

// Free reclaims idx: clears the slot to a free node and pushes idx onto the
// free-hole list.
func (s *Slab) Free(idx int) {
	if idx < 0 || idx >= Capacity {
		return
	}
	s.nodes[idx] = Node{Index: idx, Type: Free}
	s.occupied[idx] = false
	s.freeList = append(s.freeList, idx)
}

// FreeListDepth reports how many reclaimed slots are available for reuse
// before the bump cursor would need to advance. Exposed for metrics.
func (s *Slab) FreeListDepth() int {
	return len(s.freeList)
}

// CheckInvariants panics if any slab-level invariant is violated. It is
// called by imfs.State's invariant-checked mutex on every lock/unlock; the
// slab itself holds no lock of its own.
func (s *Slab) CheckInvariants() {
	for idx, occ := range s.occupied {
		n := &s.nodes[idx]
		if occ && n.Type == Free {
			panic(fmt.Sprintf("node.Slab: slot %d marked occupied but type is Free", idx))
		}
		if !occ && n.Type != Free {
			panic(fmt.Sprintf("node.Slab: slot %d marked free but type is %v", idx, n.Type))
		}
		if occ && n.Type == Regular {
			if n.Content.Size() < 0 {
				panic(fmt.Sprintf("node.Slab: slot %d has negative size", idx))
			}
		}
	}

	seen := make(map[int]bool, len(s.freeList))
	for _, idx := range s.freeList {
		if seen[idx] {
			panic(fmt.Sprintf("node.Slab: index %d appears twice in free list", idx))
		}
		seen[idx] = true
		if s.occupied[idx] {
			panic(fmt.Sprintf("node.Slab: free-list index %d is occupied", idx))
		}
	}
}

// Occupancy reports the number of currently-live (non-free) nodes.
func (s *Slab) Occupancy() int {
	n := 0
	for _, occ := range s.occupied {
		if occ {
			n++
		}
	}
	return n
}
