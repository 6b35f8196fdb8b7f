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

// Package node implements the node slab: the allocator with deletion-hole
// reuse, and the directory tree of parent/child relationships keyed by
// name. Nodes are addressed by stable slab index, never by pointer, so that
// cyclic references (a directory's "." and ".." children) are representable
// without breaking garbage collection or the free-hole allocator.
package node

import (
	"os"
	"time"

	"github.com/stupendoussuperpowers/imfs/internal/chunk"
	"github.com/stupendoussuperpowers/imfs/internal/pipe"
)

// Type tags a node's payload kind.
type Type int

const (
	Free Type = iota
	Regular
	Directory
	Symlink
	NamedPipe
)

// DirEnt is one directory entry: a fixed-width name plus the index of the
// child node. Insertion order is preserved.
type DirEnt struct {
	Name  string
	Index int
}

// Node is the in-memory inode record. Exactly one of the type-tagged
// payload fields below is meaningful, selected by Type.
type Node struct {
	Type        Type
	Index       int
	Name        string
	ParentIndex int
	InUse       int
	Doomed      bool
	Mode        os.FileMode

	Ctime time.Time
	Atime time.Time
	Mtime time.Time

	// Regular file payload.
	Content chunk.Chain

	// Directory payload. DirCount is the live child count, including the
	// "." and ".." entries, and is decremented on unlink even when the
	// child's slot reclamation is deferred by a doomed state.
	Children []DirEnt
	DirCount int

	// Symlink payload: the index of the target node.
	LinkTarget int

	// Pipe payload.
	Pipe *pipe.Buffer
}

// Size returns the user-visible byte length of a regular file.
func (n *Node) Size() int64 {
	return n.Content.Size()
}

// IsDir reports whether n is a directory.
func (n *Node) IsDir() bool {
	return n.Type == Directory
}

// FindChild returns the index of name within n's children, and whether it
// was found. Directory entries are scanned in insertion order; the first
// match wins.
func (n *Node) FindChild(name string) (index int, ok bool) {
	for _, ent := range n.Children {
		if ent.Name == name {
			return ent.Index, true
		}
	}
	return 0, false
}
