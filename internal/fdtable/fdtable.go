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

// Package fdtable implements the per-cage descriptor table: a bounded array
// of file descriptors with bump-plus-free-list allocation, and the
// direct/alias tagged-variant model that implements dup/dup2 by sharing a
// direct descriptor's offset rather than by reference counting.
package fdtable

import (
	"strconv"

	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
)

// Capacity is the fixed number of descriptor slots per cage.
const Capacity = 1024

// FirstFreeFd is the first non-reserved descriptor index; 0, 1, 2 are
// reserved for the standard streams.
const FirstFreeFd = 3

// Desc is one entry in a cage's descriptor table. A zero-value Desc
// represents a free slot (Status == false, not an Alias).
type Desc struct {
	// Status is true for both direct and alias slots that are in use.
	Status bool

	// Alias is true when this slot forwards to Target instead of owning a
	// node reference directly.
	Alias bool

	// Target is the fd this slot aliases, meaningful only when Alias.
	Target int

	// Direct descriptor fields, meaningful only when !Alias.
	NodeIndex int
	Offset    int64
	Flags     int
}

// Table is one cage's descriptor table.
//
// Table performs no locking of its own; imfs.State wraps the set of all
// cage tables in an InvariantMutex.
type Table struct {
	entries  [Capacity]Desc
	freeList []int
	next     int
}

// NewTable returns a table with the bump cursor past the reserved indices.
func NewTable() *Table {
	return &Table{next: FirstFreeFd}
}

// Allocate installs a direct descriptor referencing nodeIndex with the
// given open flags, returning its fd. Fails with ErrTooManyFiles at
// capacity.
func (t *Table) Allocate(nodeIndex int, flags int) (fd int, err error) {
	fd, err = t.reserveSlot()
	if err != nil {
		return 0, err
	}

	t.entries[fd] = Desc{Status: true, NodeIndex: nodeIndex, Flags: flags}
	return fd, nil
}

// reserveSlot pops the free list if non-empty, else bumps.
func (t *Table) reserveSlot() (int, error) {
	if len(t.freeList) > 0 {
		fd := t.freeList[len(t.freeList)-1]
		t.freeList = t.freeList[:len(t.freeList)-1]
		return fd, nil
	}

	if t.next >= Capacity {
		return 0, imfserr.ErrTooManyFiles
	}
	fd := t.next
	t.next++
	return fd, nil
}

// Get returns the raw slot at fd without alias resolution, or an error if
// fd is out of range or not allocated.
func (t *Table) Get(fd int) (*Desc, error) {
	if fd < 0 || fd >= Capacity {
		return nil, imfserr.ErrBadFd
	}
	if !t.entries[fd].Status {
		return nil, imfserr.ErrBadFd
	}
	return &t.entries[fd], nil
}

// Resolve follows at most one alias hop and returns the direct descriptor
// backing fd, along with the fd it actually lives at (useful for code that
// needs to mutate offset in place).
func (t *Table) Resolve(fd int) (direct *Desc, directFd int, err error) {
	d, err := t.Get(fd)
	if err != nil {
		return nil, 0, err
	}
	if !d.Alias {
		return d, fd, nil
	}

	target, err := t.Get(d.Target)
	if err != nil {
		return nil, 0, err
	}
	// Alias chains have length <= 1 by construction (Dup resolves through
	// an existing alias at creation time), so target is always direct.
	return target, d.Target, nil
}

// Dup allocates a new slot aliasing old. If old is itself an alias, the new
// slot aliases old's direct target directly, keeping alias chain length
// at most 1.
func (t *Table) Dup(old int) (fd int, err error) {
	_, directFd, err := t.Resolve(old)
	if err != nil {
		return 0, err
	}

	fd, err = t.reserveSlot()
	if err != nil {
		return 0, err
	}

	t.entries[fd] = Desc{Status: true, Alias: true, Target: directFd}
	return fd, nil
}

// Dup2 targets newFd explicitly. If newFd == old, it is returned unchanged
// without closing anything. If newFd is occupied, Dup2 closes it first
// (invoking closeFn for node bookkeeping) before installing the alias.
func (t *Table) Dup2(old, newFd int, closeFn func(fd int, direct *Desc)) (fd int, err error) {
	if newFd == old {
		if _, err := t.Get(old); err != nil {
			return 0, err
		}
		return newFd, nil
	}

	_, directFd, err := t.Resolve(old)
	if err != nil {
		return 0, err
	}

	if newFd < 0 || newFd >= Capacity {
		return 0, imfserr.ErrBadFd
	}

	if t.entries[newFd].Status {
		t.closeSlot(newFd, closeFn)
	} else {
		t.removeFromFreeList(newFd)
	}

	t.entries[newFd] = Desc{Status: true, Alias: true, Target: directFd}
	return newFd, nil
}

// Close releases fd. If fd is direct, closeFn is invoked with the slot so
// the caller can decrement the referenced node's in_use and reclaim it if
// doomed. The slot is then cleared and pushed to the free list.
func (t *Table) Close(fd int, closeFn func(fd int, direct *Desc)) error {
	if fd < 0 || fd >= Capacity || !t.entries[fd].Status {
		return imfserr.ErrBadFd
	}
	t.closeSlot(fd, closeFn)
	return nil
}

func (t *Table) closeSlot(fd int, closeFn func(fd int, direct *Desc)) {
	d := &t.entries[fd]
	if !d.Alias && closeFn != nil {
		closeFn(fd, d)
	}
	t.entries[fd] = Desc{}
	t.freeList = append(t.freeList, fd)
}

func (t *Table) removeFromFreeList(fd int) {
	for i, v := range t.freeList {
		if v == fd {
			t.freeList = append(t.freeList[:i], t.freeList[i+1:]...)
			return
		}
	}
}

// CopyFrom deep-copies src's entries into t, preserving both direct and
// alias entries exactly, simulating fd-table inheritance across fork.
func (t *Table) CopyFrom(src *Table) {
	t.entries = src.entries
	t.freeList = append([]int(nil), src.freeList...)
	t.next = src.next
}

// Occupancy reports the number of in-use descriptor slots.
func (t *Table) Occupancy() int {
	n := 0
	for _, d := range t.entries {
		if d.Status {
			n++
		}
	}
	return n
}

// CheckInvariants panics if any descriptor-table invariant is violated:
// alias chains longer than one hop, or a free-list entry that is marked
// occupied.
func (t *Table) CheckInvariants() {
	for fd, d := range t.entries {
		if !d.Status {
			continue
		}
		if d.Alias {
			target := t.entries[d.Target]
			if !target.Status || target.Alias {
				panic("fdtable.Table: alias chain longer than one hop at fd " + strconv.Itoa(fd))
			}
		}
	}

	seen := make(map[int]bool, len(t.freeList))
	for _, fd := range t.freeList {
		if seen[fd] {
			panic("fdtable.Table: fd " + strconv.Itoa(fd) + " appears twice in free list")
		}
		seen[fd] = true
		if t.entries[fd].Status {
			panic("fdtable.Table: free-list fd " + strconv.Itoa(fd) + " is occupied")
		}
	}
}
