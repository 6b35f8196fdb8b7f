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

package node_test

import (
	"testing"

	"github.com/jacobsa/oglematchers"
	. "github.com/jacobsa/ogletest"
	"github.com/jacobsa/timeutil"
	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
	"github.com/stupendoussuperpowers/imfs/internal/node"
)

func TestNode(t *testing.T) { RunTests(t) }

type NodeTest struct {
	clock timeutil.SimulatedClock
	slab  *node.Slab
}

func init() { RegisterTestSuite(&NodeTest{}) }

func (t *NodeTest) SetUp(ti *TestInfo) {
	t.slab = node.NewSlab(&t.clock)
}

func (t *NodeTest) RootExists() {
	root := t.slab.Get(node.RootIndex)
	ExpectEq(node.Directory, root.Type)
	ExpectEq(node.RootIndex, root.ParentIndex)
	ExpectEq(2, root.DirCount)

	dotIdx, ok := root.FindChild(".")
	ExpectTrue(ok)
	ExpectEq(node.RootIndex, t.slab.Get(dotIdx).LinkTarget)

	dotdotIdx, ok := root.FindChild("..")
	ExpectTrue(ok)
	ExpectEq(node.RootIndex, t.slab.Get(dotdotIdx).LinkTarget)
}

func (t *NodeTest) AllocateAssignsSequentialIndices() {
	a, err := t.slab.Allocate(node.Regular, 0644, "a")
	AssertEq(nil, err)
	b, err := t.slab.Allocate(node.Regular, 0644, "b")
	AssertEq(nil, err)

	ExpectThat(b.Index, oglematchers.GreaterThan(a.Index))
}

func (t *NodeTest) FreeThenAllocateReusesHole() {
	a, err := t.slab.Allocate(node.Regular, 0644, "a")
	AssertEq(nil, err)
	idx := a.Index

	t.slab.Free(idx)
	ExpectEq(node.Free, t.slab.Get(idx).Type)

	b, err := t.slab.Allocate(node.Regular, 0644, "b")
	AssertEq(nil, err)
	ExpectEq(idx, b.Index)
}

func (t *NodeTest) AddAndRemoveChild() {
	dir := t.slab.Get(node.RootIndex)
	child, err := t.slab.Allocate(node.Regular, 0644, "f.txt")
	AssertEq(nil, err)

	err = t.slab.AddChild(node.RootIndex, "f.txt", child.Index)
	AssertEq(nil, err)
	ExpectEq(3, dir.DirCount)

	_, ok := dir.FindChild("f.txt")
	ExpectTrue(ok)

	err = t.slab.RemoveChild(node.RootIndex, "f.txt")
	AssertEq(nil, err)
	ExpectEq(2, dir.DirCount)

	_, ok = dir.FindChild("f.txt")
	ExpectFalse(ok)
}

func (t *NodeTest) RemoveChildNotFound() {
	err := t.slab.RemoveChild(node.RootIndex, "nope")
	ExpectEq(imfserr.ErrNotExist, err)
}

func (t *NodeTest) AddChildToNonDirectory() {
	f, err := t.slab.Allocate(node.Regular, 0644, "f")
	AssertEq(nil, err)

	err = t.slab.AddChild(f.Index, "x", f.Index)
	ExpectEq(imfserr.ErrNotDir, err)
}

func (t *NodeTest) NonDotChildCount() {
	dir := t.slab.Get(node.RootIndex)
	ExpectEq(0, dir.NonDotChildCount())

	child, err := t.slab.Allocate(node.Regular, 0644, "f")
	AssertEq(nil, err)
	t.slab.AddChild(node.RootIndex, "f", child.Index)

	ExpectEq(1, dir.NonDotChildCount())
}

func (t *NodeTest) CheckInvariantsPassesOnFreshSlab() {
	t.slab.CheckInvariants()
}
