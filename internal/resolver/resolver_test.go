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

package resolver_test

import (
	"testing"

	. "github.com/jacobsa/ogletest"
	"github.com/jacobsa/timeutil"
	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
	"github.com/stupendoussuperpowers/imfs/internal/node"
	"github.com/stupendoussuperpowers/imfs/internal/resolver"
)

func TestResolver(t *testing.T) { RunTests(t) }

type ResolverTest struct {
	clock timeutil.SimulatedClock
	slab  *node.Slab
}

func init() { RegisterTestSuite(&ResolverTest{}) }

func (t *ResolverTest) SetUp(ti *TestInfo) {
	t.slab = node.NewSlab(&t.clock)

	x, err := t.slab.Allocate(node.Directory, 0755, "x")
	AssertEq(nil, err)
	t.slab.AddChild(node.RootIndex, "x", x.Index)
	x.ParentIndex = node.RootIndex

	y, err := t.slab.Allocate(node.Directory, 0755, "y")
	AssertEq(nil, err)
	t.slab.AddChild(x.Index, "y", y.Index)
	y.ParentIndex = x.Index

	dot, err := t.slab.Allocate(node.Symlink, 0777, ".")
	AssertEq(nil, err)
	dot.LinkTarget = y.Index
	t.slab.AddChild(y.Index, ".", dot.Index)

	dotdot, err := t.slab.Allocate(node.Symlink, 0777, "..")
	AssertEq(nil, err)
	dotdot.LinkTarget = x.Index
	t.slab.AddChild(y.Index, "..", dotdot.Index)
}

func (t *ResolverTest) ResolvesNestedPath() {
	idx, err := resolver.Resolve(t.slab, node.RootIndex, []string{"x", "y"})
	AssertEq(nil, err)
	ExpectEq(node.Directory, t.slab.Get(idx).Type)
	ExpectEq("y", t.slab.Get(idx).Name)
}

func (t *ResolverTest) ResolvesThroughDotDot() {
	idx, err := resolver.Resolve(t.slab, node.RootIndex, []string{"x", "y", "..", "y"})
	AssertEq(nil, err)
	ExpectEq("y", t.slab.Get(idx).Name)
}

func (t *ResolverTest) MissingComponentFails() {
	_, err := resolver.Resolve(t.slab, node.RootIndex, []string{"x", "nope"})
	ExpectEq(imfserr.ErrNotExist, err)
}

func (t *ResolverTest) NonDirectoryInMiddleFails() {
	f, err := t.slab.Allocate(node.Regular, 0644, "f")
	AssertEq(nil, err)
	t.slab.AddChild(node.RootIndex, "f", f.Index)

	_, err = resolver.Resolve(t.slab, node.RootIndex, []string{"f", "anything"})
	ExpectEq(imfserr.ErrNotDir, err)
}

func (t *ResolverTest) ResolveNoFollowReturnsSymlinkItself() {
	idx, err := resolver.ResolveNoFollow(t.slab, node.RootIndex, []string{"x", "y", "."})
	AssertEq(nil, err)
	ExpectEq(node.Symlink, t.slab.Get(idx).Type)
}
