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

package fdtable_test

import (
	"testing"

	. "github.com/jacobsa/ogletest"
	"github.com/stupendoussuperpowers/imfs/internal/fdtable"
	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
)

func TestFdtable(t *testing.T) { RunTests(t) }

type FdtableTest struct {
	table *fdtable.Table
}

func init() { RegisterTestSuite(&FdtableTest{}) }

func (t *FdtableTest) SetUp(ti *TestInfo) {
	t.table = fdtable.NewTable()
}

func (t *FdtableTest) AllocateStartsAfterReservedFds() {
	fd, err := t.table.Allocate(42, 0)
	AssertEq(nil, err)
	ExpectEq(fdtable.FirstFreeFd, fd)
}

func (t *FdtableTest) CloseReclaimsSlotForReuse() {
	fd, err := t.table.Allocate(1, 0)
	AssertEq(nil, err)

	var closedFd int
	err = t.table.Close(fd, func(closedAt int, d *fdtable.Desc) { closedFd = closedAt })
	AssertEq(nil, err)
	ExpectEq(fd, closedFd)

	fd2, err := t.table.Allocate(2, 0)
	AssertEq(nil, err)
	ExpectEq(fd, fd2)
}

func (t *FdtableTest) DupSharesTargetOffset() {
	fd, err := t.table.Allocate(1, 0)
	AssertEq(nil, err)

	g, err := t.table.Dup(fd)
	AssertEq(nil, err)
	ExpectNe(fd, g)

	direct, directFd, err := t.table.Resolve(g)
	AssertEq(nil, err)
	ExpectEq(fd, directFd)
	ExpectEq(1, direct.NodeIndex)

	direct.Offset = 5
	direct2, _, err := t.table.Resolve(fd)
	AssertEq(nil, err)
	ExpectEq(int64(5), direct2.Offset)
}

func (t *FdtableTest) DupOfAliasKeepsChainLengthOne() {
	fd, err := t.table.Allocate(1, 0)
	AssertEq(nil, err)

	alias1, err := t.table.Dup(fd)
	AssertEq(nil, err)

	alias2, err := t.table.Dup(alias1)
	AssertEq(nil, err)

	_, directFd, err := t.table.Resolve(alias2)
	AssertEq(nil, err)
	ExpectEq(fd, directFd)

	t.table.CheckInvariants()
}

func (t *FdtableTest) Dup2SameFdReturnsImmediately() {
	fd, err := t.table.Allocate(1, 0)
	AssertEq(nil, err)

	result, err := t.table.Dup2(fd, fd, nil)
	AssertEq(nil, err)
	ExpectEq(fd, result)
}

func (t *FdtableTest) Dup2ClosesOccupiedTarget() {
	fd, err := t.table.Allocate(1, 0)
	AssertEq(nil, err)
	other, err := t.table.Allocate(2, 0)
	AssertEq(nil, err)

	var closedFd int
	closeCount := 0
	_, err = t.table.Dup2(fd, other, func(closedAt int, d *fdtable.Desc) {
		closedFd = closedAt
		closeCount++
	})
	AssertEq(nil, err)
	ExpectEq(other, closedFd)
	ExpectEq(1, closeCount)

	direct, directFd, err := t.table.Resolve(other)
	AssertEq(nil, err)
	ExpectEq(fd, directFd)
	ExpectEq(1, direct.NodeIndex)
}

func (t *FdtableTest) ResolveBadFdFails() {
	_, _, err := t.table.Resolve(999)
	ExpectEq(imfserr.ErrBadFd, err)

	_, _, err = t.table.Resolve(fdtable.FirstFreeFd)
	ExpectEq(imfserr.ErrBadFd, err)
}

func (t *FdtableTest) CopyFromPreservesAliases() {
	fd, err := t.table.Allocate(1, 0)
	AssertEq(nil, err)
	alias, err := t.table.Dup(fd)
	AssertEq(nil, err)

	dst := fdtable.NewTable()
	dst.CopyFrom(t.table)

	direct, directFd, err := dst.Resolve(alias)
	AssertEq(nil, err)
	ExpectEq(fd, directFd)
	ExpectEq(1, direct.NodeIndex)
}

func (t *FdtableTest) CheckInvariantsPassesFresh() {
	t.table.CheckInvariants()
}
