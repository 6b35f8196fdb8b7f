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

// Package imfs orchestrates the full POSIX-shaped entry point surface on
// top of the node slab, descriptor tables, chunked storage, pipes, and the
// path resolver. State is the single object an embedder constructs; all
// other packages in this module are internal collaborators it wires
// together.
package imfs

import (
	"log"
	"os"

	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"
	"github.com/stupendoussuperpowers/imfs/internal/fdtable"
	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
	"github.com/stupendoussuperpowers/imfs/internal/metrics"
	"github.com/stupendoussuperpowers/imfs/internal/node"
)

// MaxCages is the largest number of distinct cage ids State will track.
const MaxCages = 128

// AtFdCwd is the dirfd sentinel meaning "resolve relative to the cage's
// current working directory" rather than an open directory descriptor.
const AtFdCwd = -100

// State is the process-wide IMFS core: the node slab plus every cage's
// descriptor table, guarded by a single invariant-checked mutex as the
// spec's single-threaded cooperative model assumes one caller at a time.
type State struct {
	// mu guards every field below. It is an assertion tool, not a
	// concurrency primitive: IMFS is not internally synchronized for
	// concurrent callers (see the Concurrency & Resource Model design
	// note), and this mutex exists to catch invariant violations in
	// invariant-checked builds, the same role it plays in the lineage
	// this module is adapted from.
	mu syncutil.InvariantMutex

	clock   timeutil.Clock
	slab    *node.Slab
	cages   [MaxCages]*fdtable.Table
	cwd     [MaxCages]int
	logger  *log.Logger
	metrics *metrics.Registry
}

// Option configures a State at construction time.
type Option func(*State)

// WithClock overrides the default RealClock, primarily for deterministic
// tests.
func WithClock(c timeutil.Clock) Option {
	return func(s *State) { s.clock = c }
}

// WithLogger overrides the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(s *State) { s.logger = l }
}

// WithMetrics attaches a metrics registry; every entry point will record
// operation counts and error kinds against it. A nil registry (the
// default) disables instrumentation at zero cost.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *State) { s.metrics = r }
}

// New initializes a fresh State: zeros all tables, creates the root
// directory at node index 0 with "." and ".." installed, matching the
// spec's init() contract. It must be called exactly once before any other
// entry point is used on the returned State.
func New(opts ...Option) *State {
	s := &State{
		clock:  timeutil.RealClock(),
		logger: log.New(os.Stderr, "imfs: ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.slab = node.NewSlab(s.clock)
	s.mu = syncutil.NewInvariantMutex(s.checkInvariants)

	return s
}

// checkInvariants panics if any cross-cutting invariant is violated. Called
// by the InvariantMutex on every Lock/Unlock in invariant-checked builds.
func (s *State) checkInvariants() {
	s.slab.CheckInvariants()
	for _, t := range s.cages {
		if t != nil {
			t.CheckInvariants()
		}
	}
}

// table returns the descriptor table for cage, allocating it (and its cwd,
// defaulted to root) on first use. Fails with ErrInvalid if cage is out of
// range.
func (s *State) table(cage int) (*fdtable.Table, error) {
	if cage < 0 || cage >= MaxCages {
		return nil, imfserr.ErrInvalid
	}
	if s.cages[cage] == nil {
		s.cages[cage] = fdtable.NewTable()
		s.cwd[cage] = node.RootIndex
	}
	if s.metrics != nil {
		s.metrics.SetDescriptorsInUse(cage, s.cages[cage].Occupancy())
	}
	return s.cages[cage], nil
}

// record increments the op/error counters on s.metrics, if attached, and
// logs failures through the ambient logger.
func (s *State) record(op string, err error) {
	if err != nil {
		s.logf("%s: %v", op, err)
	}
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveOp(op, err)
	s.metrics.SetOccupancy(s.slab.Occupancy(), s.slab.FreeListDepth())
}

func (s *State) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func modeType(t node.Type) os.FileMode {
	switch t {
	case node.Directory:
		return os.ModeDir
	case node.Symlink:
		return os.ModeSymlink
	case node.NamedPipe:
		return os.ModeNamedPipe
	default:
		return 0
	}
}
