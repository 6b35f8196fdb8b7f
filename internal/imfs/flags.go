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
	"io"

	"golang.org/x/sys/unix"
)

// Open flags, re-exported from golang.org/x/sys/unix so callers can use
// the real POSIX bit values the host supplies.
const (
	ORdonly   = unix.O_RDONLY
	OWronly   = unix.O_WRONLY
	ORdwr     = unix.O_RDWR
	OCreat    = unix.O_CREAT
	OExcl     = unix.O_EXCL
	ODirectory = unix.O_DIRECTORY
)

// lseek whence values.
const (
	SeekSet = io.SeekStart
	SeekCur = io.SeekCurrent
	SeekEnd = io.SeekEnd

	// SeekHole and SeekData are accepted syntactically but always fail
	// with ErrInvalid: the chunked storage model has no hole
	// representation to report (see design note Q3).
	SeekHole = 100
	SeekData = 101
)

// fcntl operations.
const (
	FGetFl = 3 // matches unix.F_GETFL
)
