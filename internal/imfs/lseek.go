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

import "github.com/stupendoussuperpowers/imfs/internal/imfserr"

// Lseek repositions fd's offset. SEEK_HOLE and SEEK_DATA are not
// meaningful in the chunked storage model and fail with ErrInvalid rather
// than porting the original's unsafe pointer-arithmetic implementation
// (design note Q3).
func (s *State) Lseek(cage, fd int, offset int64, whence int) (newOffset int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.record("lseek", err) }()

	table, err := s.table(cage)
	if err != nil {
		return 0, err
	}
	direct, _, err := table.Resolve(fd)
	if err != nil {
		return 0, err
	}

	n := s.slab.Get(direct.NodeIndex)

	switch whence {
	case SeekSet:
		newOffset = offset
	case SeekCur:
		newOffset = direct.Offset + offset
	case SeekEnd:
		newOffset = n.Size() + offset
	case SeekHole, SeekData:
		return 0, imfserr.ErrInvalid
	default:
		return 0, imfserr.ErrInvalid
	}

	if newOffset < 0 {
		return 0, imfserr.ErrInvalid
	}

	direct.Offset = newOffset
	return newOffset, nil
}
