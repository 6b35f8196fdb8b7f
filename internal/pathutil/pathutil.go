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

// Package pathutil splits and compares the fixed-width path components IMFS
// operates on. It does no filesystem access of its own.
package pathutil

import (
	"strings"

	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
)

const (
	// MaxDepth is the largest number of components a path may split into.
	MaxDepth = 10

	// MaxNameLen is the largest component length, including the NUL
	// terminator a C implementation would carry.
	MaxNameLen = 64
)

// Split breaks path into up to MaxDepth components. A leading "/" is
// consumed; repeated "/" runs collapse to a single delimiter. Comparisons
// downstream are byte-exact: no Unicode normalization is performed.
func Split(path string) (components []string, err error) {
	if path == "" {
		return nil, imfserr.ErrInvalid
	}

	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return nil, nil
	}

	for _, part := range strings.Split(trimmed, "/") {
		if part == "" {
			continue
		}
		if len(part)+1 > MaxNameLen {
			return nil, imfserr.ErrNameTooLong
		}
		components = append(components, part)
		if len(components) > MaxDepth {
			return nil, imfserr.ErrNameTooLong
		}
	}

	return components, nil
}

// SplitParent splits path into the parent directory's components and the
// final (terminal) component name. It fails the same way Split does.
func SplitParent(path string) (parent []string, name string, err error) {
	components, err := Split(path)
	if err != nil {
		return nil, "", err
	}
	if len(components) == 0 {
		return nil, "", imfserr.ErrInvalid
	}

	parent = components[:len(components)-1]
	name = components[len(components)-1]
	return parent, name, nil
}

// Equal reports whether two component names are byte-exact equal.
func Equal(a, b string) bool {
	return a == b
}
