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

package pathutil_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
	"github.com/stupendoussuperpowers/imfs/internal/pathutil"
)

func TestSplitRoot(t *testing.T) {
	components, err := pathutil.Split("/")
	assert.NoError(t, err)
	assert.Nil(t, components)
}

func TestSplitSimple(t *testing.T) {
	components, err := pathutil.Split("/x/y/z")
	assert.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, components)
}

func TestSplitCollapsesRepeatedSlashes(t *testing.T) {
	components, err := pathutil.Split("/x//y///z")
	assert.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, components)
}

func TestSplitDotDot(t *testing.T) {
	components, err := pathutil.Split("/x/./y/../y")
	assert.NoError(t, err)
	assert.Equal(t, []string{"x", ".", "y", "..", "y"}, components)
}

func TestSplitTooDeep(t *testing.T) {
	var parts []string
	for i := 0; i < pathutil.MaxDepth+1; i++ {
		parts = append(parts, "a")
	}
	_, err := pathutil.Split("/" + strings.Join(parts, "/"))
	assert.ErrorIs(t, err, imfserr.ErrNameTooLong)
}

func TestSplitNameTooLong(t *testing.T) {
	long := strings.Repeat("a", pathutil.MaxNameLen)
	_, err := pathutil.Split("/" + long)
	assert.ErrorIs(t, err, imfserr.ErrNameTooLong)
}

func TestSplitEmpty(t *testing.T) {
	_, err := pathutil.Split("")
	assert.ErrorIs(t, err, imfserr.ErrInvalid)
}

func TestSplitParent(t *testing.T) {
	parent, name, err := pathutil.SplitParent("/x/y/z.txt")
	assert.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, parent)
	assert.Equal(t, "z.txt", name)
}

func TestSplitParentRoot(t *testing.T) {
	_, _, err := pathutil.SplitParent("/")
	assert.ErrorIs(t, err, imfserr.ErrInvalid)
}
