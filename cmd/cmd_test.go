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

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestPreloadReportsLoadedSize(t *testing.T) {
	dir := t.TempDir()
	hostPath := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(hostPath, []byte("payload"), 0644))

	out, err := runRoot(t, "preload", hostPath, "/src.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "7 bytes")
}

func TestDumpRoundtrips(t *testing.T) {
	dir := t.TempDir()
	hostPath := filepath.Join(dir, "src.txt")
	dumpPath := filepath.Join(dir, "dumped.txt")
	require.NoError(t, os.WriteFile(hostPath, []byte("roundtrip"), 0644))

	_, err := runRoot(t, "dump", hostPath, "/src.txt", dumpPath)
	require.NoError(t, err)

	got, err := os.ReadFile(dumpPath)
	require.NoError(t, err)
	assert.Equal(t, "roundtrip", string(got))
}

func TestInspectTextFormat(t *testing.T) {
	dir := t.TempDir()
	hostPath := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(hostPath, []byte("x"), 0644))

	out, err := runRoot(t, "inspect", hostPath, "/src.txt", "--format=text")
	require.NoError(t, err)
	assert.Contains(t, out, "size:  1")
}

func TestLimitsReportsFixedCaps(t *testing.T) {
	out, err := runRoot(t, "limits")
	require.NoError(t, err)
	assert.Contains(t, out, "node slab capacity:       1024")
	assert.Contains(t, out, "descriptors per cage:     1024")
}
