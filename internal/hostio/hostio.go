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

// Package hostio bridges the host's real filesystem and an imfs.State:
// loading a host file's bytes into an IMFS path, dumping an IMFS file's
// bytes back out to the host, and batch-preloading a list of host paths.
package hostio

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/stupendoussuperpowers/imfs/internal/imfs"
	"github.com/stupendoussuperpowers/imfs/internal/imfserr"
	"golang.org/x/sync/errgroup"
)

// dirMode is the permission bits used for intermediate directories created
// while loading a host file, matching the original source's load_file.
const dirMode = 0755

// LoadFile reads hostPath fully and writes it verbatim to imfsPath,
// creating any missing intermediate directories along the way.
func LoadFile(state *imfs.State, cage int, hostPath, imfsPath string) error {
	data, err := os.ReadFile(hostPath)
	if err != nil {
		return err
	}

	if err := mkdirAll(state, cage, imfsPath); err != nil {
		return err
	}

	fd, err := state.Open(cage, imfsPath, imfs.OCreat|imfs.OWronly, 0666)
	if err != nil {
		return err
	}
	defer state.Close(cage, fd)

	_, err = state.Write(cage, fd, data)
	return err
}

// mkdirAll creates every directory component of imfsPath's parent,
// tolerating components that already exist.
func mkdirAll(state *imfs.State, cage int, imfsPath string) error {
	dir := strings.TrimSuffix(filepath.Dir(imfsPath), "/")
	if dir == "" || dir == "." {
		return nil
	}

	parts := strings.Split(strings.TrimPrefix(dir, "/"), "/")
	cur := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		cur += "/" + part
		if err := state.Mkdir(cage, cur, dirMode); err != nil && err != imfserr.ErrExist {
			return err
		}
	}
	return nil
}

// DumpFile reads imfsPath fully and writes it to hostPath via a
// UUID-suffixed temp file in the same directory, renamed into place so
// concurrent dumps of the same path never observe a partial write.
func DumpFile(state *imfs.State, cage int, imfsPath, hostPath string) error {
	fd, err := state.Open(cage, imfsPath, imfs.ORdonly, 0)
	if err != nil {
		return err
	}
	defer state.Close(cage, fd)

	st, err := state.Fstat(cage, fd)
	if err != nil {
		return err
	}

	buf := make([]byte, st.Size)
	if _, err := state.Read(cage, fd, buf); err != nil {
		return err
	}

	tmpPath := hostPath + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmpPath, buf, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, hostPath)
}

// Preloads loads every path in hostPaths that exists and is a regular
// file into IMFS at the same path, skipping missing entries. Host-side
// reads are parallelized with an errgroup; each IMFS-side write is still
// one call at a time, serialized by the caller per the single-threaded
// cooperative model.
func Preloads(state *imfs.State, cage int, hostPaths []string) error {
	g, _ := errgroup.WithContext(context.Background())

	type loaded struct {
		path string
		data []byte
	}
	results := make([]loaded, len(hostPaths))

	for i, p := range hostPaths {
		i, p := i, p
		g.Go(func() error {
			info, err := os.Stat(p)
			if os.IsNotExist(err) {
				return nil
			}
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			results[i] = loaded{path: p, data: data}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		if r.data == nil {
			continue
		}
		if err := mkdirAll(state, cage, r.path); err != nil {
			return err
		}
		fd, err := state.Open(cage, r.path, imfs.OCreat|imfs.OWronly, 0666)
		if err != nil {
			return err
		}
		if _, err := state.Write(cage, fd, r.data); err != nil {
			state.Close(cage, fd)
			return err
		}
		if err := state.Close(cage, fd); err != nil {
			return err
		}
	}

	return nil
}
