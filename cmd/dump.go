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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stupendoussuperpowers/imfs/internal/hostio"
	"github.com/stupendoussuperpowers/imfs/internal/imfs"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <host-file> <imfs-path> <dump-host-path>",
	Short: "Load a host file into the filesystem, then immediately dump it back out, proving a roundtrip",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkConfig(); err != nil {
			return err
		}

		hostPath, imfsPath, dumpPath := args[0], args[1], args[2]

		state := imfs.New()
		if err := hostio.LoadFile(state, 0, hostPath, imfsPath); err != nil {
			return fmt.Errorf("loading %s: %w", hostPath, err)
		}
		if err := hostio.DumpFile(state, 0, imfsPath, dumpPath); err != nil {
			return fmt.Errorf("dumping %s: %w", imfsPath, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "dumped %s -> %s\n", imfsPath, dumpPath)
		return nil
	},
}
