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

var preloadCmd = &cobra.Command{
	Use:   "preload <host-file> [imfs-path]",
	Short: "Load a single host file into a fresh in-process filesystem",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkConfig(); err != nil {
			return err
		}

		hostPath := args[0]
		imfsPath := hostPath
		if len(args) == 2 {
			imfsPath = args[1]
		}

		state := imfs.New()
		if err := hostio.LoadFile(state, 0, hostPath, imfsPath); err != nil {
			return fmt.Errorf("loading %s: %w", hostPath, err)
		}

		st, err := state.Stat(0, imfsPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %s -> %s (%d bytes)\n", hostPath, imfsPath, st.Size)
		return nil
	},
}
