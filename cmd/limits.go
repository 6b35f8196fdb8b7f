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
	"github.com/stupendoussuperpowers/imfs/internal/fdtable"
	"github.com/stupendoussuperpowers/imfs/internal/imfs"
	"github.com/stupendoussuperpowers/imfs/internal/node"
	"golang.org/x/sys/unix"
)

var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Report IMFS's fixed internal caps alongside the host's RLIMIT_NOFILE",
	RunE: func(cmd *cobra.Command, args []string) error {
		var rlimit unix.Rlimit
		if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
			return fmt.Errorf("reading RLIMIT_NOFILE: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "node slab capacity:       %d\n", node.Capacity)
		fmt.Fprintf(out, "descriptors per cage:     %d\n", fdtable.Capacity)
		fmt.Fprintf(out, "max cages:                %d\n", imfs.MaxCages)
		fmt.Fprintf(out, "host RLIMIT_NOFILE soft:  %d\n", rlimit.Cur)
		fmt.Fprintf(out, "host RLIMIT_NOFILE hard:  %d\n", rlimit.Max)
		return nil
	},
}
