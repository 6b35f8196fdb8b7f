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

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a fresh in-process filesystem and preload configured paths into it",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkConfig(); err != nil {
			return err
		}

		state := imfs.New()

		if len(Settings.FileSystem.PreloadPath) > 0 {
			if err := hostio.Preloads(state, 0, Settings.FileSystem.PreloadPath); err != nil {
				return fmt.Errorf("preloading: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "initialized: preloaded %d path(s)\n", len(Settings.FileSystem.PreloadPath))
		return nil
	},
}
