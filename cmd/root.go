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

// Package cmd implements imfsctl's cobra command tree: a host-process
// convenience wrapper around an in-process imfs.State for loading,
// dumping, inspecting, and serving metrics for an in-memory filesystem.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stupendoussuperpowers/imfs/cfg"
)

var (
	cfgFile       string
	bindErr       error
	configFileErr error

	// Settings is the decoded configuration populated by initConfig before
	// any subcommand runs.
	Settings cfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "imfsctl",
	Short: "Inspect and drive an in-memory POSIX-like filesystem from the host",
	Long: `imfsctl is a host-process harness around an in-process imfs.State:
it loads host files into the filesystem, dumps them back out, stats and
lists loaded paths, reports descriptor limits, and can serve a Prometheus
metrics endpoint (node and descriptor occupancy) over HTTP.`,
}

// Execute runs the root command, exiting the process with status 1 on
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(preloadCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(limitsCmd)
	rootCmd.AddCommand(serveMetricsCmd)
}

func initConfig() {
	if bindErr != nil {
		configFileErr = bindErr
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			configFileErr = fmt.Errorf("reading config file: %w", err)
			return
		}
	}

	settings, err := cfg.Decode(viper.GetViper())
	if err != nil {
		configFileErr = fmt.Errorf("decoding config: %w", err)
		return
	}
	Settings = settings
}

func checkConfig() error {
	return configFileErr
}
