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

package cfg

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// BindFlags registers imfsctl's persistent flags against flagSet and binds
// each to its viper config key.
func BindFlags(flagSet *pflag.FlagSet) error {
	flagSet.BoolP("debug-invariants", "", false, "Exit when internal invariants are violated.")
	if err := viper.BindPFlag("debug.exit-on-invariant-violation", flagSet.Lookup("debug-invariants")); err != nil {
		return err
	}

	flagSet.BoolP("debug-mutex", "", false, "Log when the invariant mutex is held across a reentrant call.")
	if err := viper.BindPFlag("debug.log-mutex", flagSet.Lookup("debug-mutex")); err != nil {
		return err
	}

	flagSet.StringP("file-mode", "", "0644", "Permission bits for newly created files, in octal.")
	if err := viper.BindPFlag("file-system.file-mode", flagSet.Lookup("file-mode")); err != nil {
		return err
	}

	flagSet.StringP("dir-mode", "", "0755", "Permission bits for newly created directories, in octal.")
	if err := viper.BindPFlag("file-system.dir-mode", flagSet.Lookup("dir-mode")); err != nil {
		return err
	}

	flagSet.StringP("preload-path", "", "", "Colon-separated host paths to preload at startup.")
	if err := viper.BindPFlag("file-system.preload-path", flagSet.Lookup("preload-path")); err != nil {
		return err
	}

	flagSet.StringP("metrics-listen-addr", "", ":9090", "Address serve-metrics listens on.")
	if err := viper.BindPFlag("metrics.listen-addr", flagSet.Lookup("metrics-listen-addr")); err != nil {
		return err
	}

	flagSet.StringP("metrics-log-path", "", "", "Path to rotate the serve-metrics diagnostic log into; empty disables rotation.")
	if err := viper.BindPFlag("metrics.log-path", flagSet.Lookup("metrics-log-path")); err != nil {
		return err
	}

	flagSet.IntP("metrics-log-max-mb", "", 100, "Maximum size in megabytes before a serve-metrics log is rotated.")
	if err := viper.BindPFlag("metrics.log-max-mb", flagSet.Lookup("metrics-log-max-mb")); err != nil {
		return err
	}

	return nil
}

// Decode populates a Config from viper's current settings, applying the
// package's decode hooks for Octal and PathList fields.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c, viper.DecodeHook(DecodeHook())); err != nil {
		return Config{}, err
	}
	return c, nil
}
