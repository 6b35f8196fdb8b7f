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

// Package cfg holds the imfsctl configuration schema and its viper/pflag/
// mapstructure wiring.
package cfg

// Octal is an integer decoded from a string in base 8, for permission-bit
// flags and config fields (e.g. "0644").
type Octal int

// PathList is a colon-separated list of paths, decoded from a single
// string flag or config value the same way PATH is.
type PathList []string

// Config is the root of imfsctl's configuration, bound from flags, a YAML
// config file, and environment variables via viper.
type Config struct {
	Debug      DebugConfig      `yaml:"debug" mapstructure:"debug"`
	FileSystem FileSystemConfig `yaml:"file-system" mapstructure:"file-system"`
	Metrics    MetricsConfig    `yaml:"metrics" mapstructure:"metrics"`
}

// DebugConfig controls invariant-checking and logging verbosity.
type DebugConfig struct {
	ExitOnInvariantViolation bool `yaml:"exit-on-invariant-violation" mapstructure:"exit-on-invariant-violation"`
	LogMutex                 bool `yaml:"log-mutex" mapstructure:"log-mutex"`
}

// FileSystemConfig controls default file creation behavior.
type FileSystemConfig struct {
	FileMode    Octal    `yaml:"file-mode" mapstructure:"file-mode"`
	DirMode     Octal    `yaml:"dir-mode" mapstructure:"dir-mode"`
	PreloadPath PathList `yaml:"preload-path" mapstructure:"preload-path"`
}

// MetricsConfig controls the serve-metrics subcommand's HTTP listener and
// log rotation.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen-addr" mapstructure:"listen-addr"`
	LogPath    string `yaml:"log-path" mapstructure:"log-path"`
	LogMaxMB   int    `yaml:"log-max-mb" mapstructure:"log-max-mb"`
}
