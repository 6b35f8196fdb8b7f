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
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/stupendoussuperpowers/imfs/internal/hostio"
	"github.com/stupendoussuperpowers/imfs/internal/imfs"
	"github.com/stupendoussuperpowers/imfs/internal/metrics"
	"gopkg.in/natefinch/lumberjack.v2"
)

var serveMetricsCmd = &cobra.Command{
	Use:   "serve-metrics",
	Short: "Preload configured paths into a filesystem and serve its Prometheus metrics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkConfig(); err != nil {
			return err
		}

		logger := log.New(os.Stderr, "imfsctl: ", log.LstdFlags)
		if Settings.Metrics.LogPath != "" {
			logger.SetOutput(&lumberjack.Logger{
				Filename: Settings.Metrics.LogPath,
				MaxSize:  Settings.Metrics.LogMaxMB,
				Compress: true,
			})
		}

		reg := metrics.NewRegistry()
		state := imfs.New(imfs.WithMetrics(reg), imfs.WithLogger(logger))

		if len(Settings.FileSystem.PreloadPath) > 0 {
			if err := hostio.Preloads(state, 0, Settings.FileSystem.PreloadPath); err != nil {
				return fmt.Errorf("preloading: %w", err)
			}
		}

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg.Registerer(), promhttp.HandlerOpts{}))

		logger.Printf("serving metrics on %s", Settings.Metrics.ListenAddr)
		return http.ListenAndServe(Settings.Metrics.ListenAddr, mux)
	},
}
