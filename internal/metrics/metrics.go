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

// Package metrics exposes a Prometheus registry tracking IMFS's internal
// occupancy and per-operation error rates.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles the gauges and counters a State reports against.
type Registry struct {
	reg *prometheus.Registry

	nodesInUse          prometheus.Gauge
	nodesFreeListDepth  prometheus.Gauge
	descriptorsInUse    *prometheus.GaugeVec
	operationsTotal     *prometheus.CounterVec
	operationErrorsTotal *prometheus.CounterVec

	lastNodesInUse int
}

// NewRegistry builds a Registry and registers its collectors against a
// fresh prometheus.Registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		nodesInUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imfs_nodes_in_use",
			Help: "Number of node slab slots currently occupied.",
		}),
		nodesFreeListDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imfs_nodes_free_list_depth",
			Help: "Number of reusable holes on the node slab's free list.",
		}),
		descriptorsInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "imfs_descriptors_in_use",
			Help: "Number of occupied descriptor table slots, by cage.",
		}, []string{"cage"}),
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imfs_operations_total",
			Help: "Count of entry point calls, by operation name.",
		}, []string{"op"}),
		operationErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "imfs_operation_errors_total",
			Help: "Count of entry point calls that returned an error, by operation and error kind.",
		}, []string{"op", "kind"}),
	}

	r.reg.MustRegister(
		r.nodesInUse,
		r.nodesFreeListDepth,
		r.descriptorsInUse,
		r.operationsTotal,
		r.operationErrorsTotal,
	)

	return r
}

// Registerer exposes the underlying registry so a caller can serve it over
// HTTP via promhttp.
func (r *Registry) Registerer() *prometheus.Registry {
	return r.reg
}

// ObserveOp records one call to op, bumping the error counter with err's
// kind when non-nil.
func (r *Registry) ObserveOp(op string, err error) {
	r.operationsTotal.WithLabelValues(op).Inc()
	if err != nil {
		r.operationErrorsTotal.WithLabelValues(op, errKind(err)).Inc()
	}
}

// SetOccupancy sets the node slab gauges.
func (r *Registry) SetOccupancy(inUse, freeListDepth int) {
	r.nodesInUse.Set(float64(inUse))
	r.nodesFreeListDepth.Set(float64(freeListDepth))
	r.lastNodesInUse = inUse
}

// NodesInUse returns the most recently observed node slab occupancy,
// letting callers (notably tests) assert on slab reclamation without
// scraping the Prometheus registry directly.
func (r *Registry) NodesInUse() int {
	return r.lastNodesInUse
}

// SetDescriptorsInUse sets the per-cage descriptor occupancy gauge.
func (r *Registry) SetDescriptorsInUse(cage, count int) {
	r.descriptorsInUse.WithLabelValues(strconv.Itoa(cage)).Set(float64(count))
}

// errKind stringifies err for use as a low-cardinality metric label,
// falling back to the error's own message for error types that don't
// implement a named kind.
func errKind(err error) string {
	type kinder interface{ Kind() string }
	if k, ok := err.(kinder); ok {
		return k.Kind()
	}
	return err.Error()
}
