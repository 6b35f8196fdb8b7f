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

package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stupendoussuperpowers/imfs/internal/metrics"
)

func TestObserveOpCountsCallsAndErrors(t *testing.T) {
	r := metrics.NewRegistry()

	r.ObserveOp("open", nil)
	r.ObserveOp("open", errors.New("boom"))

	count, err := testutil.GatherAndCount(r.Registerer(), "imfs_operations_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	errCount, err := testutil.GatherAndCount(r.Registerer(), "imfs_operation_errors_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, errCount)
}

func TestSetOccupancyUpdatesGauges(t *testing.T) {
	r := metrics.NewRegistry()
	r.SetOccupancy(5, 2)

	count, err := testutil.GatherAndCount(r.Registerer(), "imfs_nodes_in_use")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSetDescriptorsInUseLabelsByCage(t *testing.T) {
	r := metrics.NewRegistry()
	r.SetDescriptorsInUse(0, 3)
	r.SetDescriptorsInUse(1, 7)

	count, err := testutil.GatherAndCount(r.Registerer(), "imfs_descriptors_in_use")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}
