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

package pipe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stupendoussuperpowers/imfs/internal/pipe"
)

func TestWriteThenRead(t *testing.T) {
	b := pipe.NewBuffer()

	n, err := b.Write([]byte("msg"))
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	buf := make([]byte, 4)
	n, err = b.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "msg", string(buf[:n]))
	assert.True(t, b.Drained())
}

func TestReadWaitsForWrite(t *testing.T) {
	b := pipe.NewBuffer()

	done := make(chan struct{})
	var n int
	buf := make([]byte, 8)

	go func() {
		var err error
		n, err = b.Read(buf)
		assert.NoError(t, err)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	b.Write([]byte("hello"))

	<-done
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf[:n]))
}

func TestReadReturnsEOFWhenWriterClosedAndEmpty(t *testing.T) {
	b := pipe.NewBuffer()
	b.WriterOpen = false

	buf := make([]byte, 4)
	n, err := b.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}
