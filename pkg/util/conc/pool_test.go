// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package conc

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"
)

func TestPool(t *testing.T) {
	pool := NewPool[int](4)
	defer pool.Release()

	futures := make([]*Future[int], 0, 16)
	for i := 0; i < 16; i++ {
		i := i
		futures = append(futures, pool.Submit(func() (int, error) {
			time.Sleep(time.Millisecond)
			return i * 2, nil
		}))
	}

	assert.NoError(t, AwaitAll(futures...))
	for i, f := range futures {
		assert.True(t, f.Done())
		assert.True(t, f.OK())
		assert.Equal(t, i*2, f.Value())
	}
	assert.Equal(t, 4, pool.Cap())
}

func TestPoolError(t *testing.T) {
	pool := NewPool[struct{}](2)
	defer pool.Release()

	errBoom := errors.New("boom")
	ok := pool.Submit(func() (struct{}, error) { return struct{}{}, nil })
	bad := pool.Submit(func() (struct{}, error) { return struct{}{}, errBoom })

	assert.ErrorIs(t, AwaitAll(ok, bad), errBoom)
	_, err := bad.Await()
	assert.ErrorIs(t, err, errBoom)
	<-bad.Inner()
}

func TestPoolPanicHandler(t *testing.T) {
	var got atomic.Value
	pool := NewPool[int](1, WithConcealPanic(true), WithPanicHandler(func(v any) { got.Store(v) }))
	defer pool.Release()

	f := pool.Submit(func() (int, error) { panic("bad task") })
	assert.ErrorContains(t, f.Err(), "bad task")
	assert.Eventually(t, func() bool { return got.Load() == "bad task" }, time.Second, time.Millisecond)

	// 池在 panic 之后仍可继续使用。
	v, err := pool.Submit(func() (int, error) { return 7, nil }).Await()
	assert.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestPoolPreAlloc(t *testing.T) {
	pool := NewPool[int](3, WithPreAlloc(true))
	defer pool.Release()

	futures := make([]*Future[int], 0, 9)
	for i := 0; i < 9; i++ {
		futures = append(futures, pool.Submit(func() (int, error) { return i, nil }))
	}
	assert.NoError(t, AwaitAll(futures...))
	assert.Equal(t, 3, pool.Cap())
	assert.Equal(t, 8, futures[8].Value())
}

func TestPoolReleased(t *testing.T) {
	pool := NewPool[int](1)
	pool.Release()

	f := pool.Submit(func() (int, error) { return 1, nil })
	assert.Error(t, f.Err())
	assert.Equal(t, 0, pool.Running())
}
