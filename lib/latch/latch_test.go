package latch

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenLatch(t *testing.T) {
	l := New(0)
	l.Wait()
	l.CountDown()
	assert.Zero(t, l.Remaining())
}

func TestRemaining(t *testing.T) {
	l := New(3)
	l.CountDown()
	assert.Equal(t, 2, l.Remaining())
	l.CountDown()
	l.CountDown()
	l.CountDown()
	assert.Zero(t, l.Remaining())
}

func TestWaitReleasesAllWaiters(t *testing.T) {
	const waiters = 4
	l := New(2)

	var released atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Wait()
			released.Add(1)
		}()
	}

	l.CountDown()
	time.Sleep(20 * time.Millisecond)
	require.Zero(t, released.Load(), "waiters must block while the count is positive")

	l.CountDown()
	wg.Wait()
	assert.Equal(t, int32(waiters), released.Load())
}
