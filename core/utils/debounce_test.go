package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalescesBurst(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var fired int32

	// 一串密集调度只触发最后一次
	for i := 0; i < 10; i++ {
		d.Schedule(func() { atomic.AddInt32(&fired, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestDebouncerLaterTaskReplacesEarlier(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var got int32

	d.Schedule(func() { atomic.StoreInt32(&got, 1) })
	d.Schedule(func() { atomic.StoreInt32(&got, 2) })

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(2), atomic.LoadInt32(&got), "新任务取代未触发的旧任务")
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var fired int32

	d.Schedule(func() { atomic.AddInt32(&fired, 1) })
	d.Stop()

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
}

func TestDebouncerFiresAgainAfterQuietPeriod(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var fired int32

	d.Schedule(func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(80 * time.Millisecond)
	d.Schedule(func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&fired))
}
