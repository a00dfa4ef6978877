package cache

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestLRUCache_GetSetDelete(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}

	// "b" is now least recently used and gets evicted.
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("a should be gone after delete")
	}
}

func TestLRUCache_TTL(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("expired entry still served")
	}
	c.Set("x", "y")
	c.Set("z", "w")
	time.Sleep(20 * time.Millisecond)
	if n := c.CleanExpired(); n != 2 {
		t.Errorf("CleanExpired = %d, want 2", n)
	}
}

func TestDebouncer_LatestWriteWins(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var got atomic.Int64
	for i := int64(1); i <= 5; i++ {
		v := i
		d.Trigger(func() { got.Store(v) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(60 * time.Millisecond)
	if got.Load() != 5 {
		t.Errorf("fired value = %d, want 5 (only the last pending write survives)", got.Load())
	}
}

func TestDebouncer_Flush(t *testing.T) {
	d := NewDebouncer(time.Hour)
	defer d.Stop()

	var fired atomic.Bool
	d.Trigger(func() { fired.Store(true) })
	d.Flush()
	if !fired.Load() {
		t.Error("Flush did not run pending work")
	}

	// Flushing with nothing pending is a no-op.
	d.Flush()
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	var fired atomic.Bool
	d.Trigger(func() { fired.Store(true) })
	d.Stop()
	d.Stop() // idempotent

	time.Sleep(30 * time.Millisecond)
	if fired.Load() {
		t.Error("work fired after Stop")
	}
	d.Trigger(func() { fired.Store(true) })
	time.Sleep(30 * time.Millisecond)
	if fired.Load() {
		t.Error("trigger accepted after Stop")
	}
}
