package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// testClock is a settable time source so tests control every timestamp.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// baseTime is a Monday morning, so week-boundary tests can reason about it.
var baseTime = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

// newTestContext builds a DataContext over a MemoryStore, loaded and seeded
// with the bootstrap data set: users 1-3 (rates 65, 42, 55), projects 1-2,
// tasks 1-2 and two punch list items on project 1.
func newTestContext(t *testing.T) (*DataContext, *MemoryStore, *testClock) {
	t.Helper()

	store := NewMemoryStore()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	d := NewDataContext(store, logger)
	clock := &testClock{now: baseTime}
	d.SetClock(clock.Now)

	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return d, store, clock
}

// newTestContextWithBlobs additionally wires a MemoryBlobStore.
func newTestContextWithBlobs(t *testing.T) (*DataContext, *MemoryStore, *MemoryBlobStore, *testClock) {
	t.Helper()
	d, store, clock := newTestContext(t)
	blobs := NewMemoryBlobStore()
	d.SetBlobStore(blobs)
	return d, store, blobs, clock
}
