package mongo

import (
	"context"
	"testing"
	"time"
)

func TestWithTimeout_UsesRequestedTimeout(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected a deadline")
	}
	if remaining := time.Until(deadline); remaining > 50*time.Millisecond {
		t.Errorf("deadline too far out: %s", remaining)
	}
}

func TestWithTimeout_KeepsSoonerParentDeadline(t *testing.T) {
	parent, cancelParent := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelParent()
	parentDeadline, _ := parent.Deadline()

	ctx, cancel := WithTimeout(parent, time.Hour)
	defer cancel()

	deadline, _ := ctx.Deadline()
	if !deadline.Equal(parentDeadline) {
		t.Errorf("expected parent deadline %v, got %v", parentDeadline, deadline)
	}
}

func TestWithTimeout_DetachedContextGetsFreshBound(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	cancelParent()

	ctx, cancel := WithTimeout(context.WithoutCancel(parent), time.Second)
	defer cancel()

	if err := ctx.Err(); err != nil {
		t.Errorf("detached context must not inherit cancellation: %v", err)
	}
}
