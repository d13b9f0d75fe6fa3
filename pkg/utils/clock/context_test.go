package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/fabric-tools/dataagent/pkg/utils/clock"
	"github.com/m-mizutani/gt"
)

func TestNowUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	ctx := clock.With(context.Background(), func() time.Time { return fixed })

	gt.Value(t, clock.Now(ctx)).Equal(fixed)
	gt.Value(t, clock.Since(ctx, fixed.Add(-time.Minute))).Equal(time.Minute)
}

func TestNowFallsBackToWallClock(t *testing.T) {
	before := time.Now()
	got := clock.Now(context.Background())
	after := time.Now()

	gt.False(t, got.Before(before))
	gt.False(t, got.After(after))
}
