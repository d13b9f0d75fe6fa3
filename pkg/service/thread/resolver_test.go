package thread_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fabric-tools/dataagent/pkg/adapter/memory"
	"github.com/fabric-tools/dataagent/pkg/domain/model/agent"
	"github.com/fabric-tools/dataagent/pkg/service/thread"
	"github.com/m-mizutani/gt"
)

func TestEmptyNameAlwaysCreates(t *testing.T) {
	ctx := context.Background()
	api := memory.New()
	svc := thread.New(api)

	th1, created, err := svc.GetOrCreate(ctx, "")
	gt.NoError(t, err)
	gt.True(t, created)

	th2, created, err := svc.GetOrCreate(ctx, "")
	gt.NoError(t, err)
	gt.True(t, created)

	gt.NotEqual(t, th1.ID, th2.ID)
	gt.NotEqual(t, th1.Name, th2.Name)
}

func TestNamedThreadReused(t *testing.T) {
	ctx := context.Background()
	api := memory.New()
	svc := thread.New(api)

	th1, created, err := svc.GetOrCreate(ctx, "sales-review")
	gt.NoError(t, err)
	gt.True(t, created)
	gt.Value(t, th1.Name).Equal("sales-review")

	th2, created, err := svc.GetOrCreate(ctx, "sales-review")
	gt.NoError(t, err)
	gt.False(t, created)
	gt.Value(t, th2.ID).Equal(th1.ID)
}

func TestDistinctNamesGetDistinctThreads(t *testing.T) {
	ctx := context.Background()
	api := memory.New()
	svc := thread.New(api)

	th1, _, err := svc.GetOrCreate(ctx, "inventory")
	gt.NoError(t, err)

	th2, _, err := svc.GetOrCreate(ctx, "revenue")
	gt.NoError(t, err)

	gt.NotEqual(t, th1.ID, th2.ID)
}

func TestResolutionScansBeyondFirstPage(t *testing.T) {
	ctx := context.Background()
	api := memory.New()
	svc := thread.New(api)

	// Enough prior threads to force pagination during the scan.
	for i := 0; i < 60; i++ {
		th, err := api.CreateThread(ctx)
		gt.NoError(t, err)
		_, err = api.CreateMessage(ctx, th.ID, agent.RoleUser, "background question")
		gt.NoError(t, err)
	}

	th1, created, err := svc.GetOrCreate(ctx, "quarterly-report")
	gt.NoError(t, err)
	gt.True(t, created)

	th2, created, err := svc.GetOrCreate(ctx, "quarterly-report")
	gt.NoError(t, err)
	gt.False(t, created)
	gt.Value(t, th2.ID).Equal(th1.ID)
}

func TestLongNameComparedTruncated(t *testing.T) {
	ctx := context.Background()
	api := memory.New()
	svc := thread.New(api)

	long := strings.Repeat("q", 100)
	th1, _, err := svc.GetOrCreate(ctx, long)
	gt.NoError(t, err)
	gt.Value(t, len([]rune(th1.Name))).Equal(64)

	th2, created, err := svc.GetOrCreate(ctx, long)
	gt.NoError(t, err)
	gt.False(t, created)
	gt.Value(t, th2.ID).Equal(th1.ID)
}

func TestDeriveName(t *testing.T) {
	ctx := context.Background()
	api := memory.New()
	svc := thread.New(api)

	th, err := api.CreateThread(ctx)
	gt.NoError(t, err)
	_, err = api.CreateMessage(ctx, th.ID, agent.RoleUser, "  what tables exist?  ")
	gt.NoError(t, err)

	name, err := svc.DeriveName(ctx, th.ID)
	gt.NoError(t, err)
	gt.Value(t, name).Equal("what tables exist?")

	// A thread with no user message cannot be named.
	empty, err := api.CreateThread(ctx)
	gt.NoError(t, err)
	_, err = svc.DeriveName(ctx, empty.ID)
	gt.Error(t, err)
}
