package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/service/auth"
	"github.com/fabric-tools/dataagent/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestNewBrowserRequiresTenantID(t *testing.T) {
	_, err := auth.NewBrowser("")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagConfiguration))
}

func TestTokenCachedUntilRefreshMargin(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	browser := gt.R1(auth.NewBrowser("tenant-1")).NoError(t)

	var acquired int
	browser.SetAcquireForTest(func(ctx context.Context) (azcore.AccessToken, error) {
		acquired++
		return azcore.AccessToken{
			Token:     "tok-v1",
			ExpiresOn: base.Add(time.Hour),
		}, nil
	})

	ctx := clock.With(context.Background(), func() time.Time { return base })
	token, err := browser.Token(ctx)
	gt.NoError(t, err)
	gt.Value(t, token).Equal("tok-v1")
	gt.Value(t, acquired).Equal(1)

	// Well before expiry: served from cache.
	ctx = clock.With(context.Background(), func() time.Time { return base.Add(30 * time.Minute) })
	token, err = browser.Token(ctx)
	gt.NoError(t, err)
	gt.Value(t, token).Equal("tok-v1")
	gt.Value(t, acquired).Equal(1)

	// Inside the refresh margin: silently re-acquired.
	ctx = clock.With(context.Background(), func() time.Time { return base.Add(57 * time.Minute) })
	_, err = browser.Token(ctx)
	gt.NoError(t, err)
	gt.Value(t, acquired).Equal(2)
}

func TestInvalidateForcesReacquire(t *testing.T) {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	browser := gt.R1(auth.NewBrowser("tenant-1")).NoError(t)

	var acquired int
	browser.SetAcquireForTest(func(ctx context.Context) (azcore.AccessToken, error) {
		acquired++
		return azcore.AccessToken{Token: "tok", ExpiresOn: base.Add(time.Hour)}, nil
	})

	ctx := clock.With(context.Background(), func() time.Time { return base })
	_, err := browser.Token(ctx)
	gt.NoError(t, err)

	browser.Invalidate()

	_, err = browser.Token(ctx)
	gt.NoError(t, err)
	gt.Value(t, acquired).Equal(2)
}

func TestAcquireFailureTaggedAuthentication(t *testing.T) {
	browser := gt.R1(auth.NewBrowser("tenant-1")).NoError(t)
	browser.SetAcquireForTest(func(ctx context.Context) (azcore.AccessToken, error) {
		return azcore.AccessToken{}, goerr.New("user cancelled sign-in")
	})

	_, err := browser.Token(context.Background())
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagAuthentication))
}

func TestStaticTokenSource(t *testing.T) {
	_, err := auth.NewStatic("")
	gt.Error(t, err)

	static := gt.R1(auth.NewStatic("fixed-token")).NoError(t)
	token, err := static.Token(context.Background())
	gt.NoError(t, err)
	gt.Value(t, token).Equal("fixed-token")

	// No-op, and the token keeps working.
	static.Invalidate()
	token, err = static.Token(context.Background())
	gt.NoError(t, err)
	gt.Value(t, token).Equal("fixed-token")
}
