package auth

import (
	"context"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// SetAcquireForTest replaces the credential acquisition function so
// tests can exercise the caching logic without a browser flow.
func (x *Browser) SetAcquireForTest(f func(ctx context.Context) (azcore.AccessToken, error)) {
	x.acquire = f
}
