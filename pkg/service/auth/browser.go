// Package auth provides token sources for the data agent endpoint.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/fabric-tools/dataagent/pkg/domain/interfaces"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/fabric-tools/dataagent/pkg/utils/clock"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultScope is the OAuth scope requested for the data agent service.
const DefaultScope = "https://api.fabric.microsoft.com/.default"

// refreshMargin triggers a silent refresh shortly before expiry so an
// in-flight request never carries a token about to lapse.
const refreshMargin = 5 * time.Minute

// Browser acquires tokens through the interactive browser sign-in flow
// of the Azure Identity SDK. The first Token call opens a local browser
// window and blocks until sign-in completes; later calls are served
// from cache and refreshed silently.
type Browser struct {
	tenantID string
	clientID string
	scope    string

	mu      sync.Mutex
	token   azcore.AccessToken
	acquire func(ctx context.Context) (azcore.AccessToken, error)
}

var _ interfaces.TokenSource = &Browser{}

type BrowserOption func(*Browser)

func WithScope(scope string) BrowserOption {
	return func(x *Browser) {
		if scope != "" {
			x.scope = scope
		}
	}
}

func WithClientID(clientID string) BrowserOption {
	return func(x *Browser) {
		x.clientID = clientID
	}
}

// NewBrowser builds a browser token source. The credential is created
// lazily; constructing the source never touches the network.
func NewBrowser(tenantID string, opts ...BrowserOption) (*Browser, error) {
	if tenantID == "" {
		return nil, goerr.New("tenant ID is not set", goerr.T(errs.TagConfiguration))
	}

	browser := &Browser{
		tenantID: tenantID,
		scope:    DefaultScope,
	}
	for _, opt := range opts {
		opt(browser)
	}

	return browser, nil
}

func (x *Browser) Token(ctx context.Context) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.token.Token != "" && clock.Now(ctx).Before(x.token.ExpiresOn.Add(-refreshMargin)) {
		return x.token.Token, nil
	}

	if x.acquire == nil {
		cred, err := azidentity.NewInteractiveBrowserCredential(&azidentity.InteractiveBrowserCredentialOptions{
			TenantID: x.tenantID,
			ClientID: x.clientID,
		})
		if err != nil {
			return "", goerr.Wrap(err, "failed to create interactive browser credential",
				goerr.TV(errs.TenantIDKey, x.tenantID),
				goerr.T(errs.TagAuthentication))
		}
		x.acquire = func(ctx context.Context) (azcore.AccessToken, error) {
			return cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{x.scope}})
		}
	}

	token, err := x.acquire(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to acquire access token",
			goerr.TV(errs.TenantIDKey, x.tenantID),
			goerr.TV(errs.ScopeKey, x.scope),
			goerr.T(errs.TagAuthentication))
	}
	x.token = token

	return token.Token, nil
}

func (x *Browser) Invalidate() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.token = azcore.AccessToken{}
}
