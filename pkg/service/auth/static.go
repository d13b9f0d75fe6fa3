package auth

import (
	"context"

	"github.com/fabric-tools/dataagent/pkg/domain/interfaces"
	"github.com/fabric-tools/dataagent/pkg/domain/model/errs"
	"github.com/m-mizutani/goerr/v2"
)

// Static serves a fixed pre-acquired token. Useful for tests and for
// callers that manage credentials themselves.
type Static struct {
	token string
}

var _ interfaces.TokenSource = &Static{}

func NewStatic(token string) (*Static, error) {
	if token == "" {
		return nil, goerr.New("static token is empty", goerr.T(errs.TagConfiguration))
	}
	return &Static{token: token}, nil
}

func (x *Static) Token(ctx context.Context) (string, error) {
	return x.token, nil
}

// Invalidate is a no-op; a static token cannot be refreshed.
func (x *Static) Invalidate() {}
