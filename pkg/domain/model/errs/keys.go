package errs

import (
	"time"

	"github.com/fabric-tools/dataagent/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

var (
	// IDs
	ThreadIDKey  = goerr.NewTypedKey[types.ThreadID]("thread_id")
	RunIDKey     = goerr.NewTypedKey[types.RunID]("run_id")
	MessageIDKey = goerr.NewTypedKey[types.MessageID]("message_id")

	// Values
	StatusKey     = goerr.NewTypedKey[string]("status")
	ThreadNameKey = goerr.NewTypedKey[string]("thread_name")
	QuestionKey   = goerr.NewTypedKey[string]("question")
	TimeoutKey    = goerr.NewTypedKey[time.Duration]("timeout")

	// External service
	EndpointKey   = goerr.NewTypedKey[string]("endpoint")
	HTTPStatusKey = goerr.NewTypedKey[int]("http_status")
	TenantIDKey   = goerr.NewTypedKey[string]("tenant_id")
	ScopeKey      = goerr.NewTypedKey[string]("scope")
)
