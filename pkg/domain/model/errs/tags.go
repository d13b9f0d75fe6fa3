package errs

import "github.com/m-mizutani/goerr/v2"

var (
	// TagConfiguration marks missing or invalid client configuration
	// (tenant ID, data agent URL). Fatal, surfaced immediately.
	TagConfiguration = goerr.NewTag("configuration")

	// TagAuthentication marks interactive sign-in or silent token
	// refresh failures. Retryable by re-invoking.
	TagAuthentication = goerr.NewTag("authentication")

	// TagTimeout marks a run that did not reach a terminal status within
	// the caller's timeout. The remote run keeps going.
	TagTimeout = goerr.NewTag("timeout")

	// TagRunFailed marks a run that ended in failed/cancelled/expired.
	// The thread remains usable for new questions.
	TagRunFailed = goerr.NewTag("run_failed")

	// TagParse marks tool-call argument text that could not be decoded.
	// Always non-fatal; recorded as a warning.
	TagParse = goerr.NewTag("parse")

	TagNotFound = goerr.NewTag("not_found")
	TagExternal = goerr.NewTag("external")
)
