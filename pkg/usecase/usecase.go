// Package usecase orchestrates the question/run lifecycle against the
// remote data agent service.
package usecase

import (
	"time"

	"github.com/fabric-tools/dataagent/pkg/domain/interfaces"
	"github.com/fabric-tools/dataagent/pkg/service/thread"
)

const (
	defaultPollInterval = time.Second
	defaultTimeout      = 2 * time.Minute
)

type UseCases struct {
	api     interfaces.AgentAPI
	threads *thread.Service

	pollInterval   time.Duration
	defaultTimeout time.Duration
}

type Option func(*UseCases)

func WithAgentAPI(api interfaces.AgentAPI) Option {
	return func(u *UseCases) {
		u.api = api
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(u *UseCases) {
		if interval > 0 {
			u.pollInterval = interval
		}
	}
}

func WithDefaultTimeout(timeout time.Duration) Option {
	return func(u *UseCases) {
		if timeout > 0 {
			u.defaultTimeout = timeout
		}
	}
}

func New(opts ...Option) *UseCases {
	uc := &UseCases{
		pollInterval:   defaultPollInterval,
		defaultTimeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	if uc.api != nil {
		uc.threads = thread.New(uc.api)
	}
	return uc
}

// queryConfig is per-call configuration for Ask and friends.
type queryConfig struct {
	threadName      string
	timeout         time.Duration
	withSteps       bool
	tolerateFailure bool
}

type QueryOption func(*queryConfig)

// WithThreadName routes the question to the named thread, creating it
// on first use. Without it every question gets a fresh thread.
func WithThreadName(name string) QueryOption {
	return func(c *queryConfig) {
		c.threadName = name
	}
}

// WithTimeout overrides the default wait for the run to terminate.
func WithTimeout(timeout time.Duration) QueryOption {
	return func(c *queryConfig) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}
