package rpc

import (
	"time"

	"github.com/rs/zerolog"
)

type (
	Options struct {
		requestTimeout time.Duration
		log            zerolog.Logger
	}

	Option func(*Options)
)

func defaultOptions() *Options {
	return &Options{
		requestTimeout: 30 * time.Second,
		log:            zerolog.Nop(),
	}
}

// WithRequestTimeout sets the timeout of a single request, zero disables the timeout.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Options) {
		c.requestTimeout = timeout
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Options) {
		c.log = log
	}
}
