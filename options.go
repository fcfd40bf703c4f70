// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncrt

import "github.com/go-asyncrt/asyncrt/internal/selector"

// runtimeOptions holds configuration resolved from a RuntimeOption slice.
type runtimeOptions struct {
	workerCount  int
	logger       Logger
	newSelector  func() (selector.Selector, error)
	httpDialAddr string
}

// RuntimeOption configures a Runtime instance.
type RuntimeOption interface {
	applyRuntime(*runtimeOptions) error
}

type runtimeOptionFunc func(*runtimeOptions) error

func (f runtimeOptionFunc) applyRuntime(opts *runtimeOptions) error {
	return f(opts)
}

// WithWorkerCount sets the fixed size of the worker pool. The default
// is 4. n must be at least 1.
func WithWorkerCount(n int) RuntimeOption {
	return runtimeOptionFunc(func(opts *runtimeOptions) error {
		if n < 1 {
			return WrapError("WithWorkerCount", ErrInvalidOption)
		}
		opts.workerCount = n
		return nil
	})
}

// WithLogger overrides the structured logger used for runtime
// diagnostics. The default logs nothing.
func WithLogger(l Logger) RuntimeOption {
	return runtimeOptionFunc(func(opts *runtimeOptions) error {
		opts.logger = l
		return nil
	})
}

// withSelectorFactory overrides how the reactor thread constructs its
// Selector. Unexported: intended for this package's own tests, which
// need a deterministic fake rather than a real epoll/kqueue instance.
func withSelectorFactory(f func() (selector.Selector, error)) RuntimeOption {
	return runtimeOptionFunc(func(opts *runtimeOptions) error {
		opts.newSelector = f
		return nil
	})
}

// withHTTPDialAddr overrides the address HTTPGet dials, in place of the
// slowwly delay proxy's real address. Unexported: intended for this
// package's own tests, which stand up a local listener rather than
// depending on a reachable slowwly instance.
func withHTTPDialAddr(addr string) RuntimeOption {
	return runtimeOptionFunc(func(opts *runtimeOptions) error {
		opts.httpDialAddr = addr
		return nil
	})
}

// resolveRuntimeOptions applies opts over the default configuration.
func resolveRuntimeOptions(opts []RuntimeOption) (*runtimeOptions, error) {
	cfg := &runtimeOptions{
		workerCount:  4,
		logger:       noopLogger{},
		newSelector:  selector.New,
		httpDialAddr: slowwlyHost + ":80",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyRuntime(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
