package vec

import (
	"log/slog"

	"github.com/pavanmanishd/vec/alloc"
)

type options struct {
	allocator alloc.Allocator
	logger    *slog.Logger
}

// Option configures a Vec.
type Option func(*options)

// WithAllocator sets the allocator backing the vector. The default is
// alloc.Default, the garbage-collected heap.
func WithAllocator(a alloc.Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.allocator = a
		}
	}
}

// WithLogger sets the logger for allocation and growth events. The default
// discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		allocator: alloc.Default,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
