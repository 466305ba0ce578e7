package denseid

type options struct {
	logger       *Logger
	start        Index
	limit        Index
	capacityHint int
}

func defaultOptions() options {
	return options{
		logger: NoopLogger(),
		start:  0,
		limit:  Invalid,
	}
}

// Option configures Allocator/Counter construction.
//
// Options exist to avoid exploding the constructor surface; the zero
// configuration (start at 0, full uint32 id space, no logging) is the
// common case.
type Option func(*options)

// WithLogger configures the logger used for misuse and exhaustion
// diagnostics. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithStart configures the first id handed out. Ids count upwards from
// there. A sentinel start is clamped to zero.
func WithStart(start Index) Option {
	return func(o *options) {
		if start == Invalid {
			start = 0
		}
		o.start = start
	}
}

// WithLimit caps the id space: ids are drawn from [start, limit).
// The default limit is the full non-sentinel uint32 range.
//
// A small limit is also the practical way to exercise exhaustion handling
// in tests without minting four billion ids.
func WithLimit(limit Index) Option {
	return func(o *options) {
		o.limit = limit
	}
}

// WithCapacityHint pre-sizes internal bookkeeping (live bitset, free list)
// for the expected peak number of concurrently live ids.
func WithCapacityHint(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.capacityHint = n
	}
}
