package schema

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// LookupStats holds introspection statistics.
type LookupStats struct {
	// Lookups is the number of lookups forwarded to the wrapped introspector.
	Lookups atomic.Int64
	// TotalDuration is the total time spent in lookups.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowLookups is the count of lookups exceeding the slow threshold.
	SlowLookups atomic.Int64
	// Errors is the count of failed lookups.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *LookupStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		Lookups:       s.Lookups.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowLookups:   s.SlowLookups.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *LookupStats) Reset() {
	s.Lookups.Store(0)
	s.TotalDuration.Store(0)
	s.SlowLookups.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of lookup statistics.
type StatsSnapshot struct {
	Lookups       int64
	TotalDuration time.Duration
	SlowLookups   int64
	Errors        int64
}

// AvgDuration returns the average lookup duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	if s.Lookups == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(s.Lookups)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"lookups=%d duration=%s avg=%s slow=%d errors=%d",
		s.Lookups, s.TotalDuration, s.AvgDuration(), s.SlowLookups, s.Errors,
	)
}

// SlowLookupHook is called when a lookup exceeds the slow threshold.
type SlowLookupHook func(ctx context.Context, table string, duration time.Duration)

// Instrumented wraps an Introspector with statistics collection.
type Instrumented struct {
	in            Introspector
	stats         *LookupStats
	mu            sync.RWMutex
	slowThreshold time.Duration
	slowHook      SlowLookupHook
}

// InstrumentOption configures an Instrumented introspector.
type InstrumentOption func(*Instrumented)

// WithSlowThreshold sets the threshold for slow lookup detection.
// Default is 250ms.
func WithSlowThreshold(d time.Duration) InstrumentOption {
	return func(i *Instrumented) {
		i.slowThreshold = d
	}
}

// WithSlowLookupHook sets a callback for slow lookups.
func WithSlowLookupHook(hook SlowLookupHook) InstrumentOption {
	return func(i *Instrumented) {
		i.slowHook = hook
	}
}

// WithSlowLookupLog logs slow lookups to logger, or to the default logger
// if logger is nil.
func WithSlowLookupLog(logger *slog.Logger) InstrumentOption {
	if logger == nil {
		logger = slog.Default()
	}
	return WithSlowLookupHook(func(ctx context.Context, table string, d time.Duration) {
		logger.WarnContext(ctx, "slow index lookup", "table", table, "duration", d)
	})
}

// Instrument wraps in with statistics collection.
//
// Example:
//
//	in := schema.Instrument(schema.NewOracleInspector(drv, ""),
//	    schema.WithSlowThreshold(time.Second),
//	    schema.WithSlowLookupLog(nil),
//	)
//	fmt.Println(in.LookupStats().Stats())
func Instrument(in Introspector, opts ...InstrumentOption) *Instrumented {
	i := &Instrumented{
		in:            in,
		stats:         &LookupStats{},
		slowThreshold: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// LookupStats returns the underlying statistics.
func (i *Instrumented) LookupStats() *LookupStats {
	return i.stats
}

// SetSlowThreshold updates the slow lookup threshold.
func (i *Instrumented) SetSlowThreshold(d time.Duration) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.slowThreshold = d
}

// Indexes forwards the lookup and records statistics.
func (i *Instrumented) Indexes(ctx context.Context, table string) ([]*Index, error) {
	start := time.Now()
	indexes, err := i.in.Indexes(ctx, table)
	duration := time.Since(start)
	i.stats.Lookups.Add(1)
	i.stats.TotalDuration.Add(int64(duration))
	if err != nil {
		i.stats.Errors.Add(1)
	}
	i.mu.RLock()
	threshold, hook := i.slowThreshold, i.slowHook
	i.mu.RUnlock()
	if duration > threshold {
		i.stats.SlowLookups.Add(1)
		if hook != nil {
			hook(ctx, table, duration)
		}
	}
	return indexes, err
}

var _ Introspector = (*Instrumented)(nil)
