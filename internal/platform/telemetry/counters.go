package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Counters records named operation counters and timings. Instruments are
// created on first use and cached by name. Safe for concurrent use.
type Counters struct {
	meter metric.Meter

	mu      sync.Mutex
	counts  map[string]metric.Int64Counter
	timings map[string]metric.Float64Histogram
}

// NewCounters creates a Counters backed by the given MeterProvider. A nil
// provider yields counters that record nothing.
func NewCounters(mp metric.MeterProvider) *Counters {
	if mp == nil {
		mp = noop.NewMeterProvider()
	}
	return &Counters{
		meter:   mp.Meter(instrumentationScope),
		counts:  make(map[string]metric.Int64Counter),
		timings: make(map[string]metric.Float64Histogram),
	}
}

// NoopCounters returns counters that record nothing.
func NoopCounters() *Counters {
	return NewCounters(nil)
}

// IncrementOne adds one to the counter with the given name.
func (c *Counters) IncrementOne(ctx context.Context, name string) {
	c.Increment(ctx, name, 1)
}

// Increment adds value to the counter with the given name.
func (c *Counters) Increment(ctx context.Context, name string, value int64) {
	c.counter(name).Add(ctx, value)
}

// BeginTiming starts a timing measurement for the given name. The returned
// handle records the elapsed milliseconds when EndTiming is called.
func (c *Counters) BeginTiming(name string) *CounterTiming {
	return &CounterTiming{counters: c, name: name, start: time.Now()}
}

func (c *Counters) counter(name string) metric.Int64Counter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ctr, ok := c.counts[name]; ok {
		return ctr
	}
	ctr, err := c.meter.Int64Counter(name, metric.WithUnit("{call}"))
	if err != nil {
		ctr = noop.Int64Counter{}
	}
	c.counts[name] = ctr
	return ctr
}

func (c *Counters) histogram(name string) metric.Float64Histogram {
	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.timings[name]; ok {
		return h
	}
	h, err := c.meter.Float64Histogram(name, metric.WithUnit("ms"))
	if err != nil {
		h = noop.Float64Histogram{}
	}
	c.timings[name] = h
	return h
}

// CounterTiming is an in-flight timing measurement.
type CounterTiming struct {
	counters *Counters
	name     string
	start    time.Time
	once     sync.Once
}

// EndTiming records the elapsed time. Calls after the first are no-ops.
func (t *CounterTiming) EndTiming(ctx context.Context) {
	t.once.Do(func() {
		elapsed := float64(time.Since(t.start).Microseconds()) / 1000
		t.counters.histogram(t.name).Record(ctx, elapsed)
	})
}
