package health_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/go-gcp-functions/internal/platform/health"
	"github.com/jsamuelsen11/go-gcp-functions/mocks"
)

// slowChecker blocks for delay and ignores its context.
type slowChecker struct {
	name  string
	delay time.Duration
}

func (s slowChecker) Name() string { return s.name }

func (s slowChecker) HealthCheck(context.Context) error {
	time.Sleep(s.delay)
	return nil
}

// gateChecker counts concurrent checks and waits for release.
type gateChecker struct {
	name    string
	active  *atomic.Int32
	peak    *atomic.Int32
	release <-chan struct{}
}

func (g gateChecker) Name() string { return g.name }

func (g gateChecker) HealthCheck(ctx context.Context) error {
	n := g.active.Add(1)
	defer g.active.Add(-1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestCheckAll_NoCheckers(t *testing.T) {
	t.Parallel()

	results := health.New().CheckAll(context.Background())
	if results == nil || len(results) != 0 {
		t.Errorf("CheckAll() = %v, want an empty non-nil map", results)
	}
}

func TestCheckAll_ReportsEachChecker(t *testing.T) {
	t.Parallel()

	refused := errors.New("dial tcp: connection refused")

	function := mocks.NewMockHealthChecker(t)
	function.EXPECT().Name().Return("dummies")
	function.EXPECT().HealthCheck(mock.Anything).Return(nil)

	peer := mocks.NewMockHealthChecker(t)
	peer.EXPECT().Name().Return("orders-function")
	peer.EXPECT().HealthCheck(mock.Anything).Return(refused)

	r := health.New()
	r.Register(function)
	r.Register(peer)

	results := r.CheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("CheckAll() returned %d results, want 2", len(results))
	}
	if err := results["dummies"]; err != nil {
		t.Errorf("dummies = %v, want nil", err)
	}
	if err := results["orders-function"]; !errors.Is(err, refused) {
		t.Errorf("orders-function = %v, want %v", err, refused)
	}
}

func TestCheckAll_ChecksRunConcurrently(t *testing.T) {
	t.Parallel()

	var active, peak atomic.Int32
	release := make(chan struct{})

	r := health.New(health.WithCheckTimeout(5 * time.Second))
	for _, name := range []string{"a", "b", "c"} {
		r.Register(gateChecker{name: name, active: &active, peak: &peak, release: release})
	}

	done := make(chan map[string]error, 1)
	go func() { done <- r.CheckAll(context.Background()) }()

	deadline := time.After(2 * time.Second)
	for peak.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("peak concurrent checks = %d, want 3", peak.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(release)

	for name, err := range <-done {
		if err != nil {
			t.Errorf("%s = %v, want nil", name, err)
		}
	}
}

func TestCheckAll_SlowCheckTimesOut(t *testing.T) {
	t.Parallel()

	fast := mocks.NewMockHealthChecker(t)
	fast.EXPECT().Name().Return("fast")
	fast.EXPECT().HealthCheck(mock.Anything).Return(nil)

	r := health.New(health.WithCheckTimeout(20 * time.Millisecond))
	r.Register(slowChecker{name: "stuck", delay: 500 * time.Millisecond})
	r.Register(fast)

	start := time.Now()
	results := r.CheckAll(context.Background())

	if elapsed := time.Since(start); elapsed > 400*time.Millisecond {
		t.Errorf("CheckAll() took %v, want it bounded by the check timeout", elapsed)
	}
	if err := results["stuck"]; !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("stuck = %v, want context.DeadlineExceeded", err)
	}
	if err := results["fast"]; err != nil {
		t.Errorf("fast = %v, want nil", err)
	}
}

func TestCheckAll_CallerCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	checker := mocks.NewMockHealthChecker(t)
	checker.EXPECT().Name().Return("dummies")
	checker.EXPECT().HealthCheck(mock.Anything).Return(context.Canceled).Maybe()

	r := health.New()
	r.Register(checker)

	if err := r.CheckAll(ctx)["dummies"]; !errors.Is(err, context.Canceled) {
		t.Errorf("dummies = %v, want context.Canceled", err)
	}
}

func TestCheckAll_LastRegisteredNameWins(t *testing.T) {
	t.Parallel()

	stale := errors.New("from the second registration")

	first := mocks.NewMockHealthChecker(t)
	first.EXPECT().Name().Return("dummies")
	first.EXPECT().HealthCheck(mock.Anything).Return(nil)

	second := mocks.NewMockHealthChecker(t)
	second.EXPECT().Name().Return("dummies")
	second.EXPECT().HealthCheck(mock.Anything).Return(stale)

	r := health.New()
	r.Register(first)
	r.Register(second)

	results := r.CheckAll(context.Background())
	if len(results) != 1 || !errors.Is(results["dummies"], stale) {
		t.Errorf("CheckAll() = %v, want only the second checker's result", results)
	}
}

func TestRegistry_ConcurrentRegisterAndCheck(t *testing.T) {
	t.Parallel()

	r := health.New()

	var wg sync.WaitGroup
	for i := range 40 {
		if i%2 == 0 {
			wg.Go(func() {
				r.Register(slowChecker{name: "peer"})
			})
			continue
		}
		wg.Go(func() {
			r.CheckAll(context.Background())
		})
	}
	wg.Wait()

	if _, ok := health.New().CheckAll(context.Background())["peer"]; ok {
		t.Error("a fresh registry reported a checker it never registered")
	}
	if _, ok := r.CheckAll(context.Background())["peer"]; !ok {
		t.Error("registered checker missing from results")
	}
}
