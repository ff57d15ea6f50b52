package services

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler re-runs the generator cycle on the configured interval. It is
// created stopped; Start launches the loop and Stop waits for the in-flight
// cycle, so no timer outlives the process lifecycle that owns it.
type Scheduler struct {
	gen      *GeneratorService
	interval func() time.Duration

	inFlight atomic.Bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewScheduler constructs a Scheduler. The interval is re-read from panel
// settings before every tick so changes apply without a restart.
func NewScheduler(gen *GeneratorService) *Scheduler {
	return &Scheduler{
		gen: gen,
		interval: func() time.Duration {
			settings, err := LoadPanelSettings(gen.db)
			if err != nil {
				return 30 * time.Second
			}
			return time.Duration(settings.Notification().GeneratorIntervalSeconds) * time.Second
		},
	}
}

// Start begins the cycle loop. The first cycle runs immediately. Calling Start
// on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.loop(ctx)
}

// Stop cancels the loop and blocks until the in-flight cycle finishes.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	s.tick(ctx)
	for {
		timer := time.NewTimer(s.interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.tick(ctx)
		}
	}
}

// RunNow triggers a cycle outside the schedule (the manual trigger endpoint).
// It reports false when a cycle is already in flight.
func (s *Scheduler) RunNow(ctx context.Context) bool {
	return s.tick(ctx)
}

// tick runs one cycle unless another is still in flight. The guard prevents a
// manual trigger and the timer loop from fetching against the same routers
// concurrently; a skipped tick is just logged.
func (s *Scheduler) tick(ctx context.Context) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		log.Println("Generator cycle still running, skipping tick")
		return false
	}
	defer s.inFlight.Store(false)

	summary := s.gen.Run(ctx)
	log.Printf("Generator cycle finished in %s: routers=%d pppoe=%+v dhcp=%+v network=%+v billed=%+v",
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond),
		summary.Routers, summary.PPPoE, summary.DHCP, summary.Network, summary.Billed)
	return true
}
