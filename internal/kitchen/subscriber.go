package kitchen

import (
	"context"
	"sync"
	"time"

	"github.com/yorkie01/restaurant-order-system/internal/events"
	"github.com/yorkie01/restaurant-order-system/pkg/logger"
)

const (
	initialResubscribeDelay = 1 * time.Second
	maxResubscribeDelay     = 30 * time.Second
)

// Supervisor keeps the board fed from the change stream. When the stream
// drops it resubscribes with exponential backoff, and while disconnected
// it degrades to periodic full reloads so the board keeps converging.
type Supervisor struct {
	subscriber   events.Subscriber
	board        *Board
	pollInterval time.Duration

	mu            sync.Mutex
	online        bool
	onStateChange func(online bool)
	onEvent       func(events.Event)
}

func NewSupervisor(subscriber events.Subscriber, board *Board, pollInterval time.Duration) *Supervisor {
	return &Supervisor{
		subscriber:   subscriber,
		board:        board,
		pollInterval: pollInterval,
	}
}

// SetStateChange registers the callback fired whenever the feed goes
// online or offline.
func (s *Supervisor) SetStateChange(fn func(online bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateChange = fn
}

// SetEventSink registers a callback invoked for every event after it has
// been merged into the board. Used to fan events out to the displays.
func (s *Supervisor) SetEventSink(fn func(events.Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEvent = fn
}

// Online reports whether the change stream is currently connected.
func (s *Supervisor) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// Run blocks until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) {
	delay := initialResubscribeDelay
	lastPoll := time.Time{}

	for {
		ch, cancel, err := s.subscriber.Subscribe(ctx)
		if err != nil {
			s.setOnline(false)
			logger.Warn("Order feed subscription failed, retrying", map[string]interface{}{
				"retry_in": delay.String(),
				"error":    err.Error(),
			})

			// The store may still be reachable even when the feed is not.
			if s.pollInterval > 0 && time.Since(lastPoll) >= s.pollInterval {
				lastPoll = time.Now()
				if reloadErr := s.board.Reload(); reloadErr != nil {
					logger.Warn("Fallback board reload failed", map[string]interface{}{
						"error": reloadErr.Error(),
					})
				}
			}

			if !sleepCtx(ctx, delay) {
				return
			}
			delay *= 2
			if delay > maxResubscribeDelay {
				delay = maxResubscribeDelay
			}
			continue
		}

		// Catch up on anything that happened while disconnected before
		// consuming live events.
		if err := s.board.Reload(); err != nil {
			logger.Warn("Board reload after resubscribe failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		s.setOnline(true)
		delay = initialResubscribeDelay
		logger.Info("Order feed connected", nil)

		s.consume(ctx, ch)
		cancel()

		if ctx.Err() != nil {
			s.setOnline(false)
			return
		}
		s.setOnline(false)
		logger.Warn("Order feed disconnected", nil)
	}
}

func (s *Supervisor) consume(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			s.board.ApplyEvent(event)

			s.mu.Lock()
			sink := s.onEvent
			s.mu.Unlock()
			if sink != nil {
				sink(event)
			}
		}
	}
}

func (s *Supervisor) setOnline(online bool) {
	s.mu.Lock()
	changed := s.online != online
	s.online = online
	fn := s.onStateChange
	s.mu.Unlock()

	if changed && fn != nil {
		fn(online)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
