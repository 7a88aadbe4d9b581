package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FeedPollTrigger fires a poll job once per PollInterval. The first
// poll after start uses LookbackWindow to cover downtime; later polls
// overlap the previous window by the same margin, relying on the
// dedup index to make re-seen orders harmless.
type FeedPollTrigger struct {
	config    FeedPollSchedulerConfig
	scheduler *FeedPollScheduler
	accountID string
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastPollMu sync.RWMutex
	lastPoll   time.Time
}

// NewFeedPollTrigger creates a new feed poll trigger
func NewFeedPollTrigger(config FeedPollSchedulerConfig, scheduler *FeedPollScheduler, accountID string, logger *zap.Logger) *FeedPollTrigger {
	return &FeedPollTrigger{
		config:    config,
		scheduler: scheduler,
		accountID: accountID,
		logger:    logger,
	}
}

// Start starts the trigger loop
func (t *FeedPollTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Feed poll trigger started",
		zap.Duration("poll_interval", t.config.PollInterval),
		zap.String("account_id", t.accountID),
	)

	return nil
}

// Stop stops the trigger loop
func (t *FeedPollTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Feed poll trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop schedules polls at the configured interval
func (t *FeedPollTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.PollInterval)
	defer ticker.Stop()

	// Poll immediately on start
	t.schedulePoll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.schedulePoll()
		}
	}
}

// schedulePoll computes the next poll window and submits the job
func (t *FeedPollTrigger) schedulePoll() {
	now := time.Now()

	t.lastPollMu.RLock()
	last := t.lastPoll
	t.lastPollMu.RUnlock()

	var since time.Time
	if last.IsZero() {
		// First poll after start: cover a full interval plus the buffer
		since = now.Add(-t.config.PollInterval - t.config.LookbackWindow)
	} else {
		since = last.Add(-t.config.LookbackWindow)
	}

	if err := t.scheduler.SchedulePoll(t.accountID, since, now); err != nil {
		t.logger.Error("Failed to schedule feed poll",
			zap.String("account_id", t.accountID),
			zap.Error(err),
		)
		return
	}

	t.lastPollMu.Lock()
	t.lastPoll = now
	t.lastPollMu.Unlock()
}

// TriggerManualPoll schedules an immediate poll over an explicit window
func (t *FeedPollTrigger) TriggerManualPoll(since, until time.Time) error {
	if since.After(until) {
		return ErrPollInvalidTimeRange
	}
	if until.Sub(since) > 7*24*time.Hour {
		return ErrPollInvalidTimeRange
	}

	t.logger.Info("Manual feed poll triggered",
		zap.String("account_id", t.accountID),
		zap.Time("since", since),
		zap.Time("until", until),
	)

	return t.scheduler.SchedulePoll(t.accountID, since, until)
}
