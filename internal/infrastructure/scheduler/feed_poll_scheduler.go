package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// Feed Poll Job Types
// ---------------------------------------------------------------------------

// FeedPollJobStatus represents the status of a feed poll job
type FeedPollJobStatus string

const (
	FeedPollJobStatusPending FeedPollJobStatus = "PENDING"
	FeedPollJobStatusRunning FeedPollJobStatus = "RUNNING"
	FeedPollJobStatusSuccess FeedPollJobStatus = "SUCCESS"
	FeedPollJobStatusPartial FeedPollJobStatus = "PARTIAL"
	FeedPollJobStatusFailed  FeedPollJobStatus = "FAILED"
)

// FeedPollJob represents one poll of the shop order feed
type FeedPollJob struct {
	ID          uuid.UUID
	AccountID   string
	Since       time.Time
	Until       time.Time
	Status      FeedPollJobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
	NextRetryAt *time.Time

	// Ingestion results
	TotalOrders    int
	IngestedCount  int
	SkippedCount   int
	FailedCount    int
	FailedOrderIDs []string
}

// NewFeedPollJob creates a new feed poll job
func NewFeedPollJob(accountID string, since, until time.Time, maxRetries int) *FeedPollJob {
	return &FeedPollJob{
		ID:         uuid.New(),
		AccountID:  accountID,
		Since:      since,
		Until:      until,
		Status:     FeedPollJobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *FeedPollJob) Start() {
	now := time.Now()
	j.Status = FeedPollJobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete records the ingestion counts and derives the final status
func (j *FeedPollJob) Complete(total, ingested, skipped, failed int) {
	now := time.Now()
	j.TotalOrders = total
	j.IngestedCount = ingested
	j.SkippedCount = skipped
	j.FailedCount = failed
	j.CompletedAt = &now

	if failed == 0 {
		j.Status = FeedPollJobStatusSuccess
	} else if ingested > 0 || skipped > 0 {
		j.Status = FeedPollJobStatusPartial
	} else {
		j.Status = FeedPollJobStatusFailed
	}
}

// Fail marks the job as failed
func (j *FeedPollJob) Fail(err string) {
	now := time.Now()
	j.Status = FeedPollJobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *FeedPollJob) ShouldRetry() bool {
	return j.Status == FeedPollJobStatusFailed && j.RetryCount < j.MaxRetries
}

// ScheduleRetry schedules the job for retry with exponential backoff
func (j *FeedPollJob) ScheduleRetry(baseDelay time.Duration) {
	j.RetryCount++
	j.Status = FeedPollJobStatusPending
	delay := baseDelay * time.Duration(1<<(j.RetryCount-1))
	if delay > 30*time.Minute {
		delay = 30 * time.Minute
	}
	nextRetry := time.Now().Add(delay)
	j.NextRetryAt = &nextRetry
	j.Error = ""
}

// ---------------------------------------------------------------------------
// FeedPollExecutor Interface
// ---------------------------------------------------------------------------

// FeedPollExecutor executes feed poll jobs
type FeedPollExecutor interface {
	// Execute pulls orders from the feed and ingests them
	Execute(ctx context.Context, job *FeedPollJob) error
}

// ---------------------------------------------------------------------------
// FeedPollSchedulerConfig
// ---------------------------------------------------------------------------

// FeedPollSchedulerConfig holds configuration for the feed poll scheduler
type FeedPollSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// MaxConcurrentJobs is the maximum number of concurrent poll jobs
	MaxConcurrentJobs int
	// JobTimeout is the maximum time a job can run
	JobTimeout time.Duration
	// RetryAttempts is the number of retry attempts for failed jobs
	RetryAttempts int
	// RetryDelay is the base delay between retries
	RetryDelay time.Duration
	// PollInterval is how often the feed is polled
	PollInterval time.Duration
	// LookbackWindow is the buffer added before the last poll so clock
	// skew cannot hide orders
	LookbackWindow time.Duration
}

// DefaultFeedPollSchedulerConfig returns default configuration
func DefaultFeedPollSchedulerConfig() FeedPollSchedulerConfig {
	return FeedPollSchedulerConfig{
		Enabled:           true,
		MaxConcurrentJobs: 2,
		JobTimeout:        5 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        30 * time.Second,
		PollInterval:      10 * time.Minute,
		LookbackWindow:    5 * time.Minute,
	}
}

// Validate validates the configuration
func (c *FeedPollSchedulerConfig) Validate() error {
	if c.MaxConcurrentJobs <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	if c.RetryAttempts < 0 {
		return ErrInvalidConfig
	}
	if c.PollInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.LookbackWindow < 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ---------------------------------------------------------------------------
// FeedPollScheduler
// ---------------------------------------------------------------------------

// FeedPollScheduler runs feed poll jobs on a worker pool and keeps a
// bounded in-memory history for the sync status endpoint
type FeedPollScheduler struct {
	config   FeedPollSchedulerConfig
	executor FeedPollExecutor
	logger   *zap.Logger

	jobs      chan *FeedPollJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	historyMu  sync.RWMutex
	history    []*FeedPollJob
	maxHistory int
}

// NewFeedPollScheduler creates a new feed poll scheduler
func NewFeedPollScheduler(config FeedPollSchedulerConfig, executor FeedPollExecutor, logger *zap.Logger) (*FeedPollScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &FeedPollScheduler{
		config:     config,
		executor:   executor,
		logger:     logger,
		jobs:       make(chan *FeedPollJob, 100),
		history:    make([]*FeedPollJob, 0, 100),
		maxHistory: 100,
	}, nil
}

// Start starts the scheduler
func (s *FeedPollScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Feed poll scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *FeedPollScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	close(s.jobs)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Feed poll scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Feed poll scheduler stop timed out")
		return ctx.Err()
	}
}

// SubmitJob submits a job for execution
func (s *FeedPollScheduler) SubmitJob(job *FeedPollJob) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	select {
	case s.jobs <- job:
		s.logger.Debug("Feed poll job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("account_id", job.AccountID),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

// SchedulePoll schedules a feed poll over a window
func (s *FeedPollScheduler) SchedulePoll(accountID string, since, until time.Time) error {
	if since.After(until) {
		return ErrPollInvalidTimeRange
	}
	job := NewFeedPollJob(accountID, since, until, s.config.RetryAttempts)
	return s.SubmitJob(job)
}

// worker processes jobs from the queue
func (s *FeedPollScheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	s.logger.Debug("Feed poll worker started", zap.Int("worker_id", workerID))

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Feed poll worker stopping", zap.Int("worker_id", workerID))
			return
		case job, ok := <-s.jobs:
			if !ok {
				s.logger.Debug("Feed poll job channel closed", zap.Int("worker_id", workerID))
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

// processJob executes a single job
func (s *FeedPollScheduler) processJob(ctx context.Context, job *FeedPollJob, workerID int) {
	if job.NextRetryAt != nil && time.Now().Before(*job.NextRetryAt) {
		select {
		case s.jobs <- job:
		default:
			s.logger.Warn("Failed to re-queue feed poll job for retry",
				zap.String("job_id", job.ID.String()),
			)
		}
		return
	}

	job.Start()
	s.logger.Info("Processing feed poll job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("account_id", job.AccountID),
		zap.Time("since", job.Since),
		zap.Time("until", job.Until),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	err := s.executor.Execute(jobCtx, job)
	if err != nil {
		job.Fail(err.Error())
		s.logger.Error("Feed poll job failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("account_id", job.AccountID),
			zap.Error(err),
		)

		if job.ShouldRetry() {
			job.ScheduleRetry(s.config.RetryDelay)
			s.logger.Info("Feed poll job scheduled for retry",
				zap.String("job_id", job.ID.String()),
				zap.Int("retry_count", job.RetryCount),
				zap.Int("max_retries", job.MaxRetries),
				zap.Time("next_retry_at", *job.NextRetryAt),
			)
			select {
			case s.jobs <- job:
			default:
				s.logger.Warn("Failed to re-queue feed poll job for retry",
					zap.String("job_id", job.ID.String()),
				)
			}
		}

		s.addToHistory(job)
		return
	}

	s.logger.Info("Feed poll job completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("account_id", job.AccountID),
		zap.String("status", string(job.Status)),
		zap.Int("total_orders", job.TotalOrders),
		zap.Int("ingested_count", job.IngestedCount),
		zap.Int("skipped_count", job.SkippedCount),
		zap.Int("failed_count", job.FailedCount),
	)

	s.addToHistory(job)
}

// addToHistory adds a completed job to history
func (s *FeedPollScheduler) addToHistory(job *FeedPollJob) {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	s.history = append([]*FeedPollJob{job}, s.history...)

	if len(s.history) > s.maxHistory {
		s.history = s.history[:s.maxHistory]
	}
}

// GetJobHistory returns recent job history, newest first
func (s *FeedPollScheduler) GetJobHistory(limit int) []*FeedPollJob {
	s.historyMu.RLock()
	defer s.historyMu.RUnlock()

	if limit <= 0 || limit > len(s.history) {
		limit = len(s.history)
	}

	result := make([]*FeedPollJob, limit)
	copy(result, s.history[:limit])
	return result
}
