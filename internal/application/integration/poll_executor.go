package integration

import (
	"context"

	"github.com/stockroom/backend/internal/infrastructure/scheduler"
)

// FeedPollExecutor adapts the ingestion service to the poll scheduler's
// executor contract
type FeedPollExecutor struct {
	service *OrderIngestionService
}

// NewFeedPollExecutor creates a scheduler executor backed by the
// ingestion service
func NewFeedPollExecutor(service *OrderIngestionService) *FeedPollExecutor {
	return &FeedPollExecutor{service: service}
}

// Execute runs one ingestion pass over the job's window and records
// the counts on the job
func (e *FeedPollExecutor) Execute(ctx context.Context, job *scheduler.FeedPollJob) error {
	result, err := e.service.Run(ctx, job.Since, job.Until)
	if err != nil {
		return err
	}
	job.FailedOrderIDs = result.FailedOrderIDs
	job.Complete(result.Total, result.Ingested, result.Skipped, result.Failed)
	return nil
}

var _ scheduler.FeedPollExecutor = (*FeedPollExecutor)(nil)
