package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	integrationapp "github.com/stockroom/backend/internal/application/integration"
	"github.com/stockroom/backend/internal/domain/integration"
	"github.com/stockroom/backend/internal/infrastructure/scheduler"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// SyncHandler handles shop feed synchronization API endpoints
type SyncHandler struct {
	BaseHandler
	trigger          *scheduler.FeedPollTrigger
	pollScheduler    *scheduler.FeedPollScheduler
	ingestionService *integrationapp.OrderIngestionService
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(
	trigger *scheduler.FeedPollTrigger,
	pollScheduler *scheduler.FeedPollScheduler,
	ingestionService *integrationapp.OrderIngestionService,
) *SyncHandler {
	return &SyncHandler{
		trigger:          trigger,
		pollScheduler:    pollScheduler,
		ingestionService: ingestionService,
	}
}

// TriggerPollRequest requests an immediate poll over an explicit window
type TriggerPollRequest struct {
	Since time.Time `json:"since" binding:"required"`
	Until time.Time `json:"until" binding:"required"`
}

// ResyncOrderRequest re-ingests one remote order by its external ID
type ResyncOrderRequest struct {
	ExternalOrderID string `json:"external_order_id" binding:"required,max=100"`
}

// PollJobResponse is the read model of one feed poll job
type PollJobResponse struct {
	ID             string     `json:"id"`
	AccountID      string     `json:"account_id"`
	Since          time.Time  `json:"since"`
	Until          time.Time  `json:"until"`
	Status         string     `json:"status"`
	Error          string     `json:"error,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	RetryCount     int        `json:"retry_count"`
	TotalOrders    int        `json:"total_orders"`
	IngestedCount  int        `json:"ingested_count"`
	SkippedCount   int        `json:"skipped_count"`
	FailedCount    int        `json:"failed_count"`
	FailedOrderIDs []string   `json:"failed_order_ids,omitempty"`
}

func toPollJobResponse(job *scheduler.FeedPollJob) PollJobResponse {
	return PollJobResponse{
		ID:             job.ID.String(),
		AccountID:      job.AccountID,
		Since:          job.Since,
		Until:          job.Until,
		Status:         string(job.Status),
		Error:          job.Error,
		StartedAt:      job.StartedAt,
		CompletedAt:    job.CompletedAt,
		RetryCount:     job.RetryCount,
		TotalOrders:    job.TotalOrders,
		IngestedCount:  job.IngestedCount,
		SkippedCount:   job.SkippedCount,
		FailedCount:    job.FailedCount,
		FailedOrderIDs: job.FailedOrderIDs,
	}
}

// TriggerPoll schedules an immediate poll over the requested window
func (h *SyncHandler) TriggerPoll(c *gin.Context) {
	var req TriggerPollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.trigger.TriggerManualPoll(req.Since, req.Until); err != nil {
		if errors.Is(err, scheduler.ErrPollInvalidTimeRange) {
			h.BadRequest(c, "Invalid poll time range")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"scheduled": true})
}

// ResyncOrder re-ingests one remote order outside the poll cycle
func (h *SyncHandler) ResyncOrder(c *gin.Context) {
	var req ResyncOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.ingestionService.IngestOrder(c.Request.Context(), req.ExternalOrderID); err != nil {
		if errors.Is(err, integration.ErrFeedOrderNotFound) {
			h.NotFound(c, "Remote order not found")
			return
		}
		if integration.IsTransientFeedError(err) {
			h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "Order feed temporarily unavailable")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"ingested": true})
}

// JobHistory returns recent feed poll jobs, newest first
func (h *SyncHandler) JobHistory(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	jobs := h.pollScheduler.GetJobHistory(limit)
	responses := make([]PollJobResponse, 0, len(jobs))
	for _, job := range jobs {
		responses = append(responses, toPollJobResponse(job))
	}

	h.Success(c, responses)
}

// RegisterRoutes registers all sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.POST("/poll", h.TriggerPoll)
		sync.POST("/orders", h.ResyncOrder)
		sync.GET("/jobs", h.JobHistory)
	}
}
