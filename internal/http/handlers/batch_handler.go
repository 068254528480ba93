// Batch HTTP handlers.
//
// This file exposes REST endpoints for batch generation runs:
//   - POST /batches                    (submit, asynchronous, returns 202)
//   - GET  /batches/{batchId}/status   (poll run state)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-jokegen-backend/internal/domain"
	"github.com/tbourn/go-jokegen-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// BatchService defines batch lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type BatchService interface {
	// Submit registers a batch of the given size and starts it asynchronously.
	Submit(ctx context.Context, size int, prompts []string) (domain.Batch, error)
	// Status returns a snapshot of the batch with the given id.
	Status(ctx context.Context, id string) (domain.Batch, error)
}

// JokeService defines content-store operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type JokeService interface {
	// Create stores a joke, deduplicating on content; the bool reports
	// whether the record already existed.
	Create(ctx context.Context, setup, punchline, category, author string) (*domain.Joke, bool, error)
	// ListRecent returns up to count most-recent jokes, newest first.
	ListRecent(ctx context.Context, count int) ([]domain.Joke, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for batches and jokes. It depends on
// service interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	batchSvc BatchService
	jokeSvc  JokeService
}

// New constructs a Handlers instance bound to the given services.
func New(batchSvc BatchService, jokeSvc JokeService) *Handlers {
	return &Handlers{batchSvc: batchSvc, jokeSvc: jokeSvc}
}

//
// DTOs
//

// SubmitBatchRequest is the JSON payload for submitting a batch.
//
// BatchSize is a pointer so a missing field can be distinguished from zero;
// both are rejected, but with precise messages.
type SubmitBatchRequest struct {
	// BatchSize is the number of jokes to generate (1–1000).
	BatchSize *int `json:"batchSize" example:"25"`
	// Prompts optionally carries steering hints; recorded with the batch.
	Prompts []string `json:"prompts,omitempty" example:"animals,tech"`
}

// BatchResponse is the JSON projection of a batch run returned by both the
// submit and status endpoints.
type BatchResponse struct {
	BatchID     string             `json:"batchId" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	Status      domain.BatchStatus `json:"status" example:"in_progress"`
	Total       int                `json:"total" example:"25"`
	CreatedIDs  []int64            `json:"createdIds"`
	CreatedAt   time.Time          `json:"createdAt"`
	StartedAt   *time.Time         `json:"startedAt"`
	CompletedAt *time.Time         `json:"completedAt"`
	// Error is null unless the run failed or completed degraded.
	Error *string `json:"error"`
	// Degraded reports that some records fell back to ephemeral results.
	Degraded bool `json:"degraded"`
}

// newBatchResponse projects a domain.Batch into its wire shape.
func newBatchResponse(b domain.Batch) BatchResponse {
	resp := BatchResponse{
		BatchID:     b.ID,
		Status:      b.Status,
		Total:       b.Size,
		CreatedIDs:  b.CreatedIDs,
		CreatedAt:   b.CreatedAt,
		StartedAt:   b.StartedAt,
		CompletedAt: b.CompletedAt,
		Degraded:    b.Degraded,
	}
	if resp.CreatedIDs == nil {
		resp.CreatedIDs = []int64{}
	}
	if b.Error != "" {
		e := b.Error
		resp.Error = &e
	}
	return resp
}

//
// Handlers
//

// SubmitBatch godoc
// @ID          submitBatch
// @Summary     Submit a generation batch
// @Description Registers a batch of the requested size and starts it in the background. Returns 202 with a handle to poll.
// @Tags        Batches
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SubmitBatchRequest  true  "Submit batch payload"
//
// @Success     202  {object}  handlers.BatchResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /batches [post]
func (h *Handlers) SubmitBatch(c *gin.Context) {
	var req SubmitBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if req.BatchSize == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "batchSize is required")
		return
	}

	b, err := h.batchSvc.Submit(c.Request.Context(), *req.BatchSize, req.Prompts)
	if err != nil {
		if errors.Is(err, services.ErrInvalidBatchSize) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "batchSize must be between 1 and 1000")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeSubmitFailed, err.Error())
		return
	}
	accepted(c, newBatchResponse(b))
}

// BatchStatus godoc
// @ID          batchStatus
// @Summary     Poll a batch run
// @Description Returns the current state of a submitted batch, including created record ids once available.
// @Tags        Batches
// @Produce     json
//
// @Param       batchId  path  string  true  "Batch ID (UUID)"  format(uuid) example(141add05-4415-4938-b5a1-17e0d3171aff)
//
// @Success     200  {object}  handlers.BatchResponse
// @Failure     404  {object}  handlers.ErrorResponse  "Batch not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /batches/{batchId}/status [get]
func (h *Handlers) BatchStatus(c *gin.Context) {
	id := c.Param("batchId")

	b, err := h.batchSvc.Status(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrBatchNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "batch not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, newBatchResponse(b))
}
