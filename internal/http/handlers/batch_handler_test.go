package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-jokegen-backend/internal/domain"
	"github.com/tbourn/go-jokegen-backend/internal/services"
)

// ---------- service stubs ----------

type stubBatchSvc struct {
	submit func(context.Context, int, []string) (domain.Batch, error)
	status func(context.Context, string) (domain.Batch, error)
}

func (s stubBatchSvc) Submit(ctx context.Context, size int, prompts []string) (domain.Batch, error) {
	if s.submit != nil {
		return s.submit(ctx, size, prompts)
	}
	return domain.Batch{ID: "b-1", Size: size, Status: domain.BatchInProgress, CreatedIDs: []int64{}}, nil
}

func (s stubBatchSvc) Status(ctx context.Context, id string) (domain.Batch, error) {
	if s.status != nil {
		return s.status(ctx, id)
	}
	return domain.Batch{}, services.ErrBatchNotFound
}

type stubJokeSvc struct {
	create func(context.Context, string, string, string, string) (*domain.Joke, bool, error)
	list   func(context.Context, int) ([]domain.Joke, error)
}

func (s stubJokeSvc) Create(ctx context.Context, setup, punchline, category, author string) (*domain.Joke, bool, error) {
	if s.create != nil {
		return s.create(ctx, setup, punchline, category, author)
	}
	return &domain.Joke{ID: 1, Setup: setup, Punchline: punchline}, false, nil
}

func (s stubJokeSvc) ListRecent(ctx context.Context, count int) ([]domain.Joke, error) {
	if s.list != nil {
		return s.list(ctx, count)
	}
	return []domain.Joke{}, nil
}

// ---------- harness ----------

func newBatchRouter(batchSvc BatchService, jokeSvc JokeService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(batchSvc, jokeSvc)
	r := gin.New()
	r.POST("/batches", h.SubmitBatch)
	r.GET("/batches/:batchId/status", h.BatchStatus)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// ---------- SubmitBatch ----------

func TestSubmitBatch_Accepted(t *testing.T) {
	var gotSize int
	var gotPrompts []string
	r := newBatchRouter(stubBatchSvc{
		submit: func(_ context.Context, size int, prompts []string) (domain.Batch, error) {
			gotSize, gotPrompts = size, prompts
			return domain.Batch{
				ID:         "b-42",
				Size:       size,
				Prompts:    prompts,
				Status:     domain.BatchInProgress,
				CreatedIDs: []int64{},
				CreatedAt:  time.Now(),
			}, nil
		},
	}, stubJokeSvc{})

	w := postJSON(t, r, "/batches", `{"batchSize":25,"prompts":["animals"]}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body=%s)", w.Code, w.Body.String())
	}
	if gotSize != 25 || len(gotPrompts) != 1 {
		t.Fatalf("service got size=%d prompts=%v", gotSize, gotPrompts)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["batchId"] != "b-42" || resp["status"] != "in_progress" || resp["total"] != float64(25) {
		t.Fatalf("unexpected body: %v", resp)
	}
	ids, isSlice := resp["createdIds"].([]any)
	if !isSlice || len(ids) != 0 {
		t.Fatalf("createdIds must be an empty array at submit time: %v", resp["createdIds"])
	}
	if resp["error"] != nil {
		t.Fatalf("error must be null on submit: %v", resp["error"])
	}
}

func TestSubmitBatch_BadRequests(t *testing.T) {
	r := newBatchRouter(stubBatchSvc{
		submit: func(_ context.Context, size int, _ []string) (domain.Batch, error) {
			if size < 1 || size > 1000 {
				return domain.Batch{}, services.ErrInvalidBatchSize
			}
			return domain.Batch{ID: "b", Size: size, Status: domain.BatchInProgress}, nil
		},
	}, stubJokeSvc{})

	cases := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"not json", `not-json`},
		{"missing batchSize", `{"prompts":["x"]}`},
		{"non-integer batchSize", `{"batchSize":"ten"}`},
		{"fractional batchSize", `{"batchSize":2.5}`},
		{"zero", `{"batchSize":0}`},
		{"negative", `{"batchSize":-3}`},
		{"too large", `{"batchSize":1001}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, r, "/batches", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body=%s)", w.Code, w.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error envelope: %v", err)
			}
			if resp.Code != ErrCodeBadRequest {
				t.Fatalf("code = %q, want %q", resp.Code, ErrCodeBadRequest)
			}
		})
	}
}

// ---------- BatchStatus ----------

func TestBatchStatus_Found(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	completed := started.Add(2 * time.Second)
	r := newBatchRouter(stubBatchSvc{
		status: func(_ context.Context, id string) (domain.Batch, error) {
			if id != "b-7" {
				return domain.Batch{}, services.ErrBatchNotFound
			}
			return domain.Batch{
				ID:          "b-7",
				Size:        3,
				Status:      domain.BatchCompleted,
				CreatedIDs:  []int64{10, 11, 12},
				StartedAt:   &started,
				CompletedAt: &completed,
			}, nil
		},
	}, stubJokeSvc{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/batches/b-7/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (body=%s)", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["status"] != "completed" || resp["total"] != float64(3) {
		t.Fatalf("unexpected body: %v", resp)
	}
	if ids := resp["createdIds"].([]any); len(ids) != 3 {
		t.Fatalf("createdIds = %v", resp["createdIds"])
	}
	if resp["startedAt"] == nil || resp["completedAt"] == nil {
		t.Fatalf("timestamps missing: %v", resp)
	}
	if resp["degraded"] != false {
		t.Fatalf("degraded = %v, want false", resp["degraded"])
	}
}

func TestBatchStatus_DegradedCarriesError(t *testing.T) {
	r := newBatchRouter(stubBatchSvc{
		status: func(_ context.Context, id string) (domain.Batch, error) {
			return domain.Batch{
				ID:         id,
				Size:       2,
				Status:     domain.BatchCompleted,
				CreatedIDs: []int64{5, -1},
				Error:      "1/2 items stored ephemerally",
				Degraded:   true,
			}, nil
		},
	}, stubJokeSvc{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/batches/b-9/status", nil))

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["degraded"] != true || resp["error"] == nil {
		t.Fatalf("expected degraded body with error note: %v", resp)
	}
}

func TestBatchStatus_NotFound(t *testing.T) {
	r := newBatchRouter(stubBatchSvc{}, stubJokeSvc{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/batches/nope/status", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error envelope: %v", err)
	}
	if resp.Code != ErrCodeNotFound {
		t.Fatalf("code = %q, want %q", resp.Code, ErrCodeNotFound)
	}
}
