// Joke HTTP handlers.
//
// This file exposes REST endpoints for the joke content store:
//   - GET  /jokes  (recent listing, ETag support)
//   - POST /jokes  (direct creation with dedup)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-jokegen-backend/internal/domain"
	"github.com/tbourn/go-jokegen-backend/internal/repo"
	"github.com/tbourn/go-jokegen-backend/internal/services"
)

//
// DTOs
//

// CreateJokeRequest is the JSON payload for inserting a joke directly.
type CreateJokeRequest struct {
	// Setup is the joke setup line (required).
	Setup string `json:"setup" binding:"required" example:"Why did the llama cross the road?"`
	// Punchline is the joke punchline (required).
	Punchline string `json:"punchline" binding:"required" example:"To prove it wasn't chicken."`
	// Category optionally buckets the joke; lowercased on insert.
	Category string `json:"category,omitempty" example:"animals"`
	// Author optionally credits a source.
	Author string `json:"author,omitempty" example:"anonymous"`
}

// CreateJokeResponse wraps the stored record plus a flag reporting whether
// identical content already existed (in which case the stored original is
// returned unchanged).
type CreateJokeResponse struct {
	domain.Joke
	Existing bool `json:"existing"`
}

// ListJokesResponse is the envelope for the recent-jokes listing. Jokes is
// always a JSON array, never null.
type ListJokesResponse struct {
	Jokes []domain.Joke `json:"jokes"`
}

//
// Helpers
//

// parseCount extracts the ?count query parameter. A missing parameter
// defaults to 1; a present but non-integer value is a client error, reported
// via the second return.
func parseCount(c *gin.Context) (int, bool) {
	raw := c.Query("count")
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

//
// Handlers
//

// ListJokes godoc
// @ID          listJokes
// @Summary     List recent jokes
// @Description Returns up to count most-recently-created jokes, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Jokes
// @Produce     json
//
// @Param       count          query   int     false "Number of jokes (1–1000)"     minimum(1) maximum(1000) default(1)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"   example(W/\"jokes:42:97\")
//
// @Success     200  {object} handlers.ListJokesResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /jokes [get]
func (h *Handlers) ListJokes(c *gin.Context) {
	ctx := c.Request.Context()

	count, valid := parseCount(c)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "count must be an integer")
		return
	}

	// ETag pre-check (best effort). The store is append-only, so row count
	// plus the highest id fully identify the visible state.
	var db *gorm.DB
	if svc, isConcrete := h.jokeSvc.(*services.JokeService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		total, maxID, err := repo.JokesStats(ctx, db)
		if err == nil {
			etag := fmt.Sprintf(`W/"jokes:%d:%d:%d"`, count, total, maxID)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	jokes, err := h.jokeSvc.ListRecent(ctx, count)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCount) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest,
				fmt.Sprintf("count must be between 1 and %d", services.MaxListCount))
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if jokes == nil {
		jokes = []domain.Joke{}
	}
	ok(c, http.StatusOK, ListJokesResponse{Jokes: jokes})
}

// CreateJoke godoc
// @ID          createJoke
// @Summary     Insert a joke
// @Description Stores a joke directly. Identical (setup, punchline) content collapses to the pre-existing record; the response flags that case.
// @Tags        Jokes
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.CreateJokeRequest  true  "Create joke payload"
//
// @Success     201  {object}  handlers.CreateJokeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /jokes [post]
func (h *Handlers) CreateJoke(c *gin.Context) {
	var req CreateJokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "setup and punchline are required")
		return
	}

	joke, existing, err := h.jokeSvc.Create(c.Request.Context(), req.Setup, req.Punchline, req.Category, req.Author)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyContent):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "setup and punchline must be non-empty")
		case errors.Is(err, services.ErrTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "setup or punchline exceeds the length limit")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, CreateJokeResponse{Joke: *joke, Existing: existing})
}
