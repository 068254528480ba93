// Package services – JokeService
//
// This file implements the application-level operations on the joke content
// store: direct creation (with dedup) and recent listing. It validates and
// normalizes inputs and leaves persistence atomicity to the repository's
// UNIQUE constraint.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-jokegen-backend/internal/domain"
	"github.com/tbourn/go-jokegen-backend/internal/repo"
)

// MaxListCount bounds GET /jokes?count=N requests.
const MaxListCount = 1000

// JokeService provides joke-level operations on the content store.
type JokeService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxContentRunes caps setup/punchline length by rune count; 0 disables.
	MaxContentRunes int
	// CategoryLocale drives category case folding.
	CategoryLocale language.Tag
}

// NewJokeService constructs a JokeService with sane content guards.
func NewJokeService(db *gorm.DB) *JokeService {
	return &JokeService{
		DB:              db,
		MaxContentRunes: 2000,
		CategoryLocale:  language.English,
	}
}

// Create inserts a joke, deduplicating on (setup, punchline) content. The
// returned bool reports whether the record already existed. Setup and
// punchline are trimmed; categories are case-folded so "Tech" and "tech"
// collapse to one bucket.
func (s *JokeService) Create(ctx context.Context, setup, punchline, category, author string) (*domain.Joke, bool, error) {
	tr := otel.Tracer("services/JokeService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	setup = strings.TrimSpace(setup)
	punchline = strings.TrimSpace(punchline)
	if setup == "" || punchline == "" {
		return nil, false, ErrEmptyContent
	}
	if s.MaxContentRunes > 0 &&
		(utf8.RuneCountInString(setup) > s.MaxContentRunes ||
			utf8.RuneCountInString(punchline) > s.MaxContentRunes) {
		return nil, false, ErrTooLong
	}

	category = s.normalizeCategory(category)
	author = strings.TrimSpace(author)

	joke, existing, err := repo.AddJoke(ctx, s.DB, setup, punchline, category, author)
	if err != nil {
		return nil, false, err
	}
	if existing {
		dedupHits.Inc()
	}
	span.SetAttributes(attribute.Bool("joke.existing", existing))
	return joke, existing, nil
}

// ListRecent returns up to count most-recently-created jokes, newest first.
// count must be in [1, MaxListCount]; violations return ErrInvalidCount.
// The result is never nil so it serializes as a JSON array.
func (s *JokeService) ListRecent(ctx context.Context, count int) ([]domain.Joke, error) {
	tr := otel.Tracer("services/JokeService")
	ctx, span := tr.Start(ctx, "ListRecent",
		trace.WithAttributes(attribute.Int("count", count)),
	)
	defer span.End()

	if count < 1 || count > MaxListCount {
		return nil, ErrInvalidCount
	}

	jokes, err := repo.ListJokes(ctx, s.DB, count)
	if err != nil {
		return nil, err
	}
	if jokes == nil {
		jokes = []domain.Joke{}
	}
	return jokes, nil
}

// normalizeCategory trims and lowercases the category using the configured
// locale's folding rules.
func (s *JokeService) normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ""
	}
	tag := s.CategoryLocale
	if tag == language.Und {
		tag = language.English
	}
	return cases.Lower(tag).String(category)
}
