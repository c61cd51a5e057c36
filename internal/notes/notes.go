// Package notes is the annotation subsystem layered on the profile store:
// input validation, URL linkification, and relative display timestamps.
package notes

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/COSYBANANA63/gitcards/internal/apperror"
	"github.com/COSYBANANA63/gitcards/internal/model"
)

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Storage is the subset of the profile store the service needs.
type Storage interface {
	AddNote(ctx context.Context, profileID int64, text string) (int64, error)
	ListNotes(ctx context.Context, profileID int64) ([]model.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

// View is a note prepared for rendering: the raw text, an HTML body with
// bare URLs converted to anchors, and a relative display time.
type View struct {
	ID          int64     `json:"id"`
	ProfileID   int64     `json:"profile_id"`
	Text        string    `json:"text"`
	HTML        string    `json:"html"`
	CreatedAt   time.Time `json:"created_at"`
	DisplayTime string    `json:"display_time"`
}

// Service orchestrates note operations over the store.
type Service struct {
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(storage Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Add trims and validates the note text before it reaches storage. Empty
// or whitespace-only submissions are rejected without a write.
func (s *Service) Add(ctx context.Context, profileID int64, text string) (int64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, apperror.Validation("please enter a message")
	}

	id, err := s.storage.AddNote(ctx, profileID, trimmed)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("Message saved", "profile_id", profileID, "message_id", id)
	return id, nil
}

// List returns the profile's notes newest-first, each prepared for
// rendering.
func (s *Service) List(ctx context.Context, profileID int64) ([]View, error) {
	rows, err := s.storage.ListNotes(ctx, profileID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]View, 0, len(rows))
	for _, n := range rows {
		views = append(views, View{
			ID:          n.ID,
			ProfileID:   n.ProfileID,
			Text:        n.Text,
			HTML:        Linkify(n.Text),
			CreatedAt:   n.CreatedAt,
			DisplayTime: RelativeTime(n.CreatedAt, now),
		})
	}
	return views, nil
}

// Delete removes one note.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.storage.DeleteNote(ctx, id)
}

// Linkify escapes text for HTML and converts bare http(s) URLs into
// anchors that open externally.
func Linkify(text string) string {
	var b strings.Builder
	last := 0
	for _, loc := range urlPattern.FindAllStringIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:loc[0]]))
		url := text[loc[0]:loc[1]]
		fmt.Fprintf(&b, `<a href="%s" target="_blank">%s</a>`, html.EscapeString(url), html.EscapeString(url))
		last = loc[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

// RelativeTime formats a timestamp relative to now: clock time inside a
// day, weekday name inside a week, calendar date beyond that.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("3:04 PM")
	case diff < 7*24*time.Hour:
		return t.Weekday().String()
	default:
		return t.Format("Jan 2, 2006")
	}
}
