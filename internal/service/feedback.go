package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veerspeaks/digitalsherpa-travelmate/internal/domain"
	"github.com/veerspeaks/digitalsherpa-travelmate/internal/repo"
)

// FeedbackService appends user feedback to a write-only log. It keeps no
// projection.
type FeedbackService struct {
	log     *repo.Collection[domain.Feedback]
	session Identity
	now     func() time.Time
}

// NewFeedbackService constructs a FeedbackService backed by the provided collection.
func NewFeedbackService(log *repo.Collection[domain.Feedback], session Identity) *FeedbackService {
	return &FeedbackService{log: log, session: session, now: func() time.Time { return time.Now().UTC() }}
}

// Submit records feedback from the signed-in user.
// Returns domain.ErrValidation when rating is outside 1..5 or message is blank.
func (s *FeedbackService) Submit(ctx context.Context, rating int, category, message string) (domain.Feedback, error) {
	u, err := requireUser(s.session)
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("service.FeedbackService.Submit: %w", err)
	}
	if rating < 1 || rating > 5 {
		return domain.Feedback{}, fmt.Errorf("service.FeedbackService.Submit: %w: rating must be between 1 and 5", domain.ErrValidation)
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.Feedback{}, fmt.Errorf("service.FeedbackService.Submit: %w: message is required", domain.ErrValidation)
	}

	fb := domain.Feedback{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Rating:    rating,
		Category:  category,
		Message:   message,
		CreatedAt: s.now(),
	}
	_, err = s.log.Mutate(ctx, func(entries []domain.Feedback) ([]domain.Feedback, error) {
		return append(entries, fb), nil
	})
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("service.FeedbackService.Submit: %w", err)
	}
	return fb, nil
}
