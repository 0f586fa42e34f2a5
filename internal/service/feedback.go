package service

import (
	"context"
	"errors"
	"strings"

	"brainrush/internal/model"
	"brainrush/internal/repository"
)

// Feedback errors.
var (
	ErrEmptyMessage = errors.New("Message cannot be empty")
	ErrForbidden    = errors.New("Access forbidden")
)

// defaultFeedbackLimit bounds feedback listings when no limit is given.
const defaultFeedbackLimit = 50

// FeedbackService handles feedback CRUD with owner-or-admin mutation rights.
type FeedbackService struct {
	fbRepo *repository.FeedbackRepository
}

// NewFeedbackService creates a new FeedbackService instance.
func NewFeedbackService(fbRepo *repository.FeedbackRepository) *FeedbackService {
	return &FeedbackService{fbRepo: fbRepo}
}

// Add creates a feedback entry authored by the given user.
func (s *FeedbackService) Add(ctx context.Context, user *model.User, message string) (*model.Feedback, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	return s.fbRepo.Create(ctx, &user.ID, user.Username, "", message)
}

// Get retrieves one feedback entry.
func (s *FeedbackService) Get(ctx context.Context, id int64) (*model.Feedback, error) {
	return s.fbRepo.GetByID(ctx, id)
}

// List retrieves feedback entries, newest first.
func (s *FeedbackService) List(ctx context.Context, limit int) ([]*model.Feedback, error) {
	if limit <= 0 {
		limit = defaultFeedbackLimit
	}
	return s.fbRepo.List(ctx, limit)
}

// Update replaces a feedback entry's message. Only the author or an admin
// may update; name and email are preserved.
func (s *FeedbackService) Update(ctx context.Context, actor *model.User, id int64, message string) error {
	fb, err := s.fbRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, fb) {
		return ErrForbidden
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}
	return s.fbRepo.Update(ctx, id, fb.Name, fb.Email, message)
}

// Delete removes a feedback entry. Only the author or an admin may delete.
func (s *FeedbackService) Delete(ctx context.Context, actor *model.User, id int64) error {
	fb, err := s.fbRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canModify(actor, fb) {
		return ErrForbidden
	}
	return s.fbRepo.Delete(ctx, id)
}

// canModify reports whether the actor owns the feedback or is an admin.
func canModify(actor *model.User, fb *model.Feedback) bool {
	if actor.IsAdmin() {
		return true
	}
	return fb.UserID != nil && *fb.UserID == actor.ID
}
