package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brainrush/internal/model"
)

// ErrFeedbackNotFound is returned when a feedback row does not exist.
var ErrFeedbackNotFound = errors.New("feedback not found")

// FeedbackRepository handles feedback persistence.
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository creates a new FeedbackRepository instance.
func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

func scanFeedback(row pgx.Row) (*model.Feedback, error) {
	var fb model.Feedback
	err := row.Scan(&fb.ID, &fb.UserID, &fb.Name, &fb.Email, &fb.Message, &fb.CreatedAt, &fb.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

// Create inserts a new feedback row.
func (r *FeedbackRepository) Create(ctx context.Context, userID *int64, name, email, message string) (*model.Feedback, error) {
	const query = `
		INSERT INTO feedback (user_id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, name, email, message, created_at, updated_at
	`

	fb, err := scanFeedback(r.pool.QueryRow(ctx, query, userID, name, email, message))
	if err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return fb, nil
}

// GetByID retrieves one feedback row.
// Returns ErrFeedbackNotFound if it does not exist.
func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*model.Feedback, error) {
	const query = `
		SELECT id, user_id, name, email, message, created_at, updated_at
		FROM feedback WHERE id = $1
	`

	fb, err := scanFeedback(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return fb, nil
}

// List retrieves feedback rows, newest first.
func (r *FeedbackRepository) List(ctx context.Context, limit int) ([]*model.Feedback, error) {
	const query = `
		SELECT id, user_id, name, email, message, created_at, updated_at
		FROM feedback
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var feedbacks []*model.Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedbacks = append(feedbacks, fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback: %w", err)
	}
	return feedbacks, nil
}

// Update replaces a feedback row's name, email and message and stamps
// updated_at.
func (r *FeedbackRepository) Update(ctx context.Context, id int64, name, email, message string) error {
	const query = `
		UPDATE feedback
		SET name = $2, email = $3, message = $4, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id, name, email, message)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}

// Delete removes a feedback row.
func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM feedback WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}
