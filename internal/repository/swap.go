package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"skillswap/internal/model"
)

const swapColumns = `id, requestor_id, recipient_id, skill_offered, skill_wanted, message,
	       status, req_rating, req_comment, recp_rating, recp_comment, created_at, updated_at`

// swapRepository implements SwapRepository using sqlx
type swapRepository struct {
	db *sqlx.DB
}

// NewSwapRepository creates a new swap repository
func NewSwapRepository(db *sqlx.DB) SwapRepository {
	return &swapRepository{db: db}
}

// Create inserts a new swap request with status pending
func (r *swapRepository) Create(ctx context.Context, s *model.Swap) error {
	query := `
		INSERT INTO swaps (requestor_id, recipient_id, skill_offered, skill_wanted, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, status, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		s.RequestorID,
		s.RecipientID,
		s.SkillOffered,
		s.SkillWanted,
		s.Message,
	).Scan(&s.ID, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert swap: %w", err)
	}

	s.SyncFeedback()
	return nil
}

// GetByID retrieves a swap by its ID
func (r *swapRepository) GetByID(ctx context.Context, id int64) (*model.Swap, error) {
	query := `SELECT ` + swapColumns + ` FROM swaps WHERE id = $1`

	var s model.Swap
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrSwapNotFound
		}
		return nil, fmt.Errorf("failed to get swap by id: %w", err)
	}

	s.SyncFeedback()
	return &s, nil
}

const partyJoin = `
		       rq.id AS "requestor.id", rq.name AS "requestor.name", rq.profile_photo AS "requestor.profile_photo",
		       rc.id AS "recipient.id", rc.name AS "recipient.name", rc.profile_photo AS "recipient.profile_photo"
		FROM swaps s
		JOIN users rq ON rq.id = s.requestor_id
		JOIN users rc ON rc.id = s.recipient_id`

// ListForUser returns swaps where userID is either party, newest first,
// with each party's public display fields attached.
func (r *swapRepository) ListForUser(ctx context.Context, userID int64) ([]model.SwapDetail, error) {
	query := `
		SELECT s.id, s.requestor_id, s.recipient_id, s.skill_offered, s.skill_wanted, s.message,
		       s.status, s.req_rating, s.req_comment, s.recp_rating, s.recp_comment,
		       s.created_at, s.updated_at,` + partyJoin + `
		WHERE s.requestor_id = $1 OR s.recipient_id = $1
		ORDER BY s.created_at DESC
	`

	var swaps []model.SwapDetail
	if err := r.db.SelectContext(ctx, &swaps, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list swaps: %w", err)
	}

	for i := range swaps {
		swaps[i].SyncFeedback()
	}
	return swaps, nil
}

// ListAll returns every swap with party name and email, newest first (admin view)
func (r *swapRepository) ListAll(ctx context.Context) ([]model.SwapDetail, error) {
	query := `
		SELECT s.id, s.requestor_id, s.recipient_id, s.skill_offered, s.skill_wanted, s.message,
		       s.status, s.req_rating, s.req_comment, s.recp_rating, s.recp_comment,
		       s.created_at, s.updated_at,
		       rq.email AS "requestor.email", rc.email AS "recipient.email",` + partyJoin + `
		ORDER BY s.created_at DESC
	`

	var swaps []model.SwapDetail
	if err := r.db.SelectContext(ctx, &swaps, query); err != nil {
		return nil, fmt.Errorf("failed to list all swaps: %w", err)
	}

	for i := range swaps {
		swaps[i].SyncFeedback()
	}
	return swaps, nil
}

// UpdateStatus persists the new lifecycle state and returns the updated swap
func (r *swapRepository) UpdateStatus(ctx context.Context, id int64, status model.SwapStatus) (*model.Swap, error) {
	query := `
		UPDATE swaps SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + swapColumns

	var s model.Swap
	err := r.db.GetContext(ctx, &s, query, id, status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrSwapNotFound
		}
		return nil, fmt.Errorf("failed to update swap status: %w", err)
	}

	s.SyncFeedback()
	return &s, nil
}

// SetFeedback writes the feedback slot for one role and returns the updated swap.
// Resubmission overwrites the slot.
func (r *swapRepository) SetFeedback(ctx context.Context, id int64, fromRequestor bool, fb model.Feedback) (*model.Swap, error) {
	var query string
	if fromRequestor {
		query = `UPDATE swaps SET req_rating = $2, req_comment = $3, updated_at = NOW()
			WHERE id = $1 RETURNING ` + swapColumns
	} else {
		query = `UPDATE swaps SET recp_rating = $2, recp_comment = $3, updated_at = NOW()
			WHERE id = $1 RETURNING ` + swapColumns
	}

	var s model.Swap
	err := r.db.GetContext(ctx, &s, query, id, fb.Rating, fb.Comment)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrSwapNotFound
		}
		return nil, fmt.Errorf("failed to set feedback: %w", err)
	}

	s.SyncFeedback()
	return &s, nil
}

// Delete removes a swap row
func (r *swapRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM swaps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete swap: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrSwapNotFound
	}

	return nil
}

func (r *swapRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM swaps`); err != nil {
		return 0, fmt.Errorf("failed to count swaps: %w", err)
	}
	return count, nil
}

// CountByStatus groups swap counts by lifecycle state
func (r *swapRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM swaps GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count swaps by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status counts: %w", err)
	}

	return counts, nil
}
