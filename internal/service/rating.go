package service

import (
	"context"
	"fmt"

	"skillswap/internal/repository"
)

// RatingService maintains each user's running average star rating. It is the
// only writer of the rating/total_ratings pair, so the read-modify-write
// below is the single place a concurrent submission can lose an update
// (last-write-wins, accepted as the consistency floor).
type RatingService struct {
	userRepo repository.UserRepository
}

func NewRatingService(userRepo repository.UserRepository) *RatingService {
	return &RatingService{userRepo: userRepo}
}

// RecordRating folds one star value into the target's running average and
// returns the new average. Every call counts: resubmitted feedback for the
// same swap is counted again rather than replacing its earlier contribution.
func (s *RatingService) RecordRating(ctx context.Context, targetUserID int64, stars int) (float64, error) {
	user, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		return 0, fmt.Errorf("failed to load rating target: %w", err)
	}

	newTotal := user.TotalRatings + 1
	newRating := (user.Rating*float64(user.TotalRatings) + float64(stars)) / float64(newTotal)

	if err := s.userRepo.UpdateRating(ctx, targetUserID, newRating, newTotal); err != nil {
		return 0, fmt.Errorf("failed to store rating: %w", err)
	}

	return newRating, nil
}
