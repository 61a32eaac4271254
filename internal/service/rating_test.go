package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"skillswap/internal/model"
)

func TestRatingService_RecordRating(t *testing.T) {
	tests := []struct {
		name          string
		currentRating float64
		currentTotal  int
		stars         int
		wantRating    float64
		wantTotal     int
	}{
		{"first rating", 0, 0, 4, 4.0, 1},
		{"second rating averages", 4.0, 1, 2, 3.0, 2},
		{"weighted by count", 4.0, 2, 2, 10.0 / 3.0, 3},
		{"five stars on long history", 3.5, 10, 5, 40.0 / 11.0, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
					return &model.User{ID: id, Rating: tt.currentRating, TotalRatings: tt.currentTotal}, nil
				},
			}
			svc := NewRatingService(userRepo)

			got, err := svc.RecordRating(context.Background(), 7, tt.stars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if math.Abs(got-tt.wantRating) > 1e-9 {
				t.Errorf("rating = %v, want %v", got, tt.wantRating)
			}

			if len(userRepo.updateRatingCalls) != 1 {
				t.Fatalf("UpdateRating called %d times, want 1", len(userRepo.updateRatingCalls))
			}
			call := userRepo.updateRatingCalls[0]
			if call.TotalRatings != tt.wantTotal {
				t.Errorf("total_ratings = %d, want %d", call.TotalRatings, tt.wantTotal)
			}
		})
	}
}

func TestRatingService_RecordRating_CountsEverySubmission(t *testing.T) {
	// Repeated submissions keep accumulating; the aggregate has no memory
	// of which swap a star came from.
	current := &model.User{ID: 7, Rating: 0, TotalRatings: 0}
	userRepo := &mockUserRepository{}
	userRepo.getByIDFn = func(ctx context.Context, id int64) (*model.User, error) {
		u := *current
		return &u, nil
	}
	userRepo.updateRatingFn = func(ctx context.Context, id int64, rating float64, totalRatings int) error {
		current.Rating = rating
		current.TotalRatings = totalRatings
		return nil
	}
	svc := NewRatingService(userRepo)

	for i := 0; i < 3; i++ {
		if _, err := svc.RecordRating(context.Background(), 7, 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if current.TotalRatings != 3 {
		t.Errorf("total_ratings = %d, want 3", current.TotalRatings)
	}
	if math.Abs(current.Rating-4.0) > 1e-9 {
		t.Errorf("rating = %v, want 4.0", current.Rating)
	}
}

func TestRatingService_RecordRating_TargetLookupFails(t *testing.T) {
	userRepo := &mockUserRepository{}
	svc := NewRatingService(userRepo)

	_, err := svc.RecordRating(context.Background(), 404, 5)
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrUserNotFound)
	}
	if len(userRepo.updateRatingCalls) != 0 {
		t.Error("UpdateRating should not be called when the target lookup fails")
	}
}
