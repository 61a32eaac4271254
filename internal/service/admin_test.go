package service

import (
	"context"
	"errors"
	"testing"

	"skillswap/internal/model"
	"skillswap/internal/queue"
)

func TestAdminService_BanUser(t *testing.T) {
	tests := []struct {
		name      string
		targetFn  func(ctx context.Context, id int64) (*model.User, error)
		wantErr   error
		wantCalls int
	}{
		{
			name: "bans a regular user",
			targetFn: func(ctx context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id}, nil
			},
			wantCalls: 1,
		},
		{
			name: "refuses to ban an admin",
			targetFn: func(ctx context.Context, id int64) (*model.User, error) {
				return &model.User{ID: id, IsAdmin: true}, nil
			},
			wantErr: model.ErrCannotBanAdmin,
		},
		{
			name: "target not found",
			targetFn: func(ctx context.Context, id int64) (*model.User, error) {
				return nil, model.ErrUserNotFound
			},
			wantErr: model.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := &mockUserRepository{getByIDFn: tt.targetFn}
			pub := &mockPublisher{}
			svc := NewAdminService(userRepo, &mockSwapRepository{}, nil, pub)

			err := svc.BanUser(context.Background(), 1, 7)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(userRepo.setBannedCalls) != 0 {
					t.Error("SetBanned should not be called")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(userRepo.setBannedCalls) != tt.wantCalls {
				t.Fatalf("SetBanned called %d times, want %d", len(userRepo.setBannedCalls), tt.wantCalls)
			}
			if !userRepo.setBannedCalls[0].Banned {
				t.Error("expected banned=true")
			}
			if len(pub.events) != 1 || pub.events[0].Type != queue.EventUserBanned {
				t.Errorf("expected one user_banned event, got %+v", pub.events)
			}
		})
	}
}

func TestAdminService_UnbanUser(t *testing.T) {
	userRepo := &mockUserRepository{
		getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, IsBanned: true}, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewAdminService(userRepo, &mockSwapRepository{}, nil, pub)

	if err := svc.UnbanUser(context.Background(), 1, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(userRepo.setBannedCalls) != 1 || userRepo.setBannedCalls[0].Banned {
		t.Errorf("expected one SetBanned(false) call, got %+v", userRepo.setBannedCalls)
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.EventUserUnbanned {
		t.Errorf("expected one user_unbanned event, got %+v", pub.events)
	}
}

func TestAdminService_Stats(t *testing.T) {
	userRepo := &mockUserRepository{
		countAllFn:    func(ctx context.Context) (int, error) { return 12, nil },
		countBannedFn: func(ctx context.Context) (int, error) { return 2, nil },
		averageRatingFn: func(ctx context.Context) (float64, error) {
			return 4.25, nil
		},
		topOfferedSkillsFn: func(ctx context.Context, limit int) ([]model.SkillCount, error) {
			if limit != TopSkillsLimit {
				t.Errorf("limit = %d, want %d", limit, TopSkillsLimit)
			}
			return []model.SkillCount{{Skill: "Go", Count: 5}}, nil
		},
	}
	swapRepo := &mockSwapRepository{
		countAllFn: func(ctx context.Context) (int, error) { return 30, nil },
		countByStatusFn: func(ctx context.Context) (map[string]int, error) {
			return map[string]int{"pending": 10, "accepted": 15, "rejected": 3, "cancelled": 2}, nil
		},
	}
	svc := NewAdminService(userRepo, swapRepo, nil, nil)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.Users.Total != 12 || stats.Users.Banned != 2 {
		t.Errorf("users = %+v", stats.Users)
	}
	if stats.Swaps.Total != 30 || stats.Swaps.ByStatus["accepted"] != 15 {
		t.Errorf("swaps = %+v", stats.Swaps)
	}
	if stats.Platform.AverageRating != 4.25 {
		t.Errorf("average_rating = %v, want 4.25", stats.Platform.AverageRating)
	}
	if len(stats.Platform.TopSkills) != 1 || stats.Platform.TopSkills[0].Skill != "Go" {
		t.Errorf("top_skills = %+v", stats.Platform.TopSkills)
	}
}

func TestAdminService_Stats_EmptyTopSkills(t *testing.T) {
	svc := NewAdminService(&mockUserRepository{}, &mockSwapRepository{}, nil, nil)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Platform.TopSkills == nil {
		t.Error("top_skills should be an empty slice, not nil")
	}
}

func TestAdminService_Broadcast(t *testing.T) {
	svc := NewAdminService(&mockUserRepository{}, &mockSwapRepository{}, nil, nil)

	t.Run("valid broadcast", func(t *testing.T) {
		resp, err := svc.Broadcast(context.Background(), 1, &model.BroadcastRequest{
			Title:   "Maintenance",
			Message: "Down at midnight",
			Type:    "warning",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.SentBy != 1 || resp.Title != "Maintenance" {
			t.Errorf("response = %+v", resp)
		}
		if resp.SentAt.IsZero() {
			t.Error("sent_at should be set")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Broadcast(context.Background(), 1, &model.BroadcastRequest{Title: "only title"})
		if !errors.Is(err, model.ErrMissingFields) {
			t.Errorf("error = %v, want %v", err, model.ErrMissingFields)
		}
	})
}
