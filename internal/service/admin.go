package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"skillswap/internal/cache"
	"skillswap/internal/logx"
	"skillswap/internal/model"
	"skillswap/internal/queue"
	"skillswap/internal/repository"
)

// TopSkillsLimit caps the most-offered-skills leaderboard.
const TopSkillsLimit = 10

// AdminService implements the moderation surface: user list, ban/unban,
// swap list, platform statistics and broadcast announcements.
type AdminService struct {
	userRepo  repository.UserRepository
	swapRepo  repository.SwapRepository
	respCache cache.ResponseCache
	publisher queue.Publisher
}

func NewAdminService(userRepo repository.UserRepository, swapRepo repository.SwapRepository, respCache cache.ResponseCache, publisher queue.Publisher) *AdminService {
	return &AdminService{
		userRepo:  userRepo,
		swapRepo:  swapRepo,
		respCache: respCache,
		publisher: publisher,
	}
}

// ListUsers returns every account, newest first.
func (s *AdminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.ListAll(ctx)
}

// BanUser flags an account as banned. Admin accounts cannot be banned.
func (s *AdminService) BanUser(ctx context.Context, actorID, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.IsAdmin {
		return model.ErrCannotBanAdmin
	}

	if err := s.userRepo.SetBanned(ctx, userID, true); err != nil {
		return err
	}

	s.publish(ctx, queue.NewUserBannedEvent(userID, actorID))
	return nil
}

// UnbanUser clears the banned flag.
func (s *AdminService) UnbanUser(ctx context.Context, actorID, userID int64) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.SetBanned(ctx, userID, false); err != nil {
		return err
	}

	s.publish(ctx, queue.NewUserUnbannedEvent(userID, actorID))
	return nil
}

// ListSwaps returns every swap with party name and email, newest first.
func (s *AdminService) ListSwaps(ctx context.Context) ([]model.SwapDetail, error) {
	return s.swapRepo.ListAll(ctx)
}

// Stats assembles the dashboard aggregate, served from the response cache
// when fresh. The worker invalidates the cached copy on swap and user events.
func (s *AdminService) Stats(ctx context.Context) (*model.AdminStats, error) {
	if s.respCache != nil {
		var cached model.AdminStats
		err := s.respCache.GetStats(ctx, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logx.Error(err, "stats cache read failed")
		}
	}

	totalUsers, err := s.userRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	bannedUsers, err := s.userRepo.CountBanned(ctx)
	if err != nil {
		return nil, err
	}
	totalSwaps, err := s.swapRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.swapRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	avgRating, err := s.userRepo.AverageRating(ctx)
	if err != nil {
		return nil, err
	}
	topSkills, err := s.userRepo.TopOfferedSkills(ctx, TopSkillsLimit)
	if err != nil {
		return nil, err
	}
	if topSkills == nil {
		topSkills = []model.SkillCount{}
	}

	stats := &model.AdminStats{
		Users: model.UserStats{Total: totalUsers, Banned: bannedUsers},
		Swaps: model.SwapStats{Total: totalSwaps, ByStatus: byStatus},
		Platform: model.PlatformStats{
			AverageRating: avgRating,
			TopSkills:     topSkills,
		},
	}

	if s.respCache != nil {
		if err := s.respCache.SetStats(ctx, stats); err != nil {
			logx.Error(err, "stats cache write failed")
		}
	}

	return stats, nil
}

// Broadcast validates and acknowledges a platform-wide announcement.
// Delivery to clients is out of scope; the payload is echoed back.
func (s *AdminService) Broadcast(ctx context.Context, actorID int64, req *model.BroadcastRequest) (*model.BroadcastResponse, error) {
	if strings.TrimSpace(req.Title) == "" ||
		strings.TrimSpace(req.Message) == "" ||
		strings.TrimSpace(req.Type) == "" {
		return nil, model.ErrMissingFields
	}

	return &model.BroadcastResponse{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		SentAt:  time.Now(),
		SentBy:  actorID,
	}, nil
}

func (s *AdminService) publish(ctx context.Context, event queue.SwapEvent) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamSwaps, event); err != nil {
		logx.Error(err, "admin event publish failed", "type", event.Type)
	}
}
