package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"skillswap/internal/cache"
	"skillswap/internal/logx"
	"skillswap/internal/model"
	"skillswap/internal/queue"
	"skillswap/internal/repository"
)

// UserService handles registration, login, profiles and skill search.
type UserService struct {
	repo      repository.UserRepository
	respCache cache.ResponseCache
	publisher queue.Publisher
}

func NewUserService(repo repository.UserRepository, respCache cache.ResponseCache, publisher queue.Publisher) *UserService {
	return &UserService{
		repo:      repo,
		respCache: respCache,
		publisher: publisher,
	}
}

// Register creates a new account with an empty skill profile.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Password) == "" {
		return nil, model.ErrMissingFields
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHashed: string(hashedPassword),
		SkillsOffered:  []string{},
		SkillsWanted:   []string{},
		Availability:   model.DefaultAvailability,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates by email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Don't reveal whether the email exists
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// GetVisibleProfile applies the visibility rule: public profiles are readable
// by anyone, private profiles only by their owner.
func (s *UserService) GetVisibleProfile(ctx context.Context, userID int64, viewerID *int64) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsPublic && (viewerID == nil || *viewerID != userID) {
		return nil, model.ErrProfilePrivate
	}

	return user, nil
}

// UpdateProfile merges only the provided fields into the actor's profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.repo.UpdateProfile(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.NewProfileUpdatedEvent(userID))
	return user, nil
}

// SetPhoto stores a freshly uploaded photo location on the profile.
func (s *UserService) SetPhoto(ctx context.Context, userID int64, upload *model.UploadResult) (*model.User, error) {
	user, err := s.repo.UpdatePhoto(ctx, userID, upload.URL, upload.Key)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, queue.NewProfileUpdatedEvent(userID))
	return user, nil
}

// Search finds public, non-banned users whose skill lists contain the given
// substring. Results are served from the response cache when fresh.
func (s *UserService) Search(ctx context.Context, skill string, searchType model.SkillSearchType) ([]model.User, error) {
	switch searchType {
	case model.SearchOffered, model.SearchWanted:
	default:
		searchType = model.SearchBoth
	}

	if s.respCache != nil {
		var cached []model.User
		err := s.respCache.GetSearch(ctx, skill, string(searchType), &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			logx.Error(err, "search cache read failed")
		}
	}

	users, err := s.repo.SearchBySkill(ctx, skill, searchType)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}

	if s.respCache != nil {
		if err := s.respCache.SetSearch(ctx, skill, string(searchType), users); err != nil {
			logx.Error(err, "search cache write failed")
		}
	}

	return users, nil
}

func (s *UserService) publish(ctx context.Context, event queue.SwapEvent) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, queue.StreamSwaps, event); err != nil {
		logx.Error(err, "user event publish failed", "type", event.Type)
	}
}
