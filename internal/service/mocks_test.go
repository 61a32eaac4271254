package service

import (
	"context"

	"skillswap/internal/model"
	"skillswap/internal/queue"
)

// The services depend on repository INTERFACES, so tests swap in mocks with
// per-test behavior instead of hitting a real database. Each fn field
// overrides one method; unset methods return the zero outcome.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn       func(ctx context.Context, email string) (*model.User, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	updateProfileFn    func(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error)
	updatePhotoFn      func(ctx context.Context, id int64, photoURL, photoKey string) (*model.User, error)
	searchBySkillFn    func(ctx context.Context, skill string, searchType model.SkillSearchType) ([]model.User, error)
	updateRatingFn     func(ctx context.Context, id int64, rating float64, totalRatings int) error
	setBannedFn        func(ctx context.Context, id int64, banned bool) error
	listAllFn          func(ctx context.Context) ([]model.User, error)
	countAllFn         func(ctx context.Context) (int, error)
	countBannedFn      func(ctx context.Context) (int, error)
	averageRatingFn    func(ctx context.Context) (float64, error)
	topOfferedSkillsFn func(ctx context.Context, limit int) ([]model.SkillCount, error)

	// Track calls for assertions
	createCalls       []*model.User
	updateRatingCalls []updateRatingCall
	setBannedCalls    []setBannedCall
}

type updateRatingCall struct {
	ID           int64
	Rating       float64
	TotalRatings int
}

type setBannedCall struct {
	ID     int64
	Banned bool
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) UpdateProfile(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, req)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) UpdatePhoto(ctx context.Context, id int64, photoURL, photoKey string) (*model.User, error) {
	if m.updatePhotoFn != nil {
		return m.updatePhotoFn(ctx, id, photoURL, photoKey)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) SearchBySkill(ctx context.Context, skill string, searchType model.SkillSearchType) ([]model.User, error) {
	if m.searchBySkillFn != nil {
		return m.searchBySkillFn(ctx, skill, searchType)
	}
	return nil, nil
}

func (m *mockUserRepository) UpdateRating(ctx context.Context, id int64, rating float64, totalRatings int) error {
	m.updateRatingCalls = append(m.updateRatingCalls, updateRatingCall{ID: id, Rating: rating, TotalRatings: totalRatings})
	if m.updateRatingFn != nil {
		return m.updateRatingFn(ctx, id, rating, totalRatings)
	}
	return nil
}

func (m *mockUserRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	m.setBannedCalls = append(m.setBannedCalls, setBannedCall{ID: id, Banned: banned})
	if m.setBannedFn != nil {
		return m.setBannedFn(ctx, id, banned)
	}
	return nil
}

func (m *mockUserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepository) CountAll(ctx context.Context) (int, error) {
	if m.countAllFn != nil {
		return m.countAllFn(ctx)
	}
	return 0, nil
}

func (m *mockUserRepository) CountBanned(ctx context.Context) (int, error) {
	if m.countBannedFn != nil {
		return m.countBannedFn(ctx)
	}
	return 0, nil
}

func (m *mockUserRepository) AverageRating(ctx context.Context) (float64, error) {
	if m.averageRatingFn != nil {
		return m.averageRatingFn(ctx)
	}
	return 0, nil
}

func (m *mockUserRepository) TopOfferedSkills(ctx context.Context, limit int) ([]model.SkillCount, error) {
	if m.topOfferedSkillsFn != nil {
		return m.topOfferedSkillsFn(ctx, limit)
	}
	return nil, nil
}

type mockSwapRepository struct {
	createFn        func(ctx context.Context, swap *model.Swap) error
	getByIDFn       func(ctx context.Context, id int64) (*model.Swap, error)
	listForUserFn   func(ctx context.Context, userID int64) ([]model.SwapDetail, error)
	listAllFn       func(ctx context.Context) ([]model.SwapDetail, error)
	updateStatusFn  func(ctx context.Context, id int64, status model.SwapStatus) (*model.Swap, error)
	setFeedbackFn   func(ctx context.Context, id int64, fromRequestor bool, fb model.Feedback) (*model.Swap, error)
	deleteFn        func(ctx context.Context, id int64) error
	countAllFn      func(ctx context.Context) (int, error)
	countByStatusFn func(ctx context.Context) (map[string]int, error)

	createCalls      []*model.Swap
	setFeedbackCalls []setFeedbackCall
	deleteCalls      []int64
}

type setFeedbackCall struct {
	ID            int64
	FromRequestor bool
	Feedback      model.Feedback
}

func (m *mockSwapRepository) Create(ctx context.Context, swap *model.Swap) error {
	m.createCalls = append(m.createCalls, swap)
	if m.createFn != nil {
		return m.createFn(ctx, swap)
	}
	return nil
}

func (m *mockSwapRepository) GetByID(ctx context.Context, id int64) (*model.Swap, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrSwapNotFound
}

func (m *mockSwapRepository) ListForUser(ctx context.Context, userID int64) ([]model.SwapDetail, error) {
	if m.listForUserFn != nil {
		return m.listForUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockSwapRepository) ListAll(ctx context.Context) ([]model.SwapDetail, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockSwapRepository) UpdateStatus(ctx context.Context, id int64, status model.SwapStatus) (*model.Swap, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return &model.Swap{ID: id, Status: status}, nil
}

func (m *mockSwapRepository) SetFeedback(ctx context.Context, id int64, fromRequestor bool, fb model.Feedback) (*model.Swap, error) {
	m.setFeedbackCalls = append(m.setFeedbackCalls, setFeedbackCall{ID: id, FromRequestor: fromRequestor, Feedback: fb})
	if m.setFeedbackFn != nil {
		return m.setFeedbackFn(ctx, id, fromRequestor, fb)
	}
	return &model.Swap{ID: id}, nil
}

func (m *mockSwapRepository) Delete(ctx context.Context, id int64) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockSwapRepository) CountAll(ctx context.Context) (int, error) {
	if m.countAllFn != nil {
		return m.countAllFn(ctx)
	}
	return 0, nil
}

func (m *mockSwapRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	if m.countByStatusFn != nil {
		return m.countByStatusFn(ctx)
	}
	return map[string]int{}, nil
}

// mockPublisher records published events so tests can assert on the stream.
type mockPublisher struct {
	events []queue.SwapEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.SwapEvent) (string, error) {
	m.events = append(m.events, event)
	return "1-0", nil
}
