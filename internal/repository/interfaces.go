package repository

import (
	"context"

	"skillswap/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// UpdateProfile applies the provided fields only and returns the updated row.
	UpdateProfile(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error)
	UpdatePhoto(ctx context.Context, id int64, photoURL, photoKey string) (*model.User, error)
	// SearchBySkill matches a case-insensitive substring against the chosen
	// skill list(s); results are limited to public, non-banned users.
	SearchBySkill(ctx context.Context, skill string, searchType model.SkillSearchType) ([]model.User, error)
	// UpdateRating overwrites the aggregate rating fields.
	UpdateRating(ctx context.Context, id int64, rating float64, totalRatings int) error
	SetBanned(ctx context.Context, id int64, banned bool) error
	ListAll(ctx context.Context) ([]model.User, error)
	CountAll(ctx context.Context) (int, error)
	CountBanned(ctx context.Context) (int, error)
	AverageRating(ctx context.Context) (float64, error)
	TopOfferedSkills(ctx context.Context, limit int) ([]model.SkillCount, error)
}

type SwapRepository interface {
	Create(ctx context.Context, swap *model.Swap) error
	GetByID(ctx context.Context, id int64) (*model.Swap, error)
	// ListForUser returns swaps where userID is requestor or recipient,
	// newest first, with party display fields attached.
	ListForUser(ctx context.Context, userID int64) ([]model.SwapDetail, error)
	// ListAll returns every swap with party name and email, newest first.
	ListAll(ctx context.Context) ([]model.SwapDetail, error)
	UpdateStatus(ctx context.Context, id int64, status model.SwapStatus) (*model.Swap, error)
	// SetFeedback writes one role's feedback slot and returns the updated swap.
	SetFeedback(ctx context.Context, id int64, fromRequestor bool, fb model.Feedback) (*model.Swap, error)
	Delete(ctx context.Context, id int64) error
	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}
