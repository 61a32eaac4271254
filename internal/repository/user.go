package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"skillswap/internal/model"
)

const userColumns = `id, name, email, password_hashed, location, profile_photo, photo_key,
	       skills_offered, skills_wanted, availability, is_public, rating, total_ratings,
	       is_admin, is_banned, created_at, updated_at`

// userRepository implements UserRepository using sqlx
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user into the database
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (name, email, password_hashed, skills_offered, skills_wanted, availability)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_public, rating, total_ratings, is_admin, is_banned, created_at, updated_at
	`

	row := r.db.QueryRowxContext(ctx, query,
		u.Name,
		u.Email,
		u.PasswordHashed,
		u.SkillsOffered,
		u.SkillsWanted,
		u.Availability,
	)

	err := row.Scan(
		&u.ID,
		&u.IsPublic,
		&u.Rating,
		&u.TotalRatings,
		&u.IsAdmin,
		&u.IsBanned,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u model.User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// ExistsByEmail checks if an email is already registered
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// UpdateProfile merges only the provided fields into the stored row.
// COALESCE keeps the old value when the argument is NULL, so a nil pointer
// means "unchanged" while an explicit empty value clears the field.
func (r *userRepository) UpdateProfile(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error) {
	query := `
		UPDATE users
		SET name           = COALESCE($2, name),
		    location       = COALESCE($3, location),
		    profile_photo  = COALESCE($4, profile_photo),
		    skills_offered = COALESCE($5, skills_offered),
		    skills_wanted  = COALESCE($6, skills_wanted),
		    availability   = COALESCE($7, availability),
		    is_public      = COALESCE($8, is_public),
		    updated_at     = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var offered, wanted interface{}
	if req.SkillsOffered != nil {
		offered = pq.StringArray(*req.SkillsOffered)
	}
	if req.SkillsWanted != nil {
		wanted = pq.StringArray(*req.SkillsWanted)
	}

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id,
		req.Name,
		req.Location,
		req.ProfilePhoto,
		offered,
		wanted,
		req.Availability,
		req.IsPublic,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &u, nil
}

// UpdatePhoto stores a newly uploaded photo URL and object key
func (r *userRepository) UpdatePhoto(ctx context.Context, id int64, photoURL, photoKey string) (*model.User, error) {
	query := `
		UPDATE users
		SET profile_photo = $2, photo_key = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var u model.User
	err := r.db.GetContext(ctx, &u, query, id, photoURL, photoKey)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update photo: %w", err)
	}

	return &u, nil
}

// SearchBySkill returns public, non-banned users whose chosen skill list
// contains a case-insensitive substring match. An empty skill matches everyone.
func (r *userRepository) SearchBySkill(ctx context.Context, skill string, searchType model.SkillSearchType) ([]model.User, error) {
	offered := `EXISTS (SELECT 1 FROM unnest(skills_offered) s WHERE s ILIKE '%' || $1 || '%')`
	wanted := `EXISTS (SELECT 1 FROM unnest(skills_wanted) s WHERE s ILIKE '%' || $1 || '%')`

	var match string
	switch searchType {
	case model.SearchOffered:
		match = offered
	case model.SearchWanted:
		match = wanted
	default:
		match = "(" + offered + " OR " + wanted + ")"
	}

	query := `SELECT ` + userColumns + `
		FROM users
		WHERE is_public = TRUE AND is_banned = FALSE`
	if skill != "" {
		query += ` AND ` + match
	}

	var users []model.User
	var err error
	if skill != "" {
		err = r.db.SelectContext(ctx, &users, query, skill)
	} else {
		err = r.db.SelectContext(ctx, &users, query)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

// UpdateRating overwrites the aggregate rating fields on the target user
func (r *userRepository) UpdateRating(ctx context.Context, id int64, rating float64, totalRatings int) error {
	query := `UPDATE users SET rating = $2, total_ratings = $3, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, rating, totalRatings)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// SetBanned flips the moderation flag
func (r *userRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	query := `UPDATE users SET is_banned = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, banned)
	if err != nil {
		return fmt.Errorf("failed to set banned: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// ListAll returns every user, newest first (admin view)
func (r *userRepository) ListAll(ctx context.Context) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	var users []model.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

func (r *userRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *userRepository) CountBanned(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE is_banned = TRUE`); err != nil {
		return 0, fmt.Errorf("failed to count banned users: %w", err)
	}
	return count, nil
}

// AverageRating averages the rating column across all users
func (r *userRepository) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	query := `SELECT COALESCE(AVG(rating), 0) FROM users`
	if err := r.db.GetContext(ctx, &avg, query); err != nil {
		return 0, fmt.Errorf("failed to average rating: %w", err)
	}
	return avg, nil
}

// TopOfferedSkills returns the most-offered skill names with their counts
func (r *userRepository) TopOfferedSkills(ctx context.Context, limit int) ([]model.SkillCount, error) {
	query := `
		SELECT skill, COUNT(*) AS count
		FROM users, unnest(skills_offered) AS skill
		GROUP BY skill
		ORDER BY count DESC, skill
		LIMIT $1
	`

	var skills []model.SkillCount
	if err := r.db.SelectContext(ctx, &skills, query, limit); err != nil {
		return nil, fmt.Errorf("failed to rank skills: %w", err)
	}

	return skills, nil
}
