package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"skillswap/internal/model"
	"skillswap/internal/queue"
)

func TestUserService_Register_Success(t *testing.T) {
	mockRepo := &mockUserRepository{
		createFn: func(ctx context.Context, user *model.User) error {
			user.ID = 1
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			return nil
		},
	}
	svc := NewUserService(mockRepo, nil, nil)

	req := &model.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "securepassword123",
	}

	user, err := svc.Register(context.Background(), req)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if user.Email != req.Email {
		t.Errorf("email = %q, want %q", user.Email, req.Email)
	}

	// New profiles start empty with the availability placeholder
	if user.SkillsOffered == nil || len(user.SkillsOffered) != 0 {
		t.Errorf("skills_offered = %v, want empty slice", user.SkillsOffered)
	}
	if user.Availability != model.DefaultAvailability {
		t.Errorf("availability = %q, want %q", user.Availability, model.DefaultAvailability)
	}

	// Password must be stored hashed
	if user.PasswordHashed == req.Password {
		t.Error("password should be hashed, not stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		t.Error("password hash should be valid bcrypt hash")
	}

	if len(mockRepo.createCalls) != 1 {
		t.Errorf("Create called %d times, want 1", len(mockRepo.createCalls))
	}
}

func TestUserService_Register_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  model.RegisterRequest
	}{
		{"missing name", model.RegisterRequest{Email: "a@b.com", Password: "pw"}},
		{"missing email", model.RegisterRequest{Name: "A", Password: "pw"}},
		{"missing password", model.RegisterRequest{Name: "A", Email: "a@b.com"}},
		{"whitespace only", model.RegisterRequest{Name: "  ", Email: "a@b.com", Password: "pw"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{}
			svc := NewUserService(mockRepo, nil, nil)

			_, err := svc.Register(context.Background(), &tt.req)
			if !errors.Is(err, model.ErrMissingFields) {
				t.Errorf("error = %v, want %v", err, model.ErrMissingFields)
			}
			if len(mockRepo.createCalls) != 0 {
				t.Error("Create should not be called on invalid input")
			}
		})
	}
}

func TestUserService_Register_EmailExists(t *testing.T) {
	mockRepo := &mockUserRepository{
		existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(mockRepo, nil, nil)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:     "Test",
		Email:    "taken@example.com",
		Password: "password123",
	})
	if !errors.Is(err, model.ErrEmailExists) {
		t.Errorf("error = %v, want %v", err, model.ErrEmailExists)
	}
	if len(mockRepo.createCalls) != 0 {
		t.Error("Create should not be called when email exists")
	}
}

func TestUserService_Login(t *testing.T) {
	validPassword := "correctpassword"
	validHash, _ := bcrypt.GenerateFromPassword([]byte(validPassword), bcrypt.MinCost)

	testUser := &model.User{
		ID:             1,
		Email:          "test@example.com",
		PasswordHashed: string(validHash),
	}

	tests := []struct {
		name        string
		email       string
		password    string
		mockGetFn   func(ctx context.Context, email string) (*model.User, error)
		wantErr     error
		wantUser    bool
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: validPassword,
			mockGetFn: func(ctx context.Context, email string) (*model.User, error) {
				return testUser, nil
			},
			wantUser: true,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "anypassword",
			mockGetFn: func(ctx context.Context, email string) (*model.User, error) {
				return nil, model.ErrUserNotFound
			},
			wantErr: model.ErrInvalidCredentials, // Don't reveal whether the email exists
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			mockGetFn: func(ctx context.Context, email string) (*model.User, error) {
				return testUser, nil
			},
			wantErr: model.ErrInvalidCredentials,
		},
		{
			name:     "database error",
			email:    "test@example.com",
			password: validPassword,
			mockGetFn: func(ctx context.Context, email string) (*model.User, error) {
				return nil, errors.New("database error")
			},
			wantErr: model.ErrInvalidCredentials, // Don't reveal internal errors either
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{getByEmailFn: tt.mockGetFn}
			svc := NewUserService(mockRepo, nil, nil)

			user, err := svc.Login(context.Background(), &model.LoginRequest{Email: tt.email, Password: tt.password})

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantUser && user == nil {
				t.Error("expected user, got nil")
			}
			if !tt.wantUser && user != nil {
				t.Error("expected nil user")
			}
		})
	}
}

func TestUserService_GetVisibleProfile(t *testing.T) {
	ownerID := int64(1)
	otherID := int64(2)

	tests := []struct {
		name     string
		isPublic bool
		viewerID *int64
		wantErr  error
	}{
		{"public profile, anonymous viewer", true, nil, nil},
		{"public profile, other viewer", true, &otherID, nil},
		{"private profile, owner", false, &ownerID, nil},
		{"private profile, other viewer", false, &otherID, model.ErrProfilePrivate},
		{"private profile, anonymous viewer", false, nil, model.ErrProfilePrivate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &mockUserRepository{
				getByIDFn: func(ctx context.Context, id int64) (*model.User, error) {
					return &model.User{ID: id, IsPublic: tt.isPublic}, nil
				},
			}
			svc := NewUserService(mockRepo, nil, nil)

			user, err := svc.GetVisibleProfile(context.Background(), ownerID, tt.viewerID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if user == nil {
				t.Fatal("expected user, got nil")
			}
		})
	}
}

func TestUserService_UpdateProfile_PublishesEvent(t *testing.T) {
	mockRepo := &mockUserRepository{
		updateProfileFn: func(ctx context.Context, id int64, req *model.UpdateProfileRequest) (*model.User, error) {
			return &model.User{ID: id}, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewUserService(mockRepo, nil, pub)

	name := "New Name"
	_, err := svc.UpdateProfile(context.Background(), 1, &model.UpdateProfileRequest{Name: &name})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(pub.events) != 1 || pub.events[0].Type != queue.EventProfileUpdated {
		t.Errorf("expected one profile_updated event, got %+v", pub.events)
	}
}

func TestUserService_Search(t *testing.T) {
	tests := []struct {
		name      string
		inputType model.SkillSearchType
		wantType  model.SkillSearchType
	}{
		{"offered passes through", model.SearchOffered, model.SearchOffered},
		{"wanted passes through", model.SearchWanted, model.SearchWanted},
		{"both passes through", model.SearchBoth, model.SearchBoth},
		{"empty defaults to both", model.SkillSearchType(""), model.SearchBoth},
		{"garbage defaults to both", model.SkillSearchType("bogus"), model.SearchBoth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotType model.SkillSearchType
			mockRepo := &mockUserRepository{
				searchBySkillFn: func(ctx context.Context, skill string, searchType model.SkillSearchType) ([]model.User, error) {
					gotType = searchType
					return nil, nil
				},
			}
			svc := NewUserService(mockRepo, nil, nil)

			users, err := svc.Search(context.Background(), "go", tt.inputType)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if gotType != tt.wantType {
				t.Errorf("search type = %q, want %q", gotType, tt.wantType)
			}

			// Empty results serialize as [] rather than null
			if users == nil {
				t.Error("expected empty slice, got nil")
			}
		})
	}
}
