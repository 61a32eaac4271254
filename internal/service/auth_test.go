package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"skillswap/internal/config"
	"skillswap/internal/model"
)

// mockRefreshTokenRepository keeps tokens in memory keyed by hash.
type mockRefreshTokenRepository struct {
	tokens map[string]*model.RefreshToken
	nextID int

	revokeAllCalls []int64
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*model.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	m.nextID++
	token.ID = time.Now().Format("20060102") + "-" + string(rune('a'+m.nextID))
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok {
		return nil, model.ErrRefreshTokenNotFound
	}
	return token, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, id string, replacedBy *string) error {
	for _, token := range m.tokens {
		if token.ID == id {
			now := time.Now()
			token.RevokedAt = &now
			token.ReplacedBy = replacedBy
			return nil
		}
	}
	return model.ErrRefreshTokenNotFound
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	m.revokeAllCalls = append(m.revokeAllCalls, userID)
	now := time.Now()
	for _, token := range m.tokens {
		if token.UserID == userID && token.RevokedAt == nil {
			token.RevokedAt = &now
		}
	}
	return nil
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		AccessTokenMaxAge:  900,
		RefreshTokenMaxAge: 3600,
	}
}

func TestAuthService_GenerateTokenPair(t *testing.T) {
	repo := newMockRefreshTokenRepository()
	svc := NewAuthService(repo, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pair.ExpiresIn != 900 {
		t.Errorf("expires_in = %d, want 900", pair.ExpiresIn)
	}

	// Access token must be a valid HS256 JWT carrying the user ID
	parsed, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token should parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if int64(claims["user_id"].(float64)) != 42 {
		t.Errorf("user_id claim = %v, want 42", claims["user_id"])
	}

	// Refresh token is stored hashed, never raw
	if len(repo.tokens) != 1 {
		t.Fatalf("stored %d tokens, want 1", len(repo.tokens))
	}
	for hash := range repo.tokens {
		if hash == pair.RefreshToken {
			t.Error("refresh token should be stored as a hash")
		}
	}
}

func TestAuthService_RefreshTokens_RotatesAndRevokes(t *testing.T) {
	repo := newMockRefreshTokenRepository()
	svc := NewAuthService(repo, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newPair, userID, err := svc.RefreshTokens(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != 42 {
		t.Errorf("user_id = %d, want 42", userID)
	}
	if newPair.RefreshToken == pair.RefreshToken {
		t.Error("rotation should mint a fresh refresh token")
	}

	// Using the old token again must trip reuse detection and kill the family
	_, _, err = svc.RefreshTokens(context.Background(), pair.RefreshToken)
	if !errors.Is(err, model.ErrRefreshTokenReused) {
		t.Fatalf("error = %v, want %v", err, model.ErrRefreshTokenReused)
	}
	if len(repo.revokeAllCalls) != 1 || repo.revokeAllCalls[0] != 42 {
		t.Errorf("expected family revocation for user 42, got %v", repo.revokeAllCalls)
	}

	// The rotated token died with the family
	_, _, err = svc.RefreshTokens(context.Background(), newPair.RefreshToken)
	if !errors.Is(err, model.ErrRefreshTokenReused) {
		t.Errorf("error = %v, want %v", err, model.ErrRefreshTokenReused)
	}
}

func TestAuthService_RefreshTokens_Expired(t *testing.T) {
	cfg := testAuthConfig()
	cfg.RefreshTokenMaxAge = -60 // already expired when minted
	repo := newMockRefreshTokenRepository()
	svc := NewAuthService(repo, cfg)

	pair, err := svc.GenerateTokenPair(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = svc.RefreshTokens(context.Background(), pair.RefreshToken)
	if !errors.Is(err, model.ErrRefreshTokenExpired) {
		t.Errorf("error = %v, want %v", err, model.ErrRefreshTokenExpired)
	}
}

func TestAuthService_RefreshTokens_Unknown(t *testing.T) {
	svc := NewAuthService(newMockRefreshTokenRepository(), testAuthConfig())

	_, _, err := svc.RefreshTokens(context.Background(), "never-issued")
	if !errors.Is(err, model.ErrRefreshTokenNotFound) {
		t.Errorf("error = %v, want %v", err, model.ErrRefreshTokenNotFound)
	}
}

func TestAuthService_RevokeRefreshToken(t *testing.T) {
	repo := newMockRefreshTokenRepository()
	svc := NewAuthService(repo, testAuthConfig())

	pair, err := svc.GenerateTokenPair(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.RevokeRefreshToken(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = svc.RefreshTokens(context.Background(), pair.RefreshToken)
	if !errors.Is(err, model.ErrRefreshTokenReused) {
		t.Errorf("error = %v, want %v", err, model.ErrRefreshTokenReused)
	}
}
