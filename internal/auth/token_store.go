package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"unihub/internal/cache"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
	verifyCodeKeyPrefix   = "email_verif:"
	verifyCooldownPrefix  = "email_verif_cooldown:"
)

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email string, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// VerificationStore keeps pending email verification codes.
type VerificationStore interface {
	StoreVerificationCode(ctx context.Context, email, code string, ttl, cooldown time.Duration) error
	GetVerificationCode(ctx context.Context, email string) (string, error)
	DeleteVerificationCode(ctx context.Context, email string) error
	VerificationCooldown(ctx context.Context, email string) (time.Duration, error)
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache cache.Store
}

var (
	_ TokenStoreInterface = (*TokenStore)(nil)
	_ VerificationStore   = (*TokenStore)(nil)
)

// NewTokenStore creates a new token store.
func NewTokenStore(store cache.Store) *TokenStore {
	return &TokenStore{cache: store}
}

type refreshTokenData struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, email string, ttl time.Duration) error {
	payload, err := json.Marshal(refreshTokenData{UserID: userID, Email: email})
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	return s.cache.Set(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl)
}

// GetRefreshToken retrieves refresh token data from Redis.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (userID uint, email string, err error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil || data == nil {
		return 0, "", fmt.Errorf("refresh token not found")
	}

	var tokenData refreshTokenData
	if err := json.Unmarshal(data, &tokenData); err != nil {
		return 0, "", fmt.Errorf("unmarshal token data: %w", err)
	}
	return tokenData.UserID, tokenData.Email, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, accessTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted checks if an access token is blacklisted.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, accessTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil // fail safe
	}
	return data != nil, nil
}

// StoreVerificationCode saves code for email and starts the resend cooldown.
func (s *TokenStore) StoreVerificationCode(ctx context.Context, email, code string, ttl, cooldown time.Duration) error {
	if err := s.cache.Set(ctx, verifyCodeKeyPrefix+email, []byte(code), ttl); err != nil {
		return err
	}
	return s.cache.Set(ctx, verifyCooldownPrefix+email, []byte("1"), cooldown)
}

// GetVerificationCode returns the pending code or "" when none is stored.
func (s *TokenStore) GetVerificationCode(ctx context.Context, email string) (string, error) {
	data, err := s.cache.Get(ctx, verifyCodeKeyPrefix+email)
	if err != nil || data == nil {
		return "", err
	}
	return string(data), nil
}

// DeleteVerificationCode removes the pending code and its cooldown.
func (s *TokenStore) DeleteVerificationCode(ctx context.Context, email string) error {
	if err := s.cache.Delete(ctx, verifyCodeKeyPrefix+email); err != nil {
		return err
	}
	return s.cache.Delete(ctx, verifyCooldownPrefix+email)
}

// VerificationCooldown returns how long until a new code may be sent.
func (s *TokenStore) VerificationCooldown(ctx context.Context, email string) (time.Duration, error) {
	return s.cache.TTL(ctx, verifyCooldownPrefix+email)
}
