package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"unihub/internal/auth"
	"unihub/internal/cache"
	apperrors "unihub/internal/errors"
	"unihub/internal/mail"
	"unihub/internal/model"
	"unihub/internal/repository"
)

const (
	bcryptCost = 10
	// VerificationCodeTTL is how long an emailed code stays valid.
	VerificationCodeTTL = 15 * time.Minute
	// VerificationCooldown is the minimum delay between two codes for one address.
	VerificationCooldown = time.Minute
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Email      string
	Password   string
	Name       string
	Surname    string
	StudentID  string
	University string
	Faculty    string
	Department string
}

// TokenPair is returned on login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (TokenPair, *model.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string, access *auth.Claims) error
	VerifyEmail(ctx context.Context, email, code string) error
	ResendVerification(ctx context.Context, userID uint) error
	EmailVerified(ctx context.Context, userID uint) (bool, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	codes      auth.VerificationStore
	mailer     mail.Mailer
	cache      cache.Store
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	codes auth.VerificationStore,
	mailer mail.Mailer,
	cache cache.Store,
	logger *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		codes:      codes,
		mailer:     mailer,
		cache:      cache,
		logger:     logger,
	}
}

// Register creates an unverified account and emails a verification code.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := mail.CheckEmailDomain(email); err != nil {
		return nil, err
	}
	studentID, err := strconv.ParseUint(in.StudentID, 10, 64)
	if err != nil || len(in.StudentID) != 10 {
		return nil, apperrors.Invalid("student ID must be exactly 10 digits")
	}

	taken, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}
	taken, err = s.userRepo.ExistsByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("check student id: %w", err)
	}
	if taken {
		return nil, apperrors.ErrStudentIDTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:             email,
		PasswordHash:      string(hashedPassword),
		StudentID:         studentID,
		Name:              strings.TrimSpace(in.Name),
		Surname:           strings.TrimSpace(in.Surname),
		University:        strings.TrimSpace(in.University),
		Faculty:           strings.TrimSpace(in.Faculty),
		Department:        strings.TrimSpace(in.Department),
		ProfilePictureURL: model.DefaultProfilePictureURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// the account exists even if delivery fails; the user can ask for a new code
	if err := s.sendCode(ctx, user); err != nil {
		s.logger.Warn("send verification code", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return user, nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, email, password string) (TokenPair, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return TokenPair{}, nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return TokenPair{}, nil, apperrors.ErrInvalidCredentials
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return TokenPair{}, nil, fmt.Errorf("generate access token: %w", err)
	}
	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return TokenPair{}, nil, fmt.Errorf("generate refresh token: %w", err)
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return TokenPair{}, nil, fmt.Errorf("store refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil || claims.ID == "" {
		return "", apperrors.ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Email)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout invalidates the refresh token and blacklists the presented access token.
func (s *authService) Logout(ctx context.Context, refreshToken string, access *auth.Claims) error {
	tokenID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, tokenID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	if access != nil && access.ID != "" {
		if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, s.jwtService.RemainingTTL(access)); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}

// VerifyEmail checks the emailed code and marks the account verified.
func (s *authService) VerifyEmail(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidCode
		}
		return fmt.Errorf("find user: %w", err)
	}
	if user.EmailVerified {
		return apperrors.ErrAlreadyVerified
	}

	stored, err := s.codes.GetVerificationCode(ctx, email)
	if err != nil {
		return fmt.Errorf("get verification code: %w", err)
	}
	if stored == "" || subtle.ConstantTimeCompare([]byte(stored), []byte(strings.TrimSpace(code))) != 1 {
		return apperrors.ErrInvalidCode
	}

	if err := s.userRepo.SetEmailVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	_ = s.codes.DeleteVerificationCode(ctx, email)
	_ = s.cache.Delete(ctx, userCacheKey(user.ID))
	return nil
}

// ResendVerification emails a fresh code unless the cooldown is still running.
func (s *authService) ResendVerification(ctx context.Context, userID uint) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, apperrors.ErrUserNotFound)
	}
	if user.EmailVerified {
		return apperrors.ErrAlreadyVerified
	}
	wait, err := s.codes.VerificationCooldown(ctx, user.Email)
	if err != nil {
		return fmt.Errorf("check cooldown: %w", err)
	}
	if wait > 0 {
		return apperrors.ErrVerificationCooldown
	}
	return s.sendCode(ctx, user)
}

// EmailVerified reports the caller's verification state.
func (s *authService) EmailVerified(ctx context.Context, userID uint) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return false, notFound(err, apperrors.ErrUserNotFound)
	}
	return user.EmailVerified, nil
}

func (s *authService) sendCode(ctx context.Context, user *model.User) error {
	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.codes.StoreVerificationCode(ctx, user.Email, code, VerificationCodeTTL, VerificationCooldown); err != nil {
		return fmt.Errorf("store code: %w", err)
	}
	body, err := mail.RenderVerification(user.Name, code, VerificationCodeTTL)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}
	return s.mailer.Send(ctx, user.Email, "Your UniHub verification code", body)
}

// generateCode returns a random six digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
