package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"unihub/internal/auth"
	"unihub/internal/cache"
	apperrors "unihub/internal/errors"
	"unihub/internal/model"
)

type authFixture struct {
	users  *MockUserRepository
	tokens *MockTokenStore
	mailer *MockMailer
	jwt    *auth.JWTService
	svc    AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:  new(MockUserRepository),
		tokens: new(MockTokenStore),
		mailer: new(MockMailer),
		jwt:    auth.NewJWTService("test-secret"),
	}
	f.svc = NewAuthService(f.users, f.jwt, f.tokens, f.tokens, f.mailer, cache.NewMemory(), zap.NewNop())
	return f
}

func TestAuthService_Register(t *testing.T) {
	valid := RegisterInput{
		Email:     "Ada@University.edu",
		Password:  "secret123",
		Name:      "Ada",
		Surname:   "Lovelace",
		StudentID: "2021123456",
	}

	tests := []struct {
		name          string
		input         func() RegisterInput
		setupMock     func(*authFixture)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: func() RegisterInput { return valid },
			setupMock: func(f *authFixture) {
				f.users.On("ExistsByEmail", mock.Anything, "ada@university.edu").Return(false, nil)
				f.users.On("ExistsByStudentID", mock.Anything, uint64(2021123456)).Return(false, nil)
				f.users.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Run(func(args mock.Arguments) { args.Get(1).(*model.User).ID = 7 }).
					Return(nil)
				f.tokens.On("StoreVerificationCode", mock.Anything, "ada@university.edu", mock.AnythingOfType("string"),
					VerificationCodeTTL, VerificationCooldown).Return(nil)
				f.mailer.On("Send", mock.Anything, "ada@university.edu", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:  "email already registered",
			input: func() RegisterInput { return valid },
			setupMock: func(f *authFixture) {
				f.users.On("ExistsByEmail", mock.Anything, "ada@university.edu").Return(true, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:  "student id already registered",
			input: func() RegisterInput { return valid },
			setupMock: func(f *authFixture) {
				f.users.On("ExistsByEmail", mock.Anything, "ada@university.edu").Return(false, nil)
				f.users.On("ExistsByStudentID", mock.Anything, uint64(2021123456)).Return(true, nil)
			},
			expectedError: apperrors.ErrStudentIDTaken,
		},
		{
			name: "disposable domain",
			input: func() RegisterInput {
				in := valid
				in.Email = "ada@mailinator.com"
				return in
			},
			setupMock:     func(*authFixture) {},
			expectedError: apperrors.ErrDisposableEmail,
		},
		{
			name: "student id must have ten digits",
			input: func() RegisterInput {
				in := valid
				in.StudentID = "12345"
				return in
			},
			setupMock:     func(*authFixture) {},
			expectedError: apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			tt.setupMock(f)

			user, err := f.svc.Register(context.Background(), tt.input())

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "ada@university.edu", user.Email)
				assert.False(t, user.EmailVerified)
				assert.Equal(t, model.DefaultProfilePictureURL, user.ProfilePictureURL)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
			}

			f.users.AssertExpectations(t)
			f.tokens.AssertExpectations(t)
			f.mailer.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register_MailFailureKeepsAccount(t *testing.T) {
	f := newAuthFixture()
	f.users.On("ExistsByEmail", mock.Anything, mock.Anything).Return(false, nil)
	f.users.On("ExistsByStudentID", mock.Anything, mock.Anything).Return(false, nil)
	f.users.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.tokens.On("StoreVerificationCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	user, err := f.svc.Register(context.Background(), RegisterInput{
		Email: "grace@university.edu", Password: "secret123", Name: "Grace", Surname: "Hopper", StudentID: "2020000001",
	})
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestAuthService_Login(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	stored := &model.User{ID: 3, Email: "test@university.edu", PasswordHash: string(hash)}

	tests := []struct {
		name          string
		password      string
		setupMock     func(*authFixture)
		expectedError error
	}{
		{
			name:     "successful login",
			password: "password123",
			setupMock: func(f *authFixture) {
				f.users.On("FindByEmail", mock.Anything, "test@university.edu").Return(stored, nil)
				f.tokens.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(3), "test@university.edu", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "wrong password",
			password: "nope",
			setupMock: func(f *authFixture) {
				f.users.On("FindByEmail", mock.Anything, "test@university.edu").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown account",
			password: "password123",
			setupMock: func(f *authFixture) {
				f.users.On("FindByEmail", mock.Anything, "test@university.edu").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			tt.setupMock(f)

			pair, user, err := f.svc.Login(context.Background(), " Test@University.edu ", tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, pair.AccessToken)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, pair.AccessToken)
				assert.NotEmpty(t, pair.RefreshToken)
				claims, err := f.jwt.ValidateToken(pair.AccessToken)
				require.NoError(t, err)
				assert.Equal(t, uint(3), claims.UserID)
			}

			f.users.AssertExpectations(t)
			f.tokens.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	f := newAuthFixture()
	id, refresh, err := f.jwt.GenerateRefreshToken(5, "r@university.edu")
	require.NoError(t, err)

	f.tokens.On("GetRefreshToken", mock.Anything, id).Return(uint(5), "r@university.edu", nil).Once()
	access, err := f.svc.RefreshToken(context.Background(), refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	f.tokens.On("GetRefreshToken", mock.Anything, id).Return(uint(0), "", assert.AnError).Once()
	_, err = f.svc.RefreshToken(context.Background(), refresh)
	assert.Equal(t, apperrors.ErrInvalidRefreshToken, err)

	_, err = f.svc.RefreshToken(context.Background(), "garbage")
	assert.Equal(t, apperrors.ErrInvalidRefreshToken, err)
}

func TestAuthService_Logout_BlacklistsAccessToken(t *testing.T) {
	f := newAuthFixture()
	refreshID, refresh, err := f.jwt.GenerateRefreshToken(5, "r@university.edu")
	require.NoError(t, err)
	access, err := f.jwt.GenerateAccessToken(5, "r@university.edu")
	require.NoError(t, err)
	claims, err := f.jwt.ValidateToken(access)
	require.NoError(t, err)

	f.tokens.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)
	f.tokens.On("BlacklistAccessToken", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= auth.AccessTokenExpiry
	})).Return(nil)

	require.NoError(t, f.svc.Logout(context.Background(), refresh, claims))
	f.tokens.AssertExpectations(t)
}

func TestAuthService_VerifyEmail(t *testing.T) {
	user := &model.User{ID: 9, Email: "v@university.edu"}

	t.Run("correct code", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByEmail", mock.Anything, "v@university.edu").Return(user, nil)
		f.tokens.On("GetVerificationCode", mock.Anything, "v@university.edu").Return("123456", nil)
		f.users.On("SetEmailVerified", mock.Anything, uint(9)).Return(nil)
		f.tokens.On("DeleteVerificationCode", mock.Anything, "v@university.edu").Return(nil)

		require.NoError(t, f.svc.VerifyEmail(context.Background(), "V@university.edu", " 123456 "))
		f.users.AssertExpectations(t)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByEmail", mock.Anything, "v@university.edu").Return(user, nil)
		f.tokens.On("GetVerificationCode", mock.Anything, "v@university.edu").Return("123456", nil)

		assert.Equal(t, apperrors.ErrInvalidCode, f.svc.VerifyEmail(context.Background(), "v@university.edu", "654321"))
		f.users.AssertNotCalled(t, "SetEmailVerified", mock.Anything, mock.Anything)
	})

	t.Run("expired code", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByEmail", mock.Anything, "v@university.edu").Return(user, nil)
		f.tokens.On("GetVerificationCode", mock.Anything, "v@university.edu").Return("", nil)

		assert.Equal(t, apperrors.ErrInvalidCode, f.svc.VerifyEmail(context.Background(), "v@university.edu", "123456"))
	})
}

func TestAuthService_ResendVerification(t *testing.T) {
	t.Run("inside cooldown", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, Email: "c@university.edu"}, nil)
		f.tokens.On("VerificationCooldown", mock.Anything, "c@university.edu").Return(40*time.Second, nil)

		assert.Equal(t, apperrors.ErrVerificationCooldown, f.svc.ResendVerification(context.Background(), 4))
		f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already verified", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, EmailVerified: true}, nil)

		assert.Equal(t, apperrors.ErrAlreadyVerified, f.svc.ResendVerification(context.Background(), 4))
	})

	t.Run("sends new code", func(t *testing.T) {
		f := newAuthFixture()
		f.users.On("FindByID", mock.Anything, uint(4)).Return(&model.User{ID: 4, Name: "C", Email: "c@university.edu"}, nil)
		f.tokens.On("VerificationCooldown", mock.Anything, "c@university.edu").Return(time.Duration(0), nil)
		f.tokens.On("StoreVerificationCode", mock.Anything, "c@university.edu", mock.MatchedBy(func(code string) bool {
			return len(code) == 6
		}), VerificationCodeTTL, VerificationCooldown).Return(nil)
		f.mailer.On("Send", mock.Anything, "c@university.edu", mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, f.svc.ResendVerification(context.Background(), 4))
		f.mailer.AssertExpectations(t)
	})
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
