package service

import (
	"testing"
	"time"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	authService := NewAuthService(
		userRepo,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)

	return authService, testDB
}

func TestAuthService_Register_RoleInference(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	tests := []struct {
		name       string
		email      string
		username   string
		nickname   string
		wantRole   model.UserRole
		wantDomain string
	}{
		{
			name:       "Company email becomes employee",
			email:      "worker@acme-corp.com",
			username:   "worker1",
			nickname:   "점심탐험가",
			wantRole:   model.RoleEmployee,
			wantDomain: "acme-corp.com",
		},
		{
			name:       "Public email becomes guest",
			email:      "someone@gmail.com",
			username:   "someone",
			nickname:   "지나가던사람",
			wantRole:   model.RoleGuest,
			wantDomain: "",
		},
		{
			name:       "Naver email becomes guest",
			email:      "another@naver.com",
			username:   "another",
			nickname:   "네이버유저",
			wantRole:   model.RoleGuest,
			wantDomain: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(RegisterInput{
				Email:    tt.email,
				Username: tt.username,
				Nickname: tt.nickname,
				Password: "password123",
			})

			require.NoError(t, err)
			require.NotNil(t, user)
			require.NotNil(t, tokens)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, tt.wantDomain, user.CompanyDomain)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
		})
	}
}

func TestAuthService_Register_Duplicates(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register(RegisterInput{
		Email:    "worker@acme-corp.com",
		Username: "worker1",
		Nickname: "점심탐험가",
		Password: "password123",
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{
			name: "Duplicate email",
			input: RegisterInput{
				Email:    "worker@acme-corp.com",
				Username: "worker2",
				Nickname: "다른닉네임",
				Password: "password123",
			},
			wantErr: ErrEmailAlreadyExists,
		},
		{
			name: "Duplicate username",
			input: RegisterInput{
				Email:    "other@acme-corp.com",
				Username: "worker1",
				Nickname: "또다른닉네임",
				Password: "password123",
			},
			wantErr: ErrUsernameAlreadyExists,
		},
		{
			name: "Duplicate nickname",
			input: RegisterInput{
				Email:    "third@acme-corp.com",
				Username: "worker3",
				Nickname: "점심탐험가",
				Password: "password123",
			},
			wantErr: ErrNicknameAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := authService.Register(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register(RegisterInput{
		Email:    "worker@acme-corp.com",
		Username: "worker1",
		Nickname: "점심탐험가",
		Password: "password123",
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "Valid login",
			email:    "worker@acme-corp.com",
			password: "password123",
			wantErr:  nil,
		},
		{
			name:     "Wrong password",
			email:    "worker@acme-corp.com",
			password: "wrongpassword",
			wantErr:  ErrInvalidCredentials,
		},
		{
			name:     "Unknown email",
			email:    "nobody@acme-corp.com",
			password: "password123",
			wantErr:  ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				assert.Nil(t, tokens)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, user.Email)
				assert.NotEmpty(t, tokens.AccessToken)
			}
		})
	}
}

func TestAuthService_Availability(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register(RegisterInput{
		Email:    "worker@acme-corp.com",
		Username: "worker1",
		Nickname: "점심탐험가",
		Password: "password123",
	})
	require.NoError(t, err)

	available, err := authService.IsEmailAvailable("worker@acme-corp.com")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = authService.IsEmailAvailable("fresh@acme-corp.com")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = authService.IsUsernameAvailable("worker1")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = authService.IsNicknameAvailable("새닉네임")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, err := authService.Register(RegisterInput{
		Email:    "worker@acme-corp.com",
		Username: "worker1",
		Nickname: "점심탐험가",
		Password: "password123",
	})
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(user.ID, "새닉네임", "https://cdn.example.com/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "새닉네임", updated.Nickname)
	assert.Equal(t, "https://cdn.example.com/avatar.png", updated.AvatarURL)

	// 다른 사용자가 쓰는 닉네임으로는 변경 불가
	other, _, err := authService.Register(RegisterInput{
		Email:    "other@acme-corp.com",
		Username: "worker2",
		Nickname: "다른닉네임",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = authService.UpdateProfile(other.ID, "새닉네임", "")
	assert.ErrorIs(t, err, ErrNicknameAlreadyExists)
}
