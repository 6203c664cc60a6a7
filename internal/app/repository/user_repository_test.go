package repository

import (
	"testing"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T) (*gorm.DB, UserRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewUserRepository(testDB)
	return testDB, repo
}

func TestUserRepository_Create(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr bool
	}{
		{
			name: "Valid user",
			user: &model.User{
				Email:        "worker@acme-corp.com",
				Username:     "worker1",
				Nickname:     "점심탐험가",
				PasswordHash: "hashedpassword",
				Role:         model.RoleEmployee,
			},
			wantErr: false,
		},
		{
			name: "Duplicate email",
			user: &model.User{
				Email:        "worker@acme-corp.com",
				Username:     "worker2",
				Nickname:     "다른닉네임",
				PasswordHash: "hashedpassword",
				Role:         model.RoleEmployee,
			},
			wantErr: true,
		},
		{
			name: "Duplicate username",
			user: &model.User{
				Email:        "other@acme-corp.com",
				Username:     "worker1",
				Nickname:     "또다른닉네임",
				PasswordHash: "hashedpassword",
				Role:         model.RoleEmployee,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.NotZero(t, tt.user.ID)
			}
		})
	}
}

func TestUserRepository_FindByEmail(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "worker@acme-corp.com",
		Username:     "worker1",
		Nickname:     "점심탐험가",
		PasswordHash: "hashedpassword",
		Role:         model.RoleEmployee,
	}
	err := repo.Create(user)
	require.NoError(t, err)

	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:    "Existing email",
			email:   "worker@acme-corp.com",
			wantErr: false,
		},
		{
			name:    "Non-existing email",
			email:   "nobody@acme-corp.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByEmail(tt.email)

			if tt.wantErr {
				assert.Error(t, err)
				assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, user.ID, found.ID)
			}
		})
	}
}

func TestUserRepository_Exists(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "worker@acme-corp.com",
		Username:     "worker1",
		Nickname:     "점심탐험가",
		PasswordHash: "hashedpassword",
		Role:         model.RoleEmployee,
	}
	require.NoError(t, repo.Create(user))

	exists, err := repo.ExistsByEmail("worker@acme-corp.com")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail("nobody@acme-corp.com")
	assert.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByUsername("worker1")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNickname("점심탐험가")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNickname("없는닉네임")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepository_Update(t *testing.T) {
	testDB, repo := setupUserTest(t)
	defer db.CleanupTestDB(testDB)

	user := &model.User{
		Email:        "worker@acme-corp.com",
		Username:     "worker1",
		Nickname:     "점심탐험가",
		PasswordHash: "hashedpassword",
		Role:         model.RoleGuest,
	}
	require.NoError(t, repo.Create(user))

	lat := 37.4824
	lng := 126.8958
	user.Role = model.RoleEmployee
	user.CompanyName = "에이크미"
	user.CompanyLatitude = &lat
	user.CompanyLongitude = &lng

	err := repo.Update(user)
	assert.NoError(t, err)

	found, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleEmployee, found.Role)
	assert.Equal(t, "에이크미", found.CompanyName)
	require.NotNil(t, found.CompanyLatitude)
	assert.InDelta(t, 37.4824, *found.CompanyLatitude, 1e-6)
}
