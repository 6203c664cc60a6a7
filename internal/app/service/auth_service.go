package service

import (
	"context"
	"errors"
	"time"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/pkg/logger"
	"github.com/obaplab/obap-backend/pkg/redis"
	"github.com/obaplab/obap-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists    = errors.New("이미 사용 중인 이메일입니다")
	ErrUsernameAlreadyExists = errors.New("이미 사용 중인 아이디입니다")
	ErrNicknameAlreadyExists = errors.New("이미 사용 중인 닉네임입니다")
	ErrInvalidCredentials    = errors.New("이메일 또는 비밀번호가 올바르지 않습니다")
	ErrUserNotFound          = errors.New("사용자를 찾을 수 없습니다")
)

type RegisterInput struct {
	Email    string
	Username string
	Nickname string
	Password string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, nickname, avatarURL string) (*model.User, error)
	IsEmailAvailable(email string) (bool, error)
	IsUsernameAvailable(username string) (bool, error)
	IsNicknameAvailable(nickname string) (bool, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email":    input.Email,
		"username": input.Username,
	})

	// 중복 검사
	if exists, err := s.userRepo.ExistsByEmail(input.Email); err != nil {
		logger.Error("Failed to check existing email", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, err
	} else if exists {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	if exists, err := s.userRepo.ExistsByUsername(input.Username); err != nil {
		return nil, nil, err
	} else if exists {
		logger.Warn("Registration failed: username already exists", map[string]interface{}{
			"username": input.Username,
		})
		return nil, nil, ErrUsernameAlreadyExists
	}

	if exists, err := s.userRepo.ExistsByNickname(input.Nickname); err != nil {
		return nil, nil, err
	} else if exists {
		logger.Warn("Registration failed: nickname already exists", map[string]interface{}{
			"nickname": input.Nickname,
		})
		return nil, nil, ErrNicknameAlreadyExists
	}

	// Hash password
	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, err
	}

	// 이메일 도메인으로 권한 추론 - 회사 도메인이면 직장인, 아니면 게스트
	role := model.RoleGuest
	companyDomain := ""
	if util.IsCompanyEmail(input.Email) {
		role = model.RoleEmployee
		companyDomain = util.EmailDomain(input.Email)
	}

	user := &model.User{
		Email:         input.Email,
		Username:      input.Username,
		Nickname:      input.Nickname,
		PasswordHash:  hashedPassword,
		Role:          role,
		CompanyDomain: companyDomain,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": input.Email,
		})
		return nil, nil, err
	}

	// Generate tokens
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   input.Email,
		})
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":        user.ID,
		"email":          input.Email,
		"role":           user.Role,
		"company_domain": companyDomain,
	})

	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	// Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	// Verify password
	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	// Generate tokens
	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil, nil, err
	}

	logger.Info("Login successful", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, tokens, nil
}

// Logout 토큰 남은 유효시간 동안 블랙리스트에 등록
func (s *authService) Logout(ctx context.Context, accessToken string) error {
	claims, err := util.ValidateToken(accessToken, s.jwtSecret)
	if err != nil {
		// 이미 만료되었거나 잘못된 토큰이면 블랙리스트에 올릴 필요 없음
		logger.Debug("Logout with invalid token, nothing to blacklist", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	if err := redis.BlacklistToken(ctx, accessToken, remaining); err != nil {
		logger.Error("Failed to blacklist token on logout", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(userID uint, nickname, avatarURL string) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if nickname != "" && nickname != user.Nickname {
		exists, err := s.userRepo.ExistsByNickname(nickname)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrNicknameAlreadyExists
		}
		user.Nickname = nickname
	}
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated", map[string]interface{}{
		"user_id": userID,
	})
	return user, nil
}

func (s *authService) IsEmailAvailable(email string) (bool, error) {
	exists, err := s.userRepo.ExistsByEmail(email)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *authService) IsUsernameAvailable(username string) (bool, error) {
	exists, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *authService) IsNicknameAvailable(nickname string) (bool, error) {
	exists, err := s.userRepo.ExistsByNickname(nickname)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
