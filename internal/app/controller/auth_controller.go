package controller

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/obaplab/obap-backend/internal/app/service"
	apperrors "github.com/obaplab/obap-backend/internal/errors"
	"github.com/obaplab/obap-backend/internal/middleware"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Nickname string `json:"nickname" binding:"required,min=2,max=20"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"` // S3 URL from upload API
}


// Register handles user registration
// POST /api/v1/auth/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, tokens, err := ctrl.authService.Register(service.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "이미 사용 중인 이메일입니다")
		case errors.Is(err, service.ErrUsernameAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthUsernameExists, "이미 사용 중인 아이디입니다")
		case errors.Is(err, service.ErrNicknameAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthNicknameExists, "이미 사용 중인 닉네임입니다")
		default:
			log.Error("Registration failed", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register user")
		}
		return
	}

	log.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "회원가입이 완료되었습니다",
		"user": gin.H{
			"id":             user.ID,
			"email":          user.Email,
			"username":       user.Username,
			"nickname":       user.Nickname,
			"role":           user.Role,
			"company_domain": user.CompanyDomain,
		},
		"tokens": tokens,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, tokens, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			log.Warn("Login failed: invalid credentials", map[string]interface{}{
				"email": req.Email,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "이메일 또는 비밀번호가 올바르지 않습니다")
			return
		}
		log.Error("Login failed", err, map[string]interface{}{
			"email": req.Email,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "로그인되었습니다",
		"user": gin.H{
			"id":             user.ID,
			"email":          user.Email,
			"username":       user.Username,
			"nickname":       user.Nickname,
			"role":           user.Role,
			"company_domain": user.CompanyDomain,
		},
		"tokens": tokens,
	})
}

// Logout revokes the current access token
// POST /api/v1/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), parts[1]); err != nil {
		log.Error("Logout failed", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "로그아웃되었습니다",
	})
}

// GetMe returns current user information
// GET /api/v1/auth/me
func (ctrl *AuthController) GetMe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	user, err := ctrl.authService.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "사용자를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to get user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// UpdateProfile updates nickname / avatar of the current user
// PUT /api/v1/auth/me
func (ctrl *AuthController) UpdateProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	user, err := ctrl.authService.UpdateProfile(userID, req.Nickname, req.AvatarURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "사용자를 찾을 수 없습니다")
		case errors.Is(err, service.ErrNicknameAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthNicknameExists, "이미 사용 중인 닉네임입니다")
		default:
			log.Error("Failed to update profile", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "프로필이 수정되었습니다",
		"user":    user,
	})
}

// CheckEmail checks email availability
// GET /api/v1/auth/check-email?value=
func (ctrl *AuthController) CheckEmail(c *gin.Context) {
	value := strings.TrimSpace(c.Query("value"))
	if value == "" || !strings.Contains(value, "@") {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "이메일 형식이 올바르지 않습니다")
		return
	}

	available, err := ctrl.authService.IsEmailAvailable(value)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "check email")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available": available,
	})
}

// CheckUsername checks username availability
// GET /api/v1/auth/check-username?value=
func (ctrl *AuthController) CheckUsername(c *gin.Context) {
	value := strings.TrimSpace(c.Query("value"))
	if n := utf8.RuneCountInString(value); n < 3 || n > 30 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "아이디 형식이 올바르지 않습니다")
		return
	}

	available, err := ctrl.authService.IsUsernameAvailable(value)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "check username")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available": available,
	})
}

// CheckNickname checks nickname availability
// GET /api/v1/auth/check-nickname?value=
func (ctrl *AuthController) CheckNickname(c *gin.Context) {
	value := strings.TrimSpace(c.Query("value"))
	if n := utf8.RuneCountInString(value); n < 2 || n > 20 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "닉네임 형식이 올바르지 않습니다")
		return
	}

	available, err := ctrl.authService.IsNicknameAvailable(value)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "check nickname")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available": available,
	})
}
