package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/internal/app/service"
	"github.com/obaplab/obap-backend/internal/db"
	"github.com/obaplab/obap-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func setupAuthControllerTest(t *testing.T) (*gin.Engine, service.AuthService) {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	userRepo := repository.NewUserRepository(testDB)
	authService := service.NewAuthService(
		userRepo,
		testSecret,
		15*time.Minute,
		7*24*time.Hour,
	)

	ctrl := NewAuthController(authService)
	authMiddleware := middleware.NewAuthMiddleware(testSecret)

	router := gin.New()
	router.POST("/register", ctrl.Register)
	router.POST("/login", ctrl.Login)
	router.GET("/check-email", ctrl.CheckEmail)
	router.GET("/check-nickname", ctrl.CheckNickname)
	router.GET("/me", authMiddleware.Authenticate(), ctrl.GetMe)
	router.PUT("/me", authMiddleware.Authenticate(), ctrl.UpdateProfile)

	return router, authService
}

func postJSON(router *gin.Engine, path string, body interface{}, token string) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthController_Register_Success(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/register", RegisterRequest{
		Email:    "kim@acme-corp.com",
		Username: "kimdev",
		Nickname: "김개발",
		Password: "password123",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "회원가입이 완료되었습니다", response["message"])
	assert.NotNil(t, response["tokens"])

	user := response["user"].(map[string]interface{})
	assert.Equal(t, "employee", user["role"])
	assert.Equal(t, "acme-corp.com", user["company_domain"])
}

func TestAuthController_Register_PublicEmailBecomesGuest(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/register", RegisterRequest{
		Email:    "lee@gmail.com",
		Username: "leedev",
		Nickname: "이개발",
		Password: "password123",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	user := response["user"].(map[string]interface{})
	assert.Equal(t, "guest", user["role"])
	assert.Equal(t, "", user["company_domain"])
}

func TestAuthController_Register_InvalidEmail(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := postJSON(router, "/register", RegisterRequest{
		Email:    "invalid-email",
		Username: "kimdev",
		Nickname: "김개발",
		Password: "password123",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register(service.RegisterInput{
		Email:    "kim@acme-corp.com",
		Username: "kimdev",
		Nickname: "김개발",
		Password: "password123",
	})
	require.NoError(t, err)

	w := postJSON(router, "/register", RegisterRequest{
		Email:    "kim@acme-corp.com",
		Username: "otherdev",
		Nickname: "다른개발",
		Password: "password456",
	}, "")

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTH_EMAIL_EXISTS", response["error"])
}

func TestAuthController_Login(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register(service.RegisterInput{
		Email:    "kim@acme-corp.com",
		Username: "kimdev",
		Nickname: "김개발",
		Password: "password123",
	})
	require.NoError(t, err)

	w := postJSON(router, "/login", LoginRequest{
		Email:    "kim@acme-corp.com",
		Password: "password123",
	}, "")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotNil(t, response["tokens"])
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, _, err := authService.Register(service.RegisterInput{
		Email:    "kim@acme-corp.com",
		Username: "kimdev",
		Nickname: "김개발",
		Password: "password123",
	})
	require.NoError(t, err)

	w := postJSON(router, "/login", LoginRequest{
		Email:    "kim@acme-corp.com",
		Password: "wrong-password",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "AUTH_INVALID_CREDENTIALS", response["error"])
}

func TestAuthController_GetMe(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, tokens, err := authService.Register(service.RegisterInput{
		Email:    "kim@acme-corp.com",
		Username: "kimdev",
		Nickname: "김개발",
		Password: "password123",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	user := response["user"].(map[string]interface{})
	assert.Equal(t, "kim@acme-corp.com", user["email"])
}

func TestAuthController_GetMe_Unauthenticated(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	req := httptest.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_UpdateProfile(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	_, tokens, err := authService.Register(service.RegisterInput{
		Email:    "kim@acme-corp.com",
		Username: "kimdev",
		Nickname: "김개발",
		Password: "password123",
	})
	require.NoError(t, err)

	data, _ := json.Marshal(UpdateProfileRequest{Nickname: "새닉네임"})
	req := httptest.NewRequest("PUT", "/me", bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	user := response["user"].(map[string]interface{})
	assert.Equal(t, "새닉네임", user["nickname"])
}

func TestAuthController_CheckEmail(t *testing.T) {
	router, authService := setupAuthControllerTest(t)

	w := getPath(router, "/check-email?value=free%40acme-corp.com", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, true, response["available"])

	_, _, err := authService.Register(service.RegisterInput{
		Email:    "free@acme-corp.com",
		Username: "freedev",
		Nickname: "프리개발",
		Password: "password123",
	})
	require.NoError(t, err)

	w = getPath(router, "/check-email?value=free%40acme-corp.com", "")
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["available"])
}

func TestAuthController_CheckNickname_InvalidFormat(t *testing.T) {
	router, _ := setupAuthControllerTest(t)

	w := getPath(router, "/check-nickname?value=a", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
