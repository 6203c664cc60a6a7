package service

import (
	"testing"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLocationRequestServiceTest(t *testing.T) (LocationRequestService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	requestRepo := repository.NewLocationRequestRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)
	svc := NewLocationRequestService(testDB, requestRepo, userRepo, notificationRepo)

	return svc, testDB
}

func createServiceUser(t *testing.T, testDB *gorm.DB, email, username string, role model.UserRole) *model.User {
	user := &model.User{
		Email:        email,
		Username:     username,
		Nickname:     username,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestLocationRequestService_Submit(t *testing.T) {
	svc, testDB := setupLocationRequestServiceTest(t)
	user := createServiceUser(t, testDB, "worker@acme-corp.com", "worker1", model.RoleEmployee)

	request, err := svc.Submit(user.ID, LocationRequestInput{
		CompanyName:    "에이크미",
		CompanyAddress: "서울 구로구 디지털로 300",
		Latitude:       37.4824,
		Longitude:      126.8958,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, request.Status)
	assert.NotZero(t, request.RequestedAt)

	// 대기 중인 요청이 있는 동안 추가 제출 불가
	_, err = svc.Submit(user.ID, LocationRequestInput{
		CompanyName:    "에이크미 2",
		CompanyAddress: "서울 구로구 디지털로 301",
		Latitude:       37.4825,
		Longitude:      126.8959,
	})
	assert.ErrorIs(t, err, ErrLocationRequestAlreadyPending)
}

func TestLocationRequestService_Submit_Validation(t *testing.T) {
	svc, testDB := setupLocationRequestServiceTest(t)
	user := createServiceUser(t, testDB, "worker@acme-corp.com", "worker1", model.RoleEmployee)

	_, err := svc.Submit(user.ID, LocationRequestInput{
		CompanyAddress: "서울 구로구 디지털로 300",
		Latitude:       120.0,
		Longitude:      126.8958,
	})
	assert.ErrorIs(t, err, ErrInvalidCoordinates)

	// 주소 누락은 HTTP 바인딩뿐 아니라 서비스에서도 막는다
	_, err = svc.Submit(user.ID, LocationRequestInput{
		CompanyAddress: "   ",
		Latitude:       37.4824,
		Longitude:      126.8958,
	})
	assert.ErrorIs(t, err, ErrCompanyAddressRequired)

	// 회사명은 선택 입력
	request, err := svc.Submit(user.ID, LocationRequestInput{
		CompanyAddress: "서울 구로구 디지털로 300",
		Latitude:       37.4824,
		Longitude:      126.8958,
	})
	require.NoError(t, err)
	assert.Empty(t, request.CompanyName)

	_, err = svc.Submit(99999, LocationRequestInput{
		CompanyAddress: "서울 구로구 디지털로 300",
		Latitude:       37.4824,
		Longitude:      126.8958,
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLocationRequestService_Approve(t *testing.T) {
	svc, testDB := setupLocationRequestServiceTest(t)
	user := createServiceUser(t, testDB, "worker@acme-corp.com", "worker1", model.RoleEmployee)
	admin := createServiceUser(t, testDB, "admin@obap.kr", "admin", model.RoleAdmin)

	request, err := svc.Submit(user.ID, LocationRequestInput{
		CompanyName:    "에이크미",
		CompanyAddress: "서울 구로구 디지털로 300",
		Latitude:       37.4824,
		Longitude:      126.8958,
	})
	require.NoError(t, err)

	approved, err := svc.Approve(request.ID, admin.ID, "위치 확인 완료")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedAt)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, admin.ID, *approved.ReviewedBy)

	// 승인과 동시에 프로필에 회사 위치가 반영된다
	var updatedUser model.User
	require.NoError(t, testDB.First(&updatedUser, user.ID).Error)
	assert.Equal(t, "에이크미", updatedUser.CompanyName)
	assert.Equal(t, "서울 구로구 디지털로 300", updatedUser.CompanyAddress)
	require.NotNil(t, updatedUser.CompanyLatitude)
	assert.InDelta(t, 37.4824, *updatedUser.CompanyLatitude, 1e-6)

	// 승인 알림이 생성된다
	var notifications []model.Notification
	require.NoError(t, testDB.Where("user_id = ?", user.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationLocationApproved, notifications[0].Type)
	require.NotNil(t, notifications[0].RequestID)
	assert.Equal(t, request.ID, *notifications[0].RequestID)

	// 종결 상태에서 재심사 불가
	_, err = svc.Approve(request.ID, admin.ID, "재승인")
	assert.ErrorIs(t, err, ErrLocationRequestAlreadyReviewed)

	_, err = svc.Reject(request.ID, admin.ID, "반려 시도")
	assert.ErrorIs(t, err, ErrLocationRequestAlreadyReviewed)
}

func TestLocationRequestService_Reject(t *testing.T) {
	svc, testDB := setupLocationRequestServiceTest(t)
	user := createServiceUser(t, testDB, "worker@acme-corp.com", "worker1", model.RoleEmployee)
	admin := createServiceUser(t, testDB, "admin@obap.kr", "admin", model.RoleAdmin)

	request, err := svc.Submit(user.ID, LocationRequestInput{
		CompanyName:    "에이크미",
		CompanyAddress: "서울 구로구 디지털로 300",
		Latitude:       37.4824,
		Longitude:      126.8958,
	})
	require.NoError(t, err)

	// 반려 사유는 필수
	_, err = svc.Reject(request.ID, admin.ID, "")
	assert.ErrorIs(t, err, ErrReviewNoteRequired)

	_, err = svc.Reject(request.ID, admin.ID, "   ")
	assert.ErrorIs(t, err, ErrReviewNoteRequired)

	rejected, err := svc.Reject(request.ID, admin.ID, "주소 확인 불가")
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, rejected.Status)
	assert.Equal(t, "주소 확인 불가", rejected.ReviewNote)

	// 반려는 프로필을 건드리지 않는다
	var updatedUser model.User
	require.NoError(t, testDB.First(&updatedUser, user.ID).Error)
	assert.Empty(t, updatedUser.CompanyName)
	assert.Nil(t, updatedUser.CompanyLatitude)

	// 반려 알림이 생성된다
	var notifications []model.Notification
	require.NoError(t, testDB.Where("user_id = ?", user.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationLocationRejected, notifications[0].Type)

	// 반려 후에는 새 요청을 제출할 수 있다
	_, err = svc.Submit(user.ID, LocationRequestInput{
		CompanyName:    "에이크미",
		CompanyAddress: "서울 구로구 디지털로 300",
		Latitude:       37.4824,
		Longitude:      126.8958,
	})
	assert.NoError(t, err)
}

func TestLocationRequestService_GetRequest_Visibility(t *testing.T) {
	svc, testDB := setupLocationRequestServiceTest(t)
	user := createServiceUser(t, testDB, "worker@acme-corp.com", "worker1", model.RoleEmployee)
	other := createServiceUser(t, testDB, "other@beta-inc.com", "worker2", model.RoleEmployee)
	admin := createServiceUser(t, testDB, "admin@obap.kr", "admin", model.RoleAdmin)

	request, err := svc.Submit(user.ID, LocationRequestInput{
		CompanyName:    "에이크미",
		CompanyAddress: "서울 구로구 디지털로 300",
		Latitude:       37.4824,
		Longitude:      126.8958,
	})
	require.NoError(t, err)

	// 본인과 관리자만 조회 가능
	_, err = svc.GetRequest(request.ID, user.ID, model.RoleEmployee)
	assert.NoError(t, err)

	_, err = svc.GetRequest(request.ID, admin.ID, model.RoleAdmin)
	assert.NoError(t, err)

	_, err = svc.GetRequest(request.ID, other.ID, model.RoleEmployee)
	assert.ErrorIs(t, err, ErrLocationRequestNotFound)
}

func TestLocationRequestService_ListAll_StatusFilter(t *testing.T) {
	svc, testDB := setupLocationRequestServiceTest(t)
	user1 := createServiceUser(t, testDB, "worker1@acme-corp.com", "worker1", model.RoleEmployee)
	user2 := createServiceUser(t, testDB, "worker2@beta-inc.com", "worker2", model.RoleEmployee)
	admin := createServiceUser(t, testDB, "admin@obap.kr", "admin", model.RoleAdmin)

	req1, err := svc.Submit(user1.ID, LocationRequestInput{
		CompanyAddress: "서울 구로구 디지털로 300",
		Latitude:       37.4824,
		Longitude:      126.8958,
	})
	require.NoError(t, err)

	_, err = svc.Submit(user2.ID, LocationRequestInput{
		CompanyAddress: "서울 금천구 가산디지털1로 168",
		Latitude:       37.4789,
		Longitude:      126.8827,
	})
	require.NoError(t, err)

	_, err = svc.Approve(req1.ID, admin.ID, "")
	require.NoError(t, err)

	pending, total, err := svc.ListAll(repository.LocationRequestFilter{Status: model.RequestStatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, user2.ID, pending[0].UserID)
}
