package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrLocationRequestNotFound        = errors.New("회사 위치 요청을 찾을 수 없습니다")
	ErrLocationRequestAlreadyPending  = errors.New("이미 대기 중인 회사 위치 요청이 있습니다")
	ErrLocationRequestAlreadyReviewed = errors.New("이미 처리된 요청입니다")
	ErrReviewNoteRequired             = errors.New("반려 사유를 입력해야 합니다")
	ErrCompanyAddressRequired         = errors.New("회사 주소를 입력해야 합니다")
)

type LocationRequestInput struct {
	CompanyName    string
	CompanyAddress string
	Latitude       float64
	Longitude      float64
}

type LocationRequestService interface {
	Submit(userID uint, input LocationRequestInput) (*model.CompanyLocationRequest, error)
	GetRequest(id uint, userID uint, role model.UserRole) (*model.CompanyLocationRequest, error)
	ListMine(userID uint) ([]model.CompanyLocationRequest, error)
	ListAll(filter repository.LocationRequestFilter) ([]model.CompanyLocationRequest, int64, error)
	Approve(requestID uint, reviewerID uint, note string) (*model.CompanyLocationRequest, error)
	Reject(requestID uint, reviewerID uint, note string) (*model.CompanyLocationRequest, error)
}

type locationRequestService struct {
	db               *gorm.DB
	requestRepo      repository.LocationRequestRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

func NewLocationRequestService(
	db *gorm.DB,
	requestRepo repository.LocationRequestRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) LocationRequestService {
	return &locationRequestService{
		db:               db,
		requestRepo:      requestRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *locationRequestService) Submit(userID uint, input LocationRequestInput) (*model.CompanyLocationRequest, error) {
	logger.Info("Submitting company location request", map[string]interface{}{
		"user_id":      userID,
		"company_name": input.CompanyName,
	})

	// HTTP 바인딩과 별개로 주소는 여기서도 검증한다. 시드 같은 다른 호출자 대비
	if strings.TrimSpace(input.CompanyAddress) == "" {
		return nil, ErrCompanyAddressRequired
	}

	if input.Latitude < -90 || input.Latitude > 90 ||
		input.Longitude < -180 || input.Longitude > 180 {
		return nil, ErrInvalidCoordinates
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 대기 중인 요청이 이미 있으면 거부. DB의 부분 유니크 인덱스가 경합을 막는다
	hasPending, err := s.requestRepo.HasPendingByUserID(userID)
	if err != nil {
		return nil, err
	}
	if hasPending {
		logger.Warn("Duplicate pending location request", map[string]interface{}{
			"user_id": userID,
		})
		return nil, ErrLocationRequestAlreadyPending
	}

	request := &model.CompanyLocationRequest{
		UserID:         userID,
		CompanyName:    input.CompanyName,
		CompanyAddress: input.CompanyAddress,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Status:         model.RequestStatusPending,
		RequestedAt:    time.Now(),
	}

	if err := s.requestRepo.Create(request); err != nil {
		logger.Error("Failed to create company location request", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Company location request submitted", map[string]interface{}{
		"request_id": request.ID,
		"user_id":    userID,
	})
	return request, nil
}

func (s *locationRequestService) GetRequest(id uint, userID uint, role model.UserRole) (*model.CompanyLocationRequest, error) {
	request, err := s.requestRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationRequestNotFound
		}
		return nil, err
	}

	// 관리자가 아니면 본인 요청만 조회 가능
	if role != model.RoleAdmin && request.UserID != userID {
		return nil, ErrLocationRequestNotFound
	}

	return request, nil
}

func (s *locationRequestService) ListMine(userID uint) ([]model.CompanyLocationRequest, error) {
	return s.requestRepo.FindByUserID(userID)
}

func (s *locationRequestService) ListAll(filter repository.LocationRequestFilter) ([]model.CompanyLocationRequest, int64, error) {
	return s.requestRepo.FindAll(filter)
}

// Approve 요청을 승인하고 신청자의 프로필에 회사 위치를 반영한다
// 상태 전이와 프로필 갱신, 알림 생성이 한 트랜잭션으로 묶인다
func (s *locationRequestService) Approve(requestID uint, reviewerID uint, note string) (*model.CompanyLocationRequest, error) {
	logger.Info("Approving company location request", map[string]interface{}{
		"request_id":  requestID,
		"reviewer_id": reviewerID,
	})

	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationRequestNotFound
		}
		return nil, err
	}

	now := time.Now()

	tx := s.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin transaction for Approve", tx.Error)
		return nil, tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic in Approve, transaction rolled back", fmt.Errorf("%v", r))
			panic(r)
		}
	}()

	// pending 상태일 때만 전이 - 동시 승인/반려 경합 방지
	result := tx.Model(&model.CompanyLocationRequest{}).
		Where("id = ? AND status = ?", requestID, model.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      model.RequestStatusApproved,
			"reviewed_at": now,
			"reviewed_by": reviewerID,
			"review_note": note,
		})
	if result.Error != nil {
		tx.Rollback()
		logger.Error("Failed to update request status", result.Error, map[string]interface{}{
			"request_id": requestID,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		logger.Warn("Request already reviewed", map[string]interface{}{
			"request_id": requestID,
			"status":     request.Status,
		})
		return nil, ErrLocationRequestAlreadyReviewed
	}

	// 신청자 프로필에 승인된 회사 위치 반영
	if err := tx.Model(&model.User{}).
		Where("id = ?", request.UserID).
		Updates(map[string]interface{}{
			"company_name":      request.CompanyName,
			"company_address":   request.CompanyAddress,
			"company_latitude":  request.Latitude,
			"company_longitude": request.Longitude,
		}).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to project approved location onto user profile", err, map[string]interface{}{
			"request_id": requestID,
			"user_id":    request.UserID,
		})
		return nil, err
	}

	notification := model.Notification{
		UserID:    request.UserID,
		Type:      model.NotificationLocationApproved,
		Message:   fmt.Sprintf("%s 위치 등록 요청이 승인되었습니다", request.CompanyName),
		RequestID: &request.ID,
	}
	if err := tx.Create(&notification).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create approval notification", err, map[string]interface{}{
			"request_id": requestID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit Approve transaction", err)
		return nil, err
	}

	logger.Info("Company location request approved", map[string]interface{}{
		"request_id": requestID,
		"user_id":    request.UserID,
	})

	return s.requestRepo.FindByID(requestID)
}

// Reject 요청을 반려한다. 프로필은 건드리지 않는다
func (s *locationRequestService) Reject(requestID uint, reviewerID uint, note string) (*model.CompanyLocationRequest, error) {
	logger.Info("Rejecting company location request", map[string]interface{}{
		"request_id":  requestID,
		"reviewer_id": reviewerID,
	})

	// 승인과 달리 반려는 사유가 필수다
	if strings.TrimSpace(note) == "" {
		return nil, ErrReviewNoteRequired
	}

	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationRequestNotFound
		}
		return nil, err
	}

	now := time.Now()

	tx := s.db.Begin()
	if tx.Error != nil {
		logger.Error("Failed to begin transaction for Reject", tx.Error)
		return nil, tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic in Reject, transaction rolled back", fmt.Errorf("%v", r))
			panic(r)
		}
	}()

	result := tx.Model(&model.CompanyLocationRequest{}).
		Where("id = ? AND status = ?", requestID, model.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      model.RequestStatusRejected,
			"reviewed_at": now,
			"reviewed_by": reviewerID,
			"review_note": note,
		})
	if result.Error != nil {
		tx.Rollback()
		logger.Error("Failed to update request status", result.Error, map[string]interface{}{
			"request_id": requestID,
		})
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		logger.Warn("Request already reviewed", map[string]interface{}{
			"request_id": requestID,
			"status":     request.Status,
		})
		return nil, ErrLocationRequestAlreadyReviewed
	}

	notification := model.Notification{
		UserID:    request.UserID,
		Type:      model.NotificationLocationRejected,
		Message:   fmt.Sprintf("%s 위치 등록 요청이 반려되었습니다", request.CompanyName),
		RequestID: &request.ID,
	}
	if err := tx.Create(&notification).Error; err != nil {
		tx.Rollback()
		logger.Error("Failed to create rejection notification", err, map[string]interface{}{
			"request_id": requestID,
		})
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit Reject transaction", err)
		return nil, err
	}

	logger.Info("Company location request rejected", map[string]interface{}{
		"request_id": requestID,
		"user_id":    request.UserID,
	})

	return s.requestRepo.FindByID(requestID)
}
