package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/internal/app/service"
	apperrors "github.com/obaplab/obap-backend/internal/errors"
	"github.com/obaplab/obap-backend/internal/middleware"
)

type LocationRequestController struct {
	locationRequestService service.LocationRequestService
}

func NewLocationRequestController(locationRequestService service.LocationRequestService) *LocationRequestController {
	return &LocationRequestController{
		locationRequestService: locationRequestService,
	}
}

// 회사명은 선택. 좌표는 0도 유효한 값이라 포인터로 받아 누락과 구분한다
type SubmitLocationRequestRequest struct {
	CompanyName    string   `json:"company_name"`
	CompanyAddress string   `json:"company_address"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}

type ReviewLocationRequestRequest struct {
	Note string `json:"note"`
}

// Submit files a company location registration request
// POST /api/v1/company-location-requests
func (ctrl *LocationRequestController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req SubmitLocationRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid location request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	// 누락된 필드를 응답 메시지에 그대로 적어준다
	var missing []string
	if strings.TrimSpace(req.CompanyAddress) == "" {
		missing = append(missing, "company_address")
	}
	if req.Latitude == nil {
		missing = append(missing, "latitude")
	}
	if req.Longitude == nil {
		missing = append(missing, "longitude")
	}
	if len(missing) > 0 {
		log.Warn("Missing location request fields", map[string]interface{}{
			"missing": missing,
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, strings.Join(missing, ", ")+" 값은 필수입니다")
		return
	}

	request, err := ctrl.locationRequestService.Submit(userID, service.LocationRequestInput{
		CompanyName:    req.CompanyName,
		CompanyAddress: req.CompanyAddress,
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLocationRequestAlreadyPending):
			apperrors.Conflict(c, apperrors.LocationRequestAlreadyPending, "이미 대기 중인 회사 위치 요청이 있습니다")
		case errors.Is(err, service.ErrCompanyAddressRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "회사 주소를 입력해야 합니다")
		case errors.Is(err, service.ErrInvalidCoordinates):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "좌표 값이 올바르지 않습니다")
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "사용자를 찾을 수 없습니다")
		default:
			log.Error("Failed to submit location request", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit location request")
		}
		return
	}

	log.Info("Location request submitted", map[string]interface{}{
		"request_id": request.ID,
		"user_id":    userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "회사 위치 등록 요청이 접수되었습니다",
		"request": request,
	})
}

// List returns location requests. Admins see every request with
// status/pagination filters; everyone else sees only their own.
// GET /api/v1/company-location-requests
func (ctrl *LocationRequestController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}
	role, _ := middleware.GetUserRole(c)

	if role == model.RoleAdmin {
		filter := repository.LocationRequestFilter{
			Status: c.Query("status"),
			Page:   parseIntQuery(c, "page", 1),
			Limit:  parseIntQuery(c, "limit", 20),
		}

		requests, total, err := ctrl.locationRequestService.ListAll(filter)
		if err != nil {
			log.Error("Failed to list location requests", err, map[string]interface{}{
				"reviewer_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list location requests")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"requests": requests,
			"total":    total,
			"page":     filter.Page,
			"limit":    filter.Limit,
		})
		return
	}

	requests, err := ctrl.locationRequestService.ListMine(userID)
	if err != nil {
		log.Error("Failed to list location requests", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list location requests")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"count":    len(requests),
	})
}

// GetRequest returns a single request (owner or admin)
// GET /api/v1/company-location-requests/:id
func (ctrl *LocationRequestController) GetRequest(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}
	role, _ := middleware.GetUserRole(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	request, err := ctrl.locationRequestService.GetRequest(id, userID, role)
	if err != nil {
		if errors.Is(err, service.ErrLocationRequestNotFound) {
			apperrors.NotFound(c, apperrors.LocationRequestNotFound, "회사 위치 요청을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch location request", err, map[string]interface{}{
			"request_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get location request")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request": request,
	})
}

// Approve approves a pending request and projects the company location
// onto the requester's profile (admin only)
// POST /api/v1/company-location-requests/:id/approve
func (ctrl *LocationRequestController) Approve(c *gin.Context) {
	ctrl.review(c, ctrl.locationRequestService.Approve, "승인되었습니다")
}

// Reject rejects a pending request (admin only)
// POST /api/v1/company-location-requests/:id/reject
func (ctrl *LocationRequestController) Reject(c *gin.Context) {
	ctrl.review(c, ctrl.locationRequestService.Reject, "반려되었습니다")
}

func (ctrl *LocationRequestController) review(c *gin.Context, fn func(uint, uint, string) (*model.CompanyLocationRequest, error), resultMessage string) {
	log := middleware.GetLoggerFromContext(c)

	reviewerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewLocationRequestRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
			return
		}
	}

	request, err := fn(id, reviewerID, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLocationRequestNotFound):
			apperrors.NotFound(c, apperrors.LocationRequestNotFound, "회사 위치 요청을 찾을 수 없습니다")
		case errors.Is(err, service.ErrLocationRequestAlreadyReviewed):
			apperrors.Conflict(c, apperrors.LocationRequestAlreadyReviewed, "이미 처리된 요청입니다")
		case errors.Is(err, service.ErrReviewNoteRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "반려 사유를 입력해야 합니다")
		default:
			log.Error("Failed to review location request", err, map[string]interface{}{
				"request_id":  id,
				"reviewer_id": reviewerID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "review location request")
		}
		return
	}

	log.Info("Location request reviewed", map[string]interface{}{
		"request_id":  id,
		"reviewer_id": reviewerID,
		"status":      request.Status,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "회사 위치 요청이 " + resultMessage,
		"request": request,
	})
}
