package repository

import (
	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/pkg/logger"
	"gorm.io/gorm"
)

type LocationRequestFilter struct {
	Status string
	Page   int
	Limit  int
}

type LocationRequestRepository interface {
	Create(request *model.CompanyLocationRequest) error
	FindByID(id uint) (*model.CompanyLocationRequest, error)
	FindByUserID(userID uint) ([]model.CompanyLocationRequest, error)
	FindAll(filter LocationRequestFilter) ([]model.CompanyLocationRequest, int64, error)
	HasPendingByUserID(userID uint) (bool, error)
}

type locationRequestRepository struct {
	db *gorm.DB
}

func NewLocationRequestRepository(db *gorm.DB) LocationRequestRepository {
	return &locationRequestRepository{db: db}
}

func (r *locationRequestRepository) Create(request *model.CompanyLocationRequest) error {
	logger.Debug("Creating company location request in database", map[string]interface{}{
		"user_id":      request.UserID,
		"company_name": request.CompanyName,
	})

	if err := r.db.Create(request).Error; err != nil {
		logger.Error("Failed to create company location request", err, map[string]interface{}{
			"user_id": request.UserID,
		})
		return err
	}

	logger.Debug("Company location request created", map[string]interface{}{
		"request_id": request.ID,
		"user_id":    request.UserID,
	})
	return nil
}

func (r *locationRequestRepository) FindByID(id uint) (*model.CompanyLocationRequest, error) {
	logger.Debug("Finding company location request by ID", map[string]interface{}{
		"request_id": id,
	})

	var request model.CompanyLocationRequest
	if err := r.db.First(&request, id).Error; err != nil {
		logger.Error("Failed to find company location request", err, map[string]interface{}{
			"request_id": id,
		})
		return nil, err
	}

	return &request, nil
}

func (r *locationRequestRepository) FindByUserID(userID uint) ([]model.CompanyLocationRequest, error) {
	logger.Debug("Finding company location requests by user ID", map[string]interface{}{
		"user_id": userID,
	})

	var requests []model.CompanyLocationRequest
	if err := r.db.Where("user_id = ?", userID).
		Order("requested_at DESC").
		Find(&requests).Error; err != nil {
		logger.Error("Failed to find company location requests by user ID", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return requests, nil
}

func (r *locationRequestRepository) FindAll(filter LocationRequestFilter) ([]model.CompanyLocationRequest, int64, error) {
	logger.Debug("Finding company location requests", map[string]interface{}{
		"status": filter.Status,
	})

	query := r.db.Model(&model.CompanyLocationRequest{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count company location requests", err, nil)
		return nil, 0, err
	}

	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var requests []model.CompanyLocationRequest
	if err := query.Order("requested_at DESC").Find(&requests).Error; err != nil {
		logger.Error("Failed to find company location requests", err, nil)
		return nil, 0, err
	}

	logger.Debug("Company location requests found", map[string]interface{}{
		"count": len(requests),
		"total": total,
	})
	return requests, total, nil
}

func (r *locationRequestRepository) HasPendingByUserID(userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.CompanyLocationRequest{}).
		Where("user_id = ? AND status = ?", userID, model.RequestStatusPending).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count pending company location requests", err, map[string]interface{}{
			"user_id": userID,
		})
		return false, err
	}
	return count > 0, nil
}
