package service

import (
	"errors"
	"sort"
	"time"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/pkg/logger"
	"github.com/obaplab/obap-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound        = errors.New("식당을 찾을 수 없습니다")
	ErrRestaurantAccessDenied    = errors.New("식당 접근 권한이 없습니다")
	ErrDistanceSortNeedsLocation = errors.New("거리순 정렬에는 중심 좌표가 필요합니다")
	ErrInvalidCoordinates        = errors.New("위도/경도 값이 유효하지 않습니다")
)

// 수정 요청에서 반영을 허용하는 컬럼
var restaurantUpdatableFields = map[string]bool{
	"name":         true,
	"category":     true,
	"phone":        true,
	"address":      true,
	"road_address": true,
	"latitude":     true,
	"longitude":    true,
	"place_url":    true,
	"price_tier":   true,
	"description":  true,
	"opening_date": true,
}

type RestaurantListOptions struct {
	Latitude        *float64
	Longitude       *float64
	RadiusMeters    float64
	Category        string
	PriceTier       string
	Search          string
	NewlyOpenedOnly bool
	SortBy          string // distance | name | rating | review_count | newest
	Page            int
	Limit           int
	IncludeMenus    bool
}

type RestaurantListResult struct {
	Restaurants []model.RestaurantWithDistance
	Total       int64
	Page        int
	Limit       int
}

type RestaurantService interface {
	ListRestaurants(opts RestaurantListOptions) (*RestaurantListResult, error)
	GetRestaurant(id uint, latitude, longitude *float64) (*model.RestaurantWithDistance, error)
	CreateRestaurant(userID uint, restaurant *model.Restaurant) (*model.Restaurant, error)
	UpdateRestaurant(id uint, userID uint, role model.UserRole, fields map[string]interface{}) (*model.Restaurant, error)
	DeleteRestaurant(id uint, userID uint, role model.UserRole) error
}

type restaurantService struct {
	restaurantRepo     repository.RestaurantRepository
	defaultRadiusMeter float64
}

func NewRestaurantService(restaurantRepo repository.RestaurantRepository, defaultRadiusMeters float64) RestaurantService {
	return &restaurantService{
		restaurantRepo:     restaurantRepo,
		defaultRadiusMeter: defaultRadiusMeters,
	}
}

func (s *restaurantService) ListRestaurants(opts RestaurantListOptions) (*RestaurantListResult, error) {
	logger.Info("Listing restaurants", map[string]interface{}{
		"has_center": opts.Latitude != nil && opts.Longitude != nil,
		"category":   opts.Category,
		"sort_by":    opts.SortBy,
	})

	hasCenter := opts.Latitude != nil && opts.Longitude != nil
	if (opts.Latitude != nil) != (opts.Longitude != nil) {
		return nil, ErrInvalidCoordinates
	}
	if hasCenter {
		if *opts.Latitude < -90 || *opts.Latitude > 90 || *opts.Longitude < -180 || *opts.Longitude > 180 {
			return nil, ErrInvalidCoordinates
		}
	}
	if opts.SortBy == "distance" && !hasCenter {
		return nil, ErrDistanceSortNeedsLocation
	}

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	filter := repository.RestaurantFilter{
		Category:        opts.Category,
		PriceTier:       opts.PriceTier,
		Search:          opts.Search,
		NewlyOpenedOnly: opts.NewlyOpenedOnly,
		SortBy:          opts.SortBy,
		IncludeMenus:    opts.IncludeMenus,
	}

	if hasCenter {
		return s.listWithinRadius(opts, filter)
	}
	return s.listWithoutCenter(opts, filter)
}

// listWithinRadius 경계 상자 후보를 가져와 메모리에서 정밀 필터링한다
func (s *restaurantService) listWithinRadius(opts RestaurantListOptions, filter repository.RestaurantFilter) (*RestaurantListResult, error) {
	radius := opts.RadiusMeters
	if radius <= 0 {
		radius = s.defaultRadiusMeter
	}

	candidates, err := s.restaurantRepo.FindCandidatesWithinRadius(*opts.Latitude, *opts.Longitude, radius, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	annotated := make([]model.RestaurantWithDistance, 0, len(candidates))
	for _, candidate := range candidates {
		distance := util.CalculateDistanceMeters(*opts.Latitude, *opts.Longitude, candidate.Latitude, candidate.Longitude)
		if distance > radius {
			continue
		}
		walking := util.WalkingMinutes(distance)
		annotated = append(annotated, model.RestaurantWithDistance{
			Restaurant:     candidate,
			DistanceMeters: &distance,
			WalkingMinutes: &walking,
			NewlyOpened:    candidate.IsNewlyOpened(now),
		})
	}

	switch opts.SortBy {
	case "name":
		sort.Slice(annotated, func(i, j int) bool {
			return annotated[i].Name < annotated[j].Name
		})
	case "rating":
		sort.Slice(annotated, func(i, j int) bool {
			return annotated[i].AvgRating > annotated[j].AvgRating
		})
	case "review_count":
		sort.Slice(annotated, func(i, j int) bool {
			return annotated[i].ReviewCount > annotated[j].ReviewCount
		})
	case "newest", "created_at":
		sort.Slice(annotated, func(i, j int) bool {
			return annotated[i].CreatedAt.After(annotated[j].CreatedAt)
		})
	default:
		// 중심 좌표가 있으면 기본은 거리순
		sort.Slice(annotated, func(i, j int) bool {
			return *annotated[i].DistanceMeters < *annotated[j].DistanceMeters
		})
	}

	total := int64(len(annotated))
	start := (opts.Page - 1) * opts.Limit
	if start > len(annotated) {
		start = len(annotated)
	}
	end := start + opts.Limit
	if end > len(annotated) {
		end = len(annotated)
	}

	logger.Info("Restaurants listed within radius", map[string]interface{}{
		"candidates": len(candidates),
		"in_radius":  total,
		"page":       opts.Page,
	})

	return &RestaurantListResult{
		Restaurants: annotated[start:end],
		Total:       total,
		Page:        opts.Page,
		Limit:       opts.Limit,
	}, nil
}

// listWithoutCenter 필터/정렬/페이지네이션을 모두 DB에 위임한다
func (s *restaurantService) listWithoutCenter(opts RestaurantListOptions, filter repository.RestaurantFilter) (*RestaurantListResult, error) {
	filter.Page = opts.Page
	filter.Limit = opts.Limit

	restaurants, total, err := s.restaurantRepo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	results := make([]model.RestaurantWithDistance, 0, len(restaurants))
	for _, restaurant := range restaurants {
		results = append(results, model.RestaurantWithDistance{
			Restaurant:  restaurant,
			NewlyOpened: restaurant.IsNewlyOpened(now),
		})
	}

	return &RestaurantListResult{
		Restaurants: results,
		Total:       total,
		Page:        opts.Page,
		Limit:       opts.Limit,
	}, nil
}

func (s *restaurantService) GetRestaurant(id uint, latitude, longitude *float64) (*model.RestaurantWithDistance, error) {
	restaurant, err := s.restaurantRepo.FindByID(id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	result := &model.RestaurantWithDistance{
		Restaurant:  *restaurant,
		NewlyOpened: restaurant.IsNewlyOpened(time.Now()),
	}

	if latitude != nil && longitude != nil {
		distance := util.CalculateDistanceMeters(*latitude, *longitude, restaurant.Latitude, restaurant.Longitude)
		walking := util.WalkingMinutes(distance)
		result.DistanceMeters = &distance
		result.WalkingMinutes = &walking
	}

	return result, nil
}

func (s *restaurantService) CreateRestaurant(userID uint, restaurant *model.Restaurant) (*model.Restaurant, error) {
	logger.Info("Creating restaurant", map[string]interface{}{
		"name":    restaurant.Name,
		"user_id": userID,
	})

	if restaurant.Latitude < -90 || restaurant.Latitude > 90 ||
		restaurant.Longitude < -180 || restaurant.Longitude > 180 {
		return nil, ErrInvalidCoordinates
	}

	restaurant.CreatedBy = &userID

	if err := s.restaurantRepo.Create(restaurant); err != nil {
		logger.Error("Failed to create restaurant", err, map[string]interface{}{
			"name": restaurant.Name,
		})
		return nil, err
	}

	logger.Info("Restaurant created", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
	})
	return restaurant, nil
}

func (s *restaurantService) UpdateRestaurant(id uint, userID uint, role model.UserRole, fields map[string]interface{}) (*model.Restaurant, error) {
	logger.Info("Updating restaurant", map[string]interface{}{
		"restaurant_id": id,
		"user_id":       userID,
	})

	existing, err := s.restaurantRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Restaurant not found for update", map[string]interface{}{
				"restaurant_id": id,
			})
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if !canUpdateRestaurant(existing, userID, role) {
		logger.Warn("Restaurant update forbidden", map[string]interface{}{
			"restaurant_id": id,
			"user_id":       userID,
			"role":          role,
		})
		return nil, ErrRestaurantAccessDenied
	}

	// 허용 컬럼 외 입력은 조용히 무시
	allowed := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		if restaurantUpdatableFields[key] {
			allowed[key] = value
		}
	}
	if len(allowed) == 0 {
		return existing, nil
	}

	if lat, ok := allowed["latitude"].(float64); ok && (lat < -90 || lat > 90) {
		return nil, ErrInvalidCoordinates
	}
	if lng, ok := allowed["longitude"].(float64); ok && (lng < -180 || lng > 180) {
		return nil, ErrInvalidCoordinates
	}

	if err := s.restaurantRepo.UpdateFields(id, allowed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		logger.Error("Failed to update restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return nil, err
	}

	updated, err := s.restaurantRepo.FindByID(id, false)
	if err != nil {
		return nil, err
	}

	logger.Info("Restaurant updated", map[string]interface{}{
		"restaurant_id": id,
	})
	return updated, nil
}

func (s *restaurantService) DeleteRestaurant(id uint, userID uint, role model.UserRole) error {
	logger.Info("Deleting restaurant", map[string]interface{}{
		"restaurant_id": id,
		"user_id":       userID,
	})

	existing, err := s.restaurantRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRestaurantNotFound
		}
		return err
	}

	if !canDeleteRestaurant(existing, userID, role) {
		logger.Warn("Restaurant delete forbidden", map[string]interface{}{
			"restaurant_id": id,
			"user_id":       userID,
			"role":          role,
		})
		return ErrRestaurantAccessDenied
	}

	if err := s.restaurantRepo.Delete(id); err != nil {
		logger.Error("Failed to delete restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return err
	}

	logger.Info("Restaurant deleted", map[string]interface{}{
		"restaurant_id": id,
	})
	return nil
}

// canUpdateRestaurant 등록자 본인 또는 직장인/관리자 역할이면 수정 가능
func canUpdateRestaurant(restaurant *model.Restaurant, userID uint, role model.UserRole) bool {
	if role == model.RoleEmployee || role == model.RoleAdmin {
		return true
	}
	return restaurant.CreatedBy != nil && *restaurant.CreatedBy == userID
}

// canDeleteRestaurant 삭제는 등록자 본인만 가능
// 수집 데이터(등록자 없음)는 관리자가 정리한다
func canDeleteRestaurant(restaurant *model.Restaurant, userID uint, role model.UserRole) bool {
	if restaurant.CreatedBy == nil {
		return role == model.RoleAdmin
	}
	return *restaurant.CreatedBy == userID
}
