package repository

import (
	"math"
	"time"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/pkg/logger"
	"gorm.io/gorm"
)

// 위도 1도당 거리 (m). 경도는 위도에 따라 보정한다
const metersPerDegreeLatitude = 111320.0

type RestaurantFilter struct {
	Category        string
	PriceTier       string
	Search          string
	NewlyOpenedOnly bool
	SortBy          string // name | rating | review_count | newest | created_at
	Page            int
	Limit           int
	IncludeMenus    bool
}

type RestaurantRepository interface {
	Create(restaurant *model.Restaurant) error
	BulkCreate(restaurants []model.Restaurant, batchSize int) error
	Update(restaurant *model.Restaurant) error
	UpdateFields(id uint, fields map[string]interface{}) error
	Delete(id uint) error
	FindByID(id uint, includeMenus bool) (*model.Restaurant, error)
	FindByNaverPlaceID(placeID string) (*model.Restaurant, error)
	FindAll(filter RestaurantFilter) ([]model.Restaurant, int64, error)
	FindCandidatesWithinRadius(latitude, longitude, radiusMeters float64, filter RestaurantFilter) ([]model.Restaurant, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(restaurant *model.Restaurant) error {
	logger.Debug("Creating restaurant in database", map[string]interface{}{
		"name":     restaurant.Name,
		"category": restaurant.Category,
	})

	if err := r.db.Create(restaurant).Error; err != nil {
		logger.Error("Failed to create restaurant in database", err, map[string]interface{}{
			"name": restaurant.Name,
		})
		return err
	}

	logger.Debug("Restaurant created in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
	})
	return nil
}

// BulkCreate 대량 등록용. XLSX 임포트에서 사용
func (r *restaurantRepository) BulkCreate(restaurants []model.Restaurant, batchSize int) error {
	if len(restaurants) == 0 {
		return nil
	}

	logger.Info("Bulk creating restaurants", map[string]interface{}{
		"count":      len(restaurants),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(restaurants, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create restaurants", err, map[string]interface{}{
			"count": len(restaurants),
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) Update(restaurant *model.Restaurant) error {
	logger.Debug("Updating restaurant in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
	})

	if err := r.db.Save(restaurant).Error; err != nil {
		logger.Error("Failed to update restaurant in database", err, map[string]interface{}{
			"restaurant_id": restaurant.ID,
		})
		return err
	}

	return nil
}

// UpdateFields 허용된 컬럼만 부분 수정
func (r *restaurantRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	logger.Debug("Updating restaurant fields in database", map[string]interface{}{
		"restaurant_id": id,
		"field_count":   len(fields),
	})

	result := r.db.Model(&model.Restaurant{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update restaurant fields", result.Error, map[string]interface{}{
			"restaurant_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *restaurantRepository) Delete(id uint) error {
	logger.Debug("Deleting restaurant from database", map[string]interface{}{
		"restaurant_id": id,
	})

	if err := r.db.Delete(&model.Restaurant{}, id).Error; err != nil {
		logger.Error("Failed to delete restaurant from database", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return err
	}

	return nil
}

func (r *restaurantRepository) FindByID(id uint, includeMenus bool) (*model.Restaurant, error) {
	logger.Debug("Finding restaurant by ID", map[string]interface{}{
		"restaurant_id": id,
	})

	query := r.db.Model(&model.Restaurant{})
	if includeMenus {
		// 대표 메뉴 우선, 가격 오름차순
		query = query.Preload("Menus", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).
				Order("is_signature DESC, price ASC")
		})
	}

	var restaurant model.Restaurant
	if err := query.First(&restaurant, id).Error; err != nil {
		logger.Error("Failed to find restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return nil, err
	}

	logger.Debug("Restaurant found", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
	})
	return &restaurant, nil
}

func (r *restaurantRepository) FindByNaverPlaceID(placeID string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	err := r.db.Where("naver_place_id = ?", placeID).First(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) FindAll(filter RestaurantFilter) ([]model.Restaurant, int64, error) {
	logger.Debug("Finding restaurants", map[string]interface{}{
		"category":   filter.Category,
		"price_tier": filter.PriceTier,
		"search":     filter.Search,
	})

	query := r.applyFilter(r.db.Model(&model.Restaurant{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count restaurants", err, nil)
		return nil, 0, err
	}

	if filter.IncludeMenus {
		query = query.Preload("Menus", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).
				Order("is_signature DESC, price ASC")
		})
	}

	switch filter.SortBy {
	case "name":
		query = query.Order("name ASC")
	case "rating":
		query = query.Order("avg_rating DESC")
	case "review_count":
		query = query.Order("review_count DESC")
	default:
		// newest, created_at 모두 최신 등록순
		query = query.Order("created_at DESC")
	}

	if filter.Limit > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.Limit
		}
		query = query.Offset(offset).Limit(filter.Limit)
	}

	var restaurants []model.Restaurant
	if err := query.Find(&restaurants).Error; err != nil {
		logger.Error("Failed to find restaurants", err, nil)
		return nil, 0, err
	}

	logger.Debug("Restaurants found", map[string]interface{}{
		"count": len(restaurants),
		"total": total,
	})
	return restaurants, total, nil
}

// FindCandidatesWithinRadius 반경을 덮는 경계 상자로 후보를 조회한다
// 정확한 거리 필터링은 서비스 레이어에서 수행
func (r *restaurantRepository) FindCandidatesWithinRadius(latitude, longitude, radiusMeters float64, filter RestaurantFilter) ([]model.Restaurant, error) {
	logger.Debug("Finding restaurant candidates within radius", map[string]interface{}{
		"latitude":      latitude,
		"longitude":     longitude,
		"radius_meters": radiusMeters,
	})

	latDelta := radiusMeters / metersPerDegreeLatitude
	lngDelta := latDelta
	if cosLat := math.Cos(latitude * math.Pi / 180); cosLat > 0.01 {
		lngDelta = radiusMeters / (metersPerDegreeLatitude * cosLat)
	}

	query := r.applyFilter(r.db.Model(&model.Restaurant{}), filter).
		Where("latitude BETWEEN ? AND ?", latitude-latDelta, latitude+latDelta).
		Where("longitude BETWEEN ? AND ?", longitude-lngDelta, longitude+lngDelta)

	if filter.IncludeMenus {
		query = query.Preload("Menus", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).
				Order("is_signature DESC, price ASC")
		})
	}

	var restaurants []model.Restaurant
	if err := query.Find(&restaurants).Error; err != nil {
		logger.Error("Failed to find restaurant candidates within radius", err, map[string]interface{}{
			"latitude":  latitude,
			"longitude": longitude,
		})
		return nil, err
	}

	logger.Debug("Restaurant candidates found", map[string]interface{}{
		"count": len(restaurants),
	})
	return restaurants, nil
}

func (r *restaurantRepository) applyFilter(query *gorm.DB, filter RestaurantFilter) *gorm.DB {
	if filter.Category != "" {
		query = query.Where("LOWER(category) LIKE LOWER(?)", "%"+filter.Category+"%")
	}
	if filter.PriceTier != "" {
		query = query.Where("price_tier = ?", filter.PriceTier)
	}
	if filter.Search != "" {
		// 이름/분류/소개/주소 전체에서 대소문자 무시 부분 일치
		like := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(category) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)",
			like, like, like, like,
		)
	}
	if filter.NewlyOpenedOnly {
		cutoff := time.Now().AddDate(0, 0, -model.NewlyOpenedWindowDays)
		query = query.Where("opening_date IS NOT NULL AND opening_date >= ?", cutoff)
	}
	return query
}
