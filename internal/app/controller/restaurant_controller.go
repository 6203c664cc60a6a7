package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/service"
	apperrors "github.com/obaplab/obap-backend/internal/errors"
	"github.com/obaplab/obap-backend/internal/middleware"
)

type RestaurantController struct {
	restaurantService service.RestaurantService
}

func NewRestaurantController(restaurantService service.RestaurantService) *RestaurantController {
	return &RestaurantController{
		restaurantService: restaurantService,
	}
}

type CreateRestaurantRequest struct {
	Name        string          `json:"name" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address" binding:"required"`
	RoadAddress string          `json:"road_address"`
	Latitude    float64         `json:"latitude" binding:"required"`
	Longitude   float64         `json:"longitude" binding:"required"`
	PlaceURL    string          `json:"place_url"`
	PriceTier   model.PriceTier `json:"price_tier"`
	Description string          `json:"description"`
	OpeningDate *time.Time      `json:"opening_date"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "잘못된 ID 형식입니다")
		return 0, false
	}
	return uint(id), true
}

func parseFloatQuery(c *gin.Context, name string) (*float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, name+" 값이 올바르지 않습니다")
		return nil, false
	}
	return &v, true
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// ListRestaurants returns restaurants, optionally ranked by distance
// GET /api/v1/restaurants
func (ctrl *RestaurantController) ListRestaurants(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	lat, ok := parseFloatQuery(c, "lat")
	if !ok {
		return
	}
	lng, ok := parseFloatQuery(c, "lng")
	if !ok {
		return
	}

	radius := 0.0
	if raw := c.Query("radius"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "radius 값이 올바르지 않습니다")
			return
		}
		radius = v
	}

	opts := service.RestaurantListOptions{
		Latitude:        lat,
		Longitude:       lng,
		RadiusMeters:    radius,
		Category:        c.Query("category"),
		PriceTier:       c.Query("price_tier"),
		Search:          c.Query("search"),
		NewlyOpenedOnly: c.Query("newly_opened") == "true",
		SortBy:          c.Query("sort"),
		Page:            parseIntQuery(c, "page", 1),
		Limit:           parseIntQuery(c, "limit", 20),
		IncludeMenus:    c.Query("include_menus") == "true",
	}

	result, err := ctrl.restaurantService.ListRestaurants(opts)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCoordinates):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "좌표 값이 올바르지 않습니다")
		case errors.Is(err, service.ErrDistanceSortNeedsLocation):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "거리순 정렬에는 위치 정보가 필요합니다")
		default:
			log.Error("Failed to list restaurants", err, nil)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list restaurants")
		}
		return
	}

	totalPages := 0
	if result.Limit > 0 {
		totalPages = int((result.Total + int64(result.Limit) - 1) / int64(result.Limit))
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": result.Restaurants,
		"meta": gin.H{
			"total":       result.Total,
			"page":        result.Page,
			"limit":       result.Limit,
			"total_pages": totalPages,
		},
	})
}

// GetRestaurant returns a single restaurant
// GET /api/v1/restaurants/:id
func (ctrl *RestaurantController) GetRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	lat, ok := parseFloatQuery(c, "lat")
	if !ok {
		return
	}
	lng, ok := parseFloatQuery(c, "lng")
	if !ok {
		return
	}

	restaurant, err := ctrl.restaurantService.GetRestaurant(id, lat, lng)
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "식당을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get restaurant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
	})
}

// CreateRestaurant registers a new restaurant (employee or admin)
// POST /api/v1/restaurants
func (ctrl *RestaurantController) CreateRestaurant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid restaurant creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	restaurant := &model.Restaurant{
		Name:        req.Name,
		Category:    req.Category,
		Phone:       req.Phone,
		Address:     req.Address,
		RoadAddress: req.RoadAddress,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		PlaceURL:    req.PlaceURL,
		PriceTier:   req.PriceTier,
		Description: req.Description,
		OpeningDate: req.OpeningDate,
	}

	created, err := ctrl.restaurantService.CreateRestaurant(userID, restaurant)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCoordinates) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "좌표 값이 올바르지 않습니다")
			return
		}
		log.Error("Failed to create restaurant", err, map[string]interface{}{
			"user_id": userID,
			"name":    req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create restaurant")
		return
	}

	log.Info("Restaurant created", map[string]interface{}{
		"restaurant_id": created.ID,
		"user_id":       userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message":    "식당이 등록되었습니다",
		"restaurant": created,
	})
}

// UpdateRestaurant partially updates a restaurant (creator or admin)
// PATCH /api/v1/restaurants/:id
func (ctrl *RestaurantController) UpdateRestaurant(c *gin.Context) {
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

	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "수정할 항목이 없습니다")
		return
	}

	updated, err := ctrl.restaurantService.UpdateRestaurant(id, userID, role, fields)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "식당을 찾을 수 없습니다")
		case errors.Is(err, service.ErrRestaurantAccessDenied):
			apperrors.Forbidden(c, "식당을 수정할 권한이 없습니다")
		case errors.Is(err, service.ErrInvalidCoordinates):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "좌표 값이 올바르지 않습니다")
		default:
			log.Error("Failed to update restaurant", err, map[string]interface{}{
				"restaurant_id": id,
				"user_id":       userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update restaurant")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "식당 정보가 수정되었습니다",
		"restaurant": updated,
	})
}

// DeleteRestaurant removes a restaurant (creator or admin)
// DELETE /api/v1/restaurants/:id
func (ctrl *RestaurantController) DeleteRestaurant(c *gin.Context) {
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

	if err := ctrl.restaurantService.DeleteRestaurant(id, userID, role); err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "식당을 찾을 수 없습니다")
		case errors.Is(err, service.ErrRestaurantAccessDenied):
			apperrors.Forbidden(c, "식당을 삭제할 권한이 없습니다")
		default:
			log.Error("Failed to delete restaurant", err, map[string]interface{}{
				"restaurant_id": id,
				"user_id":       userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete restaurant")
		}
		return
	}

	log.Info("Restaurant deleted", map[string]interface{}{
		"restaurant_id": id,
		"user_id":       userID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "식당이 삭제되었습니다",
	})
}
