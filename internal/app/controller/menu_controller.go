package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/service"
	apperrors "github.com/obaplab/obap-backend/internal/errors"
	"github.com/obaplab/obap-backend/internal/middleware"
)

type MenuController struct {
	menuService service.MenuService
}

func NewMenuController(menuService service.MenuService) *MenuController {
	return &MenuController{
		menuService: menuService,
	}
}

type CreateMenuRequest struct {
	RestaurantID uint   `json:"restaurant_id"`
	MenuName     string `json:"menu_name" binding:"required"`
	Price        *int   `json:"price" binding:"required,gte=0"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	IsSignature  bool   `json:"is_signature"`
	IsAvailable  *bool  `json:"is_available"`
}

type UpdateMenuRequest struct {
	MenuName    *string `json:"menu_name"`
	Price       *int    `json:"price"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	IsSignature *bool   `json:"is_signature"`
	IsAvailable *bool   `json:"is_available"`
}

// ListMenus returns menus, signature first. Scoped to a restaurant via
// the path (/restaurants/:id/menus) or the restaurant_id query param;
// without either it lists every available menu.
// GET /api/v1/menus, GET /api/v1/restaurants/:id/menus
func (ctrl *MenuController) ListMenus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	includeUnavailable := c.Query("include_unavailable") == "true"

	var restaurantID *uint
	if c.Param("id") != "" {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		restaurantID = &id
	} else if raw := c.Query("restaurant_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "restaurant_id가 올바르지 않습니다")
			return
		}
		id := uint(parsed)
		restaurantID = &id
	}

	var (
		menus []model.Menu
		err   error
	)
	if restaurantID != nil {
		menus, err = ctrl.menuService.ListMenus(*restaurantID, includeUnavailable)
	} else {
		menus, err = ctrl.menuService.ListAllMenus(includeUnavailable)
	}
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "식당을 찾을 수 없습니다")
			return
		}
		log.Error("Failed to list menus", err)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list menus")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"menus": menus,
		"count": len(menus),
	})
}

// GetMenu returns a single menu
// GET /api/v1/menus/:id
func (ctrl *MenuController) GetMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	menuID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	menu, err := ctrl.menuService.GetMenu(menuID)
	if err != nil {
		if errors.Is(err, service.ErrMenuNotFound) {
			apperrors.NotFound(c, apperrors.MenuNotFound, "메뉴를 찾을 수 없습니다")
			return
		}
		log.Error("Failed to fetch menu", err, map[string]interface{}{
			"menu_id": menuID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get menu")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"menu": menu,
	})
}

// CreateMenu adds a menu to a restaurant (admin only). The restaurant
// comes from the nested path or the restaurant_id body field.
// POST /api/v1/menus, POST /api/v1/restaurants/:id/menus
func (ctrl *MenuController) CreateMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req CreateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid menu creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	restaurantID := req.RestaurantID
	if c.Param("id") != "" {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		restaurantID = id
	}
	if restaurantID == 0 {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "restaurant_id는 필수입니다")
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	menu := &model.Menu{
		MenuName:    req.MenuName,
		Price:       *req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsSignature: req.IsSignature,
		IsAvailable: available,
	}

	created, err := ctrl.menuService.CreateMenu(restaurantID, userID, role, menu)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "식당을 찾을 수 없습니다")
		case errors.Is(err, service.ErrMenuAdminOnly):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "메뉴 관리는 관리자만 가능합니다")
		case errors.Is(err, service.ErrMenuInvalidPrice):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "가격은 0원 이상이어야 합니다")
		default:
			log.Error("Failed to create menu", err, map[string]interface{}{
				"restaurant_id": restaurantID,
				"user_id":       userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create menu")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "메뉴가 등록되었습니다",
		"menu":    created,
	})
}

// UpdateMenu updates a menu (admin only)
// PATCH /api/v1/menus/:id
func (ctrl *MenuController) UpdateMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}
	role, _ := middleware.GetUserRole(c)

	menuID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	updated, err := ctrl.menuService.UpdateMenu(menuID, userID, role, service.MenuMutation{
		MenuName:    req.MenuName,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsSignature: req.IsSignature,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMenuNotFound):
			apperrors.NotFound(c, apperrors.MenuNotFound, "메뉴를 찾을 수 없습니다")
		case errors.Is(err, service.ErrMenuAdminOnly):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "메뉴 관리는 관리자만 가능합니다")
		case errors.Is(err, service.ErrMenuInvalidPrice):
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "가격은 0원 이상이어야 합니다")
		default:
			log.Error("Failed to update menu", err, map[string]interface{}{
				"menu_id": menuID,
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update menu")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "메뉴가 수정되었습니다",
		"menu":    updated,
	})
}

// DeleteMenu removes a menu (admin only)
// DELETE /api/v1/menus/:id
func (ctrl *MenuController) DeleteMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}
	role, _ := middleware.GetUserRole(c)

	menuID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.menuService.DeleteMenu(menuID, userID, role); err != nil {
		switch {
		case errors.Is(err, service.ErrMenuNotFound):
			apperrors.NotFound(c, apperrors.MenuNotFound, "메뉴를 찾을 수 없습니다")
		case errors.Is(err, service.ErrMenuAdminOnly):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, "메뉴 관리는 관리자만 가능합니다")
		default:
			log.Error("Failed to delete menu", err, map[string]interface{}{
				"menu_id": menuID,
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete menu")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "메뉴가 삭제되었습니다",
	})
}
