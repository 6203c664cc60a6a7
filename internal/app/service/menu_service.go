package service

import (
	"errors"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrMenuNotFound     = errors.New("메뉴를 찾을 수 없습니다")
	ErrMenuInvalidPrice = errors.New("가격은 0 이상이어야 합니다")
	ErrMenuAdminOnly    = errors.New("메뉴 관리는 관리자만 가능합니다")
)

type MenuMutation struct {
	MenuName    *string
	Price       *int
	Description *string
	ImageURL    *string
	IsSignature *bool
	IsAvailable *bool
}

type MenuService interface {
	ListMenus(restaurantID uint, includeUnavailable bool) ([]model.Menu, error)
	ListAllMenus(includeUnavailable bool) ([]model.Menu, error)
	GetMenu(menuID uint) (*model.Menu, error)
	CreateMenu(restaurantID uint, userID uint, role model.UserRole, menu *model.Menu) (*model.Menu, error)
	UpdateMenu(menuID uint, userID uint, role model.UserRole, input MenuMutation) (*model.Menu, error)
	DeleteMenu(menuID uint, userID uint, role model.UserRole) error
}

type menuService struct {
	menuRepo       repository.MenuRepository
	restaurantRepo repository.RestaurantRepository
}

func NewMenuService(menuRepo repository.MenuRepository, restaurantRepo repository.RestaurantRepository) MenuService {
	return &menuService{
		menuRepo:       menuRepo,
		restaurantRepo: restaurantRepo,
	}
}

func (s *menuService) ListMenus(restaurantID uint, includeUnavailable bool) ([]model.Menu, error) {
	if _, err := s.restaurantRepo.FindByID(restaurantID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	return s.menuRepo.FindByRestaurantID(restaurantID, includeUnavailable)
}

func (s *menuService) ListAllMenus(includeUnavailable bool) ([]model.Menu, error) {
	return s.menuRepo.FindAll(includeUnavailable)
}

func (s *menuService) GetMenu(menuID uint) (*model.Menu, error) {
	menu, err := s.menuRepo.FindByID(menuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}
	return menu, nil
}

func (s *menuService) CreateMenu(restaurantID uint, userID uint, role model.UserRole, menu *model.Menu) (*model.Menu, error) {
	logger.Info("Creating menu", map[string]interface{}{
		"restaurant_id": restaurantID,
		"menu_name":     menu.MenuName,
		"user_id":       userID,
	})

	if role != model.RoleAdmin {
		logger.Warn("Menu creation forbidden", map[string]interface{}{
			"restaurant_id": restaurantID,
			"user_id":       userID,
			"role":          string(role),
		})
		return nil, ErrMenuAdminOnly
	}

	if _, err := s.restaurantRepo.FindByID(restaurantID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if menu.Price < 0 {
		return nil, ErrMenuInvalidPrice
	}

	menu.RestaurantID = restaurantID
	if err := s.menuRepo.Create(menu); err != nil {
		logger.Error("Failed to create menu", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}

	logger.Info("Menu created", map[string]interface{}{
		"menu_id":       menu.ID,
		"restaurant_id": restaurantID,
	})
	return menu, nil
}

func (s *menuService) UpdateMenu(menuID uint, userID uint, role model.UserRole, input MenuMutation) (*model.Menu, error) {
	logger.Info("Updating menu", map[string]interface{}{
		"menu_id": menuID,
		"user_id": userID,
	})

	if role != model.RoleAdmin {
		logger.Warn("Menu update forbidden", map[string]interface{}{
			"menu_id": menuID,
			"user_id": userID,
		})
		return nil, ErrMenuAdminOnly
	}

	menu, err := s.menuRepo.FindByID(menuID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, err
	}

	if input.MenuName != nil {
		menu.MenuName = *input.MenuName
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrMenuInvalidPrice
		}
		menu.Price = *input.Price
	}
	if input.Description != nil {
		menu.Description = *input.Description
	}
	if input.ImageURL != nil {
		menu.ImageURL = *input.ImageURL
	}
	if input.IsSignature != nil {
		menu.IsSignature = *input.IsSignature
	}
	if input.IsAvailable != nil {
		menu.IsAvailable = *input.IsAvailable
	}

	if err := s.menuRepo.Update(menu); err != nil {
		logger.Error("Failed to update menu", err, map[string]interface{}{
			"menu_id": menuID,
		})
		return nil, err
	}

	logger.Info("Menu updated", map[string]interface{}{
		"menu_id": menuID,
	})
	return menu, nil
}

func (s *menuService) DeleteMenu(menuID uint, userID uint, role model.UserRole) error {
	logger.Info("Deleting menu", map[string]interface{}{
		"menu_id": menuID,
		"user_id": userID,
	})

	if role != model.RoleAdmin {
		logger.Warn("Menu delete forbidden", map[string]interface{}{
			"menu_id": menuID,
			"user_id": userID,
		})
		return ErrMenuAdminOnly
	}

	if _, err := s.menuRepo.FindByID(menuID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuNotFound
		}
		return err
	}

	if err := s.menuRepo.Delete(menuID); err != nil {
		logger.Error("Failed to delete menu", err, map[string]interface{}{
			"menu_id": menuID,
		})
		return err
	}

	logger.Info("Menu deleted", map[string]interface{}{
		"menu_id": menuID,
	})
	return nil
}
