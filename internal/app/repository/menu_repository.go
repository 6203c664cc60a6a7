package repository

import (
	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/pkg/logger"
	"gorm.io/gorm"
)

type MenuRepository interface {
	Create(menu *model.Menu) error
	BulkCreate(menus []model.Menu, batchSize int) error
	Update(menu *model.Menu) error
	Delete(id uint) error
	FindByID(id uint) (*model.Menu, error)
	FindByRestaurantID(restaurantID uint, includeUnavailable bool) ([]model.Menu, error)
	FindAll(includeUnavailable bool) ([]model.Menu, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Create(menu *model.Menu) error {
	logger.Debug("Creating menu in database", map[string]interface{}{
		"restaurant_id": menu.RestaurantID,
		"menu_name":     menu.MenuName,
	})

	if err := r.db.Create(menu).Error; err != nil {
		logger.Error("Failed to create menu in database", err, map[string]interface{}{
			"restaurant_id": menu.RestaurantID,
			"menu_name":     menu.MenuName,
		})
		return err
	}

	logger.Debug("Menu created in database", map[string]interface{}{
		"menu_id": menu.ID,
	})
	return nil
}

// BulkCreate 대량 등록용. XLSX 임포트에서 사용
func (r *menuRepository) BulkCreate(menus []model.Menu, batchSize int) error {
	if len(menus) == 0 {
		return nil
	}

	logger.Info("Bulk creating menus", map[string]interface{}{
		"count":      len(menus),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(menus, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create menus", err, map[string]interface{}{
			"count": len(menus),
		})
		return err
	}
	return nil
}

func (r *menuRepository) Update(menu *model.Menu) error {
	logger.Debug("Updating menu in database", map[string]interface{}{
		"menu_id": menu.ID,
	})

	if err := r.db.Save(menu).Error; err != nil {
		logger.Error("Failed to update menu in database", err, map[string]interface{}{
			"menu_id": menu.ID,
		})
		return err
	}

	return nil
}

func (r *menuRepository) Delete(id uint) error {
	logger.Debug("Deleting menu from database", map[string]interface{}{
		"menu_id": id,
	})

	if err := r.db.Delete(&model.Menu{}, id).Error; err != nil {
		logger.Error("Failed to delete menu from database", err, map[string]interface{}{
			"menu_id": id,
		})
		return err
	}

	return nil
}

func (r *menuRepository) FindByID(id uint) (*model.Menu, error) {
	var menu model.Menu
	if err := r.db.First(&menu, id).Error; err != nil {
		logger.Error("Failed to find menu", err, map[string]interface{}{
			"menu_id": id,
		})
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) FindByRestaurantID(restaurantID uint, includeUnavailable bool) ([]model.Menu, error) {
	logger.Debug("Finding menus by restaurant ID", map[string]interface{}{
		"restaurant_id": restaurantID,
	})

	query := r.db.Where("restaurant_id = ?", restaurantID)
	if !includeUnavailable {
		query = query.Where("is_available = ?", true)
	}

	var menus []model.Menu
	if err := query.Order("is_signature DESC, price ASC").Find(&menus).Error; err != nil {
		logger.Error("Failed to find menus by restaurant ID", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}

	logger.Debug("Menus found", map[string]interface{}{
		"restaurant_id": restaurantID,
		"count":         len(menus),
	})
	return menus, nil
}

func (r *menuRepository) FindAll(includeUnavailable bool) ([]model.Menu, error) {
	query := r.db.Order("restaurant_id ASC, is_signature DESC, price ASC")
	if !includeUnavailable {
		query = query.Where("is_available = ?", true)
	}

	var menus []model.Menu
	if err := query.Find(&menus).Error; err != nil {
		logger.Error("Failed to find menus", err)
		return nil, err
	}
	return menus, nil
}
