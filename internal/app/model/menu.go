package model

import (
	"time"

	"gorm.io/gorm"
)

// Menu 식당 메뉴 모델 - 식당 하나에 여러 개가 속한다
type Menu struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RestaurantID uint       `gorm:"not null;index" json:"restaurant_id"` // 소속 식당 ID
	Restaurant   Restaurant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	MenuName    string `gorm:"not null" json:"menu_name"`            // 메뉴명
	Price       int    `gorm:"not null" json:"price"`                // 가격 (원 단위 정수)
	Description string `gorm:"type:text" json:"description"`         // 설명
	ImageURL    string `json:"image_url"`                            // 메뉴 이미지 URL
	IsSignature bool   `gorm:"default:false" json:"is_signature"`    // 대표 메뉴 여부
	// DB default를 두면 false 저장이 막히므로 생성 시점에 값을 명시한다
	IsAvailable bool `gorm:"not null;index" json:"is_available"` // 판매 중 여부
}

func (Menu) TableName() string {
	return "menus"
}
