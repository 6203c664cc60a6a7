package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string // 알림 종류

const (
	NotificationLocationApproved NotificationType = "location_approved" // 위치 요청 승인됨
	NotificationLocationRejected NotificationType = "location_rejected" // 위치 요청 반려됨
)

// Notification 사용자 알림 - 위치 승인 요청 심사 결과를 요청자에게 전달한다
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint `gorm:"not null;index" json:"user_id"` // 수신자 ID
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	Type      NotificationType `gorm:"type:varchar(30);not null" json:"type"` // 알림 종류
	Message   string           `gorm:"type:text;not null" json:"message"`     // 알림 내용
	RequestID *uint            `json:"request_id,omitempty"`                  // 관련 위치 요청 ID
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`    // 읽음 여부
}

func (Notification) TableName() string {
	return "notifications"
}
