package model

import (
	"time"

	"gorm.io/gorm"
)

// CompanyLocationRequest 회사 위치 승인 요청 모델
// 직장인 사용자가 회사 주소를 검색 기준점으로 쓰기 위해 제출하고,
// 관리자가 승인/반려한다. 승인 시 요청자의 프로필 company_* 필드가 함께 갱신된다.
type CompanyLocationRequest struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 외래 키
	UserID uint `gorm:"not null;index" json:"user_id"` // 요청자 ID
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	// 요청 정보
	CompanyName    string  `json:"company_name,omitempty"`                // 회사명 (선택)
	CompanyAddress string  `gorm:"type:text;not null" json:"company_address"` // 회사 주소
	Latitude       float64 `gorm:"not null" json:"latitude"`              // 위도 (WGS84)
	Longitude      float64 `gorm:"not null" json:"longitude"`             // 경도 (WGS84)

	// 심사 정보
	Status      string     `gorm:"type:varchar(20);default:'pending';index" json:"status"` // pending, approved, rejected
	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`                           // 제출 일시
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`                                  // 심사 완료 일시
	ReviewedBy  *uint      `json:"reviewed_by,omitempty"`                                  // 심사한 관리자 ID
	ReviewNote  string     `gorm:"type:text" json:"review_note,omitempty"`                 // 심사 메모 (반려 시 필수)
}

func (CompanyLocationRequest) TableName() string {
	return "company_location_requests"
}

// RequestStatus 상수 정의
// pending이 초기 상태이며, approved/rejected는 종결 상태로 이후 전이가 없다
const (
	RequestStatusPending  = "pending"  // 심사 대기
	RequestStatusApproved = "approved" // 승인됨
	RequestStatusRejected = "rejected" // 반려됨
)
