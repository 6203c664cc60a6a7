package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string // 사용자 권한 타입

const (
	RoleGuest    UserRole = "guest"    // 공개 이메일로 가입한 일반 사용자
	RoleEmployee UserRole = "employee" // 회사 이메일로 가입한 직장인
	RoleAdmin    UserRole = "admin"    // 관리자
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                         // 사용자 ID
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`            // 이메일
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`         // 로그인 아이디
	Nickname     string         `gorm:"uniqueIndex;not null" json:"nickname"`         // 닉네임 (수정 가능)
	PasswordHash string         `gorm:"not null" json:"-"`                            // 비밀번호 해시
	Role         UserRole       `gorm:"type:varchar(20);default:'guest'" json:"role"` // 권한
	AvatarURL    string         `json:"avatar_url"`                                   // 프로필 이미지 URL

	// 회사 정보 - company_domain은 가입 시 이메일 도메인에서 추론,
	// 나머지 company_* 필드는 위치 승인 요청이 승인될 때만 기록됨
	CompanyDomain    string   `json:"company_domain,omitempty"`                        // 회사 이메일 도메인
	CompanyName      string   `json:"company_name,omitempty"`                          // 승인된 회사명
	CompanyAddress   string   `gorm:"type:text" json:"company_address,omitempty"`      // 승인된 회사 주소
	CompanyLatitude  *float64 `gorm:"type:decimal(10,8)" json:"company_latitude"`      // 승인된 회사 위도 (WGS84)
	CompanyLongitude *float64 `gorm:"type:decimal(11,8)" json:"company_longitude"`     // 승인된 회사 경도 (WGS84)

	CreatedAt time.Time      `json:"created_at"` // 생성 시각
	UpdatedAt time.Time      `json:"updated_at"` // 수정 시각
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // 삭제 시각(소프트 삭제)
}

func (User) TableName() string {
	return "users"
}
