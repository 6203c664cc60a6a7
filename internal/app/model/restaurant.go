package model

import (
	"time"

	"gorm.io/gorm"
)

type PriceTier string // 점심 가격대 구분

const (
	PriceTierUnder8000   PriceTier = "under_8000"   // 8천원 이하
	PriceTierAround10000 PriceTier = "around_10000" // 1만원 내외
	PriceTierPremium     PriceTier = "premium"      // 프리미엄
)

// NewlyOpenedWindowDays 개업일로부터 이 일수 이내면 신규 오픈으로 표시
const NewlyOpenedWindowDays = 90

type Restaurant struct {
	ID          uint           `gorm:"primarykey" json:"id"`                   // 식당 ID
	Name        string         `gorm:"not null;index" json:"name"`             // 식당명
	Category    string         `gorm:"not null;index" json:"category"`         // 분류 (한식, 중식, ...)
	Phone       string         `gorm:"type:varchar(30)" json:"phone"`          // 연락처
	Address     string         `gorm:"type:text;not null" json:"address"`      // 지번 주소
	RoadAddress string         `gorm:"type:text" json:"road_address"`          // 도로명 주소
	Latitude    float64        `gorm:"not null;index" json:"latitude"`         // 위도 (WGS84)
	Longitude   float64        `gorm:"not null;index" json:"longitude"`        // 경도 (WGS84)
	PlaceURL    string         `json:"place_url"`                              // 외부 상세 페이지 URL
	PriceTier   PriceTier      `gorm:"type:varchar(20);index" json:"price_tier"` // 가격대
	Description string         `gorm:"type:text" json:"description"`           // 소개
	OpeningDate *time.Time     `json:"opening_date,omitempty"`                 // 개업일
	AvgRating   float64        `gorm:"default:0" json:"avg_rating"`            // 평균 평점
	ReviewCount int            `gorm:"default:0" json:"review_count"`          // 리뷰 수

	// 수집(ingest) 중복 제거용 - 네이버 지역검색 결과로 만든 식당에만 존재
	NaverPlaceID string `gorm:"index" json:"naver_place_id,omitempty"`

	CreatedBy *uint `gorm:"index" json:"created_by,omitempty"` // 등록한 사용자 ID (수집 데이터는 null)
	Creator   *User `gorm:"foreignKey:CreatedBy" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Menus []Menu `gorm:"foreignKey:RestaurantID" json:"menus,omitempty"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

// IsNewlyOpened 개업일이 최근 NewlyOpenedWindowDays 이내인지 여부
func (r *Restaurant) IsNewlyOpened(now time.Time) bool {
	if r.OpeningDate == nil {
		return false
	}
	return now.Sub(*r.OpeningDate) <= NewlyOpenedWindowDays*24*time.Hour
}

// RestaurantWithDistance 목록 조회 결과 - 중심 좌표가 주어진 경우에만
// 거리/도보 시간이 채워진다
type RestaurantWithDistance struct {
	Restaurant
	DistanceMeters *float64 `json:"distance_meters,omitempty"` // 중심점으로부터의 거리 (미터)
	WalkingMinutes *int     `json:"walking_minutes,omitempty"` // 도보 소요 시간 (분)
	NewlyOpened    bool     `json:"is_newly_opened"`           // 신규 오픈 여부
}
