package places

import "errors"

// ErrUpstream 외부 지역검색 API 호출 실패 (네트워크, 타임아웃, 비정상 응답)
var ErrUpstream = errors.New("place search upstream error")

// Place 카카오/네이버 지역검색 결과를 공통 형태로 정규화한 것
type Place struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Phone       string  `json:"phone"`
	Address     string  `json:"address"`
	RoadAddress string  `json:"road_address"`
	Longitude   float64 `json:"x"` // 경도 (WGS84)
	Latitude    float64 `json:"y"` // 위도 (WGS84)
	PlaceURL    string  `json:"place_url"`
	Distance    string  `json:"distance,omitempty"` // 좌표 기반 검색 시 미터 단위 문자열
}

// SearchResult 정규화된 검색 결과와 페이징 메타
type SearchResult struct {
	Places []Place    `json:"places"`
	Meta   SearchMeta `json:"meta"`
}

type SearchMeta struct {
	TotalCount    int  `json:"total_count"`
	PageableCount int  `json:"pageable_count"`
	IsEnd         bool `json:"is_end"`
}
