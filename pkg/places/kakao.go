package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// KakaoClient 카카오 로컬 API 키워드 검색 클라이언트
// https://developers.kakao.com/docs/latest/ko/local/dev-guide#search-by-keyword
type KakaoClient struct {
	restAPIKey string
	baseURL    string
	httpClient *http.Client
}

// NewKakaoClient creates a Kakao local search client with a bounded timeout
func NewKakaoClient(restAPIKey, baseURL string) *KakaoClient {
	return &KakaoClient{
		restAPIKey: restAPIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// KakaoSearchOptions 키워드 검색 옵션 - 좌표가 주어지면 반경 검색으로 동작
type KakaoSearchOptions struct {
	Query        string
	Longitude    *float64 // x
	Latitude     *float64 // y
	RadiusMeters int
	Size         int
}

type kakaoKeywordResponse struct {
	Documents []struct {
		ID              string `json:"id"`
		PlaceName       string `json:"place_name"`
		CategoryName    string `json:"category_name"`
		Phone           string `json:"phone"`
		AddressName     string `json:"address_name"`
		RoadAddressName string `json:"road_address_name"`
		X               string `json:"x"` // 경도
		Y               string `json:"y"` // 위도
		PlaceURL        string `json:"place_url"`
		Distance        string `json:"distance"`
	} `json:"documents"`
	Meta struct {
		TotalCount    int  `json:"total_count"`
		PageableCount int  `json:"pageable_count"`
		IsEnd         bool `json:"is_end"`
	} `json:"meta"`
}

// SearchKeyword searches places by keyword, optionally biased to a coordinate + radius
func (c *KakaoClient) SearchKeyword(ctx context.Context, opts KakaoSearchOptions) (*SearchResult, error) {
	if opts.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if c.restAPIKey == "" {
		return nil, fmt.Errorf("%w: KAKAO_REST_API_KEY not configured", ErrUpstream)
	}

	params := url.Values{}
	params.Set("query", opts.Query)
	size := opts.Size
	if size <= 0 {
		size = 15
	}
	params.Set("size", strconv.Itoa(size))
	if opts.Longitude != nil && opts.Latitude != nil {
		params.Set("x", strconv.FormatFloat(*opts.Longitude, 'f', -1, 64))
		params.Set("y", strconv.FormatFloat(*opts.Latitude, 'f', -1, 64))
		radius := opts.RadiusMeters
		if radius <= 0 {
			radius = 2000
		}
		params.Set("radius", strconv.Itoa(radius))
	}

	requestURL := fmt.Sprintf("%s/v2/local/search/keyword.json?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.restAPIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: kakao API returned status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var parsed kakaoKeywordResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrUpstream, err)
	}

	result := &SearchResult{
		Places: make([]Place, 0, len(parsed.Documents)),
		Meta: SearchMeta{
			TotalCount:    parsed.Meta.TotalCount,
			PageableCount: parsed.Meta.PageableCount,
			IsEnd:         parsed.Meta.IsEnd,
		},
	}

	for _, doc := range parsed.Documents {
		lng, _ := strconv.ParseFloat(doc.X, 64)
		lat, _ := strconv.ParseFloat(doc.Y, 64)
		result.Places = append(result.Places, Place{
			ID:          doc.ID,
			Name:        doc.PlaceName,
			Category:    doc.CategoryName,
			Phone:       doc.Phone,
			Address:     doc.AddressName,
			RoadAddress: doc.RoadAddressName,
			Longitude:   lng,
			Latitude:    lat,
			PlaceURL:    doc.PlaceURL,
			Distance:    doc.Distance,
		})
	}

	return result, nil
}
