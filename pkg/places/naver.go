package places

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"
)

// naverCoordScale 네이버 지역검색 mapx/mapy는 WGS84 도 단위에 1천만을 곱한 정수
const naverCoordScale = 10000000.0

var boldTagRegex = regexp.MustCompile(`</?b>`)

// NaverClient 네이버 지역검색 API 클라이언트
// https://developers.naver.com/docs/serviceapi/search/local/local.md
type NaverClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client
}

// NewNaverClient creates a Naver local search client with a bounded timeout
func NewNaverClient(clientID, clientSecret, baseURL string) *NaverClient {
	return &NaverClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type naverLocalResponse struct {
	Total   int `json:"total"`
	Start   int `json:"start"`
	Display int `json:"display"`
	Items   []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Category    string `json:"category"`
		Telephone   string `json:"telephone"`
		Address     string `json:"address"`
		RoadAddress string `json:"roadAddress"`
		MapX        string `json:"mapx"` // 경도 * 1e7
		MapY        string `json:"mapy"` // 위도 * 1e7
	} `json:"items"`
}

// SearchLocal searches the Naver local API by keyword.
// display caps the number of results (Naver allows at most 100 per call).
func (c *NaverClient) SearchLocal(ctx context.Context, query string, display int) (*SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if c.clientID == "" || c.clientSecret == "" {
		return nil, fmt.Errorf("%w: NAVER_CLIENT_ID/NAVER_CLIENT_SECRET not configured", ErrUpstream)
	}

	if display <= 0 {
		display = 15
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("display", strconv.Itoa(display))
	params.Set("sort", "random")

	requestURL := fmt.Sprintf("%s/v1/search/local.json?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)

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
		return nil, fmt.Errorf("%w: naver API returned status %d: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var parsed naverLocalResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse response: %v", ErrUpstream, err)
	}

	result := &SearchResult{
		Places: make([]Place, 0, len(parsed.Items)),
		Meta: SearchMeta{
			TotalCount:    parsed.Total,
			PageableCount: parsed.Display,
			IsEnd:         parsed.Start+parsed.Display >= parsed.Total,
		},
	}

	for _, item := range parsed.Items {
		name := stripBoldTags(item.Title)
		result.Places = append(result.Places, Place{
			// 네이버는 고유 ID를 주지 않으므로 이름+주소 해시로 만든다
			// 같은 장소가 재수집돼도 동일한 ID가 나와야 중복 제거가 된다
			ID:          naverPlaceID(name, item.Address),
			Name:        name,
			Category:    item.Category,
			Phone:       item.Telephone,
			Address:     item.Address,
			RoadAddress: item.RoadAddress,
			Longitude:   unscaleNaverCoord(item.MapX),
			Latitude:    unscaleNaverCoord(item.MapY),
			PlaceURL:    item.Link,
		})
	}

	return result, nil
}

// naverPlaceID derives a stable identifier from the place name and address
func naverPlaceID(name, address string) string {
	h := fnv.New64a()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(address))
	return fmt.Sprintf("naver-%016x", h.Sum64())
}

// stripBoldTags removes the <b> markup Naver wraps around matched keywords
func stripBoldTags(s string) string {
	return boldTagRegex.ReplaceAllString(s, "")
}

// unscaleNaverCoord converts a 1e7-scaled integer coordinate string to WGS84 degrees
func unscaleNaverCoord(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v / naverCoordScale
}
