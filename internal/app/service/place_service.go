package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/pkg/logger"
	"github.com/obaplab/obap-backend/pkg/places"
	"github.com/obaplab/obap-backend/pkg/redis"
	"gorm.io/gorm"
)

var ErrPlaceQueryRequired = errors.New("검색어를 입력해주세요")

// searchCacheTTL 외부 장소 검색 결과 캐시 유지 시간
const searchCacheTTL = 5 * time.Minute

// KeywordSearcher 카카오 키워드 검색 클라이언트 인터페이스
type KeywordSearcher interface {
	SearchKeyword(ctx context.Context, opts places.KakaoSearchOptions) (*places.SearchResult, error)
}

// LocalSearcher 네이버 지역검색 클라이언트 인터페이스
type LocalSearcher interface {
	SearchLocal(ctx context.Context, query string, display int) (*places.SearchResult, error)
}

type PlaceSearchOptions struct {
	Query        string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters int
	Size         int
}

// IngestSummary 네이버 지역검색 수집 결과 요약
type IngestSummary struct {
	Query   string `json:"query"`
	Fetched int    `json:"fetched"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}

type PlaceService interface {
	SearchKeyword(ctx context.Context, opts PlaceSearchOptions) (*places.SearchResult, error)
	SearchLocal(ctx context.Context, query string, display int) (*places.SearchResult, error)
	IngestFromNaver(ctx context.Context, query string, display int) (*IngestSummary, error)
}

type placeService struct {
	kakao          KeywordSearcher
	naver          LocalSearcher
	restaurantRepo repository.RestaurantRepository
}

func NewPlaceService(kakao KeywordSearcher, naver LocalSearcher, restaurantRepo repository.RestaurantRepository) PlaceService {
	return &placeService{
		kakao:          kakao,
		naver:          naver,
		restaurantRepo: restaurantRepo,
	}
}

// SearchKeyword 카카오 키워드 검색. 결과는 짧게 캐시된다
func (s *placeService) SearchKeyword(ctx context.Context, opts PlaceSearchOptions) (*places.SearchResult, error) {
	if opts.Query == "" {
		return nil, ErrPlaceQueryRequired
	}

	cacheKey := kakaoCacheKey(opts)
	if cached := s.readCache(ctx, cacheKey); cached != nil {
		logger.Debug("Place search cache hit", map[string]interface{}{
			"key": cacheKey,
		})
		return cached, nil
	}

	result, err := s.kakao.SearchKeyword(ctx, places.KakaoSearchOptions{
		Query:        opts.Query,
		Latitude:     opts.Latitude,
		Longitude:    opts.Longitude,
		RadiusMeters: opts.RadiusMeters,
		Size:         opts.Size,
	})
	if err != nil {
		logger.Error("Kakao keyword search failed", err, map[string]interface{}{
			"query": opts.Query,
		})
		return nil, err
	}

	s.writeCache(ctx, cacheKey, result)
	return result, nil
}

// SearchLocal 네이버 지역검색. 결과는 짧게 캐시된다
func (s *placeService) SearchLocal(ctx context.Context, query string, display int) (*places.SearchResult, error) {
	if query == "" {
		return nil, ErrPlaceQueryRequired
	}

	cacheKey := fmt.Sprintf("naver:%s:%d", query, display)
	if cached := s.readCache(ctx, cacheKey); cached != nil {
		logger.Debug("Place search cache hit", map[string]interface{}{
			"key": cacheKey,
		})
		return cached, nil
	}

	result, err := s.naver.SearchLocal(ctx, query, display)
	if err != nil {
		logger.Error("Naver local search failed", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	s.writeCache(ctx, cacheKey, result)
	return result, nil
}

// IngestFromNaver 네이버 지역검색 결과를 식당 테이블로 수집한다
// naver_place_id 기준으로 이미 있는 장소는 건너뛴다
func (s *placeService) IngestFromNaver(ctx context.Context, query string, display int) (*IngestSummary, error) {
	if query == "" {
		return nil, ErrPlaceQueryRequired
	}

	logger.Info("Ingesting restaurants from Naver local search", map[string]interface{}{
		"query": query,
	})

	result, err := s.naver.SearchLocal(ctx, query, display)
	if err != nil {
		logger.Error("Naver ingest fetch failed", err, map[string]interface{}{
			"query": query,
		})
		return nil, err
	}

	summary := &IngestSummary{
		Query:   query,
		Fetched: len(result.Places),
	}

	for _, place := range result.Places {
		if place.Latitude == 0 && place.Longitude == 0 {
			summary.Skipped++
			continue
		}

		_, err := s.restaurantRepo.FindByNaverPlaceID(place.ID)
		if err == nil {
			summary.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		restaurant := &model.Restaurant{
			Name:         place.Name,
			Category:     place.Category,
			Phone:        place.Phone,
			Address:      place.Address,
			RoadAddress:  place.RoadAddress,
			Latitude:     place.Latitude,
			Longitude:    place.Longitude,
			PlaceURL:     place.PlaceURL,
			NaverPlaceID: place.ID,
		}
		if err := s.restaurantRepo.Create(restaurant); err != nil {
			logger.Warn("Failed to ingest restaurant, skipping", map[string]interface{}{
				"name":  place.Name,
				"error": err.Error(),
			})
			summary.Skipped++
			continue
		}
		summary.Created++
	}

	logger.Info("Naver ingest completed", map[string]interface{}{
		"query":   query,
		"fetched": summary.Fetched,
		"created": summary.Created,
		"skipped": summary.Skipped,
	})
	return summary, nil
}

// readCache 캐시 조회 실패는 검색 실패로 이어지지 않는다
func (s *placeService) readCache(ctx context.Context, key string) *places.SearchResult {
	payload, err := redis.GetCachedSearchResult(ctx, key)
	if err != nil || payload == nil {
		return nil
	}

	var result places.SearchResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil
	}
	return &result
}

func (s *placeService) writeCache(ctx context.Context, key string, result *places.SearchResult) {
	payload, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = redis.CacheSearchResult(ctx, key, payload, searchCacheTTL)
}

func kakaoCacheKey(opts PlaceSearchOptions) string {
	lat, lng := 0.0, 0.0
	if opts.Latitude != nil {
		lat = *opts.Latitude
	}
	if opts.Longitude != nil {
		lng = *opts.Longitude
	}
	return fmt.Sprintf("kakao:%s:%.6f:%.6f:%d:%d", opts.Query, lat, lng, opts.RadiusMeters, opts.Size)
}
