package service

import (
	"testing"
	"time"

	"github.com/obaplab/obap-backend/internal/app/model"
	"github.com/obaplab/obap-backend/internal/app/repository"
	"github.com/obaplab/obap-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRestaurantServiceTest(t *testing.T) (RestaurantService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	restaurantRepo := repository.NewRestaurantRepository(testDB)
	svc := NewRestaurantService(restaurantRepo, 2000)
	return svc, testDB
}

func seedServiceRestaurants(t *testing.T, testDB *gorm.DB) {
	recentOpening := time.Now().AddDate(0, 0, -30)

	restaurants := []model.Restaurant{
		{
			// 중심에서 약 140m
			Name:      "구로김밥",
			Category:  "한식",
			Address:   "서울 구로구 디지털로 300",
			Latitude:  37.4824,
			Longitude: 126.8974,
			PriceTier: model.PriceTierUnder8000,
		},
		{
			// 중심에서 약 1.2km
			Name:        "가산파스타",
			Category:    "양식",
			Address:     "서울 금천구 가산디지털1로 168",
			Latitude:    37.4789,
			Longitude:   126.8827,
			PriceTier:   model.PriceTierPremium,
			OpeningDate: &recentOpening,
		},
		{
			// 강남: 반경 밖 (약 12km)
			Name:      "강남초밥",
			Category:  "일식",
			Address:   "서울 강남구 테헤란로 152",
			Latitude:  37.5000,
			Longitude: 127.0364,
			PriceTier: model.PriceTierAround10000,
		},
	}
	for i := range restaurants {
		require.NoError(t, testDB.Create(&restaurants[i]).Error)
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

func TestRestaurantService_ListWithinRadius(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)
	seedServiceRestaurants(t, testDB)

	result, err := svc.ListRestaurants(RestaurantListOptions{
		Latitude:  floatPtr(37.4824),
		Longitude: floatPtr(126.8958),
	})
	require.NoError(t, err)

	// 반경 2km 안에는 두 곳, 기본 정렬은 거리순
	require.Len(t, result.Restaurants, 2)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, "구로김밥", result.Restaurants[0].Name)
	assert.Equal(t, "가산파스타", result.Restaurants[1].Name)

	first := result.Restaurants[0]
	require.NotNil(t, first.DistanceMeters)
	require.NotNil(t, first.WalkingMinutes)
	assert.Greater(t, *first.DistanceMeters, 0.0)
	assert.Less(t, *first.DistanceMeters, 300.0)
	assert.GreaterOrEqual(t, *first.WalkingMinutes, 1)

	// 도보 시간 = ceil(거리 / 67m)
	second := result.Restaurants[1]
	require.NotNil(t, second.DistanceMeters)
	assert.Greater(t, *second.DistanceMeters, *first.DistanceMeters)

	// 신규 오픈 표시는 반경 검색 결과에도 붙는다
	assert.False(t, result.Restaurants[0].NewlyOpened)
	assert.True(t, result.Restaurants[1].NewlyOpened)
}

func TestRestaurantService_ListWithinRadius_CustomRadius(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)
	seedServiceRestaurants(t, testDB)

	result, err := svc.ListRestaurants(RestaurantListOptions{
		Latitude:     floatPtr(37.4824),
		Longitude:    floatPtr(126.8958),
		RadiusMeters: 500,
	})
	require.NoError(t, err)
	require.Len(t, result.Restaurants, 1)
	assert.Equal(t, "구로김밥", result.Restaurants[0].Name)
}

func TestRestaurantService_ListWithinRadius_SortOptions(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)

	now := time.Now()
	restaurants := []model.Restaurant{
		{
			// 중심에서 가깝지만 평점이 낮다
			Name: "구로김밥", Category: "한식", Address: "서울 구로구 디지털로 300",
			Latitude: 37.4824, Longitude: 126.8974,
			AvgRating: 3.2, ReviewCount: 80, CreatedAt: now.AddDate(0, 0, -7),
		},
		{
			// 반경 안에서 가장 멀지만 평점이 높다
			Name: "가산파스타", Category: "양식", Address: "서울 금천구 가산디지털1로 168",
			Latitude: 37.4789, Longitude: 126.8827,
			AvgRating: 4.8, ReviewCount: 15, CreatedAt: now.AddDate(0, 0, -1),
		},
	}
	for i := range restaurants {
		require.NoError(t, testDB.Create(&restaurants[i]).Error)
	}

	center := RestaurantListOptions{
		Latitude:  floatPtr(37.4824),
		Longitude: floatPtr(126.8958),
	}

	// 평점순: 거리와 무관하게 평점 높은 곳이 먼저
	center.SortBy = "rating"
	result, err := svc.ListRestaurants(center)
	require.NoError(t, err)
	require.Len(t, result.Restaurants, 2)
	assert.Equal(t, "가산파스타", result.Restaurants[0].Name)

	center.SortBy = "review_count"
	result, err = svc.ListRestaurants(center)
	require.NoError(t, err)
	assert.Equal(t, "구로김밥", result.Restaurants[0].Name)

	center.SortBy = "newest"
	result, err = svc.ListRestaurants(center)
	require.NoError(t, err)
	assert.Equal(t, "가산파스타", result.Restaurants[0].Name)
}

func TestRestaurantService_ListWithoutCenter(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)
	seedServiceRestaurants(t, testDB)

	result, err := svc.ListRestaurants(RestaurantListOptions{})
	require.NoError(t, err)
	assert.Len(t, result.Restaurants, 3)
	assert.Equal(t, int64(3), result.Total)

	// 중심 좌표가 없으면 거리 정보도 없다
	for _, restaurant := range result.Restaurants {
		assert.Nil(t, restaurant.DistanceMeters)
		assert.Nil(t, restaurant.WalkingMinutes)
	}

	// 신규 오픈 표시는 좌표 없는 목록에도 붙는다
	var pasta *model.RestaurantWithDistance
	for i := range result.Restaurants {
		if result.Restaurants[i].Name == "가산파스타" {
			pasta = &result.Restaurants[i]
		}
	}
	require.NotNil(t, pasta)
	assert.True(t, pasta.NewlyOpened)
}

func TestRestaurantService_DistanceSortRequiresCenter(t *testing.T) {
	svc, _ := setupRestaurantServiceTest(t)

	_, err := svc.ListRestaurants(RestaurantListOptions{SortBy: "distance"})
	assert.ErrorIs(t, err, ErrDistanceSortNeedsLocation)
}

func TestRestaurantService_InvalidCoordinates(t *testing.T) {
	svc, _ := setupRestaurantServiceTest(t)

	tests := []struct {
		name string
		opts RestaurantListOptions
	}{
		{
			name: "Latitude without longitude",
			opts: RestaurantListOptions{Latitude: floatPtr(37.4824)},
		},
		{
			name: "Latitude out of range",
			opts: RestaurantListOptions{Latitude: floatPtr(91.0), Longitude: floatPtr(126.8958)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListRestaurants(tt.opts)
			assert.ErrorIs(t, err, ErrInvalidCoordinates)
		})
	}
}

func TestRestaurantService_ListPagination(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)
	seedServiceRestaurants(t, testDB)

	result, err := svc.ListRestaurants(RestaurantListOptions{
		Latitude:  floatPtr(37.4824),
		Longitude: floatPtr(126.8958),
		Page:      2,
		Limit:     1,
	})
	require.NoError(t, err)
	require.Len(t, result.Restaurants, 1)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, "가산파스타", result.Restaurants[0].Name)
}

func TestRestaurantService_UpdateAllowList(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)

	creatorID := uint(7)
	restaurant := model.Restaurant{
		Name:      "구로김밥",
		Category:  "한식",
		Address:   "서울 구로구 디지털로 300",
		Latitude:  37.4824,
		Longitude: 126.8958,
		CreatedBy: &creatorID,
	}
	require.NoError(t, testDB.Create(&restaurant).Error)

	updated, err := svc.UpdateRestaurant(restaurant.ID, creatorID, model.RoleEmployee, map[string]interface{}{
		"name":           "구로김밥 본점",
		"avg_rating":     4.9, // 허용 목록 밖 - 무시되어야 함
		"naver_place_id": "naver-hacked",
	})
	require.NoError(t, err)
	assert.Equal(t, "구로김밥 본점", updated.Name)
	assert.Zero(t, updated.AvgRating)
	assert.Empty(t, updated.NaverPlaceID)
}

func TestRestaurantService_MutationPermissions(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)

	creatorID := uint(7)
	restaurant := model.Restaurant{
		Name:      "구로김밥",
		Category:  "한식",
		Address:   "서울 구로구 디지털로 300",
		Latitude:  37.4824,
		Longitude: 126.8958,
		CreatedBy: &creatorID,
	}
	require.NoError(t, testDB.Create(&restaurant).Error)

	// 직장인이면 등록자가 아니어도 수정 가능
	_, err := svc.UpdateRestaurant(restaurant.ID, 99, model.RoleEmployee, map[string]interface{}{
		"name": "동료수정",
	})
	assert.NoError(t, err)

	// 역할 없는 사용자는 수정 불가
	_, err = svc.UpdateRestaurant(restaurant.ID, 99, model.RoleGuest, map[string]interface{}{
		"name": "덮어쓰기",
	})
	assert.ErrorIs(t, err, ErrRestaurantAccessDenied)

	// 관리자는 가능
	_, err = svc.UpdateRestaurant(restaurant.ID, 99, model.RoleAdmin, map[string]interface{}{
		"name": "관리자수정",
	})
	assert.NoError(t, err)

	// 삭제는 등록자 본인만 가능. 다른 직장인도 관리자도 불가
	err = svc.DeleteRestaurant(restaurant.ID, 99, model.RoleEmployee)
	assert.ErrorIs(t, err, ErrRestaurantAccessDenied)

	err = svc.DeleteRestaurant(restaurant.ID, 99, model.RoleAdmin)
	assert.ErrorIs(t, err, ErrRestaurantAccessDenied)

	err = svc.DeleteRestaurant(restaurant.ID, creatorID, model.RoleEmployee)
	assert.NoError(t, err)

	err = svc.DeleteRestaurant(restaurant.ID, creatorID, model.RoleEmployee)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestRestaurantService_DeleteIngestedRestaurant(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)

	// 수집 데이터는 등록자가 없다
	restaurant := model.Restaurant{
		Name:      "가산분식",
		Category:  "분식",
		Address:   "서울 금천구 가산디지털1로 1",
		Latitude:  37.4812,
		Longitude: 126.8827,
	}
	require.NoError(t, testDB.Create(&restaurant).Error)

	err := svc.DeleteRestaurant(restaurant.ID, 7, model.RoleEmployee)
	assert.ErrorIs(t, err, ErrRestaurantAccessDenied)

	err = svc.DeleteRestaurant(restaurant.ID, 1, model.RoleAdmin)
	assert.NoError(t, err)
}

func TestRestaurantService_GetRestaurant(t *testing.T) {
	svc, testDB := setupRestaurantServiceTest(t)

	restaurant := model.Restaurant{
		Name:      "구로김밥",
		Category:  "한식",
		Address:   "서울 구로구 디지털로 300",
		Latitude:  37.4824,
		Longitude: 126.8974,
	}
	require.NoError(t, testDB.Create(&restaurant).Error)

	found, err := svc.GetRestaurant(restaurant.ID, floatPtr(37.4824), floatPtr(126.8958))
	require.NoError(t, err)
	require.NotNil(t, found.DistanceMeters)
	assert.Greater(t, *found.DistanceMeters, 0.0)

	found, err = svc.GetRestaurant(restaurant.ID, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, found.DistanceMeters)

	_, err = svc.GetRestaurant(99999, nil, nil)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}
