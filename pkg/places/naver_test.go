package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnscaleNaverCoord(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{
			name:  "Scaled longitude",
			input: "1268958000",
			want:  126.8958,
		},
		{
			name:  "Scaled latitude",
			input: "374824000",
			want:  37.4824,
		},
		{
			name:  "Empty string",
			input: "",
			want:  0,
		},
		{
			name:  "Garbage",
			input: "abc",
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, unscaleNaverCoord(tt.input), 1e-9)
		})
	}
}

func TestStripBoldTags(t *testing.T) {
	assert.Equal(t, "맛있는 김밥", stripBoldTags("<b>맛있는</b> 김밥"))
	assert.Equal(t, "no markup", stripBoldTags("no markup"))
}

func TestNaverClient_SearchLocal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-id", r.Header.Get("X-Naver-Client-Id"))
		assert.Equal(t, "test-secret", r.Header.Get("X-Naver-Client-Secret"))
		assert.Equal(t, "구로디지털단지 맛집", r.URL.Query().Get("query"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"total": 1,
			"start": 1,
			"display": 1,
			"items": [{
				"title": "<b>맛있는</b> 김밥",
				"link": "https://place.example/1",
				"category": "음식점>한식",
				"telephone": "02-1234-5678",
				"address": "서울특별시 구로구 디지털로34길 27",
				"roadAddress": "서울특별시 구로구 디지털로34길 27",
				"mapx": "1268958000",
				"mapy": "374824000"
			}]
		}`))
	}))
	defer server.Close()

	client := NewNaverClient("test-id", "test-secret", server.URL)
	result, err := client.SearchLocal(context.Background(), "구로디지털단지 맛집", 15)
	require.NoError(t, err)
	require.Len(t, result.Places, 1)

	place := result.Places[0]
	assert.Equal(t, "맛있는 김밥", place.Name)
	assert.InDelta(t, 126.8958, place.Longitude, 1e-6)
	assert.InDelta(t, 37.4824, place.Latitude, 1e-6)
	assert.True(t, result.Meta.IsEnd)
}

func TestNaverClient_SearchLocal_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewNaverClient("test-id", "test-secret", server.URL)
	result, err := client.SearchLocal(context.Background(), "맛집", 15)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestNaverClient_SearchLocal_MissingCredentials(t *testing.T) {
	client := NewNaverClient("", "", "http://localhost")
	result, err := client.SearchLocal(context.Background(), "맛집", 15)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrUpstream)
}
