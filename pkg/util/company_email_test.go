package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailDomain(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{
			name:  "Normal email",
			email: "worker@acme-corp.com",
			want:  "acme-corp.com",
		},
		{
			name:  "Uppercase domain",
			email: "worker@ACME-Corp.COM",
			want:  "acme-corp.com",
		},
		{
			name:  "No at sign",
			email: "not-an-email",
			want:  "",
		},
		{
			name:  "Empty",
			email: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EmailDomain(tt.email))
		})
	}
}

func TestIsCompanyEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{
			name:  "Company domain",
			email: "kim@acme-corp.com",
			want:  true,
		},
		{
			name:  "Gmail is public",
			email: "kim@gmail.com",
			want:  false,
		},
		{
			name:  "Naver is public",
			email: "kim@naver.com",
			want:  false,
		},
		{
			name:  "Korean script domain",
			email: "kim@한글도메인.kr",
			want:  false,
		},
		{
			name:  "Missing domain",
			email: "kim@",
			want:  false,
		},
		{
			name:  "Not an email",
			email: "kim",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompanyEmail(tt.email))
		})
	}
}

func TestWalkingMinutes(t *testing.T) {
	tests := []struct {
		name   string
		meters float64
		want   int
	}{
		{
			name:   "Zero distance",
			meters: 0,
			want:   0,
		},
		{
			name:   "Short hop rounds up to one minute",
			meters: 30,
			want:   1,
		},
		{
			name:   "One minute exactly",
			meters: 67,
			want:   1,
		},
		{
			name:   "Two kilometers",
			meters: 2000,
			want:   30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WalkingMinutes(tt.meters))
		})
	}
}

func TestCalculateDistanceMeters(t *testing.T) {
	// 구로디지털단지역 근처 두 지점, 대략 150m 내외
	d := CalculateDistanceMeters(37.4824, 126.8958, 37.4834, 126.8968)
	assert.InDelta(t, 142, d, 20)

	// 같은 지점은 거리 0
	assert.Zero(t, CalculateDistanceMeters(37.4824, 126.8958, 37.4824, 126.8958))
}
