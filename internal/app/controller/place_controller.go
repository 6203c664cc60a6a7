package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/obaplab/obap-backend/internal/app/service"
	apperrors "github.com/obaplab/obap-backend/internal/errors"
	"github.com/obaplab/obap-backend/internal/middleware"
	"github.com/obaplab/obap-backend/pkg/places"
)

type PlaceController struct {
	placeService service.PlaceService
}

func NewPlaceController(placeService service.PlaceService) *PlaceController {
	return &PlaceController{
		placeService: placeService,
	}
}

type IngestPlacesRequest struct {
	Query   string `json:"query" binding:"required"`
	Display int    `json:"display"`
}

// SearchPlaces searches places via the Kakao keyword API
// GET /api/v1/places/search
func (ctrl *PlaceController) SearchPlaces(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	lat, ok := parseFloatQuery(c, "lat")
	if !ok {
		return
	}
	lng, ok := parseFloatQuery(c, "lng")
	if !ok {
		return
	}

	opts := service.PlaceSearchOptions{
		Query:        c.Query("query"),
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: parseIntQuery(c, "radius", 0),
		Size:         parseIntQuery(c, "size", 0),
	}

	result, err := ctrl.placeService.SearchKeyword(c.Request.Context(), opts)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlaceQueryRequired):
			apperrors.BadRequest(c, apperrors.PlaceInvalidQuery, "검색어를 입력해주세요")
		case errors.Is(err, places.ErrUpstream):
			log.Error("Kakao place search failed", err, map[string]interface{}{
				"query": opts.Query,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.PlaceProviderError, "장소 검색에 실패했습니다")
		default:
			log.Error("Place search failed", err, map[string]interface{}{
				"query": opts.Query,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search places")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"places": result.Places,
		"meta":   result.Meta,
	})
}

// SearchLocal searches places via the Naver local API
// GET /api/v1/places/local
func (ctrl *PlaceController) SearchLocal(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	query := c.Query("query")
	display := parseIntQuery(c, "display", 0)

	result, err := ctrl.placeService.SearchLocal(c.Request.Context(), query, display)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlaceQueryRequired):
			apperrors.BadRequest(c, apperrors.PlaceInvalidQuery, "검색어를 입력해주세요")
		case errors.Is(err, places.ErrUpstream):
			log.Error("Naver place search failed", err, map[string]interface{}{
				"query": query,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.PlaceProviderError, "장소 검색에 실패했습니다")
		default:
			log.Error("Place search failed", err, map[string]interface{}{
				"query": query,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search places")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"places": result.Places,
		"meta":   result.Meta,
	})
}

// IngestPlaces imports Naver local search results into the directory (admin only)
// POST /api/v1/admin/places/ingest
func (ctrl *PlaceController) IngestPlaces(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req IngestPlacesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "입력 정보가 올바르지 않습니다")
		return
	}

	summary, err := ctrl.placeService.IngestFromNaver(c.Request.Context(), req.Query, req.Display)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlaceQueryRequired):
			apperrors.BadRequest(c, apperrors.PlaceInvalidQuery, "검색어를 입력해주세요")
		case errors.Is(err, places.ErrUpstream):
			log.Error("Place ingest failed at provider", err, map[string]interface{}{
				"query": req.Query,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.PlaceProviderError, "장소 수집에 실패했습니다")
		default:
			log.Error("Place ingest failed", err, map[string]interface{}{
				"query": req.Query,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "ingest places")
		}
		return
	}

	log.Info("Place ingest completed", map[string]interface{}{
		"query":   summary.Query,
		"fetched": summary.Fetched,
		"created": summary.Created,
		"skipped": summary.Skipped,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "장소 수집이 완료되었습니다",
		"summary": summary,
	})
}
