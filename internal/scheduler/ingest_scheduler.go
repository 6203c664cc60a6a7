package scheduler

import (
	"context"
	"time"

	"github.com/obaplab/obap-backend/config"
	"github.com/obaplab/obap-backend/internal/app/service"
	"github.com/obaplab/obap-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const ingestTimeout = 5 * time.Minute

// IngestScheduler 네이버 지역검색 기반 식당 자동 수집 스케줄러
type IngestScheduler struct {
	cron         *cron.Cron
	placeService service.PlaceService
	spec         string
	queries      []string
}

// NewIngestScheduler 식당 수집 스케줄러 생성
func NewIngestScheduler(placeService service.PlaceService, cfg *config.SearchConfig) *IngestScheduler {
	return &IngestScheduler{
		cron:         cron.New(),
		placeService: placeService,
		spec:         cfg.IngestCron,
		queries:      cfg.IngestQueries,
	}
}

// Start 스케줄러 시작
func (s *IngestScheduler) Start() error {
	if len(s.queries) == 0 {
		logger.Info("No ingest queries configured, restaurant ingest scheduler disabled", nil)
		return nil
	}

	_, err := s.cron.AddFunc(s.spec, s.runIngest)
	if err != nil {
		logger.Error("Failed to add cron job for restaurant ingest", err)
		return err
	}

	s.cron.Start()
	logger.Info("Restaurant ingest scheduler started", map[string]interface{}{
		"cron":    s.spec,
		"queries": len(s.queries),
	})

	return nil
}

func (s *IngestScheduler) runIngest() {
	logger.Info("Starting scheduled restaurant ingest", map[string]interface{}{
		"queries": len(s.queries),
	})

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	for _, query := range s.queries {
		summary, err := s.placeService.IngestFromNaver(ctx, query, 0)
		if err != nil {
			// 한 검색어 실패가 나머지 수집을 막지 않도록 계속 진행
			logger.Error("Scheduled ingest failed for query", err, map[string]interface{}{
				"query": query,
			})
			continue
		}

		logger.Info("Scheduled ingest completed for query", map[string]interface{}{
			"query":   summary.Query,
			"fetched": summary.Fetched,
			"created": summary.Created,
			"skipped": summary.Skipped,
		})
	}
}

// Stop 스케줄러 중지
func (s *IngestScheduler) Stop() {
	logger.Info("Stopping restaurant ingest scheduler...", nil)
	s.cron.Stop()
	logger.Info("Restaurant ingest scheduler stopped", nil)
}
