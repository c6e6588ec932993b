package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"go-dvms/internal/dv"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	summaryCacheKey = "dashboard:summary"
	summaryCacheTTL = 30 * time.Second
)

type Summary struct {
	TotalDVs    int64  `json:"total_dvs"`
	PendingDVs  int64  `json:"pending_dvs"`
	ApprovedDVs int64  `json:"approved_dvs"`
	TotalAmount string `json:"total_amount"`
}

type Service interface {
	Summary(ctx context.Context) (Summary, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

// Summary serves the cached aggregate when fresh; otherwise a single caller
// recomputes it while concurrent requests share the result.
func (s *service) Summary(ctx context.Context) (Summary, error) {
	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, summaryCacheKey).Result(); err == nil {
			var cached Summary
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached, nil
			}
		}
	}

	v, err, _ := s.group.Do(summaryCacheKey, func() (any, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return Summary{}, err
	}
	return v.(Summary), nil
}

func (s *service) compute(ctx context.Context) (Summary, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		s.logger.Error("summary count failed", zap.Error(err))
		return Summary{}, err
	}
	pending, err := s.repo.CountByStatus(ctx, dv.StatusSubmitted)
	if err != nil {
		s.logger.Error("summary pending count failed", zap.Error(err))
		return Summary{}, err
	}
	approved, err := s.repo.CountByStatus(ctx, dv.StatusApproved)
	if err != nil {
		s.logger.Error("summary approved count failed", zap.Error(err))
		return Summary{}, err
	}
	amount, err := s.repo.SumAmount(ctx)
	if err != nil {
		s.logger.Error("summary amount sum failed", zap.Error(err))
		return Summary{}, err
	}

	summary := Summary{
		TotalDVs:    total,
		PendingDVs:  pending,
		ApprovedDVs: approved,
		TotalAmount: amount.StringFixed(2),
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(summary); err == nil {
			if err := s.rdb.Set(ctx, summaryCacheKey, payload, summaryCacheTTL).Err(); err != nil {
				s.logger.Warn("summary cache write failed", zap.Error(err))
			}
		}
	}

	return summary, nil
}
