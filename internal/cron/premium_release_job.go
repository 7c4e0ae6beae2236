package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/logger"
)

type premiumReleaser interface {
	ReleaseExpiredPremium(ctx context.Context, now time.Time) (int64, error)
}

type PremiumReleaseJobParams struct {
	Logger   *logger.Logger
	Articles premiumReleaser
}

// NewPremiumReleaseJob flips non-permanent premium articles whose release date passed to free.
func NewPremiumReleaseJob(params PremiumReleaseJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Articles == nil {
		return nil, fmt.Errorf("article repository required")
	}
	return &premiumReleaseJob{
		logg:     params.Logger,
		articles: params.Articles,
		now:      time.Now,
	}, nil
}

type premiumReleaseJob struct {
	logg     *logger.Logger
	articles premiumReleaser
	now      func() time.Time
}

func (j *premiumReleaseJob) Name() string { return "premium-release" }

func (j *premiumReleaseJob) Run(ctx context.Context) (Result, error) {
	now := j.now().UTC()
	released, err := j.articles.ReleaseExpiredPremium(ctx, now)
	if err != nil {
		return Result{}, fmt.Errorf("premium release: %w", err)
	}
	if released > 0 {
		j.logg.Info(j.logg.WithField(ctx, "articles_released", released), "premium articles released")
	}
	return Result{RowsAffected: released}, nil
}
