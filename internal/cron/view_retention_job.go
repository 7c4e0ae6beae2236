package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/footballzones-backend/pkg/logger"
)

const viewRetentionDays = 365

type viewEventPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type ViewRetentionJobParams struct {
	Logger    *logger.Logger
	Views     viewEventPruner
	Retention int
}

func NewViewRetentionJob(params ViewRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Views == nil {
		return nil, fmt.Errorf("view repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = viewRetentionDays
	}
	return &viewRetentionJob{
		logg:      params.Logger,
		views:     params.Views,
		retention: retention,
		now:       time.Now,
	}, nil
}

type viewRetentionJob struct {
	logg      *logger.Logger
	views     viewEventPruner
	retention int
	now       func() time.Time
}

func (j *viewRetentionJob) Name() string { return "view-event-retention" }

func (j *viewRetentionJob) Run(ctx context.Context) (Result, error) {
	cutoff := j.now().UTC().Add(-time.Duration(j.retention) * 24 * time.Hour)
	deleted, err := j.views.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return Result{}, fmt.Errorf("view event retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.retention,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "view event retention complete")
	return Result{RowsAffected: deleted}, nil
}
