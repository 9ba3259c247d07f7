package cron

import (
	"context"
	"fmt"

	"github.com/sellerdesk/wb-sync/internal/sync"
	"github.com/sellerdesk/wb-sync/pkg/logger"
)

// recordMetrics receives per-record batch counters from sync jobs.
type recordMetrics interface {
	AddRecords(job string, processed, skipped, failed int)
}

type productSyncer interface {
	SyncAllProducts(ctx context.Context) (sync.Report, error)
}

// ProductSyncJobParams configure the catalog sync job.
type ProductSyncJobParams struct {
	Logger  *logger.Logger
	Syncer  productSyncer
	Metrics recordMetrics
}

// NewProductSyncJob builds the job that refreshes every active store's
// product catalog.
func NewProductSyncJob(params ProductSyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Syncer == nil {
		return nil, fmt.Errorf("sync service required")
	}
	return &productSyncJob{
		logg:    params.Logger,
		syncer:  params.Syncer,
		metrics: params.Metrics,
	}, nil
}

type productSyncJob struct {
	logg    *logger.Logger
	syncer  productSyncer
	metrics recordMetrics
}

func (j *productSyncJob) Name() string { return "product-sync" }

func (j *productSyncJob) Run(ctx context.Context) error {
	report, err := j.syncer.SyncAllProducts(ctx)
	recordBatch(j.metrics, j.Name(), report)
	logCtx := j.logg.WithField(ctx, "report", report.String())
	if err != nil {
		j.logg.Error(logCtx, "product sync finished with errors", err)
		return err
	}
	j.logg.Info(logCtx, "product sync pass complete")
	return nil
}

func recordBatch(m recordMetrics, job string, report sync.Report) {
	if m == nil {
		return
	}
	m.AddRecords(job, report.Processed, report.Skipped, report.Failed)
}
