package cron

import (
	"context"
	"fmt"

	"github.com/sellerdesk/wb-sync/internal/sync"
	"github.com/sellerdesk/wb-sync/pkg/logger"
)

type orderSyncer interface {
	SyncAllOrders(ctx context.Context, rebuild bool) (sync.Report, error)
}

// OrderSyncJobParams configure the order sync job. Rebuild forces a full
// overwrite of stored orders regardless of checksums.
type OrderSyncJobParams struct {
	Logger  *logger.Logger
	Syncer  orderSyncer
	Metrics recordMetrics
	Rebuild bool
}

// NewOrderSyncJob builds the job that reconciles every active store's
// order window against the marketplace feeds.
func NewOrderSyncJob(params OrderSyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Syncer == nil {
		return nil, fmt.Errorf("sync service required")
	}
	return &orderSyncJob{
		logg:    params.Logger,
		syncer:  params.Syncer,
		metrics: params.Metrics,
		rebuild: params.Rebuild,
	}, nil
}

type orderSyncJob struct {
	logg    *logger.Logger
	syncer  orderSyncer
	metrics recordMetrics
	rebuild bool
}

func (j *orderSyncJob) Name() string { return "order-sync" }

func (j *orderSyncJob) Run(ctx context.Context) error {
	report, err := j.syncer.SyncAllOrders(ctx, j.rebuild)
	recordBatch(j.metrics, j.Name(), report)
	logCtx := j.logg.WithField(ctx, "report", report.String())
	if err != nil {
		j.logg.Error(logCtx, "order sync finished with errors", err)
		return err
	}
	j.logg.Info(logCtx, "order sync pass complete")
	return nil
}
