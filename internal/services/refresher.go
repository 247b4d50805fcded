package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"sku-resolution-service/internal/repository"
)

// SnapshotRefresher keeps the catalog and rule snapshots current. The first
// load must succeed before the service accepts traffic; after that, a
// failed refresh keeps the previous snapshot in effect and is only logged.
type SnapshotRefresher struct {
	catalogSource repository.CatalogSourceInterface
	ruleSource    repository.RuleSourceInterface

	catalog *Snapshot[CatalogIndex]
	rules   *Snapshot[RuleStore]

	interval    time.Duration
	loadTimeout time.Duration
	logger      *logrus.Entry
}

// NewSnapshotRefresher creates a refresher over the shared snapshots.
func NewSnapshotRefresher(
	catalogSource repository.CatalogSourceInterface,
	ruleSource repository.RuleSourceInterface,
	catalog *Snapshot[CatalogIndex],
	rules *Snapshot[RuleStore],
	interval time.Duration,
	loadTimeout time.Duration,
	logger *logrus.Logger,
) *SnapshotRefresher {
	return &SnapshotRefresher{
		catalogSource: catalogSource,
		ruleSource:    ruleSource,
		catalog:       catalog,
		rules:         rules,
		interval:      interval,
		loadTimeout:   loadTimeout,
		logger:        logger.WithField("component", "snapshot-refresher"),
	}
}

// Bootstrap performs the first load of both snapshots. An error here is
// fatal to startup: resolving against an empty catalog would silently
// classify all volume as unmapped.
func (r *SnapshotRefresher) Bootstrap(ctx context.Context) error {
	if err := r.RefreshNow(ctx); err != nil {
		return fmt.Errorf("initial snapshot load: %w", err)
	}
	return nil
}

// Run refreshes both snapshots on a fixed interval until ctx is cancelled.
func (r *SnapshotRefresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Snapshot refresher stopped")
			return
		case <-ticker.C:
			if err := r.RefreshNow(ctx); err != nil {
				r.logger.WithError(err).Error("Snapshot refresh failed, keeping previous snapshot")
			}
		}
	}
}

// RefreshNow reloads both snapshots immediately. Each load carries the
// configured backing-store timeout.
func (r *SnapshotRefresher) RefreshNow(ctx context.Context) error {
	if err := r.refreshCatalog(ctx); err != nil {
		return err
	}
	return r.refreshRules(ctx)
}

func (r *SnapshotRefresher) refreshCatalog(ctx context.Context) error {
	start := time.Now()
	err := r.catalog.Refresh(ctx, func(ctx context.Context) (*CatalogIndex, error) {
		loadCtx, cancel := context.WithTimeout(ctx, r.loadTimeout)
		defer cancel()

		entries, err := r.catalogSource.ListActiveEntries(loadCtx)
		if err != nil {
			return nil, fmt.Errorf("load catalog entries: %w", err)
		}
		return BuildCatalogIndex(entries, r.logger), nil
	})
	if err != nil {
		return err
	}

	if idx, _, ok := r.catalog.Get(); ok {
		entries, masterKeys := idx.Size()
		r.logger.WithFields(logrus.Fields{
			"entries":    entries,
			"masterKeys": masterKeys,
			"took":       time.Since(start).String(),
		}).Info("Catalog snapshot refreshed")
	}
	return nil
}

func (r *SnapshotRefresher) refreshRules(ctx context.Context) error {
	start := time.Now()
	err := r.rules.Refresh(ctx, func(ctx context.Context) (*RuleStore, error) {
		loadCtx, cancel := context.WithTimeout(ctx, r.loadTimeout)
		defer cancel()

		rules, err := r.ruleSource.ListActiveRules(loadCtx)
		if err != nil {
			return nil, fmt.Errorf("load mapping rules: %w", err)
		}
		return BuildRuleStore(rules, r.logger), nil
	})
	if err != nil {
		return err
	}

	if store, _, ok := r.rules.Get(); ok {
		r.logger.WithFields(logrus.Fields{
			"rules": store.Size(),
			"took":  time.Since(start).String(),
		}).Info("Rule snapshot refreshed")
	}
	return nil
}
