package jobs

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"imarket.GO/catalog"
	"imarket.GO/service/search"
)

// CatalogRefreshJob rebuilds the catalog snapshot and re-indexes search.
// Config is read from env directly; importing the config package here would
// create a cycle (config.CronJobs references this package).
func CatalogRefreshJob(args ...string) {
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	fetcher := catalog.NewFetcher(dataDir, os.Getenv("DATA_BASE_URL"))

	opts := []catalog.Option{}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		opts = append(opts, catalog.WithRedis(client))
		defer client.Close()
	}
	svc := catalog.NewService(fetcher, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	snap, err := svc.Refresh(ctx)
	if err != nil {
		log.Printf("cron catalogrefresh: %v", err)
		return
	}
	log.Printf("cron catalogrefresh: %d shops, %d products in %s",
		len(snap.Shops), len(snap.Products), time.Since(start).Round(time.Millisecond))

	if ss := search.GetSearchService(); ss.Enabled() {
		if err := ss.IndexProducts(ctx, snap.Products); err != nil {
			log.Printf("cron catalogrefresh: reindex: %v", err)
		}
	}
}
