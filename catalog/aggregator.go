package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"

	"imarket.GO/core/cache"
)

// ErrRegistryUnavailable is returned when the shop registry cannot be read
// or does not parse. Callers treat it as "no shops known" and render their
// empty state; it must never crash a page.
var ErrRegistryUnavailable = errors.New("shop registry unavailable")

const (
	// RegistryFile is the well-known shop registry resource.
	RegistryFile = "shops.json"

	snapshotCacheKey = "catalog:snapshot"
	snapshotCacheTag = "catalog"
)

// Service aggregates the heterogeneous per-shop product files into one
// unified catalog. A process-local cache (and Redis, when configured) keeps
// repeat page renders from re-reading every shop file.
type Service struct {
	fetcher Fetcher
	cache   *cache.Cache
	redis   *redis.Client
	ttl     time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithRedis enables the shared snapshot cache. A nil client is ignored.
func WithRedis(client *redis.Client) Option {
	return func(s *Service) { s.redis = client }
}

// WithTTL sets the snapshot cache lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

func NewService(fetcher Fetcher, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		cache:   cache.NewCache(),
		ttl:     5 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadShopRegistry reads and decodes shops.json. The registry order is the
// display order and the aggregation order.
func (s *Service) LoadShopRegistry(ctx context.Context) ([]ShopDescriptor, error) {
	data, err := s.fetcher.Fetch(ctx, RegistryFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrRegistryUnavailable, err)
	}

	shops := make([]ShopDescriptor, 0, len(rows))
	for i, row := range rows {
		var shop ShopDescriptor
		if err := mapstructure.Decode(row, &shop); err != nil {
			log.Printf("catalog: registry entry %d: %v, skipping", i, err)
			continue
		}
		shops = append(shops, shop)
	}
	return shops, nil
}

// LoadAllProducts fetches every shop's product file concurrently and
// normalizes the records. Results keep registry order regardless of fetch
// completion order. A shop whose fetch or decode fails is logged and
// skipped; the aggregation itself never fails.
func (s *Service) LoadAllProducts(ctx context.Context, registry []ShopDescriptor) []UnifiedProduct {
	perShop := make([][]UnifiedProduct, len(registry))

	var wg sync.WaitGroup
	for i, shop := range registry {
		wg.Add(1)
		go func(i int, shop ShopDescriptor) {
			defer wg.Done()
			products, err := s.loadShopProducts(ctx, shop)
			if err != nil {
				log.Printf("catalog: %s: %v, skipping shop", shop.Name, err)
				return
			}
			perShop[i] = products
		}(i, shop)
	}
	wg.Wait()

	var all []UnifiedProduct
	for _, products := range perShop {
		all = append(all, products...)
	}
	return all
}

func (s *Service) loadShopProducts(ctx context.Context, shop ShopDescriptor) ([]UnifiedProduct, error) {
	if shop.ProductDataFile == "" {
		return nil, fmt.Errorf("no product data file")
	}
	data, err := s.fetcher.Fetch(ctx, shop.ProductDataFile)
	if err != nil {
		return nil, err
	}

	var raws []RawProduct
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", shop.ProductDataFile, err)
	}

	products := make([]UnifiedProduct, len(raws))
	for i, raw := range raws {
		products[i] = Normalize(raw, shop, i)
	}
	return products, nil
}

// Aggregate runs a full registry + products load, going through the caches.
// Only a registry failure is an error; missing shops just mean fewer
// products.
func (s *Service) Aggregate(ctx context.Context) (*Snapshot, error) {
	if v, ok := s.cache.Get(snapshotCacheKey); ok {
		if snap, ok := v.(*Snapshot); ok {
			return snap, nil
		}
	}
	if snap := s.redisGet(ctx); snap != nil {
		s.cache.Set(snapshotCacheKey, snap, int64(s.ttl.Seconds()), []string{snapshotCacheTag})
		return snap, nil
	}

	registry, err := s.LoadShopRegistry(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Shops:    registry,
		Products: s.LoadAllProducts(ctx, registry),
		LoadedAt: time.Now(),
	}
	s.cache.Set(snapshotCacheKey, snap, int64(s.ttl.Seconds()), []string{snapshotCacheTag})
	s.redisSet(ctx, snap)
	return snap, nil
}

// Refresh drops the cached snapshot and rebuilds it.
func (s *Service) Refresh(ctx context.Context) (*Snapshot, error) {
	s.cache.DeleteByTag(snapshotCacheTag)
	if s.redis != nil {
		if err := s.redis.Del(ctx, snapshotCacheKey).Err(); err != nil {
			log.Printf("catalog: redis del: %v", err)
		}
	}
	return s.Aggregate(ctx)
}

func (s *Service) redisGet(ctx context.Context) *Snapshot {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, snapshotCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("catalog: redis get: %v", err)
		}
		return nil
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("catalog: redis snapshot decode: %v, ignoring", err)
		return nil
	}
	return &snap
}

func (s *Service) redisSet(ctx context.Context, snap *Snapshot) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, snapshotCacheKey, data, s.ttl).Err(); err != nil {
		log.Printf("catalog: redis set: %v", err)
	}
}
