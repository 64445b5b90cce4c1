package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"

	"imarket.GO/catalog"
)

var (
	searchServiceInstance *SearchService
	searchServiceOnce     sync.Once
)

// GetSearchService returns singleton SearchService.
func GetSearchService() *SearchService {
	searchServiceOnce.Do(func() {
		searchServiceInstance = NewSearchService()
	})
	return searchServiceInstance
}

// SearchService wraps an optional Elasticsearch index over the unified
// catalog. When ELASTICSEARCH_HOST is not set (or the cluster is down) every
// caller falls back to the in-memory suggestion index, so search never takes
// a page down.
type SearchService struct {
	client *elasticsearch.Client
	index  string

	mu       sync.Mutex
	lastSnap *catalog.Snapshot
	lastIdx  *catalog.SuggestionIndex
}

func NewSearchService() *SearchService {
	host := os.Getenv("ELASTICSEARCH_HOST")
	index := os.Getenv("ELASTICSEARCH_INDEX")
	if index == "" {
		index = "imarket_catalog"
	}
	if host == "" {
		return &SearchService{index: index}
	}

	cfg := elasticsearch.Config{
		Addresses: []string{host},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return &SearchService{index: index}
	}

	return &SearchService{
		client: client,
		index:  index,
	}
}

// Enabled reports whether an Elasticsearch client is configured.
func (s *SearchService) Enabled() bool {
	return s.client != nil
}

// IndexProducts bulk-indexes a snapshot's products. Document IDs are
// shop_id/product_id so reindexing overwrites in place.
func (s *SearchService) IndexProducts(ctx context.Context, products []catalog.UnifiedProduct) error {
	if s.client == nil {
		return fmt.Errorf("elasticsearch not configured")
	}

	var buf bytes.Buffer
	for _, p := range products {
		meta := map[string]map[string]string{
			"index": {"_index": s.index, "_id": p.ShopID + "/" + p.ID},
		}
		metaLine, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		docLine, err := json.Marshal(p)
		if err != nil {
			return err
		}
		buf.Write(metaLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}

	res, err := s.client.Bulk(bytes.NewReader(buf.Bytes()),
		s.client.Bulk.WithContext(ctx),
		s.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		return fmt.Errorf("bulk index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("bulk index: %s", res.String())
	}
	return nil
}

// Search queries the product index by name/category match and returns the
// matching unified products.
func (s *SearchService) Search(ctx context.Context, query string, size int) ([]catalog.UnifiedProduct, error) {
	if s.client == nil {
		return nil, fmt.Errorf("elasticsearch not configured")
	}
	if size <= 0 {
		size = 20
	}

	body := map[string]interface{}{
		"size": size,
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name^2", "category", "sub_category", "shop_name"},
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("search: %s", res.String())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source catalog.UnifiedProduct `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	products := make([]catalog.UnifiedProduct, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}

// Suggest runs the header search. With Elasticsearch it turns product hits
// into suggestions; otherwise it delegates to the in-memory index built from
// the snapshot.
func (s *SearchService) Suggest(ctx context.Context, snap *catalog.Snapshot, query string) []catalog.Suggestion {
	if len(strings.TrimSpace(query)) < catalog.MinQueryLength {
		return nil
	}

	if s.client != nil {
		if products, err := s.Search(ctx, query, catalog.MaxSuggestions); err == nil {
			out := make([]catalog.Suggestion, 0, len(products))
			for _, p := range products {
				out = append(out, catalog.Suggestion{
					Name:      p.Name,
					Kind:      catalog.KindProduct,
					ShopID:    p.ShopID,
					ProductID: p.ID,
				})
			}
			return out
		}
		// Cluster trouble: fall through to the local index.
	}

	return s.localIndex(snap).Query(query)
}

// localIndex memoizes the suggestion index per snapshot; rebuilding it on
// every keystroke would rescan the whole catalog.
func (s *SearchService) localIndex(snap *catalog.Snapshot) *catalog.SuggestionIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSnap != snap || s.lastIdx == nil {
		s.lastIdx = catalog.BuildSuggestionIndex(snap.Shops, snap.Products)
		s.lastSnap = snap
	}
	return s.lastIdx
}
