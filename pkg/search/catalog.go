package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"lexvault/pkg/cache"
	"lexvault/pkg/index"
)

// Catalog maps a metadata category to the distinct values currently in use,
// sorted. The frontend uses it to populate filter pickers.
type Catalog map[string][]string

// catalogCategories are the flattened metadata keys worth cataloguing.
var catalogCategories = []string{
	"documenttype", "level", "language", "tags", "topics",
	"accesslevel", "country", "jurisdiction", "license", "collection",
}

// CatalogService serves the compiled tag catalog from a TTL cache, so
// repeated picker loads do not rescan the container.
type CatalogService struct {
	engine *Engine
	cached *cache.TTL[Catalog]
}

// NewCatalogService returns a catalog service recomputing at most once per
// ttl.
func NewCatalogService(engine *Engine, ttl time.Duration) *CatalogService {
	return &CatalogService{
		engine: engine,
		cached: cache.New[Catalog](ttl),
	}
}

// NewCatalogServiceWithClock is the test hook carrying an injectable clock.
func NewCatalogServiceWithClock(engine *Engine, ttl time.Duration, now func() time.Time) *CatalogService {
	return &CatalogService{
		engine: engine,
		cached: cache.NewWithClock[Catalog](ttl, now),
	}
}

// Get returns the catalog, recompiling it when the cached copy is stale.
func (cs *CatalogService) Get(ctx context.Context) (Catalog, error) {
	return cs.cached.Get(ctx, cs.compile)
}

// Invalidate drops the cached catalog; mutating operations may call it to
// publish new values early.
func (cs *CatalogService) Invalidate() {
	cs.cached.Invalidate()
}

// compile scans the container (bounded by the engine's scan cap) and
// collects the distinct values per category.
func (cs *CatalogService) compile(ctx context.Context) (Catalog, error) {
	seen := make(map[string]map[string]bool)
	for _, cat := range catalogCategories {
		seen[cat] = make(map[string]bool)
	}

	indexDocs := make(map[string]*index.Document)
	scanned := 0
	token := ""

scan:
	for {
		page, err := cs.engine.blobs.List(ctx, "", false, token, 0)
		if err != nil {
			return nil, err
		}
		for i := range page.Records {
			rec := &page.Records[i]
			if rec.IsIndexBlob() || rec.IsDirectoryPlaceholder() {
				continue
			}
			if scanned >= cs.engine.maxScan {
				break scan
			}
			scanned++

			meta, _, err := cs.engine.evaluate(ctx, rec, Query{}, indexDocs)
			if err != nil {
				return nil, err
			}
			for cat, raw := range meta.Flatten() {
				values, tracked := seen[cat]
				if !tracked {
					continue
				}
				for _, v := range strings.Split(raw, ",") {
					if v = strings.TrimSpace(v); v != "" {
						values[v] = true
					}
				}
			}
		}
		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	catalog := make(Catalog, len(seen))
	for cat, values := range seen {
		if len(values) == 0 {
			continue
		}
		list := make([]string, 0, len(values))
		for v := range values {
			list = append(list, v)
		}
		sort.Strings(list)
		catalog[cat] = list
	}
	return catalog, nil
}
