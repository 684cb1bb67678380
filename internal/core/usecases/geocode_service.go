package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/core/ports"
	"github.com/vtolops/skyplan/internal/pkg/metrics"
)

// GeocodeService resolves free-text queries through an upstream geocoder,
// memoizing results in a bounded cache keyed by the exact query string.
type GeocodeService struct {
	geocoder   ports.Geocoder
	cache      ports.CacheService
	ttlSeconds int
}

// NewGeocodeService creates a GeocodeService. cache may be nil (no
// memoization).
func NewGeocodeService(geocoder ports.Geocoder, cache ports.CacheService, ttlSeconds int) *GeocodeService {
	if ttlSeconds <= 0 {
		ttlSeconds = 86400
	}
	return &GeocodeService{geocoder: geocoder, cache: cache, ttlSeconds: ttlSeconds}
}

// Search returns the best hit for the query, or domain.ErrNotFound.
func (s *GeocodeService) Search(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	if query == "" {
		return nil, fmt.Errorf("geocode query must not be empty")
	}

	cacheKey := "geocode:q:" + query
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var hit domain.GeocodeResult
			if err := json.Unmarshal(data, &hit); err == nil {
				metrics.GeocodeCacheHits.Inc()
				return &hit, nil
			}
		}
		metrics.GeocodeCacheMisses.Inc()
	}

	hit, err := s.geocoder.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(hit); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, s.ttlSeconds)
		}
	}

	return hit, nil
}
