package app

import (
	"context"
	"time"

	"github.com/wlw20016/yisu-hotel/internal/domain"
)

// LocationSentinel is what the mobile client sends when the visitor picked
// "use my location" without resolving it; it means "no city filter".
const LocationSentinel = "我的位置"

// QueryService serves the public read surface. Hotel detail is cached with a
// TTL; writes evict the key.
type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

// SearchPublic runs the discovery query. Only PUBLISHED rows are eligible, no
// matter what the filter says. Non-positive page/pageSize are clamped to 1.
func (s *QueryService) SearchPublic(ctx context.Context, q domain.SearchQuery) (domain.SearchPage, error) {
	if q.City == LocationSentinel {
		q.City = ""
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 1
	}
	return s.repo.Search(ctx, q)
}

// GetPublicDetail returns a published hotel with its rooms. A missing row and
// an unpublished one yield the same ErrNotFound.
func (s *QueryService) GetPublicDetail(ctx context.Context, id int64) (domain.HotelDetail, error) {
	key := detailCacheKey(id)
	var d domain.HotelDetail
	if ok, _ := s.cache.Get(ctx, key, &d); ok {
		return d, nil
	}
	d, err := s.repo.GetPublishedDetail(ctx, id)
	if err != nil {
		return domain.HotelDetail{}, err
	}
	_ = s.cache.Set(ctx, key, d, int(s.cacheTTL.Seconds()))
	return d, nil
}
