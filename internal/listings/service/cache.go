package service

import (
	"context"
	"time"

	"staybook/pkg/model"

	"github.com/karlseguin/ccache/v3"
	"golang.org/x/sync/singleflight"
)

// listingCache is a read-through cache over the repository. Listings never
// change after creation, so entries are only evicted by size and TTL.
type listingCache struct {
	cache *ccache.Cache[*model.Listing]
	group singleflight.Group
	ttl   time.Duration
}

func newListingCache(maxSize int, ttl time.Duration) *listingCache {
	return &listingCache{
		cache: ccache.New(ccache.Configure[*model.Listing]().MaxSize(int64(maxSize))),
		ttl:   ttl,
	}
}

// get returns the cached listing or loads it once for all concurrent callers.
// The load runs detached from any single caller's cancellation so that one
// abandoned request cannot fail the others waiting on it.
func (c *listingCache) get(ctx context.Context, id string, load func(context.Context, string) (*model.Listing, error)) (*model.Listing, error) {
	if listing, ok := c.peek(id); ok {
		return listing, nil
	}

	ch := c.group.DoChan(id, func() (any, error) {
		listing, err := load(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}
		c.cache.Set(id, listing, c.ttl)
		return listing, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Listing), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *listingCache) peek(id string) (*model.Listing, bool) {
	if item := c.cache.Get(id); item != nil && !item.Expired() {
		return item.Value(), true
	}
	return nil, false
}

func (c *listingCache) put(listing *model.Listing) {
	c.cache.Set(listing.ID, listing, c.ttl)
}

func (c *listingCache) stop() {
	c.cache.Stop()
}
