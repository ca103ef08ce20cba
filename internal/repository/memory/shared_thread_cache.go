package memory

import (
	"time"

	"ai-chat-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SharedThreadCache keeps recently resolved public threads so repeated reads
// of a shared link skip the database. Entries are invalidated on share state
// changes and expire on their own otherwise.
type SharedThreadCache struct {
	cache *cache.Cache
}

func NewSharedThreadCache() *SharedThreadCache {
	// Default expiration 5 minutes, purge sweep every 10.
	c := cache.New(5*time.Minute, 10*time.Minute)
	return &SharedThreadCache{
		cache: c,
	}
}

func (r *SharedThreadCache) Save(thread *entity.Thread) {
	r.cache.Set(thread.Id.String(), thread, cache.DefaultExpiration)
}

func (r *SharedThreadCache) Get(threadRowID string) (*entity.Thread, bool) {
	if x, found := r.cache.Get(threadRowID); found {
		return x.(*entity.Thread), true
	}
	return nil, false
}

func (r *SharedThreadCache) Delete(threadRowID string) {
	r.cache.Delete(threadRowID)
}
