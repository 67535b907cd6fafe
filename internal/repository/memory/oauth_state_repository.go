package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// OAuthStateRepository holds short-lived OAuth state tokens between the
// redirect and the callback. One-time use: Consume removes the entry.
type OAuthStateRepository struct {
	cache *cache.Cache
}

func NewOAuthStateRepository() *OAuthStateRepository {
	// States live 10 minutes; expired entries are purged every 5.
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &OAuthStateRepository{
		cache: c,
	}
}

// Save stores the state token along with the provider it was issued for.
func (r *OAuthStateRepository) Save(state, provider string) {
	r.cache.Set(state, provider, cache.DefaultExpiration)
}

// Consume validates and removes the state, returning the provider it was
// issued for.
func (r *OAuthStateRepository) Consume(state string) (string, bool) {
	x, found := r.cache.Get(state)
	if !found {
		return "", false
	}
	r.cache.Delete(state)
	return x.(string), true
}
