package service

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pathCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filedrop_path_cache_hits_total",
		Help: "Folder path lookups served from the cache",
	})
	pathCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filedrop_path_cache_misses_total",
		Help: "Folder path lookups that walked the hierarchy",
	})
)

// PathSource computes folder paths and reports when they may have changed
type PathSource interface {
	GetFolderPath(id string) (string, error)
	Version() uint64
}

type cachedPath struct {
	version uint64
	path    string
}

// PathResolver turns folder ids into display paths such as "Photos / 2024 / Trip".
// Results are cached per folder and dropped once the source version moves on.
type PathResolver struct {
	source PathSource
	cache  *lru.Cache[string, cachedPath]
}

// NewPathResolver creates a resolver holding at most size paths
func NewPathResolver(source PathSource, size int) (*PathResolver, error) {
	cache, err := lru.New[string, cachedPath](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create path cache: %w", err)
	}
	return &PathResolver{source: source, cache: cache}, nil
}

// Resolve returns the path of folder id. Unknown ids fail with a NotFoundError.
func (r *PathResolver) Resolve(id string) (string, error) {
	version := r.source.Version()
	if entry, ok := r.cache.Get(id); ok && entry.version == version {
		pathCacheHits.Inc()
		return entry.path, nil
	}
	pathCacheMisses.Inc()

	path, err := r.source.GetFolderPath(id)
	if err != nil {
		r.cache.Remove(id)
		return "", err
	}
	r.cache.Add(id, cachedPath{version: version, path: path})
	return path, nil
}

// Len returns the number of cached paths
func (r *PathResolver) Len() int {
	return r.cache.Len()
}
