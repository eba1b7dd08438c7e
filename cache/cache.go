// Package cache provides a bounded in-memory store for decoded images
// and thumbnails, keyed by path, with strict LRU eviction, background
// preloading and hit/miss accounting.
//
// Capacity is a byte budget, not an entry count: image sizes vary by
// orders of magnitude, so counting entries would make memory use
// unpredictable. Full images and thumbnails live in logically separate
// budget pools — evicting one never evicts the other.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/gogpu/darkroom"
)

// Default byte budgets.
const (
	DefaultImageBudget     = 512 << 20
	DefaultThumbnailBudget = 64 << 20
)

// maxPreloadInFlight bounds concurrent background loads so preloading
// cannot overwhelm I/O or the decoder.
const maxPreloadInFlight = 10

// Loader supplies cache misses during preloading. The default loader
// decodes from disk via darkroom.LoadImageFile.
type Loader interface {
	LoadImage(path string) (*darkroom.Image, error)
	LoadThumbnail(path string, maxSize int) (*darkroom.Image, error)
}

// fileLoader is the default disk-backed loader.
type fileLoader struct{}

func (fileLoader) LoadImage(path string) (*darkroom.Image, error) {
	return darkroom.LoadImageFile(path)
}

func (fileLoader) LoadThumbnail(path string, maxSize int) (*darkroom.Image, error) {
	return darkroom.LoadThumbnailFile(path, maxSize)
}

// thumbKey identifies a thumbnail by path and requested size.
type thumbKey struct {
	path string
	size int
}

type imageEntry struct {
	img   *darkroom.Image
	node  *lruNode[string]
	bytes int
}

type thumbEntry struct {
	img   *darkroom.Image
	node  *lruNode[thumbKey]
	bytes int
}

// ImageCache is a bounded LRU cache for full-resolution images and
// thumbnails. Reads are all-or-nothing: a miss never returns stale or
// partial data.
//
// ImageCache is safe for concurrent use. The lock is held only around
// map/list mutation, never across loading or decoding.
type ImageCache struct {
	mu sync.Mutex

	images      map[string]*imageEntry
	imageList   lruList[string]
	imageBytes  int
	imageBudget int

	thumbs      map[thumbKey]*thumbEntry
	thumbList   lruList[thumbKey]
	thumbBytes  int
	thumbBudget int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64

	loader Loader
	sem    chan struct{}
	wg     sync.WaitGroup
}

// Option configures an ImageCache.
type Option func(*ImageCache)

// WithImageBudget sets the byte budget for full-resolution images.
func WithImageBudget(bytes int) Option {
	return func(c *ImageCache) {
		if bytes > 0 {
			c.imageBudget = bytes
		}
	}
}

// WithThumbnailBudget sets the byte budget for thumbnails.
func WithThumbnailBudget(bytes int) Option {
	return func(c *ImageCache) {
		if bytes > 0 {
			c.thumbBudget = bytes
		}
	}
}

// WithLoader replaces the disk-backed loader used by preloading.
func WithLoader(l Loader) Option {
	return func(c *ImageCache) {
		if l != nil {
			c.loader = l
		}
	}
}

// New creates an image cache with the given options.
func New(opts ...Option) *ImageCache {
	c := &ImageCache{
		images:      make(map[string]*imageEntry),
		thumbs:      make(map[thumbKey]*thumbEntry),
		imageBudget: DefaultImageBudget,
		thumbBudget: DefaultThumbnailBudget,
		loader:      fileLoader{},
		sem:         make(chan struct{}, maxPreloadInFlight),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached full-resolution image for path, bumping its
// recency. The second return is false on a miss.
func (c *ImageCache) Get(path string) (*darkroom.Image, bool) {
	c.mu.Lock()
	entry, ok := c.images[path]
	if ok {
		c.imageList.MoveToFront(entry.node)
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return entry.img, true
}

// Insert stores a full-resolution image, evicting least-recently-used
// entries until the new entry fits the byte budget. Entries larger than
// the whole budget are not cached.
func (c *ImageCache) Insert(path string, img *darkroom.Image) {
	size := img.SizeBytes()
	if size > c.imageBudget {
		darkroom.Logger().Warn("image exceeds cache budget, not cached",
			"path", path, "bytes", size)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.images[path]; ok {
		c.imageBytes -= old.bytes
		c.imageList.Remove(old.node)
		delete(c.images, path)
	}

	for c.imageBytes+size > c.imageBudget {
		oldest, ok := c.imageList.RemoveOldest()
		if !ok {
			break
		}
		if e, ok := c.images[oldest]; ok {
			c.imageBytes -= e.bytes
			delete(c.images, oldest)
			c.evictions.Add(1)
		}
	}

	c.images[path] = &imageEntry{
		img:   img,
		node:  c.imageList.PushFront(path),
		bytes: size,
	}
	c.imageBytes += size
}

// GetThumbnail returns the cached thumbnail for path at the given size.
func (c *ImageCache) GetThumbnail(path string, size int) (*darkroom.Image, bool) {
	key := thumbKey{path: path, size: size}

	c.mu.Lock()
	entry, ok := c.thumbs[key]
	if ok {
		c.thumbList.MoveToFront(entry.node)
	}
	c.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return entry.img, true
}

// InsertThumbnail stores a thumbnail under (path, size), evicting from
// the thumbnail pool only.
func (c *ImageCache) InsertThumbnail(path string, size int, img *darkroom.Image) {
	bytes := img.SizeBytes()
	if bytes > c.thumbBudget {
		return
	}
	key := thumbKey{path: path, size: size}

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.thumbs[key]; ok {
		c.thumbBytes -= old.bytes
		c.thumbList.Remove(old.node)
		delete(c.thumbs, key)
	}

	for c.thumbBytes+bytes > c.thumbBudget {
		oldest, ok := c.thumbList.RemoveOldest()
		if !ok {
			break
		}
		if e, ok := c.thumbs[oldest]; ok {
			c.thumbBytes -= e.bytes
			delete(c.thumbs, oldest)
			c.evictions.Add(1)
		}
	}

	c.thumbs[key] = &thumbEntry{
		img:   img,
		node:  c.thumbList.PushFront(key),
		bytes: bytes,
	}
	c.thumbBytes += bytes
}

// Remove drops the full-resolution image and every cached thumbnail for
// path, e.g. after the file changed on disk.
func (c *ImageCache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.images[path]; ok {
		c.imageBytes -= e.bytes
		c.imageList.Remove(e.node)
		delete(c.images, path)
	}
	for key, e := range c.thumbs {
		if key.path == path {
			c.thumbBytes -= e.bytes
			c.thumbList.Remove(e.node)
			delete(c.thumbs, key)
		}
	}
}

// Preload eagerly triggers background loads for paths not yet cached.
// It returns immediately; at most maxPreloadInFlight loads run
// concurrently. Use Wait to block until outstanding preloads finish.
func (c *ImageCache) Preload(paths []string) {
	for _, path := range paths {
		c.mu.Lock()
		_, cached := c.images[path]
		c.mu.Unlock()
		if cached {
			continue
		}

		c.wg.Add(1)
		go func(path string) {
			defer c.wg.Done()
			c.sem <- struct{}{}
			defer func() { <-c.sem }()

			img, err := c.loader.LoadImage(path)
			if err != nil {
				darkroom.Logger().Warn("preload failed", "path", path, "error", err)
				return
			}
			c.Insert(path, img)
		}(path)
	}
}

// PreloadThumbnails loads thumbnails for all paths in parallel, bounded
// to maxPreloadInFlight concurrent loads, and blocks until done.
func (c *ImageCache) PreloadThumbnails(paths []string, size int) {
	var wg sync.WaitGroup
	for _, path := range paths {
		if _, ok := c.peekThumbnail(path, size); ok {
			continue
		}

		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			c.sem <- struct{}{}
			defer func() { <-c.sem }()

			img, err := c.loader.LoadThumbnail(path, size)
			if err != nil {
				darkroom.Logger().Warn("thumbnail preload failed", "path", path, "error", err)
				return
			}
			c.InsertThumbnail(path, size, img)
		}(path)
	}
	wg.Wait()
}

// peekThumbnail checks presence without touching recency or counters.
func (c *ImageCache) peekThumbnail(path string, size int) (*darkroom.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.thumbs[thumbKey{path: path, size: size}]
	if !ok {
		return nil, false
	}
	return e.img, true
}

// Wait blocks until all background preloads started by Preload finish.
func (c *ImageCache) Wait() {
	c.wg.Wait()
}

// Clear removes all entries from both pools. Counters are not reset.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.images = make(map[string]*imageEntry)
	c.thumbs = make(map[thumbKey]*thumbEntry)
	c.imageList.Clear()
	c.thumbList.Clear()
	c.imageBytes = 0
	c.thumbBytes = 0
}

// Stats is a point-in-time snapshot of cache contents and counters.
type Stats struct {
	// Hits and Misses count Get/GetThumbnail outcomes.
	Hits   uint64
	Misses uint64
	// HitRate is Hits/(Hits+Misses), 0 when no lookups happened.
	HitRate float64
	// Evictions counts entries removed by the LRU policy.
	Evictions uint64

	ImageCount     int
	ImageBytes     int
	ThumbnailCount int
	ThumbnailBytes int
}

// Stats returns a snapshot of the cache.
func (c *ImageCache) Stats() Stats {
	c.mu.Lock()
	imageCount := len(c.images)
	imageBytes := c.imageBytes
	thumbCount := len(c.thumbs)
	thumbBytes := c.thumbBytes
	c.mu.Unlock()

	hits := c.hits.Load()
	misses := c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}

	return Stats{
		Hits:           hits,
		Misses:         misses,
		HitRate:        rate,
		Evictions:      c.evictions.Load(),
		ImageCount:     imageCount,
		ImageBytes:     imageBytes,
		ThumbnailCount: thumbCount,
		ThumbnailBytes: thumbBytes,
	}
}
