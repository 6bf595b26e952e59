package repository

import (
	"context"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering follows garment.CompareOutfits: score DESC, then category-ordered ids.
// "less" means ranks earlier, so in-order traversal yields the catalogue from best
// to worst. Subtree sizes make Rank O(log n) expected.

// Snapshot is an immutable view of the catalogue at one version.
type Snapshot struct {
	Version   uint64
	Taken     time.Time
	RankByKey map[string]int

	// TopCache holds the leading entries, up to the configured size.
	TopCache []Entry
	// Outfits holds every outfit in catalogue order.
	Outfits []garment.GeneratedOutfit
}

// treap node
type node struct {
	outfit garment.GeneratedOutfit
	prio   uint64
	left   *node
	right  *node
	size   int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func less(a, b *garment.GeneratedOutfit) bool {
	return garment.CompareOutfits(a, b) < 0
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

func insert(n *node, o *garment.GeneratedOutfit, prio uint64) *node {
	if n == nil {
		return &node{outfit: *o, prio: prio, size: 1}
	}
	if less(o, &n.outfit) {
		n.left = insert(n.left, o, prio)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, o, prio)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, o *garment.GeneratedOutfit) *node {
	if n == nil {
		return nil
	}
	switch c := garment.CompareOutfits(o, &n.outfit); {
	case c == 0:
		// Merge children by rotating highest priority up until leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, o)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, o)
		}
	case c < 0:
		n.left = deleteNode(n.left, o)
	default:
		n.right = deleteNode(n.right, o)
	}
	fix(n)
	return n
}

// rankOf returns the 1-based position of o, or 0 when absent.
func rankOf(n *node, o *garment.GeneratedOutfit) int {
	r := 0
	for n != nil {
		switch c := garment.CompareOutfits(o, &n.outfit); {
		case c < 0:
			n = n.left
		case c > 0:
			r += nsize(n.left) + 1
			n = n.right
		default:
			return r + nsize(n.left) + 1
		}
	}
	return 0
}

// collectTopN appends up to limit entries in rank order.
func collectTopN(n *node, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{Rank: len(*out) + 1, Outfit: n.outfit})
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// collectAll appends every outfit in rank order.
func collectAll(n *node, out *[]garment.GeneratedOutfit) {
	if n == nil {
		return
	}
	collectAll(n.left, out)
	*out = append(*out, n.outfit)
	collectAll(n.right, out)
}

// TreapStore implements Store.
type TreapStore struct {
	mu               sync.RWMutex
	root             *node
	byKey            map[string]garment.GeneratedOutfit
	version          uint64
	snapshotInterval time.Duration
	topCacheSize     int

	snapshot atomic.Pointer[Snapshot]

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Store = (*TreapStore)(nil)

// NewTreapStore constructs a treap store with configuration options. Snapshots are
// published in the background until ctx ends or Close is called.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		snapshotInterval: time.Second,
		topCacheSize:     500,
		byKey:            make(map[string]garment.GeneratedOutfit),
		stopChan:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.publishSnapshot()
	s.startPeriodicSnapshots(ctx)
	metrics.UpdateCatalogueSize(0)
	return s
}

// startPeriodicSnapshots publishes snapshots at the configured interval when the
// catalogue changed since the last one.
func (s *TreapStore) startPeriodicSnapshots(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.snapshotInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if s.stale() {
					s.publishSnapshot()
				}
			}
		}
	}()
}

func (s *TreapStore) stale() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.snapshot.Load()
	return snap == nil || snap.Version != s.version
}

// publishSnapshot rebuilds and publishes a new snapshot.
func (s *TreapStore) publishSnapshot() {
	start := time.Now()
	s.mu.RLock()
	s.publishSnapshotInternal()
	s.mu.RUnlock()
	metrics.RecordCatalogueSnapshot(float64(time.Since(start).Milliseconds()), time.Now().Unix())
}

// publishSnapshotInternal assumes the read lock is held.
func (s *TreapStore) publishSnapshotInternal() {
	all := make([]garment.GeneratedOutfit, 0, len(s.byKey))
	collectAll(s.root, &all)

	rankByKey := make(map[string]int, len(all))
	for i := range all {
		rankByKey[all[i].Key] = i + 1
	}
	top := make([]Entry, 0, min(s.topCacheSize, len(all)))
	for i := 0; i < len(all) && i < s.topCacheSize; i++ {
		top = append(top, Entry{Rank: i + 1, Outfit: all[i]})
	}

	s.snapshot.Store(&Snapshot{
		Version:   s.version,
		Taken:     time.Now(),
		RankByKey: rankByKey,
		TopCache:  top,
		Outfits:   all,
	})
}

// Snapshot returns the most recently published snapshot. It may lag behind writes by
// up to the snapshot interval.
func (s *TreapStore) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Close gracefully shuts down the periodic snapshot goroutine.
func (s *TreapStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// current returns the published snapshot when it matches the live version.
// Must be called with the read lock held.
func (s *TreapStore) current() *Snapshot {
	if snap := s.snapshot.Load(); snap != nil && snap.Version == s.version {
		return snap
	}
	return nil
}

// put stores o, replacing any previous outfit with the same key. Must be called
// with the write lock held. Returns true on insert.
func (s *TreapStore) put(o garment.GeneratedOutfit) bool {
	old, exists := s.byKey[o.Key]
	if exists {
		if old.Source == garment.SourceCurated {
			o.Source = garment.SourceCurated
		}
		o.Loved = o.Loved || old.Loved
		s.root = deleteNode(s.root, &old)
	}
	s.byKey[o.Key] = o
	s.root = insert(s.root, &o, rand.Uint64())
	s.version++
	return !exists
}

// remove deletes the outfit under key. Must be called with the write lock held.
func (s *TreapStore) remove(key string) bool {
	old, ok := s.byKey[key]
	if !ok {
		return false
	}
	s.root = deleteNode(s.root, &old)
	delete(s.byKey, key)
	s.version++
	return true
}

// Upsert implements Store.Upsert with O(log n) expected time.
func (s *TreapStore) Upsert(_ context.Context, o garment.GeneratedOutfit) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordCatalogueUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if len(o.Selection) == 0 {
		metrics.RecordErrorByComponent("repository", "invalid_outfit")
		return false, ErrInvalidOutfit
	}
	o.Key = o.Selection.Key()
	if o.Source == "" {
		o.Source = garment.SourceGenerated
	}

	s.mu.Lock()
	inserted := s.put(o)
	n := len(s.byKey)
	s.mu.Unlock()

	metrics.UpdateCatalogueSize(n)
	return inserted, nil
}

// ReplaceGenerated implements Store.ReplaceGenerated.
func (s *TreapStore) ReplaceGenerated(_ context.Context, outfits []garment.GeneratedOutfit) (added, removed int, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordCatalogueUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	fresh := make(map[string]struct{}, len(outfits))
	for i := range outfits {
		if len(outfits[i].Selection) == 0 {
			metrics.RecordErrorByComponent("repository", "invalid_outfit")
			return 0, 0, ErrInvalidOutfit
		}
		fresh[outfits[i].Selection.Key()] = struct{}{}
	}

	s.mu.Lock()
	var stale []string
	for key, o := range s.byKey {
		if o.Source != garment.SourceGenerated || o.Loved {
			continue
		}
		if _, keep := fresh[key]; !keep {
			stale = append(stale, key)
		}
	}
	for _, key := range stale {
		if s.remove(key) {
			removed++
		}
	}
	for i := range outfits {
		o := outfits[i]
		o.Key = o.Selection.Key()
		o.Source = garment.SourceGenerated
		if s.put(o) {
			added++
		}
	}
	n := len(s.byKey)
	s.mu.Unlock()

	metrics.UpdateCatalogueSize(n)
	return added, removed, nil
}

// Get implements Store.Get.
func (s *TreapStore) Get(_ context.Context, key string) (garment.GeneratedOutfit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byKey[key]
	if !ok {
		return garment.GeneratedOutfit{}, ErrNotFound
	}
	return o, nil
}

// Delete implements Store.Delete.
func (s *TreapStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	ok := s.remove(key)
	n := len(s.byKey)
	s.mu.Unlock()

	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return ErrNotFound
	}
	metrics.UpdateCatalogueSize(n)
	return nil
}

// SetLoved implements Store.SetLoved. The loved flag does not affect ordering.
func (s *TreapStore) SetLoved(_ context.Context, key string, loved bool) (garment.GeneratedOutfit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byKey[key]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return garment.GeneratedOutfit{}, ErrNotFound
	}
	if o.Loved == loved {
		return o, nil
	}
	s.root = deleteNode(s.root, &o)
	o.Loved = loved
	s.byKey[key] = o
	s.root = insert(s.root, &o, rand.Uint64())
	s.version++
	return o, nil
}

// Rank returns the current position of an outfit in O(log n).
func (s *TreapStore) Rank(_ context.Context, key string) (Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordCatalogueQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.byKey[key]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return Entry{}, ErrNotFound
	}
	if snap := s.current(); snap != nil {
		return Entry{Rank: snap.RankByKey[key], Outfit: o}, nil
	}
	return Entry{Rank: rankOf(s.root, &o), Outfit: o}, nil
}

// TopN returns the first n entries in catalogue order.
func (s *TreapStore) TopN(_ context.Context, n int) ([]Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordCatalogueQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if snap := s.current(); snap != nil && (n <= len(snap.TopCache) || len(snap.TopCache) == len(snap.Outfits)) {
		return append([]Entry(nil), snap.TopCache[:min(n, len(snap.TopCache))]...), nil
	}
	out := make([]Entry, 0, min(n, len(s.byKey)))
	collectTopN(s.root, n, &out)
	return out, nil
}

// All returns every outfit in catalogue order.
func (s *TreapStore) All(_ context.Context) []garment.GeneratedOutfit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if snap := s.current(); snap != nil {
		return append([]garment.GeneratedOutfit(nil), snap.Outfits...)
	}
	out := make([]garment.GeneratedOutfit, 0, len(s.byKey))
	collectAll(s.root, &out)
	return out
}

// Reset drops every outfit.
func (s *TreapStore) Reset(_ context.Context) {
	s.mu.Lock()
	s.root = nil
	s.byKey = make(map[string]garment.GeneratedOutfit)
	s.version++
	s.mu.Unlock()
	metrics.UpdateCatalogueSize(0)
}

// Count returns the number of outfits.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey)
}
