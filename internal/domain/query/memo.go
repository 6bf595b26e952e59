package query

import (
	"slices"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/pkg/metrics"
)

// DefaultMemoSize is the number of filter results a Memo keeps.
const DefaultMemoSize = 256

// Fingerprint hashes an outfit list in order: keys, scores, sources, loved flags and
// every garment field, so an edited garment that keeps its id changes the result.
// Lists with equal fingerprints filter identically.
func Fingerprint(outfits []garment.GeneratedOutfit) uint64 {
	d := xxhash.New()
	var buf [20]byte
	for i := range outfits {
		o := &outfits[i]
		_, _ = d.WriteString(o.Key)
		_, _ = d.Write(strconv.AppendInt(buf[:0], int64(o.Score), 10))
		_, _ = d.WriteString(string(o.Source))
		if o.Loved {
			_, _ = d.WriteString("+")
		}
		for _, g := range o.Selection.Items() {
			_, _ = d.WriteString("\x01" + g.ID + "\x01" + g.Name + "\x01" + g.Brand + "\x01" + g.ImageRef + "\x01")
			_, _ = d.Write(strconv.AppendInt(buf[:0], int64(g.Formality), 10))
			for _, tag := range g.StyleTags {
				_, _ = d.WriteString("\x02" + tag)
			}
		}
		_, _ = d.WriteString("\x00")
	}
	return d.Sum64()
}

func memoKey(list uint64, term string, c *Criteria) uint64 {
	d := xxhash.New()
	var buf [20]byte
	_, _ = d.Write(strconv.AppendUint(buf[:0], list, 16))
	_, _ = d.WriteString("\x00" + term + "\x00")
	_, _ = d.Write(strconv.AppendInt(buf[:0], int64(c.MinScore), 10))
	_, _ = d.WriteString("\x00" + string(c.Source))
	if c.LovedOnly {
		_, _ = d.WriteString("\x00loved")
	}
	for _, cat := range c.Categories {
		_, _ = d.WriteString("\x00" + string(cat))
	}
	return d.Sum64()
}

// Memo caches filter results keyed by list fingerprint, term and criteria. Eviction
// is first in, first out. Memo is safe for concurrent use.
type Memo struct {
	mu       sync.Mutex
	entries  map[uint64][]garment.GeneratedOutfit
	order    []uint64
	capacity int
}

// NewMemo creates a memo holding up to capacity results; capacity < 1 uses the default.
func NewMemo(capacity int) *Memo {
	if capacity < 1 {
		capacity = DefaultMemoSize
	}
	return &Memo{
		entries:  make(map[uint64][]garment.GeneratedOutfit, capacity),
		order:    make([]uint64, 0, capacity),
		capacity: capacity,
	}
}

// Filter returns Filter(outfits, term, c), computing it at most once per distinct input.
// The returned slice is a copy the caller may keep.
func (m *Memo) Filter(outfits []garment.GeneratedOutfit, term string, c Criteria) []garment.GeneratedOutfit {
	key := memoKey(Fingerprint(outfits), term, &c)

	m.mu.Lock()
	if cached, ok := m.entries[key]; ok {
		m.mu.Unlock()
		metrics.RecordMemoHit()
		return slices.Clone(cached)
	}
	m.mu.Unlock()

	metrics.RecordMemoMiss()
	result := Filter(outfits, term, c)

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[key]; !ok {
		if len(m.order) >= m.capacity {
			delete(m.entries, m.order[0])
			m.order = m.order[1:]
		}
		m.entries[key] = result
		m.order = append(m.order, key)
	}
	return slices.Clone(result)
}

// Len returns the number of cached results.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Reset drops every cached result.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	m.order = m.order[:0]
}
