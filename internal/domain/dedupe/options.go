package dedupe

// Option configures the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of outfit keys kept; the oldest key is forgotten
// first. A bound trades exactness for memory, so enumeration over a whole wardrobe
// leaves it unset. Zero or less means unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
