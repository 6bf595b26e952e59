package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/closet/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()
			So(d, ShouldNotBeNil)
			So(d.Size(), ShouldEqual, 0)
		})

		Convey("When recording outfit keys", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the key is new", func() {
				seen := d.SeenAndRecord(ctx, "shirt=s1|pants=p1|shoes=k1")
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And the key was already produced from another anchor", func() {
				d.SeenAndRecord(ctx, "shirt=s1|pants=p1|shoes=k1")
				seen := d.SeenAndRecord(ctx, "shirt=s1|pants=p1|shoes=k1")
				So(seen, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When unrecording keys", func() {
			d := dedupe.NewInMemoryDeduper()
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")

			Convey("And the key exists", func() {
				d.Unrecord(ctx, "a")
				So(d.Size(), ShouldEqual, 1)
				So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
			})

			Convey("And the key does not exist", func() {
				d.Unrecord(ctx, "zzz")
				So(d.Size(), ShouldEqual, 2)
			})
		})

		Convey("When resetting", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(10))
			d.SeenAndRecord(ctx, "a")
			d.SeenAndRecord(ctx, "b")
			d.Reset(ctx)
			So(d.Size(), ShouldEqual, 0)
			So(d.SeenAndRecord(ctx, "a"), ShouldBeFalse)
		})

		Convey("When using bounded mode with eviction", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
			for _, k := range []string{"k1", "k2", "k3"} {
				So(d.SeenAndRecord(ctx, k), ShouldBeFalse)
			}
			So(d.SeenAndRecord(ctx, "k4"), ShouldBeFalse)

			Convey("Then the oldest key is evicted and the size is capped", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "k4"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "k3"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "k1"), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 3)
			})
		})

		Convey("When unrecording in bounded mode", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(2))
			d.SeenAndRecord(ctx, "k1")
			d.SeenAndRecord(ctx, "k2")
			d.Unrecord(ctx, "k1")
			d.SeenAndRecord(ctx, "k3")

			Convey("Then the freed slot is reused without evicting", func() {
				So(d.Size(), ShouldEqual, 2)
				So(d.SeenAndRecord(ctx, "k2"), ShouldBeTrue)
			})
		})

		Convey("When using unbounded mode", func() {
			for _, size := range []int{0, -1} {
				d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(size))
				const n = 1000
				for i := 0; i < n; i++ {
					So(d.SeenAndRecord(ctx, fmt.Sprintf("outfit-%d", i)), ShouldBeFalse)
				}
				So(d.Size(), ShouldEqual, int64(n))
				So(d.SeenAndRecord(ctx, "outfit-0"), ShouldBeTrue)
			}
		})

		Convey("When using nil context", func() {
			d := dedupe.NewInMemoryDeduper()
			So(func() { d.SeenAndRecord(nil, "k") }, ShouldNotPanic) //nolint:staticcheck
			So(func() { d.Unrecord(nil, "k") }, ShouldNotPanic)       //nolint:staticcheck
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper()
		const workers = 10
		const perWorker = 100

		Convey("When goroutines race on the same keys", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						if !d.SeenAndRecord(context.Background(), fmt.Sprintf("outfit-%d", i)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each key is newly recorded exactly once", func() {
				So(fresh, ShouldEqual, perWorker)
				So(d.Size(), ShouldEqual, int64(perWorker))
			})
		})
	})
}
