package config_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/okian/closet/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.WardrobePath, convey.ShouldEqual, "wardrobe.yaml")
			convey.So(cfg.RandomRetries, convey.ShouldEqual, 64)
			convey.So(cfg.AccessoryChance, convey.ShouldEqual, 0.5)
			convey.So(cfg.SearchWorkers, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.SearchDebounce(), convey.ShouldEqual, 150*time.Millisecond)
			convey.So(cfg.SnapshotInterval(), convey.ShouldEqual, 500*time.Millisecond)
			convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "closet")
			convey.So(cfg.MetricsLatencyBucketsMS, convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})

	convey.Convey("Given configs with out of range values", t, func() {
		cases := map[string]func(*config.Config){
			"empty addr":          func(c *config.Config) { c.Addr = "" },
			"no wardrobe source":  func(c *config.Config) { c.WardrobePath = "" },
			"zero retries":        func(c *config.Config) { c.RandomRetries = 0 },
			"chance above one":    func(c *config.Config) { c.AccessoryChance = 1.5 },
			"no workers":          func(c *config.Config) { c.SearchWorkers = 0 },
			"negative debounce":   func(c *config.Config) { c.SearchDebounceMS = -1 },
			"zero memo":           func(c *config.Config) { c.MemoSize = 0 },
			"zero top limit":      func(c *config.Config) { c.MaxTopLimit = 0 },
			"zero snapshot":       func(c *config.Config) { c.SnapshotIntervalMS = 0 },
			"zero queue capacity": func(c *config.Config) { c.SearchQueueSize = 0 },
			"empty namespace":     func(c *config.Config) { c.MetricsNamespace = "" },
			"unsorted buckets":    func(c *config.Config) { c.MetricsLatencyBucketsMS = []float64{10, 5} },
			"zero bucket":         func(c *config.Config) { c.MetricsLatencyBucketsMS = []float64{0, 5} },
		}
		for name, mutate := range cases {
			convey.Convey("Then validation rejects "+name, func() {
				cfg := config.New()
				mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})

	convey.Convey("Given a config backed only by a database", t, func() {
		cfg := config.New()
		cfg.WardrobePath = ""
		cfg.WardrobeDB = "closet.db"
		convey.So(cfg.Validate(), convey.ShouldBeNil)
	})
}
