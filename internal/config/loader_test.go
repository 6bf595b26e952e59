package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/closet/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CLOSET_ADDR", ":8080")
			_ = os.Setenv("CLOSET_SEARCH_WORKERS", "16")
			_ = os.Setenv("CLOSET_ACCESSORY_CHANCE", "0.25")
			_ = os.Setenv("CLOSET_OPTIONAL_LAYERS", "true")
			_ = os.Setenv("CLOSET_RANDOM_SEED", "7")
			_ = os.Setenv("CLOSET_WARDROBE_DB", "/tmp/closet.db")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SearchWorkers, convey.ShouldEqual, 16)
				convey.So(cfg.AccessoryChance, convey.ShouldEqual, 0.25)
				convey.So(cfg.OptionalLayers, convey.ShouldBeTrue)
				convey.So(cfg.RandomSeed, convey.ShouldEqual, 7)
				convey.So(cfg.WardrobeDB, convey.ShouldEqual, "/tmp/closet.db")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
addr: ":9090"
wardrobe_path: ./clothes
search_queue_size: 4096
random_retries: 16
max_top_limit: 20
metrics_namespace: wardrobe
metrics_latency_buckets_ms: [1, 10, 100]
`)
			_ = os.Setenv("CLOSET_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WardrobePath, convey.ShouldEqual, "./clothes")
				convey.So(cfg.SearchQueueSize, convey.ShouldEqual, 4096)
				convey.So(cfg.RandomRetries, convey.ShouldEqual, 16)
				convey.So(cfg.MaxTopLimit, convey.ShouldEqual, 20)
				convey.So(cfg.MemoSize, convey.ShouldEqual, 256) // From defaults
				convey.So(cfg.MetricsNamespace, convey.ShouldEqual, "wardrobe")
				convey.So(cfg.MetricsSubsystem, convey.ShouldEqual, "outfits")
				convey.So(cfg.MetricsLatencyBucketsMS, convey.ShouldResemble, []float64{1, 10, 100})
			})

			convey.Convey("And environment variables override the file", func() {
				_ = os.Setenv("CLOSET_ADDR", ":7070")
				_ = os.Setenv("CLOSET_RANDOM_RETRIES", "8")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.RandomRetries, convey.ShouldEqual, 8)
				convey.So(cfg.SearchQueueSize, convey.ShouldEqual, 4096)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			_ = os.Setenv("CLOSET_CONFIG", createTempConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("CLOSET_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("CLOSET_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CLOSET_SEARCH_WORKERS", "not_a_number")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When an environment value is out of range", func() {
			_ = os.Setenv("CLOSET_ACCESSORY_CHANCE", "2")

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		if len(kv) > len(config.EnvPrefix) && kv[:len(config.EnvPrefix)] == config.EnvPrefix {
			name := kv
			for i := range kv {
				if kv[i] == '=' {
					name = kv[:i]
					break
				}
			}
			_ = os.Unsetenv(name)
		}
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "closet-config.yaml")
	if err := os.WriteFile(name, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return name
}
