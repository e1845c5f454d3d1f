package config_test

import (
	"context"
	"os"
	"testing"

	"github.com/okian/medgraph/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	for _, key := range []string{
		"MEDGRAPH_CONFIG",
		"MEDGRAPH_ADDR",
		"MEDGRAPH_WINDOW_SPAN",
		"MEDGRAPH_QUEUE_SIZE",
		"MEDGRAPH_DEDUPE_SIZE",
		"MEDGRAPH_HISTORY_SIZE",
		"MEDGRAPH_MAX_RECENT_LIMIT",
		"MEDGRAPH_LOG_LEVEL",
	} {
		_ = os.Unsetenv(key)
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "medgraph-*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	_ = f.Close()
	return f.Name()
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.WindowSpan, convey.ShouldEqual, 60)
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 100_000)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 500_000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("MEDGRAPH_ADDR", ":8080")
			_ = os.Setenv("MEDGRAPH_WINDOW_SPAN", "120")
			_ = os.Setenv("MEDGRAPH_QUEUE_SIZE", "50000")
			_ = os.Setenv("MEDGRAPH_HISTORY_SIZE", "2048")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.WindowSpan, convey.ShouldEqual, 120)
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 50000)
				convey.So(cfg.HistorySize, convey.ShouldEqual, 2048)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
window_span: 300
queue_size: 25000
max_recent_limit: 500
`
			tmpFile := createTempConfigFile(t, yamlContent)

			_ = os.Setenv("MEDGRAPH_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WindowSpan, convey.ShouldEqual, 300)
				convey.So(cfg.EventQueueSize, convey.ShouldEqual, 25000)
				convey.So(cfg.MaxRecentLimit, convey.ShouldEqual, 500)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "addr: \":9090\"\nwindow_span: 300\n")

			_ = os.Setenv("MEDGRAPH_CONFIG", tmpFile)
			_ = os.Setenv("MEDGRAPH_WINDOW_SPAN", "600")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env vars should take precedence over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WindowSpan, convey.ShouldEqual, 600)
			})
		})

		convey.Convey("When the configuration is invalid", func() {
			_ = os.Setenv("MEDGRAPH_WINDOW_SPAN", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading should fail with ErrInvalidConfig", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "window_span")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("MEDGRAPH_CONFIG", "/nonexistent/medgraph.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading should fail", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
