package service_test

import (
	"context"
	"testing"

	service "github.com/gilberto978/bishbash-api/internal/app"
	"github.com/gilberto978/bishbash-api/internal/config"
	"github.com/gilberto978/bishbash-api/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromConfig(t *testing.T) {
	ctx := context.Background()

	Convey("Given a config without API keys", t, func() {
		svc, err := service.FromConfig(ctx, config.New(), logger.Discard())

		Convey("Then only keyless providers are wired", func() {
			So(err, ShouldBeNil)
			providers := svc.GetStats()["providers"].(map[string]bool)
			So(providers["llm"], ShouldBeFalse)
			So(providers["web"], ShouldBeFalse)
			So(providers["serpapi"], ShouldBeFalse)
			So(providers["cysec"], ShouldBeFalse)
			So(providers["forum"], ShouldBeTrue)
			So(providers["fca"], ShouldBeTrue)
			So(providers["whois"], ShouldBeTrue)
			So(providers["dns"], ShouldBeTrue)
		})
	})

	Convey("Given a config with every key", t, func() {
		cfg := config.New()
		cfg.OpenAIAPIKey = "sk-test"
		cfg.BingAPIKey = "bing-test"
		cfg.SerpAPIKey = "serp-test"
		cfg.CacheSize = 0

		svc, err := service.FromConfig(ctx, cfg, logger.Discard())

		Convey("Then every provider is wired", func() {
			So(err, ShouldBeNil)
			stats := svc.GetStats()
			providers := stats["providers"].(map[string]bool)
			for _, name := range []string{"llm", "web", "serpapi", "news", "cysec"} {
				So(providers[name], ShouldBeTrue)
			}
			So(stats["llmProvider"], ShouldEqual, "openai")
			So(stats["cacheSize"], ShouldEqual, 0)
		})
	})

	Convey("Given an unknown LLM provider", t, func() {
		cfg := config.New()
		cfg.LLMProvider = "clippy"

		_, err := service.FromConfig(ctx, cfg, logger.Discard())
		So(err, ShouldNotBeNil)
	})
}
