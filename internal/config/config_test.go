package config_test

import (
	"testing"
	"time"

	"github.com/gilberto978/bishbash-api/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.LLMProvider, convey.ShouldEqual, config.ProviderOpenAI)
			convey.So(cfg.OpenAIModel, convey.ShouldEqual, "gpt-4o-mini")
			convey.So(cfg.UpstreamTimeout(), convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.CacheTTL(), convey.ShouldEqual, 10*time.Minute)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
