package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gilberto978/bishbash-api/internal/adapters/search"
	service "github.com/gilberto978/bishbash-api/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func headlines(n int) []search.Headline {
	out := make([]search.Headline, n)
	for i := range out {
		out[i] = search.Headline{Title: fmt.Sprintf("Headline %d", i), Source: "Reuters", URL: fmt.Sprintf("https://example.org/%d", i)}
	}
	return out
}

func TestService_FreshNews(t *testing.T) {
	ctx := context.Background()
	clock := func() time.Time { return time.Date(2025, 9, 14, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)) }

	Convey("Given a service with a news source", t, func() {
		news := &fakeNews{headlines: headlines(8)}

		Convey("When the digest is disabled", func() {
			svc := startService(service.WithNewsSearch(news), service.WithClock(clock), service.WithLLM(&fakeLLM{answer: "digest"}))
			defer svc.Stop()

			rep, err := svc.FreshNews(ctx, " forex ")

			Convey("Then the top five headlines and the placeholder are returned", func() {
				So(err, ShouldBeNil)
				So(rep.Topic, ShouldEqual, "forex")
				So(rep.Date, ShouldEqual, "2025-09-15")
				So(rep.Headlines, ShouldHaveLength, 5)
				So(rep.Summary, ShouldEqual, "AI summary not enabled yet (coming soon).")
			})
		})

		Convey("When the digest is enabled", func() {
			model := &fakeLLM{answer: "Markets were calm."}
			svc := startService(service.WithNewsSearch(news), service.WithLLM(model), service.WithNewsSummary(true))
			defer svc.Stop()

			rep, err := svc.FreshNews(ctx, "forex")

			Convey("Then the model digest replaces the placeholder", func() {
				So(err, ShouldBeNil)
				So(rep.Summary, ShouldEqual, "Markets were calm.")
				So(model.last().User, ShouldContainSubstring, "Headline 4 (Reuters)")
				So(model.last().User, ShouldNotContainSubstring, "Headline 5")
			})
		})

		Convey("When the source has nothing", func() {
			news.headlines = nil
			svc := startService(service.WithNewsSearch(news))
			defer svc.Stop()

			rep, err := svc.FreshNews(ctx, "forex")

			Convey("Then headlines is an empty list", func() {
				So(err, ShouldBeNil)
				So(rep.Headlines, ShouldNotBeNil)
				So(rep.Headlines, ShouldBeEmpty)
			})
		})

		Convey("When the source fails", func() {
			news.err = errors.New("bing_news: status 403")
			svc := startService(service.WithNewsSearch(news))
			defer svc.Stop()

			_, err := svc.FreshNews(ctx, "forex")

			Convey("Then the failure message is generic", func() {
				var se *service.Error
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Message, ShouldEqual, "Error fetching news")
				So(se.Detail, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a service without a news source", t, func() {
		svc := startService()
		defer svc.Stop()

		_, err := svc.FreshNews(ctx, "forex")
		So(errors.Is(err, service.ErrNotConfigured), ShouldBeTrue)

		_, err = svc.FreshNews(ctx, "")
		So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
	})
}
