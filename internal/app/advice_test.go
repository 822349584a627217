package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gilberto978/bishbash-api/internal/adapters/llm"
	service "github.com/gilberto978/bishbash-api/internal/app"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_Advise(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with an LLM", t, func() {
		model := &fakeLLM{answer: "Stand up. Walk."}
		svc := startService(service.WithLLM(model))
		defer svc.Stop()

		Convey("When asking a question", func() {
			ans, err := svc.Advise(ctx, "  I feel stuck  ")

			Convey("Then the model answer is returned with the advice persona", func() {
				So(err, ShouldBeNil)
				So(ans.Answer, ShouldEqual, "Stand up. Walk.")
				So(model.last().User, ShouldEqual, "I feel stuck")
				So(model.last().System, ShouldContainSubstring, "BishBash Brutal Advice")
				So(model.last().Temperature, ShouldEqual, 0.9)
			})
		})

		Convey("When the question is blank", func() {
			_, err := svc.Advise(ctx, "   ")

			Convey("Then it is rejected as invalid input", func() {
				So(errors.Is(err, service.ErrInvalidInput), ShouldBeTrue)
				var se *service.Error
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Message, ShouldEqual, "Missing 'question' in body.")
			})
		})

		Convey("When the question mentions self-harm", func() {
			ans, err := svc.Advise(ctx, "I keep thinking about Suicide")

			Convey("Then the crisis answer is returned without calling the model", func() {
				So(err, ShouldBeNil)
				So(ans.Answer, ShouldEqual, service.Crisis.String())
				So(model.calls(), ShouldEqual, 0)
			})
		})

		Convey("When the model returns nothing", func() {
			model.answer = "  "
			ans, err := svc.Advise(ctx, "why")

			Convey("Then the fallback is returned", func() {
				So(err, ShouldBeNil)
				So(ans.Answer, ShouldEqual, "No response")
			})
		})

		Convey("When the provider rejects the request", func() {
			model.err = &llm.APIError{Provider: "openai", Status: 401, Message: "Incorrect API key provided"}
			_, err := svc.Advise(ctx, "why")

			Convey("Then the provider message is surfaced", func() {
				var se *service.Error
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Kind, ShouldEqual, service.ErrUpstream)
				So(se.Message, ShouldEqual, "Incorrect API key provided")
				So(errors.Is(err, llm.ErrAPI), ShouldBeTrue)
			})
		})

		Convey("When the provider is unreachable", func() {
			model.err = errors.New("dial tcp: connection refused")
			_, err := svc.Advise(ctx, "why")

			Convey("Then a connection failure is reported", func() {
				var se *service.Error
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Message, ShouldEqual, "Failed to connect to OpenAI")
				So(se.Detail, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a service without an LLM", t, func() {
		svc := startService()
		defer svc.Stop()

		_, err := svc.Advise(ctx, "why")
		So(errors.Is(err, service.ErrNotConfigured), ShouldBeTrue)
	})
}

func TestService_Shove(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service with an LLM", t, func() {
		model := &fakeLLM{answer: "1) Cut Illusion ..."}
		svc := startService(service.WithLLM(model))
		defer svc.Stop()

		Convey("When the query is empty", func() {
			res, err := svc.Shove(ctx, "")

			Convey("Then the default query is sent with the shove limits", func() {
				So(err, ShouldBeNil)
				So(res.Crisis, ShouldBeNil)
				So(res.Payload(), ShouldResemble, service.Answer{Answer: "1) Cut Illusion ..."})
				So(model.last().User, ShouldEqual, "Give me brutal life advice")
				So(model.last().MaxTokens, ShouldEqual, 280)
				So(model.last().Temperature, ShouldEqual, 0.8)
			})
		})

		Convey("When the query is a crisis", func() {
			res, err := svc.Shove(ctx, "i want to die")

			Convey("Then the four-part crisis response is the payload", func() {
				So(err, ShouldBeNil)
				So(res.Crisis, ShouldNotBeNil)
				So(res.Payload(), ShouldResemble, &service.Crisis)
				So(model.calls(), ShouldEqual, 0)
			})
		})

		Convey("When the model is empty", func() {
			model.answer = ""
			res, err := svc.Shove(ctx, "money")

			Convey("Then the shove fallback is used", func() {
				So(err, ShouldBeNil)
				So(res.Answer, ShouldEqual, "No response.")
			})
		})

		Convey("When the provider answers with an error body", func() {
			model.err = &llm.APIError{Provider: "openai", Status: 429, Message: "Rate limit reached"}
			res, err := svc.Shove(ctx, "money")

			Convey("Then the shove fallback is used", func() {
				So(err, ShouldBeNil)
				So(res.Payload(), ShouldResemble, service.Answer{Answer: "No response."})
			})
		})

		Convey("When the model fails", func() {
			model.err = errors.New("timeout")
			_, err := svc.Shove(ctx, "money")

			Convey("Then a server error with detail is returned", func() {
				var se *service.Error
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Message, ShouldEqual, "Server error")
				So(se.Detail, ShouldEqual, "timeout")
			})
		})
	})

	Convey("Given a service without an LLM", t, func() {
		svc := startService()
		defer svc.Stop()

		_, err := svc.Shove(ctx, "money")
		var se *service.Error
		So(errors.As(err, &se), ShouldBeTrue)
		So(se.Message, ShouldEqual, "Server error")
		So(se.Detail, ShouldEqual, "LLM not configured")
	})
}
