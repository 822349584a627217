package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func run(args ...string) (map[string]interface{}, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		return nil, err
	}
	var body map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &body); err != nil {
		return nil, err
	}
	return body, nil
}

func clearKeys() {
	for _, k := range []string{"OPENAI_API_KEY", "BISHBASH_OPENAI_API_KEY", "BING_API_KEY", "SERPAPI_KEY", "BISHBASH_CONFIG"} {
		_ = os.Unsetenv(k)
	}
}

func TestCheckCommands(t *testing.T) {
	convey.Convey("Given the CLI with no API keys", t, func() {
		clearKeys()

		convey.Convey("When checking a listed broker", func() {
			body, err := run("check", "broker", "interactive", "brokers")

			convey.Convey("Then the static verdict is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(body["name"], convey.ShouldEqual, "interactive brokers")
				convey.So(body["verdict"], convey.ShouldEqual, "TRUSTED")
			})
		})

		convey.Convey("When checking a trusted domain", func() {
			body, err := run("check", "domain", "https://www.oanda.com")

			convey.Convey("Then the table summary is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(body["domain"], convey.ShouldEqual, "oanda.com")
				convey.So(body["verdict"], convey.ShouldEqual, "✅ Trusted")
			})
		})

		convey.Convey("When checking a blacklisted dealer", func() {
			body, err := run("check", "dealer", "swissluxuryshop.net")

			convey.Convey("Then the scam report is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(body["verdict"], convey.ShouldEqual, "⛔ Scam")
				convey.So(body["scam_report"], convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When asking without an LLM", func() {
			_, err := run("ask", "why")

			convey.Convey("Then the command fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "LLM not configured")
			})
		})

		convey.Convey("When asking a crisis question", func() {
			body, err := run("ask", "--shove", "I", "want", "to", "die")

			convey.Convey("Then the crisis object is printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(body, convey.ShouldContainKey, "illusion")
			})
		})

		convey.Convey("When a domain check has no argument", func() {
			_, err := run("check", "domain")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}
