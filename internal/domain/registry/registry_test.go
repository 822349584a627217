package registry_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gilberto978/bishbash-api/internal/domain/registry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEmbeddedTables(t *testing.T) {
	Convey("Given the embedded tables", t, func() {
		reg, err := registry.New()
		So(err, ShouldBeNil)

		Convey("Then every table should be populated", func() {
			counts := reg.Counts()
			So(counts[registry.TableBrokerNames], ShouldEqual, 19)
			So(counts[registry.TableTrustedBrokers], ShouldEqual, 30)
			So(counts[registry.TableRegulatorBlacklist], ShouldEqual, 4)
			So(counts[registry.TableTrustedDealers], ShouldEqual, 7)
			So(counts[registry.TableScammerBlacklist], ShouldEqual, 2)
		})

		Convey("When classifying broker names", func() {
			So(reg.BrokerName("Saxo  Bank"), ShouldEqual, registry.Allowed)
			So(reg.BrokerName("IG"), ShouldEqual, registry.Allowed)
			So(reg.BrokerName("24 Option"), ShouldEqual, registry.Denied)
			So(reg.BrokerName("Some New Broker"), ShouldEqual, registry.Unlisted)
		})

		Convey("When looking up trusted brokers", func() {
			summary, ok := reg.TrustedBroker("pepperstone.com")

			Convey("Then the cleaned summary should be returned", func() {
				So(ok, ShouldBeTrue)
				So(summary, ShouldStartWith, "Pepperstone")
				So(summary, ShouldNotContainSubstring, "contentReference")
			})

			Convey("Then subdomains should match their parent", func() {
				_, ok := reg.TrustedBroker("uk.etoro.com")
				So(ok, ShouldBeTrue)
				_, ok = reg.TrustedBroker("WWW.eToro.com")
				So(ok, ShouldBeTrue)
			})

			Convey("Then lookalike domains should not match", func() {
				_, ok := reg.TrustedBroker("etoro.com.evil.io")
				So(ok, ShouldBeFalse)
				_, ok = reg.TrustedBroker("notetoro.com")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When looking up blacklists", func() {
			So(reg.RegulatorBlacklisted("banxso.com"), ShouldBeTrue)
			So(reg.RegulatorBlacklisted("coinbase.com"), ShouldBeFalse)

			rep, ok := reg.ScamReport("shop.rolex-deals247.com")
			So(ok, ShouldBeTrue)
			So(rep.Source, ShouldEqual, "Watchuseek Scammer List")
			So(rep.Date, ShouldEqual, "2025-09-10")
		})

		Convey("When looking up dealers", func() {
			dealer, ok := reg.TrustedDealer("chrono24.com")
			So(ok, ShouldBeTrue)
			So(dealer.Name, ShouldEqual, "Chrono24")
			So(dealer.Info, ShouldContainSubstring, "Germany")
		})
	})
}

func TestLoadOverrides(t *testing.T) {
	Convey("Given an override directory", t, func() {
		dir := t.TempDir()

		Convey("When it adds glob entries and denies an allowed name", func() {
			writeFile(dir, "extra.yaml", `
brokers:
  deny: [oanda]
regulator_blacklist:
  - "*.fake-fx.net"
scammer_blacklist:
  - domain: "*.cheap-rolex.*"
    source: Test Reports
    date: "2025-10-01"
    url: https://example.org/report
    reason: Testing
trusted_brokers:
  newbroker.io: New broker summary
`)
			reg, err := registry.Load(dir)
			So(err, ShouldBeNil)

			Convey("Then the embedded entries should still be present", func() {
				_, ok := reg.TrustedBroker("coinbase.com")
				So(ok, ShouldBeTrue)
			})

			Convey("Then the new entries should be visible", func() {
				summary, ok := reg.TrustedBroker("newbroker.io")
				So(ok, ShouldBeTrue)
				So(summary, ShouldEqual, "New broker summary")
			})

			Convey("Then deny should win over allow", func() {
				So(reg.BrokerName("oanda"), ShouldEqual, registry.Denied)
			})

			Convey("Then globs should match on label boundaries", func() {
				So(reg.RegulatorBlacklisted("app.fake-fx.net"), ShouldBeTrue)
				So(reg.RegulatorBlacklisted("fake-fx.net"), ShouldBeFalse)

				rep, ok := reg.ScamReport("shop.cheap-rolex.biz")
				So(ok, ShouldBeTrue)
				So(rep.Source, ShouldEqual, "Test Reports")
			})
		})

		Convey("When a file has unknown sections", func() {
			writeFile(dir, "bad.yaml", "trusted_watchmakers: [x]\n")
			_, err := registry.Load(dir)

			Convey("Then loading should fail", func() {
				So(errors.Is(err, registry.ErrInvalidTable), ShouldBeTrue)
			})
		})

		Convey("When a glob is malformed", func() {
			writeFile(dir, "glob.yml", "regulator_blacklist: [\"[bad.com\"]\n")
			_, err := registry.Load(dir)

			Convey("Then loading should fail with a glob error", func() {
				So(errors.Is(err, registry.ErrInvalidGlob), ShouldBeTrue)
			})
		})

		Convey("When a file is empty", func() {
			writeFile(dir, "empty.yaml", "")
			_, err := registry.Load(dir)
			So(err, ShouldBeNil)
		})
	})

	Convey("Given a missing override directory", t, func() {
		_, err := registry.Load("/does/not/exist")
		So(errors.Is(err, registry.ErrInvalidTable), ShouldBeTrue)
	})
}

func writeFile(dir, name, content string) {
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		panic(err)
	}
}
