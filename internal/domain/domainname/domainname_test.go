package domainname_test

import (
	"errors"
	"testing"

	"github.com/gilberto978/bishbash-api/internal/domain/domainname"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	Convey("Given user queries", t, func() {
		cases := []struct {
			in   string
			want string
		}{
			{"etoro", "etoro.com"},
			{"  Coinbase  ", "coinbase.com"},
			{"www.eToro.com", "etoro.com"},
			{"https://user:pw@WWW.Example.co.uk:8443/path?q=1", "example.co.uk"},
			{"http://uk.etoro.com/en/", "uk.etoro.com"},
			{"bücher.de", "xn--bcher-kva.de"},
			{"example.com.", "example.com"},
		}

		Convey("Then each should reduce to a bare host", func() {
			for _, tc := range cases {
				got, err := domainname.Normalize(tc.in)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, tc.want)
			}
		})

		Convey("Then a blank query should be rejected", func() {
			_, err := domainname.Normalize("   ")
			So(errors.Is(err, domainname.ErrEmpty), ShouldBeTrue)
		})
	})
}

func TestRegistrableAndCandidates(t *testing.T) {
	Convey("Given nested hosts", t, func() {
		So(domainname.Registrable("uk.etoro.com"), ShouldEqual, "etoro.com")
		So(domainname.Registrable("shop.example.co.uk"), ShouldEqual, "example.co.uk")

		Convey("Then candidates should walk up to the registrable domain", func() {
			So(domainname.Candidates("a.b.example.co.uk"), ShouldResemble,
				[]string{"a.b.example.co.uk", "b.example.co.uk", "example.co.uk"})
			So(domainname.Candidates("etoro.com"), ShouldResemble, []string{"etoro.com"})
		})

		Convey("Then a bare suffix should not loop", func() {
			So(domainname.Candidates("com"), ShouldResemble, []string{"com"})
		})
	})
}

func TestNormalizeName(t *testing.T) {
	Convey("Given broker names", t, func() {
		So(domainname.NormalizeName("  Saxo   Bank "), ShouldEqual, "saxo bank")
		So(domainname.NormalizeName("Société Générale"), ShouldEqual, "societe generale")
		So(domainname.NormalizeName("IG"), ShouldEqual, "ig")
	})
}
