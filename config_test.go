package qstore

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoadConfig(t *testing.T) {
	Convey("Given QSTORE_* variables in the environment", t, func() {
		t.Setenv("QSTORE_VERBOSE", "true")
		t.Setenv("QSTORE_FORMAT", "json")

		cfg, err := LoadConfig()

		Convey("They should override the defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Verbose, ShouldBeTrue)
			So(cfg.Format, ShouldEqual, "json")
		})
	})

	Convey("Given an unparseable flag", t, func() {
		t.Setenv("QSTORE_VERBOSE", "maybe")

		_, err := LoadConfig()

		Convey("Loading should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
