package qstore

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestError(t *testing.T) {
	Convey("Given a not found error", t, func() {
		err := notFound("get-quantum-state", EntityQuantumState, 3)

		Convey("It should match ErrNotFound through wrapping", func() {
			wrapped := fmt.Errorf("call: %w", err)
			So(errors.Is(wrapped, ErrNotFound), ShouldBeTrue)
			So(errors.Is(wrapped, ErrUnknownMethod), ShouldBeFalse)
			So(CodeOf(wrapped), ShouldEqual, CodeNotFound)
		})

		Convey("It should name the operation and the record", func() {
			So(err.Error(), ShouldEqual, "get-quantum-state: quantum-state 3: NotFound")
		})
	})

	Convey("Given errors from elsewhere", t, func() {
		Convey("CodeOf should report no code", func() {
			So(CodeOf(nil), ShouldEqual, ErrorCode(0))
			So(CodeOf(errors.New("boom")), ShouldEqual, ErrorCode(0))
		})
	})

	Convey("Given the error codes", t, func() {
		Convey("They should keep the contract call numbering", func() {
			So(int(CodeNotFound), ShouldEqual, 404)
			So(CodeNotFound.String(), ShouldEqual, "NotFound")
			So(CodeUnknownMethod.String(), ShouldEqual, "UnknownMethod")
			So(ErrorCode(1).String(), ShouldEqual, "ErrorCode(1)")
		})
	})
}
