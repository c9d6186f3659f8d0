package qstore

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantumStateStore(t *testing.T) {
	Convey("Given an empty quantum state store", t, func() {
		store := NewQuantumStateStore(nil)

		Convey("When creating states", func() {
			first := store.Create("superposition")
			second := store.Create("second")
			third := store.Create("")

			Convey("Ids should start at 0 and strictly increase", func() {
				So(first, ShouldEqual, 0)
				So(second, ShouldEqual, 1)
				So(third, ShouldEqual, 2)
				So(store.Len(), ShouldEqual, 3)
			})

			Convey("Each state should start in superposition with its label", func() {
				state, err := store.Get(first)
				So(err, ShouldBeNil)
				So(state.ID, ShouldEqual, first)
				So(state.Label, ShouldEqual, "superposition")
				So(state.Superposition, ShouldBeTrue)

				state, err = store.Get(third)
				So(err, ShouldBeNil)
				So(state.Label, ShouldEqual, "")
				So(state.Superposition, ShouldBeTrue)
			})
		})

		Convey("When updating a known state", func() {
			id := store.Create("initial")
			err := store.Update(id, "updated")

			Convey("The label should change and the flag should not", func() {
				So(err, ShouldBeNil)

				state, getErr := store.Get(id)
				So(getErr, ShouldBeNil)
				So(state.Label, ShouldEqual, "updated")
				So(state.Superposition, ShouldBeTrue)
			})
		})

		Convey("When updating an unknown state", func() {
			err := store.Update(7, "nothing")

			Convey("It should fail with NotFound", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(CodeOf(err), ShouldEqual, CodeNotFound)
				So(store.Len(), ShouldEqual, 0)
			})
		})

		Convey("When getting an unknown state", func() {
			_, err := store.Get(0)

			Convey("It should fail with NotFound", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "quantum-state 0")
			})
		})

		Convey("When mutating a returned snapshot", func() {
			id := store.Create("original")
			state, _ := store.Get(id)
			state.Label = "tampered"
			state.Superposition = false

			Convey("The stored record should be unaffected", func() {
				stored, _ := store.Get(id)
				So(stored.Label, ShouldEqual, "original")
				So(stored.Superposition, ShouldBeTrue)
			})
		})

		Convey("When observing a state", func() {
			id := store.Create("observed")

			var seen []bool
			observe := func(superposition bool) { seen = append(seen, superposition) }

			So(store.observe(id, observe), ShouldBeNil)
			So(store.observe(id, observe), ShouldBeNil)

			Convey("The flag should be seen before it collapses, once", func() {
				So(seen, ShouldResemble, []bool{true, false})

				state, _ := store.Get(id)
				So(state.Superposition, ShouldBeFalse)
			})

			Convey("Updating the label afterward should not restore superposition", func() {
				So(store.Update(id, "relabelled"), ShouldBeNil)

				state, _ := store.Get(id)
				So(state.Label, ShouldEqual, "relabelled")
				So(state.Superposition, ShouldBeFalse)
			})
		})

		Convey("When observing an unknown state", func() {
			called := false
			err := store.observe(3, func(bool) { called = true })

			Convey("The callback should never run", func() {
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				So(called, ShouldBeFalse)
			})
		})
	})
}
