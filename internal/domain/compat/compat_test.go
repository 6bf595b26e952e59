package compat_test

import (
	"testing"

	"github.com/okian/closet/internal/domain/compat"
	"github.com/okian/closet/internal/domain/garment"
	. "github.com/smartystreets/goconvey/convey"
)

func item(id string, c garment.Category, formality int, tags ...string) garment.Garment {
	return garment.Garment{ID: id, Category: c, Formality: formality, StyleTags: tags}
}

func TestStyleCompatible(t *testing.T) {
	Convey("Given garments with style tags", t, func() {
		refined := item("a", garment.Shirt, 7, "Refined", "Classic")
		classic := item("b", garment.Pants, 6, "classic ")
		rugged := item("c", garment.Shoes, 5, "Adventurer")
		plain := item("d", garment.Belt, 5)

		Convey("When they share a tag in any case", func() {
			So(compat.StyleCompatible(&refined, &classic), ShouldBeTrue)
		})

		Convey("When their tags are disjoint", func() {
			So(compat.StyleCompatible(&refined, &rugged), ShouldBeFalse)
			So(compat.Check(&refined, &rugged), ShouldEqual, compat.ReasonStyle)
		})

		Convey("When either carries no tags", func() {
			So(compat.StyleCompatible(&plain, &rugged), ShouldBeTrue)
			So(compat.StyleCompatible(&refined, &plain), ShouldBeTrue)
		})
	})
}

func TestFormalityCompatible(t *testing.T) {
	Convey("Given garments of varying formality", t, func() {
		casual := item("a", garment.Shirt, 1)
		formal := item("b", garment.Pants, 10)
		mid := item("c", garment.Shoes, 6)

		Convey("When they are too far apart", func() {
			So(compat.FormalityCompatible(&casual, &formal), ShouldBeFalse)
			So(compat.Check(&formal, &casual), ShouldEqual, compat.ReasonFormality)
		})

		Convey("When the spread is exactly the maximum", func() {
			So(compat.FormalityCompatible(&casual, &mid), ShouldBeTrue)
		})

		Convey("Then compatibility is symmetric", func() {
			So(compat.Compatible(&casual, &mid), ShouldEqual, compat.Compatible(&mid, &casual))
		})
	})
}

func TestSelectionChecks(t *testing.T) {
	Convey("Given a partial selection", t, func() {
		sel := garment.NewSelection(
			item("s1", garment.Shirt, 7, "refined"),
			item("p1", garment.Pants, 6, "refined", "classic"),
		)

		Convey("When a candidate shares tags and formality", func() {
			shoe := item("k1", garment.Shoes, 8, "refined", "classic")
			So(compat.FitsSelection(sel, &shoe, garment.Shoes), ShouldBeTrue)
		})

		Convey("When a candidate clashes with one occupant", func() {
			shoe := item("k2", garment.Shoes, 7, "adventurer")
			So(compat.FitsSelection(sel, &shoe, garment.Shoes), ShouldBeFalse)
		})

		Convey("When the candidate replaces the only clashing occupant", func() {
			clash := sel.With(garment.Shoes, item("k3", garment.Shoes, 1, "refined"))
			shoe := item("k4", garment.Shoes, 7, "refined")
			So(compat.Consistent(clash), ShouldBeFalse)
			So(compat.FitsSelection(clash, &shoe, garment.Shoes), ShouldBeTrue)
		})

		Convey("Then conflicts are reported pairwise", func() {
			clash := sel.With(garment.Shoes, item("k3", garment.Shoes, 1, "refined"))
			conflicts := compat.Conflicts(clash)
			So(len(conflicts), ShouldEqual, 1)
			So(conflicts[0], ShouldResemble, compat.Conflict{A: garment.Shirt, B: garment.Shoes, Reason: compat.ReasonFormality})
			So(compat.Conflicts(sel), ShouldBeEmpty)
			So(compat.Consistent(sel), ShouldBeTrue)
		})
	})
}
