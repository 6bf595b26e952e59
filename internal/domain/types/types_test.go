package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/scoring"
	types "github.com/okian/closet/internal/domain/types"
	"github.com/okian/closet/internal/domain/validation"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEvaluation(t *testing.T) {
	Convey("Given an evaluation of a complete outfit", t, func() {
		sel := garment.NewSelection(
			garment.Garment{ID: "s1", Category: garment.Shirt, Formality: 6},
			garment.Garment{ID: "p1", Category: garment.Pants, Formality: 5},
			garment.Garment{ID: "k1", Category: garment.Shoes, Formality: 6},
		)
		ev := types.Evaluation{
			Selection: sel,
			Breakdown: scoring.CalculateOutfitScore(sel),
			Report:    validation.Inspect(sel),
		}

		Convey("Then it is valid", func() {
			So(ev.Valid(), ShouldBeTrue)
		})

		Convey("Then it encodes with snake case fields", func() {
			b, err := json.Marshal(ev)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"breakdown"`)
			So(string(b), ShouldContainSubstring, `"consistency_bonus"`)
			So(string(b), ShouldContainSubstring, `"complete":true`)
		})
	})

	Convey("Given an evaluation missing shoes", t, func() {
		sel := garment.NewSelection(garment.Garment{ID: "s1", Category: garment.Shirt, Formality: 6})
		ev := types.Evaluation{Selection: sel, Report: validation.Inspect(sel)}
		So(ev.Valid(), ShouldBeFalse)
		So(ev.Report.Missing, ShouldContain, validation.RequirePants)
	})
}
