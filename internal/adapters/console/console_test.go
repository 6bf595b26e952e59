package console_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/okian/closet/internal/adapters/console"
	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/generation"
	"github.com/okian/closet/internal/domain/query"
	"github.com/okian/closet/internal/domain/scoring"
	"github.com/okian/closet/internal/domain/types"
	"github.com/okian/closet/internal/domain/validation"
	. "github.com/smartystreets/goconvey/convey"
)

func selection() garment.Selection {
	return garment.NewSelection(
		garment.Garment{ID: "s1", Name: "Oxford Shirt", Category: garment.Shirt, Formality: 7, StyleTags: []string{"smart"}},
		garment.Garment{ID: "p1", Name: "Grey Chinos", Category: garment.Pants, Formality: 6},
		garment.Garment{ID: "k1", Name: "Brown Loafers", Category: garment.Shoes, Formality: 7, StyleTags: []string{"smart"}},
	)
}

func TestPrinter(t *testing.T) {
	Convey("Given a printer without colours", t, func() {
		var buf bytes.Buffer
		p := console.New(&buf, console.WithColor(false))

		Convey("When rendering score bars", func() {
			So(p.Bar(100), ShouldContainSubstring, strings.Repeat("█", 20))
			So(p.Bar(50), ShouldContainSubstring, "50%")
			So(p.Bar(0), ShouldContainSubstring, strings.Repeat("░", 20))
			So(p.Bar(scoring.NoScore), ShouldContainSubstring, "no score")
		})

		Convey("When rendering a valid evaluation", func() {
			sel := selection()
			ev := types.Evaluation{
				Selection: sel,
				Breakdown: scoring.NewEngine().Score(sel),
				Report:    validation.Inspect(sel),
			}
			So(p.Evaluation(&ev), ShouldBeNil)

			out := buf.String()
			So(out, ShouldContainSubstring, "Score")
			So(out, ShouldContainSubstring, "Grey Chinos")
			So(out, ShouldContainSubstring, "contribution")
			So(out, ShouldContainSubstring, "valid outfit")
		})

		Convey("When rendering an invalid evaluation", func() {
			sel := garment.NewSelection(
				garment.Garment{ID: "s1", Name: "Oxford Shirt", Category: garment.Shirt, Formality: 9, StyleTags: []string{"smart"}},
				garment.Garment{ID: "p2", Name: "Blue Jeans", Category: garment.Pants, Formality: 2, StyleTags: []string{"casual"}},
			)
			ev := types.Evaluation{
				Selection: sel,
				Breakdown: scoring.NewEngine().Score(sel),
				Report:    validation.Inspect(sel),
			}
			So(p.Evaluation(&ev), ShouldBeNil)

			out := buf.String()
			So(out, ShouldContainSubstring, "not a valid outfit")
			So(out, ShouldContainSubstring, "missing shoes")
			So(out, ShouldContainSubstring, "clash")
		})

		Convey("When rendering outfits", func() {
			o := garment.NewGeneratedOutfit(selection(), 81, garment.SourceCurated)
			o.Loved = true
			So(p.Outfits("Top outfits", []garment.GeneratedOutfit{o}), ShouldBeNil)

			out := buf.String()
			So(out, ShouldContainSubstring, "Top outfits (1)")
			So(out, ShouldContainSubstring, "Oxford Shirt · Grey Chinos · Brown Loafers")
			So(out, ShouldContainSubstring, "curated")
			So(out, ShouldContainSubstring, "♥")
		})

		Convey("When there are no outfits", func() {
			So(p.Outfits("Anything", nil), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "nothing found")
		})

		Convey("When rendering random draws", func() {
			o := garment.NewGeneratedOutfit(selection(), 77, garment.SourceGenerated)
			So(p.Random(&generation.RandomResult{Outfit: o, Attempts: 3, Found: true}), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Random outfit")

			buf.Reset()
			So(p.Random(&generation.RandomResult{Outfit: o, Attempts: 64, Found: true, Exhausted: true}), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "best effort")

			buf.Reset()
			So(p.Random(&generation.RandomResult{Attempts: 64}), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "no valid outfit found after 64 attempts")
		})

		Convey("When rendering a search result", func() {
			o := garment.NewGeneratedOutfit(selection(), 81, garment.SourceGenerated)
			res := query.Result{Term: "chinos", Seq: 2, Outfits: []garment.GeneratedOutfit{o}, Elapsed: time.Millisecond}
			So(p.Search(&res), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, `Results for "chinos"`)
			So(buf.String(), ShouldContainSubstring, "computed in 1ms")
		})

		Convey("When listing garments", func() {
			So(p.Garments([]garment.Garment{{ID: "s1", Name: "Oxford Shirt", Category: garment.Shirt, Formality: 7, StyleTags: []string{"smart", "classic"}}}), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "smart, classic")
		})
	})
}
