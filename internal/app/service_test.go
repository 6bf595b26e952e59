package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	service "github.com/okian/closet/internal/app"
	"github.com/okian/closet/internal/adapters/wardrobe"
	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/query"
	"github.com/okian/closet/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func fixture() []garment.Garment {
	return []garment.Garment{
		{ID: "s1", Name: "Oxford Shirt", Category: garment.Shirt, Formality: 7, StyleTags: []string{"smart"}},
		{ID: "u1", Name: "White Tee", Category: garment.Undershirt, Formality: 2, StyleTags: []string{"casual"}},
		{ID: "p1", Name: "Grey Chinos", Category: garment.Pants, Formality: 6},
		{ID: "p2", Name: "Blue Jeans", Category: garment.Pants, Formality: 3, StyleTags: []string{"casual"}},
		{ID: "k1", Name: "Brown Loafers", Category: garment.Shoes, Formality: 7, StyleTags: []string{"smart"}},
		{ID: "k2", Name: "White Sneakers", Category: garment.Shoes, Formality: 2, StyleTags: []string{"casual"}},
		{ID: "o1", Name: "Navy Blazer", Category: garment.Outerwear, Formality: 8, StyleTags: []string{"smart"}},
	}
}

func newService(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithProvider(wardrobe.NewStatic(fixture()...)),
		service.WithSearchWorkers(2),
		service.WithQueueSize(64),
		service.WithSearchDebounce(0),
		service.WithSeed(7),
	}
	return service.New(append(base, opts...)...)
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := newService()
		defer svc.Stop()
		ctx := context.Background()

		Convey("When it has not been started", func() {
			_, err := svc.Evaluate(ctx, []string{"s1"})
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
			So(errors.Is(svc.Ready(), service.ErrNotStarted), ShouldBeTrue)
			So(svc.Stats(context.Background())["started"], ShouldEqual, false)
		})

		Convey("When starting the service", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then it reports its components", func() {
				So(svc.Ready(), ShouldBeNil)
				stats := svc.Stats(context.Background())
				So(stats["started"], ShouldEqual, true)
				So(stats["outfits"], ShouldEqual, 0)
				So(stats["searchSessions"], ShouldEqual, 0)
			})

			Convey("And stopping twice is safe", func() {
				svc.Stop()
				svc.Stop()
				So(svc.Stats(context.Background())["started"], ShouldEqual, false)
			})
		})
	})
}

func TestService_Engine(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := newService()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When evaluating a complete outfit", func() {
			ev, err := svc.Evaluate(ctx, []string{"s1", "p1", "k1"})
			So(err, ShouldBeNil)
			So(ev.Report.Valid(), ShouldBeTrue)
			So(ev.Breakdown.HasScore(), ShouldBeTrue)
			So(ev.Breakdown.Percentage, ShouldBeBetweenOrEqual, 0, 100)
		})

		Convey("When evaluating bad selections", func() {
			_, err := svc.Evaluate(ctx, []string{"s1", "nope"})
			So(errors.Is(err, service.ErrGarmentNotFound), ShouldBeTrue)

			_, err = svc.Evaluate(ctx, []string{"p1", "p2"})
			So(errors.Is(err, service.ErrDuplicateCategory), ShouldBeTrue)

			ev, err := svc.Evaluate(ctx, nil)
			So(err, ShouldBeNil)
			So(ev.Breakdown.HasScore(), ShouldBeFalse)
		})

		Convey("When asking which shoes fit a shirt", func() {
			items, err := svc.Compatible(ctx, []string{"s1"}, garment.Shoes)
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 1)
			So(items[0].ID, ShouldEqual, "k1")

			_, err = svc.Compatible(ctx, []string{"s1"}, garment.Category("hat"))
			So(errors.Is(err, garment.ErrUnknownCategory), ShouldBeTrue)
		})

		Convey("When validating a partial selection", func() {
			ok, err := svc.ValidatePartial(ctx, []string{"s1", "p1"}, "k1", garment.Shoes)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)

			ok, err = svc.ValidatePartial(ctx, []string{"s1", "p1"}, "k2", garment.Shoes)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When sampling a random outfit", func() {
			res, err := svc.RandomOutfit(ctx)
			So(err, ShouldBeNil)
			So(res.Found, ShouldBeTrue)
			So(res.Exhausted, ShouldBeFalse)
			So(res.Outfit.Key, ShouldNotBeEmpty)
		})

		Convey("When enumerating around an anchor", func() {
			outfits, err := svc.OutfitsForAnchor(ctx, "u1")
			So(err, ShouldBeNil)
			So(len(outfits), ShouldEqual, 2)
			for _, o := range outfits {
				So(o.Selection.Has(garment.Undershirt), ShouldBeTrue)
			}

			_, err = svc.OutfitsForAnchor(ctx, "missing")
			So(errors.Is(err, service.ErrGarmentNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Catalogue(t *testing.T) {
	Convey("Given a started service with a regenerated catalogue", t, func() {
		svc := newService()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		res, err := svc.Regenerate(ctx)
		So(err, ShouldBeNil)
		So(res.Generated, ShouldEqual, 3)
		So(res.Added, ShouldEqual, 3)

		Convey("When regenerating an unchanged wardrobe", func() {
			again, err := svc.Regenerate(ctx)
			So(err, ShouldBeNil)
			So(again.Added, ShouldEqual, 0)
			So(again.Removed, ShouldEqual, 0)
		})

		Convey("When reading the top of the catalogue", func() {
			top, err := svc.TopN(ctx, 2)
			So(err, ShouldBeNil)
			So(len(top), ShouldEqual, 2)
			So(top[0].Rank, ShouldEqual, 1)
			So(top[0].Outfit.Score, ShouldBeGreaterThanOrEqualTo, top[1].Outfit.Score)

			entry, err := svc.Outfit(ctx, top[1].Outfit.Key)
			So(err, ShouldBeNil)
			So(entry.Rank, ShouldEqual, 2)
		})

		Convey("When curating outfits", func() {
			o, err := svc.Curate(ctx, []string{"o1", "s1", "p1", "k1"})
			So(err, ShouldBeNil)
			So(o.Source, ShouldEqual, garment.SourceCurated)
			So(svc.Stats(context.Background())["outfits"], ShouldEqual, 4)

			_, err = svc.Curate(ctx, []string{"s1", "p2", "k1"})
			So(errors.Is(err, service.ErrInvalidOutfit), ShouldBeTrue)

			_, err = svc.Curate(ctx, []string{"s1", "p1"})
			So(errors.Is(err, service.ErrInvalidOutfit), ShouldBeTrue)
		})

		Convey("When loving an outfit and filtering", func() {
			top, _ := svc.TopN(ctx, 1)
			loved, err := svc.SetLoved(ctx, top[0].Outfit.Key, true)
			So(err, ShouldBeNil)
			So(loved.Loved, ShouldBeTrue)

			got, err := svc.Outfits(ctx, "", query.Criteria{LovedOnly: true})
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 1)

			got, err = svc.Outfits(ctx, "sneakers", query.Criteria{})
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 2)
		})

		Convey("When searching through a session", func() {
			sess, err := svc.OpenSearch()
			So(err, ShouldBeNil)

			seq, err := svc.Search(ctx, sess.ID(), "jeans", query.Criteria{})
			So(err, ShouldBeNil)
			So(seq, ShouldEqual, 1)

			got, ok, err := svc.SearchResult(ctx, sess.ID(), 2*time.Second)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(got.Seq, ShouldEqual, 1)
			So(len(got.Outfits), ShouldEqual, 1)

			So(svc.CloseSearch(sess.ID()), ShouldBeNil)
			_, err = svc.Search(ctx, sess.ID(), "x", query.Criteria{})
			So(errors.Is(err, query.ErrSessionNotFound), ShouldBeTrue)
		})
	})
}

func TestService_Wardrobe(t *testing.T) {
	ctx := context.Background()

	Convey("Given a service over a writable wardrobe", t, func() {
		svc := newService()

		Convey("When garments are added and deleted", func() {
			g, err := svc.AddGarment(ctx, garment.Garment{Name: "Brown Belt", Category: garment.Belt, Formality: 5})
			So(err, ShouldBeNil)

			items, err := svc.Garments(ctx)
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 8)

			So(svc.DeleteGarment(ctx, g.ID), ShouldBeNil)
			So(errors.Is(svc.DeleteGarment(ctx, g.ID), service.ErrGarmentNotFound), ShouldBeTrue)
		})
	})

	Convey("Given a service over a YAML file", t, func() {
		name := filepath.Join(t.TempDir(), "wardrobe.yaml")
		So(wardrobe.WriteFile(name, fixture()), ShouldBeNil)
		svc := newService(service.WithProvider(wardrobe.NewYAMLProvider(name)))

		Convey("Then the wardrobe is read but not writable", func() {
			w, err := svc.Wardrobe(ctx)
			So(err, ShouldBeNil)
			So(w.Len(), ShouldEqual, 7)

			_, err = svc.AddGarment(ctx, garment.Garment{ID: "x", Category: garment.Belt, Formality: 5})
			So(errors.Is(err, service.ErrReadOnly), ShouldBeTrue)
		})

		Convey("Then a broken file surfaces as an error", func() {
			So(os.WriteFile(name, []byte("- {id: x, category: hat, formality: 1}\n"), 0o644), ShouldBeNil)
			_, err := svc.Garments(ctx)
			So(errors.Is(err, garment.ErrUnknownCategory), ShouldBeTrue)
		})
	})
}
