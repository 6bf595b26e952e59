package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/query"
)

func newSearchCmd(e *env) *cobra.Command {
	var (
		minScore   int
		source     string
		loved      bool
		categories []string
		wait       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search generated outfits by garment name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := query.Criteria{MinScore: minScore, Source: garment.Source(source), LovedOnly: loved}
			switch c.Source {
			case "", garment.SourceCurated, garment.SourceGenerated:
			default:
				return fmt.Errorf("unknown source %q", source)
			}
			for _, raw := range categories {
				cat, err := garment.ParseCategory(raw)
				if err != nil {
					return err
				}
				c.Categories = append(c.Categories, cat)
			}

			ctx := cmd.Context()
			svc, release, err := e.service(ctx)
			if err != nil {
				return err
			}
			defer release()
			if _, err := svc.Regenerate(ctx); err != nil {
				return err
			}

			sess, err := svc.OpenSearch()
			if err != nil {
				return err
			}
			defer func() { _ = svc.CloseSearch(sess.ID()) }()

			if _, err := svc.Search(ctx, sess.ID(), args[0], c); err != nil {
				return err
			}
			res, _, err := svc.SearchResult(ctx, sess.ID(), wait)
			if err != nil {
				return err
			}
			return e.printer(cmd).Search(&res)
		},
	}
	cmd.Flags().IntVar(&minScore, "min-score", 0, "minimum outfit score")
	cmd.Flags().StringVar(&source, "source", "", "curated or generated")
	cmd.Flags().BoolVar(&loved, "loved", false, "only loved outfits")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "categories the outfit must contain")
	cmd.Flags().DurationVar(&wait, "wait", 5*time.Second, "how long to wait for the result")
	return cmd
}
