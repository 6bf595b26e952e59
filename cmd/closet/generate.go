package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/closet/internal/domain/garment"
)

func newGenerateCmd(e *env) *cobra.Command {
	var (
		anchor string
		random bool
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate outfits from the wardrobe",
		Long: `Generate enumerates every valid outfit and prints the best --limit of them.
With --anchor only outfits containing that garment are listed; with --random a
single outfit is drawn.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if anchor != "" && random {
				return fmt.Errorf("--anchor and --random are exclusive")
			}
			ctx := cmd.Context()
			svc, release, err := e.service(ctx)
			if err != nil {
				return err
			}
			defer release()
			p := e.printer(cmd)

			switch {
			case random:
				res, err := svc.RandomOutfit(ctx)
				if err != nil {
					return err
				}
				return p.Random(&res)
			case anchor != "":
				outfits, err := svc.OutfitsForAnchor(ctx, anchor)
				if err != nil {
					return err
				}
				return p.Outfits("Outfits with "+anchor, head(outfits, limit))
			}

			res, err := svc.Regenerate(ctx)
			if err != nil {
				return err
			}
			entries, err := svc.TopN(ctx, max(limit, 1))
			if err != nil {
				return err
			}
			outfits := make([]garment.GeneratedOutfit, len(entries))
			for i := range entries {
				outfits[i] = entries[i].Outfit
			}
			title := fmt.Sprintf("Top of %d outfits", res.Generated)
			return p.Outfits(title, outfits)
		},
	}
	cmd.Flags().StringVar(&anchor, "anchor", "", "only outfits containing this garment id")
	cmd.Flags().BoolVar(&random, "random", false, "draw one random outfit")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum outfits to print")
	return cmd
}

func head(outfits []garment.GeneratedOutfit, n int) []garment.GeneratedOutfit {
	if n > 0 && len(outfits) > n {
		return outfits[:n]
	}
	return outfits
}
