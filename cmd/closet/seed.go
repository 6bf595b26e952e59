package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/closet/internal/adapters/wardrobe"
	"github.com/okian/closet/internal/seed"
	"github.com/okian/closet/pkg/logger"
)

func newSeedCmd(e *env) *cobra.Command {
	var (
		out         string
		perCategory int
		seedValue   uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a random wardrobe",
		Long: `Seed writes a random wardrobe to --out as YAML. When --db (or wardrobe_db) is
set the garments are imported into that database as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			items, err := seed.Generate(ctx, seed.Config{PerCategory: perCategory, Seed: seedValue})
			if err != nil {
				return err
			}

			if out != "" {
				if err := wardrobe.WriteFile(out, items); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d garments to %s\n", len(items), out)
			}

			if e.cfg.WardrobeDB != "" {
				store, err := wardrobe.NewSQLiteStore(e.cfg.WardrobeDB)
				if err != nil {
					return err
				}
				defer func() {
					if err := store.Close(); err != nil {
						e.log.Error(ctx, "closing wardrobe database", logger.Error(err))
					}
				}()
				n, err := store.Import(ctx, items)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d garments into %s\n", n, e.cfg.WardrobeDB)
			}

			if out == "" && e.cfg.WardrobeDB == "" {
				return e.printer(cmd).Garments(items)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "YAML file to write")
	cmd.Flags().IntVarP(&perCategory, "per-category", "n", seed.DefaultPerCategory, "garments per category")
	cmd.Flags().Uint64Var(&seedValue, "seed", 0, "random seed; zero uses the clock")
	return cmd
}
