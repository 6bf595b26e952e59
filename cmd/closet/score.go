package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/closet/internal/adapters/wardrobe"
	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/scoring"
	"github.com/okian/closet/internal/domain/types"
	"github.com/okian/closet/internal/domain/validation"
)

var errNothingToScore = errors.New("give an outfit file or --items")

func newScoreCmd(e *env) *cobra.Command {
	var items []string
	cmd := &cobra.Command{
		Use:   "score [outfit.yaml]",
		Short: "Score and validate one outfit",
		Long: `Score reads an outfit either from a YAML file of garments (one per category)
or from --items, a list of garment ids resolved against the wardrobe.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var ev types.Evaluation
			switch {
			case len(args) == 1:
				sel, err := selectionFromFile(args[0])
				if err != nil {
					return err
				}
				ev = types.Evaluation{
					Selection: sel,
					Breakdown: scoring.NewEngine().Score(sel),
					Report:    validation.Inspect(sel),
				}
			case len(items) > 0:
				svc, release, err := e.service(ctx)
				if err != nil {
					return err
				}
				defer release()
				if ev, err = svc.Evaluate(ctx, items); err != nil {
					return err
				}
			default:
				return errNothingToScore
			}
			return e.printer(cmd).Evaluation(&ev)
		},
	}
	cmd.Flags().StringSliceVarP(&items, "items", "i", nil, "garment ids, comma separated")
	return cmd
}

// selectionFromFile decodes garments and places each in its category.
func selectionFromFile(name string) (garment.Selection, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	items, err := wardrobe.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	sel := garment.Selection{}
	for i := range items {
		g := items[i]
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if prev, dup := sel.Get(g.Category); dup {
			return nil, fmt.Errorf("%s: %s and %s are both %s", name, prev.ID, g.ID, g.Category)
		}
		sel = sel.With(g.Category, g)
	}
	return sel, nil
}
