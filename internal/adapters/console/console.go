// Package console renders scores, outfits and garments for the terminal.
package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/internal/domain/generation"
	"github.com/okian/closet/internal/domain/query"
	"github.com/okian/closet/internal/domain/scoring"
	"github.com/okian/closet/internal/domain/types"
)

const barWidth = 20

// Printer writes styled reports to w.
type Printer struct {
	w        io.Writer
	colorize bool

	title lipgloss.Style
	good  lipgloss.Style
	warn  lipgloss.Style
	bad   lipgloss.Style
	muted lipgloss.Style
}

// Option configures a Printer.
type Option func(*Printer)

// WithColor turns colours on or off. On by default; lipgloss still drops them when
// w is not a terminal.
func WithColor(on bool) Option {
	return func(p *Printer) { p.colorize = on }
}

// New creates a Printer writing to w.
func New(w io.Writer, opts ...Option) *Printer {
	p := &Printer{w: w, colorize: true}
	for _, opt := range opts {
		opt(p)
	}

	r := lipgloss.NewRenderer(w)
	p.title = r.NewStyle().Bold(true)
	p.good = r.NewStyle()
	p.warn = r.NewStyle()
	p.bad = r.NewStyle()
	p.muted = r.NewStyle()
	if p.colorize {
		p.good = p.good.Foreground(lipgloss.Color("10"))
		p.warn = p.warn.Foreground(lipgloss.Color("3"))
		p.bad = p.bad.Foreground(lipgloss.Color("9"))
		p.muted = p.muted.Foreground(lipgloss.Color("8"))
	}
	return p
}

// scoreStyle picks a colour band for a percentage.
func (p *Printer) scoreStyle(pct int) lipgloss.Style {
	switch {
	case pct >= 70:
		return p.good
	case pct >= 40:
		return p.warn
	default:
		return p.bad
	}
}

// Bar renders pct as a fixed-width gauge followed by the number.
func (p *Printer) Bar(pct int) string {
	if pct == scoring.NoScore {
		return p.muted.Render("no score")
	}
	pct = max(0, min(pct, 100))
	filled := pct * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return p.scoreStyle(pct).Render(bar) + fmt.Sprintf(" %3d%%", pct)
}

// Evaluation prints the breakdown and the validity report of one selection.
func (p *Printer) Evaluation(ev *types.Evaluation) error {
	var b strings.Builder
	b.WriteString(p.title.Render("Score") + "  " + p.Bar(ev.Breakdown.Percentage) + "\n")

	if ev.Breakdown.HasScore() {
		fmt.Fprintf(&b, "  formality %.1f  consistency %.1f\n",
			ev.Breakdown.FormalityScore, ev.Breakdown.ConsistencyBonus)
		rows := make([][]string, 0, len(ev.Breakdown.Adjustments))
		for _, a := range ev.Breakdown.Adjustments {
			g := ev.Selection[a.Category]
			rows = append(rows, []string{
				string(a.Category),
				g.Name,
				strconv.Itoa(a.Formality),
				strconv.FormatFloat(a.Weight, 'f', 2, 64),
				strconv.FormatFloat(a.Contribution, 'f', 1, 64),
			})
		}
		b.WriteString(p.table([]string{"category", "garment", "formality", "weight", "contribution"}, rows))
		b.WriteString("\n")
	}

	switch {
	case ev.Report.Valid():
		b.WriteString(p.good.Render("✓ valid outfit") + "\n")
	default:
		b.WriteString(p.bad.Render("✗ not a valid outfit") + "\n")
		for _, m := range ev.Report.Missing {
			b.WriteString("  missing " + string(m) + "\n")
		}
		for _, c := range ev.Report.Conflicts {
			fmt.Fprintf(&b, "  %s and %s clash: %s\n", c.A, c.B, c.Reason)
		}
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Outfits prints outfits as a ranked table.
func (p *Printer) Outfits(title string, outfits []garment.GeneratedOutfit) error {
	var b strings.Builder
	b.WriteString(p.title.Render(title) + p.muted.Render(fmt.Sprintf(" (%d)", len(outfits))) + "\n")
	if len(outfits) == 0 {
		b.WriteString(p.muted.Render("  nothing found") + "\n")
		_, err := io.WriteString(p.w, b.String())
		return err
	}

	rows := make([][]string, 0, len(outfits))
	for i := range outfits {
		o := &outfits[i]
		loved := ""
		if o.Loved {
			loved = "♥"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(o.Score),
			string(o.Source),
			loved,
			names(o.Selection),
		})
	}
	b.WriteString(p.table([]string{"#", "score", "source", "", "garments"}, rows))
	b.WriteString("\n")
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Random prints the outcome of a random draw.
func (p *Printer) Random(res *generation.RandomResult) error {
	if !res.Found {
		_, err := fmt.Fprintf(p.w, "%s after %d attempts\n",
			p.bad.Render("no valid outfit found"), res.Attempts)
		return err
	}
	note := ""
	if res.Exhausted {
		note = p.warn.Render(" (retries exhausted, best effort)")
	}
	_, err := fmt.Fprintf(p.w, "%s  %s%s\n  %s\n",
		p.title.Render("Random outfit"), p.Bar(res.Outfit.Score), note, names(res.Outfit.Selection))
	return err
}

// Search prints a search result.
func (p *Printer) Search(res *query.Result) error {
	title := fmt.Sprintf("Results for %q", res.Term)
	if err := p.Outfits(title, res.Outfits); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.w, p.muted.Render("computed in "+res.Elapsed.String()))
	return err
}

// Garments prints a wardrobe listing.
func (p *Printer) Garments(items []garment.Garment) error {
	rows := make([][]string, 0, len(items))
	for _, g := range items {
		rows = append(rows, []string{
			g.ID,
			string(g.Category),
			g.Name,
			strconv.Itoa(g.Formality),
			strings.Join(g.StyleTags, ", "),
		})
	}
	_, err := io.WriteString(p.w, p.table([]string{"id", "category", "name", "formality", "tags"}, rows)+"\n")
	return err
}

func (p *Printer) table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.muted).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.title.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.String()
}

// names lists garment names in canonical category order.
func names(sel garment.Selection) string {
	cats := sel.Categories()
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		g := sel[c]
		name := g.Name
		if name == "" {
			name = g.ID
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " · ")
}
