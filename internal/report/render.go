package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/oncomark/internal/batch"
	"github.com/abhisek/oncomark/internal/classifier"
	"github.com/abhisek/oncomark/internal/marker"
	"github.com/abhisek/oncomark/internal/registry"
	"github.com/abhisek/oncomark/internal/ui/theme"
)

// Renderer writes reports in one output format.
type Renderer struct {
	w     io.Writer
	color bool
}

// NewRenderer returns a renderer writing to w. When color is false, output
// carries no ANSI styling.
func NewRenderer(w io.Writer, color bool) *Renderer {
	return &Renderer{w: w, color: color}
}

func (r *Renderer) style(s lipgloss.Style) lipgloss.Style {
	if r.color {
		return s
	}
	return lipgloss.NewStyle().
		Padding(s.GetPaddingTop(), s.GetPaddingRight(), s.GetPaddingBottom(), s.GetPaddingLeft())
}

// Table renders one patient block: readings, prediction, and the ranked
// classes with posterior probabilities.
func (r *Renderer) Table(rep Report) error {
	var b strings.Builder

	b.WriteString(r.style(theme.Title).Render("Patient: " + rep.Name()))
	b.WriteString("\n")
	b.WriteString("  " + formatPanel(rep.Panel) + "\n")

	if rep.Error != "" {
		b.WriteString("  " + r.style(theme.Failure).Render("error: "+rep.Error) + "\n")
		_, err := fmt.Fprintln(r.w, b.String())
		return err
	}

	b.WriteString("  -> Predicted class: " + r.style(theme.Prediction).Render(rep.Best.Label) + "\n")

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.style(theme.TableBorder)).
		Headers("Cancer / Stage", "Log-likelihood", "Probability").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return r.style(theme.TableHeader)
			case row == 0:
				return r.style(theme.TableBest)
			default:
				return r.style(theme.TableCell)
			}
		})
	for _, s := range rep.Ranked {
		t.Row(s.Label, strconv.FormatFloat(s.LogLikelihood, 'f', 3, 64), fmt.Sprintf("%.3f", s.Posterior))
	}
	b.WriteString(t.Render())

	_, err := fmt.Fprintln(r.w, b.String())
	return err
}

// JSON writes one report as a single JSON line.
func (r *Renderer) JSON(rep Report) error {
	enc := json.NewEncoder(r.w)
	return enc.Encode(rep)
}

// Summary prints batch totals.
func (r *Renderer) Summary(s batch.Summary, reg *registry.Registry) error {
	var b strings.Builder
	b.WriteString(r.style(theme.Title).Render(fmt.Sprintf("%d patients, %d failed", s.Total, s.Failed)))
	b.WriteString("\n")
	for _, c := range reg.AllClasses() {
		if n := s.ByBest[string(c.ID)]; n > 0 {
			fmt.Fprintf(&b, "  %-28s %d\n", c.DisplayName(), n)
		}
	}
	_, err := fmt.Fprint(r.w, b.String())
	return err
}

// Classes lists the registry grouped by cancer type, followed by the baseline.
func (r *Renderer) Classes(reg *registry.Registry) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.style(theme.TableBorder)).
		Headers("Class", "Cancer", "Signal", "Mean", "Variance").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.style(theme.TableHeader)
			}
			return r.style(theme.TableCell)
		})

	for _, cancer := range reg.Cancers() {
		for _, c := range reg.ByCancer(cancer) {
			t.Row(string(c.ID), registry.CancerDisplayName(c.Cancer), c.Signal.String(),
				formatNumber(c.Dist.Mean), formatNumber(c.Dist.Variance))
		}
	}

	baseline := reg.Baseline()
	for _, m := range marker.All() {
		g := baseline[m]
		t.Row("Healthy "+m.String(), "-", m.String(), formatNumber(g.Mean), formatNumber(g.Variance))
	}

	_, err := fmt.Fprintln(r.w, t.Render())
	return err
}

// Explanation prints the per-marker terms of one class score.
func (r *Renderer) Explanation(ex *classifier.Explanation) error {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(r.style(theme.TableBorder)).
		Headers("Marker", "Reading", "Model", "Mean", "SD", "z", "log N").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.style(theme.TableHeader)
			}
			return r.style(theme.TableCell)
		})

	for _, term := range ex.Terms {
		model := "signal"
		if term.Background {
			model = "healthy"
		}
		z := fmt.Sprintf("%+.2f", term.ZScore)
		if term.ZScore > 3 || term.ZScore < -3 {
			z = r.style(theme.Abnormal).Render(z)
		}
		t.Row(term.Marker.String(), formatNumber(term.Value), model,
			formatNumber(term.Dist.Mean), formatNumber(term.Dist.StdDev()), z,
			strconv.FormatFloat(term.LogDensity, 'f', 3, 64))
	}

	title := r.style(theme.Title).Render(ex.Class.DisplayName())
	total := fmt.Sprintf("log-likelihood: %.3f", ex.Total)
	_, err := fmt.Fprintf(r.w, "%s\n%s\n%s\n", title, t.Render(), total)
	return err
}

func formatPanel(p marker.Panel) string {
	parts := make([]string, 0, len(p))
	for _, m := range marker.All() {
		if v, ok := p.Get(m); ok {
			parts = append(parts, fmt.Sprintf("%s=%s", m, formatNumber(v)))
		} else {
			parts = append(parts, fmt.Sprintf("%s=?", m))
		}
	}
	return strings.Join(parts, ", ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
