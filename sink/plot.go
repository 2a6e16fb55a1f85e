package sink

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/npillmayer/bearsolve"
	"github.com/npillmayer/bearsolve/domain"
	"github.com/npillmayer/bearsolve/enumerate"
	"github.com/pkg/errors"
)

// Glyphs of the scatter plot.
const (
	HitGlyph  = "●"
	MissGlyph = "·"
)

var (
	hitStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#85fa50")).Bold(true)
	missStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#dd3628"))
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff9e64"))
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)
)

// Plot renders a scatter of the bearing × Range grid on Close. Bearing runs
// left to right, Range bottom to top. Grid points which are models are green,
// all others red.
type Plot struct {
	Title   string
	w       io.Writer
	bearing domain.Grid
	rng     domain.Grid
	hits    [][]bool // [range index][bearing index]
	count   int
	closed  bool
}

// NewPlot creates a plot sink for the given grids, writing to w.
func NewPlot(w io.Writer, bearing, rng domain.Grid) *Plot {
	hits := make([][]bool, rng.Len())
	for i := range hits {
		hits[i] = make([]bool, bearing.Len())
	}
	return &Plot{w: w, bearing: bearing, rng: rng, hits: hits}
}

// Accept marks the grid point of m.
func (p *Plot) Accept(m bearsolve.Model) error {
	if p.closed {
		return ErrClosed
	}
	pt := pointOf(m)
	x, okx := p.bearing.Index(pt.bearing)
	y, oky := p.rng.Index(pt.rng)
	if !okx || !oky {
		return errors.Errorf("model %s is not a point of %s × %s", m, p.bearing, p.rng)
	}
	if !p.hits[y][x] {
		p.hits[y][x] = true
		p.count++
	}
	return nil
}

// Close renders the plot.
func (p *Plot) Close(final enumerate.State) error {
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	if _, err := io.WriteString(p.w, p.Render(final)+"\n"); err != nil {
		return errors.Wrap(err, "rendering plot")
	}
	return nil
}

// Render returns the plot as a string.
func (p *Plot) Render(final enumerate.State) string {
	label := func(s string) string {
		return axisStyle.Render(fmt.Sprintf("%6s ", s))
	}
	var b strings.Builder
	if p.Title != "" {
		b.WriteString(titleStyle.Render(p.Title))
		b.WriteByte('\n')
	}
	for y := len(p.hits) - 1; y >= 0; y-- {
		b.WriteString(label(p.rng.Value(y).String()))
		for _, hit := range p.hits[y] {
			if hit {
				b.WriteString(hitStyle.Render(HitGlyph))
			} else {
				b.WriteString(missStyle.Render(MissGlyph))
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString(label(""))
	b.WriteString(axisStyle.Render(fmt.Sprintf("%s … %s", p.bearing.Min, p.bearing.Max)))
	b.WriteByte('\n')
	b.WriteString(axisStyle.Render(fmt.Sprintf("Range ↑ / bearing → : %s", summary(p.count, final))))
	return frameStyle.Render(b.String())
}
