package render

import (
	"bytes"
	"fmt"
)

// chartSymbols are drawn over cells in chart mode, one per palette entry.
// The sequence cycles if a palette somehow exceeds it.
var chartSymbols = []string{
	"●", "■", "▲", "◆", "○", "□", "△", "◇", "×", "+",
	"★", "☆", "♦", "♥", "♠", "♣", "⬟", "⬢", "✶", "✚",
	"◉", "◐", "◑", "▣", "▤", "▥", "▦", "▧", "▨", "▩",
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "0",
}

const (
	legendRowHeight = 18.0
	legendPadding   = 10.0
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cellSize float64
	legend   bool
	chart    bool
}

// WithCellSize sets the rendered size of one cell in SVG units. Defaults
// to 10.
func WithCellSize(px float64) SVGOption { return func(r *svgRenderer) { r.cellSize = px } }

// WithLegend appends a color legend with per-entry usage counts below the
// grid.
func WithLegend() SVGOption { return func(r *svgRenderer) { r.legend = true } }

// WithChart overlays one symbol per palette entry on every cell and draws
// grid lines, producing a followable craft chart. Implies a legend.
func WithChart() SVGOption { return func(r *svgRenderer) { r.chart = true; r.legend = true } }

// RenderSVG renders the mosaic as SVG markup. Horizontal runs of
// same-colored cells merge into single rects to keep plain output compact;
// chart mode draws per-cell so symbols stay aligned.
func RenderSVG(m *Mosaic, opts ...SVGOption) []byte {
	r := svgRenderer{cellSize: 10}
	for _, opt := range opts {
		opt(&r)
	}

	cs := r.cellSize
	gridW := float64(m.W) * cs
	gridH := float64(m.H) * cs
	totalH := gridH
	if r.legend {
		totalH += legendPadding + float64(len(m.Colors))*legendRowHeight + legendPadding
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		gridW, totalH, gridW, totalH)
	fmt.Fprintf(&buf, `<rect width="%.1f" height="%.1f" fill="#ffffff"/>`+"\n", gridW, totalH)

	if r.chart {
		renderCells(&buf, m, cs)
		renderSymbols(&buf, m, cs)
		renderGridLines(&buf, m, cs)
	} else {
		renderRuns(&buf, m, cs)
	}

	if r.legend {
		renderLegend(&buf, m, gridH+legendPadding, r.chart)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderRuns emits one rect per horizontal run of equal cells.
func renderRuns(buf *bytes.Buffer, m *Mosaic, cs float64) {
	for y := 0; y < m.H; y++ {
		x := 0
		for x < m.W {
			idx := m.Index[y*m.W+x]
			run := 1
			for x+run < m.W && m.Index[y*m.W+x+run] == idx {
				run++
			}
			fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				float64(x)*cs, float64(y)*cs, float64(run)*cs, cs, m.Colors[idx].Hex())
			x += run
		}
	}
}

// renderCells emits one rect per cell.
func renderCells(buf *bytes.Buffer, m *Mosaic, cs float64) {
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			idx := m.Index[y*m.W+x]
			fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
				float64(x)*cs, float64(y)*cs, cs, cs, m.Colors[idx].Hex())
		}
	}
}

// renderSymbols overlays the per-entry chart symbol on every cell, in a
// contrasting tone.
func renderSymbols(buf *bytes.Buffer, m *Mosaic, cs float64) {
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			idx := m.Index[y*m.W+x]
			ink := "#000000"
			if m.Colors[idx].Luminance() < 0.5 {
				ink = "#ffffff"
			}
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.1f" text-anchor="middle" dominant-baseline="central" fill="%s">%s</text>`+"\n",
				(float64(x)+0.5)*cs, (float64(y)+0.5)*cs, cs*0.6, ink, Symbol(idx))
		}
	}
}

// renderGridLines draws cell separators, heavier every tenth line for
// counting.
func renderGridLines(buf *bytes.Buffer, m *Mosaic, cs float64) {
	gridW := float64(m.W) * cs
	gridH := float64(m.H) * cs
	for x := 0; x <= m.W; x++ {
		w := 0.3
		if x%10 == 0 {
			w = 0.9
		}
		fmt.Fprintf(buf, `<line x1="%.1f" y1="0" x2="%.1f" y2="%.1f" stroke="#888888" stroke-width="%.1f"/>`+"\n",
			float64(x)*cs, float64(x)*cs, gridH, w)
	}
	for y := 0; y <= m.H; y++ {
		w := 0.3
		if y%10 == 0 {
			w = 0.9
		}
		fmt.Fprintf(buf, `<line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#888888" stroke-width="%.1f"/>`+"\n",
			float64(y)*cs, gridW, float64(y)*cs, w)
	}
}

// renderLegend lists each palette entry with its swatch, symbol (chart
// mode), name, and cell usage count.
func renderLegend(buf *bytes.Buffer, m *Mosaic, top float64, chart bool) {
	usage := m.Usage()
	for i, c := range m.Colors {
		y := top + float64(i)*legendRowHeight
		fmt.Fprintf(buf, `<rect x="4" y="%.1f" width="14" height="14" fill="%s" stroke="#444444" stroke-width="0.5"/>`+"\n",
			y, c.Hex())

		label := c.Hex()
		if len(m.Names) == len(m.Colors) && m.Names[i] != "" {
			label = m.Names[i]
		}
		if chart {
			label = Symbol(i) + "  " + label
		}
		fmt.Fprintf(buf, `<text x="24" y="%.1f" font-size="11" font-family="sans-serif" dominant-baseline="hanging">%s · %d cells</text>`+"\n",
			y+1, label, usage[i])
	}
}

// Symbol returns the chart symbol for a palette entry.
func Symbol(idx int) string {
	return chartSymbols[idx%len(chartSymbols)]
}
