package pdfproc

import (
	"sort"
	"strings"
)

// textRun is a positioned fragment of page text. Coordinates are PDF space:
// origin bottom-left, y increasing upward.
type textRun struct {
	S        string
	X        float64
	Y        float64
	W        float64
	FontSize float64
}

// baselineThreshold is the vertical distance within which two runs belong to
// the same line. It scales with font size so large headings absorb baseline
// jitter, with a floor for tiny or unreported sizes.
func baselineThreshold(fontSize float64) float64 {
	t := fontSize * 0.6
	if t < 2.0 {
		t = 2.0
	}
	return t
}

// assembleLines clusters runs into lines by vertical position and orders runs
// left-to-right within each line. Lines come out top-to-bottom.
func assembleLines(runs []textRun) string {
	if len(runs) == 0 {
		return ""
	}

	sorted := make([]textRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]textRun
	current := []textRun{sorted[0]}
	lineY := sorted[0].Y

	for _, run := range sorted[1:] {
		if lineY-run.Y <= baselineThreshold(run.FontSize) {
			current = append(current, run)
			continue
		}
		lines = append(lines, current)
		current = []textRun{run}
		lineY = run.Y
	}
	lines = append(lines, current)

	var b strings.Builder
	for i, line := range lines {
		sort.SliceStable(line, func(a, c int) bool {
			return line[a].X < line[c].X
		})
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, run := range line {
			if j > 0 && needsSpace(line[j-1], run) {
				b.WriteByte(' ')
			}
			b.WriteString(run.S)
		}
	}
	return b.String()
}

// needsSpace decides whether a gap between adjacent runs is a word break.
// Runs that touch (sub-glyph kerning) are joined directly.
func needsSpace(prev, next textRun) bool {
	gap := next.X - (prev.X + prev.W)
	return gap > 0.5
}
