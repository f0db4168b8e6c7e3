// Package textnorm repairs artifacts in text extracted from rendered
// documents: character-by-character spacing ("P a y m e n t") and the
// reconstruction of reading-order lines from an unordered bag of positioned
// fragments.
package textnorm

import (
	"sort"
	"strings"
	"unicode"
)

// singleCharThreshold is the fraction of one-character tokens above which a
// line is treated as letter-spaced. Below it, short-word lines like
// "20 Jul CR 5.00" pass through untouched.
const singleCharThreshold = 0.4

// RepairSpacing rejoins letter-spaced tokens into words. The repair is a
// heuristic: downstream matching is fuzzy, so occasional misjoins are
// acceptable.
func RepairSpacing(line string) string {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return line
	}

	single := 0
	for _, tok := range tokens {
		if len([]rune(tok)) == 1 {
			single++
		}
	}
	if float64(single)/float64(len(tokens)) < singleCharThreshold {
		return line
	}

	var out []string
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, buf.String())
			buf.Reset()
		}
	}

	for _, tok := range tokens {
		runes := []rune(tok)
		if len(runes) == 1 && isAlphanumeric(runes[0]) {
			buf.WriteRune(runes[0])
			continue
		}
		flush()
		out = append(out, tok)
	}
	flush()

	return strings.Join(out, " ")
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Fragment is a positioned piece of text from a rendered page. Y grows
// downward; Width is the rendered width of Text.
type Fragment struct {
	Text  string
	X     float64
	Y     float64
	Width float64
}

// minLineGap is the floor for the dynamic vertical grouping threshold.
const minLineGap = 3.0

// BuildLines reconstructs reading-order lines from positioned fragments.
// Fragments are grouped into lines by vertical proximity using a threshold
// derived from the median fragment-to-fragment gap, then joined left to right
// with a space inserted only where the horizontal gap exceeds 0.8x the running
// average character width for that line.
func BuildLines(fragments []Fragment) []string {
	if len(fragments) == 0 {
		return nil
	}

	frags := make([]Fragment, len(fragments))
	copy(frags, fragments)
	sort.SliceStable(frags, func(i, j int) bool {
		if frags[i].Y != frags[j].Y {
			return frags[i].Y < frags[j].Y
		}
		return frags[i].X < frags[j].X
	})

	threshold := lineGapThreshold(frags)

	var lines [][]Fragment
	current := []Fragment{frags[0]}
	for _, f := range frags[1:] {
		if f.Y-current[len(current)-1].Y > threshold {
			lines = append(lines, current)
			current = []Fragment{f}
			continue
		}
		current = append(current, f)
	}
	lines = append(lines, current)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, joinLine(line))
	}
	return out
}

// lineGapThreshold computes the vertical grouping threshold: half the median
// positive Y gap, but never below minLineGap.
func lineGapThreshold(sorted []Fragment) float64 {
	var gaps []float64
	for i := 1; i < len(sorted); i++ {
		if gap := sorted[i].Y - sorted[i-1].Y; gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) == 0 {
		return minLineGap
	}
	sort.Float64s(gaps)
	median := gaps[len(gaps)/2]
	if half := median / 2; half > minLineGap {
		return half
	}
	return minLineGap
}

// joinLine concatenates a line's fragments left to right, inserting spaces
// only across gaps wider than 0.8x the running average character width.
func joinLine(line []Fragment) string {
	sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })

	var sb strings.Builder
	var charWidthSum float64
	var charCount int

	for i, f := range line {
		if i > 0 {
			prev := line[i-1]
			gap := f.X - (prev.X + prev.Width)
			avgCharWidth := 0.0
			if charCount > 0 {
				avgCharWidth = charWidthSum / float64(charCount)
			}
			if avgCharWidth > 0 && gap > 0.8*avgCharWidth {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(f.Text)
		if n := len([]rune(f.Text)); n > 0 && f.Width > 0 {
			charWidthSum += f.Width
			charCount += n
		}
	}

	return RepairSpacing(sb.String())
}
