package pdftext

import (
	"math"
	"sort"
)

const (
	// DefaultMergeMaxGap is the largest vertical distance between the bottom of
	// one block and the top of the next for them to be joined.
	DefaultMergeMaxGap = 18.0
	// DefaultMergeMaxXDiff is the largest difference between left edges of two
	// joined blocks.
	DefaultMergeMaxXDiff = 30.0
)

// MergeOptions tunes block joining.
type MergeOptions struct {
	MaxGap   float64 `mapstructure:"merge-max-gap"`
	MaxXDiff float64 `mapstructure:"merge-max-x-diff"`
}

// DefaultMergeOptions returns the stock thresholds.
func DefaultMergeOptions() MergeOptions {
	return MergeOptions{MaxGap: DefaultMergeMaxGap, MaxXDiff: DefaultMergeMaxXDiff}
}

func (o MergeOptions) withDefaults() MergeOptions {
	if o.MaxGap <= 0 {
		o.MaxGap = DefaultMergeMaxGap
	}
	if o.MaxXDiff <= 0 {
		o.MaxXDiff = DefaultMergeMaxXDiff
	}
	return o
}

// Merge joins vertically adjacent, left-aligned blocks into paragraphs.
// Blocks are ordered by page, then by rounded top edge, then by rounded left
// edge. A block is appended to the previously accepted block on the same page
// when the gap between them is in [0, MaxGap) and their left edges differ by
// less than MaxXDiff. Joined texts are separated by one space. The input
// slice is left untouched.
func Merge(blocks []TextBlock, opts MergeOptions) []TextBlock {
	if len(blocks) == 0 {
		return nil
	}
	opts = opts.withDefaults()

	sorted := make([]TextBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if ay, by := math.RoundToEven(a.BBox.Y0), math.RoundToEven(b.BBox.Y0); ay != by {
			return ay < by
		}
		return math.RoundToEven(a.BBox.X0) < math.RoundToEven(b.BBox.X0)
	})

	merged := make([]TextBlock, 0, len(sorted))
	for _, block := range sorted {
		if n := len(merged); n > 0 && joinable(merged[n-1], block, opts) {
			last := &merged[n-1]
			last.Text = last.Text + " " + block.Text
			last.BBox = last.BBox.Union(block.BBox)
			continue
		}
		merged = append(merged, block)
	}

	return merged
}

func joinable(last, next TextBlock, opts MergeOptions) bool {
	if last.Page != next.Page {
		return false
	}
	gap := next.BBox.Y0 - last.BBox.Y1
	return gap >= 0 && gap < opts.MaxGap && math.Abs(next.BBox.X0-last.BBox.X0) < opts.MaxXDiff
}

// Texts returns the text of each block in order.
func Texts(blocks []TextBlock) []string {
	texts := make([]string, len(blocks))
	for i, block := range blocks {
		texts[i] = block.Text
	}
	return texts
}
