package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/textclean"
)

// StrategyLayout names the layout-aware strategy.
const StrategyLayout = "layout"

const (
	defaultRowTolerance        = 3.0
	defaultColumnGap           = 30.0
	defaultWordSpaceMultiplier = 0.2
	descentRatio               = 0.25
)

// LayoutExtractor reads positioned glyphs page by page, rebuilds visual lines
// and merges them into paragraph blocks.
type LayoutExtractor struct {
	Merge MergeOptions

	// RowTolerance is the vertical distance within which glyphs share a line.
	RowTolerance float64
	// ColumnGap is the horizontal gap that splits a line into two blocks.
	ColumnGap float64
	// WordSpaceMultiplier times the font size is the gap treated as a space
	// when the content stream positions words without a space glyph.
	WordSpaceMultiplier float64

	logger *zap.Logger
}

// NewLayoutExtractor returns a layout extractor with default line detection.
func NewLayoutExtractor(opts MergeOptions, log *zap.Logger) *LayoutExtractor {
	return &LayoutExtractor{
		Merge:               opts.withDefaults(),
		RowTolerance:        defaultRowTolerance,
		ColumnGap:           defaultColumnGap,
		WordSpaceMultiplier: defaultWordSpaceMultiplier,
		logger:              logger.WithStrategy(log, StrategyLayout),
	}
}

func (e *LayoutExtractor) Name() string { return StrategyLayout }

// Available is always true: the decoder is compiled in.
func (e *LayoutExtractor) Available() bool { return true }

// Extract returns the merged blocks of every page separated by blank lines.
func (e *LayoutExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	blocks, err := e.Blocks(ctx, data)
	if err != nil {
		return "", err
	}

	merged := Merge(blocks, e.Merge)
	e.logger.Debug("merged layout blocks",
		zap.Int("lines", len(blocks)),
		zap.Int("blocks", len(merged)),
	)

	return textclean.Flatten(Texts(merged)), nil
}

// Blocks returns one block per visual line segment of every page.
func (e *LayoutExtractor) Blocks(ctx context.Context, data []byte) (blocks []TextBlock, err error) {
	defer recoverMalformed(&err)

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrMalformed, err)
	}

	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageBlocks := e.pageBlocks(page, i-1)
		e.logger.Debug("read page", zap.Int("page", i), zap.Int("lines", len(pageBlocks)))
		blocks = append(blocks, pageBlocks...)
	}

	return blocks, nil
}

func (e *LayoutExtractor) pageBlocks(page pdf.Page, index int) []TextBlock {
	glyphs := page.Content().Text
	if !hasVisible(glyphs) {
		return nil
	}

	height := pageHeight(page, glyphs)

	var blocks []TextBlock
	for _, row := range e.rows(glyphs) {
		for _, segment := range e.segments(row) {
			block, ok := segment.block(index, height)
			if ok {
				blocks = append(blocks, block)
			}
		}
	}
	return blocks
}

func hasVisible(texts []pdf.Text) bool {
	for _, t := range texts {
		if !blank(t) {
			return true
		}
	}
	return false
}

func blank(t pdf.Text) bool {
	return strings.TrimSpace(t.S) == ""
}

// rows groups glyphs sharing a baseline and orders the rows top to bottom.
func (e *LayoutExtractor) rows(glyphs []pdf.Text) [][]pdf.Text {
	type bucket struct {
		yMin, yMax float64
		glyphs     []pdf.Text
	}

	var buckets []*bucket
	for _, g := range glyphs {
		var target *bucket
		for _, b := range buckets {
			if g.Y >= b.yMin-e.RowTolerance && g.Y <= b.yMax+e.RowTolerance {
				target = b
				break
			}
		}
		if target == nil {
			target = &bucket{yMin: g.Y, yMax: g.Y}
			buckets = append(buckets, target)
		}
		target.glyphs = append(target.glyphs, g)
		target.yMin = math.Min(target.yMin, g.Y)
		target.yMax = math.Max(target.yMax, g.Y)
	}

	// PDF user space grows upwards.
	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].yMax > buckets[j].yMax
	})

	rows := make([][]pdf.Text, len(buckets))
	for i, b := range buckets {
		sort.SliceStable(b.glyphs, func(x, y int) bool {
			return b.glyphs[x].X < b.glyphs[y].X
		})
		rows[i] = b.glyphs
	}
	return rows
}

type segment struct {
	text      strings.Builder
	x0, x1    float64
	baseline  float64
	fontSize  float64
	lastRight float64
	// space is set by a whitespace glyph and written before the next
	// visible one.
	space bool
}

// segments splits a row at wide gaps. Whitespace glyphs become a single
// space; without them a gap wider than the word gap does.
func (e *LayoutExtractor) segments(row []pdf.Text) []*segment {
	var (
		out     []*segment
		current *segment
	)

	for _, g := range row {
		if blank(g) {
			if current != nil {
				current.space = true
			}
			continue
		}

		if current != nil {
			gap := g.X - current.lastRight
			switch {
			case gap > e.ColumnGap:
				out = append(out, current)
				current = nil
			case current.space || gap > e.wordGap(current.fontSize):
				current.text.WriteByte(' ')
			}
		}

		if current == nil {
			current = &segment{x0: g.X, baseline: g.Y}
		}
		current.text.WriteString(g.S)
		current.space = false
		current.x1 = math.Max(current.x1, g.X+g.W)
		current.lastRight = g.X + g.W
		current.baseline = math.Min(current.baseline, g.Y)
		current.fontSize = math.Max(current.fontSize, g.FontSize)
	}

	if current != nil {
		out = append(out, current)
	}
	return out
}

func (e *LayoutExtractor) wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 3
	}
	return e.WordSpaceMultiplier * fontSize
}

// block converts a segment to top-down coordinates clamped to the page.
func (s *segment) block(page int, height float64) (TextBlock, bool) {
	text := strings.TrimSpace(s.text.String())
	if text == "" {
		return TextBlock{}, false
	}

	x0 := math.Max(0, s.x0)
	x1 := math.Max(x0, s.x1)
	y0 := math.Max(0, height-s.baseline-s.fontSize)
	y1 := math.Max(y0, height-s.baseline+s.fontSize*descentRatio)

	return TextBlock{
		Page: page,
		BBox: BBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
		Text: text,
	}, true
}

// pageHeight reads the page MediaBox, walking up the page tree when it is
// inherited. Without one the highest glyph bounds the page.
func pageHeight(page pdf.Page, glyphs []pdf.Text) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
	}

	var top float64
	for _, g := range glyphs {
		top = math.Max(top, g.Y+g.FontSize)
	}
	return top
}
