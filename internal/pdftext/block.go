// Package pdftext turns PDF bytes into normalized text. Extraction runs
// through a cascade of strategies, from layout-aware parsing down to OCR.
package pdftext

import "math"

// BBox is a rectangle in top-down page coordinates: y grows downwards.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Valid reports whether the box has non-negative coordinates and ordered edges.
func (b BBox) Valid() bool {
	return b.X0 >= 0 && b.Y0 >= 0 && b.X0 <= b.X1 && b.Y0 <= b.Y1
}

// Union returns the smallest box containing both b and o.
func (b BBox) Union(o BBox) BBox {
	return BBox{
		X0: math.Min(b.X0, o.X0),
		Y0: math.Min(b.Y0, o.Y0),
		X1: math.Max(b.X1, o.X1),
		Y1: math.Max(b.Y1, o.Y1),
	}
}

// TextBlock is a positioned fragment of page text.
type TextBlock struct {
	Page int    `json:"page"`
	BBox BBox   `json:"bbox"`
	Text string `json:"text"`
}
