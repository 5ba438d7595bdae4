package render

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"
)

const (
	fontCharWidth  = 0.55 // average glyph width relative to font size
	fontLineHeight = 1.2
)

// Default sizing parameters.
const (
	DefaultFontSize = 14.0
	DefaultPaddingX = 12.0
	DefaultPaddingY = 8.0
	DefaultMinWidth = 60.0
)

// LabelSizer estimates box sizes from label text. It does not measure real
// glyphs; the estimate assumes an average character width, which is close
// enough for sans-serif fonts at diagram sizes.
type LabelSizer struct {
	FontSize float64
	PaddingX float64
	PaddingY float64
	MinWidth float64
}

// DefaultLabelSizer returns a sizer with the default parameters.
func DefaultLabelSizer() LabelSizer {
	return LabelSizer{
		FontSize: DefaultFontSize,
		PaddingX: DefaultPaddingX,
		PaddingY: DefaultPaddingY,
		MinWidth: DefaultMinWidth,
	}
}

// Size returns the box for a label. It matches graph.SizeFunc.
func (s LabelSizer) Size(label string) (width, height float64) {
	fs := s.fontSize()
	n := max(1, utf8.RuneCountInString(label))
	width = float64(n)*fs*fontCharWidth + 2*s.PaddingX
	height = fs*fontLineHeight + 2*s.PaddingY
	return max(width, s.MinWidth), height
}

// FontSizeFor returns the largest font size, capped at the sizer's font
// size, at which label fits into the given width.
func (s LabelSizer) FontSizeFor(label string, width float64) float64 {
	fs := s.fontSize()
	n := max(1, utf8.RuneCountInString(label))
	avail := width - 2*s.PaddingX
	if avail <= 0 {
		return fs
	}
	return min(fs, avail/(float64(n)*fontCharWidth))
}

func (s LabelSizer) fontSize() float64 {
	if s.FontSize <= 0 {
		return DefaultFontSize
	}
	return s.FontSize
}

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
