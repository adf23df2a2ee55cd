package reports

import (
	"bytes"
	"fmt"
	"time"

	"fundbridge/models"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ChartStyle defines the layout of the holdings chart
type ChartStyle struct {
	Width      int
	Padding    int
	LabelWidth int
	BarHeight  int
	BarGap     int
	MaxRows    int
	Invested   [3]float64
	Returns    [3]float64
}

// HoldingsChart renders a portfolio as horizontal bars of invested amount
// against returns per pitch
type HoldingsChart struct {
	style ChartStyle
}

// NewHoldingsChart creates a chart generator with the default style
func NewHoldingsChart() *HoldingsChart {
	return &HoldingsChart{
		style: ChartStyle{
			Width:      640,
			Padding:    20,
			LabelWidth: 180,
			BarHeight:  14,
			BarGap:     12,
			MaxRows:    12,
			Invested:   [3]float64{0.35, 0.55, 0.95},
			Returns:    [3]float64{0.3, 0.85, 0.5},
		},
	}
}

// RenderPNG draws the portfolio and returns the encoded PNG
func (c *HoldingsChart) RenderPNG(portfolio *models.Portfolio) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			Debug("Holdings chart generation completed")
	}()

	if portfolio == nil {
		return nil, fmt.Errorf("portfolio is required")
	}

	holdings := portfolio.Holdings
	if len(holdings) > c.style.MaxRows {
		holdings = holdings[:c.style.MaxRows]
	}

	rows := len(holdings)
	if rows == 0 {
		rows = 1
	}
	rowHeight := 2*c.style.BarHeight + c.style.BarGap
	// Title (40) + legend (25) + rows + footer (30)
	height := 40 + 25 + rows*rowHeight + 30 + c.style.Padding

	dc := gg.NewContext(c.style.Width, height)
	dc.SetRGB(0.06, 0.07, 0.1)
	dc.Clear()

	titleFace, err := loadFont(gobold.TTF, 15)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	face, err := loadFont(goregular.TTF, 11)
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	pad := float64(c.style.Padding)

	dc.SetFontFace(titleFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawString("Portfolio holdings", pad, 30)

	dc.SetFontFace(face)
	c.drawLegend(dc, pad, 52)

	var maxValue int64
	for _, holding := range holdings {
		if holding.Invested > maxValue {
			maxValue = holding.Invested
		}
		if holding.Returns > maxValue {
			maxValue = holding.Returns
		}
	}

	barLeft := pad + float64(c.style.LabelWidth)
	barSpace := float64(c.style.Width) - barLeft - pad - 70
	y := 70.0

	if len(holdings) == 0 {
		dc.SetRGB(0.7, 0.7, 0.7)
		dc.DrawStringAnchored("No investments yet", float64(c.style.Width)/2, y+float64(c.style.BarHeight), 0.5, 0.5)
	}

	for _, holding := range holdings {
		dc.SetRGB(0.9, 0.9, 0.95)
		label := fitLabel(dc, holding.PitchTitle, float64(c.style.LabelWidth)-10)
		dc.DrawString(label, pad, y+float64(c.style.BarHeight))

		c.drawBar(dc, barLeft, y, barSpace, holding.Invested, maxValue, c.style.Invested)
		c.drawBar(dc, barLeft, y+float64(c.style.BarHeight), barSpace, holding.Returns, maxValue, c.style.Returns)

		y += float64(rowHeight)
	}

	dc.SetRGB(0.75, 0.75, 0.8)
	footer := fmt.Sprintf("Invested %s   Returns %s   ROI %s%%",
		FormatShort(portfolio.TotalInvested),
		FormatShort(portfolio.TotalReturns),
		portfolio.ROI.StringFixed(2))
	dc.DrawString(footer, pad, float64(height-c.style.Padding))

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *HoldingsChart) drawBar(dc *gg.Context, x, y, space float64, value, maxValue int64, rgb [3]float64) {
	width := 0.0
	if maxValue > 0 {
		width = space * float64(value) / float64(maxValue)
	}
	if value > 0 && width < 2 {
		width = 2
	}

	dc.SetRGB(rgb[0], rgb[1], rgb[2])
	dc.DrawRectangle(x, y+1, width, float64(c.style.BarHeight)-2)
	dc.Fill()

	dc.SetRGB(0.85, 0.85, 0.9)
	dc.DrawStringAnchored(FormatShort(value), x+width+6, y+float64(c.style.BarHeight)/2, 0, 0.35)
}

func (c *HoldingsChart) drawLegend(dc *gg.Context, x, y float64) {
	entries := []struct {
		label string
		rgb   [3]float64
	}{
		{"Invested", c.style.Invested},
		{"Returns", c.style.Returns},
	}
	for _, entry := range entries {
		dc.SetRGB(entry.rgb[0], entry.rgb[1], entry.rgb[2])
		dc.DrawRectangle(x, y-9, 10, 10)
		dc.Fill()
		dc.SetRGB(0.9, 0.9, 0.95)
		dc.DrawString(entry.label, x+14, y)
		x += 90
	}
}

// fitLabel shortens text to the given pixel width
func fitLabel(dc *gg.Context, text string, width float64) string {
	if w, _ := dc.MeasureString(text); w <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if w, _ := dc.MeasureString(string(runes) + "…"); w <= width {
			break
		}
	}
	return string(runes) + "…"
}

// loadFont loads a font from byte data
func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
