package services

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/observability"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

const (
	chartSize        = 512
	chartOuterRadius = 230.0
	chartInnerRadius = 120.0
	// Segments shorter than this are drawn without a label.
	chartMinLabelMinutes = 45
)

// ChartRenderer draws a day chart as a 24h donut PNG.
type ChartRenderer interface {
	RenderPNG(data planner.ChartData, title string) ([]byte, error)
}

type chartRenderer struct {
	log      *logger.Logger
	fontFace font.Face
}

// NewChartRenderer loads fontPath as the label face; an empty path falls
// back to the built-in bitmap face.
func NewChartRenderer(log *logger.Logger, fontPath string) (ChartRenderer, error) {
	serviceLog := log.With("service", "ChartRenderer")
	var face font.Face = basicfont.Face7x13
	if strings.TrimSpace(fontPath) != "" {
		serviceLog.Info("Loading chart font", "font", fontPath)
		loaded, err := loadFontFace(fontPath, 14)
		if err != nil {
			return nil, fmt.Errorf("could not load chart font: %w", err)
		}
		face = loaded
	}
	return &chartRenderer{log: serviceLog, fontFace: face}, nil
}

func (cr *chartRenderer) RenderPNG(data planner.ChartData, title string) ([]byte, error) {
	started := time.Now()
	dc := gg.NewContext(chartSize, chartSize)
	dc.SetHexColor("#FFFFFF")
	dc.Clear()

	cx, cy := float64(chartSize)/2, float64(chartSize)/2
	total := float64(data.Total())
	if total <= 0 {
		total = planner.MinutesPerDay
	}

	// Midnight sits at the top and the day runs clockwise.
	angle := -math.Pi / 2
	type label struct {
		text  string
		color string
		x, y  float64
	}
	labels := make([]label, 0, len(data.Data))
	for i, minutes := range data.Data {
		if minutes <= 0 {
			continue
		}
		sweep := 2 * math.Pi * float64(minutes) / total
		color := colorAt(data.Colors, i)

		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, chartOuterRadius, angle, angle+sweep)
		dc.ClosePath()
		dc.SetHexColor(color)
		dc.FillPreserve()
		dc.SetHexColor("#FFFFFF")
		dc.SetLineWidth(1)
		dc.Stroke()

		if minutes >= chartMinLabelMinutes && i < len(data.Labels) {
			mid := angle + sweep/2
			r := (chartOuterRadius + chartInnerRadius) / 2
			labels = append(labels, label{
				text:  data.Labels[i],
				color: planner.TextColorFor(color),
				x:     cx + r*math.Cos(mid),
				y:     cy + r*math.Sin(mid),
			})
		}
		angle += sweep
	}

	dc.DrawCircle(cx, cy, chartInnerRadius)
	dc.SetHexColor("#FFFFFF")
	dc.Fill()

	dc.SetFontFace(cr.fontFace)
	for _, l := range labels {
		dc.SetHexColor(l.color)
		dc.DrawStringAnchored(l.text, l.x, l.y, 0.5, 0.5)
	}
	if title != "" {
		dc.SetHexColor("#000000")
		dc.DrawStringAnchored(title, cx, cy, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	observability.Current().ObserveChartRender("png", time.Since(started))
	return buf.Bytes(), nil
}

func colorAt(colors []string, i int) string {
	if i < len(colors) && planner.IsHexColor(colors[i]) {
		return colors[i]
	}
	return planner.DefaultChartColor
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}
