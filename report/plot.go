package report

import (
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/csvclean/pkg/errors"
	"github.com/YuminosukeSato/csvclean/table"
)

var bandOrder = []table.Band{table.BandNone, table.BandLow, table.BandMedium, table.BandHigh, table.BandSevere}

func hexColour(s string) color.Color {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// MissingPlot builds a bar chart of missing percentages, one bar per column,
// coloured by band.
func MissingPlot(missing []table.HighlightedMissing) (*plot.Plot, error) {
	if len(missing) == 0 {
		return nil, errors.NewValueError("MissingPlot", "no columns to plot")
	}

	p := plot.New()
	p.Title.Text = "Missing values by column"
	p.Y.Label.Text = "Missing (%)"
	p.Y.Min = 0
	p.Y.Max = 100

	names := make([]string, len(missing))
	for i, m := range missing {
		names[i] = m.Column
	}

	// One chart per band so each band gets its own colour and legend entry.
	for _, band := range bandOrder {
		values := make(plotter.Values, len(missing))
		present := false
		for i, m := range missing {
			if m.Band == band {
				values[i] = m.MissingPercentage
				present = true
			}
		}
		if !present {
			continue
		}
		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return nil, errors.Wrap(err, "build bar chart")
		}
		bars.Color = hexColour(BandColour(band))
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.Legend.Add(string(band), bars)
	}
	p.Legend.Top = true
	p.NominalX(names...)
	return p, nil
}

// PlotMissing writes the missing-value bar chart as a PNG image to w.
func PlotMissing(w io.Writer, missing []table.HighlightedMissing) error {
	p, err := MissingPlot(missing)
	if err != nil {
		return err
	}
	width := vg.Length(len(missing))*vg.Centimeter + 8*vg.Centimeter
	wt, err := p.WriterTo(width, 10*vg.Centimeter, "png")
	if err != nil {
		return errors.Wrap(err, "render plot")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write plot")
	}
	return nil
}
