package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/locvowork/company_dashboard/internal/domain"
	"github.com/locvowork/company_dashboard/internal/logger"
)

// ErrEmptyChart is returned for charts without points.
var ErrEmptyChart = errors.New("chart has no points")

const (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

// Plot builds a gonum plot for c. Pie charts are drawn as bars of percentage
// shares.
func Plot(c domain.Chart) (*plot.Plot, error) {
	if len(c.Points) == 0 {
		return nil, fmt.Errorf("%s: %w", c.ID, ErrEmptyChart)
	}

	values := make(plotter.Values, len(c.Points))
	labels := make([]string, len(c.Points))
	var total float64
	for i, pt := range c.Points {
		values[i] = pt.Y.InexactFloat64()
		labels[i] = pt.X
		total += values[i]
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel

	if c.Kind == domain.ChartPie {
		if total != 0 {
			for i := range values {
				values[i] = values[i] / total * 100
			}
		}
		p.Y.Label.Text = "Share (%)"
	}

	bars, err := plotter.NewBarChart(values, vg.Points(28))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.ID, err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)
	return p, nil
}

// WritePNG renders c as a PNG image.
func WritePNG(w io.Writer, c domain.Chart) error {
	p, err := Plot(c)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SaveReportCharts writes every chart of report to dir as
// <section>_<chart>.png and returns the written paths.
func SaveReportCharts(ctx context.Context, report *domain.Report, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	var paths []string
	for _, sec := range report.Sections {
		for _, c := range sec.Charts {
			path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", sec.Key, c.ID))
			if err := savePNG(path, c); err != nil {
				return paths, err
			}
			paths = append(paths, path)
		}
	}
	logger.InfoLog(ctx, "Wrote %d charts to %s", len(paths), dir)
	return paths, nil
}

func savePNG(path string, c domain.Chart) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
