package report

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rootsim/internal/storage"
)

const (
	plotWidth  = 80
	plotHeight = 10
)

// Series extracts the x, y, anomaly and iteration columns from samples.
func Series(samples []storage.Sample) (xs, ys, anomalies, iters []float64) {
	xs = make([]float64, len(samples))
	ys = make([]float64, len(samples))
	anomalies = make([]float64, len(samples))
	iters = make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.X
		ys[i] = s.Y
		anomalies[i] = s.Anomaly
		iters[i] = float64(s.Iterations)
	}
	return xs, ys, anomalies, iters
}

// Plot renders one series as an ASCII chart.
func Plot(data []float64, caption string) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}

// PlotXY overlays the x(t) and y(t) coordinate series.
func PlotXY(xs, ys []float64) string {
	if len(xs) == 0 || len(ys) == 0 {
		return ""
	}
	return asciigraph.PlotMany([][]float64{xs, ys},
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Cyan),
		asciigraph.Caption("x(t) green, y(t) cyan"),
	)
}
