package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/san-kum/rootsim/internal/kepler"
	"github.com/san-kum/rootsim/internal/optim"
	"github.com/san-kum/rootsim/internal/rootfind"
	"github.com/san-kum/rootsim/internal/storage"
)

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoFormatHeaders(false)
	return table
}

// Runs lists stored runs.
func Runs(w io.Writer, runs []storage.RunMetadata) {
	table := newTable(w, []string{"ID", "TIME", "A", "E", "STEPS", "SOLVER", "ITERS", "EXHAUSTED"})
	for _, run := range runs {
		table.Append([]string{
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.4g", run.Orbit.SemiMajorAxis),
			fmt.Sprintf("%.4g", run.Orbit.Eccentricity),
			strconv.Itoa(run.Steps),
			run.Solver,
			strconv.Itoa(run.TotalIterations),
			strconv.Itoa(run.Exhausted),
		})
	}
	table.Render()
}

// Sweep compares propagations of several orbits.
func Sweep(w io.Writer, orbits []kepler.Orbit, results []*kepler.Result) {
	table := newTable(w, []string{"E", "MEAN ITERS", "MAX ITERS", "MAX RESIDUAL", "R MIN", "R MAX", "EXHAUSTED"})
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	for i, res := range results {
		maxIters := 0
		for _, n := range res.Iterations {
			maxIters = max(maxIters, n)
		}
		table.Append([]string{
			fmt.Sprintf("%.3f", orbits[i].Eccentricity),
			fmt.Sprintf("%.2f", res.Metrics["mean_iterations"]),
			strconv.Itoa(maxIters),
			fmt.Sprintf("%.2e", res.Metrics["max_residual"]),
			fmt.Sprintf("%.4f", res.Metrics["r_min"]),
			fmt.Sprintf("%.4f", res.Metrics["r_max"]),
			strconv.Itoa(res.Exhausted),
		})
	}
	table.Render()
}

// Trace prints the iterations recorded during one solve.
func Trace(w io.Writer, iters []rootfind.Iteration) {
	table := newTable(w, []string{"K", "X", "F(X)", "WIDTH"})
	for _, it := range iters {
		table.Append([]string{
			strconv.Itoa(it.K),
			strconv.FormatFloat(it.X, 'g', 15, 64),
			strconv.FormatFloat(it.FX, 'e', 3, 64),
			strconv.FormatFloat(it.Width, 'e', 3, 64),
		})
	}
	table.Render()
}

// Trials lists a grid search, best first.
func Trials(w io.Writer, metric string, trials []optim.Trial) {
	if len(trials) == 0 {
		return
	}
	names := optim.Names(trials[0].Params)
	sorted := append([]optim.Trial(nil), trials...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if (a.Err == nil) != (b.Err == nil) {
			return a.Err == nil
		}
		return a.Value < b.Value
	})

	table := newTable(w, append(append([]string{}, names...), strings.ToUpper(metric), "ERROR"))
	for _, tr := range sorted {
		row := make([]string, 0, len(names)+2)
		for _, n := range names {
			row = append(row, tr.Params[n])
		}
		if tr.Err != nil {
			row = append(row, "-", tr.Err.Error())
		} else {
			row = append(row, strconv.FormatFloat(tr.Value, 'g', 6, 64), "")
		}
		table.Append(row)
	}
	table.Render()
}
