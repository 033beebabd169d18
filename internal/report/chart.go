// Package report renders presentation output over the store's
// aggregated query results.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/csperkins/empirical-analysis-ietf/internal/store"
)

// Chart renders a stacked bar chart of dated messages per mailing list
// per calendar year as a standalone HTML document.
func Chart(w io.Writer, counts []store.YearCount) error {
	if len(counts) == 0 {
		return fmt.Errorf("no dated messages to chart")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWonderland,
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type: "slider",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: true, Type: "scroll",
			Orient: "horizontal",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{
				Show:       true,
				Rotate:     90,
				FontSize:   "12",
				Inside:     true,
				Interval:   "0",
			},
		}),
	)

	lists, years, perYear := dataset(counts)
	bar.SetXAxis(lists)
	for _, year := range years {
		bar.AddSeries(fmt.Sprint(year), perYear[year]).SetSeriesOptions(
			charts.WithBarChartOpts(opts.BarChart{Stack: "stack"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Opacity: 0.5}),
		)
	}
	return bar.Render(w)
}

// dataset reshapes the flat aggregation rows into chart axes: lists
// ordered by total traffic, the covered year range, and one BarData
// column per list for every year.
func dataset(counts []store.YearCount) (lists []string, years []int, perYear map[int][]opts.BarData) {
	totals := make(map[string]int)
	byListYear := make(map[string]map[int]int)
	minYear, maxYear := 0, 0

	for _, c := range counts {
		if byListYear[c.MailingList] == nil {
			byListYear[c.MailingList] = make(map[int]int)
		}
		byListYear[c.MailingList][c.Year] += c.Count
		totals[c.MailingList] += c.Count
		if minYear == 0 || c.Year < minYear {
			minYear = c.Year
		}
		if c.Year > maxYear {
			maxYear = c.Year
		}
	}

	for list := range totals {
		lists = append(lists, list)
	}
	sort.Slice(lists, func(i, j int) bool {
		if totals[lists[i]] != totals[lists[j]] {
			return totals[lists[i]] < totals[lists[j]]
		}
		return lists[i] < lists[j]
	})

	perYear = make(map[int][]opts.BarData)
	for year := minYear; year <= maxYear; year++ {
		years = append(years, year)
		for _, list := range lists {
			perYear[year] = append(perYear[year], opts.BarData{Value: byListYear[list][year]})
		}
	}
	return lists, years, perYear
}
